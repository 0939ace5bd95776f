package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"steam-review-service/internal/config"
	"steam-review-service/internal/dataset"
)

const rawReviews = `app_name,review,recommended,votes_helpful,votes_funny,author.playtime_forever,timestamp_created
Portal 2,"Brilliant puzzles and great writing overall",True,10,2,1200,1609459200
Portal 2,"BORING BORING BORING BORING",False,1,5,30,1609545600
Dota 2,"check https://spam.example for free items",False,0,0,5,1609632000
Dota 2,gg,True,0,0,80000,not a date
`

func newTestPreparer(t *testing.T, outDir string) *Preparer {
	t.Helper()
	cfg := config.Default().Prepare
	cfg.OutputDir = outDir
	p := NewPreparer(cfg, zap.NewNop())
	p.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return p
}

func TestPreparerRun(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "raw.csv")
	require.NoError(t, os.WriteFile(input, []byte(rawReviews), 0o644))
	out := filepath.Join(dir, "public")

	summary, err := newTestPreparer(t, out).Run(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.InputRows)
	assert.Equal(t, 3, summary.EndUserRows) // "gg" is too short
	assert.Equal(t, 2, summary.Games)
	assert.Equal(t, 3, summary.FlaggedRows)
	assert.Empty(t, summary.ScoreDomain)
	assert.Equal(t, "review", summary.Columns["text"])
	assert.Equal(t, "app_name", summary.Columns["game"])
	assert.Equal(t, "author.playtime_forever", summary.Columns["playtime"])
	assert.Equal(t, "timestamp_created", summary.Columns["timestamp"])
	require.Len(t, summary.TopGames, 2)
	assert.Equal(t, "Dota 2", summary.TopGames[0].Game)

	for _, name := range []string{
		filepath.Join(out, "dataset", dataset.EndUserFile),
		filepath.Join(out, "dataset", dataset.ProviderAggFile),
		filepath.Join(out, "dataset", dataset.AdminFlagsFile),
		filepath.Join(out, "svm", "outputs", dataset.MetricsFile),
		filepath.Join(out, "svm", "outputs", dataset.ConfusionMatrixFile),
	} {
		assert.FileExists(t, name)
		assert.Contains(t, summary.Files, name)
	}

	agg, err := os.ReadFile(filepath.Join(out, "dataset", dataset.ProviderAggFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(agg)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "game,total_reviews,positive,negative,helpful_sum,funny_sum,neutral,positive_rate", lines[0])
	assert.Equal(t, "Dota 2,2,1,1,0,0,0,0.5", lines[1])
	assert.Equal(t, "Portal 2,2,1,1,11,7,0,0.5", lines[2])
}

func TestPreparerMissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := newTestPreparer(t, dir).Run(context.Background(), filepath.Join(dir, "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, dataset.ErrInputNotFound))

	_, statErr := os.Stat(filepath.Join(dir, "dataset"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestPreparerUnresolvedColumn(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "raw.csv")
	require.NoError(t, os.WriteFile(input, []byte("review,app_name\nhello there,Portal\n"), 0o644))

	_, err := newTestPreparer(t, dir).Run(context.Background(), input)
	require.Error(t, err)

	var unresolved *dataset.UnresolvedRoleError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, dataset.RoleSentiment, unresolved.Role)
}

func TestPreparerCancelled(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "raw.csv")
	require.NoError(t, os.WriteFile(input, []byte(rawReviews), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestPreparer(t, filepath.Join(dir, "public")).Run(ctx, input)
	assert.ErrorIs(t, err, context.Canceled)
}

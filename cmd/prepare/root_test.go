package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `review_id,game,review_text,review_score,votes_up
r1,Hades,"Fantastic roguelike, tight combat",1,4
r2,Hades,"Too repetitive for me honestly",-1,0
r3,Celeste,"Hard but fair platforming",1,12
`

func runPrepare(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPrepareCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "raw.csv")
	require.NoError(t, os.WriteFile(input, []byte(sample), 0o644))
	out := filepath.Join(dir, "public")

	stdout, err := runPrepare(t, input, "--out", out)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Rows:           3")
	assert.Contains(t, stdout, "Score domain:   ternary")
	assert.Contains(t, stdout, "Hades")
	assert.Contains(t, stdout, "0.5000")
	assert.FileExists(t, filepath.Join(out, "dataset", "steam_reviews_small.csv"))
	assert.FileExists(t, filepath.Join(out, "svm", "outputs", "metrics.json"))
}

func TestPrepareCommandErrors(t *testing.T) {
	_, err := runPrepare(t)
	assert.ErrorContains(t, err, "input path is required")

	_, err = runPrepare(t, filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorContains(t, err, "input file not found")

	_, err = runPrepare(t, "a.csv", "b.csv")
	assert.Error(t, err)
}

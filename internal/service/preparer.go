package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"steam-review-service/internal/config"
	"steam-review-service/internal/dataset"
	"steam-review-service/internal/models"
)

// Summary describes one preparation run
type Summary struct {
	Input       string
	Columns     map[string]string
	ScoreDomain string // empty unless sentiment was inferred from scores
	InputRows   int
	EndUserRows int
	Games       int
	FlaggedRows int
	Files       []string
	TopGames    []models.ProviderAggregate
}

// Preparer turns a raw review export into the dashboard datasets
type Preparer struct {
	outputDir string
	opts      dataset.Options
	logger    *zap.Logger
	now       func() time.Time
}

// NewPreparer creates a preparer writing below cfg.OutputDir
func NewPreparer(cfg config.PrepareConfig, logger *zap.Logger) *Preparer {
	return &Preparer{
		outputDir: cfg.OutputDir,
		opts: dataset.Options{
			EndUserLimit:  cfg.EndUserLimit,
			AdminLimit:    cfg.AdminLimit,
			MinTextLength: cfg.MinTextLength,
		},
		logger: logger,
		now:    time.Now,
	}
}

// Run reads inputPath and writes every derived artifact. A missing input
// file or an unresolved required column aborts the run.
func (p *Preparer) Run(ctx context.Context, inputPath string) (*Summary, error) {
	p.logger.Info("Reading input", zap.String("path", inputPath))

	table, err := dataset.LoadTable(inputPath)
	if err != nil {
		return nil, err
	}
	p.logger.Info("Input loaded",
		zap.Strings("columns", table.Columns),
		zap.Int("rows", table.Len()))

	res, err := dataset.Normalize(table, p.opts, p.now())
	if err != nil {
		return nil, fmt.Errorf("failed to normalize %s: %w", filepath.Base(inputPath), err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := &Summary{
		Input:       inputPath,
		Columns:     res.Columns.Resolved(),
		InputRows:   table.Len(),
		EndUserRows: len(res.EndUser),
		Games:       len(res.Aggregates),
	}
	if res.ScoreDomain != nil {
		summary.ScoreDomain = res.ScoreDomain.String()
	}
	for _, f := range res.Flags {
		if f.Flag != "" {
			summary.FlaggedRows++
		}
	}
	top := res.Aggregates
	if len(top) > 10 {
		top = top[:10]
	}
	summary.TopGames = top

	p.logger.Info("Columns resolved",
		zap.Any("columns", summary.Columns),
		zap.String("score_domain", summary.ScoreDomain))

	datasetDir := filepath.Join(p.outputDir, "dataset")
	modelDir := filepath.Join(p.outputDir, "svm", "outputs")

	outputs := []struct {
		path  string
		rows  int
		write func(io.Writer) error
	}{
		{filepath.Join(datasetDir, dataset.EndUserFile), len(res.EndUser), func(w io.Writer) error {
			return dataset.WriteEndUser(w, res.EndUser)
		}},
		{filepath.Join(datasetDir, dataset.ProviderAggFile), len(res.Aggregates), func(w io.Writer) error {
			return dataset.WriteAggregates(w, res.Aggregates)
		}},
		{filepath.Join(datasetDir, dataset.AdminFlagsFile), len(res.Flags), func(w io.Writer) error {
			return dataset.WriteAdminFlags(w, res.Flags)
		}},
		{filepath.Join(modelDir, dataset.ConfusionMatrixFile), len(dataset.PlaceholderConfusion), func(w io.Writer) error {
			return dataset.WriteConfusionMatrix(w, dataset.PlaceholderConfusion)
		}},
	}

	for _, out := range outputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := dataset.WriteFile(out.path, out.write); err != nil {
			return nil, err
		}
		summary.Files = append(summary.Files, out.path)
		p.logger.Info("Wrote artifact", zap.String("path", out.path), zap.Int("rows", out.rows))
	}

	metricsPath := filepath.Join(modelDir, dataset.MetricsFile)
	if err := dataset.WriteJSONFile(metricsPath, dataset.PlaceholderMetrics); err != nil {
		return nil, err
	}
	summary.Files = append(summary.Files, metricsPath)
	p.logger.Info("Wrote placeholder metrics", zap.String("path", metricsPath))

	return summary, nil
}

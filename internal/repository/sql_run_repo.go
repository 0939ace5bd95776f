package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"steam-review-service/internal/models"
)

type runRow struct {
	Seq       int64   `db:"seq"`
	RunID     string  `db:"run_id"`
	CreatedAt string  `db:"created_at"`
	Accuracy  float64 `db:"accuracy"`
	F1        float64 `db:"f1"`
	Params    string  `db:"params"`
}

// SQLRunRepository keeps the run history in the train_runs table. Each run is
// one INSERT, so concurrent writers cannot overwrite each other.
type SQLRunRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewSQLRunRepository migrates db and returns a repository on top of it
func NewSQLRunRepository(db *sqlx.DB, logger *zap.Logger) (*SQLRunRepository, error) {
	if err := MigrateDB(db, logger); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("SQL run repository initialized", zap.String("driver", db.DriverName()))

	return &SQLRunRepository{db: db, logger: logger}, nil
}

// Prepend saves run as the newest entry
func (r *SQLRunRepository) Prepend(ctx context.Context, run *models.TrainRun) error {
	params, err := json.Marshal(paramsOrEmpty(run.Params))
	if err != nil {
		return fmt.Errorf("failed to encode run params: %w", err)
	}

	query := r.db.Rebind(`
		INSERT INTO train_runs (run_id, created_at, accuracy, f1, params)
		VALUES (?, ?, ?, ?, ?)
	`)

	if _, err := r.db.ExecContext(ctx, query, run.ID, run.CreatedAt, run.Accuracy, run.F1, string(params)); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// List returns every run, newest first
func (r *SQLRunRepository) List(ctx context.Context) ([]*models.TrainRun, error) {
	query := `
		SELECT seq, run_id, created_at, accuracy, f1, params
		FROM train_runs
		ORDER BY seq DESC
	`

	var rows []runRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}

	runs := make([]*models.TrainRun, 0, len(rows))
	for _, row := range rows {
		run := &models.TrainRun{
			ID:        row.RunID,
			CreatedAt: row.CreatedAt,
			Accuracy:  row.Accuracy,
			F1:        row.F1,
		}
		if err := json.Unmarshal([]byte(row.Params), &run.Params); err != nil {
			// keep the run; only its params are unreadable
			r.logger.Warn("Failed to decode run params", zap.String("run_id", row.RunID), zap.Error(err))
			run.Params = map[string]interface{}{}
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// Close closes the database connection
func (r *SQLRunRepository) Close() error {
	return r.db.Close()
}

func paramsOrEmpty(p map[string]interface{}) map[string]interface{} {
	if p == nil {
		return map[string]interface{}{}
	}
	return p
}

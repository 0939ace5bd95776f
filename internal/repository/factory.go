package repository

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"steam-review-service/internal/config"
)

// NewRunRepository builds the run history backend selected in cfg
func NewRunRepository(cfg *config.Config, logger *zap.Logger) (RunRepository, error) {
	switch cfg.Runs.Backend {
	case config.RunsBackendJSON:
		return NewJSONRunRepository(cfg.Runs.JSONPath, logger)
	case config.RunsBackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		db, err := NewDB(DriverSQLite, cfg.Database.Path, logger)
		if err != nil {
			return nil, err
		}
		return NewSQLRunRepository(db, logger)
	case config.RunsBackendPostgres:
		db, err := NewDB(DriverPostgres, cfg.Database.URL, logger)
		if err != nil {
			return nil, err
		}
		return NewSQLRunRepository(db, logger)
	default:
		return nil, fmt.Errorf("unknown runs backend %q", cfg.Runs.Backend)
	}
}

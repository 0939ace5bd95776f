package repository

import (
	"context"

	"steam-review-service/internal/models"
)

// RunRepository stores the training run history, newest first
type RunRepository interface {
	// Prepend records run as the newest entry. Concurrent calls never drop
	// entries.
	Prepend(ctx context.Context, run *models.TrainRun) error
	// List returns every run, newest first
	List(ctx context.Context) ([]*models.TrainRun, error)
	Close() error
}

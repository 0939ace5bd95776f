package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"steam-review-service/internal/models"
)

// JSONRunRepository keeps the run history in a pretty-printed JSON array.
// Writers are serialized in-process by a mutex and across processes by a
// lock file next to the log.
type JSONRunRepository struct {
	path   string
	mu     sync.Mutex
	lock   *flock.Flock
	logger *zap.Logger
}

// NewJSONRunRepository creates a repository backed by path
func NewJSONRunRepository(path string, logger *zap.Logger) (*JSONRunRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create run log directory: %w", err)
	}

	logger.Info("JSON run repository initialized", zap.String("path", path))

	return &JSONRunRepository{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logger,
	}, nil
}

// Prepend inserts run at the front of the log
func (r *JSONRunRepository) Prepend(ctx context.Context, run *models.TrainRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock run log: %w", err)
	}
	defer func() {
		if err := r.lock.Unlock(); err != nil {
			r.logger.Warn("Failed to release run log lock", zap.Error(err))
		}
	}()

	runs, err := r.read()
	if err != nil {
		return err
	}
	runs = append([]*models.TrainRun{run}, runs...)

	return r.write(runs)
}

// List returns the logged runs; a missing log is empty
func (r *JSONRunRepository) List(ctx context.Context) ([]*models.TrainRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.lock.RLock(); err != nil {
		return nil, fmt.Errorf("failed to lock run log: %w", err)
	}
	defer r.lock.Unlock()

	return r.read()
}

// Close releases the lock file handle
func (r *JSONRunRepository) Close() error {
	return r.lock.Close()
}

func (r *JSONRunRepository) read() ([]*models.TrainRun, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return []*models.TrainRun{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read run log: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []*models.TrainRun{}, nil
	}

	runs := []*models.TrainRun{}
	if err := json.Unmarshal(data, &runs); err != nil {
		return nil, fmt.Errorf("failed to decode run log: %w", err)
	}
	return runs, nil
}

// write replaces the log atomically via a temp file in the same directory
func (r *JSONRunRepository) write(runs []*models.TrainRun) error {
	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode run log: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp run log: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set run log mode: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write run log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write run log: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace run log: %w", err)
	}
	return nil
}

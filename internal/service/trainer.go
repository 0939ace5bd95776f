package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"steam-review-service/internal/dataset"
	"steam-review-service/internal/models"
	"steam-review-service/internal/repository"
)

// ErrJobNotFound is returned for unknown job ids
var ErrJobNotFound = errors.New("job not found")

// Fixed results reported by every training job until a real model is wired in
const (
	trainAccuracy = 0.91
	trainF1       = 0.91
)

// JobObserver is notified when a training job finishes
type JobObserver interface {
	TrainJobFinished(status string)
}

// Trainer runs training jobs in the background and records their results
type Trainer struct {
	runs       repository.RunRepository
	outputsDir string
	observer   JobObserver
	logger     *zap.Logger
	now        func() time.Time

	mu   sync.RWMutex
	jobs map[string]*models.Job
	wg   sync.WaitGroup

	metricsMu sync.Mutex // serializes metrics.json writes
}

// NewTrainer creates a trainer writing metrics into outputsDir.
// observer may be nil.
func NewTrainer(runs repository.RunRepository, outputsDir string, observer JobObserver, logger *zap.Logger) *Trainer {
	return &Trainer{
		runs:       runs,
		outputsDir: outputsDir,
		observer:   observer,
		logger:     logger,
		now:        time.Now,
		jobs:       make(map[string]*models.Job),
	}
}

// Start queues a training job and returns immediately
func (t *Trainer) Start(req models.TrainRequest) (*models.Job, error) {
	job := &models.Job{
		ID:         uuid.New().String(),
		Status:     models.JobPending,
		DatasetRef: req.DatasetRef,
		CreatedAt:  t.now(),
	}

	t.mu.Lock()
	t.jobs[job.ID] = job
	t.mu.Unlock()

	t.wg.Add(1)
	go t.processJob(job.ID, req)

	t.logger.Info("Training job started",
		zap.String("job_id", job.ID),
		zap.String("dataset", req.DatasetRef))

	return t.snapshot(job), nil
}

// processJob writes the metrics file and records the run
func (t *Trainer) processJob(jobID string, req models.TrainRequest) {
	defer t.wg.Done()
	ctx := context.Background()

	t.update(jobID, func(j *models.Job) { j.Status = models.JobProcessing })

	run, err := t.train(ctx, req)

	status := models.JobCompleted
	if err != nil {
		status = models.JobFailed
		t.logger.Error("Training job failed", zap.String("job_id", jobID), zap.Error(err))
	} else {
		t.logger.Info("Training job completed",
			zap.String("job_id", jobID),
			zap.String("run_id", run.ID),
			zap.Float64("accuracy", run.Accuracy))
	}

	t.update(jobID, func(j *models.Job) {
		completedAt := t.now()
		j.Status = status
		j.CompletedAt = &completedAt
		if err != nil {
			j.ErrorMessage = err.Error()
		} else {
			j.RunID = run.ID
		}
	})

	if t.observer != nil {
		t.observer.TrainJobFinished(status)
	}
}

func (t *Trainer) train(ctx context.Context, req models.TrainRequest) (*models.TrainRun, error) {
	metrics := models.TrainMetrics{
		Accuracy: trainAccuracy,
		F1:       trainF1,
		Params:   req.Params,
	}
	t.metricsMu.Lock()
	err := dataset.WriteJSONFile(filepath.Join(t.outputsDir, dataset.MetricsFile), metrics)
	t.metricsMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to write metrics: %w", err)
	}

	now := t.now()
	run := &models.TrainRun{
		ID:        strconv.FormatInt(now.Unix(), 10),
		CreatedAt: now.Format("2006-01-02T15:04:05"),
		Accuracy:  metrics.Accuracy,
		F1:        metrics.F1,
		Params:    req.Params,
	}
	if err := t.runs.Prepend(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	return run, nil
}

// GetJob returns a copy of the job state
func (t *Trainer) GetJob(jobID string) (*models.Job, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	job, ok := t.jobs[jobID]
	if !ok {
		return nil, ErrJobNotFound
	}
	cp := *job
	return &cp, nil
}

// ListRuns returns the run history, newest first
func (t *Trainer) ListRuns(ctx context.Context) ([]*models.TrainRun, error) {
	return t.runs.List(ctx)
}

// Wait blocks until every started job has finished
func (t *Trainer) Wait() {
	t.wg.Wait()
}

func (t *Trainer) update(jobID string, fn func(*models.Job)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if job, ok := t.jobs[jobID]; ok {
		fn(job)
	}
}

func (t *Trainer) snapshot(job *models.Job) *models.Job {
	t.mu.RLock()
	defer t.mu.RUnlock()
	cp := *job
	return &cp
}

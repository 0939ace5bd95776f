package models

import "time"

// TrainRequest is the body of POST /svm/train
type TrainRequest struct {
	DatasetRef string                 `json:"datasetRef" binding:"required"`
	Params     map[string]interface{} `json:"params" binding:"required"`
}

// TrainMetrics is written to metrics.json by a training job
type TrainMetrics struct {
	Accuracy float64                `json:"accuracy"`
	F1       float64                `json:"f1"`
	Params   map[string]interface{} `json:"params"`
}

// TrainRun is one entry of the run history, newest first
type TrainRun struct {
	ID        string                 `json:"id"`         // unix seconds at completion
	CreatedAt string                 `json:"created_at"` // local time, 2006-01-02T15:04:05
	Accuracy  float64                `json:"accuracy"`
	F1        float64                `json:"f1"`
	Params    map[string]interface{} `json:"params"`
}

// Job status values
const (
	JobPending    = "pending"
	JobProcessing = "processing"
	JobCompleted  = "completed"
	JobFailed     = "failed"
)

// Job represents an async training job
type Job struct {
	ID           string     `json:"id"`
	Status       string     `json:"status"`
	DatasetRef   string     `json:"dataset_ref"`
	RunID        string     `json:"run_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

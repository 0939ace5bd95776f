package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"steam-review-service/internal/models"
	"steam-review-service/internal/service"
)

const defaultPreviewHead = 10

// StaticDirs are the directories exposed for download
type StaticDirs struct {
	Inputs  string // /svm/inputs
	Outputs string // /svm/outputs
	Dataset string // /dataset
}

// Handler handles HTTP requests
type Handler struct {
	datasets *service.DatasetService
	trainer  *service.Trainer
	dirs     StaticDirs
	metrics  http.Handler
	logger   *zap.Logger
}

// NewHandler creates a new API handler. metrics may be nil, in which case
// /metrics is not registered.
func NewHandler(datasets *service.DatasetService, trainer *service.Trainer, dirs StaticDirs, metrics http.Handler, logger *zap.Logger) *Handler {
	return &Handler{
		datasets: datasets,
		trainer:  trainer,
		dirs:     dirs,
		metrics:  metrics,
		logger:   logger,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	svm := r.Group("/svm")
	{
		// Datasets
		svm.POST("/datasets/upload", h.UploadDataset)
		svm.GET("/datasets/list.json", h.ListDatasets)
		svm.GET("/preview", h.Preview)
		svm.GET("/heatmap", h.Heatmap)

		// Training
		svm.POST("/train", h.Train)
		svm.GET("/train/jobs/:id", h.GetJobStatus)
		svm.GET("/runs.json", h.ListRuns)

		svm.Static("/inputs", h.dirs.Inputs)
		svm.Static("/outputs", h.dirs.Outputs)
	}
	r.Static("/dataset", h.dirs.Dataset)

	r.GET("/health", h.HealthCheck)
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics))
	}
}

// UploadDataset stores the multipart "file" part in the inputs directory
func (h *Handler) UploadDataset(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file part"})
		return
	}

	f, err := header.Open()
	if err != nil {
		h.logger.Error("Failed to open upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	defer f.Close()

	path, err := h.datasets.Save(header.Filename, f)
	if err != nil {
		if errors.Is(err, service.ErrInvalidName) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to save upload", zap.String("filename", header.Filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"path": path})
}

// ListDatasets returns the public paths of every uploaded CSV
func (h *Handler) ListDatasets(c *gin.Context) {
	paths, err := h.datasets.List()
	if err != nil {
		h.logger.Error("Failed to list datasets", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list datasets"})
		return
	}

	c.JSON(http.StatusOK, paths)
}

// Preview returns the header and first rows of a dataset
func (h *Handler) Preview(c *gin.Context) {
	ref := c.Query("csv")
	if ref == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "csv is required"})
		return
	}

	head := defaultPreviewHead
	if raw := c.Query("head"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "head must be an integer"})
			return
		}
		head = n
	}

	preview, err := h.datasets.Preview(ref, head)
	if err != nil {
		h.datasetError(c, ref, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

// Heatmap returns the correlation matrix of a dataset's numeric columns
func (h *Handler) Heatmap(c *gin.Context) {
	ref := c.Query("csv")
	if ref == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "csv is required"})
		return
	}

	heat, err := h.datasets.Heatmap(ref)
	if err != nil {
		h.datasetError(c, ref, err)
		return
	}

	c.JSON(http.StatusOK, heat)
}

// Train starts a background training job
func (h *Handler) Train(c *gin.Context) {
	var req models.TrainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.trainer.Start(req)
	if err != nil {
		h.logger.Error("Failed to start training job", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start training"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status": "started",
		"job_id": job.ID,
	})
}

// GetJobStatus returns training job status
func (h *Handler) GetJobStatus(c *gin.Context) {
	job, err := h.trainer.GetJob(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListRuns returns the run history, newest first
func (h *Handler) ListRuns(c *gin.Context) {
	runs, err := h.trainer.ListRuns(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list runs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}
	if runs == nil {
		runs = []*models.TrainRun{}
	}

	c.JSON(http.StatusOK, runs)
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "svm-api",
		"version": "1.0.0",
	})
}

func (h *Handler) datasetError(c *gin.Context, ref string, err error) {
	switch {
	case errors.Is(err, service.ErrDatasetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidName):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Failed to read dataset", zap.String("csv", ref), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read dataset"})
	}
}

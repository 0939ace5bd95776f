package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"steam-review-service/internal/metrics"
	"steam-review-service/internal/models"
	"steam-review-service/internal/repository"
	"steam-review-service/internal/service"
)

type testServer struct {
	router  *gin.Engine
	trainer *service.Trainer
	dirs    StaticDirs
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	root := t.TempDir()
	dirs := StaticDirs{
		Inputs:  filepath.Join(root, "inputs"),
		Outputs: filepath.Join(root, "outputs"),
		Dataset: filepath.Join(root, "dataset"),
	}
	for _, d := range []string{dirs.Inputs, dirs.Outputs, dirs.Dataset} {
		require.NoError(t, os.MkdirAll(d, 0o755))
	}

	logger := zap.NewNop()
	repo, err := repository.NewJSONRunRepository(filepath.Join(dirs.Outputs, "runs.json"), logger)
	require.NoError(t, err)

	m := metrics.New()
	trainer := service.NewTrainer(repo, dirs.Outputs, m, logger)
	t.Cleanup(func() {
		trainer.Wait()
		repo.Close()
	})
	datasets := service.NewDatasetService(dirs.Inputs, m, logger)

	r := gin.New()
	r.Use(m.Middleware())
	NewHandler(datasets, trainer, dirs, m.Handler(), logger).RegisterRoutes(r)

	return &testServer{router: r, trainer: trainer, dirs: dirs}
}

func (s *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) upload(t *testing.T, name, content string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/svm/datasets/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return s.do(t, req)
}

func TestUploadListAndDownload(t *testing.T) {
	s := newTestServer(t)

	rec := s.upload(t, "reviews.csv", "x,y\n1,2\n2,5\n3,7\n")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"path":"/svm/inputs/reviews.csv"}`, rec.Body.String())

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/svm/datasets/list.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["/svm/inputs/reviews.csv"]`, rec.Body.String())

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/svm/inputs/reviews.csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "x,y\n1,2\n2,5\n3,7\n", rec.Body.String())
}

func TestUploadMissingFile(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/svm/datasets/upload", nil)
	rec := s.do(t, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestPreviewAndHeatmap(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.upload(t, "d.csv", "name,x,y\na,1,2\nb,2,4\nc,3,\n").Code)

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/svm/preview?csv=/svm/inputs/d.csv&head=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"columns": ["name", "x", "y"],
		"rows": [{"name": "a", "x": 1, "y": 2}, {"name": "b", "x": 2, "y": 4}]
	}`, rec.Body.String())

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/svm/preview?csv=d.csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var preview struct {
		Rows []map[string]interface{} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &preview))
	require.Len(t, preview.Rows, 3)
	assert.Nil(t, preview.Rows[2]["y"])

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/svm/heatmap?csv=d.csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var heat struct {
		Cols   []string     `json:"cols"`
		Matrix [][]*float64 `json:"matrix"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &heat))
	assert.Equal(t, []string{"x", "y"}, heat.Cols)
	require.Len(t, heat.Matrix, 2)
	require.NotNil(t, heat.Matrix[0][1])
	assert.InDelta(t, 1.0, *heat.Matrix[0][1], 1e-9)
}

func TestDatasetErrors(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		url  string
		code int
	}{
		{"/svm/preview", http.StatusBadRequest},
		{"/svm/preview?csv=a.csv&head=ten", http.StatusBadRequest},
		{"/svm/preview?csv=missing.csv", http.StatusNotFound},
		{"/svm/heatmap", http.StatusBadRequest},
		{"/svm/heatmap?csv=missing.csv", http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := s.do(t, httptest.NewRequest(http.MethodGet, tc.url, nil))
		assert.Equal(t, tc.code, rec.Code, tc.url)
	}
}

func TestTrainFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/svm/runs.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	body := `{"datasetRef": "/svm/inputs/d.csv", "params": {"C": 0.5}}`
	req := httptest.NewRequest(http.MethodPost, "/svm/train", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec = s.do(t, req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var started map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
	assert.Equal(t, "started", started["status"])
	require.NotEmpty(t, started["job_id"])

	s.trainer.Wait()

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/svm/train/jobs/"+started["job_id"], nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var job models.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
	assert.Equal(t, models.JobCompleted, job.Status)

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/svm/runs.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var runs []models.TrainRun
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, job.RunID, runs[0].ID)
	assert.Equal(t, 0.5, runs[0].Params["C"])
	_, err := time.ParseInLocation("2006-01-02T15:04:05", runs[0].CreatedAt, time.Local)
	assert.NoError(t, err)

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/svm/outputs/metrics.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"accuracy": 0.91, "f1": 0.91, "params": {"C": 0.5}}`, rec.Body.String())
}

func TestTrainBadRequest(t *testing.T) {
	s := newTestServer(t)

	for _, body := range []string{`not json`, `{"params": {}}`, `{"datasetRef": "a.csv"}`} {
		req := httptest.NewRequest(http.MethodPost, "/svm/train", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rec := s.do(t, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/svm/train/jobs/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `svm_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

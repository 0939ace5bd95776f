package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/svm/runs.json", func(c *gin.Context) { c.JSON(http.StatusOK, []string{}) })

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/svm/runs.json", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/svm/runs.json", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
}

func TestCountersAndHandler(t *testing.T) {
	m := New()
	m.TrainJobFinished("completed")
	m.TrainJobFinished("completed")
	m.DatasetUploaded(128)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.trainJobs.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploads))
	assert.Equal(t, 128.0, testutil.ToFloat64(m.uploadBytes))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `svm_train_jobs_total{status="completed"} 2`))
	assert.Contains(t, body, "svm_dataset_upload_bytes_total 128")
}

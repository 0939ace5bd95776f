// Package metrics exposes prometheus collectors for the HTTP service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	trainJobs       *prometheus.CounterVec
	uploads         prometheus.Counter
	uploadBytes     prometheus.Counter
}

// New registers every collector on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "svm_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "svm_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		trainJobs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "svm_train_jobs_total",
				Help: "Training jobs by final status",
			},
			[]string{"status"},
		),
		uploads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "svm_dataset_uploads_total",
			Help: "Total number of uploaded datasets",
		}),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "svm_dataset_upload_bytes_total",
			Help: "Total bytes of uploaded datasets",
		}),
	}

	m.registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.trainJobs,
		m.uploads,
		m.uploadBytes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Middleware records request counts and latency per route
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// TrainJobFinished counts a finished training job
func (m *Metrics) TrainJobFinished(status string) {
	m.trainJobs.WithLabelValues(status).Inc()
}

// DatasetUploaded counts an upload of size bytes
func (m *Metrics) DatasetUploaded(size int64) {
	m.uploads.Inc()
	m.uploadBytes.Add(float64(size))
}

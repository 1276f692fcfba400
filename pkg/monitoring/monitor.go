package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	ModuleCompletions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "training_module_completions_total",
			Help: "Modules that crossed their completion threshold",
		},
		[]string{"module_type"},
	)

	QuizSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "training_quiz_submissions_total",
			Help: "Graded quiz submissions",
		},
		[]string{"result"},
	)

	SeekRejections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "training_video_seek_rejections_total",
			Help: "Video samples rejected for skipping ahead",
		},
	)

	CourseCompletions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "training_course_completions_total",
			Help: "Assignments that reached completed",
		},
	)

	PersistenceFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "training_persistence_failures_total",
			Help: "Progress writes that failed and were left retryable",
		},
		[]string{"operation"},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			ModuleCompletions,
			QuizSubmissions,
			SeekRejections,
			CourseCompletions,
			PersistenceFailures,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

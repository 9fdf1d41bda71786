package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// UnmatchedPath labels requests that matched no route.
const UnmatchedPath = "unmatched"

// Recorder holds the collectors exported by a connectable engine.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	// HTTPRequestsTotal counts requests by route, method and transport status
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTPRequestDuration records request latency by route and method
	HTTPRequestDuration *prometheus.HistogramVec
	// ErrorsHandled counts errors answered by the error middleware
	ErrorsHandled *prometheus.CounterVec
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "connectable_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"path", "method", "code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "connectable_http_request_duration_seconds",
				Help:    "Latency in seconds of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
		ErrorsHandled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "connectable_errors_handled_total",
				Help: "Total number of errors converted into error responses",
			},
			[]string{"status", "code"},
		),
	}
	reg.MustRegister(r.HTTPRequestsTotal, r.HTTPRequestDuration, r.ErrorsHandled)
	return r
}

// ObserveError records one handled error with its semantic and transport status.
func (r *Recorder) ObserveError(status string, code int) {
	if r == nil {
		return
	}
	r.ErrorsHandled.WithLabelValues(status, strconv.Itoa(code)).Inc()
}

// Middleware records HTTP request counts and durations
func (r *Recorder) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if r == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		// Route template (e.g. /api/v1/items/:id), never the raw URL.
		path := c.FullPath()
		if path == "" {
			path = UnmatchedPath
		}
		method := c.Request.Method
		r.HTTPRequestsTotal.WithLabelValues(path, method, strconv.Itoa(c.Writer.Status())).Inc()
		r.HTTPRequestDuration.WithLabelValues(path, method).Observe(time.Since(start).Seconds())
	}
}

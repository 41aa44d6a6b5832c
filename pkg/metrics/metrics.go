package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the contact backend
type Metrics struct {
	submissionsTotal     *prometheus.CounterVec
	submissionDuration   *prometheus.HistogramVec
	validationRejections *prometheus.CounterVec
	activeSessions       prometheus.Gauge
	requestsTotal        *prometheus.CounterVec
	requestDuration      *prometheus.HistogramVec
}

// New registers the collectors on reg under the given namespace
func New(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		submissionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "contact",
			Name:      "submissions_total",
			Help:      "Contact form gateway attempts by channel and outcome",
		}, []string{"channel", "outcome"}),

		submissionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "contact",
			Name:      "submission_duration_seconds",
			Help:      "Time spent in the email gateway",
			Buckets:   prometheus.DefBuckets,
		}, []string{"channel"}),

		validationRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "contact",
			Name:      "validation_rejections_total",
			Help:      "Submit attempts rejected by validation, per flagged field",
		}, []string{"field"}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "contact",
			Name:      "active_sessions",
			Help:      "Open server-hosted contact form sessions",
		}),

		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// RecordSubmission counts one gateway attempt
func (m *Metrics) RecordSubmission(channel string, err error, took time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.submissionsTotal.WithLabelValues(channel, outcome).Inc()
	m.submissionDuration.WithLabelValues(channel).Observe(took.Seconds())
}

// RecordRejection counts one flagged field of a rejected submit
func (m *Metrics) RecordRejection(field string) {
	if m == nil {
		return
	}
	m.validationRejections.WithLabelValues(field).Inc()
}

// SessionOpened increments the active session gauge
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

// SessionClosed decrements the active session gauge
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}

// Middleware records request counts and latency per matched route
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

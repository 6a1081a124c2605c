package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "report_designer",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and status",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	designerOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "report_designer",
		Subsystem: "designer",
		Name:      "operations_total",
		Help:      "Editing session operations by outcome",
	}, []string{"operation", "outcome"})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "report_designer",
		Subsystem: "sessions",
		Name:      "active",
		Help:      "Live editing sessions",
	})
)

// RecordOperation counts one session operation
func RecordOperation(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	designerOperations.WithLabelValues(operation, outcome).Inc()
}

// SetActiveSessions publishes the live session count
func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

// MetricsHandler serves the prometheus registry
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

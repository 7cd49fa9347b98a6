// Package metrics exposes Prometheus counters for the app.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pointage_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pointage_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	recordWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pointage_record_writes_total",
		Help: "Count of record writes by kind and action",
	}, []string{"kind", "action"})

	dashboardBuilds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pointage_dashboard_build_duration_seconds",
		Help:    "Duration of dashboard aggregation builds",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pointage_cache_lookups_total",
		Help: "Dashboard cache lookups by outcome",
	}, []string{"outcome"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pointage_login_attempts_total",
		Help: "Login attempts by method and result",
	}, []string{"method", "result"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveRecordWrite increments the write counter for one record write.
func ObserveRecordWrite(kind, action string) {
	recordWrites.WithLabelValues(kind, action).Inc()
}

// ObserveDashboardBuild records the duration of one dashboard aggregation.
func ObserveDashboardBuild(result string, duration time.Duration) {
	dashboardBuilds.WithLabelValues(result).Observe(duration.Seconds())
}

// ObserveCacheLookup records a dashboard cache hit or miss.
func ObserveCacheLookup(outcome string) {
	cacheLookups.WithLabelValues(outcome).Inc()
}

// ObserveLogin records a login attempt.
func ObserveLogin(method, result string) {
	loginAttempts.WithLabelValues(method, result).Inc()
}

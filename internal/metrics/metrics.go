// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "musiccatalog_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "musiccatalog_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	BlacklistPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "musiccatalog_blacklist_purged_total",
			Help: "Expired blacklisted tokens removed by the sweeper",
		},
	)

	BlacklistSweepErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "musiccatalog_blacklist_sweep_errors_total",
			Help: "Failed blacklist sweeps",
		},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordSweep records the outcome of one blacklist sweep.
func RecordSweep(purged int64, err error) {
	if err != nil {
		BlacklistSweepErrors.Inc()
		return
	}
	BlacklistPurged.Add(float64(purged))
}

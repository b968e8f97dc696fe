package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ── HTTP request metrics (RED method) ──────────────────────────────────

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smartchef_pools",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status_code"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "smartchef_pools",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	HTTPRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "smartchef_pools",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being processed.",
	})
)

// ── Upstream collaborator metrics ──────────────────────────────────────

var (
	UpstreamCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smartchef_pools",
		Subsystem: "upstream",
		Name:      "calls_total",
		Help:      "Total number of upstream calls per collaborator.",
	}, []string{"upstream", "status"})

	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "smartchef_pools",
		Subsystem: "upstream",
		Name:      "duration_seconds",
		Help:      "Duration of upstream calls per collaborator in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"upstream"})
)

// ── Business metrics ───────────────────────────────────────────────────

var (
	PoolsServed = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "smartchef_pools",
		Subsystem: "business",
		Name:      "pools_served",
		Help:      "Number of active pools in the most recent response.",
	})

	APRUnavailableTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smartchef_pools",
		Subsystem: "business",
		Name:      "apr_unavailable_total",
		Help:      "Total pools served with a null APR, by reason.",
	}, []string{"reason"})
)

// ObserveUpstream records one upstream call outcome.
func ObserveUpstream(upstream string, seconds float64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	UpstreamCallsTotal.WithLabelValues(upstream, status).Inc()
	UpstreamDuration.WithLabelValues(upstream).Observe(seconds)
}

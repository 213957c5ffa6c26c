package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barbertrack",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "barbertrack",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	dashboardLoads = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "barbertrack",
			Subsystem: "dashboard",
			Name:      "load_duration_seconds",
			Help:      "Duration of full dashboard reloads.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"result"},
	)

	mutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barbertrack",
			Subsystem: "dashboard",
			Name:      "mutations_total",
			Help:      "Dashboard mutations by kind and outcome.",
		},
		[]string{"kind", "result"},
	)

	reportDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barbertrack",
			Subsystem: "report",
			Name:      "deliveries_total",
			Help:      "Daily report deliveries by channel and status.",
		},
		[]string{"channel", "status"},
	)
)

func init() {
	Registry.MustRegister(httpRequests, httpDuration, dashboardLoads, mutations, reportDeliveries)
}

// Handler exposes the registry for scraping.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records one handled request. path should be the route
// template, not the raw URL, to keep label cardinality bounded.
func ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	if path == "" {
		path = "unmatched"
	}
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func ObserveDashboardLoad(result string, d time.Duration) {
	dashboardLoads.WithLabelValues(result).Observe(d.Seconds())
}

func RecordMutation(kind, result string) {
	mutations.WithLabelValues(kind, result).Inc()
}

func RecordReportDelivery(channel, status string) {
	reportDeliveries.WithLabelValues(channel, status).Inc()
}

package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	ActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_connections",
			Help: "Number of active connections",
		},
	)

	XRPCCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xrpc_calls_total",
			Help: "Total number of calls made to the Bluesky API",
		},
		[]string{"method", "outcome"},
	)

	XRPCCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "xrpc_call_duration_seconds",
			Help:    "Duration of calls made to the Bluesky API",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	FeedEntries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_entries_total",
			Help: "Total number of author feed entries fetched, by kind",
		},
		[]string{"kind"},
	)
)

// Registry holds every collector of this package plus the Go runtime ones.
var Registry = newRegistry()

func newRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HttpRequestsTotal,
		HttpRequestDuration,
		ActiveConnections,
		XRPCCalls,
		XRPCCallDuration,
		FeedEntries,
	)
	return registry
}

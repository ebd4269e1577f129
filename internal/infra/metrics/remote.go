package metrics

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		remoteCallsTotal,
		remoteCallLatencyMs,
	)
}

var (
	remoteCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remote_calls_total",
			Help: "Remote service calls per operation/provider and outcome.",
		},
		[]string{"operation", "provider", "success"},
	)

	remoteCallLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "remote_call_latency_ms",
			Help:    "Remote call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
		[]string{"operation", "provider"},
	)
)

// ObserveRemoteCall records one completion/search/transcription exchange.
func ObserveRemoteCall(operation, provider string, latencyMs int, success bool) {
	remoteCallsTotal.WithLabelValues(norm(operation), norm(provider), strconv.FormatBool(success)).Inc()
	remoteCallLatencyMs.WithLabelValues(norm(operation), norm(provider)).Observe(float64(latencyMs))
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

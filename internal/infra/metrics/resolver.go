package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(resolverAttempts) }

var resolverAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "session_resolver_attempts_total",
		Help: "Session resolution attempts per strategy and outcome.",
	},
	[]string{"strategy", "outcome"}, // outcome="ok"|"fail"|"cached"
)

func IncResolverAttempt(strategy, outcome string) {
	resolverAttempts.WithLabelValues(norm(strategy), norm(outcome)).Inc()
}

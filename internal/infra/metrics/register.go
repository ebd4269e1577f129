// Package metrics defines one collector file per concern: remote calls,
// session resolution, caches. Each file enqueues its collectors from init();
// the process registers the whole set once at startup.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once
	pending      []prometheus.Collector
)

func register(cs ...prometheus.Collector) {
	pending = append(pending, cs...)
}

// MustRegister installs every enqueued collector. Safe to call more than
// once; only the first call does anything.
func MustRegister() {
	registerOnce.Do(func() {
		if len(pending) > 0 {
			prometheus.MustRegister(pending...)
		}
	})
}

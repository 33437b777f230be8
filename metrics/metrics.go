// Package metrics instruments gas estimation calls. The library exposes a
// collector only; serving the registry is the embedding service's business.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "useropgas"

// Collector counts estimation calls per strategy and outcome and tracks
// their latency. A nil *Collector is valid and records nothing.
type Collector struct {
	estimations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		estimations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "estimations_total",
			Help:      "preVerificationGas estimations by chain strategy and outcome",
		}, []string{"strategy", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "estimation_duration_seconds",
			Help:      "Wall time of preVerificationGas estimations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"strategy"}),
	}
}

// ObserveEstimation records one finished estimation call.
func (c *Collector) ObserveEstimation(strategy, outcome string, seconds float64) {
	if c == nil {
		return
	}
	c.estimations.WithLabelValues(strategy, outcome).Inc()
	c.duration.WithLabelValues(strategy).Observe(seconds)
}

package inference

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics aggregates the client's Prometheus instruments. When no registerer
// is supplied the instruments are created unregistered, which keeps the hot
// path identical and the metrics invisible.
type metrics struct {
	requests  *prometheus.CounterVec
	cacheHits *prometheus.CounterVec
	latency   *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopmesh",
			Subsystem: "inference",
			Name:      "requests_total",
			Help:      "Inference endpoint invocations by model and outcome.",
		}, []string{"model", "outcome"}),
		cacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopmesh",
			Subsystem: "inference",
			Name:      "cache_hits_total",
			Help:      "Invocations served from the response cache.",
		}, []string{"model"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shopmesh",
			Subsystem: "inference",
			Name:      "request_duration_seconds",
			Help:      "Wall-clock duration of inference invocations including rate-limit waits and retries.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"model"}),
	}
}

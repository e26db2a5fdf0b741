// Package telemetry exposes prometheus metrics for the chat pipeline.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ChatRequests      *prometheus.CounterVec
	GenerationSeconds prometheus.Histogram
}

// NewMetrics registers chat metrics on reg (pass
// prometheus.DefaultRegisterer in production).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ChatRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "campusite_chat_requests_total",
			Help: "Chat requests by outcome.",
		}, []string{"outcome"}),
		GenerationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "campusite_generation_seconds",
			Help:    "Latency of upstream generation calls.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Outcome labels for ChatRequests.
const (
	OutcomeOK          = "ok"
	OutcomeRateLimited = "rate_limited"
	OutcomeGreeting    = "greeting"
	OutcomeIntro       = "intro"
	OutcomeError       = "error"
)

// Observe is nil-safe so callers can run without metrics in tests.
func (m *Metrics) Observe(outcome string) {
	if m == nil {
		return
	}
	m.ChatRequests.WithLabelValues(outcome).Inc()
}

// ObserveGeneration records one generation latency sample.
func (m *Metrics) ObserveGeneration(seconds float64) {
	if m == nil {
		return
	}
	m.GenerationSeconds.Observe(seconds)
}

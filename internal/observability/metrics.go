// Package observability groups the Prometheus instruments exposed on /metrics.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all instruments used by the service.
type Metrics struct {
	ChatRequests     *prometheus.CounterVec
	SegmentsPerReply prometheus.Histogram
	SynthesisSeconds prometheus.Histogram
	ProviderErrors   *prometheus.CounterVec
}

// NewMetrics registers the instruments under the given namespace.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		ChatRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_requests_total",
			Help:      "Chat requests by outcome (intro, ok, busy, error).",
		}, []string{"outcome"}),
		SegmentsPerReply: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "segments_per_reply",
			Help:      "Number of reply segments produced per chat request.",
			Buckets:   []float64{1, 2, 3, 4, 5},
		}),
		SynthesisSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "synthesis_seconds",
			Help:      "Wall time spent synthesizing one full reply.",
			Buckets:   []float64{0.5, 1, 2, 4, 8, 16, 30},
		}),
		ProviderErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_errors_total",
			Help:      "Upstream provider errors by provider.",
		}, []string{"provider"}),
	}
}

// ObserveSynthesis records the duration of one reply's synthesis.
func (m *Metrics) ObserveSynthesis(d time.Duration) {
	m.SynthesisSeconds.Observe(d.Seconds())
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

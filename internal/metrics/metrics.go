// Package metrics holds the domain counters exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	uploads         *prometheus.CounterVec
	rejections      *prometheus.CounterVec
	providerCalls   *prometheus.CounterVec
	providerLatency prometheus.Histogram
	pagesEmbedded   prometheus.Counter
	searches        prometheus.Counter
}

// New creates and registers the domain metrics on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "filerepo_uploads_total",
			Help: "Uploads by kind (file, archive) and result.",
		}, []string{"kind", "result"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "filerepo_validation_rejections_total",
			Help: "Uploads rejected by policy rule.",
		}, []string{"rule"}),
		providerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "filerepo_embedding_calls_total",
			Help: "Embedding provider calls by outcome.",
		}, []string{"outcome"}),
		providerLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "filerepo_embedding_call_duration_seconds",
			Help:    "Latency of embedding provider calls.",
			Buckets: prometheus.DefBuckets,
		}),
		pagesEmbedded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "filerepo_pages_embedded_total",
			Help: "Pages whose vectors were persisted.",
		}),
		searches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "filerepo_searches_total",
			Help: "Similarity searches served.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.uploads, m.rejections, m.providerCalls, m.providerLatency, m.pagesEmbedded, m.searches,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) Upload(kind, result string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) Rejected(rule string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(rule).Inc()
}

func (m *Metrics) ProviderCall(err error, took time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.providerCalls.WithLabelValues(outcome).Inc()
	m.providerLatency.Observe(took.Seconds())
}

func (m *Metrics) PageEmbedded() {
	if m == nil {
		return
	}
	m.pagesEmbedded.Inc()
}

func (m *Metrics) Search() {
	if m == nil {
		return
	}
	m.searches.Inc()
}

package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Analysis outcomes recorded in meal_analyses_total.
const (
	OutcomeSuccess    = "success"
	OutcomeFallback   = "fallback"
	OutcomeRejected   = "rejected"
	OutcomeModelError = "model_error"
	OutcomeStoreError = "store_error"
)

// Metrics are the ingestion pipeline's Prometheus collectors.
type Metrics struct {
	analyses     *prometheus.CounterVec
	modelLatency prometheus.Histogram
}

// NewMetrics registers the pipeline collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meal_analyses_total",
				Help: "Meal photo analyses by outcome.",
			},
			[]string{"outcome"},
		),
		modelLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "meal_model_request_duration_seconds",
			Help:    "Latency of the vision model call.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}),
	}
	for _, c := range []prometheus.Collector{m.analyses, m.modelLatency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) outcome(o string) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(o).Inc()
}

func (m *Metrics) observeModel(d time.Duration) {
	if m == nil {
		return
	}
	m.modelLatency.Observe(d.Seconds())
}

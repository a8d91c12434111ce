package analysis

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels
const (
	outcomeOK       = "ok"
	outcomeFallback = "fallback"
	outcomeDropped  = "dropped"
	outcomeFailed   = "failed"
)

// Metrics exports orchestrator counters and latencies.
type Metrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

// NewMetrics registers the analysis collectors on reg. A nil reg uses the
// default registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "roda",
			Subsystem: "analysis",
			Name:      "generation_duration_seconds",
			Help:      "Latency of AI generations by kind.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
		}, []string{"kind"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roda",
			Subsystem: "analysis",
			Name:      "outcomes_total",
			Help:      "Analyses by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}
	if err := register(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := register(reg, &m.outcomes); err != nil {
		return nil, err
	}
	return m, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				*c = existing
				return nil
			}
		}
		return fmt.Errorf("register analysis metric: %w", err)
	}
	return nil
}

func (m *Metrics) observe(kind, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(kind).Observe(d.Seconds())
	m.outcomes.WithLabelValues(kind, outcome).Inc()
}

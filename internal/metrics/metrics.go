// Package metrics exposes game-server counters to Prometheus and serves
// them with liveness probes over HTTP.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dolgo/server/internal/property"
)

// Metrics holds the server's collectors. Its methods match the recorder
// interfaces of the combat, skill and property packages.
type Metrics struct {
	CalculatorMissing *prometheus.CounterVec
	RecursionAborted  *prometheus.CounterVec
	RegistryFailures  prometheus.Counter
	SkillUseFailures  *prometheus.CounterVec
	OutcomesEnacted   *prometheus.CounterVec
	Livings           prometheus.Gauge
	TickDuration      prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CalculatorMissing: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "property_calculator_missing_total",
				Help: "Property queries that found no registered calculator",
			},
			[]string{"property"},
		),
		RecursionAborted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "property_recursion_aborted_total",
				Help: "Property queries cut short by the recursion guard",
			},
			[]string{"property"},
		),
		RegistryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "property_registry_failures_total",
			Help: "Calculator registrations that failed to load",
		}),
		SkillUseFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skill_use_failures_total",
				Help: "Skill uses that failed or were interrupted, by reason",
			},
			[]string{"reason"},
		),
		OutcomesEnacted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "action_outcomes_enacted_total",
				Help: "Enacted action outcomes by kind",
			},
			[]string{"kind"},
		),
		Livings: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "world_livings",
			Help: "Livings currently in the world",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "world_tick_duration_seconds",
			Help:    "Time spent running one world tick",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}),
	}

	reg.MustRegister(
		m.CalculatorMissing,
		m.RecursionAborted,
		m.RegistryFailures,
		m.SkillUseFailures,
		m.OutcomesEnacted,
		m.Livings,
		m.TickDuration,
	)
	return m
}

// PropertyMissing is a property.RegistryConfig OnMissing hook.
func (m *Metrics) PropertyMissing(p property.Property) {
	m.CalculatorMissing.WithLabelValues(p.String()).Inc()
}

// PropertyGuard is a property.RegistryConfig OnGuard hook.
func (m *Metrics) PropertyGuard(p property.Property) {
	m.RecursionAborted.WithLabelValues(p.String()).Inc()
}

// RegistryFailed counts n failed calculator registrations.
func (m *Metrics) RegistryFailed(n int) {
	m.RegistryFailures.Add(float64(n))
}

func (m *Metrics) SkillUseFailed(reason string) {
	m.SkillUseFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) OutcomeEnacted(kind string) {
	m.OutcomesEnacted.WithLabelValues(kind).Inc()
}

// ObserveTick records one tick's duration and the population after it.
func (m *Metrics) ObserveTick(d time.Duration, livings int) {
	m.TickDuration.Observe(d.Seconds())
	m.Livings.Set(float64(livings))
}

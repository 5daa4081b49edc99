// Package metrics provides Prometheus-compatible instrumentation for a
// rewrite run: store growth, frontier depth, rule fires, and guard trips.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds every metric a Runtime updates over the life of a run.
// Nil-safe: a nil *Collector is valid and every method becomes a no-op, so
// callers that don't want metrics never have to guard every call site.
type Collector struct {
	storeSize    prometheus.Gauge
	frontierLen  prometheus.Gauge
	steps        prometheus.Counter
	ruleFires    *prometheus.CounterVec
	ambiguous    prometheus.Counter
	termLimitHit prometheus.Counter
}

// New registers and returns a Collector against registry. Passing nil uses
// prometheus.DefaultRegisterer.
func New(registry prometheus.Registerer) *Collector {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Collector{
		storeSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "scaleterm",
			Name:      "store_size",
			Help:      "Number of unique terms currently held by the term store",
		}),
		frontierLen: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "scaleterm",
			Name:      "frontier_len",
			Help:      "Number of term IDs currently queued in the scheduler frontier",
		}),
		steps: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "scaleterm",
			Name:      "steps_total",
			Help:      "Total number of steps applied by the runtime loop",
		}),
		ruleFires: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scaleterm",
			Name:      "rule_fires_total",
			Help:      "Cumulative count of rewrites applied per rule",
		}, []string{"rule"}),
		ambiguous: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "scaleterm",
			Name:      "ambiguous_matches_total",
			Help:      "Number of steps halted by an ambiguous match under strict-matching",
		}),
		termLimitHit: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "scaleterm",
			Name:      "term_limit_exhausted_total",
			Help:      "Number of times an insertion was refused because max_terms was reached",
		}),
	}
}

// SetStoreSize records the term store's current unique-term count.
func (c *Collector) SetStoreSize(n int) {
	if c == nil {
		return
	}
	c.storeSize.Set(float64(n))
}

// SetFrontierLen records the scheduler frontier's current depth.
func (c *Collector) SetFrontierLen(n int) {
	if c == nil {
		return
	}
	c.frontierLen.Set(float64(n))
}

// IncStep increments the total applied-step counter.
func (c *Collector) IncStep() {
	if c == nil {
		return
	}
	c.steps.Inc()
}

// IncRuleFire increments the per-rule fire counter for ruleName.
func (c *Collector) IncRuleFire(ruleName string) {
	if c == nil {
		return
	}
	c.ruleFires.WithLabelValues(ruleName).Inc()
}

// IncAmbiguous increments the ambiguous-match counter.
func (c *Collector) IncAmbiguous() {
	if c == nil {
		return
	}
	c.ambiguous.Inc()
}

// IncTermLimitExhausted increments the term-limit-exhaustion counter.
func (c *Collector) IncTermLimitExhausted() {
	if c == nil {
		return
	}
	c.termLimitHit.Inc()
}

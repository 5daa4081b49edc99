package rewrite

import (
	"github.com/gokimono/scaleterm/guard"
	"github.com/gokimono/scaleterm/metrics"
	"github.com/gokimono/scaleterm/rule"
	"github.com/gokimono/scaleterm/scheduler"
	"github.com/gokimono/scaleterm/term"
	"github.com/gokimono/scaleterm/trace"
)

// Option configures a Runtime at construction time: a closed set of With*
// constructors over an internal config struct, composable and
// order-independent except where documented.
type Option func(*config)

type config struct {
	schedulerKind scheduler.Kind
	schedulerSeed int64
	schedulerSet  bool

	validator term.Validator
	tracer    trace.Tracer
	metrics   *metrics.Collector
	registry  *rule.Registry

	// Guard overrides. On New they take precedence over Program.Guard; on
	// Resume they take precedence over the snapshot's stored settings, which
	// otherwise win.
	walkChildren   *bool
	walkDepth      *int
	strictMatching *bool
	maxSteps       *int
	maxTerms       *int
}

func defaultConfig() *config {
	return &config{
		schedulerKind: scheduler.FIFO,
		tracer:        trace.NewNull(),
	}
}

// applyGuardOverrides folds any explicitly set overrides into g.
func (c *config) applyGuardOverrides(g guard.Config) guard.Config {
	if c.walkChildren != nil {
		g.WalkChildren = *c.walkChildren
	}
	if c.walkDepth != nil {
		g.WalkDepth = *c.walkDepth
	}
	if c.strictMatching != nil {
		g.StrictMatching = *c.strictMatching
	}
	if c.maxSteps != nil {
		g.MaxSteps = *c.maxSteps
	}
	if c.maxTerms != nil {
		g.MaxTerms = *c.maxTerms
	}
	return g
}

// WithScheduler selects the frontier strategy and (for Random) its seed. On
// Resume this discards the snapshot's scheduler state and starts the chosen
// strategy fresh over the restored frontier.
func WithScheduler(kind scheduler.Kind, seed int64) Option {
	return func(c *config) {
		c.schedulerKind = kind
		c.schedulerSeed = seed
		c.schedulerSet = true
	}
}

// WithSignature attaches a signature validator consulted on every store
// insertion.
func WithSignature(v term.Validator) Option {
	return func(c *config) { c.validator = v }
}

// WithTracer attaches the event sink. Defaults to trace.NewNull().
func WithTracer(t trace.Tracer) Option {
	return func(c *config) { c.tracer = t }
}

// WithMetrics attaches a Prometheus collector. Defaults to nil (no metrics).
func WithMetrics(m *metrics.Collector) Option {
	return func(c *config) { c.metrics = m }
}

// WithRegistry attaches the custom-action registry consulted by ActionCustom
// rules.
func WithRegistry(r *rule.Registry) Option {
	return func(c *config) { c.registry = r }
}

// WithWalkChildren overrides the walk-children flag.
func WithWalkChildren(on bool) Option {
	return func(c *config) { c.walkChildren = &on }
}

// WithWalkDepth overrides the walk-depth cap (0 = unbounded).
func WithWalkDepth(depth int) Option {
	return func(c *config) { c.walkDepth = &depth }
}

// WithStrictMatching overrides the strict-matching flag.
func WithStrictMatching(on bool) Option {
	return func(c *config) { c.strictMatching = &on }
}

// WithMaxSteps overrides the step budget. On Resume the budget is granted on
// top of the steps the snapshot already records, so a run suspended after k
// steps and resumed with WithMaxSteps(n) takes up to n further steps.
func WithMaxSteps(n int) Option {
	return func(c *config) { c.maxSteps = &n }
}

// WithMaxTerms overrides the term-count cap (0 = unlimited).
func WithMaxTerms(n int) Option {
	return func(c *config) { c.maxTerms = &n }
}

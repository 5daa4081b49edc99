package rewrite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gokimono/scaleterm/guard"
	"github.com/gokimono/scaleterm/metrics"
	"github.com/gokimono/scaleterm/rule"
	"github.com/gokimono/scaleterm/scheduler"
	"github.com/gokimono/scaleterm/sig"
	"github.com/gokimono/scaleterm/term"
	"github.com/gokimono/scaleterm/trace"
)

// HaltReason names why a run stopped. The zero value means "still running".
type HaltReason string

const (
	HaltIdle               HaltReason = "idle"
	HaltBudgetExhausted    HaltReason = "budget_exhausted"
	HaltTermLimitExhausted HaltReason = "term_limit_exhausted"
	HaltAmbiguousMatch     HaltReason = "ambiguous_match"
	HaltSignatureViolation HaltReason = "signature_violation"
	HaltActionError        HaltReason = "action_error"
)

// StepOutcome reports what one call to Step actually did.
type StepOutcome struct {
	// Fired is true when a rule applied and Event is populated.
	Fired bool
	Event trace.Event

	// Halt is non-empty once the run has stopped; no further Step calls
	// will make progress.
	Halt HaltReason

	// Err carries the underlying cause for HaltAmbiguousMatch,
	// HaltSignatureViolation, and HaltActionError.
	Err error
}

// Halted reports whether the run has stopped.
func (o StepOutcome) Halted() bool { return o.Halt != "" }

// Runtime is the single-threaded stepper coupling a Store, a rule set, a
// Frontier, and Guard state. It owns all of its state exclusively; nothing
// in this package spawns a goroutine.
type Runtime struct {
	program  Program
	store    *term.Store
	frontier scheduler.Frontier
	guardSt  *guard.State
	tracer   *trace.Safe
	metrics  *metrics.Collector
	registry *rule.Registry

	root term.ID

	processed map[term.ID]bool
	scheduled map[term.ID]bool

	halt          HaltReason
	tracerWarning *trace.Event
}

// New constructs a Runtime for program, inserting its root term into a
// fresh store and seeding the frontier with it.
func New(program Program, opts ...Option) (*Runtime, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	program.Guard = cfg.applyGuardOverrides(program.Guard)

	if err := program.Validate(); err != nil {
		return nil, err
	}

	store := term.New(program.Guard.MaxTerms)
	if cfg.validator != nil {
		store.SetValidator(cfg.validator)
	}

	rootID, err := store.Insert(program.RootTerm.Symbol, program.RootTerm.Scale, program.RootTerm.Children)
	if err != nil {
		return nil, fmt.Errorf("rewrite: inserting root term: %w", err)
	}

	frontier, err := scheduler.New(cfg.schedulerKind, cfg.schedulerSeed)
	if err != nil {
		return nil, err
	}
	frontier.Push(rootID)

	rt := &Runtime{
		program:   program,
		store:     store,
		frontier:  frontier,
		guardSt:   guard.NewState(program.Guard),
		tracer:    safeTracer(cfg.tracer),
		metrics:   cfg.metrics,
		registry:  cfg.registry,
		root:      rootID,
		processed: make(map[term.ID]bool),
		scheduled: map[term.ID]bool{rootID: true},
	}
	rt.metrics.SetStoreSize(store.Len())
	rt.metrics.SetFrontierLen(frontier.Len())
	return rt, nil
}

func safeTracer(t trace.Tracer) *trace.Safe {
	if s, ok := t.(*trace.Safe); ok {
		return s
	}
	return trace.NewSafe(t)
}

// Root returns the canonical ID of the program's root term.
func (rt *Runtime) Root() term.ID { return rt.root }

// Store exposes the runtime's term store for read-only inspection.
func (rt *Runtime) Store() *term.Store { return rt.store }

// GuardState exposes the runtime's guard bookkeeping for read-only
// inspection (e.g. by a Summary builder or a snapshotter).
func (rt *Runtime) GuardState() *guard.State { return rt.guardSt }

// Metrics reports the scheduler frontier's current depth and cumulative
// enqueue/dequeue counts.
func (rt *Runtime) Metrics() scheduler.Metrics { return rt.frontier.Metrics() }

// ErrAmbiguousMatch wraps rule.ErrAmbiguousMatch with the offending term.
type ErrAmbiguousMatch struct {
	Term term.ID
}

func (e *ErrAmbiguousMatch) Error() string {
	return fmt.Sprintf("rewrite: ambiguous match on term %s", e.Term)
}

func (e *ErrAmbiguousMatch) Unwrap() error { return rule.ErrAmbiguousMatch }

// Step advances the run by finding and applying exactly one rewrite. Terms
// that are filtered out, unmatched, or whose action legitimately does not
// apply are skipped silently within the same call; Step only returns once a
// rule has fired, the run halts, or ctx is done.
func (rt *Runtime) Step(ctx context.Context) (StepOutcome, error) {
	if rt.halt != "" {
		return StepOutcome{Halt: rt.halt}, nil
	}

	for {
		select {
		case <-ctx.Done():
			return StepOutcome{}, ctx.Err()
		default:
		}

		if rt.guardSt.StepBudgetExhausted() {
			return rt.finish(StepOutcome{Halt: HaltBudgetExhausted}), nil
		}

		id, ok := rt.frontier.Pop()
		if !ok {
			return rt.finish(StepOutcome{Halt: HaltIdle}), nil
		}
		delete(rt.scheduled, id)

		if rt.processed[id] {
			continue
		}

		t, ok := rt.store.Lookup(id)
		if !ok {
			continue
		}

		if !rt.guardSt.AllowScale(t.Scale) {
			continue
		}

		candidates := rule.Candidates(t, rt.program.Rules, rt.guardSt.AllowRule)
		if len(candidates) == 0 {
			continue
		}

		chosen, err := rule.Resolve(candidates, rt.program.Guard.StrictMatching)
		if err != nil {
			rt.metrics.IncAmbiguous()
			return rt.finish(StepOutcome{
				Halt: HaltAmbiguousMatch,
				Err:  &ErrAmbiguousMatch{Term: id},
			}), nil
		}

		replacements, applicable, err := rule.Apply(ctx, id, t, chosen.Action, rt.store, rt.registry)
		if err != nil {
			return rt.classifyApplyError(err), nil
		}
		if !applicable {
			continue
		}

		rt.guardSt.AdvanceStep()
		rt.processed[id] = true
		rt.guardSt.RecordFire(chosen.Name, t.Scale)
		rt.metrics.IncStep()
		rt.metrics.IncRuleFire(chosen.Name)
		rt.metrics.SetStoreSize(rt.store.Len())

		for _, rep := range replacements {
			rt.schedule(rep)
		}
		if rt.program.Guard.WalkChildren {
			for _, rep := range replacements {
				rt.walkChildren(rep, 1, rt.program.Guard.WalkDepth)
			}
		}
		rt.metrics.SetFrontierLen(rt.frontier.Len())

		event := trace.Event{
			Step:           rt.guardSt.StepsTaken,
			Rule:           chosen.Name,
			Before:         id,
			After:          replacements,
			Scale:          t.Scale,
			Timestamp:      time.Now(),
			SchedulerToken: rt.frontier.State().RNGState,
		}
		rt.tracer.Emit(event)
		rt.drainTracerWarning()

		if rt.store.TermLimitExhausted() {
			rt.guardSt.MarkTermLimitExhausted()
			rt.metrics.IncTermLimitExhausted()
			return rt.finish(StepOutcome{Fired: true, Event: event, Halt: HaltTermLimitExhausted}), nil
		}

		return StepOutcome{Fired: true, Event: event}, nil
	}
}

func (rt *Runtime) classifyApplyError(err error) StepOutcome {
	var violation *sig.ViolationError
	switch {
	case errors.Is(err, term.ErrTermLimitExceeded):
		rt.guardSt.MarkTermLimitExhausted()
		rt.metrics.IncTermLimitExhausted()
		return rt.finish(StepOutcome{Halt: HaltTermLimitExhausted, Err: err})
	case errors.As(err, &violation):
		return rt.finish(StepOutcome{Halt: HaltSignatureViolation, Err: err})
	default:
		return rt.finish(StepOutcome{Halt: HaltActionError, Err: err})
	}
}

func (rt *Runtime) schedule(id term.ID) {
	if rt.processed[id] || rt.scheduled[id] {
		return
	}
	rt.frontier.Push(id)
	rt.scheduled[id] = true
}

func (rt *Runtime) walkChildren(id term.ID, depth, maxDepth int) {
	if maxDepth > 0 && depth > maxDepth {
		return
	}
	t, ok := rt.store.Lookup(id)
	if !ok {
		return
	}
	for _, child := range t.Children {
		rt.schedule(child)
		rt.walkChildren(child, depth+1, maxDepth)
	}
}

// drainTracerWarning picks up the one-time "sink detached" event a Safe
// tracer records after its first failure and keeps it for TracerWarning,
// since the detached sink itself can no longer be trusted to carry it.
func (rt *Runtime) drainTracerWarning() {
	if w, ok := rt.tracer.TakeWarning(); ok {
		rt.tracerWarning = &w
	}
}

// TracerWarning returns the one-time tracer-sink-detached event, if the
// attached tracer failed and was detached during this run.
func (rt *Runtime) TracerWarning() (trace.Event, bool) {
	if rt.tracerWarning == nil {
		return trace.Event{}, false
	}
	return *rt.tracerWarning, true
}

func (rt *Runtime) finish(o StepOutcome) StepOutcome {
	rt.halt = o.Halt
	return o
}

// Run steps the runtime until it halts or ctx is done, returning the final
// outcome (whose Halt field explains why) and a Summary of the whole run.
func (rt *Runtime) Run(ctx context.Context) (StepOutcome, Summary, error) {
	var last StepOutcome
	for {
		outcome, err := rt.Step(ctx)
		if err != nil {
			return outcome, rt.Summary(), err
		}
		last = outcome
		if outcome.Halted() {
			break
		}
	}
	return last, rt.Summary(), nil
}

package rewrite

import (
	"fmt"
	"sort"

	"github.com/gokimono/scaleterm/guard"
	"github.com/gokimono/scaleterm/rule"
	"github.com/gokimono/scaleterm/scheduler"
	"github.com/gokimono/scaleterm/snapshot"
	"github.com/gokimono/scaleterm/term"
)

// Snapshot captures the runtime's full resumable state. It may be taken
// between any two steps: each step is atomic with respect to store, frontier,
// and guard bookkeeping, so the result is always a consistent, resumable run
// state. Two runtimes that have executed the same event sequence produce
// byte-identical snapshots once marshalled: the store is emitted in insertion
// order, the frontier in its internal order, and the processed set sorted.
func (rt *Runtime) Snapshot() snapshot.Snapshot {
	st := rt.frontier.State()
	cfg := rt.guardSt.Config()

	processed := make([]term.ID, 0, len(rt.processed))
	for id := range rt.processed {
		processed = append(processed, id)
	}
	sort.Slice(processed, func(i, j int) bool { return processed[i] < processed[j] })

	pending := rt.frontier.Pending()

	return snapshot.Snapshot{
		Terms: snapshot.FromStore(rt.store),
		Root:  rt.root,

		SchedulerKind:  string(st.Kind),
		SchedulerSeed:  st.Seed,
		SchedulerState: st.RNGState,
		Pending:        append([]term.ID(nil), pending...),
		Processed:      processed,

		WalkChildren:    cfg.WalkChildren,
		WalkDepth:       cfg.WalkDepth,
		StrictMatching:  cfg.StrictMatching,
		DetectConflicts: cfg.DetectConflicts,

		IncludeRules:  cfg.IncludeRules,
		ExcludeRules:  cfg.ExcludeRules,
		IncludeScales: cfg.IncludeScales,
		ExcludeScales: cfg.ExcludeScales,

		RuleBudgets:         cfg.RuleBudgets,
		RuleFireCounts:      copyStringIntMap(rt.guardSt.RuleFireCounts),
		RuleBudgetExhausted: copyStringBoolMap(rt.guardSt.RuleBudgetExhausted),
		ScaleCounts:         copyIntIntMap(rt.guardSt.ScaleCounts),

		StepsTaken: rt.guardSt.StepsTaken,
		MaxSteps:   cfg.MaxSteps,

		MaxTerms:           cfg.MaxTerms,
		TermLimitExhausted: rt.guardSt.TermLimitExhausted,
	}
}

// ErrRootMissing is returned by Resume when a snapshot's root ID is absent
// from its own store records.
type ErrRootMissing struct{ Root term.ID }

func (e *ErrRootMissing) Error() string {
	return fmt.Sprintf("rewrite: snapshot root %s not present in snapshot store", e.Root)
}

// Resume reconstructs a Runtime from a snapshot plus the program's rule list,
// which is not serialized (rules are code-adjacent: custom actions cannot
// round-trip through JSON, so the caller re-supplies the same rules the
// original run was loaded with). The store is replayed in insertion order
// (IDs are content-derived, so every term keeps its identity), the frontier is
// rebuilt with the stored scheduler kind and RNG state, and guard bookkeeping
// is restored exactly.
//
// Stored settings win unless explicitly overridden: WithScheduler discards
// the stored scheduler state and starts the chosen strategy fresh over the
// restored frontier, WithWalkChildren/WithWalkDepth/WithStrictMatching
// replace the stored flags, and WithMaxSteps grants its budget on top of the
// steps the snapshot already records.
func Resume(name string, rules []rule.Rule, snap snapshot.Snapshot, opts ...Option) (*Runtime, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	guardCfg := guard.Config{
		MaxSteps: snap.MaxSteps,
		MaxTerms: snap.MaxTerms,

		RuleBudgets: snap.RuleBudgets,

		IncludeRules: snap.IncludeRules,
		ExcludeRules: snap.ExcludeRules,

		IncludeScales: snap.IncludeScales,
		ExcludeScales: snap.ExcludeScales,

		StrictMatching:  snap.StrictMatching,
		DetectConflicts: snap.DetectConflicts,
		WalkChildren:    snap.WalkChildren,
		WalkDepth:       snap.WalkDepth,
	}
	guardCfg = cfg.applyGuardOverrides(guardCfg)
	if cfg.maxSteps != nil {
		guardCfg.MaxSteps = snap.StepsTaken + *cfg.maxSteps
	}

	program := Program{Name: name, Rules: rules, Guard: guardCfg}
	if err := rule.ValidateNames(rules); err != nil {
		return nil, err
	}
	if err := guardCfg.Validate(); err != nil {
		return nil, err
	}
	if guardCfg.DetectConflicts {
		if err := rule.DetectConflicts(rules); err != nil {
			return nil, err
		}
	}

	store, err := snapshot.Restore(snap.Terms, guardCfg.MaxTerms)
	if err != nil {
		return nil, err
	}
	if cfg.validator != nil {
		store.SetValidator(cfg.validator)
	}

	rootTerm, ok := store.Lookup(snap.Root)
	if !ok {
		return nil, &ErrRootMissing{Root: snap.Root}
	}
	program.RootTerm = rootTerm

	var frontier scheduler.Frontier
	if cfg.schedulerSet {
		frontier, err = scheduler.New(cfg.schedulerKind, cfg.schedulerSeed)
		if err != nil {
			return nil, err
		}
		for _, id := range snap.Pending {
			frontier.Push(id)
		}
	} else {
		frontier, err = scheduler.Restore(scheduler.State{
			Kind:     scheduler.Kind(snap.SchedulerKind),
			Seed:     snap.SchedulerSeed,
			RNGState: snap.SchedulerState,
		}, snap.Pending)
		if err != nil {
			return nil, err
		}
	}

	processed := make(map[term.ID]bool, len(snap.Processed))
	for _, id := range snap.Processed {
		processed[id] = true
	}
	scheduled := make(map[term.ID]bool, len(snap.Pending))
	for _, id := range snap.Pending {
		scheduled[id] = true
	}

	rt := &Runtime{
		program:   program,
		store:     store,
		frontier:  frontier,
		guardSt:   guard.Restore(guardCfg, snap.StepsTaken, snap.TermLimitExhausted, copyStringIntMap(snap.RuleFireCounts), copyStringBoolMap(snap.RuleBudgetExhausted), copyIntIntMap(snap.ScaleCounts)),
		tracer:    safeTracer(cfg.tracer),
		metrics:   cfg.metrics,
		registry:  cfg.registry,
		root:      snap.Root,
		processed: processed,
		scheduled: scheduled,
	}
	rt.metrics.SetStoreSize(store.Len())
	rt.metrics.SetFrontierLen(frontier.Len())
	return rt, nil
}

func copyStringBoolMap(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

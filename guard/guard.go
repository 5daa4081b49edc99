// Package guard implements the runtime's budget and filter machinery: step
// budgets, per-rule fire budgets, term-count caps, and rule/scale
// include-exclude filters. All guard state is serializable so a snapshot can
// restore it exactly.
package guard

import "fmt"

// Config is the immutable, load-time guard configuration. It is validated
// once (Validate) before a run begins; overlapping filters or non-positive
// budgets are load-time errors, not runtime surprises.
type Config struct {
	MaxSteps int // must be > 0
	MaxTerms int // 0 = unlimited

	RuleBudgets map[string]int // rule name -> initial remaining fires

	IncludeRules []string
	ExcludeRules []string

	IncludeScales []int
	ExcludeScales []int

	StrictMatching  bool
	DetectConflicts bool
	WalkChildren    bool
	WalkDepth       int // 0 = unbounded, only meaningful when WalkChildren
}

// ErrNonPositiveMaxSteps is returned by Validate when MaxSteps <= 0.
var ErrNonPositiveMaxSteps = fmt.Errorf("guard: max_steps must be > 0")

// ErrNonPositiveBudget is returned by Validate when a rule budget is <= 0.
type ErrNonPositiveBudget struct{ Rule string }

func (e *ErrNonPositiveBudget) Error() string {
	return fmt.Sprintf("guard: rule budget for %q must be > 0", e.Rule)
}

// ErrFilterOverlap is returned by Validate when an include and exclude set
// for the same dimension share an element.
type ErrFilterOverlap struct {
	Dimension string
	Value     string
}

func (e *ErrFilterOverlap) Error() string {
	return fmt.Sprintf("guard: %s %q is in both include and exclude filters", e.Dimension, e.Value)
}

// ErrNegativeScale is returned by Validate when a scale filter names a
// negative scale.
var ErrNegativeScale = fmt.Errorf("guard: scale filters must be non-negative")

// Validate checks the load-time constraints: non-positive step budget,
// non-positive rule budgets, negative scales, and include/exclude overlap.
func (c Config) Validate() error {
	if c.MaxSteps <= 0 {
		return ErrNonPositiveMaxSteps
	}
	for name, budget := range c.RuleBudgets {
		if budget <= 0 {
			return &ErrNonPositiveBudget{Rule: name}
		}
	}

	includeRules := toSet(c.IncludeRules)
	excludeRules := toSet(c.ExcludeRules)
	for name := range includeRules {
		if excludeRules[name] {
			return &ErrFilterOverlap{Dimension: "rule", Value: name}
		}
	}

	for _, s := range c.IncludeScales {
		if s < 0 {
			return ErrNegativeScale
		}
	}
	for _, s := range c.ExcludeScales {
		if s < 0 {
			return ErrNegativeScale
		}
	}
	includeScales := toIntSet(c.IncludeScales)
	excludeScales := toIntSet(c.ExcludeScales)
	for s := range includeScales {
		if excludeScales[s] {
			return &ErrFilterOverlap{Dimension: "scale", Value: fmt.Sprintf("%d", s)}
		}
	}

	return nil
}

func toSet(xs []string) map[string]bool {
	m := make(map[string]bool, len(xs))
	for _, x := range xs {
		m[x] = true
	}
	return m
}

func toIntSet(xs []int) map[int]bool {
	m := make(map[int]bool, len(xs))
	for _, x := range xs {
		m[x] = true
	}
	return m
}

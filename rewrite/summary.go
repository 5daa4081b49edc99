package rewrite

import (
	"sort"

	"github.com/gokimono/scaleterm/term"
)

// Summary is the stable object emitted on successful (or halted) completion
// of a run, shaped for JSON output on stdout.
type Summary struct {
	Program string  `json:"program"`
	Root    term.ID `json:"root"`

	Scheduler       string `json:"scheduler"`
	StrictMatching  bool   `json:"strict_matching"`
	WalkChildren    bool   `json:"walk_children"`
	DetectConflicts bool   `json:"detect_conflicts"`

	Events int `json:"events"`

	RuleCounts          map[string]int  `json:"rule_counts"`
	ScaleCounts         map[int]int     `json:"scale_counts"`
	RuleBudgetExhausted []string        `json:"rule_budget_exhausted"`
	TermLimitExhausted  bool            `json:"term_limit_exhausted"`

	Idle            bool `json:"idle"`
	BudgetExhausted bool `json:"budget_exhausted"`

	Frontier  int `json:"frontier"`
	StoreSize int `json:"store_size"`
}

// Summary builds the stdout-facing snapshot of the run's bookkeeping so far.
// It may be called at any point, not only after a halt, since every field is
// read directly off live guard/store/frontier state.
func (rt *Runtime) Summary() Summary {
	st := rt.guardSt

	exhausted := make([]string, 0, len(st.RuleBudgetExhausted))
	for name, done := range st.RuleBudgetExhausted {
		if done {
			exhausted = append(exhausted, name)
		}
	}
	sort.Strings(exhausted)

	return Summary{
		Program: rt.program.Name,
		Root:    rt.root,

		Scheduler:       string(rt.frontier.Kind()),
		StrictMatching:  rt.program.Guard.StrictMatching,
		WalkChildren:    rt.program.Guard.WalkChildren,
		DetectConflicts: rt.program.Guard.DetectConflicts,

		Events: st.StepsTaken,

		RuleCounts:          copyStringIntMap(st.RuleFireCounts),
		ScaleCounts:         copyIntIntMap(st.ScaleCounts),
		RuleBudgetExhausted: exhausted,
		TermLimitExhausted:  st.TermLimitExhausted,

		Idle:            rt.halt == HaltIdle,
		BudgetExhausted: rt.halt == HaltBudgetExhausted,

		Frontier:  rt.frontier.Len(),
		StoreSize: rt.store.Len(),
	}
}

func copyStringIntMap(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyIntIntMap(m map[int]int) map[int]int {
	out := make(map[int]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Package snapshot serializes a runtime's full state to a stable JSON shape
// and back, so a run can be suspended and resumed exactly.
package snapshot

import (
	"github.com/gokimono/scaleterm/term"
)

// TermRecord is one entry of the term store, keyed by its own content hash so
// a corrupted or hand-edited snapshot can be detected on load.
type TermRecord struct {
	ID       term.ID   `json:"id"`
	Symbol   string    `json:"sym"`
	Scale    int       `json:"scale"`
	Children []term.ID `json:"children"`
}

// Snapshot is the full serializable state of a rewrite run. Field names are
// the stable, documented wire keys; adding a field is safe, renaming one is a
// breaking change to every saved snapshot.
type Snapshot struct {
	Terms []TermRecord `json:"store"`
	Root  term.ID      `json:"root"`

	SchedulerKind  string    `json:"scheduler"`
	SchedulerSeed  int64     `json:"scheduler_seed"`
	SchedulerState uint64    `json:"scheduler_state"`
	Pending        []term.ID `json:"frontier"`
	Processed      []term.ID `json:"processed"`

	WalkChildren    bool `json:"walk_children"`
	WalkDepth       int  `json:"walk_depth"`
	StrictMatching  bool `json:"strict_matching"`
	DetectConflicts bool `json:"detect_conflicts"`

	IncludeRules  []string `json:"include_rules,omitempty"`
	ExcludeRules  []string `json:"exclude_rules,omitempty"`
	IncludeScales []int    `json:"include_scales,omitempty"`
	ExcludeScales []int    `json:"exclude_scales,omitempty"`

	RuleBudgets         map[string]int  `json:"rule_budgets,omitempty"`
	RuleFireCounts      map[string]int  `json:"rule_fire_counts,omitempty"`
	RuleBudgetExhausted map[string]bool `json:"rule_budget_exhausted,omitempty"`
	ScaleCounts         map[int]int     `json:"scale_counts,omitempty"`

	StepsTaken int `json:"steps_taken"`
	MaxSteps   int `json:"max_steps"`

	MaxTerms           int  `json:"max_terms"`
	TermLimitExhausted bool `json:"term_limit_exhausted"`
}

// Verify re-hashes every term record against its declared ID by replaying
// the snapshot into a scratch store and relying on term.Store.InsertRaw's own
// hash check, so the verification logic never drifts from the store's
// canonical encoding.
func Verify(snap Snapshot) error {
	_, err := Restore(snap.Terms, 0)
	return err
}

// FromStore builds the Terms slice of a Snapshot from a term.Store, in
// insertion order, so Verify and re-insertion on restore are deterministic.
func FromStore(s *term.Store) []TermRecord {
	order := s.Order()
	recs := make([]TermRecord, 0, len(order))
	for _, id := range order {
		t, ok := s.Lookup(id)
		if !ok {
			continue
		}
		recs = append(recs, TermRecord{ID: id, Symbol: t.Symbol, Scale: t.Scale, Children: t.Children})
	}
	return recs
}

// Restore replays a snapshot's term records into a fresh store via
// InsertRaw, which itself re-validates each record's hash.
func Restore(recs []TermRecord, maxTerms int) (*term.Store, error) {
	s := term.New(maxTerms)
	for _, rec := range recs {
		if err := s.InsertRaw(rec.ID, term.Term{Symbol: rec.Symbol, Scale: rec.Scale, Children: rec.Children}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

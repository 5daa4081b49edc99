package guard

import "testing"

func TestValidateRejectsNonPositiveMaxSteps(t *testing.T) {
	cfg := Config{MaxSteps: 0}
	if err := cfg.Validate(); err != ErrNonPositiveMaxSteps {
		t.Fatalf("expected ErrNonPositiveMaxSteps, got %v", err)
	}
}

func TestValidateRejectsNonPositiveRuleBudget(t *testing.T) {
	cfg := Config{MaxSteps: 10, RuleBudgets: map[string]int{"expand-a": 0}}
	err := cfg.Validate()
	if _, ok := err.(*ErrNonPositiveBudget); !ok {
		t.Fatalf("expected *ErrNonPositiveBudget, got %v", err)
	}
}

func TestValidateRejectsRuleFilterOverlap(t *testing.T) {
	cfg := Config{
		MaxSteps:     10,
		IncludeRules: []string{"a", "b"},
		ExcludeRules: []string{"b"},
	}
	err := cfg.Validate()
	overlap, ok := err.(*ErrFilterOverlap)
	if !ok || overlap.Dimension != "rule" || overlap.Value != "b" {
		t.Fatalf("expected rule filter overlap on 'b', got %v", err)
	}
}

func TestValidateRejectsScaleFilterOverlap(t *testing.T) {
	cfg := Config{
		MaxSteps:      10,
		IncludeScales: []int{0, 1},
		ExcludeScales: []int{1},
	}
	err := cfg.Validate()
	if _, ok := err.(*ErrFilterOverlap); !ok {
		t.Fatalf("expected *ErrFilterOverlap, got %v", err)
	}
}

func TestValidateRejectsNegativeScale(t *testing.T) {
	cfg := Config{MaxSteps: 10, ExcludeScales: []int{-1}}
	if err := cfg.Validate(); err != ErrNegativeScale {
		t.Fatalf("expected ErrNegativeScale, got %v", err)
	}
}

func TestValidateAcceptsDisjointFilters(t *testing.T) {
	cfg := Config{
		MaxSteps:      10,
		IncludeRules:  []string{"a"},
		ExcludeRules:  []string{"b"},
		IncludeScales: []int{0},
		ExcludeScales: []int{1},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAllowRuleRespectsIncludeExclude(t *testing.T) {
	cfg := Config{MaxSteps: 10, IncludeRules: []string{"a", "b"}, ExcludeRules: []string{"b"}}
	s := NewState(cfg)
	if !s.AllowRule("a") {
		t.Fatalf("expected 'a' allowed")
	}
	if s.AllowRule("b") {
		t.Fatalf("expected 'b' excluded despite being in include list too")
	}
	if s.AllowRule("c") {
		t.Fatalf("expected 'c' excluded since include list is non-empty and doesn't name it")
	}
}

func TestAllowRuleWithNoFiltersAllowsEverything(t *testing.T) {
	s := NewState(Config{MaxSteps: 10})
	if !s.AllowRule("anything") {
		t.Fatalf("expected unfiltered config to allow any rule")
	}
}

func TestAllowScaleRespectsIncludeExclude(t *testing.T) {
	cfg := Config{MaxSteps: 10, IncludeScales: []int{0, 1, 2}, ExcludeScales: []int{1}}
	s := NewState(cfg)
	if !s.AllowScale(0) || !s.AllowScale(2) {
		t.Fatalf("expected scales 0 and 2 allowed")
	}
	if s.AllowScale(1) {
		t.Fatalf("expected scale 1 excluded")
	}
	if s.AllowScale(3) {
		t.Fatalf("expected scale 3 excluded since include set doesn't name it")
	}
}

func TestRecordFireExhaustsBudget(t *testing.T) {
	cfg := Config{MaxSteps: 10, RuleBudgets: map[string]int{"expand-a": 2}}
	s := NewState(cfg)
	s.RecordFire("expand-a", 0)
	if s.AllowRule("expand-a") == false {
		t.Fatalf("rule should still be allowed after 1 of 2 fires")
	}
	s.RecordFire("expand-a", 0)
	if s.AllowRule("expand-a") {
		t.Fatalf("rule should be exhausted after 2 of 2 fires")
	}
	if s.RuleFireCounts["expand-a"] != 2 {
		t.Fatalf("expected fire count 2, got %d", s.RuleFireCounts["expand-a"])
	}
}

func TestAdvanceStepRespectsMaxSteps(t *testing.T) {
	s := NewState(Config{MaxSteps: 2})
	if !s.AdvanceStep() {
		t.Fatalf("expected first step to be allowed")
	}
	if !s.AdvanceStep() {
		t.Fatalf("expected second step to be allowed")
	}
	if s.AdvanceStep() {
		t.Fatalf("expected third step to be rejected")
	}
	if !s.StepBudgetExhausted() {
		t.Fatalf("expected step budget to report exhausted")
	}
}

func TestMarkTermLimitExhaustedIsSticky(t *testing.T) {
	s := NewState(Config{MaxSteps: 10})
	if s.TermLimitExhausted {
		t.Fatalf("expected fresh state to not be term-limit-exhausted")
	}
	s.MarkTermLimitExhausted()
	if !s.TermLimitExhausted {
		t.Fatalf("expected term limit to be marked exhausted")
	}
}

func TestRestoreRebuildsFilterIndexes(t *testing.T) {
	cfg := Config{MaxSteps: 10, ExcludeRules: []string{"x"}}
	s := Restore(cfg, 3, true, map[string]int{"x": 5}, map[string]bool{"x": true}, map[int]int{0: 2})
	if s.StepsTaken != 3 || !s.TermLimitExhausted {
		t.Fatalf("restored fields not applied")
	}
	if s.AllowRule("x") {
		t.Fatalf("expected excluded rule to remain excluded after restore")
	}
	if s.RuleFireCounts["x"] != 5 || s.ScaleCounts[0] != 2 {
		t.Fatalf("restored counters not applied")
	}
}

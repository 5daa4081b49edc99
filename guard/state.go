package guard

// State is the mutable guard bookkeeping threaded through a run. It is
// entirely derived from Config plus the sequence of steps taken, which makes
// it cheap to snapshot and restore exactly.
type State struct {
	cfg Config

	StepsTaken          int
	TermLimitExhausted  bool
	RuleFireCounts      map[string]int
	RuleBudgetExhausted map[string]bool
	ScaleCounts         map[int]int

	includeRules map[string]bool
	excludeRules map[string]bool
	includeSet   map[int]bool
	excludeSet   map[int]bool
}

// NewState builds a fresh State for cfg. Callers must call Config.Validate
// before constructing a run's State; NewState does not re-validate.
func NewState(cfg Config) *State {
	return &State{
		cfg:                 cfg,
		RuleFireCounts:      map[string]int{},
		RuleBudgetExhausted: map[string]bool{},
		ScaleCounts:         map[int]int{},
		includeRules:        toSet(cfg.IncludeRules),
		excludeRules:        toSet(cfg.ExcludeRules),
		includeSet:          toIntSet(cfg.IncludeScales),
		excludeSet:          toIntSet(cfg.ExcludeScales),
	}
}

// Restore rebuilds a State from a previously captured snapshot's fields. The
// caller supplies the pieces that were serialized; NewState's derived index
// maps are rebuilt from cfg.
func Restore(cfg Config, stepsTaken int, termLimitExhausted bool, ruleFireCounts map[string]int, ruleBudgetExhausted map[string]bool, scaleCounts map[int]int) *State {
	s := NewState(cfg)
	s.StepsTaken = stepsTaken
	s.TermLimitExhausted = termLimitExhausted
	if ruleFireCounts != nil {
		s.RuleFireCounts = ruleFireCounts
	}
	if ruleBudgetExhausted != nil {
		s.RuleBudgetExhausted = ruleBudgetExhausted
	}
	if scaleCounts != nil {
		s.ScaleCounts = scaleCounts
	}
	return s
}

// AllowRule reports whether ruleName may still fire: it must pass the
// include/exclude filters and must not have exhausted its budget.
func (s *State) AllowRule(ruleName string) bool {
	if len(s.includeRules) > 0 && !s.includeRules[ruleName] {
		return false
	}
	if s.excludeRules[ruleName] {
		return false
	}
	if s.RuleBudgetExhausted[ruleName] {
		return false
	}
	return true
}

// AllowScale reports whether terms at scale may be matched against.
func (s *State) AllowScale(scale int) bool {
	if len(s.includeSet) > 0 && !s.includeSet[scale] {
		return false
	}
	if s.excludeSet[scale] {
		return false
	}
	return true
}

// RecordFire updates per-rule and per-scale counters after ruleName fires
// against a term at scale, and marks the rule exhausted if it has a budget
// and has now used it up.
func (s *State) RecordFire(ruleName string, scale int) {
	s.RuleFireCounts[ruleName]++
	s.ScaleCounts[scale]++
	if budget, ok := s.cfg.RuleBudgets[ruleName]; ok {
		if s.RuleFireCounts[ruleName] >= budget {
			s.RuleBudgetExhausted[ruleName] = true
		}
	}
}

// AdvanceStep increments the step counter. It returns false once MaxSteps
// has been reached, signalling the runtime to halt before taking another
// step.
func (s *State) AdvanceStep() bool {
	if s.StepsTaken >= s.cfg.MaxSteps {
		return false
	}
	s.StepsTaken++
	return true
}

// StepBudgetExhausted reports whether MaxSteps has been reached.
func (s *State) StepBudgetExhausted() bool {
	return s.StepsTaken >= s.cfg.MaxSteps
}

// MarkTermLimitExhausted records that the term store rejected an insert due
// to its cap. Once set it is sticky for the remainder of the run.
func (s *State) MarkTermLimitExhausted() {
	s.TermLimitExhausted = true
}

// Config returns the guard configuration this state was built from.
func (s *State) Config() Config {
	return s.cfg
}

package rule

import (
	"errors"
	"fmt"

	"github.com/gokimono/scaleterm/term"
)

// Candidates returns, in program order, every rule whose pattern matches t
// and whose name passes the allowed predicate. allowed is where the runtime
// plugs in rule include-exclude filters and exhausted rule budgets (kept out
// of this package to avoid a dependency on guard state). Scale filters are
// not applied here; the runtime checks them before calling Candidates.
func Candidates(t term.Term, rules []Rule, allowed func(ruleName string) bool) []Rule {
	var out []Rule
	for _, r := range rules {
		if allowed != nil && !allowed(r.Name) {
			continue
		}
		if r.Pattern.Matches(t) {
			out = append(out, r)
		}
	}
	return out
}

// ErrAmbiguousMatch is returned by Resolve when more than one rule matches
// under strict-matching policy.
var ErrAmbiguousMatch = errors.New("rule: ambiguous match under strict-matching policy")

// Resolve picks the rule to fire among candidates (already in program
// order). Under the default policy the first candidate wins; under strict
// matching, more than one candidate is a fatal ambiguous-match outcome.
func Resolve(candidates []Rule, strict bool) (*Rule, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	if strict && len(candidates) > 1 {
		return nil, ErrAmbiguousMatch
	}
	r := candidates[0]
	return &r, nil
}

// ErrDuplicateRuleName is returned by DetectConflicts-adjacent load-time
// validation when two rules share a name.
type ErrDuplicateRuleName struct {
	Name string
}

func (e *ErrDuplicateRuleName) Error() string {
	return fmt.Sprintf("rule: duplicate rule name %q", e.Name)
}

// ErrOverlappingRules is returned by DetectConflicts when two rules'
// patterns deterministically overlap.
type ErrOverlappingRules struct {
	A, B string
}

func (e *ErrOverlappingRules) Error() string {
	return fmt.Sprintf("rule: rules %q and %q have deterministically overlapping patterns", e.A, e.B)
}

// ValidateNames rejects duplicate rule names, a load-time error regardless
// of whether conflict detection is enabled.
func ValidateNames(rules []Rule) error {
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if seen[r.Name] {
			return &ErrDuplicateRuleName{Name: r.Name}
		}
		seen[r.Name] = true
	}
	return nil
}

// DetectConflicts rejects a rule set containing two rules whose patterns
// deterministically overlap (same symbol, overlapping scale sets, judged on
// symbol+scale only). This is a coherence guard distinct from the
// strict-matching runtime guard: it runs once, at load time.
func DetectConflicts(rules []Rule) error {
	for i := 0; i < len(rules); i++ {
		for j := i + 1; j < len(rules); j++ {
			if rules[i].Pattern.Overlaps(rules[j].Pattern) {
				return &ErrOverlappingRules{A: rules[i].Name, B: rules[j].Name}
			}
		}
	}
	return nil
}

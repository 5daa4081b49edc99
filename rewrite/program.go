// Package rewrite implements the runtime loop: the single-threaded
// cooperative stepper that couples the scheduler, the rule matcher, and the
// term store. It is the piece every other package in this module exists to
// support.
package rewrite

import (
	"fmt"

	"github.com/gokimono/scaleterm/guard"
	"github.com/gokimono/scaleterm/rule"
	"github.com/gokimono/scaleterm/term"
)

// Program is everything an external program source resolves into before a
// run starts: the root term's literal content, the ordered rule list, and
// the guard configuration. The surface S-expression parser is an external
// collaborator; Program is the narrow interface it hands to this package.
//
// RootTerm carries the root's content rather than a bare term.ID: a TermID
// is only meaningful relative to the store that produced it, and Runtime
// owns a fresh store per run, so the root must be re-derived by inserting
// its content on construction.
type Program struct {
	Name     string
	RootTerm term.Term
	Rules    []rule.Rule
	Guard    guard.Config
}

// Validate runs every load-time check: duplicate rule names, guard config
// constraints, and (if requested) deterministic rule-pattern overlap.
func (p Program) Validate() error {
	if err := rule.ValidateNames(p.Rules); err != nil {
		return err
	}
	if err := p.Guard.Validate(); err != nil {
		return err
	}
	if p.RootTerm.Scale < 0 {
		return term.ErrNegativeScale
	}
	if p.Guard.DetectConflicts {
		if err := rule.DetectConflicts(p.Rules); err != nil {
			return err
		}
	}
	return nil
}

// ErrNoSuchRule describes a rule budget or filter that names a rule absent
// from the program's rule list. Validate does not check for such names, so
// no function in this package returns it.
type ErrNoSuchRule struct{ Name string }

func (e *ErrNoSuchRule) Error() string {
	return fmt.Sprintf("rewrite: no such rule %q", e.Name)
}

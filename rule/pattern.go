package rule

import "github.com/gokimono/scaleterm/term"

// Pattern is a struct-of-predicates over a term: exact symbol, exact scale or
// scale membership, and an optional child-count bound. At least one of Sym or
// Scale/Scales must be set for a pattern to be meaningful, but this is left to
// load-time validation rather than enforced by the zero value.
type Pattern struct {
	// Sym, if non-nil, requires an exact symbol match.
	Sym *string

	// Scale, if non-nil, requires an exact scale match.
	Scale *int

	// Scales, if non-empty, requires the term's scale to be a member.
	// Mutually exclusive with Scale in practice, but both are honored if set
	// (the term must satisfy both).
	Scales []int

	// MinChildren and MaxChildren, if non-nil, bound the child count.
	MinChildren *int
	MaxChildren *int
}

// Matches reports whether t satisfies every constraint p declares.
func (p Pattern) Matches(t term.Term) bool {
	if p.Sym != nil && t.Symbol != *p.Sym {
		return false
	}
	if p.Scale != nil && t.Scale != *p.Scale {
		return false
	}
	if len(p.Scales) > 0 && !scaleIn(p.Scales, t.Scale) {
		return false
	}
	n := len(t.Children)
	if p.MinChildren != nil && n < *p.MinChildren {
		return false
	}
	if p.MaxChildren != nil && n > *p.MaxChildren {
		return false
	}
	return true
}

func scaleIn(scales []int, scale int) bool {
	for _, s := range scales {
		if s == scale {
			return true
		}
	}
	return false
}

// IsUnconstrained reports whether the pattern declares neither a symbol nor
// a scale constraint. Program loaders treat such a pattern as a load-time
// error: at least one of the two is required.
func (p Pattern) IsUnconstrained() bool {
	return p.Sym == nil && p.Scale == nil && len(p.Scales) == 0
}

// scaleSet returns the set of scales this pattern admits, restricted to the
// symbol+scale-only view used for deterministic-overlap detection. A nil
// result means "all scales" (no scale constraint at all).
func (p Pattern) scaleSet() (set map[int]bool, unconstrained bool) {
	if p.Scale == nil && len(p.Scales) == 0 {
		return nil, true
	}
	set = make(map[int]bool)
	if p.Scale != nil {
		set[*p.Scale] = true
	}
	for _, s := range p.Scales {
		set[s] = true
	}
	return set, false
}

// Overlaps reports whether p and q can deterministically match the same
// term, considering only symbol and scale, never the richer child-count
// bound.
func (p Pattern) Overlaps(q Pattern) bool {
	if p.Sym != nil && q.Sym != nil && *p.Sym != *q.Sym {
		return false
	}
	pScales, pAny := p.scaleSet()
	qScales, qAny := q.scaleSet()
	if pAny || qAny {
		return true
	}
	for s := range pScales {
		if qScales[s] {
			return true
		}
	}
	return false
}

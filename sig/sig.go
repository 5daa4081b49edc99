// Package sig implements the optional signature validator: per-symbol
// arity and scale constraints consulted on every term store insertion.
package sig

import (
	"encoding/json"
	"fmt"
	"io"
)

// Symbol declares the constraints for one symbol.
type Symbol struct {
	// MinChildren and MaxChildren bound the arity. MaxChildren <= 0 means
	// "unbounded" and MinChildren <= 0 means "no minimum": declarations are
	// silent by omission (Go's zero value) rather than by sentinel.
	MinChildren int   `json:"min_children"`
	MaxChildren int   `json:"max_children"`
	Scales      []int `json:"scales"`
}

// File is the top-level shape of a signature JSON file:
// {"symbols": {"<sym>": {...}, ...}}.
type File struct {
	Symbols map[string]Symbol `json:"symbols"`
}

// Validator enforces declared per-symbol constraints.
type Validator struct {
	symbols map[string]Symbol
}

// New builds a Validator from symbol declarations.
func New(symbols map[string]Symbol) *Validator {
	return &Validator{symbols: symbols}
}

// Load parses a signature file.
func Load(r io.Reader) (*Validator, error) {
	var f File
	dec := json.NewDecoder(r)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("sig: decode: %w", err)
	}
	return New(f.Symbols), nil
}

// ViolationError reports which constraint a validation call failed.
type ViolationError struct {
	Symbol  string
	Scale   int
	Arity   int
	Reason  string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("sig: symbol %q (scale %d, %d children) violates signature: %s", e.Symbol, e.Scale, e.Arity, e.Reason)
}

// Validate checks (symbol, scale, numChildren) against the declared
// signature for symbol. Symbols with no declaration are unconstrained.
func (v *Validator) Validate(symbol string, scale int, numChildren int) error {
	if v == nil {
		return nil
	}
	decl, ok := v.symbols[symbol]
	if !ok {
		return nil
	}
	if decl.MinChildren > 0 && numChildren < decl.MinChildren {
		return &ViolationError{Symbol: symbol, Scale: scale, Arity: numChildren, Reason: fmt.Sprintf("fewer than min_children=%d", decl.MinChildren)}
	}
	if decl.MaxChildren > 0 && numChildren > decl.MaxChildren {
		return &ViolationError{Symbol: symbol, Scale: scale, Arity: numChildren, Reason: fmt.Sprintf("more than max_children=%d", decl.MaxChildren)}
	}
	if len(decl.Scales) > 0 && !containsInt(decl.Scales, scale) {
		return &ViolationError{Symbol: symbol, Scale: scale, Arity: numChildren, Reason: fmt.Sprintf("scale not in allowed set %v", decl.Scales)}
	}
	return nil
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

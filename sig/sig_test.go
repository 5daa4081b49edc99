package sig

import (
	"strings"
	"testing"
)

func TestLoadAndValidate(t *testing.T) {
	r := strings.NewReader(`{"symbols": {"leaf": {"min_children": 0, "max_children": 0, "scales": [0,1]}}}`)
	v, err := Load(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := v.Validate("leaf", 0, 0); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	if err := v.Validate("leaf", 2, 0); err == nil {
		t.Fatalf("expected scale violation")
	}
	if err := v.Validate("leaf", 0, 1); err == nil {
		t.Fatalf("expected arity violation")
	}
}

func TestUndeclaredSymbolUnconstrained(t *testing.T) {
	v := New(map[string]Symbol{"A": {MinChildren: 1}})
	if err := v.Validate("B", -5, 99); err != nil {
		t.Fatalf("undeclared symbols should be unconstrained, got %v", err)
	}
}

func TestNilValidatorAlwaysPasses(t *testing.T) {
	var v *Validator
	if err := v.Validate("anything", 0, 0); err != nil {
		t.Fatalf("nil validator should never reject, got %v", err)
	}
}

func TestMinChildrenViolation(t *testing.T) {
	v := New(map[string]Symbol{"pair": {MinChildren: 2}})
	if err := v.Validate("pair", 0, 1); err == nil {
		t.Fatalf("expected min_children violation")
	}
	if err := v.Validate("pair", 0, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

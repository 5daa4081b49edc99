package rule

import (
	"context"
	"testing"

	"github.com/gokimono/scaleterm/term"
)

func TestApplyExpandProducesMotifChildren(t *testing.T) {
	store := term.New(0)
	aID, _ := store.Insert("A", 0, nil)
	aTerm, _ := store.Lookup(aID)

	repl, applicable, err := Apply(context.Background(), aID, aTerm, Expand(3), store, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !applicable {
		t.Fatalf("expected expand to apply")
	}
	if len(repl) != 1 {
		t.Fatalf("expected exactly one replacement root, got %d", len(repl))
	}

	parent, ok := store.Lookup(repl[0])
	if !ok {
		t.Fatalf("expected parent term to exist")
	}
	if parent.Symbol != term.F("A") || parent.Scale != 1 {
		t.Fatalf("unexpected parent term %+v", parent)
	}
	if len(parent.Children) != 3 {
		t.Fatalf("expected 3 motif children, got %d", len(parent.Children))
	}
	for i, childID := range parent.Children {
		child, _ := store.Lookup(childID)
		if child.Symbol != term.Motif("A", i) || child.Scale != 1 {
			t.Fatalf("unexpected motif child %d: %+v", i, child)
		}
	}
}

func TestApplyReduceInvertsExpand(t *testing.T) {
	store := term.New(0)
	aID, _ := store.Insert("A", 0, nil)
	aTerm, _ := store.Lookup(aID)

	repl, _, err := Apply(context.Background(), aID, aTerm, Expand(1), store, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expanded, _ := store.Lookup(repl[0])

	repl2, applicable, err := Apply(context.Background(), repl[0], expanded, Reduce(), store, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !applicable {
		t.Fatalf("expected reduce to apply to F(A)")
	}
	if len(repl2) != 1 || repl2[0] != aID {
		t.Fatalf("expected coherence: reduce(expand(A)) == A, got %v want %v", repl2, aID)
	}
}

func TestApplyReduceNotApplicableToNonF(t *testing.T) {
	store := term.New(0)
	aID, _ := store.Insert("A", 0, nil)
	aTerm, _ := store.Lookup(aID)

	repl, applicable, err := Apply(context.Background(), aID, aTerm, Reduce(), store, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applicable {
		t.Fatalf("expected reduce on non-F(...) symbol to be inapplicable")
	}
	if repl != nil {
		t.Fatalf("expected no replacements")
	}
}

func TestApplyExpandInvalidFanout(t *testing.T) {
	store := term.New(0)
	aID, _ := store.Insert("A", 0, nil)
	aTerm, _ := store.Lookup(aID)

	_, _, err := Apply(context.Background(), aID, aTerm, Expand(0), store, nil)
	if err == nil {
		t.Fatalf("expected error for fanout < 1")
	}
}

func TestApplyCustomDispatchesRegisteredFunc(t *testing.T) {
	store := term.New(0)
	reg := NewRegistry()
	reg.Register("double", func(ctx context.Context, t term.Term, params map[string]string, s *term.Store) ([]term.ID, error) {
		id, err := s.Insert(t.Symbol+t.Symbol, t.Scale, nil)
		if err != nil {
			return nil, err
		}
		return []term.ID{id}, nil
	})

	aID, _ := store.Insert("A", 0, nil)
	aTerm, _ := store.Lookup(aID)

	repl, applicable, err := Apply(context.Background(), aID, aTerm, Custom("double", nil), store, reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !applicable {
		t.Fatalf("expected custom action to apply")
	}
	got, _ := store.Lookup(repl[0])
	if got.Symbol != "AA" {
		t.Fatalf("expected symbol AA, got %q", got.Symbol)
	}
}

func TestApplyCustomUnregistered(t *testing.T) {
	store := term.New(0)
	aID, _ := store.Insert("A", 0, nil)
	aTerm, _ := store.Lookup(aID)

	_, _, err := Apply(context.Background(), aID, aTerm, Custom("missing", nil), store, NewRegistry())
	if err == nil {
		t.Fatalf("expected error for unregistered custom action")
	}
}

// TestCoherence verifies the coherence identity reduce(expand(Term(s, n)))
// == Term(s, n) for representative symbols and scales, with childless base
// terms (the shape the built-in pair is defined over).
func TestCoherence(t *testing.T) {
	symbols := []string{"A", "root", "leaf-1", "motif.0"}
	scales := []int{0, 1, 5}
	fanouts := []int{1, 2, 5}

	for _, sym := range symbols {
		for _, scale := range scales {
			for _, fanout := range fanouts {
				store := term.New(0)
				baseID, err := store.Insert(sym, scale, nil)
				if err != nil {
					t.Fatalf("insert base: %v", err)
				}
				base, _ := store.Lookup(baseID)

				repl, applicable, err := Apply(context.Background(), baseID, base, Expand(fanout), store, nil)
				if err != nil || !applicable {
					t.Fatalf("expand(%s,%d,fanout=%d): err=%v applicable=%v", sym, scale, fanout, err, applicable)
				}
				expanded, _ := store.Lookup(repl[0])

				repl2, applicable2, err := Apply(context.Background(), repl[0], expanded, Reduce(), store, nil)
				if err != nil || !applicable2 {
					t.Fatalf("reduce(expand(%s,%d,fanout=%d)): err=%v applicable=%v", sym, scale, fanout, err, applicable2)
				}
				if len(repl2) != 1 || repl2[0] != baseID {
					t.Fatalf("coherence failed for %s@%d fanout=%d: got %v want %v", sym, scale, fanout, repl2, baseID)
				}
			}
		}
	}
}

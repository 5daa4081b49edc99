package rule

import (
	"context"

	"github.com/gokimono/scaleterm/term"
)

// Apply executes action against the matched term t (whose ID is id) using
// store for insertion and registry for custom actions. It returns the
// ordered replacement term IDs.
//
// applicable is false when the action legitimately does not apply to this
// term (currently only ActionReduce on a non-F(...) symbol). This is silent
// non-applicability, not an error; the caller must treat it as if no rule
// had matched at all.
func Apply(ctx context.Context, id term.ID, t term.Term, action Action, store *term.Store, registry *Registry) (replacements []term.ID, applicable bool, err error) {
	switch action.Kind {
	case ActionExpand:
		return applyExpand(t, action.Fanout, store)
	case ActionReduce:
		return applyReduce(t, store)
	case ActionCustom:
		return applyCustom(ctx, t, action, store, registry)
	default:
		return nil, false, &ErrUnknownActionKind{Kind: action.Kind}
	}
}

// ErrUnknownActionKind is returned for an Action whose Kind is outside the
// closed variant this package understands.
type ErrUnknownActionKind struct {
	Kind ActionKind
}

func (e *ErrUnknownActionKind) Error() string {
	return "rule: unknown action kind " + e.Kind.String()
}

func applyExpand(t term.Term, fanout int, store *term.Store) ([]term.ID, bool, error) {
	if fanout < 1 {
		return nil, false, &ErrInvalidFanout{Fanout: fanout}
	}
	children := make([]term.ID, fanout)
	for i := 0; i < fanout; i++ {
		id, err := store.Insert(term.Motif(t.Symbol, i), t.Scale+1, nil)
		if err != nil {
			return nil, true, err
		}
		children[i] = id
	}
	parent, err := store.Insert(term.F(t.Symbol), t.Scale+1, children)
	if err != nil {
		return nil, true, err
	}
	return []term.ID{parent}, true, nil
}

func applyReduce(t term.Term, store *term.Store) ([]term.ID, bool, error) {
	inner, ok := term.UnF(t.Symbol)
	if !ok {
		return nil, false, nil
	}
	id, err := store.Insert(inner, t.Scale-1, nil)
	if err != nil {
		return nil, true, err
	}
	return []term.ID{id}, true, nil
}

func applyCustom(ctx context.Context, t term.Term, action Action, store *term.Store, registry *Registry) ([]term.ID, bool, error) {
	if registry == nil {
		return nil, false, &ErrUnregisteredAction{Name: action.Name}
	}
	fn, ok := registry.Lookup(action.Name)
	if !ok {
		return nil, false, &ErrUnregisteredAction{Name: action.Name}
	}
	replacements, err := fn(ctx, t, action.Params, store)
	if err != nil {
		return nil, true, err
	}
	return replacements, true, nil
}

// ErrInvalidFanout is returned when an ActionExpand declares a fanout below 1.
type ErrInvalidFanout struct {
	Fanout int
}

func (e *ErrInvalidFanout) Error() string {
	return "rule: expand fanout must be >= 1"
}

package rule

import (
	"context"
	"fmt"

	"github.com/gokimono/scaleterm/term"
)

// CustomActionFunc is a plain Go function implementing an ActionCustom. It
// receives the matched term and the action's parameter map, and an accessor
// to the term store so it can synthesize and insert new terms. It returns
// the ordered list of replacement term IDs. This is the same function-adapter
// idiom used elsewhere in this codebase to let callers register bare
// functions instead of implementing an interface.
type CustomActionFunc func(ctx context.Context, t term.Term, params map[string]string, store *term.Store) ([]term.ID, error)

// Registry maps custom action names to their implementations.
type Registry struct {
	actions map[string]CustomActionFunc
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{actions: make(map[string]CustomActionFunc)}
}

// Register adds (or replaces) the implementation for name.
func (r *Registry) Register(name string, fn CustomActionFunc) {
	r.actions[name] = fn
}

// Lookup returns the implementation for name, if registered.
func (r *Registry) Lookup(name string) (CustomActionFunc, bool) {
	fn, ok := r.actions[name]
	return fn, ok
}

// ErrUnregisteredAction is returned when an ActionCustom names a function
// that was never registered.
type ErrUnregisteredAction struct {
	Name string
}

func (e *ErrUnregisteredAction) Error() string {
	return fmt.Sprintf("rule: no custom action registered for %q", e.Name)
}

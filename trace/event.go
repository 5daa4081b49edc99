// Package trace provides the runtime's event sink: a single-consumer
// capability for observing each step of a rewrite run.
package trace

import (
	"time"

	"github.com/gokimono/scaleterm/term"
)

// Event describes one completed runtime step: which rule fired against
// which term, at what scale, and what replaced it. Two runs of the same
// program are required to produce identical event sequences modulo
// Timestamp; nothing in this package or the runtime compares Timestamp
// for determinism.
type Event struct {
	Step           int
	Rule           string
	Before         term.ID
	After          []term.ID
	Scale          int
	Timestamp      time.Time
	SchedulerToken uint64
	Msg            string
	Meta           map[string]interface{}
}

// Tracer receives step events from a rewrite run. Implementations must not
// block the runtime loop for long; a slow or failing sink should be wrapped
// in Safe so the run itself never stalls on observability.
type Tracer interface {
	Emit(event Event)
	Flush() error
}

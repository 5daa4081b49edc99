// Package scheduler implements the ordered frontier of term IDs awaiting
// rewrite. The runtime is single-threaded and cooperative, so the frontier
// is plain push/pop over a slice: no channels, no backpressure, no
// goroutines.
package scheduler

import (
	"errors"

	"github.com/gokimono/scaleterm/term"
)

// Kind names a scheduling strategy.
type Kind string

const (
	FIFO   Kind = "fifo"
	LIFO   Kind = "lifo"
	Random Kind = "random"
)

// ErrUnknownKind is returned by New for an unrecognized Kind.
var ErrUnknownKind = errors.New("scheduler: unknown kind")

// Frontier is the capability set shared by all three strategies: push, pop,
// and state snapshot/restore.
type Frontier interface {
	// Push adds id to the frontier unconditionally. Frontier has no
	// visibility into which IDs are already queued or already processed;
	// deduplication is the caller's responsibility (see rewrite.Runtime's
	// scheduled/processed bookkeeping).
	Push(id term.ID)

	// Pop removes and returns the next ID per this strategy's order. ok is
	// false when the frontier is empty.
	Pop() (id term.ID, ok bool)

	// Len reports the number of IDs currently queued.
	Len() int

	// Kind reports which strategy this Frontier implements.
	Kind() Kind

	// State captures everything needed to resume this exact strategy's
	// future pop order from a snapshot.
	State() State

	// Pending returns the IDs still queued, in internal storage order. Feeding
	// this slice back through Restore with the same State reproduces the exact
	// future pop sequence. The returned slice must not be mutated by callers.
	Pending() []term.ID

	// Metrics reports a point-in-time snapshot of the frontier's depth and
	// cumulative enqueue/dequeue counts.
	Metrics() Metrics
}

// Metrics is the observable counter set every Frontier maintains. It is
// process-local bookkeeping, not part of a State snapshot: a restored
// frontier starts counting from its restored pending items. TotalDequeued
// equals TotalEnqueued once a run drains its frontier.
type Metrics struct {
	Depth         int
	TotalEnqueued int
	TotalDequeued int
}

// counters is the enqueue/dequeue bookkeeping embedded by every Frontier
// implementation.
type counters struct {
	enqueued int
	dequeued int
}

func (c *counters) metricsAt(depth int) Metrics {
	return Metrics{Depth: depth, TotalEnqueued: c.enqueued, TotalDequeued: c.dequeued}
}

// State is the serializable snapshot of a Frontier's internal ordering
// state. Seed and RNGState are only meaningful for Random; FIFO and LIFO
// leave them zero.
type State struct {
	Kind     Kind
	Seed     int64
	RNGState uint64
}

// New constructs a Frontier of the given kind. For Random, seed determines
// the initial draw sequence.
func New(kind Kind, seed int64) (Frontier, error) {
	switch kind {
	case FIFO:
		return &fifoFrontier{}, nil
	case LIFO:
		return &lifoFrontier{}, nil
	case Random:
		return &randomFrontier{seed: seed, rng: newRNG(seed)}, nil
	default:
		return nil, ErrUnknownKind
	}
}

// Restore rebuilds a Frontier from a prior State plus the IDs that were
// still pending at snapshot time, in the internal storage order Pending
// returned (the snapshot's recorded frontier list). The slice is taken as
// the new frontier's storage as-is, so it is not the pop order for LIFO or
// Random.
func Restore(st State, pending []term.ID) (Frontier, error) {
	switch st.Kind {
	case FIFO:
		f := &fifoFrontier{}
		f.items = append(f.items, pending...)
		f.enqueued = len(pending)
		return f, nil
	case LIFO:
		f := &lifoFrontier{}
		f.items = append(f.items, pending...)
		f.enqueued = len(pending)
		return f, nil
	case Random:
		f := &randomFrontier{seed: st.Seed, rng: restoreRNG(st.RNGState)}
		f.items = append(f.items, pending...)
		f.enqueued = len(pending)
		return f, nil
	default:
		return nil, ErrUnknownKind
	}
}

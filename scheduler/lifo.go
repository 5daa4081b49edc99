package scheduler

import "github.com/gokimono/scaleterm/term"

// lifoFrontier pops the latest-added ID first (depth-first).
type lifoFrontier struct {
	items []term.ID
	counters
}

func (f *lifoFrontier) Push(id term.ID) {
	f.items = append(f.items, id)
	f.enqueued++
}

func (f *lifoFrontier) Pop() (term.ID, bool) {
	n := len(f.items)
	if n == 0 {
		return "", false
	}
	id := f.items[n-1]
	f.items = f.items[:n-1]
	f.dequeued++
	return id, true
}

func (f *lifoFrontier) Len() int { return len(f.items) }

func (f *lifoFrontier) Kind() Kind { return LIFO }

func (f *lifoFrontier) State() State { return State{Kind: LIFO} }

func (f *lifoFrontier) Pending() []term.ID { return f.items }

func (f *lifoFrontier) Metrics() Metrics { return f.metricsAt(len(f.items)) }

package scheduler

import "github.com/gokimono/scaleterm/term"

// fifoFrontier pops the earliest-added ID first (breadth-first).
type fifoFrontier struct {
	items []term.ID
	counters
}

func (f *fifoFrontier) Push(id term.ID) {
	f.items = append(f.items, id)
	f.enqueued++
}

func (f *fifoFrontier) Pop() (term.ID, bool) {
	if len(f.items) == 0 {
		return "", false
	}
	id := f.items[0]
	f.items = f.items[1:]
	f.dequeued++
	return id, true
}

func (f *fifoFrontier) Len() int { return len(f.items) }

func (f *fifoFrontier) Kind() Kind { return FIFO }

func (f *fifoFrontier) State() State { return State{Kind: FIFO} }

func (f *fifoFrontier) Pending() []term.ID { return f.items }

func (f *fifoFrontier) Metrics() Metrics { return f.metricsAt(len(f.items)) }

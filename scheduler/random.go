package scheduler

import "github.com/gokimono/scaleterm/term"

// randomFrontier pops from a uniformly random position, driven by a seeded
// generator whose state is itself part of the snapshot, so a resumed run
// continues the exact same selection sequence a continuous run would have
// produced.
type randomFrontier struct {
	items []term.ID
	seed  int64
	rng   *rng
	counters
}

func (f *randomFrontier) Push(id term.ID) {
	f.items = append(f.items, id)
	f.enqueued++
}

func (f *randomFrontier) Pop() (term.ID, bool) {
	n := len(f.items)
	if n == 0 {
		return "", false
	}
	i := f.rng.intn(n)
	id := f.items[i]
	// Swap-remove keeps Pop O(1); it does not affect which element is
	// chosen, only where the remaining elements sit afterward, and the next
	// draw is computed fresh each time.
	f.items[i] = f.items[n-1]
	f.items = f.items[:n-1]
	f.dequeued++
	return id, true
}

func (f *randomFrontier) Len() int { return len(f.items) }

func (f *randomFrontier) Kind() Kind { return Random }

func (f *randomFrontier) State() State {
	return State{Kind: Random, Seed: f.seed, RNGState: f.rng.State()}
}

func (f *randomFrontier) Pending() []term.ID { return f.items }

func (f *randomFrontier) Metrics() Metrics { return f.metricsAt(len(f.items)) }

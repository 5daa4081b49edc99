package trace

// Buffered stores every event in memory in emission order, for tests and
// post-run analysis. The runtime that drives a Tracer is single-threaded,
// so Buffered has exactly one writer and carries no mutex.
type Buffered struct {
	events []Event
}

// NewBuffered creates an empty in-memory event buffer.
func NewBuffered() *Buffered {
	return &Buffered{}
}

func (b *Buffered) Emit(e Event) {
	b.events = append(b.events, e)
}

func (b *Buffered) Flush() error { return nil }

// History returns all buffered events in emission order. The returned slice
// must not be mutated by callers.
func (b *Buffered) History() []Event {
	return b.events
}

// Filter returns the subset of buffered events for which pred returns true,
// preserving emission order.
func (b *Buffered) Filter(pred func(Event) bool) []Event {
	var out []Event
	for _, e := range b.events {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// Clear discards all buffered events.
func (b *Buffered) Clear() {
	b.events = nil
}

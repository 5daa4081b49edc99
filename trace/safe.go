package trace

// Safe wraps a Tracer so a failing sink degrades instead of destabilizing
// the runtime loop: when the wrapped sink fails it is removed, and a warning
// event is recorded exactly once.
type Safe struct {
	inner    Tracer
	detached bool
	warning  *Event
}

// NewSafe wraps inner so panics from Emit, and errors from Flush, detach the
// sink on first occurrence rather than propagating into the runtime loop.
func NewSafe(inner Tracer) *Safe {
	return &Safe{inner: inner}
}

// Emit forwards to the wrapped Tracer unless it has already been detached.
// A panicking sink is caught, detached, and remembered as a one-time warning
// retrievable via TakeWarning.
func (s *Safe) Emit(e Event) {
	if s.detached {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.detach(e, r)
		}
	}()
	s.inner.Emit(e)
}

// Flush forwards to the wrapped Tracer. An error or panic detaches the sink
// and is swallowed here (per the "must not back-pressure" contract); callers
// that want to surface it should check TakeWarning after calling Flush.
func (s *Safe) Flush() (err error) {
	if s.detached {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			s.detach(Event{Msg: "flush"}, r)
			err = nil
		}
	}()
	if ferr := s.inner.Flush(); ferr != nil {
		s.detach(Event{Msg: "flush"}, ferr)
		return nil
	}
	return nil
}

func (s *Safe) detach(cause Event, reason interface{}) {
	if s.detached {
		return
	}
	s.detached = true
	warn := Event{
		Step: cause.Step,
		Rule: cause.Rule,
		Msg:  "tracer_sink_detached",
		Meta: map[string]interface{}{"reason": reason},
	}
	s.warning = &warn
}

// Detached reports whether the wrapped sink has been removed after a
// failure.
func (s *Safe) Detached() bool {
	return s.detached
}

// TakeWarning returns the one-time detachment warning event, if any, and
// clears it so a second call returns ok=false. The runtime should forward
// this event into its own event log exactly once.
func (s *Safe) TakeWarning() (Event, bool) {
	if s.warning == nil {
		return Event{}, false
	}
	w := *s.warning
	s.warning = nil
	return w, true
}

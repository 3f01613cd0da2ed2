package execution

import (
	"sync"
	"time"
)

// Event names a timed phase of a call.
type Event string

const (
	TotalTime       Event = "total"
	MarshalTime     Event = "marshal"
	CredentialsTime Event = "credentials"
	SignTime        Event = "sign"
	DispatchTime    Event = "dispatch"
	UnmarshalTime   Event = "unmarshal"
)

// Timing records start/stop pairs of events. Restarting an event that already
// has a duration adds to it, so repeated phases (a dispatch per retry
// attempt) accumulate.
type Timing struct {
	mu        sync.Mutex
	now       func() time.Time
	open      map[Event]time.Time
	durations map[Event]time.Duration
}

// NewTiming returns an empty recorder.
func NewTiming() *Timing {
	return &Timing{
		now:       time.Now,
		open:      make(map[Event]time.Time),
		durations: make(map[Event]time.Duration),
	}
}

// Start opens e. Starting an event that is already open is a no-op.
func (t *Timing) Start(e Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.open[e]; ok {
		return
	}
	t.open[e] = t.now()
}

// Stop closes e and returns the time spent in this start/stop pair.
// Stopping an event that is not open returns 0.
func (t *Timing) Stop(e Event) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopLocked(e)
}

func (t *Timing) stopLocked(e Event) time.Duration {
	started, ok := t.open[e]
	if !ok {
		return 0
	}
	delete(t.open, e)
	d := t.now().Sub(started)
	t.durations[e] += d
	return d
}

// StopAll closes every open event and returns the ones it closed.
func (t *Timing) StopAll() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	closed := make([]Event, 0, len(t.open))
	for e := range t.open {
		closed = append(closed, e)
	}
	for _, e := range closed {
		t.stopLocked(e)
	}
	return closed
}

// Open returns the events currently started but not stopped.
func (t *Timing) Open() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, 0, len(t.open))
	for e := range t.open {
		out = append(out, e)
	}
	return out
}

// Duration returns the accumulated time of a stopped event.
func (t *Timing) Duration(e Event) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.durations[e]
}

// Snapshot returns a copy of all accumulated durations.
func (t *Timing) Snapshot() map[Event]time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[Event]time.Duration, len(t.durations))
	for e, d := range t.durations {
		out[e] = d
	}
	return out
}

// Package progress carries transient scan and cleanup progress events from
// engine workers to whoever is listening, at a bounded rate.
package progress

import (
	"sync"
	"time"
)

// Phase represents the current phase of operation
type Phase string

const (
	PhaseScanning Phase = "scanning"
	PhaseHashing  Phase = "hashing"
	PhaseCleaning Phase = "cleaning"
	PhaseComplete Phase = "complete"
)

// Event is a transient progress update. Events are advisory; none are
// persisted and listeners may miss intermediate ones.
type Event struct {
	Phase          Phase
	Kind           string // scan kind or cleanup category
	ItemsProcessed int
	CurrentPath    string
	TotalSize      int64
}

// Reporter provides thread-safe, rate-limited progress fan-out. Workers may
// publish per directory; listeners see at most one event per throttle
// interval, plus every phase-complete event.
type Reporter struct {
	mu        sync.Mutex
	listeners []chan Event
	interval  time.Duration
	last      time.Time
}

// NewReporter creates a Reporter that emits at most one event per interval.
func NewReporter(interval time.Duration) *Reporter {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Reporter{interval: interval}
}

// Subscribe returns a channel that receives progress updates
func (r *Reporter) Subscribe() <-chan Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan Event, 16)
	r.listeners = append(r.listeners, ch)
	return ch
}

// Unsubscribe closes and removes a listener channel
func (r *Reporter) Unsubscribe(ch <-chan Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, listener := range r.listeners {
		if listener == ch {
			close(listener)
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

// Publish delivers an event to all listeners, dropping it when the throttle
// interval has not elapsed. Completion events always go through.
func (r *Reporter) Publish(ev Event) {
	r.mu.Lock()
	now := time.Now()
	if ev.Phase != PhaseComplete && now.Sub(r.last) < r.interval {
		r.mu.Unlock()
		return
	}
	r.last = now
	listeners := make([]chan Event, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	// Non-blocking send; a slow listener loses events, never stalls a worker.
	for _, listener := range listeners {
		select {
		case listener <- ev:
		default:
		}
	}
}

// Close closes all listener channels.
func (r *Reporter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, listener := range r.listeners {
		close(listener)
	}
	r.listeners = nil
}

// Package sched provides the discrete-event scheduler that advances simulated time.
//
// The scheduler is single-threaded. Events fire strictly in (time, insertion
// sequence) order, and each callback runs to completion before the next event
// is dequeued. Callbacks may schedule, reschedule, or cancel other events
// (including themselves) while running.
package sched

import (
	"container/heap"
	"fmt"
	"math"
	"time"
)

// Event is a handle to a scheduled callback.
//
// The handle remains valid after the event fires or is cancelled, so owners
// (effects, cooldown drivers, swing timers) can keep one handle and
// Reschedule it repeatedly.
type Event struct {
	name  string
	at    time.Duration
	seq   uint64
	fn    func()
	index int // position in the heap, -1 when not queued
}

// Name returns the label given at Schedule time. Used in logs and traces.
func (e *Event) Name() string { return e.name }

// At returns the simulated time the event is (or was last) due.
func (e *Event) At() time.Duration { return e.at }

// Pending reports whether the event is still queued.
func (e *Event) Pending() bool { return e != nil && e.index >= 0 }

// Scheduler is a simulated clock plus an ordered event queue.
type Scheduler struct {
	now    time.Duration
	seq    uint64
	fired  uint64
	events eventHeap
}

// New creates a scheduler at time zero with no pending events.
func New() *Scheduler {
	return &Scheduler{events: make(eventHeap, 0, 64)}
}

// Now returns the current simulated time.
func (s *Scheduler) Now() time.Duration { return s.now }

// Schedule queues fn to run after delay.
//
// A negative delay is a caller bug and panics: it would move time backwards.
// Events with equal due times fire in the order they were scheduled.
func (s *Scheduler) Schedule(delay time.Duration, name string, fn func()) *Event {
	if delay < 0 {
		panic(fmt.Sprintf("sched: negative delay %v for event %q", delay, name))
	}
	if fn == nil {
		panic(fmt.Sprintf("sched: nil callback for event %q", name))
	}
	s.seq++
	ev := &Event{name: name, at: s.now + delay, seq: s.seq, fn: fn, index: -1}
	heap.Push(&s.events, ev)
	return ev
}

// Reschedule moves ev to fire after delay from now.
// A fired or cancelled event is queued again.
func (s *Scheduler) Reschedule(ev *Event, delay time.Duration) {
	if delay < 0 {
		panic(fmt.Sprintf("sched: negative delay %v for event %q", delay, ev.name))
	}
	s.seq++
	ev.at = s.now + delay
	ev.seq = s.seq
	if ev.index >= 0 {
		heap.Fix(&s.events, ev.index)
		return
	}
	heap.Push(&s.events, ev)
}

// Cancel removes ev from the queue. Cancelling a nil, fired, or already
// cancelled event is a no-op.
func (s *Scheduler) Cancel(ev *Event) {
	if ev == nil || ev.index < 0 {
		return
	}
	heap.Remove(&s.events, ev.index)
}

// Step fires the next event, advancing time to its due time.
// Returns false when the queue is empty.
func (s *Scheduler) Step() bool {
	if len(s.events) == 0 {
		return false
	}
	ev := heap.Pop(&s.events).(*Event)
	s.now = ev.at
	s.fired++
	ev.fn()
	return true
}

// RunUntil fires every event due at or before end, then sets the clock to end.
// Events scheduled during the run are honoured if they fall inside the window.
func (s *Scheduler) RunUntil(end time.Duration) {
	for len(s.events) > 0 && s.events[0].at <= end {
		s.Step()
	}
	if s.now < end {
		s.now = end
	}
}

// Advance runs the scheduler forward by d.
func (s *Scheduler) Advance(d time.Duration) {
	if d < 0 {
		panic(fmt.Sprintf("sched: negative advance %v", d))
	}
	s.RunUntil(s.now + d)
}

// Pending returns the number of queued events.
func (s *Scheduler) Pending() int { return len(s.events) }

// Fired returns the number of events fired since the last Reset.
func (s *Scheduler) Fired() uint64 { return s.fired }

// Reset drops every pending event and rewinds the clock to zero.
// Used at trial boundaries.
func (s *Scheduler) Reset() {
	for _, ev := range s.events {
		ev.index = -1
	}
	s.events = s.events[:0]
	s.now = 0
	s.seq = 0
	s.fired = 0
}

// Seconds converts fractional seconds to a Duration, rounding to the nearest
// nanosecond so values like 2.6s do not truncate to 2.599999999s.
func Seconds(f float64) time.Duration {
	return time.Duration(math.Round(f * float64(time.Second)))
}

// eventHeap orders events by due time, then by scheduling sequence.
type eventHeap []*Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *eventHeap) Push(x any) {
	ev := x.(*Event)
	ev.index = len(*h)
	*h = append(*h, ev)
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	ev.index = -1
	*h = old[:n-1]
	return ev
}

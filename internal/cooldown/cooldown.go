// Package cooldown tracks named ready-at timers that gate action reuse.
package cooldown

import (
	"fmt"
	"sort"
	"time"
)

// Clock supplies simulated time. *sched.Scheduler satisfies it.
type Clock interface {
	Now() time.Duration
}

// Entry is a single named cooldown.
type Entry struct {
	name     string
	duration time.Duration
	readyAt  time.Duration
	clock    Clock
}

// Name returns the entry's key.
func (e *Entry) Name() string { return e.name }

// Duration returns the default duration used by Trigger.
func (e *Entry) Duration() time.Duration { return e.duration }

// Start makes the entry ready again after d. A negative d panics.
func (e *Entry) Start(d time.Duration) {
	if d < 0 {
		panic(fmt.Sprintf("cooldown: %q started with negative duration %v", e.name, d))
	}
	e.readyAt = e.clock.Now() + d
}

// Trigger starts the entry with its registered duration.
func (e *Entry) Trigger() {
	e.Start(e.duration)
}

// Remains returns the time left, never negative.
func (e *Entry) Remains() time.Duration {
	if r := e.readyAt - e.clock.Now(); r > 0 {
		return r
	}
	return 0
}

// Ready reports whether Remains() is zero.
func (e *Entry) Ready() bool {
	return e.Remains() == 0
}

// Reduce moves the ready-at time earlier by delta, but never before now.
// An elapsed cooldown stays elapsed. A negative delta panics.
func (e *Entry) Reduce(delta time.Duration) {
	if delta < 0 {
		panic(fmt.Sprintf("cooldown: %q reduced by negative delta %v", e.name, delta))
	}
	now := e.clock.Now()
	if e.readyAt <= now {
		return
	}
	e.readyAt -= delta
	if e.readyAt < now {
		e.readyAt = now
	}
}

// Reset makes the entry ready now.
func (e *Entry) Reset() {
	e.readyAt = e.clock.Now()
}

// Ledger is a set of cooldown entries addressed by name.
type Ledger struct {
	clock   Clock
	entries map[string]*Entry
}

// New creates an empty ledger reading time from clock.
func New(clock Clock) *Ledger {
	return &Ledger{clock: clock, entries: make(map[string]*Entry)}
}

// Register creates an entry with a default duration, or updates the default
// duration of an existing one.
func (l *Ledger) Register(name string, duration time.Duration) *Entry {
	if duration < 0 {
		panic(fmt.Sprintf("cooldown: %q registered with negative duration %v", name, duration))
	}
	e := l.Get(name)
	e.duration = duration
	return e
}

// Get returns the entry for name, registering a ready, zero-duration entry on
// first use.
func (l *Ledger) Get(name string) *Entry {
	if e, ok := l.entries[name]; ok {
		return e
	}
	e := &Entry{name: name, clock: l.clock, readyAt: l.clock.Now()}
	l.entries[name] = e
	return e
}

// Lookup returns the entry for name without registering it.
func (l *Ledger) Lookup(name string) (*Entry, bool) {
	e, ok := l.entries[name]
	return e, ok
}

// Names returns every registered name, sorted.
func (l *Ledger) Names() []string {
	names := make([]string, 0, len(l.entries))
	for n := range l.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ResetAll makes every entry ready now. Used at trial boundaries.
func (l *Ledger) ResetAll() {
	for _, e := range l.entries {
		e.Reset()
	}
}

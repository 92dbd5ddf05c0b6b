package effect

import (
	"fmt"

	"github.com/roach88/actionsim/internal/observe"
	"github.com/roach88/actionsim/internal/rng"
	"github.com/roach88/actionsim/internal/sched"
)

// Set is the registry of effects owned by one entity (an actor's buffs or a
// target's debuffs). Registration order is preserved for sampling.
type Set struct {
	label   string
	sched   *sched.Scheduler
	streams rng.Provider
	rec     *observe.Recorder
	byName  map[string]*Effect
	order   []*Effect
}

// NewSet creates an empty set. label prefixes uptime sample names
// ("target" gives "target.expose_armor"); an empty label uses bare names.
func NewSet(label string, s *sched.Scheduler, streams rng.Provider, rec *observe.Recorder) *Set {
	return &Set{
		label:   label,
		sched:   s,
		streams: streams,
		rec:     rec,
		byName:  make(map[string]*Effect),
	}
}

// Register creates and stores an effect. Registering a name twice panics.
func (s *Set) Register(def Def) *Effect {
	if _, ok := s.byName[def.Name]; ok {
		panic(fmt.Sprintf("effect: %q registered twice in set %q", def.Name, s.label))
	}
	e := New(def, s.sched, s.streams, s.rec)
	s.byName[def.Name] = e
	s.order = append(s.order, e)
	return e
}

// Get returns a registered effect. Asking for an unregistered name is a
// wiring bug and panics.
func (s *Set) Get(name string) *Effect {
	e, ok := s.byName[name]
	if !ok {
		panic(fmt.Sprintf("effect: %q is not registered in set %q", name, s.label))
	}
	return e
}

// Lookup returns a registered effect and whether it exists.
func (s *Set) Lookup(name string) (*Effect, bool) {
	e, ok := s.byName[name]
	return e, ok
}

// Up reports whether name is registered and active.
func (s *Set) Up(name string) bool {
	e, ok := s.byName[name]
	return ok && e.Check()
}

// Effects returns the effects in registration order.
func (s *Set) Effects() []*Effect {
	out := make([]*Effect, len(s.order))
	copy(out, s.order)
	return out
}

// Sample records one uptime sample per effect.
func (s *Set) Sample() {
	for _, e := range s.order {
		name := e.Name()
		if s.label != "" {
			name = s.label + "." + name
		}
		s.rec.Sample(name, e.Check())
	}
}

// ResetAll silently clears every effect.
func (s *Set) ResetAll() {
	for _, e := range s.order {
		e.Reset()
	}
}

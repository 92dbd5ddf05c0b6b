package actor

import (
	"time"

	"github.com/roach88/actionsim/internal/combat"
	"github.com/roach88/actionsim/internal/effect"
	"github.com/roach88/actionsim/internal/observe"
	"github.com/roach88/actionsim/internal/rng"
	"github.com/roach88/actionsim/internal/sched"
)

// Encounter-wide aura names.
const (
	AuraBloodlust = "bloodlust"
)

// Target is the entity actors attack. It owns its debuffs.
type Target struct {
	Name    string
	Defense combat.Defense
	Debuffs *effect.Set

	damage float64
}

// Damage applies amount to the target.
func (t *Target) Damage(amount float64) {
	if amount > 0 {
		t.damage += amount
	}
}

// DamageTaken returns the damage applied since the last Reset.
func (t *Target) DamageTaken() float64 { return t.damage }

// Reset clears damage and debuffs.
func (t *Target) Reset() {
	t.damage = 0
	t.Debuffs.ResetAll()
}

// Encounter is the shared context of one simulated fight: the scheduler,
// random streams, recorder, target, encounter-wide auras, and every actor.
type Encounter struct {
	Sched   *sched.Scheduler
	Streams rng.Provider
	Rec     *observe.Recorder
	Target  *Target
	Auras   *effect.Set

	actors []*Actor
}

// NewEncounter creates an encounter with one target using def and the
// standard encounter auras registered.
func NewEncounter(s *sched.Scheduler, streams rng.Provider, rec *observe.Recorder, def combat.Defense) *Encounter {
	if rec == nil {
		rec = observe.New()
	}
	enc := &Encounter{
		Sched:   s,
		Streams: streams,
		Rec:     rec,
		Auras:   effect.NewSet("aura", s, streams, rec),
		Target: &Target{
			Name:    "target",
			Defense: def,
			Debuffs: effect.NewSet("target", s, streams, rec),
		},
	}
	enc.Auras.Register(effect.Def{Name: AuraBloodlust, Duration: 40 * time.Second, Value: 0.30})
	return enc
}

// HasteMultiplier returns the multiplier from encounter-wide haste auras.
func (e *Encounter) HasteMultiplier() float64 {
	return 1 + e.Auras.Get(AuraBloodlust).Value()
}

// ScheduleBloodlust raises the bloodlust aura after delay.
func (e *Encounter) ScheduleBloodlust(delay time.Duration) *sched.Event {
	return e.Sched.Schedule(delay, "aura/"+AuraBloodlust, func() {
		e.Auras.Get(AuraBloodlust).Trigger()
	})
}

// Actors returns the actors in join order.
func (e *Encounter) Actors() []*Actor {
	out := make([]*Actor, len(e.actors))
	copy(out, e.actors)
	return out
}

// Ally returns the first actor other than a, or nil when a is alone.
func (e *Encounter) Ally(a *Actor) *Actor {
	for _, other := range e.actors {
		if other != a {
			return other
		}
	}
	return nil
}

// Reset clears auras, the target, and every actor.
func (e *Encounter) Reset() {
	e.Auras.ResetAll()
	if e.Target != nil {
		e.Target.Reset()
	}
	for _, a := range e.actors {
		a.Reset()
	}
}

func (e *Encounter) join(a *Actor) {
	e.actors = append(e.actors, a)
}

// Package pipeline runs actions through the fixed readiness and execution
// steps: readiness, cost, outcome, consumption, primary effect, triggers,
// point generation, and cooldown plus lock.
package pipeline

import (
	"time"

	"github.com/roach88/actionsim/internal/actor"
	"github.com/roach88/actionsim/internal/combat"
	"github.com/roach88/actionsim/internal/trigger"
)

// Action is the static definition of an ability. One pipeline serves every
// action; behavior differs only through these fields.
type Action struct {
	Name string

	// BaseCost is the energy cost. Cost overrides it when set.
	BaseCost float64
	Cost     func(*actor.Actor) float64

	// RequiresPoints makes the action a finisher: it needs at least one
	// point and spends all of them on a qualifying hit.
	RequiresPoints bool
	// GrantsPoints is added on a qualifying hit.
	GrantsPoints int

	RequiresWeapon  actor.WeaponType
	RequiresBehind  bool
	RequiresStealth bool

	// Slot is the weapon the attack is made with.
	Slot actor.Slot
	Kind combat.Kind

	// Simple actions have no outcome roll and always hit.
	Simple  bool
	Harmful bool

	OffGCD bool
	// GCD overrides the actor's global cooldown when positive.
	GCD time.Duration
	// Cooldown registers an entry named after the action.
	Cooldown time.Duration

	// Ready is an extra readiness predicate. It must not mutate state.
	Ready func(*actor.Actor) bool

	// Magnitude is the base amount applied to the target.
	Magnitude func(*Attempt) float64
	// CritBonus adds to the crit chance of this attempt's table.
	CritBonus func(*actor.Actor) float64
	// CritMultiplier defaults to 2.
	CritMultiplier float64

	// Apply runs after the magnitude on a qualifying outcome.
	Apply func(*Attempt)

	// RefundOnMiss is the fraction of consumed energy returned on a miss
	// or dodge.
	RefundOnMiss float64
}

func (a *Action) cost(act *actor.Actor) float64 {
	if a.Cost != nil {
		return a.Cost(act)
	}
	return a.BaseCost
}

func (a *Action) critMultiplier() float64 {
	if a.CritMultiplier > 0 {
		return a.CritMultiplier
	}
	return 2
}

// Attempt is the transient state of one pass through the pipeline.
type Attempt struct {
	ID         int
	Parent     int // 0 for a primary attempt
	Action     *Action
	Actor      *actor.Actor
	Background bool
	Auto       bool
	Depth      int

	Cost         float64
	Outcome      combat.Outcome
	PointsBefore int
	PointsSpent  int
	Consumed     float64
	Amount       float64

	// Spawned lists the background attempts drained after a primary
	// attempt, in execution order.
	Spawned []*Attempt

	spawn func(trigger, action string)
}

// Qualifying reports whether the attempt landed.
func (at *Attempt) Qualifying() bool {
	return at.Action.Simple || at.Outcome.Qualifying()
}

// Crit reports whether the attempt crit.
func (at *Attempt) Crit() bool {
	return at.Outcome == combat.OutcomeCrit
}

func (at *Attempt) context() *trigger.Context {
	ctx := &trigger.Context{
		Actor:        at.Actor,
		Action:       at.Action.Name,
		Outcome:      at.Outcome,
		Slot:         at.Action.Slot,
		Background:   at.Background,
		Harmful:      at.Action.Harmful,
		GrantsPoints: at.Action.GrantsPoints > 0,
		PointsBefore: at.PointsBefore,
		PointsSpent:  at.PointsSpent,
		Consumed:     at.Consumed,
		Amount:       at.Amount,
	}
	ctx.Spawn = func(action string) { at.spawn(ctx.Trigger, action) }
	return ctx
}

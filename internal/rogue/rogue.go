// Package rogue is the reference archetype: an energy and combo point
// melee class built entirely from the generic mechanics.
package rogue

import (
	"log/slog"
	"time"

	"github.com/roach88/actionsim/internal/actor"
	"github.com/roach88/actionsim/internal/effect"
	"github.com/roach88/actionsim/internal/pipeline"
	"github.com/roach88/actionsim/internal/sched"
	"github.com/roach88/actionsim/internal/trigger"
)

// Options are the archetype settings that do not live on the actor.
type Options struct {
	// PartyCrits holds the mean crit interval of each party member feeding
	// honor among thieves.
	PartyCrits []time.Duration

	// OpeningStealth starts each trial in stealth.
	OpeningStealth bool

	// MaxAttempts overrides the pipeline's per-execution attempt quota.
	MaxAttempts int
}

// Rogue binds the archetype to one actor.
type Rogue struct {
	Actor *actor.Actor
	Exec  *pipeline.Executor
	Chain *trigger.Chain

	opts Options

	poison  *effect.Periodic
	rupture *effect.Periodic
	spree   *effect.Periodic

	ruptureTick   float64
	tricksPending bool

	swings []*sched.Event
	party  []*sched.Event
	err    error
}

// Build registers the archetype's effects, actions, and triggers on a.
func Build(a *actor.Actor, opts Options) *Rogue {
	r := &Rogue{Actor: a, opts: opts}
	r.Chain = trigger.NewChain()
	var popts []pipeline.Option
	if opts.MaxAttempts > 0 {
		popts = append(popts, pipeline.WithMaxAttempts(opts.MaxAttempts))
	}
	r.Exec = pipeline.NewExecutor(a, r.Chain, popts...)

	r.registerEffects()
	r.registerActions()
	r.registerTriggers()

	a.OnReset(func() {
		r.tricksPending = false
		r.ruptureTick = 0
		r.swings = r.swings[:0]
		r.party = r.party[:0]
		r.err = nil
	})
	return r
}

// Start begins the trial's party crits and melee swings. With opening
// stealth the swings wait until stealth breaks. Call after the actor's Begin.
func (r *Rogue) Start() {
	if r.opts.OpeningStealth {
		r.Actor.Buffs.Get(BuffStealth).Trigger()
	} else {
		r.startSwings()
	}
	r.startParty()
}

// Err returns the first error raised by a scheduled attempt this trial.
func (r *Rogue) Err() error { return r.err }

// auto runs a swing, tick, or channel hit. Errors stop nothing here; the
// first one is kept for the runner to report.
func (r *Rogue) auto(name string) {
	if _, err := r.Exec.ExecuteAuto(name); err != nil && r.err == nil {
		slog.Warn("scheduled attempt failed", "action", name, "error", err)
		r.err = err
	}
}

package sim

import (
	"log/slog"
	"time"

	"github.com/roach88/actionsim/internal/actor"
	"github.com/roach88/actionsim/internal/apl"
	"github.com/roach88/actionsim/internal/combat"
	"github.com/roach88/actionsim/internal/observe"
	"github.com/roach88/actionsim/internal/profile"
	"github.com/roach88/actionsim/internal/rng"
	"github.com/roach88/actionsim/internal/rogue"
	"github.com/roach88/actionsim/internal/sched"
)

// maxDecisionsPerInstant bounds how many actions the decision loop may
// execute without the clock moving.
const maxDecisionsPerInstant = 32

// world is one worker's private simulation: scheduler, streams, recorder,
// encounter, and the profile's actor. It is reused across trials.
type world struct {
	sched *sched.Scheduler
	src   *rng.Source
	rec   *observe.Recorder
	enc   *actor.Encounter
	actor *actor.Actor
	rogue *rogue.Rogue
	list  *apl.List

	bloodlust   bool
	bloodlustAt time.Duration

	decideAt  time.Duration
	decisions int
	err       error
}

func newWorld(p *profile.Profile, seed uint64) (*world, error) {
	w := &world{
		sched: sched.New(),
		src:   rng.NewSource(seed),
		rec:   observe.New(),

		bloodlust:   p.Bloodlust,
		bloodlustAt: p.BloodlustAt,
	}
	w.enc = actor.NewEncounter(w.sched, w.src, w.rec, combat.DefaultDefense)
	w.actor = actor.New(p.ActorConfig(), w.enc)
	if p.Ally {
		actor.New(actor.Config{Name: "ally"}, w.enc)
	}
	w.rogue = rogue.Build(w.actor, p.Options())

	list, err := apl.Compile(p.APL, w.rogue.Exec)
	if err != nil {
		return nil, err
	}
	w.list = list
	return w, nil
}

// trial runs one fight of length dur and returns the damage per second.
func (w *world) trial(seed uint64, dur time.Duration) (float64, error) {
	w.src.Reseed(seed)
	w.sched.Reset()
	w.enc.Reset()
	w.err = nil
	w.decideAt = -1
	w.decisions = 0

	w.actor.Begin()
	w.rogue.Start()
	if w.bloodlust {
		w.enc.ScheduleBloodlust(w.bloodlustAt)
	}
	w.sched.Schedule(0, "decide", w.decide)
	w.sched.RunUntil(dur)

	if w.err != nil {
		return 0, w.err
	}
	if err := w.rogue.Err(); err != nil {
		return 0, err
	}
	return w.enc.Target.DamageTaken() / dur.Seconds(), nil
}

// decide evaluates the priority list once and schedules the next
// evaluation.
func (w *world) decide() {
	if w.err != nil || w.rogue.Err() != nil {
		return
	}
	a := w.actor
	// Locked also reports a channel, whose end is not LockedUntil.
	if a.Channeling() {
		w.sched.Schedule(actor.MinAvailable, "decide", w.decide)
		return
	}
	if a.Locked() {
		w.sched.Schedule(a.LockedUntil()-a.Now(), "decide", w.decide)
		return
	}

	if a.Now() != w.decideAt {
		w.decideAt = a.Now()
		w.decisions = 0
	}
	w.decisions++
	if w.decisions > maxDecisionsPerInstant {
		slog.Warn("decision loop did not advance", "at", a.Now(), "decisions", w.decisions)
		w.sched.Schedule(actor.MinAvailable, "decide", w.decide)
		return
	}

	d := w.list.Decide()
	if d.Action == "" {
		w.sched.Schedule(d.Wait, "decide", w.decide)
		return
	}
	at, err := w.rogue.Exec.Execute(d.Action)
	if err != nil {
		w.err = err
		return
	}
	if at == nil {
		w.sched.Schedule(actor.MinAvailable, "decide", w.decide)
		return
	}
	// Off-GCD actions leave the actor free to act again at once.
	w.sched.Schedule(0, "decide", w.decide)
}

package rogue

import (
	"strconv"
	"time"

	"github.com/roach88/actionsim/internal/actor"
	"github.com/roach88/actionsim/internal/sched"
)

// swingTime is the hasted interval between swings of the weapon in slot.
func (r *Rogue) swingTime(slot actor.Slot) time.Duration {
	a := r.Actor
	w := a.Weapon(slot)
	haste := a.HasteMultiplier() * (1 + a.Buffs.Get(BuffSliceAndDice).Value())
	return time.Duration(float64(w.Speed) / haste)
}

func (r *Rogue) startSwings() {
	a := r.Actor
	if a.MainHand == nil || a.MainHand.Speed <= 0 {
		return
	}
	r.swings = append(r.swings, r.swingLoop(actor.MainHand, ActionMeleeMainHand, 10*time.Millisecond))
	if a.OffHand != nil && a.OffHand.Speed > 0 {
		r.swings = append(r.swings, r.swingLoop(actor.OffHand, ActionMeleeOffHand, r.swingTime(actor.OffHand)/2))
	}
}

func (r *Rogue) swingLoop(slot actor.Slot, action string, first time.Duration) *sched.Event {
	var ev *sched.Event
	ev = r.Actor.Sched.Schedule(first, "swing/"+action, func() {
		r.auto(action)
		r.Actor.Sched.Reschedule(ev, r.swingTime(slot))
	})
	return ev
}

// startParty schedules each party member's crits at uniformly drawn
// intervals between half and one and a half times its mean.
func (r *Rogue) startParty() {
	if r.Actor.Talent(TalentHonorAmongThieves) == 0 {
		return
	}
	for i, mean := range r.opts.PartyCrits {
		if mean <= 0 {
			continue
		}
		st := r.Actor.Stream("party/" + strconv.Itoa(i))
		next := func() time.Duration {
			return sched.Seconds(st.Range(0.5*mean.Seconds(), 1.5*mean.Seconds()))
		}
		var ev *sched.Event
		ev = r.Actor.Sched.Schedule(next(), "party_crit", func() {
			r.partyCrit()
			r.Actor.Sched.Reschedule(ev, next())
		})
		r.party = append(r.party, ev)
	}
}

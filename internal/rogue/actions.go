package rogue

import (
	"time"

	"github.com/roach88/actionsim/internal/actor"
	"github.com/roach88/actionsim/internal/combat"
	"github.com/roach88/actionsim/internal/pipeline"
)

// ruptureCoeff is the attack power coefficient per rupture tick, by points.
var ruptureCoeff = []float64{0.015, 0.024, 0.030, 0.03428571, 0.0375}

func byPoints(n int, table []float64) float64 {
	if n <= 0 {
		return 0
	}
	return table[min(n, len(table))-1]
}

func (r *Rogue) weaponDamage(slot actor.Slot) float64 {
	w := r.Actor.Weapon(slot)
	if w == nil {
		return 0
	}
	d := w.Average() + r.Actor.Stats.AttackPower()/14*w.Speed.Seconds()
	if slot == actor.OffHand {
		d *= 0.5
	}
	return d
}

// multiplier is the product of every active damage buff.
func (r *Rogue) multiplier() float64 {
	b := r.Actor.Buffs
	m := 1.0
	for _, name := range []string{BuffBanditsGuile, BuffMasterOfSubtlety, BuffKillingSpree, BuffTricksOfTheTrade} {
		m *= 1 + b.Get(name).Value()
	}
	return m
}

func (r *Rogue) finisherMultiplier() float64 {
	return r.multiplier() * (1 + r.Actor.Target().Debuffs.Get(DebuffRevealingStrike).Value())
}

func coldBlood(a *actor.Actor) float64 {
	return a.Buffs.Get(BuffColdBlood).Value()
}

func talented(name string) func(*actor.Actor) bool {
	return func(a *actor.Actor) bool { return a.Talent(name) > 0 }
}

func (r *Rogue) strike(slot actor.Slot, weaponMult, flat float64) func(*pipeline.Attempt) float64 {
	return func(*pipeline.Attempt) float64 {
		return (r.weaponDamage(slot)*weaponMult + flat) * r.multiplier()
	}
}

func (r *Rogue) registerActions() {
	a := r.Actor
	e := r.Exec
	debuffs := a.Target().Debuffs

	// Point generators.
	e.Register(pipeline.Action{
		Name: ActionSinisterStrike,
		Cost: func(a *actor.Actor) float64 {
			return 45 - 2*float64(a.Talent(TalentImprovedSinisterStrike))
		},
		GrantsPoints: 1,
		Harmful:      true,
		RefundOnMiss: 0.8,
		CritBonus:    coldBlood,
		Magnitude:    r.strike(actor.MainHand, 1.0, 200),
	})
	e.Register(pipeline.Action{
		Name:         ActionRevealingStrike,
		BaseCost:     40,
		GrantsPoints: 1,
		Harmful:      true,
		RefundOnMiss: 0.8,
		CritBonus:    coldBlood,
		Magnitude:    r.strike(actor.MainHand, 1.25, 0),
		Apply: func(*pipeline.Attempt) {
			debuffs.Get(DebuffRevealingStrike).Trigger()
		},
	})
	e.Register(pipeline.Action{
		Name:           ActionBackstab,
		BaseCost:       60,
		GrantsPoints:   1,
		RequiresWeapon: actor.Dagger,
		RequiresBehind: true,
		Harmful:        true,
		RefundOnMiss:   0.8,
		CritBonus:      coldBlood,
		Magnitude:      r.strike(actor.MainHand, 2.0, 310),
	})
	e.Register(pipeline.Action{
		Name:            ActionAmbush,
		BaseCost:        60,
		GrantsPoints:    2,
		RequiresStealth: true,
		Harmful:         true,
		RefundOnMiss:    0.8,
		CritBonus:       coldBlood,
		Magnitude:       r.strike(actor.MainHand, 1.9, 330),
	})

	// Finishers.
	e.Register(pipeline.Action{
		Name:           ActionEviscerate,
		BaseCost:       35,
		RequiresPoints: true,
		Harmful:        true,
		CritBonus:      coldBlood,
		Magnitude: func(at *pipeline.Attempt) float64 {
			n := float64(at.PointsSpent)
			return (355*n + 0.091*n*a.Stats.AttackPower()) * r.finisherMultiplier()
		},
		Apply: func(*pipeline.Attempt) {
			debuffs.Get(DebuffRevealingStrike).Expire()
		},
	})
	e.Register(pipeline.Action{
		Name:           ActionSliceAndDice,
		BaseCost:       25,
		RequiresPoints: true,
		Simple:         true,
		Apply: func(at *pipeline.Attempt) {
			a.Buffs.Get(BuffSliceAndDice).TriggerWith(at.PointsSpent)
		},
	})
	e.Register(pipeline.Action{
		Name:           ActionRupture,
		BaseCost:       25,
		RequiresPoints: true,
		Harmful:        true,
		Apply: func(at *pipeline.Attempt) {
			n := at.PointsSpent
			r.ruptureTick = 142 + 20*float64(n) + byPoints(n, ruptureCoeff)*a.Stats.AttackPower()
			r.rupture.Start(3 + n)
			debuffs.Get(DebuffRevealingStrike).Expire()
		},
	})
	e.Register(pipeline.Action{
		Name:           ActionEnvenom,
		BaseCost:       35,
		RequiresPoints: true,
		Harmful:        true,
		CritBonus:      coldBlood,
		Ready: func(*actor.Actor) bool {
			return debuffs.Up(DebuffDeadlyPoison)
		},
		Magnitude: func(at *pipeline.Attempt) float64 {
			doses := min(debuffs.Get(DebuffDeadlyPoison).Stack(), at.PointsSpent)
			n := float64(at.PointsSpent)
			return (240*float64(doses) + 0.09*n*a.Stats.AttackPower()) * r.finisherMultiplier()
		},
		Apply: func(at *pipeline.Attempt) {
			a.Buffs.Get(BuffEnvenom).TriggerWith(at.PointsSpent)
			doses := debuffs.Get(DebuffDeadlyPoison)
			if n := min(doses.Stack(), at.PointsSpent); n > 0 {
				doses.Decrement(n)
			}
			if !doses.Check() {
				r.poison.Cancel()
			}
			debuffs.Get(DebuffRevealingStrike).Expire()
		},
	})
	e.Register(pipeline.Action{
		Name:           ActionExposeArmor,
		BaseCost:       25,
		RequiresPoints: true,
		Harmful:        true,
		Ready: func(*actor.Actor) bool {
			return !debuffs.Up(DebuffSunderArmor)
		},
		Apply: func(at *pipeline.Attempt) {
			debuffs.Get(DebuffExposeArmor).TriggerWith(at.PointsSpent)
		},
	})

	// Cooldowns and utility.
	e.Register(pipeline.Action{
		Name:     ActionAdrenalineRush,
		Simple:   true,
		OffGCD:   true,
		Cooldown: 180 * time.Second,
		Ready:    talented(TalentAdrenalineRush),
		Apply: func(*pipeline.Attempt) {
			a.Buffs.Get(BuffAdrenalineRush).Trigger()
		},
	})
	e.Register(pipeline.Action{
		Name:     ActionKillingSpree,
		Simple:   true,
		Cooldown: 120 * time.Second,
		Ready:    talented(TalentKillingSpree),
		Apply: func(*pipeline.Attempt) {
			a.Buffs.Get(BuffKillingSpree).Trigger()
			a.StartChannel(r.spree, spreeTicks)
		},
	})
	e.Register(pipeline.Action{
		Name:     ActionVanish,
		Simple:   true,
		OffGCD:   true,
		Cooldown: 180 * time.Second,
		Apply: func(*pipeline.Attempt) {
			a.Buffs.Get(BuffVanish).Trigger()
		},
	})
	e.Register(pipeline.Action{
		Name:     ActionPreparation,
		Simple:   true,
		Cooldown: 300 * time.Second,
		Ready:    talented(TalentPreparation),
		Apply: func(*pipeline.Attempt) {
			a.Cooldowns.Get(ActionVanish).Reset()
		},
	})
	e.Register(pipeline.Action{
		Name:     ActionColdBlood,
		Simple:   true,
		OffGCD:   true,
		Cooldown: 120 * time.Second,
		Ready:    talented(TalentColdBlood),
		Apply: func(*pipeline.Attempt) {
			a.Buffs.Get(BuffColdBlood).Trigger()
		},
	})
	e.Register(pipeline.Action{
		Name:     ActionTricksOfTheTrade,
		BaseCost: 15,
		Simple:   true,
		Cooldown: 30 * time.Second,
		Ready: func(a *actor.Actor) bool {
			return a.Enc.Ally(a) != nil
		},
		Apply: func(*pipeline.Attempt) {
			r.tricksPending = true
		},
	})
	e.Register(pipeline.Action{
		Name:     ActionBladeFlurry,
		Simple:   true,
		OffGCD:   true,
		Cooldown: 10 * time.Second,
		Ready: func(a *actor.Actor) bool {
			return a.Spec == SpecCombat
		},
		Apply: func(*pipeline.Attempt) {
			bf := a.Buffs.Get(BuffBladeFlurry)
			if bf.Check() {
				bf.Expire()
				return
			}
			bf.Trigger()
		},
	})

	// Auto and background attempts.
	e.Register(pipeline.Action{
		Name:      ActionMeleeMainHand,
		Kind:      combat.Auto,
		Slot:      actor.MainHand,
		Harmful:   true,
		Magnitude: r.strike(actor.MainHand, 1.0, 0),
	})
	e.Register(pipeline.Action{
		Name:      ActionMeleeOffHand,
		Kind:      combat.Auto,
		Slot:      actor.OffHand,
		Harmful:   true,
		Magnitude: r.strike(actor.OffHand, 1.0, 0),
	})
	e.Register(pipeline.Action{
		Name:      ActionMainGauche,
		Slot:      actor.OffHand,
		Harmful:   true,
		Magnitude: r.strike(actor.OffHand, 1.0, 0),
	})
	e.Register(pipeline.Action{
		Name:    ActionVenomousWound,
		Kind:    combat.Periodic,
		Harmful: true,
		Magnitude: func(*pipeline.Attempt) float64 {
			return (675 + 0.1125*a.Stats.AttackPower()) * r.multiplier()
		},
	})
	e.Register(pipeline.Action{
		Name:    ActionRuptureTick,
		Kind:    combat.Periodic,
		Harmful: true,
		Magnitude: func(*pipeline.Attempt) float64 {
			return r.ruptureTick * r.multiplier()
		},
	})
	e.Register(pipeline.Action{
		Name:    ActionDeadlyPoisonTick,
		Kind:    combat.Periodic,
		Harmful: true,
		Magnitude: func(*pipeline.Attempt) float64 {
			doses := float64(debuffs.Get(DebuffDeadlyPoison).Stack())
			return doses * (135 + 0.035*a.Stats.AttackPower()) * r.multiplier()
		},
	})
	e.Register(pipeline.Action{
		Name:      ActionKillingSpreeMain,
		Slot:      actor.MainHand,
		Harmful:   true,
		Magnitude: r.strike(actor.MainHand, 1.0, 0),
	})
	e.Register(pipeline.Action{
		Name:      ActionKillingSpreeOff,
		Slot:      actor.OffHand,
		Harmful:   true,
		Magnitude: r.strike(actor.OffHand, 1.0, 0),
	})
}

// weaponStrikes are the attempts that carry weapon poisons.
var weaponStrikes = map[string]bool{
	ActionSinisterStrike:   true,
	ActionRevealingStrike:  true,
	ActionBackstab:         true,
	ActionAmbush:           true,
	ActionEviscerate:       true,
	ActionEnvenom:          true,
	ActionMeleeMainHand:    true,
	ActionMeleeOffHand:     true,
	ActionMainGauche:       true,
	ActionKillingSpreeMain: true,
	ActionKillingSpreeOff:  true,
}

// specials are the foreground attacks that consume cold blood.
var specials = map[string]bool{
	ActionSinisterStrike:  true,
	ActionRevealingStrike: true,
	ActionBackstab:        true,
	ActionAmbush:          true,
	ActionEviscerate:      true,
	ActionEnvenom:         true,
	ActionExposeArmor:     true,
}

package rogue

import (
	"time"

	"github.com/roach88/actionsim/internal/actor"
	"github.com/roach88/actionsim/internal/effect"
)

const (
	poisonTick  = 3 * time.Second
	poisonTicks = 4
	ruptureTick = 2 * time.Second
	spreeTick   = 500 * time.Millisecond
	spreeTicks  = 5
)

func (r *Rogue) registerEffects() {
	a := r.Actor
	bgChance := float64(a.Talent(TalentBanditsGuile)) / 3

	for _, def := range []effect.Def{
		{
			Name:   BuffSliceAndDice,
			Policy: effect.ConditionalExtend,
			Value:  0.40,
			Extend: func(n int) time.Duration { return time.Duration(6+3*n) * time.Second },
		},
		{
			Name:   BuffEnvenom,
			Policy: effect.ConditionalExtend,
			Value:  0.15,
			Extend: func(n int) time.Duration { return time.Duration(1+n) * time.Second },
		},
		{
			Name:      BuffBanditsGuile,
			Policy:    effect.ProbabilisticStepped,
			MaxStack:  12,
			Duration:  15 * time.Second,
			Chance:    bgChance,
			StepValue: func(stack int) float64 { return float64(stack/4) * 0.10 },
		},
		{Name: BuffAdrenalineRush, Duration: 15 * time.Second, Value: 1.0},
		{Name: BuffOverkill, Duration: 20 * time.Second, Value: 0.30},
		{Name: BuffBladeFlurry, Value: 0.20},
		{Name: BuffStealth},
		{Name: BuffVanish, Duration: 3 * time.Second},
		{Name: BuffColdBlood, Value: 1.0},
		{Name: BuffMasterOfSubtlety, Duration: 6 * time.Second, Value: 0.10},
		{Name: BuffKillingSpree, Value: 0.20},
	} {
		a.Buffs.Register(def)
	}
	ensureTricks(a)
	// Vanish counts as stealth only while it is up.
	a.SetStealthEffects(BuffStealth, BuffVanish)

	debuffs := a.Target().Debuffs
	for _, def := range []effect.Def{
		{Name: DebuffRevealingStrike, Duration: 15 * time.Second, Value: 0.35},
		{Name: DebuffDeadlyPoison, MaxStack: 5},
		{Name: DebuffPoisoned},
		{
			Name:   DebuffExposeArmor,
			Policy: effect.ConditionalExtend,
			Value:  0.12,
			Extend: func(n int) time.Duration { return time.Duration(10*n) * time.Second },
		},
		{Name: DebuffSunderArmor, Duration: 30 * time.Second, Value: 0.12},
	} {
		if _, ok := debuffs.Lookup(def.Name); !ok {
			debuffs.Register(def)
		}
	}

	a.Energy.AddRegenModifier(BuffAdrenalineRush, func() float64 {
		return 1 + a.Buffs.Get(BuffAdrenalineRush).Value()
	})
	a.Energy.AddRegenModifier(BuffOverkill, func() float64 {
		return 1 + a.Buffs.Get(BuffOverkill).Value()
	})
	a.Energy.AddRegenModifier(BuffBladeFlurry, func() float64 {
		return 1 - a.Buffs.Get(BuffBladeFlurry).Value()
	})

	r.poison = a.RegisterPeriodic(effect.PeriodicDef{
		Name:  DebuffDeadlyPoison,
		Tick:  poisonTick,
		Ticks: poisonTicks,
		OnTick: func(int) {
			r.auto(ActionDeadlyPoisonTick)
		},
	})
	r.poison.OnRemove(func() {
		debuffs.Get(DebuffDeadlyPoison).Expire()
		debuffs.Get(DebuffPoisoned).Decrement(1)
	})

	r.rupture = a.RegisterPeriodic(effect.PeriodicDef{
		Name: ActionRupture,
		Tick: ruptureTick,
		OnTick: func(int) {
			r.auto(ActionRuptureTick)
		},
	})

	r.spree = a.RegisterPeriodic(effect.PeriodicDef{
		Name:  ActionKillingSpree,
		Tick:  spreeTick,
		Ticks: spreeTicks,
		OnTick: func(int) {
			r.auto(ActionKillingSpreeMain)
			if a.DualWielding() {
				r.auto(ActionKillingSpreeOff)
			}
		},
	})
	r.spree.OnRemove(func() {
		a.Buffs.Get(BuffKillingSpree).Expire()
	})
}

// ensureTricks registers the tricks of the trade buff on a if it is missing.
// The buff is written by another actor.
func ensureTricks(a *actor.Actor) *effect.Effect {
	if e, ok := a.Buffs.Lookup(BuffTricksOfTheTrade); ok {
		return e
	}
	return a.Buffs.Register(effect.Def{Name: BuffTricksOfTheTrade, Duration: 6 * time.Second, Value: 0.15})
}

// applyDose adds one deadly poison dose and keeps the dot ticking.
func (r *Rogue) applyDose() bool {
	debuffs := r.Actor.Target().Debuffs
	debuffs.Get(DebuffDeadlyPoison).Trigger()
	if r.poison.Ticking() {
		r.poison.Refresh(poisonTicks)
		return true
	}
	debuffs.Get(DebuffPoisoned).Increment(1)
	r.poison.Start(poisonTicks)
	return true
}

// breakStealth ends stealth and vanish when a harmful action lands.
func (r *Rogue) breakStealth() bool {
	a := r.Actor
	stealth := a.Buffs.Get(BuffStealth)
	vanish := a.Buffs.Get(BuffVanish)
	if !stealth.Check() && !vanish.Check() {
		return false
	}
	if stealth.Check() {
		stealth.Expire()
		if a.Spec == SpecSubtlety {
			a.Buffs.Get(BuffMasterOfSubtlety).Trigger()
		}
	}
	if vanish.Check() {
		vanish.Expire()
	}
	if a.Talent(TalentOverkill) > 0 {
		a.Buffs.Get(BuffOverkill).Trigger()
	}
	if len(r.swings) == 0 {
		r.startSwings()
	}
	return true
}

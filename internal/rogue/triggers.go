package rogue

import (
	"time"

	"github.com/roach88/actionsim/internal/actor"
	"github.com/roach88/actionsim/internal/combat"
	"github.com/roach88/actionsim/internal/trigger"
)

// sealFateICD keeps a dual-weapon special from granting two seal fate points.
const sealFateICD = 100 * time.Microsecond

func rank(ctx *trigger.Context, talent string) int {
	return ctx.Actor.Talent(talent)
}

func hasTalent(talent string) func(*trigger.Context) bool {
	return func(ctx *trigger.Context) bool { return rank(ctx, talent) > 0 }
}

func perRank(talent string, chance float64) func(*trigger.Context) float64 {
	return func(ctx *trigger.Context) float64 { return chance * float64(rank(ctx, talent)) }
}

func addPoint(reason string) func(*trigger.Context) bool {
	return func(ctx *trigger.Context) bool {
		ctx.Actor.Points.Add(1, reason)
		return true
	}
}

func (r *Rogue) registerTriggers() {
	c := r.Chain
	hatICD := time.Duration(max(5-r.Actor.Talent(TalentHonorAmongThieves), 0)) * time.Second

	// A harmful attack leaves stealth before it lands, so an opener already
	// benefits from master of subtlety and overkill.
	c.Add(trigger.Trigger{
		Name:  "break_stealth",
		Stage: trigger.Begin,
		On:    trigger.OnAny,
		Gate:  func(ctx *trigger.Context) bool { return ctx.Harmful },
		Apply: func(*trigger.Context) bool {
			return r.breakStealth()
		},
	})

	// Spending. Relentless strikes reads the count before it is spent; the
	// rest see the spent count and an empty counter, in this order.
	c.Add(trigger.Trigger{
		Name:   TalentRelentlessStrikes,
		Stage:  trigger.PreSpend,
		Gate:   hasTalent(TalentRelentlessStrikes),
		Chance: func(ctx *trigger.Context) float64 {
			return float64(rank(ctx, TalentRelentlessStrikes)) * (0.2 / 3) * float64(ctx.PointsBefore)
		},
		Apply: func(ctx *trigger.Context) bool {
			ctx.Actor.Energy.Gain(25, TalentRelentlessStrikes)
			return true
		},
	})
	c.Add(trigger.Trigger{
		Name:   TalentRuthlessness,
		Stage:  trigger.PostSpend,
		Gate:   hasTalent(TalentRuthlessness),
		Chance: perRank(TalentRuthlessness, 1.0/3),
		Apply:  addPoint(TalentRuthlessness),
	})
	c.Add(trigger.Trigger{
		Name:  TalentRestlessBlades,
		Stage: trigger.PostSpend,
		Gate: func(ctx *trigger.Context) bool {
			return rank(ctx, TalentRestlessBlades) > 0 && ctx.PointsSpent > 0
		},
		Apply: func(ctx *trigger.Context) bool {
			d := time.Duration(rank(ctx, TalentRestlessBlades)*ctx.PointsSpent) * time.Second
			ctx.Actor.Cooldowns.Get(ActionAdrenalineRush).Reduce(d)
			ctx.Actor.Cooldowns.Get(ActionKillingSpree).Reduce(d)
			return true
		},
	})
	c.Add(trigger.Trigger{
		Name:  TalentCutToTheChase,
		Stage: trigger.PostSpend,
		Gate: func(ctx *trigger.Context) bool {
			if ctx.Action != ActionEviscerate && ctx.Action != ActionEnvenom {
				return false
			}
			return rank(ctx, TalentCutToTheChase) > 0 && ctx.Actor.Buffs.Up(BuffSliceAndDice)
		},
		Chance: perRank(TalentCutToTheChase, 1.0/3),
		Apply: func(ctx *trigger.Context) bool {
			return ctx.Actor.Buffs.Get(BuffSliceAndDice).TriggerWith(ctx.Actor.Points.Cap())
		},
	})

	// Outcome.
	c.Add(trigger.Trigger{
		Name:  TalentBanditsGuile,
		Stage: trigger.Result,
		Gate: func(ctx *trigger.Context) bool {
			if ctx.Action != ActionSinisterStrike && ctx.Action != ActionRevealingStrike {
				return false
			}
			return rank(ctx, TalentBanditsGuile) > 0
		},
		Apply: func(ctx *trigger.Context) bool {
			return ctx.Actor.Buffs.Get(BuffBanditsGuile).Step()
		},
	})
	c.Add(trigger.Trigger{
		Name:  TalentCombatPotency,
		Stage: trigger.Result,
		Gate: func(ctx *trigger.Context) bool {
			return ctx.Slot == actor.OffHand && weaponStrikes[ctx.Action] && rank(ctx, TalentCombatPotency) > 0
		},
		Chance: func(*trigger.Context) float64 { return 0.20 },
		Apply: func(ctx *trigger.Context) bool {
			ctx.Actor.Energy.Gain(5*float64(rank(ctx, TalentCombatPotency)), TalentCombatPotency)
			return true
		},
	})
	c.Add(trigger.Trigger{
		Name:              ActionMainGauche,
		Stage:             trigger.Result,
		ExcludeBackground: true,
		Gate: func(ctx *trigger.Context) bool {
			return ctx.Actor.Spec == SpecCombat && ctx.Slot == actor.MainHand &&
				weaponStrikes[ctx.Action] && ctx.Actor.OffHand != nil
		},
		Chance: func(ctx *trigger.Context) float64 { return ctx.Actor.Stats.Mastery() },
		Apply: func(ctx *trigger.Context) bool {
			ctx.Spawn(ActionMainGauche)
			return true
		},
	})
	c.Add(trigger.Trigger{
		Name:  DebuffDeadlyPoison,
		Stage: trigger.Result,
		Gate: func(ctx *trigger.Context) bool {
			w := ctx.Actor.Weapon(ctx.Slot)
			return weaponStrikes[ctx.Action] && w != nil && w.Poison == PoisonDeadly
		},
		Chance: func(ctx *trigger.Context) float64 {
			return 0.30 + ctx.Actor.Buffs.Get(BuffEnvenom).Value()
		},
		Apply: func(*trigger.Context) bool {
			return r.applyDose()
		},
	})
	c.Add(trigger.Trigger{
		Name:  TalentVenomousWounds,
		Stage: trigger.Result,
		Gate: func(ctx *trigger.Context) bool {
			return ctx.Action == ActionRuptureTick && rank(ctx, TalentVenomousWounds) > 0 &&
				ctx.Actor.Target().Debuffs.Up(DebuffPoisoned)
		},
		Chance: perRank(TalentVenomousWounds, 0.30),
		Apply: func(ctx *trigger.Context) bool {
			ctx.Spawn(ActionVenomousWound)
			ctx.Actor.Energy.Gain(10, "venomous_vim")
			return true
		},
	})

	// Point generation, after the action's own points.
	c.Add(trigger.Trigger{
		Name:              TalentSealFate,
		Stage:             trigger.Generated,
		On:                trigger.OnCrit,
		ExcludeBackground: true,
		Gate: func(ctx *trigger.Context) bool {
			return ctx.GrantsPoints && rank(ctx, TalentSealFate) > 0
		},
		Chance:   perRank(TalentSealFate, 0.5),
		Cooldown: sealFateICD,
		Apply:    addPoint(TalentSealFate),
	})
	c.Add(trigger.Trigger{
		Name:  "glyph_of_sinister_strike",
		Stage: trigger.Generated,
		Gate: func(ctx *trigger.Context) bool {
			return ctx.Action == ActionSinisterStrike && ctx.Actor.Glyph(GlyphSinisterStrike)
		},
		Chance: func(*trigger.Context) float64 { return 0.20 },
		Apply:  addPoint("glyph_of_sinister_strike"),
	})
	c.Add(trigger.Trigger{
		Name:  TalentInitiative,
		Stage: trigger.Generated,
		Gate: func(ctx *trigger.Context) bool {
			return ctx.Action == ActionAmbush && rank(ctx, TalentInitiative) > 0
		},
		Chance: perRank(TalentInitiative, 0.5),
		Apply:  addPoint(TalentInitiative),
	})
	c.Add(trigger.Trigger{
		Name:     TalentHonorAmongThieves,
		Stage:    trigger.Generated,
		On:       trigger.OnCrit,
		Gate:     hasTalent(TalentHonorAmongThieves),
		Chance:   perRank(TalentHonorAmongThieves, 1.0/3),
		Cooldown: hatICD,
		Apply:    addPoint(TalentHonorAmongThieves),
	})

	// Every attempt.
	c.Add(trigger.Trigger{
		Name:              BuffTricksOfTheTrade,
		Stage:             trigger.Executed,
		ExcludeBackground: true,
		Gate: func(ctx *trigger.Context) bool {
			return r.tricksPending && ctx.Harmful
		},
		Apply: func(ctx *trigger.Context) bool {
			r.tricksPending = false
			ally := ctx.Actor.Enc.Ally(ctx.Actor)
			if ally == nil {
				return false
			}
			buff := ensureTricks(ally)
			if !buff.RemainsLT(6 * time.Second) {
				return false
			}
			return buff.Trigger()
		},
	})
	c.Add(trigger.Trigger{
		Name:              "cold_blood_consumed",
		Stage:             trigger.Executed,
		On:                trigger.OnAny,
		ExcludeBackground: true,
		Gate: func(ctx *trigger.Context) bool {
			return specials[ctx.Action] && ctx.Actor.Buffs.Up(BuffColdBlood)
		},
		Apply: func(ctx *trigger.Context) bool {
			ctx.Actor.Buffs.Get(BuffColdBlood).Decrement(1)
			return true
		},
	})
}

// partyCrit feeds one virtual party crit into the point-generation stage.
func (r *Rogue) partyCrit() {
	r.Chain.Fire(trigger.Generated, &trigger.Context{
		Actor:      r.Actor,
		Action:     "party_crit",
		Outcome:    combat.OutcomeCrit,
		Background: true,
		Spawn:      func(string) {},
	})
}

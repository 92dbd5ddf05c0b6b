package rogue

// Actor buffs.
const (
	BuffSliceAndDice     = "slice_and_dice"
	BuffEnvenom          = "envenom"
	BuffBanditsGuile     = "bandits_guile"
	BuffAdrenalineRush   = "adrenaline_rush"
	BuffOverkill         = "overkill"
	BuffBladeFlurry      = "blade_flurry"
	BuffStealth          = "stealth"
	BuffVanish           = "vanish"
	BuffColdBlood        = "cold_blood"
	BuffMasterOfSubtlety = "master_of_subtlety"
	BuffKillingSpree     = "killing_spree"
	BuffTricksOfTheTrade = "tricks_of_the_trade"
)

// Target debuffs.
const (
	DebuffRevealingStrike = "revealing_strike"
	DebuffDeadlyPoison    = "deadly_poison"
	DebuffPoisoned        = "poisoned"
	DebuffExposeArmor     = "expose_armor"
	DebuffSunderArmor     = "sunder_armor"
)

// Actions the priority list may name.
const (
	ActionSinisterStrike   = "sinister_strike"
	ActionRevealingStrike  = "revealing_strike"
	ActionBackstab         = "backstab"
	ActionAmbush           = "ambush"
	ActionEviscerate       = "eviscerate"
	ActionSliceAndDice     = "slice_and_dice"
	ActionRupture          = "rupture"
	ActionEnvenom          = "envenom"
	ActionExposeArmor      = "expose_armor"
	ActionAdrenalineRush   = "adrenaline_rush"
	ActionKillingSpree     = "killing_spree"
	ActionVanish           = "vanish"
	ActionPreparation      = "preparation"
	ActionColdBlood        = "cold_blood"
	ActionTricksOfTheTrade = "tricks_of_the_trade"
	ActionBladeFlurry      = "blade_flurry"
)

// Auto and background attempts.
const (
	ActionMeleeMainHand    = "melee_main_hand"
	ActionMeleeOffHand     = "melee_off_hand"
	ActionMainGauche       = "main_gauche"
	ActionVenomousWound    = "venomous_wound"
	ActionRuptureTick      = "rupture_tick"
	ActionDeadlyPoisonTick = "deadly_poison_tick"
	ActionKillingSpreeMain = "killing_spree_mh"
	ActionKillingSpreeOff  = "killing_spree_oh"
)

// Talents.
const (
	TalentImprovedSinisterStrike = "improved_sinister_strike"
	TalentRelentlessStrikes      = "relentless_strikes"
	TalentRuthlessness           = "ruthlessness"
	TalentRestlessBlades         = "restless_blades"
	TalentCutToTheChase          = "cut_to_the_chase"
	TalentBanditsGuile           = "bandits_guile"
	TalentCombatPotency          = "combat_potency"
	TalentVenomousWounds         = "venomous_wounds"
	TalentSealFate               = "seal_fate"
	TalentInitiative             = "initiative"
	TalentHonorAmongThieves      = "honor_among_thieves"
	TalentOverkill               = "overkill"
	TalentAdrenalineRush         = "adrenaline_rush"
	TalentKillingSpree           = "killing_spree"
	TalentColdBlood              = "cold_blood"
	TalentPreparation            = "preparation"
)

// Glyphs.
const (
	GlyphSinisterStrike = "sinister_strike"
)

// Specializations.
const (
	SpecAssassination = "assassination"
	SpecCombat        = "combat"
	SpecSubtlety      = "subtlety"
)

// PoisonDeadly is the Weapon.Poison value for deadly poison.
const PoisonDeadly = "deadly_poison"

var maxRanks = map[string]int{
	TalentImprovedSinisterStrike: 2,
	TalentRelentlessStrikes:      3,
	TalentRuthlessness:           3,
	TalentRestlessBlades:         2,
	TalentCutToTheChase:          3,
	TalentBanditsGuile:           3,
	TalentCombatPotency:          3,
	TalentVenomousWounds:         2,
	TalentSealFate:               2,
	TalentInitiative:             2,
	TalentHonorAmongThieves:      3,
	TalentOverkill:               1,
	TalentAdrenalineRush:         1,
	TalentKillingSpree:           1,
	TalentColdBlood:              1,
	TalentPreparation:            1,
}

// MaxRank returns the highest rank of talent, or false for an unknown talent.
func MaxRank(talent string) (int, bool) {
	n, ok := maxRanks[talent]
	return n, ok
}

// KnownSpec reports whether spec is one of the three specializations.
func KnownSpec(spec string) bool {
	switch spec {
	case SpecAssassination, SpecCombat, SpecSubtlety:
		return true
	}
	return false
}

// KnownGlyph reports whether glyph is supported.
func KnownGlyph(glyph string) bool {
	return glyph == GlyphSinisterStrike
}

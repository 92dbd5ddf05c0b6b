package profile

import (
	"slices"

	"github.com/roach88/actionsim/internal/apl"
	"github.com/roach88/actionsim/internal/trace"
)

// Hash returns the content hash of the compiled profile. Two sources that
// compile to the same profile, after defaults, hash equal.
func (p *Profile) Hash() (string, error) {
	return trace.Hash(trace.DomainProfile, p.canonical())
}

func (p *Profile) canonical() map[string]any {
	r := p.raw
	talents := make(map[string]any, len(r.Talents))
	for k, v := range r.Talents {
		talents[k] = v
	}
	glyphs := slices.Clone(r.Glyphs)
	slices.Sort(glyphs)

	weapons := map[string]any{}
	if r.Weapons.MainHand != nil {
		weapons["main_hand"] = weaponMap(r.Weapons.MainHand)
	}
	if r.Weapons.OffHand != nil {
		weapons["off_hand"] = weaponMap(r.Weapons.OffHand)
	}

	crits := make([]any, len(r.Party.CritIntervals))
	for i, c := range r.Party.CritIntervals {
		crits[i] = trace.Number(c)
	}

	party := map[string]any{
		"crit_intervals": crits,
		"ally":           r.Party.Ally,
	}
	if r.Party.BloodlustAt != nil {
		party["bloodlust_at"] = trace.Number(*r.Party.BloodlustAt)
	}

	entries := make([]any, len(r.APL))
	for i, e := range r.APL {
		entries[i] = entryMap(e)
	}

	return map[string]any{
		"name": r.Name,
		"spec": r.Spec,
		"energy": map[string]any{
			"max":     trace.Number(r.Energy.Max),
			"regen":   trace.Number(r.Energy.Regen),
			"initial": trace.Number(r.Energy.Initial),
		},
		"stats": map[string]any{
			"hit":          trace.Number(r.Stats.Hit),
			"expertise":    trace.Number(r.Stats.Expertise),
			"crit":         trace.Number(r.Stats.Crit),
			"haste":        trace.Number(r.Stats.Haste),
			"mastery":      trace.Number(r.Stats.Mastery),
			"attack_power": trace.Number(r.Stats.AttackPower),
		},
		"weapons":         weapons,
		"talents":         talents,
		"glyphs":          glyphs,
		"position":        r.Position,
		"opening_stealth": r.OpeningStealth,
		"max_attempts":    r.MaxAttempts,
		"party":           party,
		"apl":             entries,
	}
}

func weaponMap(w *rawWeapon) map[string]any {
	return map[string]any{
		"type":   w.Type,
		"min":    trace.Number(w.Min),
		"max":    trace.Number(w.Max),
		"speed":  trace.Number(w.Speed),
		"poison": w.Poison,
	}
}

func entryMap(e apl.Entry) map[string]any {
	m := map[string]any{"action": e.Action}
	if e.ForNext {
		m["for_next"] = true
	}
	if e.Wait > 0 {
		m["wait"] = trace.Number(e.Wait)
	}
	c := e.If
	cond := map[string]any{}
	addNames := func(key string, names []string) {
		if len(names) > 0 {
			cond[key] = slices.Clone(names)
		}
	}
	addNames("buff_up", c.BuffUp)
	addNames("buff_down", c.BuffDown)
	addNames("debuff_up", c.DebuffUp)
	addNames("debuff_down", c.DebuffDown)
	addNames("cooldown_ready", c.CooldownReady)
	if len(c.BuffRemainsLT) > 0 {
		lt := make(map[string]any, len(c.BuffRemainsLT))
		for k, v := range c.BuffRemainsLT {
			lt[k] = trace.Number(v)
		}
		cond["buff_remains_lt"] = lt
	}
	if c.PointsGE != nil {
		cond["points_ge"] = *c.PointsGE
	}
	if c.PointsLT != nil {
		cond["points_lt"] = *c.PointsLT
	}
	if c.EnergyGE != nil {
		cond["energy_ge"] = trace.Number(*c.EnergyGE)
	}
	if c.EnergyLT != nil {
		cond["energy_lt"] = trace.Number(*c.EnergyLT)
	}
	if len(cond) > 0 {
		m["if"] = cond
	}
	return m
}

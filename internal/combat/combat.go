// Package combat resolves the outcome of a single attack against a target's
// defenses with one draw from a named stream.
package combat

import (
	"fmt"

	"github.com/roach88/actionsim/internal/rng"
)

// Outcome is the classified result of an attack roll.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeMiss
	OutcomeDodge
	OutcomeHit
	OutcomeCrit
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeMiss:
		return "miss"
	case OutcomeDodge:
		return "dodge"
	case OutcomeHit:
		return "hit"
	case OutcomeCrit:
		return "crit"
	default:
		return "unknown"
	}
}

// Qualifying reports whether the outcome made contact (hit or crit).
func (o Outcome) Qualifying() bool {
	return o == OutcomeHit || o == OutcomeCrit
}

// ParseOutcome maps a name produced by String back to an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	for o := OutcomeNone; o <= OutcomeCrit; o++ {
		if o.String() == s {
			return o, nil
		}
	}
	return OutcomeNone, fmt.Errorf("unknown outcome %q", s)
}

// Kind selects which rows of the attack table apply.
type Kind int

const (
	// Special is a yellow (ability) attack: miss, dodge, crit.
	Special Kind = iota
	// Auto is a white swing with a single weapon.
	Auto
	// AutoDualWield is a white swing while dual wielding (extra miss).
	AutoDualWield
	// Periodic is a tick: it can crit but cannot be avoided.
	Periodic
)

// Attacker is the read-only view of attack stats.
type Attacker interface {
	Hit() float64       // miss reduction
	Expertise() float64 // dodge reduction
	Crit() float64
}

// Defense is the target side of the attack table.
type Defense struct {
	Miss          float64
	DualWieldMiss float64
	Dodge         float64
}

// DefaultDefense is a boss-level target: 8% miss, +19% white miss while dual
// wielding, 6.5% dodge.
var DefaultDefense = Defense{Miss: 0.08, DualWieldMiss: 0.19, Dodge: 0.065}

// Table is a one-roll attack table. Rows are consumed in the order miss,
// dodge, crit; the remainder is a plain hit.
type Table struct {
	Miss  float64
	Dodge float64
	Crit  float64
}

// BuildTable combines attacker stats and target defenses. critBonus is added
// to the attacker's crit chance (cold blood and similar).
func BuildTable(a Attacker, d Defense, kind Kind, critBonus float64) Table {
	t := Table{Crit: a.Crit() + critBonus}
	switch kind {
	case Periodic:
		return t.clamp()
	case AutoDualWield:
		t.Miss = d.Miss + d.DualWieldMiss - a.Hit()
	default:
		t.Miss = d.Miss - a.Hit()
	}
	t.Dodge = d.Dodge - a.Expertise()
	return t.clamp()
}

func (t Table) clamp() Table {
	t.Miss = clamp01(t.Miss)
	t.Dodge = min(clamp01(t.Dodge), 1-t.Miss)
	t.Crit = min(clamp01(t.Crit), 1-t.Miss-t.Dodge)
	return t
}

// Resolve draws once from st and classifies the result.
func Resolve(st rng.Stream, t Table) Outcome {
	r := st.Range(0, 1)
	switch {
	case r < t.Miss:
		return OutcomeMiss
	case r < t.Miss+t.Dodge:
		return OutcomeDodge
	case r < t.Miss+t.Dodge+t.Crit:
		return OutcomeCrit
	default:
		return OutcomeHit
	}
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}

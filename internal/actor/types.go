package actor

import (
	"fmt"
	"time"
)

// Slot identifies a weapon hand.
type Slot int

const (
	MainHand Slot = iota
	OffHand
)

func (s Slot) String() string {
	switch s {
	case MainHand:
		return "main_hand"
	case OffHand:
		return "off_hand"
	default:
		return "unknown"
	}
}

// WeaponType is the weapon family checked by weapon prerequisites.
type WeaponType string

const (
	Dagger WeaponType = "dagger"
	Sword  WeaponType = "sword"
	Mace   WeaponType = "mace"
	Axe    WeaponType = "axe"
	Fist   WeaponType = "fist"
)

// Weapon is an equipped weapon.
type Weapon struct {
	Type   WeaponType
	Min    float64
	Max    float64
	Speed  time.Duration
	Poison string // poison applied by hits from this hand, empty for none
}

// Average returns the mean base damage.
func (w *Weapon) Average() float64 {
	return (w.Min + w.Max) / 2
}

// Position is where the actor stands relative to the target.
type Position int

const (
	Front Position = iota
	Behind
)

func (p Position) String() string {
	if p == Behind {
		return "behind"
	}
	return "front"
}

// ParsePosition maps "front"/"behind" to a Position.
func ParsePosition(s string) (Position, error) {
	switch s {
	case "front", "":
		return Front, nil
	case "behind":
		return Behind, nil
	default:
		return Front, fmt.Errorf("unknown position %q", s)
	}
}

// Stats is the read-only attribute view used for probabilities and magnitudes.
// The simulation core never mutates it.
type Stats interface {
	Hit() float64
	Expertise() float64
	Crit() float64
	Haste() float64
	Mastery() float64
	AttackPower() float64
}

// StatBlock is a fixed set of attributes, already converted to fractions.
type StatBlock struct {
	HitChance       float64
	ExpertiseChance float64
	CritChance      float64
	HasteFraction   float64
	MasteryValue    float64
	AttackPowerFlat float64
}

func (s StatBlock) Hit() float64         { return s.HitChance }
func (s StatBlock) Expertise() float64   { return s.ExpertiseChance }
func (s StatBlock) Crit() float64        { return s.CritChance }
func (s StatBlock) Haste() float64       { return s.HasteFraction }
func (s StatBlock) Mastery() float64     { return s.MasteryValue }
func (s StatBlock) AttackPower() float64 { return s.AttackPowerFlat }

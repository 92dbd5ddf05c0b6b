// Package profile compiles CUE actor profiles.
//
// A profile names the archetype's specialization, resources, attributes,
// weapons, talents, and its priority list. Compilation checks the profile
// against an embedded CUE schema first, then applies the checks CUE cannot
// express (talent names and ranks, weapon damage ranges). Every error
// carries the CUE source position when one is known.
package profile

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/actionsim/internal/actor"
	"github.com/roach88/actionsim/internal/apl"
	"github.com/roach88/actionsim/internal/rogue"
	"github.com/roach88/actionsim/internal/sched"
)

//go:embed schema.cue
var schemaSource string

// Profile is a compiled actor profile.
type Profile struct {
	Name           string
	Spec           string
	Energy         actor.PoolConfig
	Stats          actor.StatBlock
	MainHand       *actor.Weapon
	OffHand        *actor.Weapon
	Position       actor.Position
	Talents        map[string]int
	Glyphs         []string
	PartyCrits     []time.Duration
	Ally           bool
	OpeningStealth bool

	// Bloodlust raises the encounter's bloodlust aura at BloodlustAt.
	Bloodlust   bool
	BloodlustAt time.Duration

	MaxAttempts    int
	APL            []apl.Entry

	raw rawProfile
}

// ActorConfig returns the construction config for the profile's actor.
func (p *Profile) ActorConfig() actor.Config {
	talents := make(map[string]int, len(p.Talents))
	for k, v := range p.Talents {
		talents[k] = v
	}
	return actor.Config{
		Name:     p.Name,
		Spec:     p.Spec,
		Energy:   p.Energy,
		Stats:    p.Stats,
		MainHand: cloneWeapon(p.MainHand),
		OffHand:  cloneWeapon(p.OffHand),
		Position: p.Position,
		Talents:  talents,
		Glyphs:   append([]string(nil), p.Glyphs...),
	}
}

// Options returns the archetype options.
func (p *Profile) Options() rogue.Options {
	return rogue.Options{
		PartyCrits:     append([]time.Duration(nil), p.PartyCrits...),
		OpeningStealth: p.OpeningStealth,
		MaxAttempts:    p.MaxAttempts,
	}
}

func cloneWeapon(w *actor.Weapon) *actor.Weapon {
	if w == nil {
		return nil
	}
	c := *w
	return &c
}

type rawProfile struct {
	Name           string         `json:"name"`
	Spec           string         `json:"spec"`
	Energy         rawEnergy      `json:"energy"`
	Stats          rawStats       `json:"stats"`
	Weapons        rawWeapons     `json:"weapons"`
	Talents        map[string]int `json:"talents"`
	Glyphs         []string       `json:"glyphs"`
	Position       string         `json:"position"`
	OpeningStealth bool           `json:"opening_stealth"`
	MaxAttempts    int            `json:"max_attempts"`
	Party          rawParty       `json:"party"`
	APL            []apl.Entry    `json:"apl"`
}

type rawEnergy struct {
	Max     float64 `json:"max"`
	Regen   float64 `json:"regen"`
	Initial float64 `json:"initial"`
}

type rawStats struct {
	Hit         float64 `json:"hit"`
	Expertise   float64 `json:"expertise"`
	Crit        float64 `json:"crit"`
	Haste       float64 `json:"haste"`
	Mastery     float64 `json:"mastery"`
	AttackPower float64 `json:"attack_power"`
}

type rawWeapons struct {
	MainHand *rawWeapon `json:"main_hand,omitempty"`
	OffHand  *rawWeapon `json:"off_hand,omitempty"`
}

type rawWeapon struct {
	Type   string  `json:"type"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Speed  float64 `json:"speed"`
	Poison string  `json:"poison"`
}

type rawParty struct {
	CritIntervals []float64 `json:"crit_intervals"`
	Ally          bool      `json:"ally"`
	BloodlustAt   *float64  `json:"bloodlust_at,omitempty"`
}

// LoadFile reads and compiles the profile at path.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return CompileBytes(data, path)
}

// CompileBytes compiles CUE source. filename is used in error positions.
func CompileBytes(src []byte, filename string) (*Profile, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	return Compile(v)
}

// Compile checks v against the profile schema and converts it.
func Compile(v cue.Value) (*Profile, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	schema := v.Context().CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("profile schema: %w", err)
	}
	unified := schema.LookupPath(cue.ParsePath("#Profile")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var raw rawProfile
	if err := unified.Decode(&raw); err != nil {
		return nil, formatCUEError(err)
	}

	p := &Profile{
		Name: raw.Name,
		Spec: raw.Spec,
		Energy: actor.PoolConfig{
			Max:     raw.Energy.Max,
			Regen:   raw.Energy.Regen,
			Initial: raw.Energy.Initial,
		},
		Stats: actor.StatBlock{
			HitChance:       raw.Stats.Hit,
			ExpertiseChance: raw.Stats.Expertise,
			CritChance:      raw.Stats.Crit,
			HasteFraction:   raw.Stats.Haste,
			MasteryValue:    raw.Stats.Mastery,
			AttackPowerFlat: raw.Stats.AttackPower,
		},
		Talents:        raw.Talents,
		Glyphs:         raw.Glyphs,
		Ally:           raw.Party.Ally,
		OpeningStealth: raw.OpeningStealth,
		MaxAttempts:    raw.MaxAttempts,
		APL:            raw.APL,
		raw:            raw,
	}
	if p.Talents == nil {
		p.Talents = map[string]int{}
	}

	if p.Energy.Initial > p.Energy.Max {
		return nil, &CompileError{
			Field:   "energy.initial",
			Message: fmt.Sprintf("initial energy %v exceeds max %v", p.Energy.Initial, p.Energy.Max),
			Pos:     posOf(v, "energy.initial"),
		}
	}

	pos, err := actor.ParsePosition(raw.Position)
	if err != nil {
		return nil, &CompileError{Field: "position", Message: err.Error(), Pos: posOf(v, "position")}
	}
	p.Position = pos

	if p.MainHand, err = compileWeapon(v, "main_hand", raw.Weapons.MainHand); err != nil {
		return nil, err
	}
	if p.OffHand, err = compileWeapon(v, "off_hand", raw.Weapons.OffHand); err != nil {
		return nil, err
	}
	if p.OffHand != nil && p.MainHand == nil {
		return nil, &CompileError{
			Field:   "weapons.off_hand",
			Message: "off hand weapon without a main hand weapon",
			Pos:     posOf(v, "weapons.off_hand"),
		}
	}

	for name, r := range p.Talents {
		maxRank, ok := rogue.MaxRank(name)
		if !ok {
			return nil, &CompileError{
				Field:   "talents." + name,
				Message: fmt.Sprintf("unknown talent %q", name),
				Pos:     posOf(v, "talents."+name),
			}
		}
		if r > maxRank {
			return nil, &CompileError{
				Field:   "talents." + name,
				Message: fmt.Sprintf("rank %d exceeds max rank %d", r, maxRank),
				Pos:     posOf(v, "talents."+name),
			}
		}
	}

	for i, g := range p.Glyphs {
		if !rogue.KnownGlyph(g) {
			return nil, &CompileError{
				Field:   fmt.Sprintf("glyphs[%d]", i),
				Message: fmt.Sprintf("unknown glyph %q", g),
				Pos:     posOf(v, fmt.Sprintf("glyphs[%d]", i)),
			}
		}
	}

	for _, s := range raw.Party.CritIntervals {
		p.PartyCrits = append(p.PartyCrits, sched.Seconds(s))
	}
	if at := raw.Party.BloodlustAt; at != nil {
		p.Bloodlust = true
		p.BloodlustAt = sched.Seconds(*at)
	}

	return p, nil
}

func compileWeapon(v cue.Value, slot string, w *rawWeapon) (*actor.Weapon, error) {
	if w == nil {
		return nil, nil
	}
	if w.Min > w.Max {
		return nil, &CompileError{
			Field:   "weapons." + slot,
			Message: fmt.Sprintf("min damage %v exceeds max damage %v", w.Min, w.Max),
			Pos:     posOf(v, "weapons."+slot+".min"),
		}
	}
	return &actor.Weapon{
		Type:   actor.WeaponType(w.Type),
		Min:    w.Min,
		Max:    w.Max,
		Speed:  sched.Seconds(w.Speed),
		Poison: w.Poison,
	}, nil
}

// posOf returns the source position of the field at path, or the
// position of v when the field is absent.
func posOf(v cue.Value, path string) token.Pos {
	if f := v.LookupPath(cue.ParsePath(path)); f.Exists() {
		return f.Pos()
	}
	return v.Pos()
}

// CompileError represents a profile error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return &CompileError{Field: "cue", Message: first.Error()}
}

// Package actor owns one simulated combatant's state and the encounter
// context shared between combatants.
//
// An Actor exclusively owns its energy pool, builder points, buffs,
// cooldowns, and periodic effects. Cross-actor effects go through the
// Encounter, which is passed by pointer and never held in package state.
package actor

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/actionsim/internal/combat"
	"github.com/roach88/actionsim/internal/cooldown"
	"github.com/roach88/actionsim/internal/effect"
	"github.com/roach88/actionsim/internal/ledger"
	"github.com/roach88/actionsim/internal/observe"
	"github.com/roach88/actionsim/internal/rng"
	"github.com/roach88/actionsim/internal/sched"
)

// Defaults applied by New when the config leaves them zero.
const (
	DefaultGCD         = time.Second
	DefaultRegenPeriod = 100 * time.Millisecond
	MinAvailable       = 100 * time.Millisecond
)

// PoolConfig sizes the energy pool.
type PoolConfig struct {
	Max     float64
	Regen   float64 // per second
	Initial float64 // granted at trial start
}

// Config describes an actor before construction.
type Config struct {
	Name        string
	Spec        string
	Energy      PoolConfig
	PointsCap   int
	Stats       Stats
	MainHand    *Weapon
	OffHand     *Weapon
	Position    Position
	Talents     map[string]int
	Glyphs      []string
	GCD         time.Duration
	RegenPeriod time.Duration
}

// Actor is one simulated combatant.
type Actor struct {
	Name      string
	Spec      string
	Enc       *Encounter
	Sched     *sched.Scheduler
	Streams   rng.Provider
	Rec       *observe.Recorder
	Energy    *ledger.Pool
	Points    *ledger.Points
	Buffs     *effect.Set
	Cooldowns *cooldown.Ledger
	Stats     Stats
	MainHand  *Weapon
	OffHand   *Weapon
	Position  Position

	cfg         Config
	talents     map[string]int
	glyphs      map[string]bool
	stealth     []string
	lockedUntil time.Duration
	channel     *effect.Periodic
	periodics   []*effect.Periodic
	regenEvent  *sched.Event
	tickHooks   []func()
	resetHooks  []func()
}

// New builds an actor and joins it to enc.
func New(cfg Config, enc *Encounter) *Actor {
	if cfg.Name == "" {
		panic("actor: config without a name")
	}
	if cfg.Stats == nil {
		cfg.Stats = StatBlock{}
	}
	if cfg.PointsCap == 0 {
		cfg.PointsCap = ledger.DefaultCap
	}
	if cfg.GCD == 0 {
		cfg.GCD = DefaultGCD
	}
	if cfg.RegenPeriod == 0 {
		cfg.RegenPeriod = DefaultRegenPeriod
	}
	if cfg.Energy.Max == 0 {
		cfg.Energy = PoolConfig{Max: 100, Regen: 10, Initial: 100}
	}

	a := &Actor{
		Name:      cfg.Name,
		Spec:      cfg.Spec,
		Enc:       enc,
		Sched:     enc.Sched,
		Streams:   enc.Streams,
		Rec:       enc.Rec,
		Energy:    ledger.NewPool("energy", cfg.Energy.Max, cfg.Energy.Regen, enc.Rec),
		Points:    ledger.NewPoints("combo_points", cfg.PointsCap, enc.Rec),
		Buffs:     effect.NewSet("", enc.Sched, enc.Streams, enc.Rec),
		Cooldowns: cooldown.New(enc.Sched),
		Stats:     cfg.Stats,
		MainHand:  cfg.MainHand,
		OffHand:   cfg.OffHand,
		Position:  cfg.Position,
		cfg:       cfg,
		talents:   make(map[string]int, len(cfg.Talents)),
		glyphs:    make(map[string]bool, len(cfg.Glyphs)),
		stealth:   []string{"stealth"},
	}
	for k, v := range cfg.Talents {
		a.talents[k] = v
	}
	for _, g := range cfg.Glyphs {
		a.glyphs[g] = true
	}
	a.Energy.AddRegenModifier("haste", a.HasteMultiplier)
	enc.join(a)
	return a
}

// Config returns the construction config.
func (a *Actor) Config() Config { return a.cfg }

// Target returns the encounter's primary target.
func (a *Actor) Target() *Target { return a.Enc.Target }

// Now returns the simulated time.
func (a *Actor) Now() time.Duration { return a.Sched.Now() }

// Talent returns the rank of a talent, 0 when not taken.
func (a *Actor) Talent(name string) int { return a.talents[name] }

// Glyph reports whether a glyph is equipped.
func (a *Actor) Glyph(name string) bool { return a.glyphs[name] }

// Stream returns the actor's named random stream.
func (a *Actor) Stream(key string) rng.Stream { return a.Streams.Stream(key) }

// Weapon returns the weapon in slot, or nil.
func (a *Actor) Weapon(slot Slot) *Weapon {
	if slot == OffHand {
		return a.OffHand
	}
	return a.MainHand
}

// DualWielding reports whether both hands hold weapons.
func (a *Actor) DualWielding() bool {
	return a.MainHand != nil && a.OffHand != nil
}

// SetStealthEffects names the buffs that count as stealth.
func (a *Actor) SetStealthEffects(names ...string) {
	a.stealth = names
}

// Stealthed reports whether any stealth effect is active.
func (a *Actor) Stealthed() bool {
	for _, n := range a.stealth {
		if a.Buffs.Up(n) {
			return true
		}
	}
	return false
}

// HasteMultiplier combines the actor's haste with encounter-wide haste auras.
func (a *Actor) HasteMultiplier() float64 {
	return (1 + a.Stats.Haste()) * a.Enc.HasteMultiplier()
}

// Locked reports whether the action lock (GCD or a channel) is held.
func (a *Actor) Locked() bool {
	return a.Sched.Now() < a.lockedUntil || a.Channeling()
}

// LockedUntil returns when the GCD lock releases.
func (a *Actor) LockedUntil() time.Duration { return a.lockedUntil }

// Lock holds the action lock for d from now. A shorter lock never shortens
// an existing one.
func (a *Actor) Lock(d time.Duration) {
	if d < 0 {
		panic(fmt.Sprintf("actor: %s lock with negative duration %v", a.Name, d))
	}
	if until := a.Sched.Now() + d; until > a.lockedUntil {
		a.lockedUntil = until
	}
}

// GCD returns the configured global cooldown.
func (a *Actor) GCD() time.Duration { return a.cfg.GCD }

// RegisterPeriodic creates a periodic effect that is reset with the actor.
func (a *Actor) RegisterPeriodic(def effect.PeriodicDef) *effect.Periodic {
	p := effect.NewPeriodic(def, a.Sched, a.Rec)
	a.periodics = append(a.periodics, p)
	return p
}

// StartChannel begins p as the actor's channel. The actor is locked while
// it ticks.
func (a *Actor) StartChannel(p *effect.Periodic, ticks int) {
	a.channel = p
	p.Start(ticks)
}

// Channeling reports whether a channel is ticking.
func (a *Actor) Channeling() bool {
	return a.channel != nil && a.channel.Ticking()
}

// Interrupt cancels the active channel. Its removal hooks run as if it had
// completed.
func (a *Actor) Interrupt() {
	if a.Channeling() {
		slog.Debug("channel interrupted", "actor", a.Name, "channel", a.channel.Name())
		a.channel.Cancel()
	}
}

// OnTick registers fn to run after every regen tick.
func (a *Actor) OnTick(fn func()) { a.tickHooks = append(a.tickHooks, fn) }

// OnReset registers fn to run at the end of Reset.
func (a *Actor) OnReset(fn func()) { a.resetHooks = append(a.resetHooks, fn) }

// StartRegen schedules the periodic regen tick. Each tick regenerates energy
// and takes one uptime sample of every buff and target debuff.
func (a *Actor) StartRegen() {
	period := a.cfg.RegenPeriod
	var tick func()
	tick = func() {
		a.Energy.Regen(period)
		a.Buffs.Sample()
		if a.Enc.Target != nil {
			a.Enc.Target.Debuffs.Sample()
		}
		for _, fn := range a.tickHooks {
			fn()
		}
		a.Sched.Reschedule(a.regenEvent, period)
	}
	a.regenEvent = a.Sched.Schedule(period, "regen/"+a.Name, tick)
}

// Available returns how long the decision loop should idle when nothing is
// ready: the time to regenerate 25 energy, at least MinAvailable.
func (a *Actor) Available() time.Duration {
	need := 25 - a.Energy.Current()
	rate := a.Energy.RegenRate()
	if need <= 0 || rate <= 0 {
		return MinAvailable
	}
	return max(time.Duration(need/rate*float64(time.Second)), MinAvailable)
}

// AttackTable builds the one-roll table for an attack of kind.
func (a *Actor) AttackTable(kind combat.Kind, critBonus float64) combat.Table {
	def := combat.DefaultDefense
	if a.Enc.Target != nil {
		def = a.Enc.Target.Defense
	}
	if kind == combat.Auto && a.DualWielding() {
		kind = combat.AutoDualWield
	}
	return combat.BuildTable(a.Stats, def, kind, critBonus)
}

// Reset clears all trial state. Registered effects, cooldowns, and
// periodics stay registered.
func (a *Actor) Reset() {
	a.Energy.Reset()
	a.Points.Reset()
	a.Buffs.ResetAll()
	a.Cooldowns.ResetAll()
	for _, p := range a.periodics {
		p.Reset()
	}
	a.channel = nil
	a.lockedUntil = 0
	a.regenEvent = nil
	for _, fn := range a.resetHooks {
		fn()
	}
}

// Begin grants the opening energy and starts regeneration. Called once per
// trial after Reset.
func (a *Actor) Begin() {
	if a.cfg.Energy.Initial > 0 {
		a.Energy.Gain(a.cfg.Energy.Initial, "initial")
	}
	a.StartRegen()
}

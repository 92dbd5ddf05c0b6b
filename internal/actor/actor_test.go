package actor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/actionsim/internal/combat"
	"github.com/roach88/actionsim/internal/effect"
	"github.com/roach88/actionsim/internal/observe"
	"github.com/roach88/actionsim/internal/rng"
	"github.com/roach88/actionsim/internal/sched"
)

func newEncounter() *Encounter {
	return NewEncounter(sched.New(), rng.NewSource(1), observe.New(), combat.DefaultDefense)
}

func newActor(enc *Encounter, haste float64) *Actor {
	return New(Config{
		Name:     "rogue",
		Energy:   PoolConfig{Max: 100, Regen: 10, Initial: 100},
		Stats:    StatBlock{HasteFraction: haste, CritChance: 0.2},
		MainHand: &Weapon{Type: Sword, Min: 100, Max: 200, Speed: 2600 * time.Millisecond},
		OffHand:  &Weapon{Type: Dagger, Min: 50, Max: 100, Speed: 1400 * time.Millisecond},
		Talents:  map[string]int{"relentless_strikes": 3},
		Glyphs:   []string{"sinister_strike"},
	}, enc)
}

func TestActor_Defaults(t *testing.T) {
	enc := newEncounter()
	a := New(Config{Name: "bare"}, enc)

	assert.Equal(t, DefaultGCD, a.GCD())
	assert.Equal(t, 5, a.Points.Cap())
	assert.Equal(t, 100.0, a.Energy.Max())
	assert.Equal(t, 0, a.Talent("anything"))
	assert.False(t, a.Glyph("anything"))
	assert.Panics(t, func() { New(Config{}, enc) })
}

func TestActor_BeginGrantsInitialAndRegens(t *testing.T) {
	enc := newEncounter()
	a := newActor(enc, 0)
	a.Begin()
	require.Equal(t, 100.0, a.Energy.Current())
	require.True(t, a.Energy.TryConsume(50))

	enc.Sched.Advance(time.Second)
	assert.InDelta(t, 60.0, a.Energy.Current(), 1e-6)
	assert.Equal(t, 100.0, enc.Rec.GainFor("energy", "initial").Actual)
}

func TestActor_HasteScalesRegen(t *testing.T) {
	enc := newEncounter()
	a := newActor(enc, 0.5)
	assert.InDelta(t, 15.0, a.Energy.RegenRate(), 1e-9)

	enc.Auras.Get(AuraBloodlust).Trigger()
	assert.InDelta(t, 19.5, a.Energy.RegenRate(), 1e-9, "encounter aura multiplies actor haste")
}

func TestEncounter_ScheduleBloodlust(t *testing.T) {
	enc := newEncounter()
	enc.ScheduleBloodlust(5 * time.Second)

	enc.Sched.RunUntil(4 * time.Second)
	assert.InDelta(t, 1.0, enc.HasteMultiplier(), 1e-9)

	enc.Sched.RunUntil(6 * time.Second)
	assert.InDelta(t, 1.3, enc.HasteMultiplier(), 1e-9)

	enc.Sched.RunUntil(50 * time.Second)
	assert.InDelta(t, 1.0, enc.HasteMultiplier(), 1e-9, "bloodlust lasts 40s")
}

func TestActor_RegenTickSamplesUptime(t *testing.T) {
	enc := newEncounter()
	a := newActor(enc, 0)
	a.Buffs.Register(effect.Def{Name: "slice_and_dice", Duration: 500 * time.Millisecond})
	enc.Target.Debuffs.Register(effect.Def{Name: "rupture"})
	ticks := 0
	a.OnTick(func() { ticks++ })

	a.Buffs.Get("slice_and_dice").Trigger()
	a.Begin()
	enc.Sched.Advance(time.Second)

	u := enc.Rec.UptimeFor("slice_and_dice")
	assert.Equal(t, 10, u.Samples)
	assert.Equal(t, 4, u.Active, "ticks at 100..400ms see the buff; it expires at 500ms first")
	assert.Equal(t, 10, enc.Rec.UptimeFor("target.rupture").Samples)
	assert.Equal(t, 10, ticks)
}

func TestActor_LockAndChannel(t *testing.T) {
	enc := newEncounter()
	a := newActor(enc, 0)

	a.Lock(time.Second)
	assert.True(t, a.Locked())
	a.Lock(200 * time.Millisecond)
	assert.Equal(t, time.Second, a.LockedUntil(), "shorter lock never shortens")
	enc.Sched.Advance(time.Second)
	assert.False(t, a.Locked())

	removed := 0
	ks := a.RegisterPeriodic(effect.PeriodicDef{Name: "killing_spree", Tick: 500 * time.Millisecond})
	ks.OnRemove(func() { removed++ })
	a.StartChannel(ks, 5)
	assert.True(t, a.Locked())

	enc.Sched.Advance(time.Second)
	a.Interrupt()
	assert.False(t, a.Channeling())
	assert.False(t, a.Locked())
	assert.Equal(t, 1, removed)
	assert.Panics(t, func() { a.Lock(-time.Second) })
}

func TestActor_Available(t *testing.T) {
	enc := newEncounter()
	a := newActor(enc, 0)
	a.Energy.Gain(5, "initial")

	assert.Equal(t, 2*time.Second, a.Available())
	a.Energy.Gain(50, "x")
	assert.Equal(t, MinAvailable, a.Available())
}

func TestActor_Stealth(t *testing.T) {
	enc := newEncounter()
	a := newActor(enc, 0)
	a.Buffs.Register(effect.Def{Name: "stealth"})
	a.Buffs.Register(effect.Def{Name: "vanish", Duration: 3 * time.Second})
	assert.False(t, a.Stealthed())

	a.Buffs.Get("stealth").Trigger()
	assert.True(t, a.Stealthed())

	a.SetStealthEffects("vanish")
	assert.False(t, a.Stealthed())
	a.Buffs.Get("vanish").Trigger()
	assert.True(t, a.Stealthed())
}

func TestActor_AttackTableDualWield(t *testing.T) {
	enc := newEncounter()
	a := newActor(enc, 0)
	white := a.AttackTable(combat.Auto, 0)
	assert.InDelta(t, 0.27, white.Miss, 1e-9)

	yellow := a.AttackTable(combat.Special, 0)
	assert.InDelta(t, 0.08, yellow.Miss, 1e-9)
	assert.True(t, a.DualWielding())
	assert.Equal(t, Dagger, a.Weapon(OffHand).Type)
}

func TestActor_ResetClearsState(t *testing.T) {
	enc := newEncounter()
	a := newActor(enc, 0)
	a.Buffs.Register(effect.Def{Name: "stealth"})
	resets := 0
	a.OnReset(func() { resets++ })

	a.Begin()
	a.Points.Add(3, "x")
	a.Buffs.Get("stealth").Trigger()
	a.Cooldowns.Get("vanish").Start(time.Minute)
	a.Lock(time.Second)
	enc.Target.Damage(500)

	enc.Sched.Reset()
	enc.Reset()

	assert.Equal(t, 0.0, a.Energy.Current())
	assert.Equal(t, 0, a.Points.Count())
	assert.False(t, a.Buffs.Up("stealth"))
	assert.True(t, a.Cooldowns.Get("vanish").Ready())
	assert.False(t, a.Locked())
	assert.Equal(t, 0.0, enc.Target.DamageTaken())
	assert.Equal(t, 1, resets)
}

func TestEncounter_Ally(t *testing.T) {
	enc := newEncounter()
	a := newActor(enc, 0)
	assert.Nil(t, enc.Ally(a))

	b := New(Config{Name: "warrior"}, enc)
	assert.Same(t, b, enc.Ally(a))
	assert.Same(t, a, enc.Ally(b))
	assert.Len(t, enc.Actors(), 2)
}

func TestPosition_Parse(t *testing.T) {
	p, err := ParsePosition("behind")
	require.NoError(t, err)
	assert.Equal(t, Behind, p)
	assert.Equal(t, "behind", p.String())
	_, err = ParsePosition("above")
	assert.Error(t, err)
	assert.Equal(t, "off_hand", OffHand.String())
}

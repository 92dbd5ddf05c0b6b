package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/actionsim/internal/observe"
)

func fullPool(t *testing.T, max, rate float64) (*Pool, *observe.Recorder) {
	t.Helper()
	rec := observe.New()
	p := NewPool("energy", max, rate, rec)
	p.Gain(max, "initial")
	return p, rec
}

// TestPool_ConsumeSequence covers three 35-cost consumes against a full 100 pool.
func TestPool_ConsumeSequence(t *testing.T) {
	p, _ := fullPool(t, 100, 10)

	assert.True(t, p.TryConsume(35))
	assert.True(t, p.TryConsume(35))
	assert.False(t, p.TryConsume(35), "30 cannot pay 35")
	assert.Equal(t, 30.0, p.Current())
}

func TestPool_FailedConsumeDoesNotMutate(t *testing.T) {
	p, _ := fullPool(t, 100, 10)
	require.True(t, p.TryConsume(90))

	for i := 0; i < 5; i++ {
		assert.False(t, p.TryConsume(10.5))
		assert.Equal(t, 10.0, p.Current())
	}
	assert.True(t, p.TryConsume(10))
	assert.Equal(t, 0.0, p.Current())
}

func TestPool_RegenClampsAndRecordsWaste(t *testing.T) {
	p, rec := fullPool(t, 100, 10)
	require.True(t, p.TryConsume(5))

	got := p.Regen(time.Second)
	assert.Equal(t, 5.0, got)
	assert.Equal(t, 100.0, p.Current())

	p.Regen(2 * time.Second)
	assert.Equal(t, 100.0, p.Current(), "regen never exceeds max")

	g := rec.GainFor("energy", "regen")
	assert.Equal(t, 2, g.Count)
	assert.Equal(t, 5.0, g.Actual)
	assert.Equal(t, 25.0, g.Wasted)
}

func TestPool_RegenModifiersMultiply(t *testing.T) {
	p := NewPool("energy", 100, 10, nil)
	rush := 2.0
	p.AddRegenModifier("adrenaline_rush", func() float64 { return rush })
	p.AddRegenModifier("haste", func() float64 { return 1.5 })

	assert.InDelta(t, 30.0, p.RegenRate(), 1e-9)
	p.Regen(time.Second)
	assert.InDelta(t, 30.0, p.Current(), 1e-9)

	rush = 1
	assert.InDelta(t, 15.0, p.RegenRate(), 1e-9, "modifiers are read live")

	assert.Panics(t, func() { p.AddRegenModifier("haste", func() float64 { return 1 }) })
}

func TestPool_GainRecordsReason(t *testing.T) {
	p, rec := fullPool(t, 100, 10)
	require.True(t, p.TryConsume(20))

	assert.Equal(t, 15.0, p.Gain(15, "combat_potency"))
	assert.Equal(t, 5.0, p.Gain(15, "combat_potency"))

	g := rec.GainFor("energy", "combat_potency")
	assert.Equal(t, 20.0, g.Actual)
	assert.Equal(t, 10.0, g.Wasted)
}

func TestPool_TimeToReach(t *testing.T) {
	p := NewPool("energy", 100, 10, nil)
	p.Gain(20, "initial")

	assert.Equal(t, 2500*time.Millisecond, p.TimeToReach(45))
	assert.Equal(t, time.Duration(0), p.TimeToReach(10))
	assert.Equal(t, 8*time.Second, p.TimeToReach(500), "target is capped at max")
}

func TestPool_ContractViolations(t *testing.T) {
	p := NewPool("energy", 100, 10, nil)
	assert.Panics(t, func() { p.TryConsume(-1) })
	assert.Panics(t, func() { p.Gain(-1, "x") })
	assert.Panics(t, func() { p.Regen(-time.Second) })
	assert.Panics(t, func() { NewPool("bad", 0, 10, nil) })
}

func TestPool_Reset(t *testing.T) {
	p, _ := fullPool(t, 100, 10)
	p.Reset()
	assert.Equal(t, 0.0, p.Current())
	assert.Equal(t, 100.0, p.Deficit())
}

// TestPoints_AddOverflow covers adding 4 points at count 3 with cap 5.
func TestPoints_AddOverflow(t *testing.T) {
	rec := observe.New()
	p := NewPoints("combo_points", DefaultCap, rec)
	p.Add(3, "setup")

	actual, overflow := p.Add(4, "x")

	assert.Equal(t, 2, actual)
	assert.Equal(t, 2, overflow)
	assert.Equal(t, 5, p.Count())
	assert.Equal(t, 7, rec.Procs("combo_points"), "every requested point counts as gained")
	assert.Equal(t, 2, rec.Procs("combo_points_wasted"))
	assert.Equal(t, 2.0, rec.GainFor("combo_points", "x").Wasted)
}

func TestPoints_AddConservation(t *testing.T) {
	for start := 0; start <= DefaultCap; start++ {
		for n := 0; n <= 7; n++ {
			p := NewPoints("cp", DefaultCap, nil)
			p.Add(start, "setup")
			before := p.Count()

			actual, overflow := p.Add(n, "x")

			require.Equal(t, n, actual+overflow, "start=%d n=%d", start, n)
			require.Equal(t, before+actual, p.Count())
			require.LessOrEqual(t, p.Count(), DefaultCap)
		}
	}
}

func TestPoints_SpendThenRankPanics(t *testing.T) {
	p := NewPoints("cp", DefaultCap, nil)
	p.Add(3, "x")

	assert.Equal(t, 30.0, p.Rank(10, 20, 30, 40, 50))
	assert.Equal(t, 3, p.Spend())
	assert.Equal(t, 0, p.Count())
	assert.Panics(t, func() { p.Rank(10, 20, 30, 40, 50) }, "rank after spend is a contract violation")
}

func TestPoints_ContractViolations(t *testing.T) {
	p := NewPoints("cp", DefaultCap, nil)
	assert.Panics(t, func() { p.Add(-1, "x") })

	p.Add(1, "x")
	assert.Panics(t, func() { p.Rank(1, 2) }, "short rank table")
	assert.Panics(t, func() { NewPoints("cp", 0, nil) })
}

func TestPoints_SpendRecordsAndReset(t *testing.T) {
	rec := observe.New()
	p := NewPoints("cp", DefaultCap, rec)
	p.Add(4, "x")
	p.Spend()
	assert.Equal(t, 4, rec.Procs("cp_spent"))
	assert.Equal(t, 0, p.Spend(), "spending an empty counter returns zero")

	p.Add(2, "x")
	p.Reset()
	assert.Equal(t, 0, p.Count())
}

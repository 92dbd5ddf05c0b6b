package effect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/actionsim/internal/sched"
)

func rupture(s *sched.Scheduler, ticks *[]int) *Periodic {
	return NewPeriodic(PeriodicDef{
		Name:   "rupture",
		Tick:   2 * time.Second,
		Ticks:  4,
		OnTick: func(n int) { *ticks = append(*ticks, n) },
	}, s, nil)
}

func TestPeriodic_RunsAllTicksThenRemoves(t *testing.T) {
	s := sched.New()
	var ticks []int
	p := rupture(s, &ticks)
	removed := 0
	p.OnRemove(func() { removed++ })

	p.Start(0)
	require.True(t, p.Ticking())
	assert.Equal(t, 8*time.Second, p.Remains())

	s.Advance(20 * time.Second)
	assert.Equal(t, []int{1, 2, 3, 4}, ticks)
	assert.False(t, p.Ticking())
	assert.Equal(t, 1, removed)
}

func TestPeriodic_CancelRunsSameRemovalHooks(t *testing.T) {
	s := sched.New()
	var ticks []int
	p := rupture(s, &ticks)
	removed := 0
	p.OnRemove(func() { removed++ })

	p.Start(5)
	s.Advance(3 * time.Second)
	p.Cancel()
	p.Cancel()
	s.Advance(20 * time.Second)

	assert.Equal(t, []int{1}, ticks)
	assert.Equal(t, 1, removed, "interrupt behaves like completion")
}

func TestPeriodic_RefreshKeepsPhase(t *testing.T) {
	s := sched.New()
	var ticks []int
	p := rupture(s, &ticks)
	p.Start(2)
	s.Advance(3 * time.Second) // tick 1 at 2s, next due at 4s

	p.Start(3) // already ticking: refresh
	assert.Equal(t, 3, p.TicksLeft())
	assert.Equal(t, 5*time.Second, p.Remains())

	s.Advance(10 * time.Second)
	assert.Equal(t, []int{1, 2, 3, 4}, ticks)
}

func TestPeriodic_CancelInsideTick(t *testing.T) {
	s := sched.New()
	removed := 0
	var p *Periodic
	p = NewPeriodic(PeriodicDef{
		Name: "killing_spree",
		Tick: 500 * time.Millisecond,
		OnTick: func(n int) {
			if n == 2 {
				p.Cancel()
			}
		},
	}, s, nil)
	p.OnRemove(func() { removed++ })

	p.Start(5)
	s.Advance(5 * time.Second)

	assert.False(t, p.Ticking())
	assert.Equal(t, 1, removed)
}

func TestPeriodic_ResetAndValidation(t *testing.T) {
	s := sched.New()
	var ticks []int
	p := rupture(s, &ticks)
	removed := false
	p.OnRemove(func() { removed = true })
	p.Start(0)
	p.Reset()
	s.Advance(time.Minute)
	assert.Empty(t, ticks)
	assert.False(t, removed)

	assert.Panics(t, func() { NewPeriodic(PeriodicDef{Name: "bad"}, s, nil) })
	idle := NewPeriodic(PeriodicDef{Name: "idle", Tick: time.Second}, s, nil)
	assert.Panics(t, func() { idle.Start(0) }, "no tick count configured")
}

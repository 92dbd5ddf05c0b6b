package cooldown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/actionsim/internal/sched"
)

func TestEntry_StartAndRemains(t *testing.T) {
	s := sched.New()
	l := New(s)
	e := l.Get("adrenaline_rush")
	require.True(t, e.Ready())

	e.Start(180 * time.Second)
	assert.Equal(t, 180*time.Second, e.Remains())

	s.Advance(30 * time.Second)
	assert.Equal(t, 150*time.Second, e.Remains())

	s.Advance(200 * time.Second)
	assert.Equal(t, time.Duration(0), e.Remains(), "remains never goes negative")
	assert.True(t, e.Ready())
}

func TestEntry_ReduceClampsAtNow(t *testing.T) {
	s := sched.New()
	e := New(s).Get("killing_spree")
	e.Start(10 * time.Second)

	e.Reduce(4 * time.Second)
	assert.Equal(t, 6*time.Second, e.Remains())

	e.Reduce(60 * time.Second)
	assert.Equal(t, time.Duration(0), e.Remains())
}

func TestEntry_ReduceNeverResurrects(t *testing.T) {
	s := sched.New()
	e := New(s).Get("vanish")
	e.Start(2 * time.Second)
	s.Advance(5 * time.Second)
	require.Equal(t, time.Duration(0), e.Remains())

	for i := 0; i < 3; i++ {
		e.Reduce(0)
		e.Reduce(time.Second)
		assert.Equal(t, time.Duration(0), e.Remains())
	}

	// Time moving on does not bring it back either.
	s.Advance(time.Second)
	assert.Equal(t, time.Duration(0), e.Remains())
}

func TestEntry_ReduceZeroIsIdempotent(t *testing.T) {
	s := sched.New()
	e := New(s).Get("x")
	e.Start(5 * time.Second)
	for i := 0; i < 10; i++ {
		e.Reduce(0)
	}
	assert.Equal(t, 5*time.Second, e.Remains())
}

func TestEntry_ContractViolations(t *testing.T) {
	s := sched.New()
	e := New(s).Get("x")
	assert.Panics(t, func() { e.Start(-time.Second) })
	assert.Panics(t, func() { e.Reduce(-time.Second) })
	assert.Panics(t, func() { New(s).Register("y", -time.Second) })
}

func TestLedger_RegisterTriggerAndReset(t *testing.T) {
	s := sched.New()
	l := New(s)
	e := l.Register("cold_blood", 120*time.Second)
	assert.Same(t, e, l.Get("cold_blood"))

	e.Trigger()
	l.Get("vanish").Start(180 * time.Second)
	s.Advance(10 * time.Second)
	assert.Equal(t, 110*time.Second, e.Remains())

	l.ResetAll()
	assert.True(t, e.Ready())
	assert.True(t, l.Get("vanish").Ready())
	assert.Equal(t, []string{"cold_blood", "vanish"}, l.Names())

	_, ok := l.Lookup("missing")
	assert.False(t, ok)
}

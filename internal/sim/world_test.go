package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/actionsim/internal/rogue"
)

func TestTrial_ChannelDoesNotStallClock(t *testing.T) {
	w, err := newWorld(load(t, "combat.cue"), 42)
	require.NoError(t, err)

	type outcome struct {
		dps float64
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		dps, err := w.trial(42, 45*time.Second)
		done <- outcome{dps, err}
	}()

	select {
	case got := <-done:
		require.NoError(t, got.err)
		assert.Positive(t, got.dps)
	case <-time.After(30 * time.Second):
		t.Fatal("45s trial did not finish within 30s of wall time")
	}

	assert.Positive(t, w.rec.ActionFor(rogue.ActionKillingSpreeMain).Executes,
		"killing spree channel ran")
	assert.Equal(t, 45*time.Second, w.sched.Now())
}

func TestTrial_Bloodlust(t *testing.T) {
	p := compile(t, strikeOnly+"party: bloodlust_at: 1\n")
	w, err := newWorld(p, 7)
	require.NoError(t, err)

	_, err = w.trial(7, 10*time.Second)
	require.NoError(t, err)
	assert.InDelta(t, 1.3, w.enc.HasteMultiplier(), 1e-9)

	plain, err := newWorld(compile(t, strikeOnly), 7)
	require.NoError(t, err)
	_, err = plain.trial(7, 10*time.Second)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, plain.enc.HasteMultiplier(), 1e-9)
}

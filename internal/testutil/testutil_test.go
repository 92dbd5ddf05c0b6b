package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/actionsim/internal/rng"
)

func TestFixedRunIDs_InOrderThenPanics(t *testing.T) {
	gen := NewFixedRunIDs("run-1", "run-2")
	assert.Equal(t, "run-1", gen.Generate())
	assert.Equal(t, "run-2", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}

func TestFixedRunIDs_Default(t *testing.T) {
	assert.Equal(t, "test-run-default", NewFixedRunIDs().Generate())
}

func TestForcedStream_CountsDraws(t *testing.T) {
	st := Always()
	assert.True(t, st.Roll(0.01))
	assert.False(t, st.Roll(0), "p=0 never succeeds")
	assert.Equal(t, 1, st.Draws())

	assert.False(t, Never().Roll(0.99))
	assert.Equal(t, 15.0, (&ForcedStream{Fraction: 0.5}).Range(10, 20))
}

func TestScriptedStream_Replays(t *testing.T) {
	st := Script("s", 0.1, 0.9, 0.5)
	assert.True(t, st.Roll(0.2))
	assert.False(t, st.Roll(0.2))
	assert.Equal(t, 15.0, st.Range(10, 20))
	assert.Equal(t, 3, st.Draws())
	assert.Panics(t, func() { st.Roll(0.5) })
}

func TestStreams_OverridesAndFallback(t *testing.T) {
	forced := Always()
	p := NewStreams(rng.NewSource(1)).Set("proc/x", forced)

	assert.Same(t, forced, p.Stream("proc/x"))
	other := p.Stream("proc/y")
	assert.Same(t, other, p.Stream("proc/y"), "fallback streams are cached")
	assert.Equal(t, []string{"proc/x", "proc/y"}, p.Keys())

	bare := NewStreams(nil)
	assert.False(t, bare.Stream("anything").Roll(0.5))
}

package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/actionsim/internal/rng"
	"github.com/roach88/actionsim/internal/testutil"
)

type stats struct{ hit, exp, crit float64 }

func (s stats) Hit() float64       { return s.hit }
func (s stats) Expertise() float64 { return s.exp }
func (s stats) Crit() float64      { return s.crit }

func TestOutcome_StringAndQualifying(t *testing.T) {
	assert.Equal(t, "crit", OutcomeCrit.String())
	assert.Equal(t, "unknown", Outcome(42).String())
	assert.True(t, OutcomeHit.Qualifying())
	assert.True(t, OutcomeCrit.Qualifying())
	assert.False(t, OutcomeMiss.Qualifying())
	assert.False(t, OutcomeDodge.Qualifying())

	o, err := ParseOutcome("dodge")
	require.NoError(t, err)
	assert.Equal(t, OutcomeDodge, o)
	_, err = ParseOutcome("parry")
	assert.Error(t, err)
}

func TestBuildTable_Kinds(t *testing.T) {
	a := stats{hit: 0.05, exp: 0.02, crit: 0.25}

	special := BuildTable(a, DefaultDefense, Special, 0)
	assert.InDelta(t, 0.03, special.Miss, 1e-9)
	assert.InDelta(t, 0.045, special.Dodge, 1e-9)
	assert.InDelta(t, 0.25, special.Crit, 1e-9)

	white := BuildTable(a, DefaultDefense, AutoDualWield, 0)
	assert.InDelta(t, 0.22, white.Miss, 1e-9)

	tick := BuildTable(a, DefaultDefense, Periodic, 0)
	assert.Equal(t, 0.0, tick.Miss)
	assert.Equal(t, 0.0, tick.Dodge)
}

func TestBuildTable_ClampsOverflow(t *testing.T) {
	capped := BuildTable(stats{hit: 0.5, exp: 0.5, crit: 0.3}, DefaultDefense, Special, 1)
	assert.Equal(t, 0.0, capped.Miss)
	assert.Equal(t, 0.0, capped.Dodge)
	assert.Equal(t, 1.0, capped.Crit, "guaranteed crit fills the table")

	miss := BuildTable(stats{crit: 0.9}, Defense{Miss: 0.6, Dodge: 0.3}, Special, 0)
	assert.InDelta(t, 0.1, miss.Crit, 1e-9, "crit cannot push hits below zero")
}

func TestResolve_Rows(t *testing.T) {
	table := Table{Miss: 0.1, Dodge: 0.1, Crit: 0.3}
	cases := []struct {
		fraction float64
		want     Outcome
	}{
		{0.05, OutcomeMiss},
		{0.15, OutcomeDodge},
		{0.25, OutcomeCrit},
		{0.49, OutcomeCrit},
		{0.50, OutcomeHit},
		{0.99, OutcomeHit},
	}
	for _, tc := range cases {
		st := &testutil.ForcedStream{Fraction: tc.fraction}
		assert.Equal(t, tc.want, Resolve(st, table), "fraction %v", tc.fraction)
		assert.Equal(t, 1, st.Draws(), "one draw per resolution")
	}
}

func TestResolve_Distribution(t *testing.T) {
	st := rng.NewSource(11).Stream("outcome/test")
	table := Table{Miss: 0.1, Dodge: 0.05, Crit: 0.25}
	counts := map[Outcome]int{}
	const n = 20000
	for i := 0; i < n; i++ {
		counts[Resolve(st, table)]++
	}
	assert.InDelta(t, 0.10, float64(counts[OutcomeMiss])/n, 0.015)
	assert.InDelta(t, 0.05, float64(counts[OutcomeDodge])/n, 0.015)
	assert.InDelta(t, 0.25, float64(counts[OutcomeCrit])/n, 0.015)
}

package observe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Procs(t *testing.T) {
	r := New()
	r.Proc("seal_fate")
	r.ProcN("combo_points", 3)
	r.ProcN("combo_points_wasted", 0)

	assert.Equal(t, 1, r.Procs("seal_fate"))
	assert.Equal(t, 3, r.Procs("combo_points"))
	assert.Equal(t, 0, r.Procs("combo_points_wasted"), "zero occurrences are not recorded")
}

func TestRecorder_Gains(t *testing.T) {
	r := New()
	r.Gain("energy", "combat_potency", 15, 0)
	r.Gain("energy", "combat_potency", 10, 5)

	g := r.GainFor("energy", "combat_potency")
	assert.Equal(t, 2, g.Count)
	assert.Equal(t, 25.0, g.Actual)
	assert.Equal(t, 5.0, g.Wasted)

	assert.Equal(t, 0, r.GainFor("energy", "missing").Count)
}

func TestRecorder_Uptime(t *testing.T) {
	r := New()
	r.Sample("slice_and_dice", true)
	r.Sample("slice_and_dice", true)
	r.Sample("slice_and_dice", false)
	r.Sample("slice_and_dice", true)

	u := r.UptimeFor("slice_and_dice")
	assert.Equal(t, 4, u.Samples)
	assert.InDelta(t, 0.75, u.Ratio(), 1e-9)
	assert.Equal(t, 0.0, r.UptimeFor("nothing").Ratio())
}

func TestRecorder_Actions(t *testing.T) {
	r := New()
	r.Action("sinister_strike", "hit", 100)
	r.Action("sinister_strike", "crit", 200)
	r.Action("eviscerate", "miss", 0)

	ss := r.ActionFor("sinister_strike")
	assert.Equal(t, 2, ss.Executes)
	assert.Equal(t, 1, ss.Outcomes["crit"])
	assert.Equal(t, 300.0, ss.Amount)
	assert.Equal(t, 300.0, r.TotalAmount())

	// Returned stats are copies.
	ss.Outcomes["crit"] = 99
	assert.Equal(t, 1, r.ActionFor("sinister_strike").Outcomes["crit"])
}

func TestRecorder_Tracer(t *testing.T) {
	r := New()
	var events []Event
	now := 3 * time.Second
	r.SetTracer(func() time.Duration { return now }, func(e Event) { events = append(events, e) })

	r.Proc("ruthlessness")
	r.Gain("energy", "regen", 10, 0)

	require.Len(t, events, 2)
	assert.Equal(t, "proc", events[0].Kind)
	assert.Equal(t, 3*time.Second, events[0].At)
	assert.Equal(t, 1, events[0].Fields["count"])
	assert.Equal(t, "regen", events[1].Fields["reason"])
}

func TestSnapshot_Merge(t *testing.T) {
	a := New()
	a.Proc("x")
	a.Gain("energy", "regen", 10, 1)
	a.Sample("snd", true)
	a.Action("ss", "hit", 5)

	b := New()
	b.ProcN("x", 2)
	b.Gain("energy", "regen", 20, 0)
	b.Gain("energy", "refund", 3, 0)
	b.Sample("snd", false)
	b.Action("ss", "crit", 10)
	b.Action("evis", "hit", 7)

	s := a.Snapshot()
	s.Merge(b.Snapshot())

	assert.Equal(t, 3, s.Procs["x"])
	require.Len(t, s.Gains, 2)
	assert.Equal(t, "refund", s.Gains[0].Reason, "gains sort by resource then reason")
	assert.Equal(t, 30.0, s.Gains[1].Actual)
	assert.Equal(t, 2, s.Uptimes[0].Samples)
	require.Len(t, s.Actions, 2)
	assert.Equal(t, "evis", s.Actions[0].Name)
	assert.Equal(t, 2, s.Actions[1].Executes)
	assert.Equal(t, 22.0, s.TotalAmount())
}

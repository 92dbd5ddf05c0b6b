package trace

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/actionsim/internal/observe"
)

func TestEventMap(t *testing.T) {
	e := observe.Event{
		At:   1500 * time.Microsecond,
		Kind: "gain",
		Name: "energy",
		Fields: map[string]any{
			"reason": "relentless_strikes",
			"actual": 25.0,
			"wasted": 2.5,
			"lock":   time.Second,
		},
	}
	m := EventMap(e)
	assert.Equal(t, "1.5", m["at_ms"])
	assert.Equal(t, map[string]any{
		"reason": "relentless_strikes",
		"actual": int64(25),
		"wasted": "2.5",
		"lock":   int64(1000),
	}, m["fields"])
}

func TestEventMap_NoFields(t *testing.T) {
	m := EventMap(observe.Event{At: 2 * time.Second, Kind: "proc", Name: "x"})
	assert.Equal(t, int64(2000), m["at_ms"])
	assert.NotContains(t, m, "fields")
}

func TestWriter_RecorderEvents(t *testing.T) {
	var now time.Duration
	rec := observe.New()

	var buf bytes.Buffer
	w := NewWriter(&buf)
	rec.SetTracer(func() time.Duration { return now }, w.Write)

	rec.Proc("seal_fate")
	now = 250 * time.Millisecond
	rec.Action("sinister_strike", "hit", 200)
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `{"at_ms":0,"fields":{"count":1},"kind":"proc","name":"seal_fate"}`, lines[0])
	assert.Equal(t, `{"at_ms":250,"fields":{"amount":200,"outcome":"hit"},"kind":"action","name":"sinister_strike"}`, lines[1])
	assert.Equal(t, 2, w.Count())
}

func TestCollector(t *testing.T) {
	rec := observe.New()
	var c Collector
	rec.SetTracer(nil, c.Collect)

	rec.Gain("energy", "regen", 10, 0)
	rec.Proc("ruthlessness")
	rec.Proc("seal_fate")

	require.Len(t, c.Events, 3)
	assert.Equal(t, []string{"gain", "proc"}, c.Kinds())
}

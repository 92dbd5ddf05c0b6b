package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/actionsim/internal/observe"
	"github.com/roach88/actionsim/internal/sim"
	"github.com/roach88/actionsim/internal/store"
)

func seedDatabase(t *testing.T, ids ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runs.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	for i, id := range ids {
		res := &sim.Result{
			RunID:       id,
			Profile:     "combat_swords",
			ProfileHash: "0123456789abcdef0123456789abcdef",
			Seed:        uint64(i + 1),
			Iterations:  100,
			Duration:    5 * time.Minute,
			DPS:         sim.Summary{Mean: 12345.5, Min: 11000, Max: 13000, StdDev: 250},
			Snapshot: observe.Snapshot{
				Procs: map[string]int{"seal_fate": 1200},
				Gains: []observe.Gain{{Resource: "energy", Reason: "regen", Count: 3000, Actual: 30000, Wasted: 150}},
				Uptimes: []observe.Uptime{{Name: "slice_and_dice", Samples: 200, Active: 190}},
				Actions: []observe.ActionStats{{
					Name:     "sinister_strike",
					Executes: 4000,
					Outcomes: map[string]int{"hit": 3000, "crit": 1000},
					Amount:   2000000,
				}},
			},
		}
		require.NoError(t, st.WriteRun(context.Background(), res))
	}
	return path
}

func TestReportMissingDatabase(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.db")
	out, _, err := execute(t, "report", missing)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E_STORE]: database not found")
	assert.NoFileExists(t, missing)
}

func TestReportListText(t *testing.T) {
	db := seedDatabase(t, "run-a", "run-b")

	out, _, err := execute(t, "report", db)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "SEQ")
	assert.Contains(t, lines[1], "run-b")
	assert.Contains(t, lines[2], "run-a")
	assert.Contains(t, lines[1], "12,345.5")
}

func TestReportListEmpty(t *testing.T) {
	db := seedDatabase(t)

	out, _, err := execute(t, "report", db)
	require.NoError(t, err)
	assert.Equal(t, "No runs stored.\n", out)

	out, _, err = execute(t, "--format", "json", "report", db)
	require.NoError(t, err)
	resp, _ := decodeResponse(t, out)
	assert.Equal(t, []any{}, resp.Data)
}

func TestReportRunText(t *testing.T) {
	db := seedDatabase(t, "run-a")

	out, _, err := execute(t, "report", db, "run-a")
	require.NoError(t, err)

	assert.Contains(t, out, "run      run-a")
	assert.Contains(t, out, "profile  combat_swords (0123456789ab)")
	assert.Contains(t, out, "trials   100 x 5m0s")
	assert.Contains(t, out, "dps      12,345.5 (min 11,000.0, max 13,000.0, stddev 250.0)")
	assert.Contains(t, out, "sinister_strike  40.0/trial  2,000,000  100.0%  crit=1000 hit=3000")
	assert.Contains(t, out, "slice_and_dice  95.0%")
	assert.Contains(t, out, "seal_fate  1,200")
}

func TestReportRunNotFound(t *testing.T) {
	db := seedDatabase(t, "run-a")

	out, _, err := execute(t, "--format", "json", "report", db, "nope")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp, _ := decodeResponse(t, out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "run nope not found", resp.Error.Message)
}

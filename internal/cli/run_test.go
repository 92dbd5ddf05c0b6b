package cli

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/actionsim/internal/testutil"
)

func TestRunMissingProfileArg(t *testing.T) {
	_, _, err := execute(t, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestRunNonExistentProfile(t *testing.T) {
	out, _, err := execute(t, "run", "/nonexistent/profile.cue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E_PROFILE]")
}

func TestRunRejectedPriorityList(t *testing.T) {
	path := writeProfile(t, `name: "bad"
spec: "combat"
weapons: main_hand: {type: "sword", min: 100, max: 200, speed: 2.6}
apl: [{action: "teleport"}]
`)
	out, _, err := execute(t, "--format", "json", "run", "--iterations", "1", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp, _ := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodePriorityList, resp.Error.Code)
}

func TestRunNegativeIterations(t *testing.T) {
	_, _, err := execute(t, "run", "--iterations", "-3", combatProfile)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "iterations must be positive")
}

func TestRunJSONWithDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	opts := &RunOptions{
		RootOptions: &RootOptions{Format: "json"},
		Iterations:  4,
		Duration:    20 * time.Second,
		Seed:        7,
		Workers:     2,
		Database:    dbPath,
		IDs:         testutil.NewFixedRunIDs("run-1"),
	}
	cmd, buf := commandWithOutput()

	require.NoError(t, runSimulation(opts, combatProfile, cmd))

	resp, data := decodeResponse(t, buf.String())
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "run-1", data["run_id"])
	assert.Equal(t, "combat_swords", data["profile"])
	assert.EqualValues(t, 4, data["iterations"])

	dps, ok := data["dps"].(map[string]any)
	require.True(t, ok)
	assert.Greater(t, dps["mean"], 0.0)

	// The saved run is visible to report.
	out, _, err := execute(t, "--format", "json", "report", dbPath)
	require.NoError(t, err)
	resp, _ = decodeResponse(t, out)
	runs, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].(map[string]any)["id"])
}

func TestRunText(t *testing.T) {
	out, _, err := execute(t, "run", "--iterations", "3", "--duration", "30s", "--seed", "11", combatProfile)
	require.NoError(t, err)

	assert.Contains(t, out, "profile  combat_swords")
	assert.Contains(t, out, "seed     11")
	assert.Contains(t, out, "trials   3 x 30s")
	assert.Contains(t, out, "\nactions\n")
	assert.Contains(t, out, "sinister_strike")
	assert.Contains(t, out, "\nprocs\n")
}

func TestRunDeterministicAcrossWorkers(t *testing.T) {
	run := func(workers int) map[string]any {
		opts := &RunOptions{
			RootOptions: &RootOptions{Format: "json"},
			Iterations:  6,
			Duration:    15 * time.Second,
			Seed:        3,
			Workers:     workers,
			IDs:         testutil.NewFixedRunIDs("same"),
		}
		cmd, buf := commandWithOutput()
		require.NoError(t, runSimulation(opts, combatProfile, cmd))
		_, data := decodeResponse(t, buf.String())
		return data
	}

	one, three := run(1), run(3)
	assert.Equal(t, one["dps"], three["dps"])
	assert.Equal(t, one["snapshot"].(map[string]any)["procs"], three["snapshot"].(map[string]any)["procs"])
}

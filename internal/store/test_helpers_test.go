package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/actionsim/internal/observe"
	"github.com/roach88/actionsim/internal/sim"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestResult creates a run result with one entry in every snapshot
// table.
func createTestResult(id string, mean float64) *sim.Result {
	return &sim.Result{
		RunID:       id,
		Profile:     "combat_swords",
		ProfileHash: "abc123",
		Seed:        42,
		Iterations:  100,
		Duration:    5 * time.Minute,
		DPS:         sim.Summary{Mean: mean, Min: mean - 100, Max: mean + 100, StdDev: 25.5},
		Snapshot: observe.Snapshot{
			Procs: map[string]int{"ruthlessness": 12, "seal_fate": 3},
			Gains: []observe.Gain{
				{Resource: "energy", Reason: "regen", Count: 3000, Actual: 2950.5, Wasted: 49.5},
			},
			Uptimes: []observe.Uptime{{Name: "slice_and_dice", Samples: 3000, Active: 2700}},
			Actions: []observe.ActionStats{
				{Name: "sinister_strike", Executes: 90, Outcomes: map[string]int{"hit": 80, "crit": 10}, Amount: 54000},
			},
		},
	}
}

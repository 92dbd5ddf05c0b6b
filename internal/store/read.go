package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/actionsim/internal/observe"
	"github.com/roach88/actionsim/internal/sim"
)

// RunSummary is one row of a run listing.
type RunSummary struct {
	ID          string        `json:"id"`
	Seq         int64         `json:"seq"`
	Profile     string        `json:"profile"`
	ProfileHash string        `json:"profile_hash"`
	Seed        uint64        `json:"seed"`
	Iterations  int           `json:"iterations"`
	Duration    time.Duration `json:"duration"`
	DPS         sim.Summary   `json:"dps"`
}

const runColumns = `id, seq, profile, profile_hash, seed, iterations, duration_ns,
	dps_mean, dps_min, dps_max, dps_stddev`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (RunSummary, error) {
	var (
		r     RunSummary
		seed  int64
		durNS int64
	)
	err := row.Scan(&r.ID, &r.Seq, &r.Profile, &r.ProfileHash, &seed, &r.Iterations, &durNS,
		&r.DPS.Mean, &r.DPS.Min, &r.DPS.Max, &r.DPS.StdDev)
	if err != nil {
		return RunSummary{}, err
	}
	r.Seed = uint64(seed)
	r.Duration = time.Duration(durNS)
	return r, nil
}

// ListRuns returns the most recently stored runs first, at most limit of
// them. A limit <= 0 returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY seq DESC, id COLLATE BINARY ASC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return out, nil
}

// ReadRun loads a stored run with its snapshot. Returns an error wrapping
// ErrNotFound when id is not stored.
func (s *Store) ReadRun(ctx context.Context, id string) (*sim.Result, error) {
	sum, err := scanRun(s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}

	snap, err := s.readSnapshot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}
	return &sim.Result{
		RunID:       sum.ID,
		Profile:     sum.Profile,
		ProfileHash: sum.ProfileHash,
		Seed:        sum.Seed,
		Iterations:  sum.Iterations,
		Duration:    sum.Duration,
		DPS:         sum.DPS,
		Snapshot:    snap,
	}, nil
}

func (s *Store) readSnapshot(ctx context.Context, id string) (observe.Snapshot, error) {
	snap := observe.Snapshot{Procs: map[string]int{}}

	err := s.each(ctx, `SELECT name, count FROM procs WHERE run_id = ? ORDER BY name COLLATE BINARY`, id,
		func(rows *sql.Rows) error {
			var name string
			var n int
			if err := rows.Scan(&name, &n); err != nil {
				return err
			}
			snap.Procs[name] = n
			return nil
		})
	if err != nil {
		return snap, fmt.Errorf("procs: %w", err)
	}

	err = s.each(ctx, `SELECT resource, reason, count, actual, wasted FROM gains
		WHERE run_id = ? ORDER BY resource COLLATE BINARY, reason COLLATE BINARY`, id,
		func(rows *sql.Rows) error {
			var g observe.Gain
			if err := rows.Scan(&g.Resource, &g.Reason, &g.Count, &g.Actual, &g.Wasted); err != nil {
				return err
			}
			snap.Gains = append(snap.Gains, g)
			return nil
		})
	if err != nil {
		return snap, fmt.Errorf("gains: %w", err)
	}

	err = s.each(ctx, `SELECT name, samples, active FROM uptimes WHERE run_id = ? ORDER BY name COLLATE BINARY`, id,
		func(rows *sql.Rows) error {
			var u observe.Uptime
			if err := rows.Scan(&u.Name, &u.Samples, &u.Active); err != nil {
				return err
			}
			snap.Uptimes = append(snap.Uptimes, u)
			return nil
		})
	if err != nil {
		return snap, fmt.Errorf("uptimes: %w", err)
	}

	err = s.each(ctx, `SELECT name, executes, amount, outcomes FROM actions WHERE run_id = ? ORDER BY name COLLATE BINARY`, id,
		func(rows *sql.Rows) error {
			var a observe.ActionStats
			var outcomes string
			if err := rows.Scan(&a.Name, &a.Executes, &a.Amount, &outcomes); err != nil {
				return err
			}
			if err := json.Unmarshal([]byte(outcomes), &a.Outcomes); err != nil {
				return fmt.Errorf("action %s outcomes: %w", a.Name, err)
			}
			snap.Actions = append(snap.Actions, a)
			return nil
		})
	if err != nil {
		return snap, fmt.Errorf("actions: %w", err)
	}
	return snap, nil
}

func (s *Store) each(ctx context.Context, query, id string, fn func(*sql.Rows) error) error {
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/actionsim/internal/sim"
	"github.com/roach88/actionsim/internal/trace"
)

// WriteRun stores a run and its snapshot in one transaction.
// A run ID that is already stored is silently ignored.
func (s *Store) WriteRun(ctx context.Context, res *sim.Result) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	r, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, profile, profile_hash, seed, iterations, duration_ns,
		 dps_mean, dps_min, dps_max, dps_stddev)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs), ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		res.RunID,
		res.Profile,
		res.ProfileHash,
		int64(res.Seed),
		res.Iterations,
		int64(res.Duration),
		res.DPS.Mean,
		res.DPS.Min,
		res.DPS.Max,
		res.DPS.StdDev,
	)
	if err != nil {
		return fmt.Errorf("write run %s: %w", res.RunID, err)
	}
	n, err := r.RowsAffected()
	if err != nil {
		return fmt.Errorf("write run %s: %w", res.RunID, err)
	}
	if n == 0 {
		return tx.Commit()
	}

	if err = writeSnapshot(ctx, tx, res); err != nil {
		return fmt.Errorf("write run %s: %w", res.RunID, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("write run %s: %w", res.RunID, err)
	}
	return nil
}

func writeSnapshot(ctx context.Context, tx *sql.Tx, res *sim.Result) error {
	snap := res.Snapshot
	for name, count := range snap.Procs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO procs (run_id, name, count) VALUES (?, ?, ?)`,
			res.RunID, name, count,
		); err != nil {
			return fmt.Errorf("proc %s: %w", name, err)
		}
	}
	for _, g := range snap.Gains {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO gains (run_id, resource, reason, count, actual, wasted) VALUES (?, ?, ?, ?, ?, ?)`,
			res.RunID, g.Resource, g.Reason, g.Count, g.Actual, g.Wasted,
		); err != nil {
			return fmt.Errorf("gain %s/%s: %w", g.Resource, g.Reason, err)
		}
	}
	for _, u := range snap.Uptimes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO uptimes (run_id, name, samples, active) VALUES (?, ?, ?, ?)`,
			res.RunID, u.Name, u.Samples, u.Active,
		); err != nil {
			return fmt.Errorf("uptime %s: %w", u.Name, err)
		}
	}
	for _, a := range snap.Actions {
		outcomes, err := trace.Marshal(a.Outcomes)
		if err != nil {
			return fmt.Errorf("action %s outcomes: %w", a.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO actions (run_id, name, executes, amount, outcomes) VALUES (?, ?, ?, ?, ?)`,
			res.RunID, a.Name, a.Executes, a.Amount, string(outcomes),
		); err != nil {
			return fmt.Errorf("action %s: %w", a.Name, err)
		}
	}
	return nil
}

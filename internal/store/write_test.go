package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRun_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	want := createTestResult("run-1", 1234.5)

	require.NoError(t, s.WriteRun(ctx, want))

	got, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWriteRun_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteRun(ctx, createTestResult("run-1", 1000)))
	// Same ID with different content is ignored.
	require.NoError(t, s.WriteRun(ctx, createTestResult("run-1", 9999)))

	got, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.InDelta(t, 1000, got.DPS.Mean, 1e-9)

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	var procs int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM procs WHERE run_id = 'run-1'`).Scan(&procs))
	assert.Equal(t, 2, procs)
}

func TestWriteRun_LargeSeed(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	res := createTestResult("run-big", 1)
	res.Seed = 1<<64 - 1

	require.NoError(t, s.WriteRun(ctx, res))
	got, err := s.ReadRun(ctx, "run-big")
	require.NoError(t, err)
	assert.Equal(t, res.Seed, got.Seed)
}

func TestWriteRun_Canceled(t *testing.T) {
	s := createTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.WriteRun(ctx, createTestResult("run-1", 1))
	require.Error(t, err)

	_, err = s.ReadRun(context.Background(), "run-1")
	assert.True(t, errors.Is(err, ErrNotFound))
}

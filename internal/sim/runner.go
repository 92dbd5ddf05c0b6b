package sim

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/actionsim/internal/apl"
	"github.com/roach88/actionsim/internal/observe"
	"github.com/roach88/actionsim/internal/profile"
)

// Defaults applied by NewRunner.
const (
	DefaultIterations = 1000
	DefaultDuration   = 5 * time.Minute
)

// Config holds the run parameters.
type Config struct {
	Profile    *profile.Profile
	Iterations int
	Duration   time.Duration
	Seed       uint64

	// Workers is the number of goroutines running trials. Zero means
	// GOMAXPROCS.
	Workers int

	// IDs generates the run ID. Defaults to UUIDv7Generator.
	IDs IDGenerator

	// Tracer receives every recorded event. Setting it forces a single
	// worker so events arrive in trial order.
	Tracer func(observe.Event)
}

// Summary describes a sample of per-trial values.
type Summary struct {
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"stddev"`
}

// Result is the outcome of a run.
type Result struct {
	RunID       string           `json:"run_id"`
	Profile     string           `json:"profile"`
	ProfileHash string           `json:"profile_hash"`
	Seed        uint64           `json:"seed"`
	Iterations  int              `json:"iterations"`
	Duration    time.Duration    `json:"duration"`
	DPS         Summary          `json:"dps"`
	Snapshot    observe.Snapshot `json:"snapshot"`
}

// Runner executes the trials of one run.
type Runner struct {
	cfg  Config
	hash string
}

// NewRunner validates cfg and compiles the priority list once against a
// throwaway actor so configuration errors surface before any trial starts.
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Profile == nil {
		return nil, configError("no profile")
	}
	if cfg.Iterations == 0 {
		cfg.Iterations = DefaultIterations
	}
	if cfg.Iterations < 0 {
		return nil, configError("iterations must be positive, got %d", cfg.Iterations)
	}
	if cfg.Duration == 0 {
		cfg.Duration = DefaultDuration
	}
	if cfg.Duration < 0 {
		return nil, configError("duration must be positive, got %v", cfg.Duration)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Tracer != nil {
		cfg.Workers = 1
	}
	cfg.Workers = min(cfg.Workers, cfg.Iterations)
	if cfg.IDs == nil {
		cfg.IDs = UUIDv7Generator{}
	}

	if _, err := newWorld(cfg.Profile, cfg.Seed); err != nil {
		return nil, wrapBuildError(err)
	}
	hash, err := cfg.Profile.Hash()
	if err != nil {
		return nil, &Error{Code: ErrCodeConfig, Message: "hash profile", Trial: -1, Err: err}
	}
	return &Runner{cfg: cfg, hash: hash}, nil
}

func wrapBuildError(err error) error {
	var ce *apl.ConfigError
	if errors.As(err, &ce) {
		return &Error{Code: ErrCodePriorityList, Message: "priority list rejected", Trial: -1, Err: err}
	}
	return &Error{Code: ErrCodeConfig, Message: "build actor", Trial: -1, Err: err}
}

// Config returns the effective configuration after defaults.
func (r *Runner) Config() Config { return r.cfg }

// Run executes every trial. Cancellation is honored between trials.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	cfg := r.cfg
	dps := make([]float64, cfg.Iterations)
	snaps := make([]observe.Snapshot, cfg.Workers)

	slog.Info("run started",
		"profile", cfg.Profile.Name,
		"iterations", cfg.Iterations,
		"workers", cfg.Workers,
		"seed", cfg.Seed,
	)

	g, gctx := errgroup.WithContext(ctx)
	for worker := range cfg.Workers {
		g.Go(func() error {
			w, err := newWorld(cfg.Profile, cfg.Seed)
			if err != nil {
				return wrapBuildError(err)
			}
			if cfg.Tracer != nil {
				w.rec.SetTracer(w.sched.Now, cfg.Tracer)
			}
			for trial := worker; trial < cfg.Iterations; trial += cfg.Workers {
				if err := gctx.Err(); err != nil {
					return &Error{Code: ErrCodeCanceled, Message: "run canceled", Trial: trial, Err: err}
				}
				v, err := w.trial(cfg.Seed+uint64(trial), cfg.Duration)
				if err != nil {
					return &Error{Code: ErrCodeTrial, Message: "trial failed", Trial: trial, Err: err}
				}
				dps[trial] = v
				slog.Debug("trial finished", "trial", trial, "dps", v)
			}
			snaps[worker] = w.rec.Snapshot()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var snap observe.Snapshot
	for _, s := range snaps {
		snap.Merge(s)
	}
	res := &Result{
		RunID:       cfg.IDs.Generate(),
		Profile:     cfg.Profile.Name,
		ProfileHash: r.hash,
		Seed:        cfg.Seed,
		Iterations:  cfg.Iterations,
		Duration:    cfg.Duration,
		DPS:         summarize(dps),
		Snapshot:    snap,
	}
	slog.Info("run finished", "run_id", res.RunID, "dps_mean", res.DPS.Mean)
	return res, nil
}

func summarize(vals []float64) Summary {
	if len(vals) == 0 {
		return Summary{}
	}
	s := Summary{Min: math.Inf(1), Max: math.Inf(-1)}
	var sum float64
	for _, v := range vals {
		sum += v
		s.Min = min(s.Min, v)
		s.Max = max(s.Max, v)
	}
	s.Mean = sum / float64(len(vals))
	var sq float64
	for _, v := range vals {
		sq += (v - s.Mean) * (v - s.Mean)
	}
	s.StdDev = math.Sqrt(sq / float64(len(vals)))
	return s
}

package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/actionsim/internal/profile"
	"github.com/roach88/actionsim/internal/sim"
	"github.com/roach88/actionsim/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Iterations int
	Duration   time.Duration
	Seed       uint64
	Workers    int
	Database   string

	// IDs allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs sim.IDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <profile.cue>",
		Short: "Simulate a profile over many trials",
		Long: `Run a simulation of the given actor profile.

Each trial reseeds every random stream from --seed plus the trial index,
so a run is reproducible for a given seed regardless of --workers.
With --db the result is saved to a SQLite database for later reports.

Example:
  actionsim run ./profiles/combat.cue
  actionsim run ./profiles/combat.cue --iterations 5000 --duration 6m --seed 42
  actionsim run ./profiles/combat.cue --db ./runs.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Iterations, "iterations", sim.DefaultIterations, "number of trials")
	cmd.Flags().DurationVar(&opts.Duration, "duration", sim.DefaultDuration, "simulated length of each trial")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "base random seed")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "parallel workers (0 = GOMAXPROCS)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "save the result to this SQLite database")

	return cmd
}

func runSimulation(opts *RunOptions, profilePath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	p, err := profile.LoadFile(profilePath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeProfile, "failed to load profile", err)
	}
	formatter.VerboseLog("Loaded profile %s (%d priority entries)", p.Name, len(p.APL))

	runner, err := newRunner(p, opts)
	if err != nil {
		return formatter.Fail(ExitCommandError, runnerErrorCode(err), "failed to prepare run", err)
	}

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := runner.Run(ctx)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeRun, "run failed", err)
	}

	if opts.Database != "" {
		if err := saveRun(ctx, opts.Database, res); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to save run", err)
		}
		formatter.VerboseLog("Saved run %s to %s", res.RunID, opts.Database)
	}

	return formatter.Success(res, renderRun(res))
}

func newRunner(p *profile.Profile, opts *RunOptions) (*sim.Runner, error) {
	return sim.NewRunner(sim.Config{
		Profile:    p,
		Iterations: opts.Iterations,
		Duration:   opts.Duration,
		Seed:       opts.Seed,
		Workers:    opts.Workers,
		IDs:        opts.IDs,
	})
}

func runnerErrorCode(err error) string {
	if sim.IsCode(err, sim.ErrCodePriorityList) {
		return ErrCodePriorityList
	}
	return ErrCodeRun
}

func saveRun(ctx context.Context, path string, res *sim.Result) (err error) {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
			err = errors.Join(err, closeErr)
		}
	}()
	return st.WriteRun(ctx, res)
}

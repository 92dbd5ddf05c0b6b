package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/actionsim/internal/observe"
	"github.com/roach88/actionsim/internal/profile"
	"github.com/roach88/actionsim/internal/sim"
	"github.com/roach88/actionsim/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Duration time.Duration
	Seed     uint64
	Kinds    []string // optional - filter to these event kinds
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <profile.cue>",
		Short: "Print the event timeline of one trial",
		Long: `Run a single short trial of a profile and print every recorded event:
resource gains, procs, effect changes, periodic ticks, and action outcomes.

With --format json each event is one canonical JSON object per line, with
the time in milliseconds. Text format prints one aligned line per event.

Examples:
  actionsim trace ./profiles/combat.cue
  actionsim trace ./profiles/combat.cue --duration 10s --kind proc --kind action
  actionsim trace ./profiles/combat.cue --format json > trial.jsonl`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args[0], cmd)
		},
	}

	cmd.Flags().DurationVar(&opts.Duration, "duration", 30*time.Second, "simulated trial length")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "random seed")
	cmd.Flags().StringSliceVar(&opts.Kinds, "kind", nil, "only print events of this kind (repeatable)")

	return cmd
}

func runTrace(opts *TraceOptions, profilePath string, cmd *cobra.Command) error {
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

	var sink eventSink
	if opts.Format == "json" {
		sink = trace.NewWriter(cmd.OutOrStdout())
	} else {
		sink = &textSink{w: cmd.OutOrStdout()}
	}
	tracer := func(e observe.Event) {
		if len(opts.Kinds) == 0 || slices.Contains(opts.Kinds, e.Kind) {
			sink.Write(e)
		}
	}

	runner, err := sim.NewRunner(sim.Config{
		Profile:    p,
		Iterations: 1,
		Duration:   opts.Duration,
		Seed:       opts.Seed,
		Tracer:     tracer,
	})
	if err != nil {
		return formatter.Fail(ExitCommandError, runnerErrorCode(err), "failed to prepare trial", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := runner.Run(ctx); err != nil {
		_ = sink.Flush()
		return WrapExitError(ExitFailure, "trial failed", err)
	}
	if err := sink.Flush(); err != nil {
		return WrapExitError(ExitCommandError, "failed to write trace", err)
	}
	slog.Info("trace written", "events", sink.Count(), "profile", p.Name)
	return nil
}

type eventSink interface {
	Write(observe.Event)
	Count() int
	Flush() error
}

// textSink prints one line per event: time, kind, name, then sorted fields.
type textSink struct {
	w   io.Writer
	n   int
	err error
}

func (s *textSink) Write(e observe.Event) {
	if s.err != nil {
		return
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]string, len(keys))
	for i, k := range keys {
		fields[i] = fmt.Sprintf("%s=%v", k, trace.Value(e.Fields[k]))
	}
	_, s.err = fmt.Fprintf(s.w, "%9.3fs  %-8s %-24s %s\n",
		e.At.Seconds(), e.Kind, e.Name, strings.Join(fields, " "))
	s.n++
}

func (s *textSink) Count() int { return s.n }

func (s *textSink) Flush() error { return s.err }

package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/actionsim/internal/observe"
	"github.com/roach88/actionsim/internal/sim"
	"github.com/roach88/actionsim/internal/store"
)

// printer groups digits in large counts and damage totals.
var printer = message.NewPrinter(language.English)

// renderRun formats a run result as text tables.
func renderRun(res *sim.Result) string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "run\t%s\n", res.RunID)
	fmt.Fprintf(tw, "profile\t%s (%s)\n", res.Profile, shortHash(res.ProfileHash))
	fmt.Fprintf(tw, "seed\t%d\n", res.Seed)
	printer.Fprintf(tw, "trials\t%d x %s\n", res.Iterations, res.Duration)
	printer.Fprintf(tw, "dps\t%.1f (min %.1f, max %.1f, stddev %.1f)\n",
		res.DPS.Mean, res.DPS.Min, res.DPS.Max, res.DPS.StdDev)
	tw.Flush()

	snap := res.Snapshot
	if len(snap.Actions) > 0 {
		b.WriteString("\nactions\n")
		renderActions(&b, snap, res.Iterations)
	}
	if len(snap.Uptimes) > 0 {
		b.WriteString("\nuptime\n")
		tw = tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		for _, u := range snap.Uptimes {
			fmt.Fprintf(tw, "  %s\t%.1f%%\n", u.Name, 100*u.Ratio())
		}
		tw.Flush()
	}
	if len(snap.Gains) > 0 {
		b.WriteString("\ngains\n")
		tw = tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		for _, g := range snap.Gains {
			printer.Fprintf(tw, "  %s/%s\t%d\t%.0f\twasted %.0f\n", g.Resource, g.Reason, g.Count, g.Actual, g.Wasted)
		}
		tw.Flush()
	}
	if len(snap.Procs) > 0 {
		b.WriteString("\nprocs\n")
		tw = tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		for _, name := range sortedKeys(snap.Procs) {
			printer.Fprintf(tw, "  %s\t%d\n", name, snap.Procs[name])
		}
		tw.Flush()
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderActions(b *strings.Builder, snap observe.Snapshot, iterations int) {
	total := snap.TotalAmount()
	tw := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	for _, a := range snap.Actions {
		share := 0.0
		if total > 0 {
			share = 100 * a.Amount / total
		}
		per := float64(a.Executes) / float64(max(iterations, 1))
		printer.Fprintf(tw, "  %s\t%.1f/trial\t%.0f\t%.1f%%\t%s\n", a.Name, per, a.Amount, share, outcomes(a.Outcomes))
	}
	tw.Flush()
}

// renderRunList formats stored run summaries, newest first.
func renderRunList(runs []store.RunSummary) string {
	if len(runs) == 0 {
		return "No runs stored."
	}
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tRUN\tPROFILE\tSEED\tTRIALS\tDPS")
	for _, r := range runs {
		printer.Fprintf(tw, "%d\t%s\t%s\t%d\t%d x %s\t%.1f\n",
			r.Seq, r.ID, r.Profile, r.Seed, r.Iterations, r.Duration, r.DPS.Mean)
	}
	tw.Flush()
	return strings.TrimRight(b.String(), "\n")
}

func outcomes(m map[string]int) string {
	parts := make([]string, 0, len(m))
	for _, k := range sortedKeys(m) {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, " ")
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

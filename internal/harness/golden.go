package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/actionsim/internal/trace"
)

// Snapshot renders a result as canonical JSON: the op results and the
// trace, keyed by scenario name.
func Snapshot(name string, res *Result) ([]byte, error) {
	ops := make([]any, len(res.Ops))
	for i, or := range res.Ops {
		m := map[string]any{"index": or.Index, "op": or.Op}
		if or.Value != nil {
			m["value"] = canonicalValue(or.Value)
		}
		if or.Panic != "" {
			m["panicked"] = true
		}
		ops[i] = m
	}
	events := make([]any, len(res.Trace))
	for i, ev := range res.Trace {
		events[i] = trace.EventMap(ev)
	}
	return trace.Marshal(map[string]any{
		"scenario": name,
		"ops":      ops,
		"trace":    events,
	})
}

func canonicalValue(v any) any {
	if m, ok := v.(map[string]any); ok {
		out := make(map[string]any, len(m))
		for k, x := range m {
			out[k] = canonicalValue(x)
		}
		return out
	}
	return trace.Value(v)
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the scenario cannot run. A snapshot mismatch fails
// the test through goldie; failed assertions are returned in the result.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	res, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, res); err != nil {
		return nil, err
	}
	return res, nil
}

// AssertGolden compares an already computed result against its golden file.
func AssertGolden(t *testing.T, name string, res *Result) error {
	t.Helper()

	data, err := Snapshot(name, res)
	if err != nil {
		return err
	}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}

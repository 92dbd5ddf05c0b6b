package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalScenario = `
name: minimal
description: one consume
setup:
  pool: {max: 100, regen: 10, initial: 50}
ops:
  - {op: consume, amount: 10}
assertions:
  - {type: pool, value: 40}
`

func TestParseScenario_Minimal(t *testing.T) {
	s, err := ParseScenario([]byte(minimalScenario))
	require.NoError(t, err)

	assert.Equal(t, "minimal", s.Name)
	require.NotNil(t, s.Setup.Pool)
	assert.Equal(t, 50.0, s.Setup.Pool.Initial)
	require.Len(t, s.Ops, 1)
	assert.Equal(t, OpConsume, s.Ops[0].Op)
	assert.Nil(t, s.Ops[0].Expect)
}

func TestParseScenario_UnknownField(t *testing.T) {
	_, err := ParseScenario([]byte(minimalScenario + "extra: true\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{
			name: "missing name",
			yaml: "description: d\nops: [{op: spend}]\nassertions: [{type: points, value: 0}]\nsetup: {points: {cap: 5}}\n",
			msg:  "name is required",
		},
		{
			name: "no ops",
			yaml: "name: n\ndescription: d\nassertions: [{type: points, value: 0}]\n",
			msg:  "ops list is required",
		},
		{
			name: "op without pool",
			yaml: "name: n\ndescription: d\nops: [{op: consume, amount: 1}]\nassertions: [{type: trace_count, kind: gain, count: 0}]\n",
			msg:  "setup.pool is required for consume",
		},
		{
			name: "unknown op",
			yaml: "name: n\ndescription: d\nops: [{op: teleport}]\nassertions: [{type: trace_count, kind: gain, count: 0}]\n",
			msg:  `unknown op "teleport"`,
		},
		{
			name: "unknown effect",
			yaml: "name: n\ndescription: d\nops: [{op: step, effect: ghost}]\nassertions: [{type: trace_count, kind: gain, count: 0}]\n",
			msg:  `unknown effect "ghost"`,
		},
		{
			name: "bad policy",
			yaml: "name: n\ndescription: d\nsetup: {effects: [{name: e, policy: sticky}]}\nops: [{op: trigger, effect: e}]\nassertions: [{type: effect_up, effect: e, value: true}]\n",
			msg:  "setup.effects[0]",
		},
		{
			name: "source scaled",
			yaml: "name: n\ndescription: d\nsetup: {effects: [{name: e, policy: source_scaled}]}\nops: [{op: trigger, effect: e}]\nassertions: [{type: effect_up, effect: e, value: true}]\n",
			msg:  "source_scaled effects cannot be declared",
		},
		{
			name: "forced and values",
			yaml: "name: n\ndescription: d\nsetup: {streams: {s: {forced: always, values: [0.1]}}}\nops: [{op: advance, seconds: 1}]\nassertions: [{type: trace_count, kind: gain, count: 0}]\n",
			msg:  "set forced or values, not both",
		},
		{
			name: "op result out of range",
			yaml: "name: n\ndescription: d\nops: [{op: advance, seconds: 1}]\nassertions: [{type: op_result, op: 3, value: 1}]\n",
			msg:  "op 3 out of range",
		},
		{
			name: "trace order without kind",
			yaml: "name: n\ndescription: d\nops: [{op: advance, seconds: 1}]\nassertions: [{type: trace_order, events: [energy]}]\n",
			msg:  "must be kind:name",
		},
		{
			name: "unknown assertion",
			yaml: "name: n\ndescription: d\nops: [{op: advance, seconds: 1}]\nassertions: [{type: vibes}]\n",
			msg:  `unknown assertion type "vibes"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadDir_SortedByFileName(t *testing.T) {
	scenarios, err := LoadDir("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)
	assert.Equal(t, "pool_consume", scenarios[0].Name)
}

func TestLoadDir_DuplicateName(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"a.yaml", "b.yaml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte(minimalScenario), 0o644))
	}

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `scenario name "minimal" already used`)
}

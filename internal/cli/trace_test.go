package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceJSONLines(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "trace", "--duration", "5s", combatProfile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "gain", first["kind"])
	assert.Equal(t, "energy", first["name"])
	assert.EqualValues(t, 0, first["at_ms"])

	for _, line := range lines {
		var ev map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &ev), line)
		assert.Contains(t, ev, "kind")
	}
}

func TestTraceKindFilter(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "trace", "--duration", "10s", "--kind", "action", combatProfile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		var ev map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &ev))
		assert.Equal(t, "action", ev["kind"])
	}
}

func TestTraceText(t *testing.T) {
	out, _, err := execute(t, "trace", "--duration", "3s", "--kind", "gain", combatProfile)
	require.NoError(t, err)

	first := strings.SplitN(out, "\n", 2)[0]
	assert.True(t, strings.HasPrefix(first, "    0.000s  gain     energy"), first)
	assert.Contains(t, first, "reason=initial")
}

func TestTraceSameSeedSameOutput(t *testing.T) {
	a, _, err := execute(t, "--format", "json", "trace", "--duration", "8s", "--seed", "5", combatProfile)
	require.NoError(t, err)
	b, _, err := execute(t, "--format", "json", "trace", "--duration", "8s", "--seed", "5", combatProfile)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTraceBadProfile(t *testing.T) {
	_, _, err := execute(t, "trace", "/nonexistent/profile.cue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

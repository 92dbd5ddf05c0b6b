package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommandMissingArg(t *testing.T) {
	_, _, err := execute(t, "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestValidateNonExistentProfile(t *testing.T) {
	out, _, err := execute(t, "validate", "/nonexistent/profile.cue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E_NOT_FOUND]: profile not found")
}

func TestValidateValidProfile(t *testing.T) {
	out, _, err := execute(t, "validate", combatProfile)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Profile combat_swords valid (7 priority entries, hash ")
}

func TestValidateValidProfileJSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "validate", writeProfile(t, minimalProfile))
	require.NoError(t, err)

	resp, data := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, true, data["valid"])
	assert.Equal(t, "min", data["profile"])
	assert.EqualValues(t, 1, data["entries"])
	assert.Len(t, data["hash"], 64)
}

func TestValidateUnknownTalent(t *testing.T) {
	path := writeProfile(t, `name: "min"
spec: "combat"
talents: {bogus_talent: 1}
weapons: main_hand: {type: "sword", min: 100, max: 200, speed: 2.6}
apl: [{action: "sinister_strike"}]
`)
	out, _, err := execute(t, "--format", "json", "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp, data := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, false, data["valid"])

	errs, ok := data["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 1)
	first := errs[0].(map[string]any)
	assert.Equal(t, "talents.bogus_talent", first["field"])
	assert.Equal(t, ErrCodeProfile, first["code"])
	assert.EqualValues(t, 3, first["line"])
}

func TestValidateUnknownAction(t *testing.T) {
	path := writeProfile(t, `name: "min"
spec: "combat"
weapons: main_hand: {type: "sword", min: 100, max: 200, speed: 2.6}
apl: [{action: "sinister_strike"}, {action: "teleport"}]
`)
	out, _, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "E_PRIORITY_LIST: apl[1]: teleport:")
}

package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_StableAcrossKeyOrder(t *testing.T) {
	a := map[string]any{"name": "combat", "energy": 100}
	b := map[string]any{"energy": 100, "name": "combat"}

	ha, err := Hash(DomainProfile, a)
	require.NoError(t, err)
	hb, err := Hash(DomainProfile, b)
	require.NoError(t, err)

	assert.Equal(t, ha, hb)
	assert.Len(t, ha, 64)
}

func TestHash_DomainSeparation(t *testing.T) {
	v := map[string]any{"k": "v"}
	hp, err := Hash(DomainProfile, v)
	require.NoError(t, err)
	ht, err := Hash(DomainTrace, v)
	require.NoError(t, err)
	assert.NotEqual(t, hp, ht)
}

func TestHash_Error(t *testing.T) {
	_, err := Hash(DomainTrace, map[string]any{"k": 0.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), DomainTrace)
}

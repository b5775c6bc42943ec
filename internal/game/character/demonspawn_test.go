package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRollDemonicTraits_Deterministic(t *testing.T) {
	g := newGrowth(&seqSource{})
	a := g.RollDemonicTraits(&seqSource{vals: []int{3, 1, 2, 0, 4, 1}})
	b := g.RollDemonicTraits(&seqSource{vals: []int{3, 1, 2, 0, 4, 1}})
	assert.Equal(t, a, b)
}

func TestRollDemonicTraits_NoDuplicates(t *testing.T) {
	g := newGrowth(&seqSource{})
	traits := g.RollDemonicTraits(&seqSource{vals: []int{0, 2, 3, 1, 0, 4, 2, 1}})
	require.NotEmpty(t, traits)

	seen := make(map[string]bool)
	for _, tr := range traits {
		assert.False(t, seen[tr.Mutation], "mutation %q rolled twice", tr.Mutation)
		seen[tr.Mutation] = true
	}
}

func TestRollDemonicTraits_OrderedGainLevels(t *testing.T) {
	g := newGrowth(&seqSource{})
	traits := g.RollDemonicTraits(&seqSource{vals: []int{4, 0, 3, 1, 2, 2}})
	require.NotEmpty(t, traits)
	for i, tr := range traits {
		assert.GreaterOrEqual(t, tr.GainLevel, 2)
		assert.LessOrEqual(t, tr.GainLevel, 27)
		if i > 0 {
			assert.Greater(t, tr.GainLevel, traits[i-1].GainLevel)
		}
	}
}

func TestPropertyRollDemonicTraits_Invariants(t *testing.T) {
	g := newGrowth(&seqSource{})
	rapid.Check(t, func(t *rapid.T) {
		vals := rapid.SliceOfN(rapid.IntRange(0, 100), 2, 16).Draw(t, "vals")
		traits := g.RollDemonicTraits(&seqSource{vals: vals})
		seen := make(map[string]bool)
		last := 1
		for _, tr := range traits {
			require.False(t, seen[tr.Mutation])
			seen[tr.Mutation] = true
			require.Greater(t, tr.GainLevel, last)
			require.LessOrEqual(t, tr.GainLevel, 27)
			last = tr.GainLevel
		}
	})
}

func TestBuild_DemonicTraitsApplyUpToLevel(t *testing.T) {
	g := newGrowth(&seqSource{})
	c, err := g.Build("Morx", "demonspawn")
	require.NoError(t, err)
	// Demonic traits start arriving at experience level 2 at the
	// earliest, so a fresh character has none yet.
	assert.Zero(t, c.Mutations.Len())
}

package character

import (
	"sort"

	"github.com/oubliette-games/oubliette/internal/game/dice"
)

// Demonic trait rolls span this experience-level window.
const (
	demonicTraitCount   = 6
	demonicFirstGainMin = 2
	demonicFinalGainCap = 27
)

// DemonicTrait is one rolled entry of a demonic species' personal trait
// schedule: the trait's mutation and the experience level it arrives at.
type DemonicTrait struct {
	Mutation  string
	GainLevel int
}

// RollDemonicTraits rolls a personal trait schedule from the demonic
// mutation pool: distinct mutations at strictly increasing gain levels.
// The roll is deterministic for a given source.
//
// Postcondition: Traits are ordered by GainLevel; no mutation repeats;
// every GainLevel is within [2, 27].
func (g *Growth) RollDemonicTraits(src dice.Source) []DemonicTrait {
	pool := g.mutations.Demonic()
	count := demonicTraitCount
	if count > len(pool) {
		count = len(pool)
	}
	if count == 0 {
		return nil
	}

	traits := make([]DemonicTrait, 0, count)
	level := dice.Range(src, demonicFirstGainMin, demonicFirstGainMin+4)
	for i := 0; i < count && level <= demonicFinalGainCap; i++ {
		pick := src.Intn(len(pool))
		traits = append(traits, DemonicTrait{
			Mutation:  pool[pick].ID,
			GainLevel: level,
		})
		pool = append(pool[:pick], pool[pick+1:]...)
		level += dice.Range(src, 1, 5)
	}
	sort.SliceStable(traits, func(i, j int) bool {
		return traits[i].GainLevel < traits[j].GainLevel
	})
	return traits
}

// applyDemonicTraits applies every rolled trait that the character's
// experience level has reached, one innate level each.
func (g *Growth) applyDemonicTraits(c *Character, traits []DemonicTrait) {
	for _, tr := range traits {
		if tr.GainLevel > c.Level {
			continue
		}
		def, ok := g.mutations.Get(tr.Mutation)
		if !ok {
			continue
		}
		c.Mutations.Gain(def, 1, true)
	}
}

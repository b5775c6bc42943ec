package character

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oubliette-games/oubliette/internal/game/mutation"
	"github.com/oubliette-games/oubliette/internal/game/species"
)

// Sentinel errors for character construction and species changes.
var (
	ErrEmptyName      = errors.New("character name must not be empty")
	ErrUnknownSpecies = errors.New("unknown species")
	ErrRemovedSpecies = errors.New("species is removed")
)

// Build constructs a new level-1 character of the given species: stats
// from the species stat block, the level-1 innate mutation schedule, a
// demonic trait roll for demonic species, and initial HP/MP.
//
// Precondition: name must be non-empty; speciesID must be registered and
// not removed.
// Postcondition: Returns a Character ready for persistence, or a non-nil
// error.
func (g *Growth) Build(name, speciesID string) (*Character, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	def, ok := g.species.Get(speciesID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpecies, speciesID)
	}
	if g.species.IsRemoved(def) {
		return nil, fmt.Errorf("%w: %q", ErrRemovedSpecies, speciesID)
	}

	now := time.Now()
	c := &Character{
		ID:          uuid.New(),
		Name:        name,
		Species:     def.ID,
		SpeciesName: def.Name,
		Level:       1,
		SkillPoints: make(map[string]int),
		Equipment:   make(map[species.Slot]string),
		Mutations:   mutation.NewSet(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	g.StatInit(c, def)
	g.GiveBasicMutations(c, def)
	if def.IsDemonic() {
		g.applyDemonicTraits(c, g.RollDemonicTraits(g.roller.Source()))
	}
	g.RecalcHP(c, def)
	g.RecalcMP(c, def)
	return c, nil
}

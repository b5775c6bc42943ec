// Package character defines the character domain model, level growth, and
// the species-change transition.
package character

import (
	"time"

	"github.com/google/uuid"

	"github.com/oubliette-games/oubliette/internal/game/mutation"
	"github.com/oubliette-games/oubliette/internal/game/species"
)

// Stats holds the three base stats of a character.
type Stats struct {
	Str int
	Int int
	Dex int
}

// Character represents a player character's persistent state.
//
// AccountID is set by the persistence layer; zero indicates an unsaved
// character. Level is the experience level, starting at 1.
type Character struct {
	ID        uuid.UUID
	AccountID int64

	Name        string
	Species     string // species ID
	SpeciesName string // display name at the time the species was set
	Level       int

	Stats       Stats
	SkillPoints map[string]int          // skill ID -> accumulated points
	Equipment   map[species.Slot]string // slot -> item name; absent = bare
	Mutations   *mutation.Set
	MaxHP       int
	MaxMP       int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stat returns the named base stat ("str", "int", or "dex"), or 0 for an
// unknown name.
func (c *Character) Stat(name string) int {
	switch name {
	case "str":
		return c.Stats.Str
	case "int":
		return c.Stats.Int
	case "dex":
		return c.Stats.Dex
	}
	return 0
}

// ModifyStat adds delta to the named base stat. Unknown names are ignored.
func (c *Character) ModifyStat(name string, delta int) {
	switch name {
	case "str":
		c.Stats.Str += delta
	case "int":
		c.Stats.Int += delta
	case "dex":
		c.Stats.Dex += delta
	}
}

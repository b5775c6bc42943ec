package character

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/oubliette-games/oubliette/internal/game/dice"
	"github.com/oubliette-games/oubliette/internal/game/mutation"
	"github.com/oubliette-games/oubliette/internal/game/species"
)

// Hooks receives growth events. The scripting layer implements this to let
// content scripts customise messages; a nil hook leaves messages unchanged.
type Hooks interface {
	// OnGrowth may replace the message shown when a character gains an
	// innate mutation level. Returning "" keeps the default.
	OnGrowth(c *Character, mutationID string, level int) string
	// OnSpeciesChange fires after a completed species change.
	OnSpeciesChange(c *Character, oldSpecies, newSpecies string)
}

// Growth applies species-driven progression to characters: initial stats,
// level stat gains, the innate mutation schedule, and HP/MP recalculation.
type Growth struct {
	species   *species.Registry
	mutations *mutation.Registry
	roller    *dice.Roller
	hooks     Hooks
	logger    *zap.Logger
}

// NewGrowth creates a Growth service.
//
// Precondition: speciesReg, mutationReg, and roller must be non-nil.
// A nil logger is replaced with a no-op logger.
func NewGrowth(speciesReg *species.Registry, mutationReg *mutation.Registry, roller *dice.Roller, logger *zap.Logger) *Growth {
	if speciesReg == nil {
		panic("character: NewGrowth: species registry must be non-nil")
	}
	if mutationReg == nil {
		panic("character: NewGrowth: mutation registry must be non-nil")
	}
	if roller == nil {
		panic("character: NewGrowth: roller must be non-nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Growth{
		species:   speciesReg,
		mutations: mutationReg,
		roller:    roller,
		logger:    logger,
	}
}

// SetHooks installs the growth event hooks.
func (g *Growth) SetHooks(h Hooks) {
	g.hooks = h
}

// StatInit sets the character's base stats from its species.
func (g *Growth) StatInit(c *Character, def *species.Def) {
	c.Stats = Stats{Str: def.Str, Int: def.Int, Dex: def.Dex}
}

// StatGain gives the character its level stat gain if one is due: on every
// Nth level a random stat from the species level-stat list rises by the
// species stat-gain multiplier.
//
// Postcondition: Returns the name of the raised stat, or "" when no gain
// was due.
func (g *Growth) StatGain(c *Character, def *species.Def) string {
	if len(def.LevelStats) == 0 || def.StatGainEvery == 0 {
		return ""
	}
	if c.Level%def.StatGainEvery != 0 {
		return ""
	}
	stat := def.LevelStats[g.roller.Source().Intn(len(def.LevelStats))]
	c.ModifyStat(stat, def.StatGainMult())
	return stat
}

// GiveBasicMutations applies the species' level-1 schedule rows as innate
// mutations, silently. The schedule level replaces any levels the
// character already had in those mutations.
func (g *Growth) GiveBasicMutations(c *Character, def *species.Def) {
	for _, lm := range def.MutationsAtXL(1) {
		mdef, ok := g.mutations.Get(lm.Mutation)
		if !ok {
			g.logger.Warn("species schedule names unknown mutation",
				zap.String("species", def.ID),
				zap.String("mutation", lm.Mutation))
			continue
		}
		c.Mutations.Override(mdef, lm.Level)
	}
}

// GiveLevelMutations applies the schedule rows for the given experience
// level as innate mutations and returns the messages to show, attributed
// to species growth.
func (g *Growth) GiveLevelMutations(c *Character, def *species.Def, xl int) []string {
	var messages []string
	for _, lm := range def.MutationsAtXL(xl) {
		mdef, ok := g.mutations.Get(lm.Mutation)
		if !ok {
			g.logger.Warn("species schedule names unknown mutation",
				zap.String("species", def.ID),
				zap.String("mutation", lm.Mutation))
			continue
		}
		gained := c.Mutations.Gain(mdef, lm.Level, true)
		if gained == 0 {
			continue
		}
		level := c.Mutations.Level(mdef.ID)
		msg := mdef.GainMessage(level)
		if g.hooks != nil {
			if override := g.hooks.OnGrowth(c, mdef.ID, level); override != "" {
				msg = override
			}
		}
		if msg != "" {
			messages = append(messages, fmt.Sprintf("%s (%s growth)", msg, def.Name))
		}
	}
	return messages
}

// LevelUp raises the character one experience level and applies stat
// gains, scheduled mutations, and the HP/MP recalculation.
//
// Postcondition: Returns the growth messages for the new level, or an
// error if the character's species is unknown.
func (g *Growth) LevelUp(c *Character) ([]string, error) {
	def, ok := g.species.Get(c.Species)
	if !ok {
		return nil, fmt.Errorf("character %q: %w: %q", c.Name, ErrUnknownSpecies, c.Species)
	}
	c.Level++
	var messages []string
	if stat := g.StatGain(c, def); stat != "" {
		messages = append(messages, fmt.Sprintf("Your %s increases.", statName(stat)))
	}
	messages = append(messages, g.GiveLevelMutations(c, def, c.Level)...)
	g.RecalcHP(c, def)
	g.RecalcMP(c, def)
	g.logger.Debug("character levelled up",
		zap.String("character", c.Name),
		zap.Int("level", c.Level),
		zap.Int("max_hp", c.MaxHP))
	return messages, nil
}

// RecalcHP recomputes maximum HP from experience level and the species HP
// modifier, in tenths.
//
// Postcondition: c.MaxHP >= 1.
func (g *Growth) RecalcHP(c *Character, def *species.Def) {
	base := 10 + 4*c.Level + c.Stats.Str/3
	hp := base * (10 + def.HPMod) / 10
	if hp < 1 {
		hp = 1
	}
	c.MaxHP = hp
}

// RecalcMP recomputes maximum MP from experience level and the species MP
// modifier.
//
// Postcondition: c.MaxMP >= 0.
func (g *Growth) RecalcMP(c *Character, def *species.Def) {
	mp := 4 + c.Level/2 + def.MPMod
	if mp < 0 {
		mp = 0
	}
	c.MaxMP = mp
}

func statName(stat string) string {
	switch stat {
	case "str":
		return "strength"
	case "int":
		return "intelligence"
	case "dex":
		return "dexterity"
	}
	return stat
}

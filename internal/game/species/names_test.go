package species_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oubliette-games/oubliette/internal/game/species"
)

func TestDef_DisplayName_Fallbacks(t *testing.T) {
	d := human()
	assert.Equal(t, "Human", d.DisplayName(species.NamePlain))
	assert.Equal(t, "Human", d.DisplayName(species.NameAdjective))
	assert.Equal(t, "Human", d.DisplayName(species.NameGenus))

	red := redDraconian()
	red.Genus = "Draconian"
	assert.Equal(t, "Red Draconian", red.DisplayName(species.NamePlain))
	assert.Equal(t, "Draconian", red.DisplayName(species.NameGenus))

	elf := human()
	elf.Name = "Deep Elf"
	elf.Adjective = "Deep Elven"
	elf.Genus = "Elf"
	assert.Equal(t, "Deep Elven", elf.DisplayName(species.NameAdjective))
	assert.Equal(t, "Elf", elf.DisplayName(species.NameGenus))
}

func TestDef_Walking_Default(t *testing.T) {
	assert.Equal(t, "Walk", human().Walking())
	assert.Equal(t, "Saunter", felid().Walking())
}

func TestDef_Prayer_Default(t *testing.T) {
	assert.Equal(t, "kneel at", human().Prayer())
	assert.Equal(t, "sit before", felid().Prayer())
}

func TestDef_SkinName(t *testing.T) {
	assert.Equal(t, "fleshy", human().SkinName(true))
	assert.Equal(t, "skin", human().SkinName(false))

	assert.Equal(t, "scaled", redDraconian().SkinName(true))
	assert.Equal(t, "scales", redDraconian().SkinName(false))

	assert.Equal(t, "rubbery", octopode().SkinName(true))
}

func TestDef_ShoutVerb_DefaultTable(t *testing.T) {
	src := &seqSource{}
	d := human()
	assert.Equal(t, "shout", d.ShoutVerb(src, 0, false))
	assert.Equal(t, "yell", d.ShoutVerb(src, 1, false))
	assert.Equal(t, "scream", d.ShoutVerb(src, 2, false))
}

func TestDef_ShoutVerb_ClampsScreaminess(t *testing.T) {
	src := &seqSource{}
	d := human()
	assert.Equal(t, "shout", d.ShoutVerb(src, -3, false))
	assert.Equal(t, "scream", d.ShoutVerb(src, 9, false))
}

func TestDef_ShoutVerb_FelineHissesWhenDirected(t *testing.T) {
	src := &seqSource{}
	d := felid()
	assert.Equal(t, "hiss", d.ShoutVerb(src, 0, true))
	assert.Equal(t, "meow", d.ShoutVerb(src, 0, false))
	assert.Equal(t, "caterwaul", d.ShoutVerb(src, 2, true))
}

func TestDef_ShoutVerb_CanineGrowlIsCoinflip(t *testing.T) {
	d := human()
	d.ShoutKind = species.ShoutCanine
	assert.Equal(t, "growl", d.ShoutVerb(&seqSource{vals: []int{0}}, 0, true))
	assert.Equal(t, "bark", d.ShoutVerb(&seqSource{vals: []int{1}}, 0, true))
}

func TestDef_ArmName(t *testing.T) {
	assert.Equal(t, "arm", human().ArmName())
	assert.Equal(t, "tentacle", octopode().ArmName())
	assert.Equal(t, "leg", felid().ArmName())
}

func TestDef_HandName_Precedence(t *testing.T) {
	assert.Equal(t, "hand", human().HandName())
	assert.Equal(t, "tentacle", octopode().HandName())
	// Felids have both paws and claws; paws win.
	assert.Equal(t, "paw", felid().HandName())

	troll := human()
	troll.Mutations = []species.LevelMutation{
		{Mutation: "claws", Level: 1, AtXL: 1},
	}
	assert.Equal(t, "claw", troll.HandName())
}

package species

import (
	"github.com/oubliette-games/oubliette/internal/game/dice"
	"github.com/oubliette-games/oubliette/internal/game/mutation"
)

// DisplayName returns the requested name form for the species. The
// adjective and genus forms fall back to the plain name when not defined.
func (d *Def) DisplayName(kind NameType) string {
	switch kind {
	case NameGenus:
		if d.Genus != "" {
			return d.Genus
		}
	case NameAdjective:
		if d.Adjective != "" {
			return d.Adjective
		}
	}
	return d.Name
}

// Walking returns the word for the species' walking-like movement, a verb
// stem to which "-er" or "-ing" can be appended.
func (d *Def) Walking() string {
	if d.WalkingVerb != "" {
		return d.WalkingVerb
	}
	return "Walk"
}

// Prayer returns the action performed at an altar, to be inserted into
// "You %s the altar of ...".
func (d *Def) Prayer() string {
	if d.AltarAction != "" {
		return d.AltarAction
	}
	return "kneel at"
}

// SkinName returns an adjective (adj true) or a noun (adj false) for the
// species' skin. Nouns are pluralised when they are count nouns.
func (d *Def) SkinName(adj bool) string {
	if adj && d.SkinAdj != "" {
		return d.SkinAdj
	}
	if !adj && d.SkinNoun != "" {
		return d.SkinNoun
	}
	if d.HasFlag(FlagDraconian) {
		if adj {
			return "scaled"
		}
		return "scales"
	}
	if adj {
		return "fleshy"
	}
	return "skin"
}

var shoutTables = map[ShoutKind][3]string{
	ShoutDefault: {"shout", "yell", "scream"},
	ShoutFeline:  {"meow", "yowl", "caterwaul"},
	ShoutFrog:    {"croak", "ribbit", "bellow"},
	ShoutCanine:  {"bark", "howl", "screech"},
}

// ShoutVerb returns the verb describing the species shouting at the given
// loudness (0..2, clamped). Quiet directed shouts can differ: felines
// hiss at a target rather than meow, and canines sometimes growl.
//
// Precondition: src must be non-nil.
func (d *Def) ShoutVerb(src dice.Source, screaminess int, directed bool) string {
	if screaminess < 0 {
		screaminess = 0
	}
	if screaminess > 2 {
		screaminess = 2
	}
	kind := d.ShoutKind
	if kind == "" {
		kind = ShoutDefault
	}
	if screaminess == 0 && directed {
		switch kind {
		case ShoutFeline:
			return "hiss"
		case ShoutCanine:
			if dice.Coinflip(src) {
				return "growl"
			}
		}
	}
	return shoutTables[kind][screaminess]
}

// ArmName returns the noun for the species' arm-like limbs.
func (d *Def) ArmName() string {
	if d.HasMutation(mutation.IDTentacleArms) {
		return "tentacle"
	}
	if d.HasMutation(mutation.IDPaws) {
		return "leg"
	}
	return "arm"
}

// HandName returns the noun for the species' hand-like appendages. Paws
// win over claws for species that have both.
func (d *Def) HandName() string {
	if d.HasMutation(mutation.IDPaws) {
		return "paw"
	}
	if d.HasMutation(mutation.IDTentacleArms) {
		return "tentacle"
	}
	if d.HasMutation(mutation.IDClaws) {
		return "claw"
	}
	return "hand"
}

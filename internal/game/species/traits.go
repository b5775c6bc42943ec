package species

import "github.com/oubliette-games/oubliette/internal/game/mutation"

// UndeadType returns where the species falls on the undead spectrum.
func (d *Def) UndeadType() UndeadState {
	if d.Undead == "" {
		return UndeadNone
	}
	return d.Undead
}

// IsUndead reports whether the species is any kind of undead.
func (d *Def) IsUndead() bool {
	return d.UndeadType() != UndeadNone
}

// CanSwim reports whether the species lives in water.
func (d *Def) CanSwim() bool {
	return d.Habitat == HabitatWater
}

// LikesWater reports whether the species is at home in deep water: aquatic
// or amphibious species, and the fully unbreathing.
func (d *Def) LikesWater() bool {
	return d.CanSwim() ||
		d.Habitat == HabitatAmphibious ||
		d.MutationXL(mutation.IDUnbreathing, 2) > 0
}

// IsUnbreathing reports whether the species ever gains the unbreathing
// mutation innately.
func (d *Def) IsUnbreathing() bool {
	return d.HasMutation(mutation.IDUnbreathing)
}

// HasClaws reports whether the species has exactly one innate claw level,
// the kind that still fits inside gloves.
func (d *Def) HasClaws() bool {
	total := 0
	for _, lm := range d.Mutations {
		if lm.Mutation == mutation.IDClaws {
			total += lm.Level
		}
	}
	return total == 1
}

// WearsBarding reports whether the species wears barding in place of
// boots.
func (d *Def) WearsBarding() bool {
	return d.HasFlag(FlagSmallTorso)
}

// HasHair reports whether the species has hair to raise on end.
func (d *Def) HasHair() bool {
	return !d.HasFlag(FlagNoHair) && !d.HasFlag(FlagDraconian)
}

// HasBones reports whether the species leaves a skeleton behind.
func (d *Def) HasBones() bool {
	return !d.HasFlag(FlagNoBones)
}

// IsDraconian reports whether the species belongs to the draconian genus.
func (d *Def) IsDraconian() bool {
	return d.HasFlag(FlagDraconian)
}

// IsElven reports whether the species counts as elven.
func (d *Def) IsElven() bool {
	return d.HasFlag(FlagElven)
}

// IsOrcish reports whether the species counts as orcish.
func (d *Def) IsOrcish() bool {
	return d.HasFlag(FlagOrcish)
}

// IsDemonic reports whether the species rolls random demonic traits.
func (d *Def) IsDemonic() bool {
	return d.HasFlag(FlagDemonic)
}

// BodySize returns the species size for the given body part. A
// small-torso species has a torso one size step below its body.
func (d *Def) BodySize(part SizePart) Size {
	if part == PartTorso && d.HasFlag(FlagSmallTorso) {
		return d.Size - 1
	}
	return d.Size
}

// CanThrowLargeRocks reports whether the species is big enough to throw
// large rocks.
func (d *Def) CanThrowLargeRocks() bool {
	return d.Size >= SizeLarge
}

// ArmCount returns the number of arm-like limbs: eight for eight-armed
// species, two for everyone else.
func (d *Def) ArmCount() int {
	if d.HasFlag(FlagEightArmed) {
		return 8
	}
	return 2
}

// HasLowStr reports whether the species starts with dexterity at or above
// strength, i.e. is relatively weak.
func (d *Def) HasLowStr() bool {
	return d.Dex >= d.Str
}

// StatGainMult returns the multiplier applied to level stat gains.
func (d *Def) StatGainMult() int {
	if d.StatGainMultiplier <= 0 {
		return 1
	}
	return d.StatGainMultiplier
}

// MutationXL returns the first experience level at which the species'
// innate mutation schedule reaches minLevel total levels of the mutation,
// or 0 if it never does. Schedule rows are ordered by experience level.
func (d *Def) MutationXL(mut string, minLevel int) int {
	total := 0
	for _, lm := range d.Mutations {
		if lm.Mutation != mut {
			continue
		}
		total += lm.Level
		if total >= minLevel {
			return lm.AtXL
		}
	}
	return 0
}

// HasMutation reports whether the species ever gains the mutation
// innately.
func (d *Def) HasMutation(mut string) bool {
	return d.MutationXL(mut, 1) > 0
}

// MutationsAtXL returns the schedule rows that fire at exactly the given
// experience level.
func (d *Def) MutationsAtXL(xl int) []LevelMutation {
	var out []LevelMutation
	for _, lm := range d.Mutations {
		if lm.AtXL == xl {
			out = append(out, lm)
		}
	}
	return out
}

// RecommendsJob reports whether the job is a recommended starting choice
// for the species.
func (d *Def) RecommendsJob(job string) bool {
	for _, j := range d.RecommendedJobs {
		if j == job {
			return true
		}
	}
	return false
}

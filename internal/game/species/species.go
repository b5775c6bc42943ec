// Package species defines the static per-species data table and the derived
// traits computed from it: display names and verb forms, equipment slot
// rules, innate mutation schedules, stat blocks, and skill aptitudes.
package species

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// NameType selects which display name form to return.
type NameType int

// Name forms. Adjective and genus fall back to the plain name when a
// species defines neither.
const (
	NamePlain NameType = iota
	NameAdjective
	NameGenus
)

// UndeadState places a species on the undead spectrum.
type UndeadState string

// Undead states.
const (
	UndeadNone UndeadState = "alive"
	UndeadSemi UndeadState = "semi_undead"
	UndeadFull UndeadState = "undead"
)

// Habitat describes where a species can live and breathe.
type Habitat string

// Habitats.
const (
	HabitatLand       Habitat = "land"
	HabitatAmphibious Habitat = "amphibious"
	HabitatWater      Habitat = "water"
)

// Size is an ordered creature size category.
type Size int

// Size categories, smallest to largest. The zero value is reserved so a
// missing size field fails validation instead of silently meaning tiny.
const (
	SizeTiny Size = iota + 1
	SizeLittle
	SizeSmall
	SizeMedium
	SizeLarge
	SizeGiant
)

var sizeNames = map[Size]string{
	SizeTiny:   "tiny",
	SizeLittle: "little",
	SizeSmall:  "small",
	SizeMedium: "medium",
	SizeLarge:  "large",
	SizeGiant:  "giant",
}

// ParseSize converts a size name to a Size.
//
// Postcondition: Returns the Size or an error for unknown names.
func ParseSize(name string) (Size, error) {
	for s, n := range sizeNames {
		if n == name {
			return s, nil
		}
	}
	return SizeMedium, fmt.Errorf("species: unknown size %q", name)
}

// String returns the size name.
func (s Size) String() string {
	if n, ok := sizeNames[s]; ok {
		return n
	}
	return fmt.Sprintf("size(%d)", int(s))
}

// UnmarshalYAML decodes a size from its YAML name.
func (s *Size) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseSize(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalYAML encodes a size as its name.
func (s Size) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// SizePart selects which part of the body a size query is about.
type SizePart int

// Size parts. A small-torso species has a torso one size step below its
// body size (it rides-sized barding instead of boots, etc.).
const (
	PartBody SizePart = iota
	PartTorso
)

// Species flags. Stored as strings in YAML; unknown flags are rejected at
// load time.
const (
	FlagDraconian  = "draconian"   // member of the draconian genus
	FlagSmallTorso = "small_torso" // torso one size smaller; wears barding
	FlagNoHair     = "no_hair"
	FlagNoBones    = "no_bones"
	FlagEightArmed = "eight_armed" // eight ring slots, almost no armour
	FlagElven      = "elven"
	FlagOrcish     = "orcish"
	FlagDemonic    = "demonic" // rolls random demonic traits on creation
)

var knownFlags = map[string]bool{
	FlagDraconian:  true,
	FlagSmallTorso: true,
	FlagNoHair:     true,
	FlagNoBones:    true,
	FlagEightArmed: true,
	FlagElven:      true,
	FlagOrcish:     true,
	FlagDemonic:    true,
}

// ShoutKind selects the shout verb table for a species.
type ShoutKind string

// Shout verb tables.
const (
	ShoutDefault ShoutKind = "default"
	ShoutFeline  ShoutKind = "feline"
	ShoutFrog    ShoutKind = "frog"
	ShoutCanine  ShoutKind = "canine"
)

// LevelMutation is one row of a species' innate mutation schedule: the
// species gains Level additional levels of the mutation at experience
// level AtXL.
type LevelMutation struct {
	Mutation string `yaml:"mutation"`
	Level    int    `yaml:"level"`
	AtXL     int    `yaml:"at_xl"`
}

// FakeMutation is a display-only trait line shown on the mutation screen
// but not backed by a real mutation.
type FakeMutation struct {
	Terse   string `yaml:"terse"`
	Verbose string `yaml:"verbose"`
}

// Def is the static definition of one species, loaded from YAML.
//
// Precondition: ID, Abbrev, and Name must be non-empty after loading;
// Mutations must be ordered by AtXL. Use Validate to check.
type Def struct {
	ID        string `yaml:"id"`
	Abbrev    string `yaml:"abbrev"`
	Name      string `yaml:"name"`
	Adjective string `yaml:"adjective"` // "" = use Name
	Genus     string `yaml:"genus"`     // "" = use Name

	WalkingVerb string    `yaml:"walking_verb"` // "" = "Walk"
	AltarAction string    `yaml:"altar_action"` // "" = "kneel at"
	ShoutKind   ShoutKind `yaml:"shout_kind"`   // "" = default table
	SkinAdj     string    `yaml:"skin_adjective"`
	SkinNoun    string    `yaml:"skin_noun"`

	Flags   []string    `yaml:"flags"`
	Undead  UndeadState `yaml:"undead_state"` // "" = alive
	Habitat Habitat     `yaml:"habitat"`      // "" = land
	Size    Size        `yaml:"size"`

	XPMod int `yaml:"xp_mod"`
	HPMod int `yaml:"hp_mod"`
	MPMod int `yaml:"mp_mod"`
	WLMod int `yaml:"wl_mod"` // willpower per experience level

	Str int `yaml:"str"`
	Int int `yaml:"int"`
	Dex int `yaml:"dex"`

	LevelStats         []string `yaml:"level_stats"`     // stats eligible for level gains
	StatGainEvery      int      `yaml:"stat_gain_every"` // gain on every Nth level; 0 = never
	StatGainMultiplier int      `yaml:"stat_gain_multiplier"` // 0 = 1

	Aptitudes map[string]int  `yaml:"aptitudes"`
	Mutations []LevelMutation `yaml:"mutations"`

	RecommendedJobs    []string `yaml:"recommended_jobs"`
	RecommendedWeapons []string `yaml:"recommended_weapons"` // weapon skill ids

	MonsterForm   string         `yaml:"monster_form"`
	FakeMutations []FakeMutation `yaml:"fake_mutations"`

	// Draconian colour data; only valid on draconian-flagged species.
	Scales        string `yaml:"scales"`      // scale colour adjective, e.g. "fiery red"
	Breath        string `yaml:"breath"`      // breath ability id; "" = no breath
	DragonForm    string `yaml:"dragon_form"` // dragon-form monster id
	BaseDraconian bool   `yaml:"base_draconian"`

	Removed bool `yaml:"removed"`
}

// HasFlag reports whether the species carries the given flag.
func (d *Def) HasFlag(flag string) bool {
	for _, f := range d.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Validate checks the definition invariants.
//
// Postcondition: Returns nil if the definition is well-formed, or an error
// describing the first violation.
func (d *Def) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("species: definition missing id")
	}
	if d.Name == "" {
		return fmt.Errorf("species %q: missing name", d.ID)
	}
	if d.Abbrev == "" {
		return fmt.Errorf("species %q: missing abbrev", d.ID)
	}
	for _, f := range d.Flags {
		if !knownFlags[f] {
			return fmt.Errorf("species %q: unknown flag %q", d.ID, f)
		}
	}
	switch d.Undead {
	case "", UndeadNone, UndeadSemi, UndeadFull:
	default:
		return fmt.Errorf("species %q: unknown undead_state %q", d.ID, d.Undead)
	}
	switch d.Habitat {
	case "", HabitatLand, HabitatAmphibious, HabitatWater:
	default:
		return fmt.Errorf("species %q: unknown habitat %q", d.ID, d.Habitat)
	}
	switch d.ShoutKind {
	case "", ShoutDefault, ShoutFeline, ShoutFrog, ShoutCanine:
	default:
		return fmt.Errorf("species %q: unknown shout_kind %q", d.ID, d.ShoutKind)
	}
	prevXL := 0
	for i, lm := range d.Mutations {
		if lm.Mutation == "" {
			return fmt.Errorf("species %q: mutation schedule row %d missing mutation id", d.ID, i)
		}
		if lm.Level < 1 {
			return fmt.Errorf("species %q: mutation %q has level %d, must be >= 1", d.ID, lm.Mutation, lm.Level)
		}
		if lm.AtXL < 1 {
			return fmt.Errorf("species %q: mutation %q at_xl %d, must be >= 1", d.ID, lm.Mutation, lm.AtXL)
		}
		if lm.AtXL < prevXL {
			return fmt.Errorf("species %q: mutation schedule not ordered by at_xl (row %d)", d.ID, i)
		}
		prevXL = lm.AtXL
	}
	if !d.HasFlag(FlagDraconian) && (d.Scales != "" || d.Breath != "" || d.DragonForm != "" || d.BaseDraconian) {
		return fmt.Errorf("species %q: draconian colour data on a non-draconian species", d.ID)
	}
	if d.StatGainEvery < 0 {
		return fmt.Errorf("species %q: stat_gain_every must be >= 0", d.ID)
	}
	if _, ok := sizeNames[d.Size]; !ok {
		return fmt.Errorf("species %q: missing or invalid size", d.ID)
	}
	return nil
}

package species

// Draconian colour data. The base draconian carries none of these; a
// colour's def fills in its scales, breath and transformation.

// ScaleColour returns the adjective used for the colour's scales, or ""
// for the base draconian and non-draconians.
func (d *Def) ScaleColour() string {
	if !d.HasFlag(FlagDraconian) {
		return ""
	}
	return d.Scales
}

// BreathAbility returns the id of the colour's breath attack, or "" when
// the species has none.
func (d *Def) BreathAbility() string {
	if !d.HasFlag(FlagDraconian) {
		return ""
	}
	return d.Breath
}

// DragonFormKind returns the dragon the species turns into under a
// dragon-form transformation. Draconian colours may override it; every
// other species becomes a fire dragon.
func (d *Def) DragonFormKind() string {
	if d.HasFlag(FlagDraconian) && d.DragonForm != "" {
		return d.DragonForm
	}
	return "fire_dragon"
}

// IsBaseDraconian reports whether the species is the uncoloured draconian
// that juveniles start as before their colour reveals.
func (d *Def) IsBaseDraconian() bool {
	return d.HasFlag(FlagDraconian) && d.BaseDraconian
}

package species

import "math"

// Aptitude returns the species' modifier for the skill. Missing entries
// are 0, the human baseline.
func (d *Def) Aptitude(skill string) int {
	return d.Aptitudes[skill]
}

// AptitudeFactor converts a skill aptitude into the multiplier applied to
// skill experience. Each +4 of aptitude doubles the rate.
//
// Postcondition: result > 0.
func (d *Def) AptitudeFactor(skill string) float64 {
	return math.Pow(2, float64(d.Aptitude(skill))/4)
}

// weaponSkill maps a weapon id to the skill that trains it. Thrown
// weapons train throwing and unarmed attacks train unarmed combat.
var weaponSkill = map[string]string{
	"thrown":        "throwing",
	"unarmed":       "unarmed_combat",
	"dagger":        "short_blades",
	"short_sword":   "short_blades",
	"rapier":        "short_blades",
	"long_sword":    "long_blades",
	"scimitar":      "long_blades",
	"falchion":      "long_blades",
	"hand_axe":      "axes",
	"war_axe":       "axes",
	"mace":          "maces_flails",
	"flail":         "maces_flails",
	"spear":         "polearms",
	"trident":       "polearms",
	"quarterstaff":  "staves",
	"sling":         "ranged_weapons",
	"shortbow":      "ranged_weapons",
	"hand_crossbow": "ranged_weapons",
}

// RecommendsWeapon reports whether the weapon trains one of the species'
// recommended weapon skills. Weapons with no known skill mapping are
// never recommended.
func (d *Def) RecommendsWeapon(weapon string) bool {
	skill, ok := weaponSkill[weapon]
	if !ok {
		return false
	}
	for _, s := range d.RecommendedWeapons {
		if s == skill {
			return true
		}
	}
	return false
}

// RecommendedWeaponSkills returns the weapon skills the species is
// recommended to train, in content order.
func (d *Def) RecommendedWeaponSkills() []string {
	return d.RecommendedWeapons
}

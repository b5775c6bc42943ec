package handlers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oubliette-games/oubliette/internal/frontend/telnet"
	"github.com/oubliette-games/oubliette/internal/game/character"
	"github.com/oubliette-games/oubliette/internal/game/species"
)

// RenderSpeciesList formats the species catalog as colored Telnet text.
// Starting species come first, then removed ones dimmed at the bottom.
func RenderSpeciesList(reg *species.Registry) string {
	var b strings.Builder

	b.WriteString("\r\n")
	b.WriteString(telnet.Colorize(telnet.BrightYellow, "Species"))
	b.WriteString("\r\n")
	for _, d := range reg.All() {
		if reg.IsRemoved(d) {
			continue
		}
		b.WriteString(fmt.Sprintf("  %s%-2s%s %s%-16s%s %s\r\n",
			telnet.BrightCyan, d.Abbrev, telnet.Reset,
			telnet.White, d.Name, telnet.Reset,
			speciesTagline(d)))
	}

	removed := false
	for _, d := range reg.All() {
		if !reg.IsRemoved(d) {
			continue
		}
		if !removed {
			b.WriteString(telnet.Colorize(telnet.Dim, "Removed:"))
			b.WriteString("\r\n")
			removed = true
		}
		b.WriteString(telnet.Colorf(telnet.Dim, "  %-2s %s", d.Abbrev, d.Name))
		b.WriteString("\r\n")
	}

	return b.String()
}

// speciesTagline summarizes a species in a few words for the catalog.
func speciesTagline(d *species.Def) string {
	var tags []string
	if d.IsUndead() {
		tags = append(tags, string(d.UndeadType()))
	}
	if d.Size != species.SizeMedium {
		tags = append(tags, d.Size.String())
	}
	if d.CanSwim() {
		tags = append(tags, "amphibious")
	}
	if d.IsDraconian() && !d.IsBaseDraconian() {
		tags = append(tags, d.ScaleColour()+" scales")
	}
	if len(tags) == 0 {
		return ""
	}
	return telnet.Colorize(telnet.Dim, strings.Join(tags, ", "))
}

// RenderSpeciesInfo formats one species definition as colored Telnet text.
func RenderSpeciesInfo(d *species.Def, reg *species.Registry) string {
	var b strings.Builder

	b.WriteString("\r\n")
	b.WriteString(telnet.Colorf(telnet.BrightYellow, "%s (%s)", d.Name, d.Abbrev))
	b.WriteString("\r\n")

	b.WriteString(telnet.Colorf(telnet.Cyan,
		"Size: %s  Undead: %s  Habitat: %s", d.BodySize(species.PartBody), d.UndeadType(), habitat(d)))
	b.WriteString("\r\n")
	b.WriteString(telnet.Colorf(telnet.Cyan,
		"XP %+d  HP %+d  MP %+d  WL %d", d.XPMod, d.HPMod, d.MPMod, d.WLMod))
	b.WriteString("\r\n")
	b.WriteString(telnet.Colorf(telnet.Cyan,
		"Str %d  Int %d  Dex %d", d.Str, d.Int, d.Dex))
	b.WriteString("\r\n")

	if len(d.Mutations) > 0 {
		b.WriteString(telnet.Colorize(telnet.Green, "Innate mutations:"))
		b.WriteString("\r\n")
		for _, lm := range d.Mutations {
			atXL := lm.AtXL
			if atXL == 0 {
				atXL = 1
			}
			b.WriteString(fmt.Sprintf("  %s%-16s%s level %d at XL %d\r\n",
				telnet.BrightGreen, lm.Mutation, telnet.Reset, lm.Level, atXL))
		}
	}

	for _, fm := range d.FakeMutations {
		b.WriteString(telnet.Colorf(telnet.Dim, "  %s", fm.Terse))
		b.WriteString("\r\n")
	}

	if len(d.Aptitudes) > 0 {
		skills := make([]string, 0, len(d.Aptitudes))
		for skill := range d.Aptitudes {
			skills = append(skills, skill)
		}
		sort.Strings(skills)
		b.WriteString(telnet.Colorize(telnet.Green, "Aptitudes:"))
		b.WriteString("\r\n")
		for _, skill := range skills {
			b.WriteString(fmt.Sprintf("  %s%-16s%s %+d\r\n",
				telnet.White, skill, telnet.Reset, d.Aptitude(skill)))
		}
	}

	if len(d.RecommendedJobs) > 0 {
		b.WriteString(telnet.Colorf(telnet.Yellow, "Recommended jobs: %s", strings.Join(d.RecommendedJobs, ", ")))
		b.WriteString("\r\n")
	}
	if weapons := d.RecommendedWeaponSkills(); len(weapons) > 0 {
		b.WriteString(telnet.Colorf(telnet.Yellow, "Recommended weapons: %s", strings.Join(weapons, ", ")))
		b.WriteString("\r\n")
	}

	if d.IsDraconian() {
		if d.IsBaseDraconian() {
			b.WriteString(telnet.Colorize(telnet.Magenta, "Base draconian: colour emerges at XL 7."))
		} else {
			b.WriteString(telnet.Colorf(telnet.Magenta, "Scales: %s  Breath: %s  Dragon form: %s",
				d.ScaleColour(), d.BreathAbility(), d.DragonFormKind()))
		}
		b.WriteString("\r\n")
	}

	if reg.IsRemoved(d) {
		b.WriteString(telnet.Colorize(telnet.Red, "This species has been removed and cannot be played."))
		b.WriteString("\r\n")
	}

	return b.String()
}

func habitat(d *species.Def) string {
	if d.Habitat == "" {
		return string(species.HabitatLand)
	}
	return string(d.Habitat)
}

// RenderSpeciesSlots formats the equipment slots usable by a species.
func RenderSpeciesSlots(d *species.Def) string {
	var b strings.Builder

	b.WriteString("\r\n")
	b.WriteString(telnet.Colorf(telnet.BrightYellow, "Equipment slots for %s", d.Name))
	b.WriteString("\r\n")
	for _, slot := range species.AllSlots() {
		if d.BansSlot(slot) {
			b.WriteString(fmt.Sprintf("  %s%-12s banned%s\r\n", telnet.Dim, slot, telnet.Reset))
			continue
		}
		b.WriteString(fmt.Sprintf("  %s%-12s%s usable\r\n", telnet.BrightCyan, slot, telnet.Reset))
	}
	b.WriteString(telnet.Colorf(telnet.Cyan, "Arms: %d  Rings: %d", d.ArmCount(), len(d.RingSlots(false))))
	b.WriteString("\r\n")

	return b.String()
}

// RenderCharacter formats a character sheet as colored Telnet text.
func RenderCharacter(c *character.Character, reg *species.Registry) string {
	var b strings.Builder

	b.WriteString("\r\n")
	b.WriteString(telnet.Colorf(telnet.BrightYellow, "%s the %s", c.Name, c.SpeciesName))
	b.WriteString("\r\n")
	b.WriteString(telnet.Colorf(telnet.Cyan, "Level %d  HP %d  MP %d", c.Level, c.MaxHP, c.MaxMP))
	b.WriteString("\r\n")
	b.WriteString(telnet.Colorf(telnet.Cyan, "Str %d  Int %d  Dex %d", c.Stats.Str, c.Stats.Int, c.Stats.Dex))
	b.WriteString("\r\n")

	if states := c.Mutations.All(); len(states) > 0 {
		b.WriteString(telnet.Colorize(telnet.Green, "Mutations:"))
		b.WriteString("\r\n")
		for _, st := range states {
			origin := ""
			if st.Innate > 0 {
				origin = telnet.Colorize(telnet.Dim, " (innate)")
			}
			b.WriteString(fmt.Sprintf("  %s%-16s%s level %d%s\r\n",
				telnet.BrightGreen, st.ID, telnet.Reset, st.Level, origin))
		}
	}

	if len(c.Equipment) > 0 {
		b.WriteString(telnet.Colorize(telnet.Yellow, "Equipment:"))
		b.WriteString("\r\n")
		for _, slot := range species.AllSlots() {
			item, ok := c.Equipment[slot]
			if !ok {
				continue
			}
			b.WriteString(fmt.Sprintf("  %s%-12s%s %s\r\n",
				telnet.BrightCyan, slot, telnet.Reset, item))
		}
	}

	if len(c.SkillPoints) > 0 {
		skills := make([]string, 0, len(c.SkillPoints))
		for skill := range c.SkillPoints {
			skills = append(skills, skill)
		}
		sort.Strings(skills)
		b.WriteString(telnet.Colorize(telnet.White, "Skill points:"))
		b.WriteString("\r\n")
		for _, skill := range skills {
			b.WriteString(fmt.Sprintf("  %s%-16s%s %d\r\n",
				telnet.White, skill, telnet.Reset, c.SkillPoints[skill]))
		}
	}

	if d, ok := reg.Get(c.Species); ok {
		if next := d.MutationsAtXL(c.Level + 1); len(next) > 0 {
			names := make([]string, 0, len(next))
			for _, lm := range next {
				names = append(names, lm.Mutation)
			}
			b.WriteString(telnet.Colorf(telnet.Dim, "Next level grants: %s", strings.Join(names, ", ")))
			b.WriteString("\r\n")
		}
	}

	return b.String()
}

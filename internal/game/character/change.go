package character

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/oubliette-games/oubliette/internal/game/species"
)

// ChangeReport describes the side effects of a species change.
type ChangeReport struct {
	OldSpecies string
	NewSpecies string

	// Dropped lists the slots whose equipment fell away because the new
	// species cannot use them, in canonical slot order.
	Dropped []species.Slot
	// DemonicTraits is the rolled trait schedule for demonic species,
	// empty otherwise.
	DemonicTraits []DemonicTrait
	// Messages holds the growth messages produced while reapplying the
	// new species' mutation schedule.
	Messages []string
}

// ChangeSpecies changes the character to a different species in place.
//
// Skill points are rescaled by the ratio of aptitude factors. Innate
// mutation levels are removed and the new species' schedule is reapplied
// up to the current experience level; mutation levels acquired through
// play take precedence over the reapplied innate ones. Demonic species
// roll a fresh trait schedule. When exactly one of the two species is
// eight-armed, the paired ring slots swap with the first two numbered
// ones, and any equipment the new species cannot wear falls away.
//
// Precondition: c must be non-nil with a registered species; newID must be
// registered. Removed species are accepted, matching the original wizard
// operation.
// Postcondition: On success the character is fully migrated with HP/MP
// recalculated, and the returned report is non-nil. On error the
// character is unchanged.
func (g *Growth) ChangeSpecies(c *Character, newID string) (*ChangeReport, error) {
	oldDef, ok := g.species.Get(c.Species)
	if !ok {
		return nil, fmt.Errorf("character %q: %w: %q", c.Name, ErrUnknownSpecies, c.Species)
	}
	newDef, ok := g.species.Get(newID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpecies, newID)
	}

	report := &ChangeReport{OldSpecies: oldDef.ID, NewSpecies: newDef.ID}

	// Re-scale skill points by the aptitude factor ratio, truncating
	// toward zero.
	for sk, pts := range c.SkillPoints {
		c.SkillPoints[sk] = int(float64(pts) * newDef.AptitudeFactor(sk) / oldDef.AptitudeFactor(sk))
	}

	c.Species = newDef.ID
	c.SpeciesName = newDef.Name

	// Swap the innate mutations: strip the old species' levels, keep a
	// snapshot of what was acquired through play, and reapply the new
	// schedule up to the current experience level.
	prev := c.Mutations.ClearInnate()
	g.GiveBasicMutations(c, newDef)
	for xl := 2; xl <= c.Level; xl++ {
		report.Messages = append(report.Messages, g.GiveLevelMutations(c, newDef, xl)...)
	}

	// Acquired levels take precedence over reapplied innate ones: a
	// mutation the character earned in play stays acquired even if the
	// new species would grant it innately.
	for _, st := range c.Mutations.All() {
		pv := prev[st.ID]
		if pv > st.Innate {
			c.Mutations.SetInnateLevel(st.ID, 0)
		} else {
			c.Mutations.SetInnateLevel(st.ID, st.Innate-pv)
		}
	}

	if newDef.IsDemonic() {
		report.DemonicTraits = g.RollDemonicTraits(g.roller.Source())
		g.applyDemonicTraits(c, report.DemonicTraits)
	}

	if oldDef.HasFlag(species.FlagEightArmed) != newDef.HasFlag(species.FlagEightArmed) {
		swapEquip(c.Equipment, species.SlotLeftRing, species.SlotRing1)
		swapEquip(c.Equipment, species.SlotRightRing, species.SlotRing2)
	}

	for _, slot := range species.AllSlots() {
		item, worn := c.Equipment[slot]
		if !worn || !newDef.BansSlot(slot) {
			continue
		}
		delete(c.Equipment, slot)
		report.Dropped = append(report.Dropped, slot)
		report.Messages = append(report.Messages, fmt.Sprintf("Your %s falls away.", item))
	}

	g.RecalcHP(c, newDef)
	g.RecalcMP(c, newDef)

	if g.hooks != nil {
		g.hooks.OnSpeciesChange(c, oldDef.ID, newDef.ID)
	}
	g.logger.Info("species changed",
		zap.String("character", c.Name),
		zap.String("from", oldDef.ID),
		zap.String("to", newDef.ID),
		zap.Int("dropped_items", len(report.Dropped)))
	return report, nil
}

func swapEquip(eq map[species.Slot]string, a, b species.Slot) {
	av, aok := eq[a]
	bv, bok := eq[b]
	if aok {
		eq[b] = av
	} else {
		delete(eq, b)
	}
	if bok {
		eq[a] = bv
	} else {
		delete(eq, a)
	}
}

package species

// Slot identifies one equipment slot on a character.
type Slot string

// Equipment slots. Two-armed species use the left/right ring pair;
// eight-armed species use the numbered ring slots instead.
const (
	SlotWeapon     Slot = "weapon"
	SlotShield     Slot = "shield"
	SlotBodyArmour Slot = "body_armour"
	SlotHelmet     Slot = "helmet"
	SlotCloak      Slot = "cloak"
	SlotGloves     Slot = "gloves"
	SlotBoots      Slot = "boots"
	SlotAmulet     Slot = "amulet"
	SlotLeftRing   Slot = "left_ring"
	SlotRightRing  Slot = "right_ring"
	SlotRing1      Slot = "ring_1"
	SlotRing2      Slot = "ring_2"
	SlotRing3      Slot = "ring_3"
	SlotRing4      Slot = "ring_4"
	SlotRing5      Slot = "ring_5"
	SlotRing6      Slot = "ring_6"
	SlotRing7      Slot = "ring_7"
	SlotRing8      Slot = "ring_8"
)

// jewellerySlots lists amulet and ring slots in canonical order.
var jewellerySlots = []Slot{
	SlotAmulet,
	SlotLeftRing, SlotRightRing,
	SlotRing1, SlotRing2, SlotRing3, SlotRing4,
	SlotRing5, SlotRing6, SlotRing7, SlotRing8,
}

// AllSlots returns every equipment slot in canonical order.
func AllSlots() []Slot {
	out := []Slot{SlotWeapon, SlotShield, SlotBodyArmour, SlotHelmet,
		SlotCloak, SlotGloves, SlotBoots}
	return append(out, jewellerySlots...)
}

func isNumberedRing(s Slot) bool {
	switch s {
	case SlotRing1, SlotRing2, SlotRing3, SlotRing4,
		SlotRing5, SlotRing6, SlotRing7, SlotRing8:
		return true
	}
	return false
}

// IsRingSlot reports whether s holds a ring.
func IsRingSlot(s Slot) bool {
	return s == SlotLeftRing || s == SlotRightRing || isNumberedRing(s)
}

// BansSlot reports whether the species can never use the equipment slot.
// It covers everything hard-coded per species that is not handled by a
// mutation: ring slot counts follow from the arm count, eight-armed
// species wear only helmets and shields, and draconians cannot fit body
// armour over their wings. False means only that nothing here bans the
// slot; mutation-based restrictions are checked elsewhere.
func (d *Def) BansSlot(slot Slot) bool {
	arms := d.ArmCount()
	switch slot {
	case SlotLeftRing, SlotRightRing:
		return arms > 2
	case SlotAmulet, SlotWeapon:
		return false
	}
	if isNumberedRing(slot) {
		return arms <= 2
	}

	// remaining slots are armour
	if arms > 2 && slot != SlotHelmet && slot != SlotShield {
		return true
	}
	if d.HasFlag(FlagDraconian) && slot == SlotBodyArmour {
		return true
	}
	return false
}

// SacrificialArm returns the ring slot given up when a hand is
// sacrificed. For two-armed species it is the left ring, the first of the
// pair; for eight-armed species it is ring 8, the last.
func (d *Def) SacrificialArm() Slot {
	if d.ArmCount() == 2 {
		return SlotLeftRing
	}
	return SlotRing8
}

// RingSlots returns the ring slots available to the species in canonical
// order. With missingHand set, the sacrificial arm's slot is excluded.
func (d *Def) RingSlots(missingHand bool) []Slot {
	var missing Slot
	if missingHand {
		missing = d.SacrificialArm()
	}
	var out []Slot
	for _, s := range jewellerySlots {
		if s == SlotAmulet || s == missing || d.BansSlot(s) {
			continue
		}
		out = append(out, s)
	}
	return out
}

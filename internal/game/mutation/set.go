package mutation

import (
	"fmt"
	"sort"
)

// State is the level pair for one mutation on a character.
//
// Invariant: 0 <= Innate <= Level.
type State struct {
	ID     string
	Level  int // total level, innate plus acquired
	Innate int // portion granted by the character's species
}

// Set tracks all mutations on one character, distinguishing innate levels
// (granted by species and experience level) from acquired ones.
// It is not safe for concurrent use; the caller must serialise access.
type Set struct {
	levels map[string]int
	innate map[string]int
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{
		levels: make(map[string]int),
		innate: make(map[string]int),
	}
}

// FromStates rebuilds a Set from previously exported states, as returned
// by All. States with Level < 1 are skipped.
//
// Precondition: every state must satisfy 0 <= Innate <= Level.
func FromStates(states []State) *Set {
	s := NewSet()
	for _, st := range states {
		if st.Level < 1 {
			continue
		}
		if st.Innate < 0 || st.Innate > st.Level {
			panic(fmt.Sprintf("mutation: invalid state for %q: innate %d, level %d", st.ID, st.Innate, st.Level))
		}
		s.levels[st.ID] = st.Level
		if st.Innate > 0 {
			s.innate[st.ID] = st.Innate
		}
	}
	return s
}

// Level returns the total level for the mutation id, or 0.
func (s *Set) Level(id string) int {
	return s.levels[id]
}

// InnateLevel returns the innate level for the mutation id, or 0.
func (s *Set) InnateLevel(id string) int {
	return s.innate[id]
}

// Has reports whether the character has any level of the mutation.
func (s *Set) Has(id string) bool {
	return s.levels[id] > 0
}

// HasInnate reports whether any of the mutation's levels are innate.
func (s *Set) HasInnate(id string) bool {
	return s.innate[id] > 0
}

// Gain raises the mutation's total level by up to levels, capped at the
// definition's max level. With innate set, the gained levels are also
// marked innate.
//
// Precondition: def must be non-nil; levels must be >= 1.
// Postcondition: Returns the number of levels actually gained (0 if
// already at max). The innate <= total invariant holds.
func (s *Set) Gain(def *Def, levels int, innate bool) int {
	if def == nil {
		panic("mutation: Gain: def must be non-nil")
	}
	if levels < 1 {
		panic(fmt.Sprintf("mutation: Gain: levels %d, must be >= 1", levels))
	}
	cur := s.levels[def.ID]
	gained := levels
	if cur+gained > def.MaxLevel {
		gained = def.MaxLevel - cur
	}
	if gained <= 0 {
		return 0
	}
	s.levels[def.ID] = cur + gained
	if innate {
		s.innate[def.ID] += gained
	}
	return gained
}

// Override sets the mutation's total and innate level outright, replacing
// any acquired levels. Species schedules use this when (re)applying their
// base mutations.
//
// Precondition: def must be non-nil; level must be >= 1.
// Postcondition: Level(def.ID) == InnateLevel(def.ID) == min(level,
// def.MaxLevel).
func (s *Set) Override(def *Def, level int) {
	if def == nil {
		panic("mutation: Override: def must be non-nil")
	}
	if level < 1 {
		panic(fmt.Sprintf("mutation: Override: level %d, must be >= 1", level))
	}
	if level > def.MaxLevel {
		level = def.MaxLevel
	}
	s.levels[def.ID] = level
	s.innate[def.ID] = level
}

// SetInnateLevel overrides the innate marking for the mutation without
// changing its total level.
//
// Precondition: 0 <= level <= Level(id).
func (s *Set) SetInnateLevel(id string, level int) {
	if level < 0 || level > s.levels[id] {
		panic(fmt.Sprintf("mutation: SetInnateLevel: level %d outside [0, %d] for %q",
			level, s.levels[id], id))
	}
	if level == 0 {
		delete(s.innate, id)
		return
	}
	s.innate[id] = level
}

// ClearInnate strips every innate level: each mutation's total drops by
// its innate level and the innate marking is removed. Mutations that drop
// to 0 are removed entirely.
//
// Postcondition: No mutation has an innate level. Returns a snapshot of
// the remaining (acquired) totals, including zero entries for mutations
// that were fully innate.
func (s *Set) ClearInnate() map[string]int {
	acquired := make(map[string]int, len(s.levels))
	for id, total := range s.levels {
		rest := total - s.innate[id]
		acquired[id] = rest
		if rest <= 0 {
			delete(s.levels, id)
		} else {
			s.levels[id] = rest
		}
		delete(s.innate, id)
	}
	return acquired
}

// All returns every mutation with a non-zero level, ordered by id.
func (s *Set) All() []State {
	out := make([]State, 0, len(s.levels))
	for id, lvl := range s.levels {
		out = append(out, State{ID: id, Level: lvl, Innate: s.innate[id]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of distinct mutations with a non-zero level.
func (s *Set) Len() int {
	return len(s.levels)
}

// Clone returns a deep copy of the set.
func (s *Set) Clone() *Set {
	c := NewSet()
	for id, lvl := range s.levels {
		c.levels[id] = lvl
	}
	for id, lvl := range s.innate {
		c.innate[id] = lvl
	}
	return c
}

package species

import (
	"sort"
	"strings"

	"github.com/oubliette-games/oubliette/internal/game/dice"
)

// Registry holds all known species definitions keyed by id.
type Registry struct {
	defs  map[string]*Def
	order []string // ids sorted for stable iteration
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register adds def to the registry, overwriting any existing entry with
// the same id.
//
// Precondition: def must be non-nil with a non-empty ID.
func (r *Registry) Register(def *Def) {
	if def == nil {
		panic("species: Register: def must be non-nil")
	}
	if def.ID == "" {
		panic("species: Register: def ID must be non-empty")
	}
	if _, exists := r.defs[def.ID]; !exists {
		r.order = append(r.order, def.ID)
		sort.Strings(r.order)
	}
	r.defs[def.ID] = def
}

// Get returns the definition for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns all definitions ordered by id.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.defs[id])
	}
	return out
}

// Len returns the number of registered species.
func (r *Registry) Len() int {
	return len(r.defs)
}

// ByAbbrev looks up a species by its two-letter abbreviation,
// case-insensitively. The shared draconian abbreviation resolves to the
// base (uncoloured) draconian.
//
// Postcondition: Returns the definition, or (nil, false) if no species
// uses the abbreviation.
func (r *Registry) ByAbbrev(abbrev string) (*Def, bool) {
	want := strings.ToLower(abbrev)
	var base *Def
	for _, d := range r.All() {
		if strings.ToLower(d.Abbrev) != want {
			continue
		}
		if d.BaseDraconian {
			return d, true
		}
		if base == nil {
			base = d
		}
	}
	if base != nil {
		return base, true
	}
	return nil, false
}

// ByName does a case-sensitive lookup of the plain species name.
func (r *Registry) ByName(name string) (*Def, bool) {
	if name == "" {
		return nil, false
	}
	for _, d := range r.All() {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// FindByPrefix finds a species whose name contains partial,
// case-insensitively. A match at the start of the name wins over a match
// elsewhere; with initialOnly set, only prefix matches count.
//
// Postcondition: Returns the best match, or (nil, false) if nothing
// matches.
func (r *Registry) FindByPrefix(partial string, initialOnly bool) (*Def, bool) {
	want := strings.ToLower(partial)
	if want == "" {
		return nil, false
	}
	var found *Def
	for _, d := range r.All() {
		name := strings.ToLower(d.Name)
		pos := strings.Index(name, want)
		if pos < 0 {
			continue
		}
		if pos == 0 {
			return d, true
		}
		if !initialOnly && found == nil {
			found = d
		}
	}
	if found != nil {
		return found, true
	}
	return nil, false
}

// IsRemoved reports whether the species is no longer offered to players.
// Derived draconian colours never count as removed even though they carry
// no recommended jobs of their own.
func (r *Registry) IsRemoved(d *Def) bool {
	if d.Removed {
		return true
	}
	if d.HasFlag(FlagDraconian) {
		return false
	}
	return len(d.RecommendedJobs) == 0
}

// IsStarting reports whether the species can be selected on the new game
// screen. Removed species keep their definitions for old save files but
// have no recommended jobs.
func (r *Registry) IsStarting(d *Def) bool {
	return len(d.RecommendedJobs) > 0
}

// Starting returns all selectable species ordered by id.
func (r *Registry) Starting() []*Def {
	var out []*Def
	for _, d := range r.All() {
		if r.IsStarting(d) {
			out = append(out, d)
		}
	}
	return out
}

// RandomStarting picks a uniformly random selectable species.
//
// Precondition: src must be non-nil; at least one starting species must be
// registered.
func (r *Registry) RandomStarting(src dice.Source) *Def {
	starting := r.Starting()
	if len(starting) == 0 {
		panic("species: RandomStarting: no starting species registered")
	}
	return starting[src.Intn(len(starting))]
}

// RandomDraconianColour picks a random derived draconian colour: never the
// base draconian, never a removed colour.
//
// Precondition: src must be non-nil; at least one derived draconian colour
// must be registered.
func (r *Registry) RandomDraconianColour(src dice.Source) *Def {
	var colours []*Def
	for _, d := range r.All() {
		if d.HasFlag(FlagDraconian) && !d.BaseDraconian && !d.Removed {
			colours = append(colours, d)
		}
	}
	if len(colours) == 0 {
		panic("species: RandomDraconianColour: no derived draconian colours registered")
	}
	return colours[src.Intn(len(colours))]
}

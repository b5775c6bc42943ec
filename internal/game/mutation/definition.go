// Package mutation defines the mutation catalog and the per-character
// mutation state, tracking which levels are innate (granted by species)
// versus acquired through play.
package mutation

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Well-known mutation ids referenced by derived species traits.
const (
	IDClaws        = "claws"
	IDPaws         = "paws"
	IDTentacleArms = "tentacle_arms"
	IDUnbreathing  = "unbreathing"
)

// Def is the static definition of a mutation, loaded from YAML.
type Def struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	MaxLevel int    `yaml:"max_level"`
	// Demonic marks the mutation as a candidate for random demonic trait
	// rolls on species with the demonic flag.
	Demonic bool `yaml:"demonic"`
	// GainMessages holds one message per level, shown when that level is
	// reached. May be shorter than MaxLevel; the last entry repeats.
	GainMessages []string `yaml:"gain_messages"`
	LoseMessages []string `yaml:"lose_messages"`
}

// Validate checks the definition invariants.
func (d *Def) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("mutation: definition missing id")
	}
	if d.Name == "" {
		return fmt.Errorf("mutation %q: missing name", d.ID)
	}
	if d.MaxLevel < 1 {
		return fmt.Errorf("mutation %q: max_level %d, must be >= 1", d.ID, d.MaxLevel)
	}
	return nil
}

// GainMessage returns the message for reaching the given level, or "" if
// the mutation defines no messages.
func (d *Def) GainMessage(level int) string {
	if len(d.GainMessages) == 0 {
		return ""
	}
	if level < 1 {
		level = 1
	}
	if level > len(d.GainMessages) {
		return d.GainMessages[len(d.GainMessages)-1]
	}
	return d.GainMessages[level-1]
}

// Registry holds all known mutation definitions keyed by id.
type Registry struct {
	defs map[string]*Def
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
		panic("mutation: Register: def must be non-nil")
	}
	if def.ID == "" {
		panic("mutation: Register: def ID must be non-empty")
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
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Demonic returns all demonic-trait candidates ordered by id.
func (r *Registry) Demonic() []*Def {
	var out []*Def
	for _, d := range r.All() {
		if d.Demonic {
			out = append(out, d)
		}
	}
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a mutation
// Def, and returns a populated Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails
// to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading mutation dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Def
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}

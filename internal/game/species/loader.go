package species

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadDirectory reads every *.yaml file in dir, parses each as a species
// Def, validates it, and returns a populated Registry. Abbreviations must
// be unique except among draconian colours, which share one.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails
// to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading species dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	abbrevs := make(map[string]string) // lowercased abbrev → id
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
		if _, exists := reg.Get(def.ID); exists {
			return nil, fmt.Errorf("validating %q: duplicate species id %q", path, def.ID)
		}
		ab := strings.ToLower(def.Abbrev)
		if prev, taken := abbrevs[ab]; taken && !(def.HasFlag(FlagDraconian) && isDraconianID(reg, prev)) {
			return nil, fmt.Errorf("validating %q: abbrev %q already used by %q", path, def.Abbrev, prev)
		}
		abbrevs[ab] = def.ID
		reg.Register(&def)
	}
	return reg, nil
}

func isDraconianID(reg *Registry, id string) bool {
	d, ok := reg.Get(id)
	return ok && d.HasFlag(FlagDraconian)
}

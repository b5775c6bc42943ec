package server

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/oubliette-games/oubliette/internal/game/character"
	"github.com/oubliette-games/oubliette/internal/scripting"
)

// ScriptHooks bridges growth events to the Lua scripting layer. Species
// content may override mutation gain messages or react to species changes
// via on_growth and on_species_change hook functions.
type ScriptHooks struct {
	scripts *scripting.Manager
}

var _ character.Hooks = (*ScriptHooks)(nil)

// NewScriptHooks creates a ScriptHooks dispatching to scripts.
//
// Precondition: scripts must be non-nil.
func NewScriptHooks(scripts *scripting.Manager) *ScriptHooks {
	return &ScriptHooks{scripts: scripts}
}

// OnGrowth implements character.Hooks. A string returned by the on_growth
// Lua hook replaces the default gain message; nil or a non-string return
// keeps it.
func (h *ScriptHooks) OnGrowth(c *character.Character, mutationID string, level int) string {
	ret, err := h.scripts.CallHook(c.Species, "on_growth",
		lua.LString(mutationID), lua.LNumber(level))
	if err != nil {
		return ""
	}
	if s, ok := ret.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// OnSpeciesChange implements character.Hooks. The hook dispatches to the
// new species' VM so freshly gained content can react to the transition.
func (h *ScriptHooks) OnSpeciesChange(c *character.Character, oldSpecies, newSpecies string) {
	_, _ = h.scripts.CallHook(newSpecies, "on_species_change",
		lua.LString(oldSpecies), lua.LString(newSpecies))
}

package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/oubliette-games/oubliette/internal/game/dice"
)

// globalKey is the reserved key for shared scripts loaded via LoadGlobal.
// CallHook falls back to this VM when no species VM is found.
const globalKey = "__global__"

// Manager owns one sandboxed LState per species and exposes hook dispatch.
// Species content may ship growth scripts that customise mutation messages
// or react to species changes.
//
// Manager is safe for concurrent CallHook after all Load calls complete.
// Each LState is single-threaded; a per-VM mutex serializes concurrent
// calls to the same VM while allowing different VMs to run concurrently.
type Manager struct {
	mu     sync.RWMutex
	states map[string]*vm
	roller *dice.Roller
	logger *zap.Logger
}

type vm struct {
	mu     sync.Mutex
	state  *lua.LState
	cancel func()
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with an empty VM map.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting: NewManager: roller must be non-nil")
	}
	if logger == nil {
		panic("scripting: NewManager: logger must be non-nil")
	}
	return &Manager{
		states: make(map[string]*vm),
		roller: roller,
		logger: logger,
	}
}

// LoadSpecies creates a sandboxed VM for speciesID, registers all engine.*
// modules, then executes every *.lua file in scriptDir in lexicographic
// order.
//
// Precondition: speciesID must be non-empty; scriptDir must be a readable
// directory.
// Postcondition: Species VM is registered; returns error on Lua load failure.
func (m *Manager) LoadSpecies(speciesID, scriptDir string, instLimit int) error {
	if speciesID == "" {
		return fmt.Errorf("scripting: species id must not be empty")
	}
	return m.loadInto(speciesID, scriptDir, instLimit)
}

// LoadGlobal creates the "__global__" VM for shared scripts accessible as a
// CallHook fallback from any species.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: Global VM is registered; returns error on Lua load failure.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(globalKey, scriptDir, instLimit)
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	m.mu.Lock()
	if old, ok := m.states[key]; ok {
		old.mu.Lock()
		if old.cancel != nil {
			old.cancel()
		}
		old.state.Close()
		old.mu.Unlock()
	}
	m.states[key] = &vm{state: L, cancel: cancel}
	m.mu.Unlock()
	return nil
}

// CallHook calls the named Lua global function in speciesID's VM. If the
// species has no VM, the __global__ VM is tried as a fallback. Returns
// (LNil, nil) if the hook is not defined or no VM exists. Lua runtime
// errors are logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(speciesID, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	entry, ok := m.states[speciesID]
	if !ok {
		entry = m.states[globalKey]
	}
	m.mu.RUnlock()

	if entry == nil {
		m.logger.Debug("scripting: no VM for species",
			zap.String("species", speciesID),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	L := entry.state

	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("species", speciesID),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// Close shuts down every VM. Loaded hooks are gone afterwards; CallHook
// degrades to its no-VM behaviour.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range m.states {
		entry.mu.Lock()
		if entry.cancel != nil {
			entry.cancel()
		}
		entry.state.Close()
		entry.mu.Unlock()
	}
	m.states = make(map[string]*vm)
}

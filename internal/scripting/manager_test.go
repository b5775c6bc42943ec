package scripting_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/oubliette-games/oubliette/internal/game/dice"
	"github.com/oubliette-games/oubliette/internal/scripting"
)

func newTestManager(t testing.TB) (*scripting.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	src := dice.NewCryptoSource()
	roller := dice.NewLoggedRoller(src, logger)
	return scripting.NewManager(roller, logger), logs
}

func writeTempLua(t testing.TB, filename, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(src), 0644))
	return dir
}

func TestManager_LoadSpecies_CallsHook(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `
		function on_growth(mutation, level)
			return mutation .. " level " .. level
		end
	`)
	require.NoError(t, mgr.LoadSpecies("felid", dir, 0))

	ret, err := mgr.CallHook("felid", "on_growth", lua.LString("claws"), lua.LNumber(2))
	require.NoError(t, err)
	assert.Equal(t, "claws level 2", ret.String())
}

func TestManager_CallHook_MissingHook_NoOp(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `local x = 1`)
	require.NoError(t, mgr.LoadSpecies("felid", dir, 0))

	ret, err := mgr.CallHook("felid", "nonexistent_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestManager_CallHook_UnknownSpecies_ReturnsNil(t *testing.T) {
	mgr, logs := newTestManager(t)
	ret, err := mgr.CallHook("nonexistent", "some_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.NotZero(t, logs.Len())
}

func TestManager_CallHook_RuntimeError_WarnLogNoPanic(t *testing.T) {
	mgr, logs := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `
		function broken_hook()
			error("intentional failure")
		end
	`)
	require.NoError(t, mgr.LoadSpecies("felid", dir, 0))

	ret, err := mgr.CallHook("felid", "broken_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)

	warned := false
	for _, e := range logs.All() {
		if e.Level == zap.WarnLevel {
			warned = true
		}
	}
	assert.True(t, warned, "expected a Warn log for the Lua runtime error")
}

func TestManager_LoadGlobal_CallHookFallback(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "shared.lua", `
		function on_species_change(from, to)
			return from .. ">" .. to
		end
	`)
	require.NoError(t, mgr.LoadGlobal(dir, 0))

	// No VM for "naga"; the global VM answers instead.
	ret, err := mgr.CallHook("naga", "on_species_change", lua.LString("human"), lua.LString("naga"))
	require.NoError(t, err)
	assert.Equal(t, "human>naga", ret.String())
}

func TestManager_LoadSpecies_EmptyID_ReturnsError(t *testing.T) {
	mgr, _ := newTestManager(t)
	assert.Error(t, mgr.LoadSpecies("", t.TempDir(), 0))
}

func TestManager_LoadSpecies_EmptyDir_NoError(t *testing.T) {
	mgr, _ := newTestManager(t)
	assert.NoError(t, mgr.LoadSpecies("felid", t.TempDir(), 0))
}

func TestManager_LoadSpecies_InvalidLua_ReturnsError(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "bad.lua", `this is not lua !!!`)
	assert.Error(t, mgr.LoadSpecies("felid", dir, 0))
}

func TestManager_LoadSpecies_MultipleFiles_OrderedByName(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := t.TempDir()
	// b.lua overrides the hook defined in a.lua.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"),
		[]byte(`function which() return "a" end`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lua"),
		[]byte(`function which() return "b" end`), 0644))
	require.NoError(t, mgr.LoadSpecies("felid", dir, 0))

	ret, err := mgr.CallHook("felid", "which")
	require.NoError(t, err)
	assert.Equal(t, "b", ret.String())
}

func TestNewManager_PanicsOnNilRoller(t *testing.T) {
	assert.Panics(t, func() {
		scripting.NewManager(nil, zap.NewNop())
	})
}

func TestNewManager_PanicsOnNilLogger(t *testing.T) {
	src := dice.NewCryptoSource()
	roller := dice.NewLoggedRoller(src, zap.NewNop())
	assert.Panics(t, func() {
		scripting.NewManager(roller, nil)
	})
}

func TestManager_Close_ReleasesVMs(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `function h() return 1 end`)
	require.NoError(t, mgr.LoadSpecies("felid", dir, 0))

	mgr.Close()
	ret, err := mgr.CallHook("felid", "h")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestProperty_CallHookMissingSpeciesNeverPanics(t *testing.T) {
	mgr, _ := newTestManager(t)
	rapid.Check(t, func(t *rapid.T) {
		speciesID := rapid.StringMatching(`[a-z_]{1,16}`).Draw(t, "species")
		hook := rapid.StringMatching(`[a-z_]{1,16}`).Draw(t, "hook")
		ret, err := mgr.CallHook(speciesID, hook)
		require.NoError(t, err)
		require.Equal(t, lua.LNil, ret)
	})
}

func TestProperty_CallHookConcurrentSameSpecies_NoRace(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `
		function add(a, b)
			return a + b
		end
	`)
	require.NoError(t, mgr.LoadSpecies("felid", dir, 0))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				ret, err := mgr.CallHook("felid", "add", lua.LNumber(n), lua.LNumber(j))
				assert.NoError(t, err)
				assert.Equal(t, lua.LNumber(n+j), ret)
			}
		}(i)
	}
	wg.Wait()
}

package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RegisterModules registers all engine.* Lua tables into L:
//
//	engine.log.debug/info/warn(msg)  — structured logging
//	engine.roll(expr)                — dice roll, returns a result table
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()

	logTable := L.NewTable()
	L.SetField(logTable, "debug", L.NewFunction(m.luaLog(zap.DebugLevel)))
	L.SetField(logTable, "info", L.NewFunction(m.luaLog(zap.InfoLevel)))
	L.SetField(logTable, "warn", L.NewFunction(m.luaLog(zap.WarnLevel)))
	L.SetField(engine, "log", logTable)

	L.SetField(engine, "roll", L.NewFunction(m.luaRoll))

	L.SetGlobal("engine", engine)
}

func (m *Manager) luaLog(level zapcore.Level) lua.LGFunction {
	return func(L *lua.LState) int {
		msg := L.CheckString(1)
		if ce := m.logger.Check(level, msg); ce != nil {
			ce.Write(zap.String("source", "lua"))
		}
		return 0
	}
}

// luaRoll evaluates a dice expression and pushes a table with fields
// "expression", "total", "modifier", and "dice" (an array of kept dice).
// An invalid expression raises a Lua error the calling script can pcall.
func (m *Manager) luaRoll(L *lua.LState) int {
	expr := L.CheckString(1)
	result, err := m.roller.RollExpr(expr)
	if err != nil {
		L.RaiseError("engine.roll: %s", err.Error())
		return 0
	}

	t := L.NewTable()
	L.SetField(t, "expression", lua.LString(result.Expression))
	L.SetField(t, "total", lua.LNumber(result.Total()))
	L.SetField(t, "modifier", lua.LNumber(result.Modifier))
	diceTable := L.NewTable()
	for _, d := range result.Dice {
		diceTable.Append(lua.LNumber(d))
	}
	L.SetField(t, "dice", diceTable)
	L.Push(t)
	return 1
}

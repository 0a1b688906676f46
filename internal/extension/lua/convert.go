package lua

import (
	"sort"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keyguard/internal/operation"
)

// toLValue converts an option value to Lua. Durations become milliseconds.
func toLValue(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case string:
		return lua.LString(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case time.Duration:
		return lua.LNumber(val.Milliseconds())
	case []any:
		t := L.NewTable()
		for _, item := range val {
			t.Append(toLValue(L, item))
		}
		return t
	case []string:
		t := L.NewTable()
		for _, item := range val {
			t.Append(lua.LString(item))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			L.SetField(t, k, toLValue(L, val[k]))
		}
		return t
	default:
		return lua.LNil
	}
}

// operationTable converts an operation to the table hooks receive.
func operationTable(L *lua.LState, info operation.Info) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "id", lua.LString(info.ID))
	L.SetField(t, "command", lua.LString(info.Command))
	L.SetField(t, "aborted", lua.LBool(info.Aborted))
	if !info.Finished.IsZero() {
		L.SetField(t, "exit_code", lua.LNumber(info.ExitCode))
		L.SetField(t, "duration_ms", lua.LNumber(info.Duration().Milliseconds()))
	}
	if info.Err != nil {
		L.SetField(t, "error", lua.LString(info.Err.Error()))
	}
	return t
}

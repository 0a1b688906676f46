package lua

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keyguard/internal/theme"
	"github.com/dshills/keyguard/internal/ui"
)

// installModule registers the ks global.
//
// UI and option functions act on the session of the hook being run.
// Called outside a hook, or in a session without a UI, they do nothing.
func (e *Extension) installModule() {
	L := e.state.L

	ks := L.NewTable()
	L.SetField(ks, "on", L.NewFunction(e.on))
	L.SetField(ks, "has_ui", L.NewFunction(e.hasUI))
	L.SetField(ks, "option", L.NewFunction(e.option))
	L.SetField(ks, "log", L.NewFunction(e.log))

	uiMod := L.NewTable()
	L.SetField(uiMod, "set_status", L.NewFunction(e.setStatus))
	L.SetField(uiMod, "clear_status", L.NewFunction(e.clearStatus))
	L.SetField(uiMod, "set_working_message", L.NewFunction(e.setWorkingMessage))
	L.SetField(uiMod, "is_idle", L.NewFunction(e.isIdle))
	L.SetField(uiMod, "notify", L.NewFunction(e.notify))
	L.SetField(ks, "ui", uiMod)

	L.SetGlobal("ks", ks)
}

// ks.on(event_name, fn)
func (e *Extension) on(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)

	topic, ok := eventNames[name]
	if !ok {
		L.ArgError(1, ErrUnknownEvent.Error()+": "+name)
		return 0
	}

	e.mu.Lock()
	e.handlers = append(e.handlers, handler{topic: topic, fn: fn})
	e.mu.Unlock()
	return 0
}

// ks.has_ui() -> bool
func (e *Extension) hasUI(L *lua.LState) int {
	s := e.currentSession()
	L.Push(lua.LBool(s != nil && s.HasUI))
	return 1
}

// ks.option(path) -> value or nil
func (e *Extension) option(L *lua.LState) int {
	path := L.CheckString(1)
	s := e.currentSession()
	if s == nil {
		L.Push(lua.LNil)
		return 1
	}
	v, ok := s.Options.Get(path)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(toLValue(L, v))
	return 1
}

// ks.log(message, level?)
func (e *Extension) log(L *lua.LState) int {
	msg := L.CheckString(1)
	switch L.OptString(2, "info") {
	case "debug":
		e.logger.Debug("%s", msg)
	case "warn", "warning":
		e.logger.Warn("%s", msg)
	case "error":
		e.logger.Error("%s", msg)
	default:
		e.logger.Info("%s", msg)
	}
	return 0
}

func (e *Extension) surface() ui.UI {
	s := e.currentSession()
	if s == nil || !s.HasUI {
		return nil
	}
	return s.UI
}

// ks.ui.set_status(key, text, role?)
// ks.ui.set_status(key, {{text, role}, ...})
func (e *Extension) setStatus(L *lua.LState) int {
	key := L.CheckString(1)
	var text theme.Text
	switch v := L.Get(2).(type) {
	case lua.LString:
		text = theme.Text{{Text: string(v), Role: roleArg(L.OptString(3, ""))}}
	case *lua.LTable:
		text = spansFromTable(v)
	default:
		L.ArgError(2, "string or table expected")
		return 0
	}

	if u := e.surface(); u != nil {
		u.SetStatus(key, text)
	}
	return 0
}

// ks.ui.clear_status(key)
func (e *Extension) clearStatus(L *lua.LState) int {
	key := L.CheckString(1)
	if u := e.surface(); u != nil {
		u.ClearStatus(key)
	}
	return 0
}

// ks.ui.set_working_message(text?)
// With no text the default message is restored.
func (e *Extension) setWorkingMessage(L *lua.LState) int {
	u := e.surface()
	if L.GetTop() == 0 || L.Get(1) == lua.LNil {
		if u != nil {
			u.ResetWorkingMessage()
		}
		return 0
	}
	text := L.CheckString(1)
	if u != nil {
		u.SetWorkingMessage(text)
	}
	return 0
}

// ks.ui.is_idle() -> bool
func (e *Extension) isIdle(L *lua.LState) int {
	idle := true
	if u := e.surface(); u != nil {
		idle = u.IsIdle()
	}
	L.Push(lua.LBool(idle))
	return 1
}

// ks.ui.notify(message, level?)
func (e *Extension) notify(L *lua.LState) int {
	msg := L.CheckString(1)
	if msg == "" {
		L.ArgError(1, "message cannot be empty")
		return 0
	}
	level := ui.ParseLevel(L.OptString(2, "info"))
	if u := e.surface(); u != nil {
		u.Notify(msg, level)
	}
	return 0
}

func roleArg(s string) theme.Role {
	if r, ok := theme.ParseRole(s); ok {
		return r
	}
	return theme.RoleText
}

func spansFromTable(t *lua.LTable) theme.Text {
	var text theme.Text
	t.ForEach(func(_, v lua.LValue) {
		switch span := v.(type) {
		case lua.LString:
			text = append(text, theme.Span{Text: string(span), Role: theme.RoleText})
		case *lua.LTable:
			s := theme.Span{Text: lua.LVAsString(span.RawGetInt(1)), Role: roleArg(lua.LVAsString(span.RawGetInt(2)))}
			text = append(text, s)
		}
	})
	return text
}

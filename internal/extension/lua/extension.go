package lua

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keyguard/internal/event"
	"github.com/dshills/keyguard/internal/extension"
	"github.com/dshills/keyguard/internal/logging"
	"github.com/dshills/keyguard/internal/operation"
)

// eventNames maps script event names to lifecycle topics.
var eventNames = map[string]event.Topic{
	"session_start":   event.TopicSessionStart,
	"operation_start": event.TopicOperationStart,
	"operation_end":   event.TopicOperationEnd,
	"session_end":     event.TopicSessionEnd,
}

// handler is a ks.on registration.
type handler struct {
	topic event.Topic
	fn    *lua.LFunction
}

// Extension is a session extension backed by a Lua script.
type Extension struct {
	name   string
	path   string
	state  *State
	logger *logging.Logger

	mu       sync.Mutex
	handlers []handler
	session  *extension.Context
}

// Load loads the script at path. The extension is named after the file
// without its extension.
func Load(path string, logger *logging.Logger, opts ...StateOption) (*Extension, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	e := newExtension(name, logger, opts...)
	e.path = path
	if err := e.state.DoFile(path); err != nil {
		e.state.Close()
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return e, nil
}

// LoadString loads a script from source.
func LoadString(name, code string, logger *logging.Logger, opts ...StateOption) (*Extension, error) {
	e := newExtension(name, logger, opts...)
	if err := e.state.DoString(code); err != nil {
		e.state.Close()
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return e, nil
}

func newExtension(name string, logger *logging.Logger, opts ...StateOption) *Extension {
	if logger == nil {
		logger = logging.Null
	}
	e := &Extension{
		name:   name,
		state:  NewState(opts...),
		logger: logger.WithField("extension", name),
	}
	e.installModule()
	return e
}

// Name implements extension.Extension.
func (e *Extension) Name() string {
	return e.name
}

// Path returns the script path, or "" for LoadString extensions.
func (e *Extension) Path() string {
	return e.path
}

// Register subscribes one hook per topic the script listens on.
func (e *Extension) Register(api *extension.API) error {
	e.mu.Lock()
	seen := make(map[event.Topic]bool)
	var topics []event.Topic
	for _, h := range e.handlers {
		if !seen[h.topic] {
			seen[h.topic] = true
			topics = append(topics, h.topic)
		}
	}
	e.mu.Unlock()

	for _, topic := range topics {
		topic := topic
		if err := api.On(topic, func(ev event.Event, ctx *extension.Context) error {
			return e.dispatch(topic, ev, ctx)
		}); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the Lua state.
func (e *Extension) Close() {
	e.state.Close()
}

// dispatch calls every script handler for topic. The session is visible
// to ks functions for the duration of the call.
func (e *Extension) dispatch(topic event.Topic, ev event.Event, ctx *extension.Context) error {
	e.mu.Lock()
	e.session = ctx
	var fns []*lua.LFunction
	for _, h := range e.handlers {
		if h.topic == topic {
			fns = append(fns, h.fn)
		}
	}
	e.mu.Unlock()

	defer func() {
		if topic == event.TopicSessionEnd {
			e.mu.Lock()
			e.session = nil
			e.mu.Unlock()
		}
	}()

	var first error
	for _, fn := range fns {
		if err := e.state.Call(fn, e.eventTable(topic, ev, ctx)); err != nil {
			e.logger.Warn("%s handler failed: %v", topic, err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func (e *Extension) eventTable(topic event.Topic, ev event.Event, ctx *extension.Context) *lua.LTable {
	L := e.state.L
	t := L.NewTable()
	for name, tp := range eventNames {
		if tp == topic {
			L.SetField(t, "name", lua.LString(name))
		}
	}
	L.SetField(t, "topic", lua.LString(topic))
	if ctx != nil {
		L.SetField(t, "session_id", lua.LString(ctx.SessionID))
		L.SetField(t, "has_ui", lua.LBool(ctx.HasUI))
	}
	if info, ok := ev.Payload.(operation.Info); ok {
		L.SetField(t, "operation", operationTable(L, info))
	}
	return t
}

func (e *Extension) currentSession() *extension.Context {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

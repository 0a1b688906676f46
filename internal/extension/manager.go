package extension

import (
	"context"
	"fmt"
	"sync"

	"github.com/dshills/keyguard/internal/event"
	"github.com/dshills/keyguard/internal/input"
	"github.com/dshills/keyguard/internal/logging"
	"github.com/dshills/keyguard/internal/operation"
)

// Manager registers extensions and publishes the session lifecycle to
// them.
type Manager struct {
	dispatcher *event.Dispatcher
	logger     *logging.Logger

	mu      sync.Mutex
	names   []string
	subs    []*event.Subscription
	session *Context
	editor  EditorFactory
}

// NewManager creates a manager publishing on dispatcher.
func NewManager(dispatcher *event.Dispatcher, logger *logging.Logger) *Manager {
	if dispatcher == nil {
		dispatcher = event.NewDispatcher()
	}
	if logger == nil {
		logger = logging.Null
	}
	logger = logger.WithComponent("extension")
	dispatcher.SetPanicHandler(func(err *event.PanicError) {
		logger.Error("hook %s panicked on %s: %v", err.SubscriptionID, err.Topic, err.Value)
	})
	return &Manager{dispatcher: dispatcher, logger: logger}
}

// Dispatcher returns the lifecycle dispatcher.
func (m *Manager) Dispatcher() *event.Dispatcher {
	return m.dispatcher
}

// Register registers an extension.
func (m *Manager) Register(ext Extension) error {
	name := ext.Name()
	if name == "" {
		return ErrInvalidName
	}

	m.mu.Lock()
	for _, n := range m.names {
		if n == name {
			m.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrDuplicateExtension, name)
		}
	}
	m.names = append(m.names, name)
	m.mu.Unlock()

	if err := ext.Register(&API{name: name, manager: m}); err != nil {
		return fmt.Errorf("register extension %s: %w", name, err)
	}
	m.logger.Debug("registered extension %s", name)
	return nil
}

// Extensions returns the registered extension names in order.
func (m *Manager) Extensions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Session returns the running session, or nil.
func (m *Manager) Session() *Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Start begins a session and publishes session.start.
func (m *Manager) Start(ctx context.Context, session *Context) []error {
	session.setEditor = m.setEditor
	m.mu.Lock()
	m.session = session
	m.editor = nil
	m.mu.Unlock()

	m.logger.Info("session %s started (ui=%v)", session.SessionID, session.HasUI)
	return m.publish(ctx, event.TopicSessionStart, session)
}

// StartOperation publishes operation.start.
func (m *Manager) StartOperation(ctx context.Context, info operation.Info) []error {
	return m.publish(ctx, event.TopicOperationStart, info)
}

// EndOperation publishes operation.end.
func (m *Manager) EndOperation(ctx context.Context, info operation.Info) []error {
	return m.publish(ctx, event.TopicOperationEnd, info)
}

// End publishes session.end and closes the session.
func (m *Manager) End(ctx context.Context) []error {
	session := m.Session()
	if session == nil {
		return nil
	}
	errs := m.publish(ctx, event.TopicSessionEnd, session)

	m.mu.Lock()
	m.session = nil
	m.editor = nil
	m.mu.Unlock()
	session.setEditor = nil

	m.logger.Info("session %s ended", session.SessionID)
	return errs
}

// EditorComponent returns the input handler installed for the session,
// built around base, or base itself when none is installed.
func (m *Manager) EditorComponent(base input.Editor) input.Handler {
	m.mu.Lock()
	factory := m.editor
	m.mu.Unlock()

	if factory == nil {
		return base
	}
	if h := factory(base); h != nil {
		return h
	}
	return base
}

// Close removes every hook.
func (m *Manager) Close() {
	m.mu.Lock()
	subs := m.subs
	m.subs = nil
	m.mu.Unlock()
	for _, s := range subs {
		s.Cancel()
	}
}

func (m *Manager) setEditor(factory EditorFactory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.editor = factory
}

func (m *Manager) publish(ctx context.Context, topic event.Topic, payload any) []error {
	errs := m.dispatcher.Publish(ctx, event.New(topic, payload))
	for _, err := range errs {
		m.logger.Warn("%s: %v", topic, err)
	}
	return errs
}

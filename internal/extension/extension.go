package extension

import (
	"context"
	"errors"
	"fmt"

	"github.com/dshills/keyguard/internal/event"
	"github.com/dshills/keyguard/internal/logging"
)

// Errors returned by the manager.
var (
	// ErrDuplicateExtension is returned when an extension name is reused.
	ErrDuplicateExtension = errors.New("extension already registered")

	// ErrInvalidName is returned for an empty extension name.
	ErrInvalidName = errors.New("invalid extension name")
)

// Extension is a unit of session behaviour.
type Extension interface {
	// Name returns the unique extension name.
	Name() string

	// Register subscribes the extension's hooks.
	Register(api *API) error
}

// Hook handles a lifecycle event.
type Hook func(ev event.Event, ctx *Context) error

// API is what an extension sees during Register.
type API struct {
	name    string
	manager *Manager
}

// Name returns the registering extension's name.
func (a *API) Name() string {
	return a.name
}

// On subscribes hook to topic, which may be a wildcard pattern.
// Hooks run in registration order; a failing hook does not stop the rest.
func (a *API) On(topic event.Topic, hook Hook) error {
	if hook == nil {
		return event.ErrNilHandler
	}
	m := a.manager
	sub, err := m.dispatcher.Subscribe(topic, event.HandlerFunc(func(_ context.Context, ev event.Event) error {
		return hook(ev, m.Session())
	}), event.WithName(a.name+":"+string(topic)))
	if err != nil {
		return fmt.Errorf("extension %s: %w", a.name, err)
	}
	m.mu.Lock()
	m.subs = append(m.subs, sub)
	m.mu.Unlock()
	return nil
}

// Logger returns the manager's logger tagged with the extension name.
func (a *API) Logger() *logging.Logger {
	return a.manager.logger.WithField("extension", a.name)
}

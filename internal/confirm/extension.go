package confirm

import (
	"fmt"

	"github.com/dshills/keyguard/internal/clock"
	"github.com/dshills/keyguard/internal/event"
	"github.com/dshills/keyguard/internal/extension"
	"github.com/dshills/keyguard/internal/input"
	"github.com/dshills/keyguard/internal/logging"
	"github.com/dshills/keyguard/internal/theme"
)

// Name is the extension name.
const Name = "confirm"

// Extension installs the confirm gestures into each interactive session.
// Sessions without a UI are left untouched.
type Extension struct {
	clock  clock.Clock
	logger *logging.Logger

	presenter *Presenter
	arbiter   *Arbiter
}

// NewExtension creates the extension. Timers are scheduled on clk.
func NewExtension(clk clock.Clock) *Extension {
	return &Extension{clock: clk, logger: logging.Null}
}

// Name implements extension.Extension.
func (e *Extension) Name() string {
	return Name
}

// Register implements extension.Extension.
func (e *Extension) Register(api *extension.API) error {
	e.logger = api.Logger()
	hooks := []struct {
		topic event.Topic
		hook  extension.Hook
	}{
		{event.TopicSessionStart, e.sessionStart},
		{event.TopicOperationEnd, e.operationEnd},
		{event.TopicSessionEnd, e.sessionEnd},
	}
	for _, h := range hooks {
		if err := api.On(h.topic, h.hook); err != nil {
			return err
		}
	}
	return nil
}

// Presenter returns the running session's presenter, or nil.
func (e *Extension) Presenter() *Presenter {
	return e.presenter
}

func (e *Extension) sessionStart(_ event.Event, ctx *extension.Context) error {
	if ctx == nil || !ctx.HasUI {
		return nil
	}

	if err := ctx.Options.SetDefaults(Section, DefaultOptions().Values()); err != nil {
		return fmt.Errorf("confirm defaults: %w", err)
	}
	if err := ctx.Options.SetDefaults("theme", theme.Default().Hex()); err != nil {
		return fmt.Errorf("theme defaults: %w", err)
	}
	options := OptionsFrom(ctx.Options)

	surface := ctx.UI
	presenter := NewPresenter(surface, e.clock, options)
	e.presenter = presenter
	e.arbiter = nil

	logger := e.logger.WithField("session", ctx.SessionID)
	ctx.SetEditorComponent(func(base input.Editor) input.Handler {
		// One arbiter per session so press times survive re-resolution
		if e.arbiter == nil {
			e.arbiter = NewArbiter(base, presenter, surface.IsIdle, e.clock, options, logger)
		} else {
			e.arbiter.rebase(base)
		}
		return e.arbiter
	})
	logger.Debug("confirm gestures installed (interrupt %s, cancel %s)", options.InterruptWindow, options.CancelWindow)
	return nil
}

func (e *Extension) operationEnd(_ event.Event, ctx *extension.Context) error {
	if ctx == nil || !ctx.HasUI || e.presenter == nil {
		return nil
	}
	e.presenter.ClearCancelHint()
	return nil
}

func (e *Extension) sessionEnd(_ event.Event, ctx *extension.Context) error {
	if e.presenter == nil {
		return nil
	}
	if ctx != nil && ctx.HasUI {
		e.presenter.Close()
	}
	e.presenter = nil
	e.arbiter = nil
	return nil
}

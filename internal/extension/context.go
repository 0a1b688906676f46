package extension

import (
	"github.com/google/uuid"

	"github.com/dshills/keyguard/internal/config"
	"github.com/dshills/keyguard/internal/input"
	"github.com/dshills/keyguard/internal/logging"
	"github.com/dshills/keyguard/internal/ui"
)

// EditorFactory builds the prompt's input handler around the base editor.
type EditorFactory func(base input.Editor) input.Handler

// Context is the per-session state handed to every hook.
type Context struct {
	// SessionID identifies the session.
	SessionID string

	// HasUI reports whether an interactive display is attached.
	// When false, UI is nil.
	HasUI bool

	// UI is the display surface.
	UI ui.UI

	// Options is the session options store.
	Options *config.Options

	// Logger is the session logger.
	Logger *logging.Logger

	setEditor func(EditorFactory)
}

// NewContext creates a session context with a new session ID. A nil
// surface means no interactive display.
func NewContext(surface ui.UI, options *config.Options, logger *logging.Logger) *Context {
	if options == nil {
		options = config.New()
	}
	if logger == nil {
		logger = logging.Null
	}
	return &Context{
		SessionID: uuid.New().String(),
		HasUI:     surface != nil,
		UI:        surface,
		Options:   options,
		Logger:    logger,
	}
}

// SetEditorComponent installs factory as the prompt's input handler.
// The most recent call wins. Outside a running session it is a no-op.
func (c *Context) SetEditorComponent(factory EditorFactory) {
	if c.setEditor != nil {
		c.setEditor(factory)
	}
}

package input

import (
	"time"

	"github.com/dshills/keyguard/internal/input/key"
)

// Handler receives raw terminal input chunks.
type Handler interface {
	HandleInput(data string)
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(data string)

// HandleInput implements Handler.
func (f HandlerFunc) HandleInput(data string) {
	f(data)
}

// Editor is a base editor component.
type Editor interface {
	Handler

	// IsShowingAutocomplete reports whether a completion overlay is
	// displayed. While it is, Escape dismisses the overlay.
	IsShowingAutocomplete() bool
}

// Actions are the host behaviours an editor triggers.
// Nil actions are skipped.
type Actions struct {
	// Submit is called with the buffer text when Enter is pressed.
	Submit func(text string)

	// Abort is called when the cancel key is pressed with no overlay
	// visible.
	Abort func()

	// Exit is called on the second interrupt key press within
	// Config.InterruptWindow.
	Exit func()
}

// Config configures the line editor.
type Config struct {
	// InterruptKey clears the line; pressed twice it exits.
	// Default: Ctrl+C
	InterruptKey key.Event

	// CancelKey dismisses the overlay or aborts.
	// Default: Escape
	CancelKey key.Event

	// InterruptWindow is the maximum time between two interrupt presses
	// for the second one to exit.
	// Default: 500ms
	InterruptWindow time.Duration

	// HistorySize is the number of submitted lines kept.
	// Default: 200
	HistorySize int

	// MaxCompletions limits the entries in the autocomplete overlay.
	// Default: 8
	MaxCompletions int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		InterruptKey:    key.MustParse(key.Interrupt),
		CancelKey:       key.MustParse(key.Cancel),
		InterruptWindow: 500 * time.Millisecond,
		HistorySize:     200,
		MaxCompletions:  8,
	}
}

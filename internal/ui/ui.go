// Package ui defines the display surface extensions draw into and the
// terminal implementation the application renders.
package ui

import (
	"github.com/dshills/keyguard/internal/theme"
)

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel parses a notification level name. Unknown names are info.
func ParseLevel(s string) Level {
	switch s {
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Role returns the theme role used to draw the level.
func (l Level) Role() theme.Role {
	switch l {
	case LevelWarn:
		return theme.RoleWarning
	case LevelError:
		return theme.RoleError
	default:
		return theme.RoleMuted
	}
}

// UI is the display surface available to extensions.
type UI interface {
	// SetStatus sets the status line entry for key.
	SetStatus(key string, text theme.Text)

	// ClearStatus removes the status line entry for key.
	// Clearing a missing key is a no-op.
	ClearStatus(key string)

	// SetWorkingMessage overrides the in-progress indicator text.
	SetWorkingMessage(text string)

	// ResetWorkingMessage restores the default in-progress indicator text.
	ResetWorkingMessage()

	// Theme returns the active theme.
	Theme() *theme.Theme

	// IsIdle reports whether no operation is running.
	IsIdle() bool

	// Notify shows a transient message.
	Notify(msg string, level Level)
}

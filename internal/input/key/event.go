package key

import (
	"fmt"
	"strings"
	"unicode"
)

// Event represents a single key press.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(key Key, mods Modifier) Event {
	return Event{Key: key, Modifiers: mods}
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar returns true if this is a printable character without
// Ctrl, Alt or Meta held.
func (e Event) IsChar() bool {
	return e.IsRune() && unicode.IsPrint(e.Rune) && e.Modifiers&(ModCtrl|ModAlt|ModMeta) == 0
}

// IsCtrl returns true if this is Ctrl held with the given letter.
func (e Event) IsCtrl(r rune) bool {
	return e.Key == KeyRune && e.Modifiers == ModCtrl && e.Rune == unicode.ToLower(r)
}

// Equals returns true if two events represent the same key press.
func (e Event) Equals(other Event) bool {
	return e.Key == other.Key &&
		e.Rune == other.Rune &&
		e.Modifiers == other.Modifiers
}

// String returns a Vim-style representation.
// Examples: "a", "<Esc>", "<C-c>", "<CR>", "<A-f>"
func (e Event) String() string {
	// Shift is part of the character itself
	if e.IsChar() {
		if e.Rune == ' ' {
			return "<Space>"
		}
		return string(e.Rune)
	}

	var parts []string
	if e.Modifiers.HasCtrl() {
		parts = append(parts, "C")
	}
	if e.Modifiers.HasAlt() {
		parts = append(parts, "A")
	}
	if e.Modifiers.HasMeta() {
		parts = append(parts, "D")
	}
	if e.Modifiers.HasShift() && e.Key != KeyRune {
		parts = append(parts, "S")
	}

	var name string
	switch e.Key {
	case KeyRune:
		name = string(e.Rune)
		if e.Rune == ' ' {
			name = "Space"
		}
	case KeyEscape:
		name = "Esc"
	case KeyEnter:
		name = "CR"
	case KeyBackspace:
		name = "BS"
	case KeyDelete:
		name = "Del"
	default:
		name = e.Key.String()
	}
	parts = append(parts, name)

	return "<" + strings.Join(parts, "-") + ">"
}

// GoString implements fmt.GoStringer for debugging.
func (e Event) GoString() string {
	return fmt.Sprintf("Event{Key: %s, Rune: %q, Modifiers: %s}",
		e.Key.String(), e.Rune, e.Modifiers.String())
}

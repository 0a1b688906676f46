package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a key specification string into an Event.
//
// Supported formats:
//   - Single character: "a", "A", "@"
//   - Special keys: "Enter", "Escape", "Tab", "Backspace"
//   - With modifiers: "Ctrl+C", "Alt+F", "ctrl+shift+up"
//   - Vim-style: "<C-c>", "<A-f>", "<CR>", "<Esc>"
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	if len(spec) > 2 && strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseSeparated(spec[1:len(spec)-1], "-")
	}

	if len(spec) > 1 && strings.Contains(spec, "+") {
		return parseSeparated(spec, "+")
	}

	return parseKey(spec, ModNone)
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Event {
	ev, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return ev
}

// parseSeparated parses "C-c" or "Ctrl+C": every part but the last is a modifier.
func parseSeparated(spec, sep string) (Event, error) {
	parts := strings.Split(spec, sep)
	// "Ctrl++" and "<C-->" name the separator itself
	if len(parts) > 2 && parts[len(parts)-1] == "" && parts[len(parts)-2] == "" {
		parts = append(parts[:len(parts)-2], sep)
	}

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod := ModifierFromName(strings.TrimSpace(p))
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}

	return parseKey(parts[len(parts)-1], mods)
}

// parseKey parses a key part with already-known modifiers.
func parseKey(part string, mods Modifier) (Event, error) {
	part = strings.TrimSpace(part)
	if part == "" {
		return Event{}, ErrInvalidSpec
	}

	if k := KeyFromName(part); k != KeyNone {
		return NewSpecialEvent(k, mods), nil
	}
	if strings.EqualFold(part, "space") {
		return NewRuneEvent(' ', mods), nil
	}

	runes := []rune(part)
	if len(runes) != 1 {
		return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, part)
	}

	// Shift on a character is carried by the rune, not the modifier.
	r := runes[0]
	if mods.HasShift() {
		r = unicode.ToUpper(r)
		mods &^= ModShift
	}
	// Terminals cannot report case under Ctrl.
	if mods.HasCtrl() {
		r = unicode.ToLower(r)
	}

	return NewRuneEvent(r, mods), nil
}

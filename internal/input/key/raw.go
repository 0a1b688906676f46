package key

import (
	"unicode/utf8"
)

const esc = "\x1b"

// Specs of the terminal's conventional control keys.
const (
	Interrupt = "Ctrl+C"
	Cancel    = "Escape"
)

// csiSequences maps escape sequences emitted by common terminals to keys.
var csiSequences = map[string]Key{
	"\x1b[A":  KeyUp,
	"\x1b[B":  KeyDown,
	"\x1b[C":  KeyRight,
	"\x1b[D":  KeyLeft,
	"\x1b[H":  KeyHome,
	"\x1b[F":  KeyEnd,
	"\x1bOA":  KeyUp,
	"\x1bOB":  KeyDown,
	"\x1bOC":  KeyRight,
	"\x1bOD":  KeyLeft,
	"\x1bOH":  KeyHome,
	"\x1bOF":  KeyEnd,
	"\x1b[1~": KeyHome,
	"\x1b[2~": KeyInsert,
	"\x1b[3~": KeyDelete,
	"\x1b[4~": KeyEnd,
	"\x1b[5~": KeyPageUp,
	"\x1b[6~": KeyPageDown,
}

// encodeSequences is the canonical sequence written by Encode.
var encodeSequences = map[Key]string{
	KeyEscape:    esc,
	KeyEnter:     "\r",
	KeyTab:       "\t",
	KeyBackspace: "\x7f",
	KeyUp:        "\x1b[A",
	KeyDown:      "\x1b[B",
	KeyRight:     "\x1b[C",
	KeyLeft:      "\x1b[D",
	KeyHome:      "\x1b[H",
	KeyEnd:       "\x1b[F",
	KeyInsert:    "\x1b[2~",
	KeyDelete:    "\x1b[3~",
	KeyPageUp:    "\x1b[5~",
	KeyPageDown:  "\x1b[6~",
}

// Decode interprets a raw terminal input chunk as a single key press.
// It returns false when the chunk is empty, holds more than one key,
// or is an unrecognized escape sequence.
func Decode(data string) (Event, bool) {
	if data == "" {
		return Event{}, false
	}

	if k, ok := csiSequences[data]; ok {
		return NewSpecialEvent(k, ModNone), true
	}

	if data == esc {
		return NewSpecialEvent(KeyEscape, ModNone), true
	}

	// ESC followed by a single key is that key with Alt held
	if len(data) > 1 && data[:1] == esc {
		ev, ok := decodeSingle(data[1:])
		if !ok {
			return Event{}, false
		}
		ev.Modifiers = ev.Modifiers.With(ModAlt)
		return ev, true
	}

	return decodeSingle(data)
}

func decodeSingle(data string) (Event, bool) {
	r, size := utf8.DecodeRuneInString(data)
	if r == utf8.RuneError || size != len(data) {
		return Event{}, false
	}

	switch {
	case r == '\r' || r == '\n':
		return NewSpecialEvent(KeyEnter, ModNone), true
	case r == '\t':
		return NewSpecialEvent(KeyTab, ModNone), true
	case r == 0x7f || r == '\b':
		return NewSpecialEvent(KeyBackspace, ModNone), true
	case r == 0x1b:
		return NewSpecialEvent(KeyEscape, ModNone), true
	case r == 0:
		return NewRuneEvent(' ', ModCtrl), true
	case r >= 1 && r <= 26:
		return NewRuneEvent('a'+r-1, ModCtrl), true
	case r < 0x20:
		return Event{}, false
	}

	return NewRuneEvent(r, ModNone), true
}

// Encode returns the raw terminal chunk for a key press.
// Returns an empty string for events that have no terminal encoding.
func Encode(e Event) string {
	prefix := ""
	if e.Modifiers.HasAlt() {
		prefix = esc
	}

	if e.Key != KeyRune {
		seq, ok := encodeSequences[e.Key]
		if !ok {
			return ""
		}
		if e.Modifiers&^ModAlt != ModNone || (prefix != "" && len(seq) > 1) {
			// Modified special keys use xterm parameters we do not emit.
			return ""
		}
		return prefix + seq
	}

	if e.Rune == 0 {
		return ""
	}

	if e.Modifiers.HasCtrl() {
		switch {
		case e.Rune == ' ':
			return prefix + "\x00"
		case e.Rune >= 'a' && e.Rune <= 'z':
			return prefix + string(rune(e.Rune-'a'+1))
		default:
			return ""
		}
	}

	return prefix + string(e.Rune)
}

// Matches reports whether a raw input chunk is the key described by spec.
// An invalid spec never matches.
func Matches(data, spec string) bool {
	want, err := Parse(spec)
	if err != nil {
		return false
	}
	got, ok := Decode(data)
	if !ok {
		return false
	}
	return got.Equals(want)
}

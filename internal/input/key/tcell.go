package key

import (
	"github.com/gdamore/tcell/v2"
)

// FromTcell converts a tcell key event to an Event.
// Returns false for keys the input layer does not handle.
func FromTcell(ev *tcell.EventKey) (Event, bool) {
	mods := convertMod(ev.Modifiers())

	switch ev.Key() {
	case tcell.KeyRune:
		r := ev.Rune()
		if mods.HasCtrl() {
			r = toLower(r)
		}
		return NewRuneEvent(r, mods&^ModShift), true
	case tcell.KeyEscape:
		return NewSpecialEvent(KeyEscape, mods&^ModCtrl), true
	case tcell.KeyEnter:
		return NewSpecialEvent(KeyEnter, mods&^ModCtrl), true
	case tcell.KeyTab:
		return NewSpecialEvent(KeyTab, mods&^ModCtrl), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return NewSpecialEvent(KeyBackspace, mods&^ModCtrl), true
	case tcell.KeyDelete:
		return NewSpecialEvent(KeyDelete, mods), true
	case tcell.KeyInsert:
		return NewSpecialEvent(KeyInsert, mods), true
	case tcell.KeyHome:
		return NewSpecialEvent(KeyHome, mods), true
	case tcell.KeyEnd:
		return NewSpecialEvent(KeyEnd, mods), true
	case tcell.KeyPgUp:
		return NewSpecialEvent(KeyPageUp, mods), true
	case tcell.KeyPgDn:
		return NewSpecialEvent(KeyPageDown, mods), true
	case tcell.KeyUp:
		return NewSpecialEvent(KeyUp, mods), true
	case tcell.KeyDown:
		return NewSpecialEvent(KeyDown, mods), true
	case tcell.KeyLeft:
		return NewSpecialEvent(KeyLeft, mods), true
	case tcell.KeyRight:
		return NewSpecialEvent(KeyRight, mods), true
	}

	// Control characters share values with the named keys above,
	// so they are handled by range rather than by case.
	k := ev.Key()
	if k == tcell.KeyCtrlSpace {
		return NewRuneEvent(' ', ModCtrl), true
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return NewRuneEvent('a'+rune(k-tcell.KeyCtrlA), ModCtrl|(mods&ModAlt)), true
	}

	return Event{}, false
}

// ToTcell converts an Event to a tcell key event, the inverse of FromTcell.
func ToTcell(e Event) *tcell.EventKey {
	mods := convertToTcellMod(e.Modifiers)

	if e.Key == KeyRune {
		if e.Modifiers.HasCtrl() && e.Rune >= 'a' && e.Rune <= 'z' {
			return tcell.NewEventKey(tcell.KeyCtrlA+tcell.Key(e.Rune-'a'), 0, mods)
		}
		return tcell.NewEventKey(tcell.KeyRune, e.Rune, mods)
	}

	var k tcell.Key
	switch e.Key {
	case KeyEscape:
		k = tcell.KeyEscape
	case KeyEnter:
		k = tcell.KeyEnter
	case KeyTab:
		k = tcell.KeyTab
	case KeyBackspace:
		k = tcell.KeyBackspace2
	case KeyDelete:
		k = tcell.KeyDelete
	case KeyInsert:
		k = tcell.KeyInsert
	case KeyHome:
		k = tcell.KeyHome
	case KeyEnd:
		k = tcell.KeyEnd
	case KeyPageUp:
		k = tcell.KeyPgUp
	case KeyPageDown:
		k = tcell.KeyPgDn
	case KeyUp:
		k = tcell.KeyUp
	case KeyDown:
		k = tcell.KeyDown
	case KeyLeft:
		k = tcell.KeyLeft
	case KeyRight:
		k = tcell.KeyRight
	default:
		return nil
	}
	return tcell.NewEventKey(k, 0, mods)
}

func convertMod(m tcell.ModMask) Modifier {
	var mods Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(ModMeta)
	}
	return mods
}

func convertToTcellMod(m Modifier) tcell.ModMask {
	var mods tcell.ModMask
	if m.HasShift() {
		mods |= tcell.ModShift
	}
	if m.HasCtrl() {
		mods |= tcell.ModCtrl
	}
	if m.HasAlt() {
		mods |= tcell.ModAlt
	}
	if m.HasMeta() {
		mods |= tcell.ModMeta
	}
	return mods
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

package input

import (
	"strings"
	"time"
	"unicode"

	"github.com/dshills/keyguard/internal/clock"
	"github.com/dshills/keyguard/internal/input/key"
)

// LineEditor is a single-line prompt editor with history and a history
// autocomplete overlay. It is the default base Editor.
//
// LineEditor is not safe for concurrent use; it runs on the event loop.
type LineEditor struct {
	config  Config
	clock   clock.Clock
	actions Actions

	buf    []rune
	cursor int

	// history is oldest first; histPos == len(history) means editing a new line
	history []string
	histPos int
	draft   string

	// completion overlay; nil when hidden
	completions []string
	selected    int

	lastInterrupt time.Time
}

// NewLineEditor creates a line editor.
func NewLineEditor(config Config, clk clock.Clock, actions Actions) *LineEditor {
	def := DefaultConfig()
	if config.InterruptKey.Key == key.KeyNone {
		config.InterruptKey = def.InterruptKey
	}
	if config.CancelKey.Key == key.KeyNone {
		config.CancelKey = def.CancelKey
	}
	if config.InterruptWindow <= 0 {
		config.InterruptWindow = def.InterruptWindow
	}
	if config.HistorySize <= 0 {
		config.HistorySize = def.HistorySize
	}
	if config.MaxCompletions <= 0 {
		config.MaxCompletions = def.MaxCompletions
	}
	return &LineEditor{
		config:  config,
		clock:   clk,
		actions: actions,
	}
}

// SetActions replaces the host actions.
func (e *LineEditor) SetActions(actions Actions) {
	e.actions = actions
}

// Text returns the current buffer contents.
func (e *LineEditor) Text() string {
	return string(e.buf)
}

// Cursor returns the cursor position in runes.
func (e *LineEditor) Cursor() int {
	return e.cursor
}

// SetText replaces the buffer and moves the cursor to the end.
func (e *LineEditor) SetText(text string) {
	e.buf = []rune(text)
	e.cursor = len(e.buf)
}

// Clear empties the buffer and hides the overlay.
func (e *LineEditor) Clear() {
	e.buf = e.buf[:0]
	e.cursor = 0
	e.histPos = len(e.history)
	e.hideCompletions()
}

// History returns a copy of the submitted lines, oldest first.
func (e *LineEditor) History() []string {
	out := make([]string, len(e.history))
	copy(out, e.history)
	return out
}

// AddHistory appends a line to history.
// Blank lines and immediate repeats are not recorded.
func (e *LineEditor) AddHistory(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	if n := len(e.history); n > 0 && e.history[n-1] == line {
		e.histPos = len(e.history)
		return
	}
	e.history = append(e.history, line)
	if over := len(e.history) - e.config.HistorySize; over > 0 {
		e.history = append(e.history[:0], e.history[over:]...)
	}
	e.histPos = len(e.history)
}

// IsShowingAutocomplete reports whether the completion overlay is visible.
func (e *LineEditor) IsShowingAutocomplete() bool {
	return len(e.completions) > 0
}

// Completions returns the overlay entries and the selected index.
func (e *LineEditor) Completions() ([]string, int) {
	return e.completions, e.selected
}

// HandleInput processes one raw input chunk.
func (e *LineEditor) HandleInput(data string) {
	ev, ok := key.Decode(data)
	if !ok {
		// Multi-rune chunks are pastes
		e.lastInterrupt = time.Time{}
		e.insertText(data)
		return
	}

	if ev.Equals(e.config.InterruptKey) {
		e.handleInterrupt()
		return
	}
	e.lastInterrupt = time.Time{}

	switch {
	case ev.Equals(e.config.CancelKey):
		if e.IsShowingAutocomplete() {
			e.hideCompletions()
			return
		}
		if e.actions.Abort != nil {
			e.actions.Abort()
		}
	case ev.Key == key.KeyEnter:
		e.handleEnter()
	case ev.Key == key.KeyTab:
		e.handleTab()
	case ev.Key == key.KeyUp:
		if e.IsShowingAutocomplete() {
			e.moveSelection(-1)
			return
		}
		e.historyPrev()
	case ev.Key == key.KeyDown:
		if e.IsShowingAutocomplete() {
			e.moveSelection(1)
			return
		}
		e.historyNext()
	case ev.Key == key.KeyLeft || ev.IsCtrl('b'):
		if e.cursor > 0 {
			e.cursor--
		}
	case ev.Key == key.KeyRight || ev.IsCtrl('f'):
		if e.cursor < len(e.buf) {
			e.cursor++
		}
	case ev.Key == key.KeyHome || ev.IsCtrl('a'):
		e.cursor = 0
	case ev.Key == key.KeyEnd || ev.IsCtrl('e'):
		e.cursor = len(e.buf)
	case ev.Key == key.KeyBackspace:
		if e.cursor > 0 {
			e.buf = append(e.buf[:e.cursor-1], e.buf[e.cursor:]...)
			e.cursor--
			e.refreshCompletions()
		}
	case ev.Key == key.KeyDelete || ev.IsCtrl('d'):
		if e.cursor < len(e.buf) {
			e.buf = append(e.buf[:e.cursor], e.buf[e.cursor+1:]...)
			e.refreshCompletions()
		}
	case ev.IsCtrl('u'):
		e.buf = append(e.buf[:0], e.buf[e.cursor:]...)
		e.cursor = 0
		e.refreshCompletions()
	case ev.IsCtrl('k'):
		e.buf = e.buf[:e.cursor]
		e.refreshCompletions()
	case ev.IsChar():
		e.insertText(string(ev.Rune))
	}
}

// handleInterrupt clears the line on the first press and exits on a second
// press within the interrupt window.
func (e *LineEditor) handleInterrupt() {
	now := e.clock.Now()
	if !e.lastInterrupt.IsZero() && now.Sub(e.lastInterrupt) < e.config.InterruptWindow {
		e.lastInterrupt = time.Time{}
		if e.actions.Exit != nil {
			e.actions.Exit()
		}
		return
	}
	e.lastInterrupt = now
	e.Clear()
}

func (e *LineEditor) handleEnter() {
	if e.IsShowingAutocomplete() {
		e.SetText(e.completions[e.selected])
		e.hideCompletions()
		return
	}

	text := e.Text()
	if strings.TrimSpace(text) == "" {
		return
	}
	e.AddHistory(text)
	e.Clear()
	if e.actions.Submit != nil {
		e.actions.Submit(text)
	}
}

func (e *LineEditor) handleTab() {
	if e.IsShowingAutocomplete() {
		e.moveSelection(1)
		return
	}
	e.completions = rankCompletions(e.Text(), e.newestFirst(), e.config.MaxCompletions)
	e.selected = 0
}

func (e *LineEditor) insertText(text string) {
	var ins []rune
	for _, r := range text {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			ins = append(ins, ' ')
		case unicode.IsPrint(r):
			ins = append(ins, r)
		}
	}
	if len(ins) == 0 {
		return
	}

	tail := append([]rune(nil), e.buf[e.cursor:]...)
	e.buf = append(append(e.buf[:e.cursor], ins...), tail...)
	e.cursor += len(ins)
	e.refreshCompletions()
}

func (e *LineEditor) historyPrev() {
	if e.histPos == 0 {
		return
	}
	if e.histPos == len(e.history) {
		e.draft = e.Text()
	}
	e.histPos--
	e.SetText(e.history[e.histPos])
}

func (e *LineEditor) historyNext() {
	if e.histPos >= len(e.history) {
		return
	}
	e.histPos++
	if e.histPos == len(e.history) {
		e.SetText(e.draft)
		return
	}
	e.SetText(e.history[e.histPos])
}

// refreshCompletions re-filters a visible overlay after an edit.
func (e *LineEditor) refreshCompletions() {
	if !e.IsShowingAutocomplete() {
		return
	}
	e.completions = rankCompletions(e.Text(), e.newestFirst(), e.config.MaxCompletions)
	e.selected = 0
}

func (e *LineEditor) moveSelection(delta int) {
	n := len(e.completions)
	e.selected = ((e.selected+delta)%n + n) % n
}

func (e *LineEditor) hideCompletions() {
	e.completions = nil
	e.selected = 0
}

func (e *LineEditor) newestFirst() []string {
	out := make([]string, len(e.history))
	for i, h := range e.history {
		out[len(e.history)-1-i] = h
	}
	return out
}

package ui

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/keyguard/internal/theme"
)

// InputView exposes the editor state the surface draws on the prompt line.
type InputView interface {
	Text() string
	Cursor() int
	Completions() ([]string, int)
}

// Notification is a message shown on the status line.
type Notification struct {
	Message string
	Level   Level
}

// Config configures a Surface.
type Config struct {
	// WorkingMessage is the default in-progress indicator text.
	// Default: "Working..."
	WorkingMessage string

	// Spinner holds the indicator animation frames, one grapheme each.
	// Default: braille dots
	Spinner string

	// Prompt is drawn before the input text.
	// Default: "> "
	Prompt string

	// MaxTranscript is the number of output lines kept.
	// Default: 500
	MaxTranscript int

	// MaxNotifications is the number of notifications kept.
	// Default: 20
	MaxNotifications int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		WorkingMessage:   "Working...",
		Spinner:          "⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏",
		Prompt:           "> ",
		MaxTranscript:    500,
		MaxNotifications: 20,
	}
}

// Surface is the terminal UI: a transcript, a working indicator, the prompt
// line with its completion overlay, and a keyed status line.
//
// Surface is not safe for concurrent use; it is driven from the event loop.
type Surface struct {
	config Config
	theme  *theme.Theme
	input  InputView

	statusKeys []string
	status     map[string]theme.Text

	working string
	busy    bool
	frames  []string
	frame   int

	transcript    []string
	notifications []Notification
}

// NewSurface creates a surface. A nil theme uses theme.Default().
func NewSurface(config Config, th *theme.Theme) *Surface {
	def := DefaultConfig()
	if config.WorkingMessage == "" {
		config.WorkingMessage = def.WorkingMessage
	}
	if config.Spinner == "" {
		config.Spinner = def.Spinner
	}
	if config.Prompt == "" {
		config.Prompt = def.Prompt
	}
	if config.MaxTranscript <= 0 {
		config.MaxTranscript = def.MaxTranscript
	}
	if config.MaxNotifications <= 0 {
		config.MaxNotifications = def.MaxNotifications
	}
	if th == nil {
		th = theme.Default()
	}

	return &Surface{
		config:  config,
		theme:   th,
		status:  make(map[string]theme.Text),
		working: config.WorkingMessage,
		frames:  graphemes(config.Spinner),
	}
}

// SetInput sets the editor state drawn on the prompt line.
func (s *Surface) SetInput(v InputView) {
	s.input = v
}

// SetStatus implements UI.
func (s *Surface) SetStatus(key string, text theme.Text) {
	if _, ok := s.status[key]; !ok {
		s.statusKeys = append(s.statusKeys, key)
	}
	s.status[key] = text
}

// ClearStatus implements UI.
func (s *Surface) ClearStatus(key string) {
	if _, ok := s.status[key]; !ok {
		return
	}
	delete(s.status, key)
	for i, k := range s.statusKeys {
		if k == key {
			s.statusKeys = append(s.statusKeys[:i], s.statusKeys[i+1:]...)
			break
		}
	}
}

// Status returns the status entry for key.
func (s *Surface) Status(key string) (theme.Text, bool) {
	t, ok := s.status[key]
	return t, ok
}

// StatusLine returns the status entries in insertion order.
func (s *Surface) StatusLine() []theme.Text {
	out := make([]theme.Text, 0, len(s.statusKeys))
	for _, k := range s.statusKeys {
		out = append(out, s.status[k])
	}
	return out
}

// SetWorkingMessage implements UI.
func (s *Surface) SetWorkingMessage(text string) {
	s.working = text
}

// ResetWorkingMessage implements UI.
func (s *Surface) ResetWorkingMessage() {
	s.working = s.config.WorkingMessage
}

// WorkingMessage returns the current in-progress indicator text.
func (s *Surface) WorkingMessage() string {
	return s.working
}

// Theme implements UI.
func (s *Surface) Theme() *theme.Theme {
	return s.theme
}

// SetTheme replaces the theme.
func (s *Surface) SetTheme(th *theme.Theme) {
	if th != nil {
		s.theme = th
	}
}

// SetBusy marks whether an operation is running.
func (s *Surface) SetBusy(busy bool) {
	s.busy = busy
	if !busy {
		s.frame = 0
	}
}

// IsIdle implements UI.
func (s *Surface) IsIdle() bool {
	return !s.busy
}

// Tick advances the working indicator animation.
func (s *Surface) Tick() {
	if s.busy && len(s.frames) > 0 {
		s.frame = (s.frame + 1) % len(s.frames)
	}
}

// Notify implements UI.
func (s *Surface) Notify(msg string, level Level) {
	s.notifications = append(s.notifications, Notification{Message: msg, Level: level})
	if over := len(s.notifications) - s.config.MaxNotifications; over > 0 {
		s.notifications = append(s.notifications[:0], s.notifications[over:]...)
	}
}

// Notifications returns the kept notifications, oldest first.
func (s *Surface) Notifications() []Notification {
	out := make([]Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// AppendOutput adds lines to the transcript. Embedded newlines split lines.
func (s *Surface) AppendOutput(text string) {
	text = strings.TrimRight(text, "\n")
	s.transcript = append(s.transcript, strings.Split(text, "\n")...)
	if over := len(s.transcript) - s.config.MaxTranscript; over > 0 {
		s.transcript = append(s.transcript[:0], s.transcript[over:]...)
	}
}

// Transcript returns the kept output lines.
func (s *Surface) Transcript() []string {
	out := make([]string, len(s.transcript))
	copy(out, s.transcript)
	return out
}

func graphemes(s string) []string {
	var out []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

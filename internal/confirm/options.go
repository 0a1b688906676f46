package confirm

import (
	"time"

	"github.com/dshills/keyguard/internal/config"
	"github.com/dshills/keyguard/internal/input/key"
)

// Section is the options section holding the confirm settings.
const Section = "confirm"

// Options configures the confirm gestures.
type Options struct {
	// InterruptWindow is how long after a first interrupt press a second
	// one confirms.
	// Default: 500ms
	InterruptWindow time.Duration

	// CancelWindow is how long after a first cancel press a second one
	// confirms.
	// Default: 1200ms
	CancelWindow time.Duration

	// StatusKey is the status line entry the interrupt hint is drawn in.
	StatusKey string

	// InterruptHint is the acknowledgement shown after the first interrupt.
	InterruptHint string

	// InterruptInstruction follows InterruptHint, dimmed.
	InterruptInstruction string

	// CancelHint replaces the working message after the first cancel.
	CancelHint string

	// InterruptKey and CancelKey are the guarded key specs.
	InterruptKey string
	CancelKey    string
}

// DefaultOptions returns the built-in settings.
func DefaultOptions() Options {
	return Options{
		InterruptWindow:      500 * time.Millisecond,
		CancelWindow:         1200 * time.Millisecond,
		StatusKey:            "confirm",
		InterruptHint:        "Cleared",
		InterruptInstruction: " · Ctrl+C again to exit",
		CancelHint:           "Working... Esc again aborts",
		InterruptKey:         key.Interrupt,
		CancelKey:            key.Cancel,
	}
}

// Values returns o as an options section. Durations are milliseconds.
func (o Options) Values() map[string]any {
	return map[string]any{
		"interruptWindow":      o.InterruptWindow.Milliseconds(),
		"cancelWindow":         o.CancelWindow.Milliseconds(),
		"statusKey":            o.StatusKey,
		"interruptHint":        o.InterruptHint,
		"interruptInstruction": o.InterruptInstruction,
		"cancelHint":           o.CancelHint,
		"interruptKey":         o.InterruptKey,
		"cancelKey":            o.CancelKey,
	}
}

// OptionsFrom reads the confirm section of store. Missing, mistyped or
// invalid values fall back to the defaults.
func OptionsFrom(store *config.Options) Options {
	def := DefaultOptions()
	if store == nil {
		return def
	}
	return Options{
		InterruptWindow:      store.Duration(Section+".interruptWindow", def.InterruptWindow),
		CancelWindow:         store.Duration(Section+".cancelWindow", def.CancelWindow),
		StatusKey:            store.String(Section+".statusKey", def.StatusKey),
		InterruptHint:        store.String(Section+".interruptHint", def.InterruptHint),
		InterruptInstruction: store.String(Section+".interruptInstruction", def.InterruptInstruction),
		CancelHint:           store.String(Section+".cancelHint", def.CancelHint),
		InterruptKey:         store.String(Section+".interruptKey", def.InterruptKey),
		CancelKey:            store.String(Section+".cancelKey", def.CancelKey),
	}.Validate()
}

// Validate returns o with invalid values replaced by the defaults.
// When a guarded key is changed but its hint text is not, the hint names
// the configured key.
func (o Options) Validate() Options {
	def := DefaultOptions()
	if o.InterruptWindow <= 0 {
		o.InterruptWindow = def.InterruptWindow
	}
	if o.CancelWindow <= 0 {
		o.CancelWindow = def.CancelWindow
	}
	if o.StatusKey == "" {
		o.StatusKey = def.StatusKey
	}
	interrupt, err := key.Parse(o.InterruptKey)
	if err != nil {
		o.InterruptKey = def.InterruptKey
		interrupt = key.MustParse(def.InterruptKey)
	}
	cancel, err := key.Parse(o.CancelKey)
	if err != nil {
		o.CancelKey = def.CancelKey
		cancel = key.MustParse(def.CancelKey)
	}
	if !interrupt.Equals(key.MustParse(def.InterruptKey)) && o.InterruptInstruction == def.InterruptInstruction {
		o.InterruptInstruction = " · " + o.InterruptKey + " again to exit"
	}
	if !cancel.Equals(key.MustParse(def.CancelKey)) && o.CancelHint == def.CancelHint {
		o.CancelHint = "Working... " + o.CancelKey + " again aborts"
	}
	return o
}

// Keys returns the parsed interrupt and cancel keys. Invalid specs give
// the default keys.
func (o Options) Keys() (interrupt, cancel key.Event) {
	o = o.Validate()
	return key.MustParse(o.InterruptKey), key.MustParse(o.CancelKey)
}

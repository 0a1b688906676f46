package confirm

import (
	"time"

	"github.com/dshills/keyguard/internal/clock"
	"github.com/dshills/keyguard/internal/input"
	"github.com/dshills/keyguard/internal/input/key"
	"github.com/dshills/keyguard/internal/logging"
)

// Arbiter decorates a base editor with the two-stage confirm gestures.
//
// Every chunk is either forwarded to the base unchanged or, for the first
// cancel press during an operation, swallowed. The Arbiter only keeps the
// two press times; all feedback goes through Hints.
type Arbiter struct {
	base    input.Editor
	hints   Hints
	idle    func() bool
	clock   clock.Clock
	options Options
	logger  *logging.Logger

	// zero means no press inside any window
	lastInterrupt time.Time
	lastCancel    time.Time
}

// NewArbiter creates an arbiter forwarding to base. idle reports whether
// the host is idle; a nil idle always reports idle.
func NewArbiter(base input.Editor, hints Hints, idle func() bool, clk clock.Clock, options Options, logger *logging.Logger) *Arbiter {
	if logger == nil {
		logger = logging.Null
	}
	return &Arbiter{
		base:    base,
		hints:   hints,
		idle:    idle,
		clock:   clk,
		options: options.Validate(),
		logger:  logger,
	}
}

// rebase forwards to base from now on. Press times are kept.
func (a *Arbiter) rebase(base input.Editor) {
	a.base = base
}

// IsShowingAutocomplete reports the base editor's overlay state.
func (a *Arbiter) IsShowingAutocomplete() bool {
	return a.base.IsShowingAutocomplete()
}

// HandleInput implements input.Handler.
func (a *Arbiter) HandleInput(data string) {
	switch {
	case key.Matches(data, a.options.InterruptKey):
		a.handleInterrupt(data)
	case key.Matches(data, a.options.CancelKey):
		a.handleCancel(data)
	default:
		a.hints.ClearInterruptHint()
		a.hints.ClearCancelHint()
		a.lastInterrupt = time.Time{}
		a.lastCancel = time.Time{}
		a.base.HandleInput(data)
	}
}

func (a *Arbiter) handleInterrupt(data string) {
	// The other gesture is dropped first, even when no hint is showing.
	a.hints.ClearCancelHint()
	a.lastCancel = time.Time{}

	now := a.clock.Now()
	if within(now, a.lastInterrupt, a.options.InterruptWindow) {
		a.hints.ClearInterruptHint()
		a.lastInterrupt = time.Time{}
		a.base.HandleInput(data)
		return
	}

	a.lastInterrupt = now
	a.hints.ShowInterruptHint()
	a.base.HandleInput(data)
}

func (a *Arbiter) handleCancel(data string) {
	a.hints.ClearInterruptHint()
	a.lastInterrupt = time.Time{}

	if a.base.IsShowingAutocomplete() || a.hostIdle() {
		a.hints.ClearCancelHint()
		a.lastCancel = time.Time{}
		a.base.HandleInput(data)
		return
	}

	now := a.clock.Now()
	if within(now, a.lastCancel, a.options.CancelWindow) {
		a.hints.ClearCancelHint()
		a.lastCancel = time.Time{}
		a.base.HandleInput(data)
		return
	}

	a.lastCancel = now
	a.hints.ShowCancelHint()
}

// hostIdle asks the host whether it is idle. A failing query counts as
// idle so the key is never swallowed on its account.
func (a *Arbiter) hostIdle() (idle bool) {
	if a.idle == nil {
		return true
	}
	defer func() {
		if r := recover(); r != nil {
			a.logger.Warn("busy query failed, treating host as idle: %v", r)
			idle = true
		}
	}()
	return a.idle()
}

func within(now, last time.Time, window time.Duration) bool {
	return !last.IsZero() && now.Sub(last) < window
}

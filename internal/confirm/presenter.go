package confirm

import (
	"github.com/dshills/keyguard/internal/clock"
	"github.com/dshills/keyguard/internal/ui"
)

// Hints is the feedback the Arbiter drives. Clear methods are idempotent.
type Hints interface {
	ShowInterruptHint()
	ClearInterruptHint()
	ShowCancelHint()
	ClearCancelHint()
}

// Presenter draws the two confirm hints and clears them when their window
// runs out. At most one auto-clear timer per hint is pending.
type Presenter struct {
	ui      ui.UI
	clock   clock.Clock
	options Options

	interruptTimer   clock.Timer
	cancelTimer      clock.Timer
	cancelHintActive bool
}

// NewPresenter creates a presenter drawing into surface. Invalid options
// fall back to the defaults.
func NewPresenter(surface ui.UI, clk clock.Clock, options Options) *Presenter {
	return &Presenter{ui: surface, clock: clk, options: options.Validate()}
}

// ShowInterruptHint shows the status line hint and schedules its removal.
func (p *Presenter) ShowInterruptHint() {
	p.stopInterruptTimer()

	th := p.ui.Theme()
	p.ui.SetStatus(p.options.StatusKey,
		th.Warning(p.options.InterruptHint).Concat(th.Dim(p.options.InterruptInstruction)))
	p.interruptTimer = p.clock.AfterFunc(p.options.InterruptWindow, p.ClearInterruptHint)
}

// ClearInterruptHint removes the status line hint.
func (p *Presenter) ClearInterruptHint() {
	p.stopInterruptTimer()
	p.ui.ClearStatus(p.options.StatusKey)
}

// ShowCancelHint replaces the working message and schedules its restore.
func (p *Presenter) ShowCancelHint() {
	p.stopCancelTimer()

	p.ui.SetWorkingMessage(p.options.CancelHint)
	p.cancelHintActive = true
	p.cancelTimer = p.clock.AfterFunc(p.options.CancelWindow, p.ClearCancelHint)
}

// ClearCancelHint restores the default working message if the cancel hint
// is showing.
func (p *Presenter) ClearCancelHint() {
	p.stopCancelTimer()
	if !p.cancelHintActive {
		return
	}
	p.ui.ResetWorkingMessage()
	p.cancelHintActive = false
}

// CancelHintActive reports whether the cancel hint is showing.
func (p *Presenter) CancelHintActive() bool {
	return p.cancelHintActive
}

// Close clears both hints and stops both timers.
func (p *Presenter) Close() {
	p.ClearInterruptHint()
	p.ClearCancelHint()
}

func (p *Presenter) stopInterruptTimer() {
	if p.interruptTimer != nil {
		p.interruptTimer.Stop()
		p.interruptTimer = nil
	}
}

func (p *Presenter) stopCancelTimer() {
	if p.cancelTimer != nil {
		p.cancelTimer.Stop()
		p.cancelTimer = nil
	}
}

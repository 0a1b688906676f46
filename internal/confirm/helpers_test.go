package confirm

import (
	"time"

	"github.com/dshills/keyguard/internal/clock"
	"github.com/dshills/keyguard/internal/theme"
	"github.com/dshills/keyguard/internal/ui"
)

// recordingUI is a ui.UI that keeps the latest state and counts calls.
type recordingUI struct {
	status      map[string]theme.Text
	working     string
	resets      int
	clears      int
	idle        bool
	idlePanics  bool
	idleQueries int
}

func newRecordingUI() *recordingUI {
	return &recordingUI{status: make(map[string]theme.Text), idle: true}
}

func (r *recordingUI) SetStatus(key string, text theme.Text) { r.status[key] = text }

func (r *recordingUI) ClearStatus(key string) {
	r.clears++
	delete(r.status, key)
}

func (r *recordingUI) SetWorkingMessage(text string) { r.working = text }

func (r *recordingUI) ResetWorkingMessage() {
	r.resets++
	r.working = ""
}

func (r *recordingUI) Theme() *theme.Theme { return theme.Default() }

func (r *recordingUI) IsIdle() bool {
	r.idleQueries++
	if r.idlePanics {
		panic("host gone")
	}
	return r.idle
}

func (r *recordingUI) Notify(string, ui.Level) {}

func (r *recordingUI) hint() string {
	return r.status[DefaultOptions().StatusKey].String()
}

// stubEditor records forwarded input.
type stubEditor struct {
	got          []string
	autocomplete bool
}

func (s *stubEditor) HandleInput(data string)      { s.got = append(s.got, data) }
func (s *stubEditor) IsShowingAutocomplete() bool { return s.autocomplete }

// recordingHints logs Hints calls in order.
type recordingHints struct {
	calls []string
}

func (r *recordingHints) ShowInterruptHint()  { r.calls = append(r.calls, "show-interrupt") }
func (r *recordingHints) ClearInterruptHint() { r.calls = append(r.calls, "clear-interrupt") }
func (r *recordingHints) ShowCancelHint()     { r.calls = append(r.calls, "show-cancel") }
func (r *recordingHints) ClearCancelHint()    { r.calls = append(r.calls, "clear-cancel") }

const (
	ctrlC  = "\x03"
	escKey = "\x1b"
)

type fixture struct {
	clock     *clock.Fake
	ui        *recordingUI
	base      *stubEditor
	presenter *Presenter
	arbiter   *Arbiter
}

func newFixture() *fixture {
	f := &fixture{
		clock: clock.NewFake(time.Unix(1000, 0)),
		ui:    newRecordingUI(),
		base:  &stubEditor{},
	}
	f.presenter = NewPresenter(f.ui, f.clock, DefaultOptions())
	f.arbiter = NewArbiter(f.base, f.presenter, f.ui.IsIdle, f.clock, DefaultOptions(), nil)
	return f
}

// pressAt advances the clock to offset from the fixture start and sends data.
func (f *fixture) pressAt(offset time.Duration, data string) {
	start := time.Unix(1000, 0)
	if d := start.Add(offset).Sub(f.clock.Now()); d > 0 {
		f.clock.Advance(d)
	}
	f.arbiter.HandleInput(data)
}

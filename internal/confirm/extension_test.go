package confirm

import (
	"context"
	"testing"
	"time"

	"github.com/dshills/keyguard/internal/clock"
	"github.com/dshills/keyguard/internal/config"
	"github.com/dshills/keyguard/internal/extension"
	"github.com/dshills/keyguard/internal/operation"
)

func startSession(t *testing.T, surface *recordingUI, opts *config.Options) (*extension.Manager, *Extension, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(time.Unix(1000, 0))
	ext := NewExtension(clk)
	m := extension.NewManager(nil, nil)
	if err := m.Register(ext); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	var session *extension.Context
	if surface != nil {
		session = extension.NewContext(surface, opts, nil)
	} else {
		session = extension.NewContext(nil, opts, nil)
	}
	if errs := m.Start(context.Background(), session); len(errs) != 0 {
		t.Fatalf("Start() errors = %v", errs)
	}
	return m, ext, clk
}

func TestSessionStartInstallsArbiter(t *testing.T) {
	opts := config.New()
	m, ext, _ := startSession(t, newRecordingUI(), opts)

	base := &stubEditor{}
	h := m.EditorComponent(base)
	a, ok := h.(*Arbiter)
	if !ok {
		t.Fatalf("EditorComponent() = %T, want *Arbiter", h)
	}
	if m.EditorComponent(base) != h {
		t.Error("EditorComponent() built a second arbiter for the same base")
	}
	if a.hints != ext.Presenter() {
		t.Error("arbiter not wired to the session presenter")
	}

	if v, _ := opts.Get("confirm.cancelWindow"); v != int64(1200) {
		t.Errorf("confirm.cancelWindow default = %v", v)
	}
	if s := opts.String("theme.warning", ""); s == "" {
		t.Error("theme defaults not applied")
	}
}

func TestSessionStartReadsUserOptions(t *testing.T) {
	opts := config.New()
	_ = opts.Set("confirm.cancelWindow", "2s")
	_ = opts.Set("confirm.cancelHint", "Esc again to stop")

	surface := newRecordingUI()
	surface.idle = false
	m, _, clk := startSession(t, surface, opts)

	base := &stubEditor{}
	h := m.EditorComponent(base)
	h.HandleInput(escKey)
	if surface.working != "Esc again to stop" {
		t.Errorf("working = %q", surface.working)
	}

	clk.Advance(1500 * time.Millisecond)
	h.HandleInput(escKey)
	if len(base.got) != 1 {
		t.Errorf("second Escape inside the configured window not forwarded")
	}
}

func TestHeadlessSessionIsInert(t *testing.T) {
	opts := config.New()
	m, ext, _ := startSession(t, nil, opts)

	base := &stubEditor{}
	if h := m.EditorComponent(base); h != base {
		t.Errorf("EditorComponent() = %T, want the base editor", h)
	}
	if ext.Presenter() != nil {
		t.Error("presenter built without a UI")
	}
	if _, ok := opts.Get("confirm"); ok {
		t.Error("defaults applied without a UI")
	}

	ctx := context.Background()
	if errs := m.EndOperation(ctx, operation.Info{}); len(errs) != 0 {
		t.Errorf("EndOperation() errors = %v", errs)
	}
	if errs := m.End(ctx); len(errs) != 0 {
		t.Errorf("End() errors = %v", errs)
	}
}

func TestOperationEndClearsCancelHint(t *testing.T) {
	surface := newRecordingUI()
	surface.idle = false
	m, ext, clk := startSession(t, surface, config.New())

	h := m.EditorComponent(&stubEditor{})
	h.HandleInput(escKey)
	if !ext.Presenter().CancelHintActive() {
		t.Fatal("cancel hint not shown")
	}

	m.EndOperation(context.Background(), operation.Info{Command: "sleep 5", Aborted: false})
	if surface.working != "" || surface.resets != 1 {
		t.Errorf("working = %q resets = %d after operation end", surface.working, surface.resets)
	}
	if clk.Pending() != 0 {
		t.Errorf("Pending() = %d, auto-clear still scheduled", clk.Pending())
	}
}

func TestOperationEndWithoutHintLeavesWorkingMessage(t *testing.T) {
	surface := newRecordingUI()
	m, _, _ := startSession(t, surface, config.New())

	surface.working = "Compiling"
	m.EndOperation(context.Background(), operation.Info{})
	if surface.working != "Compiling" || surface.resets != 0 {
		t.Errorf("working = %q resets = %d", surface.working, surface.resets)
	}
}

func TestSessionEndClearsBothHints(t *testing.T) {
	surface := newRecordingUI()
	m, ext, clk := startSession(t, surface, config.New())

	h := m.EditorComponent(&stubEditor{})
	h.HandleInput(ctrlC)
	ext.Presenter().ShowCancelHint()

	m.End(context.Background())
	if surface.hint() != "" || surface.working != "" {
		t.Errorf("hints left after session end: %q %q", surface.hint(), surface.working)
	}
	if clk.Pending() != 0 {
		t.Errorf("Pending() = %d after session end", clk.Pending())
	}
	if ext.Presenter() != nil {
		t.Error("presenter kept after session end")
	}
}

func TestOptionsFromFallsBack(t *testing.T) {
	opts := config.New()
	_ = opts.Set("confirm.interruptWindow", -5)
	_ = opts.Set("confirm.statusKey", "")
	_ = opts.Set("confirm.interruptKey", "notakey")
	_ = opts.Set("confirm.cancelHint", 42)

	got := OptionsFrom(opts)
	def := DefaultOptions()
	if got != def {
		t.Errorf("OptionsFrom() = %+v\nwant %+v", got, def)
	}
	if OptionsFrom(nil) != def {
		t.Error("OptionsFrom(nil) is not the defaults")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		edit        func(*Options)
		instruction string
		cancelHint  string
	}{
		{"defaults", func(*Options) {}, " · Ctrl+C again to exit", "Working... Esc again aborts"},
		{"same key other spelling", func(o *Options) { o.InterruptKey = "<C-c>" }, " · Ctrl+C again to exit", "Working... Esc again aborts"},
		{"custom interrupt key", func(o *Options) { o.InterruptKey = "Ctrl+G" }, " · Ctrl+G again to exit", "Working... Esc again aborts"},
		{"custom cancel key", func(o *Options) { o.CancelKey = "Ctrl+X" }, " · Ctrl+C again to exit", "Working... Ctrl+X again aborts"},
		{"custom key keeps custom text", func(o *Options) {
			o.InterruptKey = "Ctrl+G"
			o.InterruptInstruction = " (G quits)"
		}, " (G quits)", "Working... Esc again aborts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			tt.edit(&o)
			got := o.Validate()
			if got.InterruptInstruction != tt.instruction {
				t.Errorf("InterruptInstruction = %q, want %q", got.InterruptInstruction, tt.instruction)
			}
			if got.CancelHint != tt.cancelHint {
				t.Errorf("CancelHint = %q, want %q", got.CancelHint, tt.cancelHint)
			}
		})
	}
}

func TestValidateWindows(t *testing.T) {
	o := DefaultOptions()
	o.InterruptWindow = 0
	o.CancelWindow = -time.Second
	o.StatusKey = ""
	if got := o.Validate(); got != DefaultOptions() {
		t.Errorf("Validate() = %+v\nwant %+v", got, DefaultOptions())
	}
}

// valueEditor is an input.Editor whose dynamic type cannot be compared.
type valueEditor struct {
	got *[]string
	_   []int
}

func (v valueEditor) HandleInput(data string)      { *v.got = append(*v.got, data) }
func (v valueEditor) IsShowingAutocomplete() bool { return false }

func TestEditorComponentKeepsPressesAcrossBases(t *testing.T) {
	m, _, clk := startSession(t, newRecordingUI(), config.New())

	var first, second []string
	h := m.EditorComponent(valueEditor{got: &first})
	h.HandleInput(ctrlC)

	clk.Advance(100 * time.Millisecond)
	h2 := m.EditorComponent(valueEditor{got: &second})
	if h2 != h {
		t.Fatal("EditorComponent() built a second arbiter in one session")
	}
	h2.HandleInput(ctrlC)
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("forwarded first = %v second = %v", first, second)
	}
	if clk.Pending() != 0 {
		t.Error("second press was not a confirmation")
	}
}

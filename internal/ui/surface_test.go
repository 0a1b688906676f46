package ui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyguard/internal/theme"
)

type fakeInput struct {
	text     string
	cursor   int
	items    []string
	selected int
}

func (f *fakeInput) Text() string                 { return f.text }
func (f *fakeInput) Cursor() int                  { return f.cursor }
func (f *fakeInput) Completions() ([]string, int) { return f.items, f.selected }

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func rowText(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		mainc, _, _, _ := s.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
		if mainc == 0 {
			mainc = ' '
		}
		b.WriteRune(mainc)
	}
	return strings.TrimRight(b.String(), " ")
}

func TestSurfaceStatusEntries(t *testing.T) {
	s := NewSurface(DefaultConfig(), nil)
	th := s.Theme()

	s.SetStatus("b", th.Warning("second"))
	s.SetStatus("a", th.Dim("first"))
	s.SetStatus("b", th.Warning("updated"))

	line := s.StatusLine()
	if len(line) != 2 {
		t.Fatalf("StatusLine() = %v", line)
	}
	if line[0].String() != "updated" || line[1].String() != "first" {
		t.Errorf("order = %q, %q; want updated, first", line[0].String(), line[1].String())
	}

	s.ClearStatus("b")
	s.ClearStatus("b")
	s.ClearStatus("missing")
	if _, ok := s.Status("b"); ok {
		t.Error("status b still present")
	}
	if got := s.StatusLine(); len(got) != 1 || got[0].String() != "first" {
		t.Errorf("StatusLine() after clear = %v", got)
	}
}

func TestSurfaceWorkingMessage(t *testing.T) {
	s := NewSurface(Config{WorkingMessage: "Busy..."}, nil)
	if s.WorkingMessage() != "Busy..." {
		t.Fatalf("WorkingMessage() = %q", s.WorkingMessage())
	}

	s.SetWorkingMessage("Working... Esc again aborts")
	if s.WorkingMessage() != "Working... Esc again aborts" {
		t.Errorf("WorkingMessage() = %q", s.WorkingMessage())
	}

	s.ResetWorkingMessage()
	if s.WorkingMessage() != "Busy..." {
		t.Errorf("after reset WorkingMessage() = %q", s.WorkingMessage())
	}
}

func TestSurfaceBusyAndTick(t *testing.T) {
	s := NewSurface(Config{Spinner: "ab"}, nil)
	if !s.IsIdle() {
		t.Fatal("new surface should be idle")
	}

	s.Tick()
	if s.frame != 0 {
		t.Error("Tick advanced while idle")
	}

	s.SetBusy(true)
	if s.IsIdle() {
		t.Error("IsIdle() true while busy")
	}
	s.Tick()
	s.Tick()
	s.Tick()
	if s.frame != 1 {
		t.Errorf("frame = %d, want 1", s.frame)
	}

	s.SetBusy(false)
	if s.frame != 0 {
		t.Error("frame not reset when idle")
	}
}

func TestSurfaceLimits(t *testing.T) {
	s := NewSurface(Config{MaxTranscript: 3, MaxNotifications: 2}, nil)

	s.AppendOutput("one\ntwo\n")
	s.AppendOutput("three")
	s.AppendOutput("four")
	if got := s.Transcript(); strings.Join(got, ",") != "two,three,four" {
		t.Errorf("Transcript() = %v", got)
	}

	s.Notify("a", LevelInfo)
	s.Notify("b", LevelWarn)
	s.Notify("c", LevelError)
	notes := s.Notifications()
	if len(notes) != 2 || notes[0].Message != "b" || notes[1].Level != LevelError {
		t.Errorf("Notifications() = %v", notes)
	}
}

func TestRenderLayout(t *testing.T) {
	screen := newScreen(t, 40, 6)
	s := NewSurface(Config{Spinner: "*"}, nil)
	th := s.Theme()
	s.SetInput(&fakeInput{text: "sleep 5", cursor: 7})
	s.AppendOutput("line one\nline two")
	s.SetStatus("confirm", th.Warning("Cleared").Concat(th.Dim(" · Ctrl+C again to exit")))
	s.SetBusy(true)

	s.Render(screen)

	tests := []struct {
		row  int
		want string
	}{
		{5, "Cleared · Ctrl+C again to exit"},
		{4, "> sleep 5"},
		{3, "* Working..."},
		{1, "line two"},
		{0, "line one"},
	}
	for _, tt := range tests {
		if got := rowText(screen, tt.row); got != tt.want {
			t.Errorf("row %d = %q, want %q", tt.row, got, tt.want)
		}
	}
}

func TestRenderStyles(t *testing.T) {
	screen := newScreen(t, 40, 3)
	s := NewSurface(DefaultConfig(), nil)
	th := s.Theme()
	s.SetStatus("k", th.Warning("W").Concat(th.Dim("d")))

	s.Render(screen)

	_, _, warn, _ := screen.GetContent(0, 2) //nolint:staticcheck // GetContent is the correct API
	if warn != th.Style(theme.RoleWarning) {
		t.Error("warning span not drawn with the warning style")
	}
	_, _, dim, _ := screen.GetContent(1, 2) //nolint:staticcheck // GetContent is the correct API
	if _, _, attrs := dim.Decompose(); attrs&tcell.AttrDim == 0 {
		t.Error("dim span not drawn dim")
	}
}

func TestRenderIdleHasNoIndicator(t *testing.T) {
	screen := newScreen(t, 30, 4)
	s := NewSurface(DefaultConfig(), nil)
	s.SetInput(&fakeInput{})
	s.AppendOutput("done")

	s.Render(screen)

	if got := rowText(screen, 0); got != "done" {
		t.Errorf("row 0 = %q, want transcript line", got)
	}
	if got := rowText(screen, 2); got != ">" {
		t.Errorf("row 2 = %q, want prompt", got)
	}
}

func TestRenderCompletionOverlay(t *testing.T) {
	screen := newScreen(t, 30, 6)
	s := NewSurface(DefaultConfig(), nil)
	s.SetInput(&fakeInput{text: "gi", cursor: 2, items: []string{"git log", "git status"}, selected: 1})

	s.Render(screen)

	if got := rowText(screen, 2); got != "  git log" {
		t.Errorf("row 2 = %q", got)
	}
	if got := rowText(screen, 3); got != "  git status" {
		t.Errorf("row 3 = %q", got)
	}
	_, _, style, _ := screen.GetContent(2, 3) //nolint:staticcheck // GetContent is the correct API
	if _, _, attrs := style.Decompose(); attrs&tcell.AttrReverse == 0 {
		t.Error("selected completion not highlighted")
	}
}

func TestRenderNotification(t *testing.T) {
	screen := newScreen(t, 20, 2)
	s := NewSurface(DefaultConfig(), nil)
	s.Notify("saved", LevelInfo)

	s.Render(screen)

	if got := rowText(screen, 1); got != strings.Repeat(" ", 15)+"saved" {
		t.Errorf("status row = %q", got)
	}
}

func TestRenderTruncatesStatus(t *testing.T) {
	screen := newScreen(t, 10, 2)
	s := NewSurface(DefaultConfig(), nil)
	s.SetStatus("k", theme.Plain("a very long status entry"))

	s.Render(screen)

	if got := rowText(screen, 1); got != "a very lon" {
		t.Errorf("status row = %q", got)
	}
}

func TestRenderScrollsPromptToCursor(t *testing.T) {
	screen := newScreen(t, 10, 2)
	s := NewSurface(DefaultConfig(), nil)
	s.SetInput(&fakeInput{text: "abcdefghijkl", cursor: 12})

	s.Render(screen)

	if got := rowText(screen, 0); got != "> fghijkl" {
		t.Errorf("prompt row = %q", got)
	}
}

func TestLevel(t *testing.T) {
	if ParseLevel("warning") != LevelWarn || ParseLevel("error") != LevelError || ParseLevel("x") != LevelInfo {
		t.Error("ParseLevel mismatch")
	}
	if LevelError.Role() != theme.RoleError || LevelInfo.String() != "info" {
		t.Error("Level helpers mismatch")
	}
}

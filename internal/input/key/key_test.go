package key

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestParse(t *testing.T) {
	tests := []struct {
		spec string
		want Event
	}{
		{"a", NewRuneEvent('a', ModNone)},
		{"A", NewRuneEvent('A', ModNone)},
		{"Ctrl+C", NewRuneEvent('c', ModCtrl)},
		{"ctrl+c", NewRuneEvent('c', ModCtrl)},
		{"<C-c>", NewRuneEvent('c', ModCtrl)},
		{"<Esc>", NewSpecialEvent(KeyEscape, ModNone)},
		{"Escape", NewSpecialEvent(KeyEscape, ModNone)},
		{"<CR>", NewSpecialEvent(KeyEnter, ModNone)},
		{"Alt+f", NewRuneEvent('f', ModAlt)},
		{"Shift+a", NewRuneEvent('A', ModNone)},
		{"Ctrl+Up", NewSpecialEvent(KeyUp, ModCtrl)},
		{"space", NewRuneEvent(' ', ModNone)},
		{"Ctrl++", NewRuneEvent('+', ModCtrl)},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := Parse(tt.spec)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.spec, err)
			}
			if !got.Equals(tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse(""); !errors.Is(err, ErrEmptySpec) {
		t.Errorf("Parse(\"\") error = %v, want ErrEmptySpec", err)
	}
	for _, spec := range []string{"Hyper+x", "<Q-x>", "notakey"} {
		if _, err := Parse(spec); !errors.Is(err, ErrInvalidSpec) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidSpec", spec, err)
		}
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		data string
		want Event
	}{
		{"\x03", NewRuneEvent('c', ModCtrl)},
		{"\x1b", NewSpecialEvent(KeyEscape, ModNone)},
		{"\r", NewSpecialEvent(KeyEnter, ModNone)},
		{"\n", NewSpecialEvent(KeyEnter, ModNone)},
		{"\t", NewSpecialEvent(KeyTab, ModNone)},
		{"\x7f", NewSpecialEvent(KeyBackspace, ModNone)},
		{"\x1b[A", NewSpecialEvent(KeyUp, ModNone)},
		{"\x1bOH", NewSpecialEvent(KeyHome, ModNone)},
		{"\x1b[3~", NewSpecialEvent(KeyDelete, ModNone)},
		{"x", NewRuneEvent('x', ModNone)},
		{"é", NewRuneEvent('é', ModNone)},
		{"\x1bf", NewRuneEvent('f', ModAlt)},
		{"\x15", NewRuneEvent('u', ModCtrl)},
	}

	for _, tt := range tests {
		got, ok := Decode(tt.data)
		if !ok {
			t.Errorf("Decode(%q) failed", tt.data)
			continue
		}
		if !got.Equals(tt.want) {
			t.Errorf("Decode(%q) = %#v, want %#v", tt.data, got, tt.want)
		}
	}
}

func TestDecodeRejects(t *testing.T) {
	for _, data := range []string{"", "ab", "\x1b[Z9", "\x1c"} {
		if ev, ok := Decode(data); ok {
			t.Errorf("Decode(%q) = %#v, want failure", data, ev)
		}
	}
}

func TestEncodeDecodeAgree(t *testing.T) {
	events := []Event{
		NewRuneEvent('c', ModCtrl),
		NewRuneEvent('z', ModNone),
		NewRuneEvent('Q', ModNone),
		NewRuneEvent('x', ModAlt),
		NewSpecialEvent(KeyEscape, ModNone),
		NewSpecialEvent(KeyEnter, ModNone),
		NewSpecialEvent(KeyBackspace, ModNone),
		NewSpecialEvent(KeyLeft, ModNone),
		NewSpecialEvent(KeyPageDown, ModNone),
	}

	for _, ev := range events {
		data := Encode(ev)
		if data == "" {
			t.Errorf("Encode(%#v) is empty", ev)
			continue
		}
		got, ok := Decode(data)
		if !ok || !got.Equals(ev) {
			t.Errorf("Decode(Encode(%#v)) = %#v, %v", ev, got, ok)
		}
	}
}

func TestEncodeUnsupported(t *testing.T) {
	if got := Encode(NewSpecialEvent(KeyUp, ModCtrl)); got != "" {
		t.Errorf("Encode(Ctrl+Up) = %q, want empty", got)
	}
	if got := Encode(NewRuneEvent('1', ModCtrl)); got != "" {
		t.Errorf("Encode(Ctrl+1) = %q, want empty", got)
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		data string
		spec string
		want bool
	}{
		{"\x03", "ctrl+c", true},
		{"\x03", "<C-c>", true},
		{"\x1b", "escape", true},
		{"\x1b", "ctrl+c", false},
		{"c", "ctrl+c", false},
		{"\x1b[A", "up", true},
		{"\x03", "bogus+spec", false},
		{"", "escape", false},
	}

	for _, tt := range tests {
		if got := Matches(tt.data, tt.spec); got != tt.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tt.data, tt.spec, got, tt.want)
		}
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{NewRuneEvent('a', ModNone), "a"},
		{NewRuneEvent('A', ModNone), "A"},
		{NewRuneEvent('c', ModCtrl), "<C-c>"},
		{NewRuneEvent(' ', ModNone), "<Space>"},
		{NewSpecialEvent(KeyEscape, ModNone), "<Esc>"},
		{NewSpecialEvent(KeyEnter, ModNone), "<CR>"},
		{NewSpecialEvent(KeyUp, ModShift), "<S-Up>"},
	}

	for _, tt := range tests {
		if got := tt.event.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.event, got, tt.want)
		}
	}
}

func TestFromTcell(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want Event
	}{
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), NewRuneEvent('c', ModCtrl)},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), NewSpecialEvent(KeyEscape, ModNone)},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), NewSpecialEvent(KeyEnter, ModNone)},
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), NewRuneEvent('q', ModNone)},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'b', tcell.ModAlt), NewRuneEvent('b', ModAlt)},
		{"left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), NewSpecialEvent(KeyLeft, ModNone)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromTcell(tt.ev)
			if !ok {
				t.Fatal("FromTcell returned false")
			}
			if !got.Equals(tt.want) {
				t.Errorf("FromTcell = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestTcellRoundTrip(t *testing.T) {
	for _, ev := range []Event{
		NewRuneEvent('c', ModCtrl),
		NewSpecialEvent(KeyEscape, ModNone),
		NewSpecialEvent(KeyDelete, ModNone),
		NewRuneEvent('w', ModNone),
	} {
		got, ok := FromTcell(ToTcell(ev))
		if !ok || !got.Equals(ev) {
			t.Errorf("FromTcell(ToTcell(%#v)) = %#v, %v", ev, got, ok)
		}
	}
}

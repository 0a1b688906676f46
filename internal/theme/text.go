package theme

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Span is a run of text drawn in one role.
type Span struct {
	Text string
	Role Role
}

// Text is styled text made of ordered spans.
type Text []Span

// Plain returns s in the text role.
func Plain(s string) Text {
	if s == "" {
		return nil
	}
	return Text{{Text: s, Role: RoleText}}
}

// Concat returns t followed by others. t is not modified.
func (t Text) Concat(others ...Text) Text {
	n := len(t)
	for _, o := range others {
		n += len(o)
	}
	out := make(Text, 0, n)
	out = append(out, t...)
	for _, o := range others {
		out = append(out, o...)
	}
	return out
}

// String returns the unstyled text.
func (t Text) String() string {
	var b strings.Builder
	for _, s := range t {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Width returns the display width in terminal cells.
func (t Text) Width() int {
	w := 0
	for _, s := range t {
		w += uniseg.StringWidth(s.Text)
	}
	return w
}

// Truncate returns the longest prefix of t that fits in width cells.
// Grapheme clusters are never split.
func (t Text) Truncate(width int) Text {
	if width <= 0 {
		return nil
	}
	if t.Width() <= width {
		return t
	}

	var out Text
	used := 0
	for _, s := range t {
		var b strings.Builder
		g := uniseg.NewGraphemes(s.Text)
		full := false
		for g.Next() {
			w := g.Width()
			if used+w > width {
				full = true
				break
			}
			b.WriteString(g.Str())
			used += w
		}
		if b.Len() > 0 {
			out = append(out, Span{Text: b.String(), Role: s.Role})
		}
		if full {
			break
		}
	}
	return out
}

package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/keyguard/internal/theme"
)

// Render draws the surface onto screen. It does not call Show.
//
// Rows from the bottom: status line, prompt, working indicator (while
// busy), completion overlay, then as much transcript as fits.
func (s *Surface) Render(screen tcell.Screen) {
	w, h := screen.Size()
	screen.Clear()
	if w <= 0 || h <= 0 {
		return
	}

	row := h - 1
	s.renderStatus(screen, row, w)

	row--
	if row < 0 {
		return
	}
	cursorX := s.renderPrompt(screen, row, w)
	screen.ShowCursor(cursorX, row)

	if s.busy {
		row--
		if row < 0 {
			return
		}
		s.renderWorking(screen, row, w)
	}

	if s.input != nil {
		items, selected := s.input.Completions()
		for i := len(items) - 1; i >= 0 && row > 0; i-- {
			row--
			style := s.theme.Style(theme.RoleAccent)
			if i == selected {
				style = style.Reverse(true)
			}
			drawString(screen, 2, row, w, items[i], style)
		}
	}

	lines := s.transcript
	if len(lines) > row {
		lines = lines[len(lines)-row:]
	}
	textStyle := s.theme.Style(theme.RoleText)
	for i, line := range lines {
		drawString(screen, 0, i, w, line, textStyle)
	}
}

func (s *Surface) renderStatus(screen tcell.Screen, y, w int) {
	var line theme.Text
	for i, entry := range s.StatusLine() {
		if i > 0 {
			line = line.Concat(s.theme.Dim(" | "))
		}
		line = line.Concat(entry)
	}
	x := s.drawText(screen, 0, y, w, line.Truncate(w))

	if n := len(s.notifications); n > 0 {
		note := s.notifications[n-1]
		text := s.theme.Fg(note.Level.Role(), note.Message)
		if start := w - text.Width(); start > x {
			s.drawText(screen, start, y, w, text)
		}
	}
}

// renderPrompt draws the prompt and input text and returns the cursor column.
func (s *Surface) renderPrompt(screen tcell.Screen, y, w int) int {
	x := s.drawText(screen, 0, y, w, s.theme.Accent(s.config.Prompt))
	if s.input == nil {
		return x
	}

	runes := []rune(s.input.Text())
	cursor := s.input.Cursor()
	if cursor > len(runes) {
		cursor = len(runes)
	}

	// Scroll so the cursor stays on screen
	start := 0
	for start < cursor && x+uniseg.StringWidth(string(runes[start:cursor])) >= w {
		start++
	}

	cursorX := x + uniseg.StringWidth(string(runes[start:cursor]))
	drawString(screen, x, y, w, string(runes[start:]), s.theme.Style(theme.RoleText))
	return cursorX
}

func (s *Surface) renderWorking(screen tcell.Screen, y, w int) {
	frame := ""
	if len(s.frames) > 0 {
		frame = s.frames[s.frame] + " "
	}
	text := s.theme.Accent(frame).Concat(s.theme.Fg(theme.RoleMuted, s.working))
	s.drawText(screen, 0, y, w, text.Truncate(w))
}

func (s *Surface) drawText(screen tcell.Screen, x, y, maxX int, text theme.Text) int {
	for _, span := range text {
		x = drawString(screen, x, y, maxX, span.Text, s.theme.Style(span.Role))
	}
	return x
}

// drawString draws str from column x, stopping before maxX, and returns the
// column after the last cell drawn.
func drawString(screen tcell.Screen, x, y, maxX int, str string, style tcell.Style) int {
	g := uniseg.NewGraphemes(str)
	for g.Next() {
		width := g.Width()
		if width == 0 {
			continue
		}
		if x+width > maxX {
			break
		}
		runes := g.Runes()
		screen.SetContent(x, y, runes[0], runes[1:], style)
		x += width
	}
	return x
}

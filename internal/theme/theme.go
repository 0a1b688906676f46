// Package theme maps semantic color roles to terminal styles and provides
// the styled text type extensions render into the status line.
package theme

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Role is a semantic color role.
type Role string

// Color roles.
const (
	RoleText    Role = "text"
	RoleAccent  Role = "accent"
	RoleWarning Role = "warning"
	RoleError   Role = "error"
	RoleSuccess Role = "success"
	RoleDim     Role = "dim"
	RoleMuted   Role = "muted"
)

// ErrInvalidColor is returned when a role color cannot be parsed.
var ErrInvalidColor = errors.New("invalid color")

var defaultColors = map[Role]string{
	RoleText:    "#d0d0d0",
	RoleAccent:  "#5fafff",
	RoleWarning: "#ffaf00",
	RoleError:   "#ff5f5f",
	RoleSuccess: "#5fd75f",
	RoleDim:     "#808080",
}

// Roles returns every known role in a stable order.
func Roles() []Role {
	return []Role{RoleText, RoleAccent, RoleWarning, RoleError, RoleSuccess, RoleDim, RoleMuted}
}

// ParseRole returns the role named by s.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Roles() {
		if r == known {
			return r, true
		}
	}
	return "", false
}

// Theme holds the color of each role.
// A nil *Theme behaves like Default().
type Theme struct {
	colors map[Role]colorful.Color
}

// Default returns the built-in theme.
func Default() *Theme {
	t, err := New(nil)
	if err != nil {
		panic(err)
	}
	return t
}

// New builds a theme from hex colors ("#rrggbb" or "#rgb") keyed by role.
// Roles left out keep their default color. When muted is not given it is
// blended from text and dim.
func New(colors map[Role]string) (*Theme, error) {
	t := &Theme{colors: make(map[Role]colorful.Color, len(defaultColors)+1)}

	for role, hex := range defaultColors {
		c, _ := colorful.Hex(hex)
		t.colors[role] = c
	}

	roles := make([]string, 0, len(colors))
	for role := range colors {
		roles = append(roles, string(role))
	}
	sort.Strings(roles)

	for _, name := range roles {
		role := Role(name)
		if _, ok := ParseRole(name); !ok {
			return nil, fmt.Errorf("theme: unknown role %q", name)
		}
		c, err := parseColor(colors[role])
		if err != nil {
			return nil, fmt.Errorf("theme: role %s: %w", role, err)
		}
		t.colors[role] = c
	}

	if _, ok := colors[RoleMuted]; !ok {
		t.colors[RoleMuted] = t.colors[RoleText].BlendLab(t.colors[RoleDim], 0.5).Clamped()
	}
	return t, nil
}

// FromSection builds a theme from a configuration section of role → hex
// string entries. Non-string values are reported as invalid colors.
func FromSection(section map[string]any) (*Theme, error) {
	colors := make(map[Role]string, len(section))
	for k, v := range section {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("theme: role %s: %w: %v", k, ErrInvalidColor, v)
		}
		colors[Role(k)] = s
	}
	return New(colors)
}

func parseColor(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return c, nil
}

// Color returns the color of a role. Unknown roles use the text color.
func (t *Theme) Color(role Role) colorful.Color {
	if t == nil {
		t = Default()
	}
	if c, ok := t.colors[role]; ok {
		return c
	}
	return t.colors[RoleText]
}

// Hex returns every role color as a hex string keyed by role name.
func (t *Theme) Hex() map[string]any {
	out := make(map[string]any, len(Roles()))
	for _, role := range Roles() {
		out[string(role)] = t.Color(role).Hex()
	}
	return out
}

// Style returns the tcell style used to draw a role.
func (t *Theme) Style(role Role) tcell.Style {
	r, g, b := t.Color(role).RGB255()
	style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
	switch role {
	case RoleDim:
		style = style.Dim(true)
	case RoleError:
		style = style.Bold(true)
	}
	return style
}

// Fg returns s styled with role.
func (t *Theme) Fg(role Role, s string) Text {
	return Text{{Text: s, Role: role}}
}

// Warning returns s in the warning role.
func (t *Theme) Warning(s string) Text { return t.Fg(RoleWarning, s) }

// Dim returns s in the dim role.
func (t *Theme) Dim(s string) Text { return t.Fg(RoleDim, s) }

// Accent returns s in the accent role.
func (t *Theme) Accent(s string) Text { return t.Fg(RoleAccent, s) }

// Package theme provides the colors of the flame graph browser: the UI
// chrome theme and the frame palettes.
package theme

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// Theme represents the visual theme of the browser chrome.
type Theme struct {
	// Base colors
	Base    lipgloss.Color
	Surface lipgloss.Color
	Overlay lipgloss.Color
	Muted   lipgloss.Color
	Subtle  lipgloss.Color
	Text    lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color

	// Semantic colors
	Warning lipgloss.Color
	Error   lipgloss.Color

	// UI element colors
	Border    lipgloss.Color
	Selection lipgloss.Color

	// FrameText is drawn on top of frame colors.
	FrameText lipgloss.Color
}

// DefaultTheme returns the default dark theme.
func DefaultTheme() *Theme {
	return &Theme{
		Base:    lipgloss.Color("#0d1117"),
		Surface: lipgloss.Color("#161b22"),
		Overlay: lipgloss.Color("#21262d"),
		Muted:   lipgloss.Color("#484f58"),
		Subtle:  lipgloss.Color("#6e7681"),
		Text:    lipgloss.Color("#e6edf3"),

		Primary:   lipgloss.Color("#58a6ff"), // Electric blue
		Secondary: lipgloss.Color("#bc8cff"), // Soft purple

		Warning: lipgloss.Color("#d29922"),
		Error:   lipgloss.Color("#f85149"),

		Border:    lipgloss.Color("#30363d"),
		Selection: lipgloss.Color("#388bfd"),

		FrameText: lipgloss.Color("0"),
	}
}

// Palette is a set of frame background colors. Frames cycle through
// Frames; Light, Normal and Dark are accents derived from the same hue.
type Palette struct {
	Name   string
	Frames []lipgloss.Color
	Light  lipgloss.Color
	Normal lipgloss.Color
	Dark   lipgloss.Color
}

// gradient mirrors a color ramp so that neighbouring indexes stay close:
// a b c d e -> a b c d e d c b.
func gradient(ramp ...int) []lipgloss.Color {
	out := make([]lipgloss.Color, 0, 2*len(ramp))
	for _, c := range ramp {
		out = append(out, xterm(c))
	}
	for i := len(ramp) - 2; i > 0; i-- {
		out = append(out, xterm(ramp[i]))
	}
	return out
}

func xterm(code int) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("%d", code))
}

// palettes lists the frame palettes in xterm-256 codes.
var palettes = []*Palette{
	{Name: "hot", Frames: gradient(226, 220, 214, 208, 202), Light: xterm(228), Normal: xterm(214), Dark: xterm(130)},
	{Name: "io", Frames: gradient(45, 39, 33, 27, 21), Light: xterm(86), Normal: xterm(33), Dark: xterm(21)},
	{Name: "wakeup", Frames: gradient(183, 177, 171, 165, 129), Light: xterm(219), Normal: xterm(171), Dark: xterm(90)},
	{Name: "chain", Frames: gradient(156, 120, 84, 48, 35), Light: xterm(194), Normal: xterm(84), Dark: xterm(22)},
}

// PaletteNames returns the palette names in display order.
func PaletteNames() []string {
	names := make([]string, len(palettes))
	for i, p := range palettes {
		names[i] = p.Name
	}
	return names
}

// GetPalette returns the palette with the given name.
func GetPalette(name string) (*Palette, error) {
	i := slices.IndexFunc(palettes, func(p *Palette) bool { return p.Name == name })
	if i < 0 {
		return nil, fmt.Errorf("unknown palette: %s", name)
	}
	return palettes[i], nil
}

// Color returns the frame color for a palette index; out of range indexes
// wrap around.
func (p *Palette) Color(i int) lipgloss.Color {
	if len(p.Frames) == 0 {
		return p.Normal
	}
	if i < 0 {
		i = -i
	}
	return p.Frames[i%len(p.Frames)]
}

// Styles holds all pre-configured styles for the UI.
type Styles struct {
	theme   *Theme
	palette *Palette

	Header     lipgloss.Style
	Breadcrumb lipgloss.Style
	Status     lipgloss.Style
	StatusName lipgloss.Style
	Marker     lipgloss.Style
	Diagnostic lipgloss.Style
	Empty      lipgloss.Style

	// One style per palette slot, plain and under the cursor.
	frames []lipgloss.Style
	cursor []lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme and a palette.
func NewStyles(theme *Theme, palette *Palette) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	if palette == nil {
		palette = palettes[0]
	}

	s := &Styles{theme: theme, palette: palette}

	s.Header = lipgloss.NewStyle().
		Foreground(theme.Text).
		Background(theme.Surface).
		Bold(true)

	s.Breadcrumb = lipgloss.NewStyle().
		Foreground(theme.Subtle).
		Background(theme.Surface)

	s.Status = lipgloss.NewStyle().
		Foreground(theme.Subtle).
		Background(theme.Overlay)

	s.StatusName = lipgloss.NewStyle().
		Foreground(theme.Text).
		Background(theme.Overlay).
		Bold(true)

	s.Marker = lipgloss.NewStyle().
		Foreground(theme.Base).
		Background(theme.Secondary).
		Bold(true)

	s.Diagnostic = lipgloss.NewStyle().
		Foreground(theme.Warning).
		Bold(true)

	s.Empty = lipgloss.NewStyle()

	for _, c := range palette.Frames {
		base := lipgloss.NewStyle().Foreground(theme.FrameText).Background(c)
		s.frames = append(s.frames, base)
		s.cursor = append(s.cursor, base.Reverse(true).Bold(true))
	}
	return s
}

// Frame returns the style of a frame with the given palette index.
func (s *Styles) Frame(i int, cursor bool) lipgloss.Style {
	if len(s.frames) == 0 {
		return s.Empty
	}
	if i < 0 {
		i = 0
	}
	i %= len(s.frames)
	if cursor {
		return s.cursor[i]
	}
	return s.frames[i]
}

// Colors returns how many frame colors the palette has.
func (s *Styles) Colors() int {
	return len(s.palette.Frames)
}

// GetTheme returns the underlying theme.
func (s *Styles) GetTheme() *Theme {
	return s.theme
}

// GetPalette returns the frame palette.
func (s *Styles) GetPalette() *Palette {
	return s.palette
}

// Icons used by the chrome.
var Icons = struct {
	Separator string
	Combined  string
	Flame     string
}{
	Separator: "›",
	Combined:  "[combined]",
	Flame:     "▲",
}

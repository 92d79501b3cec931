package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ikari-pl/termflame/internal/flame"
	"github.com/ikari-pl/termflame/internal/tui/theme"
	"github.com/mattn/go-runewidth"
)

// styleManager implements the StyleManager interface on top of the theme
// styles.
type styleManager struct {
	theme  *theme.Theme
	styles *theme.Styles
}

// NewStyleManager creates a StyleManager for the given frame palette. A nil
// palette selects the default one.
func NewStyleManager(palette *theme.Palette) StyleManager {
	t := theme.DefaultTheme()
	return &styleManager{
		theme:  t,
		styles: theme.NewStyles(t, palette),
	}
}

// Header renders the header line across width cells.
func (s *styleManager) Header(text string, width int) string {
	title := s.styles.Header.Render(" " + theme.Icons.Flame + " ")
	rest := width - lipgloss.Width(title)
	if rest <= 0 {
		return title
	}
	return title + s.styles.Breadcrumb.Width(rest).Render(runewidth.Truncate(text, rest, EllipsisString))
}

// Status renders the status line: the cursor name, its figures and the
// combine marker when the mode is on.
func (s *styleManager) Status(name, detail string, combined bool, width int) string {
	name = runewidth.Truncate(name, max(width/2, 1), EllipsisString)
	left := s.styles.StatusName.Render(" " + name + " ")
	if combined {
		left = s.styles.Marker.Render(" "+theme.Icons.Combined+" ") + left
	}
	rest := width - lipgloss.Width(left)
	if rest <= 0 {
		return left
	}
	return left + s.styles.Status.Width(rest).Render(runewidth.Truncate(detail, rest, EllipsisString))
}

// Diagnostic renders a warning line.
func (s *styleManager) Diagnostic(text string) string {
	return s.styles.Diagnostic.Render(text)
}

// Row renders one grid row, one style run per box.
func (s *styleManager) Row(g *flame.Grid, y int) string {
	var b strings.Builder
	for _, seg := range g.Segments(y) {
		if seg.Color < 0 {
			b.WriteString(s.styles.Empty.Render(seg.Text))
			continue
		}
		b.WriteString(s.styles.Frame(seg.Color, seg.Cursor).Render(seg.Text))
	}
	return b.String()
}

// Colors returns how many frame colors the palette has.
func (s *styleManager) Colors() int {
	return s.styles.Colors()
}

// GetStyles returns the underlying theme styles.
func (s *styleManager) GetStyles() *theme.Styles {
	return s.styles
}

// GetTheme returns the underlying theme.
func (s *styleManager) GetTheme() *theme.Theme {
	return s.theme
}

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ikari-pl/termflame/internal/analyzer"
	"github.com/ikari-pl/termflame/internal/calltree"
	"github.com/ikari-pl/termflame/internal/flame"
	"github.com/ikari-pl/termflame/internal/tui/theme"
)

// tui implements the TUI interface.
type tui struct {
	logger   *slog.Logger
	styles   StyleManager
	renderer *flame.Renderer
}

// NewTUI creates a new TUI drawing frames with the given palette and
// padding labels with filler.
func NewTUI(logger *slog.Logger, palette *theme.Palette, filler rune) TUI {
	styles := NewStyleManager(palette)
	return &tui{
		logger:   logger,
		styles:   styles,
		renderer: flame.NewRenderer(styles.Colors(), filler),
	}
}

// Run starts the TUI with the given profile and blocks until the user
// exits or ctx is cancelled.
func (t *tui) Run(ctx context.Context, profile *analyzer.Profile) error {
	if profile == nil || profile.Tree == nil {
		return fmt.Errorf("profile cannot be nil")
	}

	m := newModel(profile.Tree, t.styles, t.renderer, t.logger)

	// Alt screen for full terminal control; the context lets main stop the
	// program on SIGTERM.
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			t.logger.Info("Browser interrupted", "reason", ctx.Err())
			return nil
		}
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// Snapshot renders the initial screen of a profile at a fixed size.
func Snapshot(profile *analyzer.Profile, styles StyleManager, filler rune, width, height int) (string, error) {
	if profile == nil || profile.Tree == nil {
		return "", fmt.Errorf("profile cannot be nil")
	}
	m := newModel(profile.Tree, styles, flame.NewRenderer(styles.Colors(), filler), slog.Default())
	m.resize(width, height)
	return m.View(), nil
}

// model is the bubbletea model of the flame view.
type model struct {
	browser   *Browser
	styles    StyleManager
	renderer  *flame.Renderer
	navigator Navigator
	keys      KeyMap
	help      help.Model
	picker    *picker
	logger    *slog.Logger

	width    int
	height   int
	first    int
	showHelp bool
}

func newModel(tree *calltree.Tree, styles StyleManager, renderer *flame.Renderer, logger *slog.Logger) *model {
	if logger == nil {
		logger = slog.Default()
	}
	nav := NewNavigator()
	nav.SetPath(tree, tree.Root())

	h := help.New()
	h.Styles.ShortKey = h.Styles.ShortKey.Foreground(styles.GetTheme().Primary)
	h.Styles.FullKey = h.Styles.FullKey.Foreground(styles.GetTheme().Primary)

	browser := NewBrowser(tree, logger)
	browser.SetWidth(80)

	return &model{
		browser:   browser,
		styles:    styles,
		renderer:  renderer,
		navigator: nav,
		keys:      DefaultKeyMap(),
		help:      h,
		logger:    logger,
		width:     80,
		height:    24,
	}
}

// Init initializes the model.
func (m *model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.picker != nil {
			return m, m.updatePicker(msg)
		}
		return m.handleKeyPress(msg)
	}

	if m.picker != nil {
		return m, m.picker.Update(msg)
	}
	return m, nil
}

func (m *model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.browser.SetWidth(width)
	if m.picker != nil {
		m.picker.SetSize(width, m.bodyHeight())
	}
	m.scroll()
}

func (m *model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.scroll()
		return m, nil
	case key.Matches(msg, m.keys.Members):
		m.openPicker()
		return m, nil
	}

	action := m.keys.Action(msg)
	if action == ActionNone {
		return m, nil
	}
	if m.browser.Apply(action) {
		return m, tea.Quit
	}
	if action == ActionZoom || action == ActionReset {
		m.zoomed()
	}
	m.scroll()
	return m, nil
}

// openPicker lists the members of the combined group under the cursor.
func (m *model) openPicker() {
	c := m.browser.Combined()
	if c == nil {
		m.logger.Debug("Member picker needs combine mode")
		return
	}
	state := m.browser.State()
	items := memberItems(m.browser.Tree(), c, state.ZoomRoot, state.Cursor)
	m.picker = newPicker(items, m.styles, m.width, m.bodyHeight())
}

func (m *model) updatePicker(msg tea.KeyMsg) tea.Cmd {
	cmd := m.picker.Update(msg)
	if !m.picker.done {
		return cmd
	}
	if m.picker.chosen != calltree.NoNode {
		m.browser.ZoomTo(m.picker.chosen)
		m.zoomed()
	}
	m.picker = nil
	m.scroll()
	return cmd
}

func (m *model) zoomed() {
	m.first = 0
	m.navigator.SetPath(m.browser.Tree(), m.browser.State().ZoomRoot)
}

// bodyHeight is the number of lines between the header and the status bar.
func (m *model) bodyHeight() int {
	h := m.height - HeaderHeight - StatusHeight
	if m.showHelp {
		h -= lipgloss.Height(m.help.View(m.keys))
	}
	if h < 0 {
		return 0
	}
	return h
}

// scroll shifts the first visible depth so that the cursor stays on screen.
func (m *model) scroll() {
	rows := m.bodyHeight()
	if rows <= 0 {
		return
	}
	depth := m.browser.CursorDepth()
	switch {
	case depth < m.first:
		m.first = depth
	case depth >= m.first+rows:
		m.first = depth - rows + 1
	}
}

// View renders the current screen.
func (m *model) View() string {
	lines := []string{m.styles.Header(m.navigator.RenderPath(m.width-4), m.width)}

	if m.picker != nil {
		lines = append(lines, m.picker.View())
	} else {
		state := m.browser.State()
		g := m.renderer.RenderRows(m.browser.View(), m.browser.ViewRoot(), state.Cursor, m.width, m.first, m.bodyHeight())
		if g.Diagnostic != "" {
			lines = append(lines, m.styles.Diagnostic(g.Diagnostic))
		}
		for y := range g.Cells {
			lines = append(lines, m.styles.Row(g, y))
		}
	}

	lines = append(lines, m.status())
	if m.showHelp {
		lines = append(lines, m.help.View(m.keys))
	}
	return strings.Join(lines, "\n")
}

// status describes the cursor: its share of the whole profile and of its
// parent.
func (m *model) status() string {
	tree := m.browser.Tree()
	v := m.browser.View()
	cursor := m.browser.State().Cursor

	self, weight := v.Self(cursor), v.Weight(cursor)
	all := tree.Weight(tree.Root())

	var b strings.Builder
	fmt.Fprintf(&b, " %d samples │ self "+percentFormat+" │ total "+percentFormat,
		weight, percent(self, all), percent(weight, all))
	if parent := v.Parent(cursor); parent != calltree.NoNode {
		pw := v.Weight(parent)
		fmt.Fprintf(&b, " │ self/parent "+percentFormat+" │ total/parent "+percentFormat,
			percent(self, pw), percent(weight, pw))
	}
	return m.styles.Status(flame.DisplayLabel(v, cursor), b.String(), m.browser.State().Combined, m.width)
}

func percent(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return 100 * float64(part) / float64(whole)
}

package tui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ikari-pl/termflame/internal/calltree"
	"github.com/ikari-pl/termflame/internal/flame"
	"github.com/ikari-pl/termflame/internal/tui/theme"
)

// MemberItem is one tree node merged into a combined group.
type MemberItem struct {
	Node   calltree.NodeID
	Path   string
	Weight int64
	Share  float64
}

// FilterValue implements list.Item interface.
func (mi MemberItem) FilterValue() string {
	return mi.Path
}

// Title implements list.Item interface.
func (mi MemberItem) Title() string {
	return mi.Path
}

// Description implements list.Item interface.
func (mi MemberItem) Description() string {
	return fmt.Sprintf("%d samples │ "+percentFormat+" of group", mi.Weight, mi.Share)
}

// memberItems lists the members of a group, heaviest first, each named by
// its call path below the zoom root.
func memberItems(tree *calltree.Tree, c *calltree.Combined, zoomRoot, group calltree.NodeID) []list.Item {
	ordered := slices.Clone(c.Members(group))
	slices.SortStableFunc(ordered, func(a, b calltree.NodeID) int {
		return cmp.Compare(tree.Weight(b), tree.Weight(a))
	})

	total := c.Weight(group)
	items := make([]list.Item, 0, len(ordered))
	for _, m := range ordered {
		item := MemberItem{
			Node:   m,
			Path:   strings.Join(calltree.PathFrom(tree, zoomRoot, m), " "+theme.Icons.Separator+" "),
			Weight: tree.Weight(m),
		}
		if item.Path == "" {
			item.Path = flame.DisplayLabel(tree, m)
		}
		if total > 0 {
			item.Share = 100 * float64(item.Weight) / float64(total)
		}
		items = append(items, item)
	}
	return items
}

// picker chooses which member of a combined group to zoom into.
type picker struct {
	list   list.Model
	chosen calltree.NodeID
	done   bool
}

func newPicker(items []list.Item, styles StyleManager, width, height int) *picker {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(styles.GetTheme().Text).
		Background(styles.GetTheme().Selection).
		Bold(true)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(styles.GetTheme().Subtle).
		Background(styles.GetTheme().Selection)

	l := list.New(items, delegate, width, height)
	l.Title = "Combined frames"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return &picker{list: l, chosen: calltree.NoNode}
}

func (p *picker) SetSize(width, height int) {
	p.list.SetSize(width, height)
}

// Update handles a message while the picker is open. done is set once the
// user chose a member or dismissed the picker.
func (p *picker) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			if item, ok := p.list.SelectedItem().(MemberItem); ok {
				p.chosen = item.Node
			}
			p.done = true
			return nil
		case "esc", "q", "m":
			p.done = true
			return nil
		}
	}
	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return cmd
}

func (p *picker) View() string {
	return p.list.View()
}

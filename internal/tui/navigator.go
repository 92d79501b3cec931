package tui

import (
	"strings"

	"github.com/ikari-pl/termflame/internal/calltree"
	"github.com/ikari-pl/termflame/internal/flame"
	"github.com/ikari-pl/termflame/internal/tui/theme"
	"github.com/mattn/go-runewidth"
)

// Breadcrumb entries longer than this are shortened.
const (
	MaxCrumbLength = 24
	EllipsisString = "…"
)

// navigator implements the Navigator interface.
type navigator struct {
	path []PathItem
}

// NewNavigator creates a new Navigator instance.
func NewNavigator() Navigator {
	return &navigator{
		path: make([]PathItem, 0),
	}
}

// SetPath replaces the breadcrumb with the path from the tree root to id.
func (n *navigator) SetPath(tree *calltree.Tree, id calltree.NodeID) {
	n.path = n.path[:0]
	for cur := id; cur != calltree.NoNode; cur = tree.Parent(cur) {
		n.path = append(n.path, PathItem{
			Node:        cur,
			DisplayName: runewidth.Truncate(flame.DisplayLabel(tree, cur), MaxCrumbLength, EllipsisString),
		})
	}
	for i, j := 0, len(n.path)-1; i < j; i, j = i+1, j-1 {
		n.path[i], n.path[j] = n.path[j], n.path[i]
	}
}

// GetPath returns the current breadcrumb.
func (n *navigator) GetPath() []PathItem {
	return n.path
}

// RenderPath joins the breadcrumb with separators. When it does not fit,
// the oldest entries after the root collapse into an ellipsis.
func (n *navigator) RenderPath(width int) string {
	if len(n.path) == 0 {
		return ""
	}

	sep := " " + theme.Icons.Separator + " "
	names := make([]string, len(n.path))
	for i, item := range n.path {
		names[i] = item.DisplayName
	}

	out := strings.Join(names, sep)
	for skip := 1; runewidth.StringWidth(out) > width && skip < len(names)-1; skip++ {
		parts := append([]string{names[0], EllipsisString}, names[skip+1:]...)
		out = strings.Join(parts, sep)
	}
	if runewidth.StringWidth(out) > width {
		out = runewidth.Truncate(out, width, EllipsisString)
	}
	return out
}

// GetDepth returns the depth of the zoom root.
func (n *navigator) GetDepth() int {
	if len(n.path) == 0 {
		return 0
	}
	return len(n.path) - 1
}

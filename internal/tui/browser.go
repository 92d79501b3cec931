package tui

import (
	"log/slog"
	"math"
	"slices"

	"github.com/ikari-pl/termflame/internal/calltree"
	"github.com/ikari-pl/termflame/internal/flame"
)

// Browser owns the navigation state over an immutable call tree. Every
// transition is synchronous; targets that do not exist leave the state
// unchanged. Once a width is set, the cursor only visits nodes the layout
// of that width places.
type Browser struct {
	tree     *calltree.Tree
	state    ViewState
	combined *calltree.Combined
	logger   *slog.Logger

	// tree cursor at the time combine mode was entered
	remembered calltree.NodeID

	width  int
	placed map[calltree.NodeID]bool
}

// NewBrowser returns a browser showing the whole tree with the cursor on
// the root.
func NewBrowser(tree *calltree.Tree, logger *slog.Logger) *Browser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Browser{
		tree:       tree,
		state:      ViewState{ZoomRoot: tree.Root(), Cursor: tree.Root()},
		logger:     logger,
		remembered: calltree.NoNode,
	}
}

// SetWidth sets the number of columns the view is laid out on and moves
// the cursor up to the nearest placed node if it lost its box. Zero lifts
// the restriction.
func (b *Browser) SetWidth(width int) {
	if width == b.width {
		return
	}
	b.width = width
	b.placed = nil
	b.settle()
}

// Tree returns the underlying call tree.
func (b *Browser) Tree() *calltree.Tree {
	return b.tree
}

// State returns a copy of the navigation state.
func (b *Browser) State() ViewState {
	return b.state
}

// View returns the view the cursor lives in.
func (b *Browser) View() calltree.View {
	if b.state.Combined {
		return b.combined
	}
	return b.tree
}

// Combined returns the combined view, or nil when combine mode is off.
func (b *Browser) Combined() *calltree.Combined {
	if !b.state.Combined {
		return nil
	}
	return b.combined
}

// ViewRoot returns the ID of the zoom root inside the current view.
func (b *Browser) ViewRoot() calltree.NodeID {
	if b.state.Combined {
		return b.combined.Root()
	}
	return b.state.ZoomRoot
}

// CursorDepth returns the cursor's depth below the view root.
func (b *Browser) CursorDepth() int {
	v := b.View()
	return v.Depth(b.state.Cursor) - v.Depth(b.ViewRoot())
}

// CursorNode returns the tree node standing for the cursor: the cursor
// itself, or the heaviest member of the cursor group.
func (b *Browser) CursorNode() calltree.NodeID {
	if b.state.Combined {
		return b.combined.Heaviest(b.state.Cursor)
	}
	return b.state.Cursor
}

// Apply performs one action and reports whether the browser should quit.
func (b *Browser) Apply(a Action) bool {
	before := b.state
	switch a {
	case ActionLeft:
		b.sibling(-1)
	case ActionRight:
		b.sibling(1)
	case ActionUp:
		if b.state.Cursor != b.ViewRoot() {
			b.state.Cursor = b.View().Parent(b.state.Cursor)
		}
	case ActionDown:
		for _, ch := range calltree.Ordered(b.View(), b.state.Cursor) {
			if b.isPlaced(ch) {
				b.state.Cursor = ch
				break
			}
		}
	case ActionToggleCombine:
		b.toggle()
	case ActionZoom:
		b.ZoomTo(b.CursorNode())
	case ActionReset:
		b.zoom(b.tree.Root())
	case ActionQuit:
		return true
	}
	b.settle()

	if b.state == before && a != ActionZoom && a != ActionReset {
		b.logger.Debug("Ignored transition", "action", a, "cursor", b.state.Cursor)
		return false
	}
	b.logger.Debug("View transition",
		"action", a,
		"zoom_root", b.state.ZoomRoot,
		"cursor", b.state.Cursor,
		"combined", b.state.Combined)
	return false
}

// ZoomTo makes a tree node the zoom root and puts the cursor on it. IDs
// outside the tree are ignored.
func (b *Browser) ZoomTo(id calltree.NodeID) {
	if id < 0 || int(id) >= b.tree.Len() {
		return
	}
	b.zoom(id)
}

func (b *Browser) zoom(id calltree.NodeID) {
	b.state.ZoomRoot = id
	b.rebuild()
	b.state.Cursor = b.ViewRoot()
}

// rebuild derives the combined view for the current zoom root. A stale
// projection is never reused.
func (b *Browser) rebuild() {
	b.placed = nil
	if b.state.Combined {
		b.combined = calltree.Combine(b.tree, b.state.ZoomRoot)
		return
	}
	b.combined = nil
}

// toggle flips combine mode. Entering it moves the cursor to the group of
// the cursor node. Leaving it returns to the node remembered on entry when
// it belongs to the cursor group, else to the group's heaviest member.
func (b *Browser) toggle() {
	if b.state.Combined {
		group := b.state.Cursor
		id := b.combined.Heaviest(group)
		if g, ok := b.combined.GroupOf(b.remembered); ok && g == group {
			id = b.remembered
		}
		if id == calltree.NoNode {
			id = b.state.ZoomRoot
		}
		b.state.Combined = false
		b.rebuild()
		b.state.Cursor = id
		return
	}

	b.remembered = b.state.Cursor
	b.state.Combined = true
	b.rebuild()
	if g, ok := b.combined.GroupOf(b.remembered); ok {
		b.state.Cursor = g
	} else {
		b.state.Cursor = b.ViewRoot()
	}
}

// isPlaced reports whether the current layout gives id a box.
func (b *Browser) isPlaced(id calltree.NodeID) bool {
	if b.width <= 0 {
		return true
	}
	if b.placed == nil {
		l := flame.Compute(b.View(), b.ViewRoot(), b.width, math.MaxInt)
		b.placed = make(map[calltree.NodeID]bool)
		for _, row := range l.Rows {
			for _, box := range row {
				b.placed[box.Node] = true
			}
		}
	}
	return b.placed[id]
}

// settle climbs from a cursor without a box to its nearest placed ancestor.
func (b *Browser) settle() {
	v := b.View()
	for b.state.Cursor != b.ViewRoot() && !b.isPlaced(b.state.Cursor) {
		b.state.Cursor = v.Parent(b.state.Cursor)
	}
}

// siblings returns the row the cursor moves along horizontally.
func (b *Browser) siblings() []calltree.NodeID {
	if b.state.Combined {
		return b.combined.Level(b.combined.Depth(b.state.Cursor))
	}
	return calltree.Ordered(b.tree, b.tree.Parent(b.state.Cursor))
}

func (b *Browser) sibling(step int) {
	if b.state.Cursor == b.ViewRoot() {
		return
	}
	row := b.siblings()
	i := slices.Index(row, b.state.Cursor)
	if i < 0 {
		return
	}
	for j := i + step; j >= 0 && j < len(row); j += step {
		if b.isPlaced(row[j]) {
			b.state.Cursor = row[j]
			return
		}
	}
}

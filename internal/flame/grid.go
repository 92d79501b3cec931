package flame

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/ikari-pl/termflame/internal/calltree"
	"github.com/mattn/go-runewidth"
)

// Smallest drawable area; below it a diagnostic line replaces the layout.
const (
	MinWidth  = 10
	MinHeight = 1
)

// RootLabel is displayed for the unnamed root of a call tree.
const RootLabel = "all"

// Cell is one terminal cell. Node is calltree.NoNode for empty cells and
// Rune is 0 for the right half of a double-width rune.
type Cell struct {
	Rune   rune
	Node   calltree.NodeID
	Color  int
	Cursor bool
}

// Grid is a rendered frame.
type Grid struct {
	Width  int
	Height int
	// First is the depth shown on row 0.
	First int
	Cells [][]Cell
	// Diagnostic is set instead of Cells when the area is too small.
	Diagnostic string
	Layout     *Layout
}

// Renderer turns views into grids. It is stateless.
type Renderer struct {
	colors int
	filler rune
}

// NewRenderer returns a renderer assigning one of colors palette slots to
// each label and padding labels with filler.
func NewRenderer(colors int, filler rune) *Renderer {
	if colors <= 0 {
		colors = 1
	}
	if filler == 0 || runewidth.RuneWidth(filler) != 1 {
		filler = ' '
	}
	return &Renderer{colors: colors, filler: filler}
}

// Render draws the subtree of v below root into a width x height grid with
// root on the first row.
func (r *Renderer) Render(v calltree.View, root, cursor calltree.NodeID, width, height int) *Grid {
	return r.RenderRows(v, root, cursor, width, 0, height)
}

// RenderRows draws height rows starting at depth first below root.
func (r *Renderer) RenderRows(v calltree.View, root, cursor calltree.NodeID, width, first, height int) *Grid {
	g := &Grid{Width: width, Height: height, First: first}
	if width < MinWidth || height < MinHeight {
		g.Diagnostic = fmt.Sprintf("terminal too small (%dx%d, need %dx%d)", width, height, MinWidth, MinHeight)
		return g
	}
	if first < 0 {
		first = 0
		g.First = 0
	}

	g.Layout = Compute(v, root, width, first+height)
	g.Cells = make([][]Cell, height)
	for y := range g.Cells {
		row := make([]Cell, width)
		for x := range row {
			row[x] = Cell{Rune: ' ', Node: calltree.NoNode, Color: -1}
		}
		g.Cells[y] = row

		depth := first + y
		if depth >= len(g.Layout.Rows) {
			continue
		}
		for _, box := range g.Layout.Rows[depth] {
			r.drawBox(row, v, box, box.Node == cursor)
		}
	}
	return g
}

func (r *Renderer) drawBox(row []Cell, v calltree.View, box Box, isCursor bool) {
	label := DisplayLabel(v, box.Node)
	color := ColorIndex(label, r.colors)
	text := Fit(label, box.Width, r.filler)

	x := box.X
	for _, ch := range text {
		if x >= box.X+box.Width {
			break
		}
		row[x] = Cell{Rune: ch, Node: box.Node, Color: color, Cursor: isCursor}
		if runewidth.RuneWidth(ch) == 2 && x+1 < box.X+box.Width {
			x++
			row[x] = Cell{Rune: 0, Node: box.Node, Color: color, Cursor: isCursor}
		}
		x++
	}
}

// DisplayLabel returns the text shown for a node.
func DisplayLabel(v calltree.View, id calltree.NodeID) string {
	label := v.Label(id)
	if label == "" && v.Parent(id) == calltree.NoNode {
		return RootLabel
	}
	return label
}

// Fit returns label adjusted to exactly width columns: centered between
// filler runes when shorter, cut (with an ellipsis from 4 columns up)
// when longer.
func Fit(label string, width int, filler rune) string {
	if width <= 0 {
		return ""
	}
	lw := runewidth.StringWidth(label)
	if lw > width {
		tail := ""
		if width >= 4 {
			tail = "…"
		}
		label = runewidth.Truncate(label, width, tail)
		lw = runewidth.StringWidth(label)
	}
	pad := width - lw
	left := pad / 2
	fill := string(filler)
	return strings.Repeat(fill, left) + label + strings.Repeat(fill, pad-left)
}

// ColorIndex maps a label to one of n palette slots. The mapping depends on
// the label only, so a frame keeps its color across redraws and runs.
func ColorIndex(label string, n int) int {
	if n <= 1 {
		return 0
	}
	return int(xxhash.Sum64String(label) % uint64(n))
}

// String renders the grid as plain text, one line per row, for snapshots
// and tests.
func (g *Grid) String() string {
	if g.Diagnostic != "" {
		return g.Diagnostic
	}
	var b strings.Builder
	for y, row := range g.Cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, c := range row {
			if c.Rune != 0 {
				b.WriteRune(c.Rune)
			}
		}
	}
	return b.String()
}

// Segment is a run of cells belonging to the same box.
type Segment struct {
	Text   string
	Node   calltree.NodeID
	Color  int
	Cursor bool
}

// Segments splits a row into runs of equal node and cursor state, which is
// how a display draws it.
func (g *Grid) Segments(y int) []Segment {
	if y < 0 || y >= len(g.Cells) {
		return nil
	}
	var (
		out []Segment
		b   strings.Builder
		cur Segment
	)
	flush := func() {
		if b.Len() > 0 {
			cur.Text = b.String()
			out = append(out, cur)
		}
		b.Reset()
	}
	for x, c := range g.Cells[y] {
		if x == 0 || c.Node != cur.Node || c.Cursor != cur.Cursor {
			flush()
			cur = Segment{Node: c.Node, Color: c.Color, Cursor: c.Cursor}
		}
		if c.Rune != 0 {
			b.WriteRune(c.Rune)
		}
	}
	flush()
	return out
}

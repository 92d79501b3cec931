// Package flame lays a call tree out as a flame graph on a grid of
// terminal cells. Nothing here touches the terminal.
package flame

import (
	"math/bits"
	"sort"

	"github.com/ikari-pl/termflame/internal/calltree"
)

// Box is one node placed on a row.
type Box struct {
	Node  calltree.NodeID
	Depth int // relative to the layout root
	X     int
	Width int
}

// Layout is the placement of a subtree, one slice of boxes per row.
type Layout struct {
	Root  calltree.NodeID
	Width int
	Rows  [][]Box
}

// Find returns the box of a node, if it was placed.
func (l *Layout) Find(id calltree.NodeID) (Box, bool) {
	for _, row := range l.Rows {
		for _, b := range row {
			if b.Node == id {
				return b, true
			}
		}
	}
	return Box{}, false
}

// Leveled is implemented by views whose rows are laid out independently
// against the root width instead of nested under a parent box.
type Leveled interface {
	Levels() [][]calltree.NodeID
}

// Partition splits width among children proportionally to their weights:
// each gets floor(width*w/parentWeight), then the columns lost to flooring,
// up to floor(width*Σw/parentWeight), go one at a time to the largest
// remainders, earlier children winning ties. The sum never exceeds width
// and fewer than len(weights) columns are lost to rounding.
func Partition(width int, parentWeight int64, weights []int64) []int {
	widths := make([]int, len(weights))
	if width <= 0 || parentWeight <= 0 || len(weights) == 0 {
		return widths
	}

	w := uint64(width)
	pw := uint64(parentWeight)
	rems := make([]uint64, len(weights))

	var assigned int
	var total uint64
	for i, cw := range weights {
		if cw <= 0 {
			continue
		}
		c := uint64(cw)
		if c > pw {
			c = pw
		}
		total += c
		q, r := mulDiv(w, c, pw)
		widths[i] = int(q)
		rems[i] = r
		assigned += int(q)
	}
	if total > pw {
		total = pw
	}
	target, _ := mulDiv(w, total, pw)

	leftover := int(target) - assigned
	if leftover <= 0 {
		return widths
	}
	order := make([]int, len(weights))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return rems[order[a]] > rems[order[b]]
	})
	for _, i := range order {
		if leftover == 0 {
			break
		}
		if rems[i] == 0 {
			continue
		}
		widths[i]++
		leftover--
	}
	return widths
}

// mulDiv returns floor(a*b/d) and the remainder, for b <= d.
func mulDiv(a, b, d uint64) (uint64, uint64) {
	hi, lo := bits.Mul64(a, b)
	return bits.Div64(hi, lo, d)
}

// Compute places the subtree of v below root on at most rows rows of the
// given width. Row 0 holds root at full width. Children are sorted by
// descending weight and placed left to right inside their parent; boxes
// that round to zero width are dropped together with their subtrees.
func Compute(v calltree.View, root calltree.NodeID, width, rows int) *Layout {
	l := &Layout{Root: root, Width: width}
	if width <= 0 || rows <= 0 {
		return l
	}
	if lv, ok := v.(Leveled); ok {
		computeLevels(l, v, lv, rows)
		return l
	}

	l.Rows = append(l.Rows, []Box{{Node: root, X: 0, Width: width}})
	var place func(parent Box)
	place = func(parent Box) {
		depth := parent.Depth + 1
		if depth >= rows {
			return
		}
		children := calltree.Ordered(v, parent.Node)
		if len(children) == 0 {
			return
		}
		weights := make([]int64, len(children))
		for i, c := range children {
			weights[i] = v.Weight(c)
		}
		widths := Partition(parent.Width, v.Weight(parent.Node), weights)

		x := parent.X
		for i, c := range children {
			if widths[i] == 0 {
				continue
			}
			box := Box{Node: c, Depth: depth, X: x, Width: widths[i]}
			for len(l.Rows) <= depth {
				l.Rows = append(l.Rows, nil)
			}
			l.Rows[depth] = append(l.Rows[depth], box)
			x += widths[i]
			place(box)
		}
	}
	place(l.Rows[0][0])
	return l
}

// computeLevels partitions each level row against the root. The root
// must be the view's root.
func computeLevels(l *Layout, v calltree.View, lv Leveled, rows int) {
	rootWeight := v.Weight(l.Root)
	for depth, level := range lv.Levels() {
		if depth >= rows {
			break
		}
		if depth == 0 {
			l.Rows = append(l.Rows, []Box{{Node: l.Root, Width: l.Width}})
			continue
		}
		weights := make([]int64, len(level))
		for i, g := range level {
			weights[i] = v.Weight(g)
		}
		widths := Partition(l.Width, rootWeight, weights)

		var row []Box
		x := 0
		for i, g := range level {
			if widths[i] == 0 {
				continue
			}
			row = append(row, Box{Node: g, Depth: depth, X: x, Width: widths[i]})
			x += widths[i]
		}
		if len(row) == 0 {
			break
		}
		l.Rows = append(l.Rows, row)
	}
}

// Package calltree aggregates stack samples into a weighted call tree and
// derives the combined (label-merged) projection of its subtrees.
package calltree

// NodeID indexes a node inside a Tree or a Combined view.
type NodeID int32

// NoNode is returned where a node does not exist, e.g. the root's parent.
const NoNode NodeID = -1

// View is the read-only shape shared by the call tree and its combined
// projections. Children are returned in first-seen order.
type View interface {
	Root() NodeID
	Label(id NodeID) string
	Weight(id NodeID) int64
	Self(id NodeID) int64
	Parent(id NodeID) NodeID
	Children(id NodeID) []NodeID
	Depth(id NodeID) int
}

type node struct {
	label    string
	weight   int64
	self     int64
	parent   NodeID
	depth    int32
	children []NodeID
	// index maps child labels to IDs once a node has more than
	// indexThreshold children.
	index map[string]NodeID
}

// Tree is an aggregated call tree stored as a flat arena. The root has an
// empty label and stands for all samples. A Tree is not modified after
// Build returns.
type Tree struct {
	nodes []node
}

func newTree() *Tree {
	return &Tree{nodes: []node{{parent: NoNode}}}
}

// Root returns the ID of the root node.
func (t *Tree) Root() NodeID { return 0 }

// Len returns the number of nodes, root included.
func (t *Tree) Len() int { return len(t.nodes) }

// Label returns the frame name of a node.
func (t *Tree) Label(id NodeID) string { return t.nodes[id].label }

// Weight returns the total weight of all samples through a node.
func (t *Tree) Weight(id NodeID) int64 { return t.nodes[id].weight }

// Self returns the weight of samples ending exactly at a node.
func (t *Tree) Self(id NodeID) int64 { return t.nodes[id].self }

// Parent returns the parent of a node, or NoNode for the root.
func (t *Tree) Parent(id NodeID) NodeID { return t.nodes[id].parent }

// Children returns the children of a node in first-seen order. The slice
// must not be modified.
func (t *Tree) Children(id NodeID) []NodeID { return t.nodes[id].children }

// Depth returns the distance from the root.
func (t *Tree) Depth(id NodeID) int { return int(t.nodes[id].depth) }

// Child returns the child of id with the given label.
func (t *Tree) Child(id NodeID, label string) (NodeID, bool) {
	n := &t.nodes[id]
	if n.index != nil {
		child, ok := n.index[label]
		return child, ok
	}
	for _, c := range n.children {
		if t.nodes[c].label == label {
			return c, true
		}
	}
	return NoNode, false
}

// Path returns the labels from the root (exclusive) down to id.
func (t *Tree) Path(id NodeID) []string {
	return PathFrom(t, t.Root(), id)
}

// Find follows labels downwards starting at from.
func (t *Tree) Find(from NodeID, path []string) (NodeID, bool) {
	cur := from
	for _, label := range path {
		next, ok := t.Child(cur, label)
		if !ok {
			return NoNode, false
		}
		cur = next
	}
	return cur, true
}

// Walk visits every node depth-first in child order. stack holds the labels
// from the root (exclusive) to the visited node and is reused between calls.
func (t *Tree) Walk(fn func(id NodeID, stack []string)) {
	stack := make([]string, 0, 64)
	var visit func(id NodeID)
	visit = func(id NodeID) {
		fn(id, stack)
		for _, c := range t.nodes[id].children {
			stack = append(stack, t.nodes[c].label)
			visit(c)
			stack = stack[:len(stack)-1]
		}
	}
	visit(t.Root())
}

// PathFrom returns the labels on the way from ancestor (exclusive) to id.
// It returns nil if ancestor is not on id's parent chain.
func PathFrom(v View, ancestor, id NodeID) []string {
	var rev []string
	for cur := id; cur != ancestor; cur = v.Parent(cur) {
		if cur == NoNode {
			return nil
		}
		rev = append(rev, v.Label(cur))
	}
	path := make([]string, len(rev))
	for i, label := range rev {
		path[len(rev)-1-i] = label
	}
	return path
}

// IsAncestor reports whether ancestor is id or lies on its parent chain.
func IsAncestor(v View, ancestor, id NodeID) bool {
	for cur := id; cur != NoNode; cur = v.Parent(cur) {
		if cur == ancestor {
			return true
		}
	}
	return false
}

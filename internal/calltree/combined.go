package calltree

import (
	"slices"
)

type group struct {
	label    string
	weight   int64
	self     int64
	depth    int32
	parent   NodeID
	children []NodeID
	members  []NodeID
}

// Combined is the projection of a subtree in which every node sharing a
// label at the same depth below the root is merged into one group,
// regardless of its call path. Each level row is a partition of the root's
// weight by label.
//
// Children(g) are the next-level groups holding a child of one of g's
// members; Parent(g) is the group holding the parent of g's heaviest
// member. A Combined never changes its source.
type Combined struct {
	src    View
	groups []group
	levels [][]NodeID
	owner  map[NodeID]NodeID
}

var _ View = (*Combined)(nil)

// Combine derives the combined view of v below root. Deriving from an
// already combined view yields the same groups.
func Combine(v View, root NodeID) *Combined {
	c := &Combined{src: v}
	c.groups = append(c.groups, group{
		label:   v.Label(root),
		weight:  v.Weight(root),
		self:    v.Self(root),
		parent:  NoNode,
		members: []NodeID{root},
	})

	memberGroup := map[NodeID]NodeID{root: 0}
	level := []NodeID{0}
	for depth := int32(1); len(level) > 0; depth++ {
		c.levels = append(c.levels, byWeight(c, level))

		var (
			next        []NodeID
			discoverer  = map[NodeID]NodeID{}
			byLabel     = map[string]NodeID{}
			seen        = map[NodeID]bool{}
			linkedToCur map[NodeID]bool
		)
		for _, g := range level {
			linkedToCur = map[NodeID]bool{}
			for _, m := range c.groups[g].members {
				for _, ch := range v.Children(m) {
					label := v.Label(ch)
					gid, ok := byLabel[label]
					if !ok {
						gid = NodeID(len(c.groups))
						c.groups = append(c.groups, group{label: label, depth: depth, parent: NoNode})
						byLabel[label] = gid
						discoverer[gid] = g
						next = append(next, gid)
					}
					if !linkedToCur[gid] {
						linkedToCur[gid] = true
						c.groups[g].children = append(c.groups[g].children, gid)
					}
					if seen[ch] {
						continue
					}
					seen[ch] = true
					memberGroup[ch] = gid
					grp := &c.groups[gid]
					grp.members = append(grp.members, ch)
					grp.weight += v.Weight(ch)
					grp.self += v.Self(ch)
				}
			}
		}

		for _, gid := range next {
			parent := discoverer[gid]
			if pg, ok := memberGroup[v.Parent(c.Heaviest(gid))]; ok && c.groups[pg].depth == depth-1 {
				parent = pg
			}
			c.groups[gid].parent = parent
		}
		level = next
	}
	c.owner = memberGroup
	return c
}

// byWeight orders IDs by descending weight, keeping first-seen order
// among equal weights.
func byWeight(v View, ids []NodeID) []NodeID {
	out := slices.Clone(ids)
	slices.SortStableFunc(out, func(a, b NodeID) int {
		wa, wb := v.Weight(a), v.Weight(b)
		switch {
		case wa > wb:
			return -1
		case wa < wb:
			return 1
		}
		return 0
	})
	return out
}

// Ordered returns the children of id in layout order: heaviest first, ties
// in first-seen order.
func Ordered(v View, id NodeID) []NodeID {
	return byWeight(v, v.Children(id))
}

// Root returns the group of the subtree root.
func (c *Combined) Root() NodeID { return 0 }

// Len returns the number of groups.
func (c *Combined) Len() int { return len(c.groups) }

// Label returns the shared label of a group.
func (c *Combined) Label(id NodeID) string { return c.groups[id].label }

// Weight returns the summed weight of a group's members.
func (c *Combined) Weight(id NodeID) int64 { return c.groups[id].weight }

// Self returns the summed self weight of a group's members.
func (c *Combined) Self(id NodeID) int64 { return c.groups[id].self }

// Parent returns the parent group, or NoNode for the root.
func (c *Combined) Parent(id NodeID) NodeID { return c.groups[id].parent }

// Children returns the next-level groups fed by id's members.
func (c *Combined) Children(id NodeID) []NodeID { return c.groups[id].children }

// Depth returns the level of a group below the root.
func (c *Combined) Depth(id NodeID) int { return int(c.groups[id].depth) }

// Members returns the source node IDs merged into a group.
func (c *Combined) Members(id NodeID) []NodeID { return c.groups[id].members }

// GroupOf returns the group a source node was merged into. Nodes outside
// the combined subtree have none.
func (c *Combined) GroupOf(member NodeID) (NodeID, bool) {
	g, ok := c.owner[member]
	return g, ok
}

// Heaviest returns the member with the largest weight, the first one on ties.
func (c *Combined) Heaviest(id NodeID) NodeID {
	members := c.groups[id].members
	if len(members) == 0 {
		return NoNode
	}
	best := members[0]
	for _, m := range members[1:] {
		if c.src.Weight(m) > c.src.Weight(best) {
			best = m
		}
	}
	return best
}

// Source returns the view the groups were derived from.
func (c *Combined) Source() View { return c.src }

// Levels returns every level row in layout order, heaviest group first.
func (c *Combined) Levels() [][]NodeID { return c.levels }

// Level returns the row of groups at the given depth.
func (c *Combined) Level(depth int) []NodeID {
	if depth < 0 || depth >= len(c.levels) {
		return nil
	}
	return c.levels[depth]
}

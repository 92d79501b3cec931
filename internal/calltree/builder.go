package calltree

import (
	"github.com/ikari-pl/termflame/internal/stacks"
)

// indexThreshold is the child count above which a node keeps a label map.
const indexThreshold = 8

// Builder aggregates samples into a Tree. The zero value is not usable;
// call NewBuilder.
type Builder struct {
	tree *Tree
}

// NewBuilder returns a builder holding an empty tree.
func NewBuilder() *Builder {
	return &Builder{tree: newTree()}
}

// Add merges one root-to-leaf stack with the given weight. Every node on
// the path, the root included, gains the weight; the last one also gains
// it as self weight.
func (b *Builder) Add(frames []string, weight int64) {
	t := b.tree
	cur := t.Root()
	t.nodes[cur].weight += weight
	for _, label := range frames {
		cur = b.child(cur, label)
		t.nodes[cur].weight += weight
	}
	t.nodes[cur].self += weight
}

// child finds or creates the child of parent labeled label.
func (b *Builder) child(parent NodeID, label string) NodeID {
	t := b.tree
	if id, ok := t.Child(parent, label); ok {
		return id
	}

	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{
		label:  label,
		parent: parent,
		depth:  t.nodes[parent].depth + 1,
	})

	p := &t.nodes[parent]
	p.children = append(p.children, id)
	switch {
	case p.index != nil:
		p.index[label] = id
	case len(p.children) > indexThreshold:
		p.index = make(map[string]NodeID, len(p.children)*2)
		for _, c := range p.children {
			p.index[t.nodes[c].label] = c
		}
	}
	return id
}

// Tree returns the aggregated tree. The builder must not be used afterwards.
func (b *Builder) Tree() *Tree {
	t := b.tree
	b.tree = nil
	return t
}

// Build aggregates a whole sample stream.
func Build(stream *stacks.Stream) *Tree {
	b := NewBuilder()
	for _, s := range stream.Samples {
		b.Add(s.Frames, s.Weight)
	}
	return b.Tree()
}

package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ikari-pl/termflame/internal/calltree"
)

func leafTree() *calltree.Tree {
	return buildTree(map[string]int64{
		"main;a;leaf": 4,
		"main;b;leaf": 6,
	}, "main;a;leaf", "main;b;leaf")
}

func leafGroup(t *testing.T, c *calltree.Combined) calltree.NodeID {
	t.Helper()
	for _, g := range c.Level(2) {
		if c.Label(g) == "leaf" {
			return g
		}
	}
	t.Fatal("leaf group not found")
	return calltree.NoNode
}

func TestMemberItems(t *testing.T) {
	tree := leafTree()
	main := node(t, tree, "main")
	c := calltree.Combine(tree, main)

	items := memberItems(tree, c, main, leafGroup(t, c))
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	first, second := items[0].(MemberItem), items[1].(MemberItem)
	if first.Node != node(t, tree, "main;b;leaf") || first.Path != "b › leaf" || first.Weight != 6 {
		t.Errorf("first item = %+v", first)
	}
	if second.Path != "a › leaf" || second.Share != 40 {
		t.Errorf("second item = %+v", second)
	}
	if first.FilterValue() != first.Title() {
		t.Error("items should filter by their path")
	}
	if got, want := first.Description(), "6 samples │ 60.00% of group"; got != want {
		t.Errorf("Description() = %q, want %q", got, want)
	}
}

func TestMemberItemsRootGroup(t *testing.T) {
	tree := leafTree()
	c := calltree.Combine(tree, tree.Root())

	items := memberItems(tree, c, tree.Root(), c.Root())
	if len(items) != 1 || items[0].(MemberItem).Path != "all" {
		t.Errorf("root group items = %+v", items)
	}
}

func TestPicker(t *testing.T) {
	tree := leafTree()
	main := node(t, tree, "main")
	c := calltree.Combine(tree, main)
	items := memberItems(tree, c, main, leafGroup(t, c))

	t.Run("enter chooses the selection", func(t *testing.T) {
		p := newPicker(items, NewStyleManager(nil), 40, 20)
		p.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if !p.done || p.chosen != node(t, tree, "main;b;leaf") {
			t.Errorf("done=%v chosen=%v", p.done, p.chosen)
		}
	})

	t.Run("down then enter", func(t *testing.T) {
		p := newPicker(items, NewStyleManager(nil), 40, 20)
		p.Update(tea.KeyMsg{Type: tea.KeyDown})
		p.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if p.chosen != node(t, tree, "main;a;leaf") {
			t.Errorf("chosen = %v, want main;a;leaf", tree.Path(p.chosen))
		}
	})

	t.Run("esc dismisses", func(t *testing.T) {
		p := newPicker(items, NewStyleManager(nil), 40, 20)
		p.Update(tea.KeyMsg{Type: tea.KeyEsc})
		if !p.done || p.chosen != calltree.NoNode {
			t.Errorf("done=%v chosen=%v", p.done, p.chosen)
		}
	})

	t.Run("view lists members", func(t *testing.T) {
		p := newPicker(items, NewStyleManager(nil), 40, 20)
		if p.View() == "" {
			t.Error("View() should not be empty")
		}
	})
}

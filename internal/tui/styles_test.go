package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/ikari-pl/termflame/internal/flame"
	"github.com/ikari-pl/termflame/internal/tui/theme"
)

func TestNewStyleManager(t *testing.T) {
	sm := NewStyleManager(nil)
	if sm == nil {
		t.Fatal("NewStyleManager returned nil")
	}
	if sm.GetTheme() == nil || sm.GetStyles() == nil {
		t.Fatal("theme and styles should be set")
	}
	if sm.GetStyles().GetPalette().Name != "hot" {
		t.Errorf("default palette = %q, want hot", sm.GetStyles().GetPalette().Name)
	}
	if sm.Colors() == 0 {
		t.Error("Colors() should not be zero")
	}
}

func TestStyleManagerPalette(t *testing.T) {
	p, err := theme.GetPalette("io")
	if err != nil {
		t.Fatalf("GetPalette failed: %v", err)
	}
	sm := NewStyleManager(p)
	if sm.GetStyles().GetPalette() != p {
		t.Error("style manager should use the given palette")
	}
	if sm.Colors() != len(p.Frames) {
		t.Errorf("Colors() = %d, want %d", sm.Colors(), len(p.Frames))
	}
}

func TestStyleManagerHeader(t *testing.T) {
	sm := NewStyleManager(nil)

	got := sm.Header("all › main", 40)
	if !strings.Contains(got, "all › main") {
		t.Errorf("Header() = %q should contain the breadcrumb", got)
	}
	if w := lipgloss.Width(got); w != 40 {
		t.Errorf("Header() is %d cells wide, want 40", w)
	}

	long := sm.Header(strings.Repeat("frame › ", 20), 30)
	if lipgloss.Height(long) != 1 || lipgloss.Width(long) != 30 {
		t.Errorf("long header should be truncated to one line of 30 cells, got %dx%d",
			lipgloss.Width(long), lipgloss.Height(long))
	}
}

func TestStyleManagerStatus(t *testing.T) {
	sm := NewStyleManager(nil)

	tests := []struct {
		name     string
		combined bool
		width    int
		contains []string
		absent   []string
	}{
		{"plain", false, 80, []string{"foo", "total 80.00%"}, []string{theme.Icons.Combined}},
		{"combined", true, 80, []string{"foo", theme.Icons.Combined}, nil},
		{"narrow", false, 20, []string{"foo"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sm.Status("foo", "total 80.00%", tt.combined, tt.width)
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("Status() = %q should contain %q", got, s)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(got, s) {
					t.Errorf("Status() = %q should not contain %q", got, s)
				}
			}
			if lipgloss.Height(got) != 1 {
				t.Errorf("Status() should be one line, got %d", lipgloss.Height(got))
			}
			if w := lipgloss.Width(got); w > tt.width {
				t.Errorf("Status() is %d cells wide, want at most %d", w, tt.width)
			}
		})
	}
}

func TestStyleManagerRow(t *testing.T) {
	sm := NewStyleManager(nil)
	tree := exampleTree()
	g := flame.NewRenderer(sm.Colors(), ' ').Render(tree, tree.Root(), tree.Root(), 20, 4)

	for y, want := range []string{"all", "main", "foo", "bar"} {
		row := sm.Row(g, y)
		if !strings.Contains(row, want) {
			t.Errorf("Row(%d) = %q should contain %q", y, row, want)
		}
		if w := lipgloss.Width(row); w != 20 {
			t.Errorf("Row(%d) is %d cells wide, want 20", y, w)
		}
	}
}

func TestStyleManagerDiagnostic(t *testing.T) {
	sm := NewStyleManager(nil)
	if got := sm.Diagnostic("terminal too small"); !strings.Contains(got, "terminal too small") {
		t.Errorf("Diagnostic() = %q", got)
	}
}

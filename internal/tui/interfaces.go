// Package tui provides the interactive terminal flame graph browser.
package tui

import (
	"context"

	"github.com/ikari-pl/termflame/internal/analyzer"
	"github.com/ikari-pl/termflame/internal/calltree"
	"github.com/ikari-pl/termflame/internal/flame"
	"github.com/ikari-pl/termflame/internal/tui/theme"
)

// TUI provides the main terminal user interface.
type TUI interface {
	// Run starts the TUI with the given profile and blocks until the user exits.
	Run(ctx context.Context, profile *analyzer.Profile) error
}

// Navigator tracks the zoom path shown in the header.
type Navigator interface {
	// SetPath replaces the breadcrumb with the path from the tree root to id.
	SetPath(tree *calltree.Tree, id calltree.NodeID)

	// GetPath returns the current breadcrumb, root first.
	GetPath() []PathItem

	// RenderPath renders the breadcrumb within width cells.
	RenderPath(width int) string

	// GetDepth returns the depth of the zoom root.
	GetDepth() int
}

// PathItem is one breadcrumb entry.
type PathItem struct {
	Node        calltree.NodeID
	DisplayName string
}

// StyleManager draws the chrome and the frames.
type StyleManager interface {
	// Header renders the header line across width cells.
	Header(text string, width int) string

	// Status renders the status line across width cells.
	Status(name, detail string, combined bool, width int) string

	// Diagnostic renders a warning line.
	Diagnostic(text string) string

	// Row renders one grid row.
	Row(g *flame.Grid, y int) string

	// Colors returns how many frame colors the palette has.
	Colors() int

	// GetStyles returns the underlying theme styles.
	GetStyles() *theme.Styles

	// GetTheme returns the underlying theme.
	GetTheme() *theme.Theme
}

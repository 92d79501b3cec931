package tui

import (
	"github.com/ikari-pl/termflame/internal/calltree"
)

// ViewState is the complete navigation state of the browser.
type ViewState struct {
	// ZoomRoot is the tree node drawn as the full width.
	ZoomRoot calltree.NodeID
	// Cursor is an ID in the current view: a tree node, or a group of the
	// combined view when Combined is set.
	Cursor calltree.NodeID
	// Combined merges same-label frames per depth below ZoomRoot.
	Combined bool
}

// Action is a navigation command.
type Action int

// Actions understood by Browser.Apply.
const (
	ActionNone Action = iota
	ActionLeft
	ActionRight
	ActionUp
	ActionDown
	ActionToggleCombine
	ActionZoom
	ActionReset
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:          "none",
	ActionLeft:          "left",
	ActionRight:         "right",
	ActionUp:            "up",
	ActionDown:          "down",
	ActionToggleCombine: "toggle-combine",
	ActionZoom:          "zoom",
	ActionReset:         "reset",
	ActionQuit:          "quit",
}

// String returns the action name used in logs.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// Layout of the screen around the flame rows.
const (
	HeaderHeight = 1
	StatusHeight = 1
)

// Percentage formatting shared by the status bar and the member picker.
const percentFormat = "%.2f%%"

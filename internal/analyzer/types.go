// Package analyzer turns a trace file into an immutable call tree: it reads
// the file, runs the format adapter and aggregates the samples.
package analyzer

import (
	"errors"

	"github.com/ikari-pl/termflame/internal/calltree"
)

// ErrFileUnreadable is returned when the trace file cannot be opened or read.
var ErrFileUnreadable = errors.New("file unreadable")

// Profile is a loaded trace.
type Profile struct {
	Tree  *calltree.Tree `json:"-"`
	Stats ProfileStats   `json:"stats"`
}

// ProfileStats summarizes a loaded trace.
type ProfileStats struct {
	Format      string `json:"format"`
	Samples     int    `json:"samples"`
	Skipped     int    `json:"skipped"`
	TotalWeight int64  `json:"total_weight"`
	Nodes       int    `json:"nodes"`
	MaxDepth    int    `json:"max_depth"`
}

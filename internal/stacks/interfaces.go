// Package stacks decodes the output of sampling profilers into normalised
// stack samples.
package stacks

import (
	"context"
	"errors"
	"io"
)

// ErrEmptyTraceFile is returned when an input parses without producing a
// single sample.
var ErrEmptyTraceFile = errors.New("empty trace file")

// Sample is one captured stack, ordered from the root frame to the leaf.
type Sample struct {
	Frames []string `json:"frames"`
	Weight int64    `json:"weight"`
}

// Stream is the result of parsing one input.
type Stream struct {
	Format  string   `json:"format"`
	Samples []Sample `json:"samples"`
	// Skipped counts input lines (or records) that could not be understood.
	Skipped int `json:"skipped"`
}

// TotalWeight returns the sum of all sample weights.
func (s *Stream) TotalWeight() int64 {
	var total int64
	for _, sample := range s.Samples {
		total += sample.Weight
	}
	return total
}

// Adapter converts the raw output of one profiler into samples.
type Adapter interface {
	// Name returns the format identifier used on the command line.
	Name() string

	// Parse reads the whole input. Malformed lines are skipped and counted;
	// an input without samples fails with ErrEmptyTraceFile.
	Parse(ctx context.Context, r io.Reader) (*Stream, error)
}

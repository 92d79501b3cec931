package analyzer

import (
	"context"
	"io"

	"github.com/ikari-pl/termflame/internal/calltree"
	"github.com/ikari-pl/termflame/internal/config"
	"github.com/ikari-pl/termflame/internal/stacks"
)

// Analyzer loads a trace file into a call tree.
type Analyzer interface {
	// Analyze reads, parses and aggregates the trace named by opts.
	Analyze(ctx context.Context, opts config.AnalysisOptions) (*Profile, error)
}

// Repository provides access to trace files.
type Repository interface {
	// Open opens the named trace file, or standard input for "-".
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// TreeBuilder aggregates parsed samples into a call tree.
type TreeBuilder interface {
	// BuildTree creates a call tree from the sample stream.
	BuildTree(ctx context.Context, stream *stacks.Stream) (*calltree.Tree, error)
}

// Service provides high-level operations over trace files.
type Service interface {
	// LoadProfile performs the complete read, parse and build step.
	LoadProfile(ctx context.Context, opts config.AnalysisOptions) (*Profile, error)

	// ValidateProfile checks the profile for suspicious input.
	ValidateProfile(ctx context.Context, p *Profile) ([]ValidationIssue, error)
}

// ValidationIssue represents a potential problem found in a loaded profile.
type ValidationIssue struct {
	Type       string `json:"type"` // "warning", "info"
	Message    string `json:"message"`
	NodeName   string `json:"node_name,omitempty"`
	Severity   int    `json:"severity"` // 1-10, 10 being most severe
	Suggestion string `json:"suggestion,omitempty"`
}

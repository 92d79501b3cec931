package analyzer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ikari-pl/termflame/internal/calltree"
	"github.com/ikari-pl/termflame/internal/config"
	"github.com/ikari-pl/termflame/internal/stacks"
)

// deepStackThreshold is the depth above which a stack is reported as
// suspiciously deep, usually runaway recursion.
const deepStackThreshold = 512

// service implements the Service interface.
type service struct {
	logger     *slog.Logger
	builder    TreeBuilder
	repository Repository
}

// NewService creates a new Service instance.
func NewService(logger *slog.Logger, builder TreeBuilder, repo Repository) Service {
	return &service{
		logger:     logger,
		builder:    builder,
		repository: repo,
	}
}

// LoadProfile performs the complete read, parse and build step. Nothing
// of a failed load is returned.
func (s *service) LoadProfile(ctx context.Context, opts config.AnalysisOptions) (*Profile, error) {
	s.logger.Info("Loading trace", "file", opts.InputFile, "format", opts.Format)

	adapter, err := stacks.New(opts.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrUsage, err)
	}

	rc, err := s.repository.Open(ctx, opts.InputFile)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	stream, err := adapter.Parse(ctx, rc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", opts.InputFile, err)
	}
	tree, err := s.builder.BuildTree(ctx, stream)
	if err != nil {
		return nil, fmt.Errorf("failed to build call tree: %w", err)
	}

	stats := ProfileStats{
		Format:      adapter.Name(),
		Samples:     len(stream.Samples),
		Skipped:     stream.Skipped,
		TotalWeight: tree.Weight(tree.Root()),
		Nodes:       tree.Len(),
		MaxDepth:    maxDepth(tree),
	}

	s.logger.Info("Trace loaded",
		"format", stats.Format,
		"samples", stats.Samples,
		"skipped", stats.Skipped,
		"nodes", stats.Nodes,
		"max_depth", stats.MaxDepth)

	return &Profile{Tree: tree, Stats: stats}, nil
}

// ValidateProfile checks the profile for suspicious input.
func (s *service) ValidateProfile(ctx context.Context, p *Profile) ([]ValidationIssue, error) {
	var issues []ValidationIssue

	if p.Stats.Skipped > 0 {
		issue := ValidationIssue{
			Type:     "warning",
			Message:  fmt.Sprintf("%d unrecognized input lines were skipped", p.Stats.Skipped),
			Severity: 3,
		}
		// More garbage than samples usually means the wrong -t.
		if p.Stats.Skipped > p.Stats.Samples {
			issue.Severity = 7
			issue.Suggestion = fmt.Sprintf("Check that the input really is %s output", p.Stats.Format)
		}
		issues = append(issues, issue)
	}

	if err := ctx.Err(); err != nil {
		return issues, err
	}

	if p.Stats.MaxDepth > deepStackThreshold {
		var deepest calltree.NodeID
		p.Tree.Walk(func(id calltree.NodeID, _ []string) {
			if p.Tree.Depth(id) > p.Tree.Depth(deepest) {
				deepest = id
			}
		})
		issues = append(issues, ValidationIssue{
			Type:       "info",
			Message:    fmt.Sprintf("Deep call stack (depth: %d)", p.Stats.MaxDepth),
			NodeName:   p.Tree.Label(deepest),
			Severity:   2,
			Suggestion: "Use zoom to focus on the recursive part",
		})
	}

	s.logger.Info("Profile validation complete", "issues_found", len(issues))
	return issues, nil
}

func maxDepth(tree *calltree.Tree) int {
	depth := 0
	for id := calltree.NodeID(0); int(id) < tree.Len(); id++ {
		if d := tree.Depth(id); d > depth {
			depth = d
		}
	}
	return depth
}

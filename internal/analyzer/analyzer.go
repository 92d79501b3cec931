package analyzer

import (
	"context"
	"log/slog"

	"github.com/ikari-pl/termflame/internal/calltree"
	"github.com/ikari-pl/termflame/internal/config"
	"github.com/ikari-pl/termflame/internal/stacks"
)

// analyzer implements the Analyzer interface and provides the main entry point.
type analyzer struct {
	service Service
	logger  *slog.Logger
}

// NewAnalyzer creates a new Analyzer instance with all dependencies.
func NewAnalyzer(logger *slog.Logger) Analyzer {
	repo := NewRepository(logger)
	builder := NewTreeBuilder(logger)
	service := NewService(logger, builder, repo)

	return &analyzer{
		service: service,
		logger:  logger,
	}
}

// Analyze reads, parses and aggregates the trace named by opts.
func (a *analyzer) Analyze(ctx context.Context, opts config.AnalysisOptions) (*Profile, error) {
	p, err := a.service.LoadProfile(ctx, opts)
	if err != nil {
		return nil, err
	}

	issues, err := a.service.ValidateProfile(ctx, p)
	if err != nil {
		return nil, err
	}
	for _, issue := range issues {
		a.logger.Warn(issue.Message, "severity", issue.Severity, "node", issue.NodeName, "suggestion", issue.Suggestion)
	}
	return p, nil
}

// builderCheckEvery is how many samples are merged between context checks.
const builderCheckEvery = 1 << 14

// treeBuilder implements TreeBuilder on top of calltree.Builder.
type treeBuilder struct {
	logger *slog.Logger
}

// NewTreeBuilder creates a new TreeBuilder instance.
func NewTreeBuilder(logger *slog.Logger) TreeBuilder {
	return &treeBuilder{logger: logger}
}

// BuildTree creates a call tree from the sample stream.
func (b *treeBuilder) BuildTree(ctx context.Context, stream *stacks.Stream) (*calltree.Tree, error) {
	builder := calltree.NewBuilder()
	for i, s := range stream.Samples {
		if i%builderCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		builder.Add(s.Frames, s.Weight)
	}
	tree := builder.Tree()
	b.logger.Debug("Call tree built", "samples", len(stream.Samples), "nodes", tree.Len())
	return tree, nil
}

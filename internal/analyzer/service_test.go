package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/ikari-pl/termflame/internal/calltree"
	"github.com/ikari-pl/termflame/internal/config"
	"github.com/ikari-pl/termflame/internal/stacks"
)

// memRepository serves traces from memory.
type memRepository struct {
	files map[string]string
}

func (m *memRepository) Open(_ context.Context, path string) (io.ReadCloser, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFileUnreadable, path)
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

// failingBuilder always fails.
type failingBuilder struct{}

func (failingBuilder) BuildTree(context.Context, *stacks.Stream) (*calltree.Tree, error) {
	return nil, errors.New("boom")
}

func TestNewService(t *testing.T) {
	logger := testLogger()
	service := NewService(logger, NewTreeBuilder(logger), NewRepository(logger))
	if service == nil {
		t.Fatal("NewService returned nil")
	}
}

func TestLoadProfileFormats(t *testing.T) {
	repo := &memRepository{files: map[string]string{
		"dtrace": "  libc.so`read+0x10\n  main`work\n  main`main\n  7\n\n",
		"perf":   "app 1234 100.0: cycles:\n\t1 read+0x4 (/lib/libc.so)\n\t2 main (/bin/app)\n\n",
		"pyspy":  "main (app.py:1);work (app.py:9) 4\n",
	}}
	tests := []struct {
		format string
		path   []string
		weight int64
	}{
		{"dtrace", []string{"main`main", "main`work", "libc.so`read"}, 7},
		{"perf", []string{"app", "main", "read"}, 1},
		{"pyspy", []string{"main (app.py:1)", "work (app.py:9)"}, 4},
	}

	logger := testLogger()
	service := NewService(logger, NewTreeBuilder(logger), repo)
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			p, err := service.LoadProfile(context.Background(), config.AnalysisOptions{InputFile: tt.format, Format: tt.format})
			if err != nil {
				t.Fatalf("LoadProfile failed: %v", err)
			}
			id, ok := p.Tree.Find(p.Tree.Root(), tt.path)
			if !ok {
				t.Fatalf("path %v not found", tt.path)
			}
			if got := p.Tree.Self(id); got != tt.weight {
				t.Errorf("self = %d, want %d", got, tt.weight)
			}
		})
	}
}

func TestLoadProfileBuilderFailure(t *testing.T) {
	repo := &memRepository{files: map[string]string{"in": "a 1\n"}}
	service := NewService(testLogger(), failingBuilder{}, repo)

	p, err := service.LoadProfile(context.Background(), config.AnalysisOptions{InputFile: "in", Format: "none"})
	if err == nil || p != nil {
		t.Fatalf("LoadProfile() = %v, %v; want nil and an error", p, err)
	}
}

func TestValidateProfile(t *testing.T) {
	deep := make([]string, deepStackThreshold+5)
	for i := range deep {
		deep[i] = "recurse"
	}
	deep[len(deep)-1] = "bottom"

	tests := []struct {
		name         string
		stats        ProfileStats
		frames       []string
		wantIssues   int
		wantSeverity int
	}{
		{name: "clean", stats: ProfileStats{Samples: 10}, frames: []string{"a"}, wantIssues: 0},
		{name: "few skipped", stats: ProfileStats{Samples: 10, Skipped: 2}, frames: []string{"a"}, wantIssues: 1, wantSeverity: 3},
		{name: "mostly skipped", stats: ProfileStats{Samples: 1, Skipped: 20, Format: "perf"}, frames: []string{"a"}, wantIssues: 1, wantSeverity: 7},
		{name: "deep", stats: ProfileStats{Samples: 1, MaxDepth: len(deep)}, frames: deep, wantIssues: 1, wantSeverity: 2},
	}

	logger := testLogger()
	service := NewService(logger, NewTreeBuilder(logger), NewRepository(logger))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := calltree.NewBuilder()
			b.Add(tt.frames, 1)
			p := &Profile{Tree: b.Tree(), Stats: tt.stats}

			issues, err := service.ValidateProfile(context.Background(), p)
			if err != nil {
				t.Fatalf("ValidateProfile failed: %v", err)
			}
			if len(issues) != tt.wantIssues {
				t.Fatalf("issues = %d, want %d: %+v", len(issues), tt.wantIssues, issues)
			}
			if tt.wantIssues > 0 && issues[0].Severity != tt.wantSeverity {
				t.Errorf("severity = %d, want %d", issues[0].Severity, tt.wantSeverity)
			}
			if tt.name == "deep" && issues[0].NodeName != "bottom" {
				t.Errorf("deep stack node = %q, want bottom", issues[0].NodeName)
			}
		})
	}
}

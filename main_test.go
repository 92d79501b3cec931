package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ikari-pl/termflame/internal/analyzer"
	"github.com/ikari-pl/termflame/internal/calltree"
	"github.com/ikari-pl/termflame/internal/config"
	"github.com/ikari-pl/termflame/internal/stacks"
)

// mockAnalyzer implements analyzer.Analyzer for testing
type mockAnalyzer struct {
	profile *analyzer.Profile
	err     error
}

func (m *mockAnalyzer) Analyze(ctx context.Context, opts config.AnalysisOptions) (*analyzer.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.profile, nil
}

// mockTUI implements tui.TUI for testing
type mockTUI struct {
	runCalled bool
	runErr    error
}

func (m *mockTUI) Run(ctx context.Context, profile *analyzer.Profile) error {
	m.runCalled = true
	return m.runErr
}

func testProfile() *analyzer.Profile {
	b := calltree.NewBuilder()
	b.Add([]string{"main", "foo", "bar"}, 5)
	b.Add([]string{"main", "foo", "baz"}, 3)
	b.Add([]string{"main", "qux"}, 2)
	tree := b.Tree()
	return &analyzer.Profile{
		Tree:  tree,
		Stats: analyzer.ProfileStats{Format: stacks.FormatNone, Samples: 3, TotalWeight: 10, Nodes: tree.Len(), MaxDepth: 3},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// =============================================================================
// NewLogger Tests
// =============================================================================

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.Config
		enabled slog.Level
		below   slog.Level
	}{
		{
			name:    "default config",
			cfg:     &config.Config{},
			enabled: slog.LevelWarn,
			below:   slog.LevelInfo,
		},
		{
			name:    "verbose mode",
			cfg:     &config.Config{Verbose: true},
			enabled: slog.LevelInfo,
			below:   slog.LevelDebug,
		},
		{
			name:    "debug mode",
			cfg:     &config.Config{Debug: true},
			enabled: slog.LevelDebug,
			below:   slog.LevelDebug - 4,
		},
		{
			name:    "debug takes precedence over verbose",
			cfg:     &config.Config{Debug: true, Verbose: true},
			enabled: slog.LevelDebug,
			below:   slog.LevelDebug - 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.cfg, io.Discard)
			if logger == nil {
				t.Fatal("NewLogger() returned nil")
			}
			if !logger.Enabled(context.Background(), tt.enabled) {
				t.Errorf("level %v should be enabled", tt.enabled)
			}
			if logger.Enabled(context.Background(), tt.below) {
				t.Errorf("level %v should be disabled", tt.below)
			}
		})
	}
}

func TestNewLoggerWritesText(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&config.Config{}, &buf).Warn("Skipped lines", "count", 2)
	if !strings.Contains(buf.String(), "msg=\"Skipped lines\" count=2") {
		t.Errorf("unexpected log output %q", buf.String())
	}
}

// =============================================================================
// run() Tests
// =============================================================================

func TestRun(t *testing.T) {
	tests := []struct {
		name          string
		cfg           *config.Config
		analyzerErr   error
		expectError   bool
		errorContains string
		outContains   string
	}{
		{
			name:        "collapsed dump",
			cfg:         &config.Config{Dump: true, DumpFormat: "collapsed"},
			outContains: "main;foo;bar 5\n",
		},
		{
			name:        "json dump",
			cfg:         &config.Config{Dump: true, DumpFormat: "json"},
			outContains: "\"name\": \"all\"",
		},
		{
			name:          "unknown dump format",
			cfg:           &config.Config{Dump: true, DumpFormat: "dot"},
			expectError:   true,
			errorContains: "dot",
		},
		{
			name:        "debug view",
			cfg:         &config.Config{DebugView: true, Palette: "hot", WSFiller: " ", Width: 40, Height: 8},
			outContains: "main",
		},
		{
			name:          "debug view with unknown palette",
			cfg:           &config.Config{DebugView: true, Palette: "neon", WSFiller: " ", Width: 40, Height: 8},
			expectError:   true,
			errorContains: "unknown palette",
		},
		{
			name:          "tui without TUI instance",
			cfg:           &config.Config{},
			expectError:   true,
			errorContains: "TUI not initialized",
		},
		{
			name:          "analyzer error",
			cfg:           &config.Config{Dump: true, DumpFormat: "json"},
			analyzerErr:   io.EOF,
			expectError:   true,
			errorContains: "EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockA := &mockAnalyzer{profile: testProfile(), err: tt.analyzerErr}

			var out bytes.Buffer
			err := run(context.Background(), tt.cfg, discardLogger(), mockA, nil, &out)

			if tt.expectError {
				if err == nil {
					t.Errorf("run() expected error containing %q, got nil", tt.errorContains)
				} else if !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("run() error = %v, want error containing %q", err, tt.errorContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("run() unexpected error: %v", err)
			}
			if !strings.Contains(out.String(), tt.outContains) {
				t.Errorf("output %q should contain %q", out.String(), tt.outContains)
			}
		})
	}
}

func TestRunWithTUI(t *testing.T) {
	mockA := &mockAnalyzer{profile: testProfile()}
	mockT := &mockTUI{}

	if err := run(context.Background(), &config.Config{}, discardLogger(), mockA, mockT, io.Discard); err != nil {
		t.Errorf("run() unexpected error: %v", err)
	}
	if !mockT.runCalled {
		t.Error("TUI.Run() was not called")
	}
}

func TestRunWithTUIError(t *testing.T) {
	mockA := &mockAnalyzer{profile: testProfile()}
	mockT := &mockTUI{runErr: io.EOF}

	if err := run(context.Background(), &config.Config{}, discardLogger(), mockA, mockT, io.Discard); err == nil {
		t.Error("run() expected error, got nil")
	}
}

func TestRunSkipsTUIForDump(t *testing.T) {
	mockA := &mockAnalyzer{profile: testProfile()}
	mockT := &mockTUI{}
	cfg := &config.Config{Dump: true, DumpFormat: "collapsed"}

	if err := run(context.Background(), cfg, discardLogger(), mockA, mockT, io.Discard); err != nil {
		t.Fatalf("run() unexpected error: %v", err)
	}
	if mockT.runCalled {
		t.Error("dump should not start the browser")
	}
}

// =============================================================================
// Exit code Tests
// =============================================================================

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"usage", fmt.Errorf("%w: no input file given", config.ErrUsage), exitUsage},
		{"unreadable", fmt.Errorf("open x: %w", analyzer.ErrFileUnreadable), exitFatal},
		{"empty trace", fmt.Errorf("failed to parse x: %w", stacks.ErrEmptyTraceFile), exitFatal},
		{"other", errors.New("boom"), exitFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// =============================================================================
// Integration-style Tests
// =============================================================================

func writeTrace(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestRealMain(t *testing.T) {
	trace := writeTrace(t, "main;foo;bar 5\nmain;foo;baz 3\nmain;qux 2\n")
	empty := writeTrace(t, "")

	tests := []struct {
		name    string
		args    []string
		want    int
		stdout  string
		stderr  string
		oneLine bool
	}{
		{name: "help", args: []string{"-h"}, want: exitOK},
		{name: "no input file", args: []string{"-d"}, want: exitUsage, stderr: "termflame: usage error: no input file given"},
		{name: "unknown format", args: []string{"-t", "ruby", trace}, want: exitUsage, stderr: "invalid input format"},
		{name: "unknown flag", args: []string{"-frobnicate", trace}, want: exitUsage},
		{name: "missing file", args: []string{"-d", filepath.Join(t.TempDir(), "nope")}, want: exitFatal, stderr: "file unreadable", oneLine: true},
		{name: "empty file", args: []string{"-d", empty}, want: exitFatal, stderr: "empty trace file", oneLine: true},
		{name: "dump", args: []string{"-d", trace}, want: exitOK, stdout: "main;foo;baz 3\n"},
		{name: "dump after file", args: []string{trace, "-d", "-dump-format", "json"}, want: exitOK, stdout: "\"samples\": 3"},
		{name: "unwritable log", args: []string{"-d", "-log", t.TempDir(), trace}, want: exitFatal, stderr: "failed to open log file", oneLine: true},
		{name: "debug view", args: []string{"-debug-view", "-width", "40", "-height", "6", trace}, want: exitOK, stdout: "main"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if got := realMain(tt.args, &stdout, &stderr); got != tt.want {
				t.Fatalf("realMain(%v) = %d, want %d (stderr: %s)", tt.args, got, tt.want, stderr.String())
			}
			if !strings.Contains(stdout.String(), tt.stdout) {
				t.Errorf("stdout %q should contain %q", stdout.String(), tt.stdout)
			}
			if !strings.Contains(stderr.String(), tt.stderr) {
				t.Errorf("stderr %q should contain %q", stderr.String(), tt.stderr)
			}
			if tt.oneLine {
				if lines := strings.Count(stderr.String(), "\n"); lines != 1 || !strings.HasPrefix(stderr.String(), "termflame: ") {
					t.Errorf("fatal errors should print one termflame line, got %q", stderr.String())
				}
			}
		})
	}
}

func TestRealMainLogFile(t *testing.T) {
	trace := writeTrace(t, "main;foo 3\nthis line is garbage\n")
	logPath := filepath.Join(t.TempDir(), "termflame.log")

	var stdout, stderr bytes.Buffer
	if code := realMain([]string{"-d", "-log", logPath, "-verbose", trace}, &stdout, &stderr); code != exitOK {
		t.Fatalf("realMain() = %d, stderr: %s", code, stderr.String())
	}
	if stderr.Len() != 0 {
		t.Errorf("logs should go to the file, stderr got %q", stderr.String())
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "Trace loaded") {
		t.Errorf("log file should hold the load summary, got %q", data)
	}
}

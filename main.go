// Command termflame shows stack samples as an interactive flame graph in
// the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ikari-pl/termflame/internal/analyzer"
	"github.com/ikari-pl/termflame/internal/config"
	"github.com/ikari-pl/termflame/internal/output"
	"github.com/ikari-pl/termflame/internal/tui"
	"github.com/ikari-pl/termflame/internal/tui/theme"
)

// Exit codes.
const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

func realMain(args []string, stdout, stderr io.Writer) int {
	cfg := config.NewConfig()
	if err := cfg.ParseFlags(args, stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "termflame: %v\n", err)
		fmt.Fprintln(stderr, "Run 'termflame -h' for usage.")
		return exitUsage
	}

	logOut := stderr
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(stderr, "termflame: failed to open log file: %v\n", err)
			return exitFatal
		}
		defer f.Close()
		logOut = f
	}
	logger := NewLogger(cfg, logOut)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	palette, err := theme.GetPalette(cfg.Palette)
	if err != nil {
		fmt.Fprintf(stderr, "termflame: %v\n", err)
		return exitUsage
	}

	a := analyzer.NewAnalyzer(logger)
	app := tui.NewTUI(logger, palette, cfg.Filler())
	if err := run(ctx, cfg, logger, a, app, stdout); err != nil {
		fmt.Fprintf(stderr, "termflame: %v\n", err)
		return exitCode(err)
	}
	return exitOK
}

// exitCode maps an error returned by run to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, config.ErrUsage):
		return exitUsage
	default:
		return exitFatal
	}
}

// NewLogger creates a text logger writing to w at the level selected by
// the config: warnings by default, info with -verbose, debug with -debug.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelInfo
	}
	if cfg.Debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

// run loads the trace and then dumps it, renders a single frame or opens the
// browser, depending on the config.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, a analyzer.Analyzer, app tui.TUI, stdout io.Writer) error {
	profile, err := a.Analyze(ctx, cfg.ToAnalysisOptions())
	if err != nil {
		return err
	}

	switch {
	case cfg.Dump:
		logger.Debug("Dumping profile", "format", cfg.DumpFormat)
		return output.NewManager().Format(ctx, cfg.DumpFormat, profile, stdout)

	case cfg.DebugView:
		return renderDebugView(cfg, profile, stdout)
	}

	if app == nil {
		return fmt.Errorf("TUI not initialized")
	}
	logger.Debug("Starting browser", "nodes", profile.Stats.Nodes)
	return app.Run(ctx, profile)
}

// renderDebugView prints the initial screen at the configured size.
func renderDebugView(cfg *config.Config, profile *analyzer.Profile, stdout io.Writer) error {
	palette, err := theme.GetPalette(cfg.Palette)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrUsage, err)
	}
	view, err := tui.Snapshot(profile, tui.NewStyleManager(palette), cfg.Filler(), cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, view)
	return err
}

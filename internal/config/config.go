// Package config provides configuration management for termflame.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/ikari-pl/termflame/internal/stacks"
)

// ErrUsage marks errors caused by bad command line input.
var ErrUsage = errors.New("usage error")

// Palettes lists the color palette names.
var Palettes = []string{"hot", "io", "wakeup", "chain"}

// DumpFormats lists the formats accepted by -dump-format.
var DumpFormats = []string{"collapsed", "json"}

// Config holds the application configuration.
type Config struct {
	// Input options
	InputFile string `json:"input_file"`
	Format    string `json:"format"`

	// Display options
	Palette  string `json:"palette"`
	WSFiller string `json:"ws_filler"`

	// Output options
	Dump       bool   `json:"dump"`
	DumpFormat string `json:"dump_format"`

	// Debug options
	DebugView bool   `json:"debug_view"` // render a single frame to stdout and exit
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	LogFile   string `json:"log_file,omitempty"`
	Verbose   bool   `json:"verbose"`
	Debug     bool   `json:"debug"`
}

// NewConfig creates a new configuration with default values.
func NewConfig() *Config {
	return &Config{
		Format:     stacks.FormatNone,
		Palette:    "hot",
		WSFiller:   " ",
		DumpFormat: "collapsed",
		Width:      120,
		Height:     40,
	}
}

// FlagSet returns a flag set bound to the config fields.
func (c *Config) FlagSet(output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("termflame", flag.ContinueOnError)
	fs.SetOutput(output)

	formats := strings.Join(stacks.Formats(), ", ")
	fs.StringVar(&c.Format, "t", c.Format, "Input format ("+formats+")")
	fs.StringVar(&c.Format, "type", c.Format, "Input format ("+formats+")")
	fs.StringVar(&c.Palette, "p", c.Palette, "Color palette ("+strings.Join(Palettes, ", ")+")")
	fs.StringVar(&c.Palette, "palette", c.Palette, "Color palette ("+strings.Join(Palettes, ", ")+")")
	fs.StringVar(&c.WSFiller, "ws-filler", c.WSFiller, "Character used to pad frame labels")
	fs.BoolVar(&c.Dump, "d", c.Dump, "Print the aggregated stacks and exit")
	fs.BoolVar(&c.Dump, "dump", c.Dump, "Print the aggregated stacks and exit")
	fs.StringVar(&c.DumpFormat, "dump-format", c.DumpFormat, "Dump format (collapsed, json)")
	fs.BoolVar(&c.DebugView, "debug-view", c.DebugView, "Render one frame to stdout and exit")
	fs.IntVar(&c.Width, "width", c.Width, "Width used by -debug-view")
	fs.IntVar(&c.Height, "height", c.Height, "Height used by -debug-view")
	fs.StringVar(&c.LogFile, "log", c.LogFile, "Write logs to this file instead of stderr")
	fs.BoolVar(&c.Verbose, "verbose", c.Verbose, "Verbose output")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Debug output")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: termflame [flags] -t <format> <input-file>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	return fs
}

// ParseFlags parses command line arguments (without the program name)
// and updates the config. The input file may appear anywhere among the
// flags. Errors wrap ErrUsage, except flag.ErrHelp which is returned as is.
func (c *Config) ParseFlags(args []string, output io.Writer) error {
	fs := c.FlagSet(output)
	filtered, path := extractPositionalPath(args)

	if err := fs.Parse(filtered); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	rest := fs.Args()
	if path == "" && len(rest) > 0 {
		path, rest = rest[0], rest[1:]
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: only one input file may be given", ErrUsage)
	}
	c.InputFile = path

	return c.Validate()
}

// valueFlags are the flags that consume the following argument.
var valueFlags = map[string]bool{
	"t": true, "type": true,
	"p": true, "palette": true,
	"ws-filler":   true,
	"dump-format": true,
	"width":       true, "height": true,
	"log": true,
}

// extractPositionalPath pulls the first non-flag argument out of args so
// that flags after the input file are still parsed.
func extractPositionalPath(args []string) ([]string, string) {
	filtered := make([]string, 0, len(args))
	path := ""
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			filtered = append(filtered, args[i:]...)
			break
		}
		if strings.HasPrefix(arg, "-") && arg != "-" {
			filtered = append(filtered, arg)
			name := strings.TrimLeft(arg, "-")
			if !strings.Contains(name, "=") && valueFlags[name] && i+1 < len(args) {
				i++
				filtered = append(filtered, args[i])
			}
			continue
		}
		if path == "" {
			path = arg
			continue
		}
		filtered = append(filtered, arg)
	}
	return filtered, path
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.InputFile == "" {
		return fmt.Errorf("%w: no input file given", ErrUsage)
	}

	if !stacks.IsFormat(c.Format) {
		return fmt.Errorf("%w: invalid input format: %s (valid: %s)",
			ErrUsage, c.Format, strings.Join(stacks.Formats(), ", "))
	}

	if !slices.Contains(Palettes, c.Palette) {
		return fmt.Errorf("%w: invalid palette: %s (valid: %s)",
			ErrUsage, c.Palette, strings.Join(Palettes, ", "))
	}

	if !slices.Contains(DumpFormats, c.DumpFormat) {
		return fmt.Errorf("%w: invalid dump format: %s (valid: %s)",
			ErrUsage, c.DumpFormat, strings.Join(DumpFormats, ", "))
	}

	if utf8.RuneCountInString(c.WSFiller) != 1 {
		return fmt.Errorf("%w: -ws-filler must be a single character, got %q", ErrUsage, c.WSFiller)
	}

	if c.DebugView && (c.Width <= 0 || c.Height <= 0) {
		return fmt.Errorf("%w: -width and -height must be positive", ErrUsage)
	}

	return nil
}

// Filler returns the padding rune.
func (c *Config) Filler() rune {
	r, _ := utf8.DecodeRuneInString(c.WSFiller)
	if r == utf8.RuneError {
		return ' '
	}
	return r
}

// ToAnalysisOptions converts the config to analyzer options.
func (c *Config) ToAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		InputFile: c.InputFile,
		Format:    c.Format,
	}
}

// AnalysisOptions represents options for loading a trace file.
type AnalysisOptions struct {
	InputFile string `json:"input_file"`
	Format    string `json:"format"`
}

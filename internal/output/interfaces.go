// Package output writes loaded profiles in machine readable formats.
package output

import (
	"context"
	"io"

	"github.com/ikari-pl/termflame/internal/analyzer"
)

// Formatter provides methods for formatting profiles into different output formats.
type Formatter interface {
	// Format formats the given profile and writes it to the writer.
	Format(ctx context.Context, p *analyzer.Profile, w io.Writer) error

	// Name returns the name of the formatter.
	Name() string

	// Description returns a description of the output format.
	Description() string
}

// Manager manages multiple output formatters.
type Manager interface {
	// RegisterFormatter registers a new formatter.
	RegisterFormatter(formatter Formatter)

	// GetFormatter returns a formatter by name.
	GetFormatter(name string) (Formatter, error)

	// ListFormatters returns all available formatter names.
	ListFormatters() []string

	// Format formats the profile using the specified formatter.
	Format(ctx context.Context, formatName string, p *analyzer.Profile, w io.Writer) error
}

package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// repository implements the Repository interface.
type repository struct {
	logger *slog.Logger
	stdin  io.Reader
}

// NewRepository creates a new Repository instance.
func NewRepository(logger *slog.Logger) Repository {
	return &repository{
		logger: logger,
		stdin:  os.Stdin,
	}
}

// Open opens the named trace file, or standard input for "-".
func (r *repository) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if path == "-" {
		r.logger.Debug("Reading trace from stdin")
		return &traceFile{ReadCloser: io.NopCloser(r.stdin), path: path}, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileUnreadable, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrFileUnreadable, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileUnreadable, path, err)
	}

	r.logger.Debug("Opened trace file", "path", path, "bytes", info.Size())
	return &traceFile{ReadCloser: f, path: path}, nil
}

// traceFile tags read failures with ErrFileUnreadable so they survive the
// adapters' own wrapping.
type traceFile struct {
	io.ReadCloser
	path string
}

func (f *traceFile) Read(p []byte) (int, error) {
	n, err := f.ReadCloser.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		err = fmt.Errorf("%w: %s: %w", ErrFileUnreadable, f.path, err)
	}
	return n, err
}

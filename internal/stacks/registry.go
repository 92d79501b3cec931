package stacks

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Supported input formats.
const (
	FormatNone   = "none"
	FormatDtrace = "dtrace"
	FormatPerf   = "perf"
	FormatPySpy  = "pyspy"
	FormatPprof  = "pprof"
)

// maxLineSize bounds a single input line; collapsed stacks of deep
// recursions easily exceed bufio's 64KiB default.
const maxLineSize = 16 << 20

var formats = []string{FormatNone, FormatDtrace, FormatPerf, FormatPySpy, FormatPprof}

// Formats returns the names of all supported formats.
func Formats() []string {
	out := make([]string, len(formats))
	copy(out, formats)
	return out
}

// IsFormat reports whether name is a supported format.
func IsFormat(name string) bool {
	for _, f := range formats {
		if f == name {
			return true
		}
	}
	return false
}

// New returns the adapter for the given format name.
func New(format string) (Adapter, error) {
	switch format {
	case FormatNone:
		return &collapsedAdapter{name: FormatNone, trim: true}, nil
	case FormatPySpy:
		return &collapsedAdapter{name: FormatPySpy}, nil
	case FormatDtrace:
		return &dtraceAdapter{}, nil
	case FormatPerf:
		return &perfAdapter{}, nil
	case FormatPprof:
		return &pprofAdapter{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (valid: %s)", format, strings.Join(formats, ", "))
	}
}

var offsetRe = regexp.MustCompile(`\+0x[0-9a-fA-F]+$`)

// trimOffset removes a trailing address offset: "memcmp+0x16" -> "memcmp".
func trimOffset(name string) string {
	return offsetRe.ReplaceAllString(name, "")
}

// parseWeight accepts strictly positive decimal counts.
func parseWeight(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func reverse(frames []string) {
	for i, j := 0, len(frames)-1; i < j; i, j = i+1, j-1 {
		frames[i], frames[j] = frames[j], frames[i]
	}
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return scanner
}

// lineReader iterates trimmed lines and checks for cancellation every so
// often so huge inputs can be abandoned.
type lineReader struct {
	ctx     context.Context
	scanner *bufio.Scanner
	lineNo  int
	line    string
}

func newLineReader(ctx context.Context, r io.Reader) *lineReader {
	return &lineReader{ctx: ctx, scanner: newScanner(r)}
}

func (lr *lineReader) next() bool {
	if lr.lineNo%4096 == 0 && lr.ctx.Err() != nil {
		return false
	}
	if !lr.scanner.Scan() {
		return false
	}
	lr.lineNo++
	lr.line = strings.TrimSpace(lr.scanner.Text())
	return true
}

func (lr *lineReader) err() error {
	if err := lr.ctx.Err(); err != nil {
		return err
	}
	return lr.scanner.Err()
}

// finish validates a stream before it is handed out.
func finish(stream *Stream, err error) (*Stream, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to read %s input: %w", stream.Format, err)
	}
	if len(stream.Samples) == 0 {
		return nil, fmt.Errorf("%s input: %w", stream.Format, ErrEmptyTraceFile)
	}
	return stream, nil
}

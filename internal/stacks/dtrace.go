package stacks

import (
	"context"
	"io"
	"strconv"
)

// dtraceAdapter reads aggregated ustack()/stack() output:
//
//	libc.so.7`memcmp+0x16
//	tcsh`0x4485a3
//	ld-elf.so.1`0xc0067b000
//	   42
//
// Frames are printed leaf first and each stack is closed by its count.
type dtraceAdapter struct{}

func (a *dtraceAdapter) Name() string {
	return FormatDtrace
}

func (a *dtraceAdapter) Parse(ctx context.Context, r io.Reader) (*Stream, error) {
	stream := &Stream{Format: FormatDtrace}
	lines := newLineReader(ctx, r)

	var stack []string
	for lines.next() {
		line := lines.line
		if line == "" {
			continue
		}
		if weight, err := strconv.ParseInt(line, 10, 64); err == nil {
			if len(stack) == 0 || weight <= 0 {
				// A count without frames to attach it to, or nothing to count.
				stream.Skipped++
				stack = nil
				continue
			}
			reverse(stack)
			stream.Samples = append(stream.Samples, Sample{Frames: stack, Weight: weight})
			stack = nil
			continue
		}
		stack = append(stack, trimOffset(line))
	}
	// Frames left at EOF never received a count.
	stream.Skipped += len(stack)

	return finish(stream, lines.err())
}

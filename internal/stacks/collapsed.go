package stacks

import (
	"context"
	"io"
	"strings"
)

// collapsedAdapter reads already collapsed stacks, one per line:
//
//	kernel`0xffffffff8074d27e;kernel`_sx_xlock 1
//	kernel`0xffffffff8074d27e;kernel`fork_exit;if_cxgbe.ko`t4_eth_rx 5
//
// py-spy writes the same grammar but its frame names carry spaces and
// "file:line" suffixes that must be kept verbatim.
type collapsedAdapter struct {
	name string
	trim bool
}

func (a *collapsedAdapter) Name() string {
	return a.name
}

func (a *collapsedAdapter) Parse(ctx context.Context, r io.Reader) (*Stream, error) {
	stream := &Stream{Format: a.name}
	lines := newLineReader(ctx, r)

	for lines.next() {
		line := lines.line
		if line == "" {
			continue
		}
		idx := strings.LastIndexByte(line, ' ')
		if idx <= 0 {
			stream.Skipped++
			continue
		}
		weight, ok := parseWeight(line[idx+1:])
		if !ok {
			stream.Skipped++
			continue
		}
		stack := strings.TrimSpace(line[:idx])
		if stack == "" {
			stream.Skipped++
			continue
		}
		frames := strings.Split(stack, ";")
		if a.trim {
			for i, f := range frames {
				frames[i] = trimOffset(f)
			}
		}
		stream.Samples = append(stream.Samples, Sample{Frames: frames, Weight: weight})
	}

	return finish(stream, lines.err())
}

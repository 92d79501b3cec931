package stacks

import (
	"context"
	"io"
	"path"
	"strings"
	"unicode"
)

// perfAdapter reads `perf script` output:
//
//	init     1 [002] 4042688.470566:     454356 cycles:
//	    5028bd intel_idle (/usr/lib/debug/lib/modules/2.6.32/vmlinux)
//	    64a99e cpuidle_idle_call (/usr/lib/debug/lib/modules/2.6.32/vmlinux)
//
// Each event header is followed by its callchain, leaf first, and a blank
// line. Every event counts once and the command name becomes the root frame.
type perfAdapter struct{}

func (a *perfAdapter) Name() string {
	return FormatPerf
}

func (a *perfAdapter) Parse(ctx context.Context, r io.Reader) (*Stream, error) {
	stream := &Stream{Format: FormatPerf}
	lines := newLineReader(ctx, r)

	var (
		stack []string
		comm  string
	)
	flush := func() {
		if comm != "" {
			stack = append(stack, comm)
			reverse(stack)
			stream.Samples = append(stream.Samples, Sample{Frames: stack, Weight: 1})
		} else if len(stack) > 0 {
			// A callchain that never had an event header.
			stream.Skipped += len(stack)
		}
		stack = nil
		comm = ""
	}

	for lines.next() {
		line := lines.line
		if line == "" {
			flush()
			continue
		}

		fields := strings.Fields(line)
		if len(fields) > 3 {
			name := commName(fields)
			if name == "" {
				stream.Skipped++
				continue
			}
			comm = name
			continue
		}

		frame, ok := frameName(fields)
		if !ok {
			stream.Skipped++
			continue
		}
		stack = append(stack, trimOffset(frame))
	}
	// The last event is often not followed by a blank line.
	flush()

	return finish(stream, lines.err())
}

// commName joins the leading non-numeric header fields:
//
//	[Web 123 cycles:]           -> Web
//	[Google Chrome 321 cycles:] -> Google_Chrome
func commName(fields []string) string {
	var parts []string
	for _, f := range fields {
		if isDigits(f) {
			break
		}
		parts = append(parts, f)
	}
	return strings.Join(parts, "_")
}

// frameName extracts the symbol of a callchain line:
//
//	ffffffff818244f2 [unknown] ([kernel.kallsyms]) -> [kernel.kallsyms]
//	1094d __GI___libc_recvmsg (/lib/libpthread-2.23.so) -> __GI___libc_recvmsg
func frameName(fields []string) (string, bool) {
	if len(fields) < 2 {
		return "", false
	}
	if fields[1] != "[unknown]" {
		return fields[1], true
	}
	if len(fields) < 3 {
		return "[unknown]", true
	}
	return moduleName(strings.TrimSuffix(strings.TrimPrefix(fields[2], "("), ")")), true
}

// moduleName mirrors the naming used by stackcollapse-perf.pl:
// /usr/bin/firefox -> [firefox].
func moduleName(module string) string {
	if module == "[unknown]" || module == "" {
		return "[unknown]"
	}
	if strings.HasPrefix(module, "[") && strings.HasSuffix(module, "]") {
		return module
	}
	return "[" + path.Base(module) + "]"
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

package stacks

import (
	"context"
	"fmt"
	"io"

	"github.com/google/pprof/profile"
)

// pprofAdapter reads gzipped or raw protobuf profiles as written by
// runtime/pprof, `go tool pprof -proto` or perf_to_profile.
type pprofAdapter struct{}

func (a *pprofAdapter) Name() string {
	return FormatPprof
}

func (a *pprofAdapter) Parse(ctx context.Context, r io.Reader) (*Stream, error) {
	stream := &Stream{Format: FormatPprof}

	prof, err := profile.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode pprof input: %w", err)
	}

	valueIdx := defaultSampleIndex(prof)
	for i, s := range prof.Sample {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return finish(stream, err)
			}
		}
		if valueIdx >= len(s.Value) || s.Value[valueIdx] <= 0 {
			stream.Skipped++
			continue
		}
		frames := sampleFrames(s)
		if len(frames) == 0 {
			stream.Skipped++
			continue
		}
		stream.Samples = append(stream.Samples, Sample{Frames: frames, Weight: s.Value[valueIdx]})
	}

	return finish(stream, nil)
}

// defaultSampleIndex picks the profile's default sample type, falling back
// to the last one as pprof itself does.
func defaultSampleIndex(prof *profile.Profile) int {
	if len(prof.SampleType) == 0 {
		return 0
	}
	for i, st := range prof.SampleType {
		if st.Type == prof.DefaultSampleType {
			return i
		}
	}
	return len(prof.SampleType) - 1
}

// sampleFrames expands locations (leaf first in pprof) into root-to-leaf
// frame names. Inlined functions become frames of their own.
func sampleFrames(s *profile.Sample) []string {
	frames := make([]string, 0, len(s.Location))
	for _, loc := range s.Location {
		if len(loc.Line) == 0 {
			if loc.Mapping == nil || loc.Mapping.File == "" {
				frames = append(frames, fmt.Sprintf("0x%x", loc.Address))
			} else {
				frames = append(frames, fmt.Sprintf("0x%x @%s", loc.Address, loc.Mapping.File))
			}
			continue
		}
		// loc.Line is ordered callee first; the last entry is the
		// function the location physically belongs to.
		for j := range loc.Line {
			name := lineName(loc.Line[j], loc.Address)
			if j != len(loc.Line)-1 {
				name += " (inlined)"
			}
			frames = append(frames, name)
		}
	}
	reverse(frames)
	return frames
}

func lineName(line profile.Line, addr uint64) string {
	if line.Function == nil {
		return fmt.Sprintf("0x%x", addr)
	}
	if line.Function.Name != "" {
		return line.Function.Name
	}
	if line.Function.SystemName != "" {
		return line.Function.SystemName
	}
	return fmt.Sprintf("0x%x", addr)
}

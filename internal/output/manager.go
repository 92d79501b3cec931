package output

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/ikari-pl/termflame/internal/analyzer"
)

type manager struct {
	formatters map[string]Formatter
}

// NewManager returns a manager with the built-in formatters registered.
func NewManager() Manager {
	m := &manager{formatters: make(map[string]Formatter)}
	m.RegisterFormatter(NewCollapsedFormatter())
	m.RegisterFormatter(NewJSONFormatter())
	return m
}

func (m *manager) RegisterFormatter(formatter Formatter) {
	m.formatters[formatter.Name()] = formatter
}

func (m *manager) GetFormatter(name string) (Formatter, error) {
	f, ok := m.formatters[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format: %s", name)
	}
	return f, nil
}

func (m *manager) ListFormatters() []string {
	names := make([]string, 0, len(m.formatters))
	for name := range m.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *manager) Format(ctx context.Context, formatName string, p *analyzer.Profile, w io.Writer) error {
	f, err := m.GetFormatter(formatName)
	if err != nil {
		return err
	}
	return f.Format(ctx, p, w)
}

package output

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ikari-pl/termflame/internal/analyzer"
	"github.com/ikari-pl/termflame/internal/calltree"
)

// jsonNode is the d3-flame-graph node shape.
type jsonNode struct {
	Name     string      `json:"name"`
	Value    int64       `json:"value"`
	Self     int64       `json:"self"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonDocument struct {
	Stats analyzer.ProfileStats `json:"stats"`
	Root  *jsonNode             `json:"root"`
}

// jsonFormatter implements the Formatter interface for JSON output.
type jsonFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() Formatter {
	return &jsonFormatter{}
}

// Format formats the given profile and writes it to the writer as JSON.
func (f *jsonFormatter) Format(ctx context.Context, p *analyzer.Profile, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc := jsonDocument{Stats: p.Stats, Root: toJSON(p.Tree, p.Tree.Root())}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

func toJSON(tree *calltree.Tree, id calltree.NodeID) *jsonNode {
	n := &jsonNode{Name: tree.Label(id), Value: tree.Weight(id), Self: tree.Self(id)}
	if id == tree.Root() {
		n.Name = "all"
	}
	for _, c := range calltree.Ordered(tree, id) {
		n.Children = append(n.Children, toJSON(tree, c))
	}
	return n
}

// Name returns the name of the formatter.
func (f *jsonFormatter) Name() string {
	return "json"
}

// Description returns a description of the output format.
func (f *jsonFormatter) Description() string {
	return "JSON call tree for programmatic consumption"
}

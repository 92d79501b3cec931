package output

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ikari-pl/termflame/internal/analyzer"
	"github.com/ikari-pl/termflame/internal/calltree"
)

// collapsedFormatter writes one "frame;frame;frame count" line per distinct
// stack, in tree order. Its output reads back with -t none.
type collapsedFormatter struct{}

// NewCollapsedFormatter creates a new collapsed stacks formatter.
func NewCollapsedFormatter() Formatter {
	return &collapsedFormatter{}
}

// Format writes the stacks that carry self weight. Samples with an empty
// stack have no collapsed form and are left out.
func (f *collapsedFormatter) Format(ctx context.Context, p *analyzer.Profile, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	tree := p.Tree
	var werr error
	tree.Walk(func(id calltree.NodeID, stack []string) {
		if werr != nil || id == tree.Root() || tree.Self(id) == 0 {
			return
		}
		_, werr = fmt.Fprintf(bw, "%s %d\n", strings.Join(stack, ";"), tree.Self(id))
	})
	if werr != nil {
		return fmt.Errorf("failed to write collapsed stacks: %w", werr)
	}
	return bw.Flush()
}

// Name returns the name of the formatter.
func (f *collapsedFormatter) Name() string {
	return "collapsed"
}

// Description returns a description of the output format.
func (f *collapsedFormatter) Description() string {
	return "Collapsed stacks, one per line, as read by flamegraph.pl"
}

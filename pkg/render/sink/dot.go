package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/layout"
)

// pointsPerInch converts canvas units to Graphviz inches.
const pointsPerInch = 72.0

// ToDOT converts res to a Graphviz graph. Node positions are pinned, and y is
// flipped because Graphviz puts the origin at the bottom left.
func ToDOT(res layout.Result, opts ...Option) string {
	r := newRenderer(opts...)
	st := r.style()

	var buf bytes.Buffer
	buf.WriteString("graph tree {\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", r.palette.Background())
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	fmt.Fprintf(&buf, "  node [shape=circle, fixedsize=true, width=%.4f, style=filled, fontsize=%g, penwidth=%g];\n",
		2*res.NodeRadius/pointsPerInch, st.FontSize, st.BorderWidth)
	fmt.Fprintf(&buf, "  edge [color=%q, penwidth=%g];\n", r.palette.Line(), st.LineWidth)
	buf.WriteString("\n")

	for _, n := range res.Nodes {
		fmt.Fprintf(&buf, "  n%d [label=%q, pos=\"%.4f,%.4f!\", fillcolor=%q, fontcolor=%q, color=%q];\n",
			n.ID, n.Text,
			n.X/pointsPerInch, (res.Height-n.Y)/pointsPerInch,
			r.palette.Fill(n.Highlight), r.palette.Text(n.Highlight), r.palette.Border(n.Highlight))
	}

	buf.WriteString("\n")
	for _, e := range res.Edges {
		fmt.Fprintf(&buf, "  n%d -- n%d;\n", e.FromID, e.ToID)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOTSVG renders a DOT graph from [ToDOT] to SVG with the neato
// engine, which honors the pinned positions.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render DOT")
	}
	return buf.Bytes(), nil
}

package layout

import (
	"cmp"
	"slices"

	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/geom"
	"github.com/matzehuels/arbor/pkg/tree"
)

// =============================================================================
// Result - Render-ready Geometry
// =============================================================================

// Result is the output of a layout pass.
type Result struct {
	Width      float64   `json:"width"`
	Height     float64   `json:"height"`
	NodeRadius float64   `json:"node_radius"`
	Nodes      []Node    `json:"nodes"`
	Edges      []Edge    `json:"edges"`
	Warnings   []Warning `json:"warnings,omitempty"`

	// Rows lists node ids per depth, left to right.
	Rows [][]int `json:"rows"`
}

// Node is a positioned tree node.
type Node struct {
	ID        int             `json:"id"`
	X         float64         `json:"x"`
	Y         float64         `json:"y"`
	Depth     int             `json:"depth"`
	Text      string          `json:"text"`
	Highlight *tree.Highlight `json:"highlight,omitempty"`
}

// Edge is a parent→child connector.
//
// Connectors of an only child are trimmed to the two circle outlines.
// Connectors of parents with several children run center to center and are
// flagged Masked: renderers hide the parts that fall inside node circles.
type Edge struct {
	FromID int     `json:"from_id"`
	ToID   int     `json:"to_id"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
	Masked bool    `json:"masked,omitempty"`
}

// Node returns the positioned node with the given id.
func (r *Result) Node(id int) (Node, bool) {
	for _, n := range r.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// HasWarnings reports whether any row kept overlaps.
func (r *Result) HasWarnings() bool { return len(r.Warnings) > 0 }

// =============================================================================
// Compute - Layout Orchestrator
// =============================================================================

// Compute lays out the tree rooted at root and writes the final positions back
// onto its nodes. The tree must not be mutated concurrently.
func Compute(root *tree.Node, cfg Config) (Result, error) {
	if root == nil {
		return Result{}, errors.New(errors.ErrCodeInvalidInput, "layout of nil tree")
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	ix := newDepthIndex()
	place(root, 0, cfg.rootY(), 0, nil, cfg, ix)

	var warnings []Warning
	r := resolver{cfg: cfg}
	for depth := 1; depth < ix.Depths(); depth++ {
		if w := r.resolveRow(ix, depth); w != nil {
			warnings = append(warnings, *w)
		}
	}

	b := measure(root)
	width, height := canvas(b, cfg)
	center(root, b, width)

	return Result{
		Width:      width,
		Height:     height,
		NodeRadius: cfg.NodeRadius,
		Nodes:      nodes(root),
		Edges:      edges(root, cfg.NodeRadius),
		Warnings:   warnings,
		Rows:       rows(ix),
	}, nil
}

func nodes(root *tree.Node) []Node {
	out := make([]Node, 0, tree.Count(root))
	tree.Walk(root, func(n *tree.Node, depth int) bool {
		out = append(out, Node{
			ID:        n.ID,
			X:         n.X,
			Y:         n.Y,
			Depth:     depth,
			Text:      n.Text,
			Highlight: n.Highlight,
		})
		return true
	})
	return out
}

func edges(root *tree.Node, radius float64) []Edge {
	var out []Edge
	tree.Walk(root, func(n *tree.Node, _ int) bool {
		single := len(n.Children) == 1
		for _, c := range n.Children {
			s := geom.Segment{Start: geom.Point{X: n.X, Y: n.Y}, End: geom.Point{X: c.X, Y: c.Y}}
			if single {
				s = geom.Trim(s, geom.Circle{Center: s.Start, R: radius}, geom.Circle{Center: s.End, R: radius})
			}
			out = append(out, Edge{
				FromID: n.ID,
				ToID:   c.ID,
				X1:     s.Start.X,
				Y1:     s.Start.Y,
				X2:     s.End.X,
				Y2:     s.End.Y,
				Masked: !single,
			})
		}
		return true
	})
	return out
}

func rows(ix *DepthIndex) [][]int {
	out := make([][]int, ix.Depths())
	for d := range out {
		row := slices.Clone(ix.Row(d))
		slices.SortStableFunc(row, func(a, b *tree.Node) int { return cmp.Compare(a.X, b.X) })
		out[d] = make([]int, len(row))
		for i, n := range row {
			out[d][i] = n.ID
		}
	}
	return out
}

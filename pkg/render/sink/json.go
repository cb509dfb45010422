package sink

import (
	"encoding/json"

	"github.com/matzehuels/arbor/pkg/layout"
	"github.com/matzehuels/arbor/pkg/tree"
)

type jsonOutput struct {
	Width      float64          `json:"width"`
	Height     float64          `json:"height"`
	NodeRadius float64          `json:"node_radius"`
	Background string           `json:"background"`
	Line       string           `json:"line_color"`
	Rows       [][]int          `json:"rows"`
	Nodes      []jsonNode       `json:"nodes"`
	Edges      []layout.Edge    `json:"edges"`
	Warnings   []layout.Warning `json:"warnings,omitempty"`
}

type jsonNode struct {
	ID        int             `json:"id"`
	X         float64         `json:"x"`
	Y         float64         `json:"y"`
	Depth     int             `json:"depth"`
	Text      string          `json:"text"`
	Highlight *tree.Highlight `json:"highlight,omitempty"`
	Fill      string          `json:"fill"`
	TextColor string          `json:"text_color"`
	Border    string          `json:"border"`
}

// RenderJSON renders res with every node's resolved colors.
func RenderJSON(res layout.Result, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)

	out := jsonOutput{
		Width:      res.Width,
		Height:     res.Height,
		NodeRadius: res.NodeRadius,
		Background: r.palette.Background(),
		Line:       r.palette.Line(),
		Rows:       res.Rows,
		Nodes:      make([]jsonNode, len(res.Nodes)),
		Edges:      res.Edges,
		Warnings:   res.Warnings,
	}
	if out.Edges == nil {
		out.Edges = []layout.Edge{}
	}
	for i, n := range res.Nodes {
		out.Nodes[i] = jsonNode{
			ID:        n.ID,
			X:         n.X,
			Y:         n.Y,
			Depth:     n.Depth,
			Text:      n.Text,
			Highlight: n.Highlight,
			Fill:      r.palette.Fill(n.Highlight),
			TextColor: r.palette.Text(n.Highlight),
			Border:    r.palette.Border(n.Highlight),
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

package layout

import "github.com/matzehuels/arbor/pkg/tree"

// place anchors n at (x, y) and recursively positions its subtree with the
// naive centered rule, recording every node in ix.
func place(n *tree.Node, x, y float64, depth int, parent *tree.Node, cfg Config, ix *DepthIndex) {
	n.X, n.Y = x, y
	ix.add(n, depth, parent)

	startX := childStart(n, cfg)
	for i, c := range n.Children {
		place(c, startX+float64(i)*cfg.HorizontalSpacing, n.Y+cfg.VerticalSpacing, depth+1, n, cfg, ix)
	}
}

// childStart returns the x of the first child when n's children are spaced
// by HorizontalSpacing and centered under n.
func childStart(n *tree.Node, cfg Config) float64 {
	span := float64(len(n.Children)-1) * cfg.HorizontalSpacing
	return n.X - span/2
}

// recenter re-positions every descendant of n with the placement rule,
// keeping n itself fixed.
func recenter(n *tree.Node, cfg Config) {
	startX := childStart(n, cfg)
	for i, c := range n.Children {
		c.X = startX + float64(i)*cfg.HorizontalSpacing
		c.Y = n.Y + cfg.VerticalSpacing
		recenter(c, cfg)
	}
}

package layout

import (
	"math"

	"github.com/matzehuels/arbor/pkg/tree"
)

// Bounds is the extent of node centers after collision resolution.
type Bounds struct {
	MinX, MaxX, MaxY float64
}

func measure(root *tree.Node) Bounds {
	b := Bounds{MinX: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	tree.Walk(root, func(n *tree.Node, _ int) bool {
		b.MinX = min(b.MinX, n.X)
		b.MaxX = max(b.MaxX, n.X)
		b.MaxY = max(b.MaxY, n.Y)
		return true
	})
	return b
}

// canvas returns the canvas size for b. The width covers the distance between
// the outermost centers, one radius on each side and both horizontal margins.
// The height covers the lowest center, its radius and the bottom margin; the
// top margin and root radius are already part of the root's y.
func canvas(b Bounds, cfg Config) (width, height float64) {
	width = (b.MaxX - b.MinX) + 2*cfg.NodeRadius + 2*cfg.HorizontalMargin
	height = b.MaxY + cfg.NodeRadius + cfg.VerticalMargin
	return width, height
}

// center shifts every node so the tree is horizontally centered in a canvas
// of the given width, and returns the applied offset.
func center(root *tree.Node, b Bounds, width float64) float64 {
	offset := width/2 - (b.MaxX+b.MinX)/2
	tree.Walk(root, func(n *tree.Node, _ int) bool {
		n.X += offset
		return true
	})
	return offset
}

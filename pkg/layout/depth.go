package layout

import (
	"cmp"
	"slices"

	"github.com/matzehuels/arbor/pkg/tree"
)

// DepthIndex lists the nodes of each row in placement order, together with a
// parent lookup built once per pass. It is scratch state owned by a single
// layout pass.
type DepthIndex struct {
	rows   [][]*tree.Node
	parent map[*tree.Node]*tree.Node
}

func newDepthIndex() *DepthIndex {
	return &DepthIndex{parent: make(map[*tree.Node]*tree.Node)}
}

// add records n at depth. Each node is added once per pass.
func (ix *DepthIndex) add(n *tree.Node, depth int, parent *tree.Node) {
	for len(ix.rows) <= depth {
		ix.rows = append(ix.rows, nil)
	}
	ix.rows[depth] = append(ix.rows[depth], n)
	if parent != nil {
		ix.parent[n] = parent
	}
}

// Depths returns the number of rows.
func (ix *DepthIndex) Depths() int { return len(ix.rows) }

// Row returns the nodes at depth in placement order.
func (ix *DepthIndex) Row(depth int) []*tree.Node {
	if depth < 0 || depth >= len(ix.rows) {
		return nil
	}
	return ix.rows[depth]
}

// Parent returns the parent of n, or nil for the root.
func (ix *DepthIndex) Parent(n *tree.Node) *tree.Node { return ix.parent[n] }

// group is one parent together with its children on a row, sorted by x.
type group struct {
	parent   *tree.Node
	children []*tree.Node
}

func (g group) leftmost() float64  { return g.children[0].X }
func (g group) rightmost() float64 { return g.children[len(g.children)-1].X }

// groups splits a row into parent groups. Children inside a group are sorted
// by x, and the groups themselves by the x of their parent. The root row has
// no parent and yields no groups.
func (ix *DepthIndex) groups(depth int) []group {
	if depth == 0 {
		return nil
	}
	byParent := make(map[*tree.Node]int)
	var out []group
	for _, n := range ix.Row(depth) {
		p := ix.parent[n]
		i, ok := byParent[p]
		if !ok {
			i = len(out)
			byParent[p] = i
			out = append(out, group{parent: p})
		}
		out[i].children = append(out[i].children, n)
	}

	for _, g := range out {
		slices.SortStableFunc(g.children, byX)
	}
	slices.SortStableFunc(out, func(a, b group) int {
		return cmp.Compare(a.parent.X, b.parent.X)
	})
	return out
}

func byX(a, b *tree.Node) int { return cmp.Compare(a.X, b.X) }

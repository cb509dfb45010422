// Package layout computes canvas coordinates for a tree of circular nodes.
//
// A layout pass runs in four stages:
//
//  1. Placement: a pre-order walk puts each node's children on the next row,
//     evenly spaced and centered under the parent. Sibling subtree widths are
//     ignored, so unequal subtrees overlap.
//  2. Grouping: every row is split into parent groups, ordered by the x of
//     the parent.
//  3. Collision resolution: rows are processed top-down. Neighbouring groups
//     closer than the horizontal spacing form a cluster whose children are
//     redistributed uniformly under the cluster's midpoint, and their
//     subtrees are re-centered beneath them. The loop repeats until the row
//     is clean or the iteration cap is hit, in which case a [Warning] is
//     recorded for that row.
//  4. Bounds: the canvas size is derived from the extreme node positions and
//     the whole tree is shifted so it is horizontally centered.
//
// [Compute] runs the full pass and returns render-ready node and edge
// geometry. Every call starts from scratch: positions already stored on the
// tree are ignored and overwritten, so repeated calls on an unchanged tree
// give identical results.
//
//	res, err := layout.Compute(root, layout.DefaultConfig())
//	for _, w := range res.Warnings {
//	    log.Warn("overlap remains", "depth", w.Depth)
//	}
package layout

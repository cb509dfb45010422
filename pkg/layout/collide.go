package layout

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/arbor/pkg/tree"
)

// Warning reports a row whose overlaps could not be removed within the
// iteration cap. Positions on that row are best effort.
type Warning struct {
	Depth   int    `json:"depth"`
	Message string `json:"message"`
}

func (w Warning) String() string { return w.Message }

func newWarning(depth int) Warning {
	return Warning{
		Depth:   depth,
		Message: fmt.Sprintf("could not resolve all collisions, some nodes may overlap at depth %d", depth),
	}
}

// resolver removes overlaps between parent groups on a single row.
type resolver struct {
	cfg Config
}

// resolveRow removes overlaps on the row at depth. It returns a warning when
// collisions remain after the iteration cap.
//
// Groups are computed once per row. Parents sit on the row above and never
// move while this row is processed, so the group order stays valid; only the
// children's x values change between iterations.
func (r resolver) resolveRow(ix *DepthIndex, depth int) *Warning {
	groups := ix.groups(depth)
	if len(groups) < 2 {
		return nil
	}

	cluster := r.firstCollisionCluster(groups)
	if len(cluster) == 0 {
		return nil
	}

	for range r.cfg.MaxCollisionIterations {
		r.resolveCluster(cluster)

		next := r.firstCollisionCluster(groups)
		if len(next) == 0 {
			return nil
		}
		cluster = merge(cluster, next)
	}

	w := newWarning(depth)
	return &w
}

// firstCollisionCluster scans groups left to right and returns the parents of
// the first run of two or more colliding groups.
//
// A group joins the current run when its leftmost child is closer than the
// horizontal spacing to the rightmost child seen so far in the scan. Taking
// the running maximum makes the run the transitive closure of overlaps
// between neighbours, including a wide group reaching past a narrow one.
func (r resolver) firstCollisionCluster(groups []group) []*tree.Node {
	var run []*tree.Node
	var reach float64

	for i, g := range groups {
		if i > 0 && r.tooClose(g.leftmost()-reach) {
			run = append(run, g.parent)
		} else {
			if len(run) > 1 {
				return run
			}
			run = []*tree.Node{g.parent}
		}
		if i == 0 || g.rightmost() > reach {
			reach = g.rightmost()
		}
	}

	if len(run) > 1 {
		return run
	}
	return nil
}

// tooClose reports whether gap is below the horizontal spacing. Resolved
// children sit at startX + i*spacing, which is not exact in floating point,
// so gaps within a relative 1e-9 of the spacing count as clear.
func (r resolver) tooClose(gap float64) bool {
	s := r.cfg.HorizontalSpacing
	return gap < s-spacingTolerance*max(1, s)
}

const spacingTolerance = 1e-9

// resolveCluster spreads the children of parents uniformly, centered under
// the midpoint of the leftmost and rightmost parent, then re-centers every
// moved child's subtree.
//
// Children are taken parent by parent in x order and, within a parent, in x
// order. Children of one parent therefore stay contiguous and keep their
// sibling order; the tree's children slices are not reordered.
func (r resolver) resolveCluster(parents []*tree.Node) {
	var children []*tree.Node
	for _, p := range parents {
		sorted := slices.Clone(p.Children)
		slices.SortStableFunc(sorted, byX)
		children = append(children, sorted...)
	}
	if len(children) == 0 {
		return
	}

	left, right := parents[0].X, parents[0].X
	for _, p := range parents[1:] {
		left = min(left, p.X)
		right = max(right, p.X)
	}

	total := float64(len(children)-1) * r.cfg.HorizontalSpacing
	startX := (left+right)/2 - total/2
	for i, c := range children {
		c.X = startX + float64(i)*r.cfg.HorizontalSpacing
		recenter(c, r.cfg)
	}
}

// merge folds the parents of next that are not yet in cluster into it and
// returns the result ordered by parent x.
func merge(cluster, next []*tree.Node) []*tree.Node {
	out := slices.Clone(cluster)
	for _, p := range next {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b *tree.Node) int {
		return cmp.Compare(a.X, b.X)
	})
	return out
}

package editor

import (
	"math"

	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/layout"
	"github.com/matzehuels/arbor/pkg/tree"
)

// Navigation moves a cursor by node id. When there is nowhere to go the
// cursor's own id is returned. Positions come from the most recent layout,
// which is recomputed first if the tree changed.

// Parent returns the parent of id, or id itself for the root.
func (d *Document) Parent(id int) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if _, ok := tree.Find(d.root, id); !ok {
		return 0, errors.NotFound(id)
	}
	for n, p := range tree.Parents(d.root) {
		if n.ID == id {
			return p.ID, nil
		}
	}
	return id, nil
}

// MiddleChild returns the middle child of id, rounding towards the left. For
// a leaf it returns the node on the next row closest to it horizontally.
func (d *Document) MiddleChild(id int) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, ok := tree.Find(d.root, id)
	if !ok {
		return 0, errors.NotFound(id)
	}
	if len(n.Children) > 0 {
		return n.Children[(len(n.Children)-1)/2].ID, nil
	}

	res, err := d.current()
	if err != nil {
		return 0, err
	}
	pos, _ := res.Node(id)
	if pos.Depth+1 >= len(res.Rows) {
		return id, nil
	}
	if c, ok := closest(res, res.Rows[pos.Depth+1], pos.X); ok {
		return c, nil
	}
	return id, nil
}

// Prev returns the node to the left of id on the same row.
func (d *Document) Prev(id int) (int, error) { return d.step(id, -1) }

// Next returns the node to the right of id on the same row.
func (d *Document) Next(id int) (int, error) { return d.step(id, +1) }

func (d *Document) step(id, dir int) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := tree.Find(d.root, id); !ok {
		return 0, errors.NotFound(id)
	}
	res, err := d.current()
	if err != nil {
		return 0, err
	}
	pos, _ := res.Node(id)
	row := res.Rows[pos.Depth]
	for i, other := range row {
		if other != id {
			continue
		}
		if j := i + dir; j >= 0 && j < len(row) {
			return row[j], nil
		}
		break
	}
	return id, nil
}

// closest returns the id in row whose x is nearest to x.
func closest(res *layout.Result, row []int, x float64) (int, bool) {
	best, found := 0, false
	dist := math.Inf(1)
	for _, id := range row {
		n, _ := res.Node(id)
		if dx := math.Abs(n.X - x); dx < dist {
			best, dist, found = id, dx, true
		}
	}
	return best, found
}

package layout

import (
	"reflect"
	"testing"

	"github.com/matzehuels/arbor/pkg/tree"
)

// row builds parent groups with the given child x positions, with parents
// placed at increasing x.
func row(xs ...[]float64) []group {
	var out []group
	for i, cx := range xs {
		p := tree.New(i, "p")
		p.X = float64(i) * 1000
		g := group{parent: p}
		for j, x := range cx {
			c := p.AddChild(tree.New(100*i+j, "c"))
			c.X = x
			g.children = append(g.children, c)
		}
		out = append(out, g)
	}
	return out
}

func parentIDs(nodes []*tree.Node) []int {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]int, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func TestFirstCollisionCluster(t *testing.T) {
	r := resolver{cfg: DefaultConfig()}

	tests := []struct {
		name   string
		groups []group
		want   []int
	}{
		{"clean", row([]float64{0, 150}, []float64{300}, []float64{450}), nil},
		{"pair", row([]float64{0, 150}, []float64{200}), []int{0, 1}},
		{"first run wins", row([]float64{0}, []float64{100}, []float64{500}, []float64{550}), []int{0, 1}},
		{"transitive", row([]float64{0}, []float64{100}, []float64{200}), []int{0, 1, 2}},
		{"wide group reaches past narrow", row([]float64{0, 600}, []float64{300}, []float64{700}), []int{0, 1, 2}},
		{"exact spacing", row([]float64{0}, []float64{150}), nil},
		{"spacing within rounding", row([]float64{0}, []float64{150 - 1e-12}), nil},
		{"just under spacing", row([]float64{0}, []float64{149.999}), []int{0, 1}},
		{"single group", row([]float64{0, 10}), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parentIDs(r.firstCollisionCluster(tt.groups))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("firstCollisionCluster() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveClusterKeepsSiblingsTogether(t *testing.T) {
	r := resolver{cfg: DefaultConfig()}
	groups := row([]float64{0, 100}, []float64{50, 120})
	groups[0].parent.X, groups[1].parent.X = 0, 200

	r.resolveCluster([]*tree.Node{groups[0].parent, groups[1].parent})

	var got []float64
	for _, g := range groups {
		for _, c := range g.parent.Children {
			got = append(got, c.X)
		}
	}
	want := []float64{-125, 25, 175, 325}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("child x = %v, want %v", got, want)
	}
}

func TestResolveClusterFractionalSpacing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HorizontalSpacing = 72.3
	r := resolver{cfg: cfg}

	groups := row([]float64{0, 10, 20}, []float64{30, 40, 50})
	groups[0].parent.X, groups[1].parent.X = 0, 72.3
	r.resolveCluster([]*tree.Node{groups[0].parent, groups[1].parent})

	if got := r.firstCollisionCluster(groups); got != nil {
		t.Errorf("firstCollisionCluster() after resolve = %v, want none", parentIDs(got))
	}
}

func TestMerge(t *testing.T) {
	a, b, c := tree.New(1, "a"), tree.New(2, "b"), tree.New(3, "c")
	a.X, b.X, c.X = 0, 10, 20

	got := parentIDs(merge([]*tree.Node{b, c}, []*tree.Node{a, c}))
	if want := []int{1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("merge() = %v, want %v", got, want)
	}
}

func TestWarningMessage(t *testing.T) {
	w := newWarning(3)
	if w.Depth != 3 {
		t.Errorf("Depth = %d, want 3", w.Depth)
	}
	if want := "could not resolve all collisions, some nodes may overlap at depth 3"; w.String() != want {
		t.Errorf("String() = %q, want %q", w.String(), want)
	}
}

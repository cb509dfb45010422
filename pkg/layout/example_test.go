package layout_test

import (
	"fmt"

	"github.com/matzehuels/arbor/pkg/layout"
	"github.com/matzehuels/arbor/pkg/tree"
)

func ExampleCompute() {
	root := tree.New(0, "root")
	for i := 1; i <= 3; i++ {
		root.AddChild(tree.New(i, fmt.Sprint(i)))
	}

	res, err := layout.Compute(root, layout.DefaultConfig())
	if err != nil {
		panic(err)
	}

	fmt.Printf("canvas %.0fx%.0f\n", res.Width, res.Height)
	for _, n := range res.Nodes {
		fmt.Printf("%d at (%.0f, %.0f)\n", n.ID, n.X, n.Y)
	}
	// Output:
	// canvas 500x350
	// 0 at (250, 100)
	// 1 at (100, 250)
	// 2 at (250, 250)
	// 3 at (400, 250)
}

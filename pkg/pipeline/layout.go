package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/arbor/pkg/layout"
	"github.com/matzehuels/arbor/pkg/observability"
	"github.com/matzehuels/arbor/pkg/tree"
)

// Layout computes the layout of a copy of root; root itself is not touched.
// Unresolved collisions are reported through the pipeline hooks and carried
// in the result, they do not fail the stage.
func Layout(ctx context.Context, root *tree.Node, cfg layout.Config) (layout.Result, error) {
	if err := ctx.Err(); err != nil {
		return layout.Result{}, err
	}
	if root == nil {
		return layout.Result{}, invalidInput("tree is required")
	}

	hooks := observability.Pipeline()
	count := tree.Count(root)
	hooks.OnLayoutStart(ctx, count)

	start := time.Now()
	res, err := layout.Compute(root.Clone(), cfg)
	hooks.OnLayoutComplete(ctx, count, time.Since(start), err)
	if err != nil {
		return layout.Result{}, err
	}

	for _, w := range res.Warnings {
		hooks.OnLayoutWarning(ctx, w.Depth, w.Message)
	}
	return res, nil
}

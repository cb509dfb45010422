package pipeline

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/arbor/pkg/layout"
	"github.com/matzehuels/arbor/pkg/observability"
	"github.com/matzehuels/arbor/pkg/render/palette"
	"github.com/matzehuels/arbor/pkg/render/sink"
)

// Render generates output artifacts in the requested formats. Formats are
// rendered concurrently; the first failure cancels the rest.
func Render(ctx context.Context, res layout.Result, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	pal, err := palette.New(opts.Style)
	if err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, f := range opts.Formats {
		g.Go(func() error {
			data, err := sink.Render(gctx, res, sink.Format(f), sink.WithPalette(pal))
			if err != nil {
				return err
			}
			mu.Lock()
			artifacts[f] = data
			mu.Unlock()
			return nil
		})
	}
	err = g.Wait()
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

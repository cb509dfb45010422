package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/arbor/pkg/cache"
	"github.com/matzehuels/arbor/pkg/layout"
	"github.com/matzehuels/arbor/pkg/observability"
	"github.com/matzehuels/arbor/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs layout and render with caching.
func (r *Runner) Execute(ctx context.Context, root *tree.Node, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if root == nil {
		return nil, invalidInput("tree is required")
	}

	result := &Result{
		TreeHash: cache.TreeHash(root),
	}
	result.Stats.NodeCount = tree.Count(root)

	layoutStart := time.Now()
	res, layoutHit, err := r.LayoutWithCacheInfo(ctx, root, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Warnings = len(res.Warnings)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", result.Stats.NodeCount,
		"width", res.Width,
		"height", res.Height,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo computes a layout with caching and returns cache hit info.
// Warnings are logged on every call, cached or not.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, root *tree.Node, opts Options) (layout.Result, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Result{}, false, err
	}
	if root == nil {
		return layout.Result{}, false, invalidInput("tree is required")
	}

	cacheKey := r.Keyer.LayoutKey(cache.TreeHash(root), opts.Layout)
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached layout.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				hooks.OnCacheHit(ctx, "layout")
				r.logWarnings(cached)
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			r.Logger.Debug("cache lookup failed", "key", cacheKey, "err", err)
		}
	}
	hooks.OnCacheMiss(ctx, "layout")

	res, err := Layout(ctx, root, opts.Layout)
	if err != nil {
		return layout.Result{}, false, err
	}
	r.logWarnings(res)

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			hooks.OnCacheSet(ctx, "layout", len(data))
		}
	}
	return res, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, root *tree.Node, opts Options) (layout.Result, error) {
	res, _, err := r.LayoutWithCacheInfo(ctx, root, opts)
	return res, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// The hit flag is true only when every requested format came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res layout.Result, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := json.Marshal(res)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)
	hooks := observability.Cache()

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			hooks.OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
	}
	hooks.OnCacheMiss(ctx, "artifact")

	rendered, err := Render(ctx, res, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			hooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res layout.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logWarnings(res layout.Result) {
	for _, w := range res.Warnings {
		r.Logger.Warn(w.Message, "depth", w.Depth)
	}
}

// Package pipeline runs the decode → layout → render pipeline for Arbor.
//
// The CLI, the HTTP server and the watcher all go through a [Runner] so that
// layouts and artifacts are cached the same way everywhere.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Layout:  cfg.Layout,
//	    Style:   cfg.Style,
//	    Formats: []string{"svg", "png"},
//	}
//	result, err := runner.Execute(ctx, root, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	res, err := runner.Layout(ctx, root, opts)
//	artifacts, err := runner.Render(ctx, res, opts)
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/arbor/pkg/cache"
	"github.com/matzehuels/arbor/pkg/config"
	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/layout"
	"github.com/matzehuels/arbor/pkg/render/sink"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = string(sink.FormatSVG)

// Options contains all configuration for a pipeline run.
type Options struct {
	Layout  layout.Config `json:"layout"`
	Style   config.Style  `json:"style"`
	Formats []string      `json:"formats,omitempty"`

	// Refresh skips cache lookups; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// TreeHash is the content hash of the input tree.
	TreeHash string

	// Layout is the computed (or cached) layout.
	Layout layout.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	Warnings   int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormats normalizes format names ("jpg" → "jpeg", ".svg" → "svg")
// and rejects unknown ones.
func ValidateFormats(formats []string) ([]string, error) {
	out := make([]string, 0, len(formats))
	seen := make(map[string]bool, len(formats))
	for _, f := range formats {
		parsed, err := sink.ParseFormat(f)
		if err != nil {
			return nil, err
		}
		if !seen[string(parsed)] {
			seen[string(parsed)] = true
			out = append(out, string(parsed))
		}
	}
	return out, nil
}

// SetDefaults fills zero-valued options from the package defaults.
func (o *Options) SetDefaults() {
	if o.Layout == (layout.Config{}) {
		o.Layout = layout.DefaultConfig()
	}
	if o.Style.TreeColor == "" {
		o.Style = config.DefaultStyle()
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets defaults and checks the layout configuration.
func (o *Options) ValidateForLayout() error {
	o.SetDefaults()
	return o.Layout.Validate()
}

// ValidateForRender sets defaults and checks the style and formats.
func (o *Options) ValidateForRender() error {
	o.SetDefaults()
	if err := config.ValidateStyle(o.Style); err != nil {
		return err
	}
	formats, err := ValidateFormats(o.Formats)
	if err != nil {
		return err
	}
	o.Formats = formats
	return nil
}

// ValidateAndSetDefaults validates everything a full run needs.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// StyleHash identifies the style for artifact cache keys.
func (o *Options) StyleHash() string {
	data, err := json.Marshal(o.Style)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}

// ArtifactKeyOpts returns cache key options for rendering one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    format,
		StyleHash: o.StyleHash(),
		Scale:     o.Style.Scale,
	}
}

func invalidInput(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidInput, format, args...)
}

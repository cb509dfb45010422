// Package cli implements the arbor command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/arbor/pkg/cache"
	"github.com/matzehuels/arbor/pkg/config"
	"github.com/matzehuels/arbor/pkg/observability"
	"github.com/matzehuels/arbor/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "arbor"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is set by the persistent --config flag.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level pipeline, cache
// and store events are reported through the logger as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := observability.LogHooks{Logger: c.Logger}
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetStoreHooks(hooks)
	}
}

// loadConfig reads the user configuration (--config or the default path).
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newServerCache picks the layout cache for the HTTP server: Redis when an
// address is given, the local file cache otherwise.
func newServerCache(ctx context.Context, redisURL string) (cache.Cache, error) {
	if redisURL == "" {
		return newCache(false)
	}
	return cache.NewRedisCacheFromURL(ctx, redisURL)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/arbor/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions builds run options from the loaded config.
func pipelineOptions(cfg config.Config, formats []string) pipeline.Options {
	return pipeline.Options{
		Layout:  cfg.Layout,
		Style:   cfg.Style,
		Formats: formats,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports pipeline and store events to a logger at debug level,
// except layout warnings which are logged at warn level. The CLI installs
// it when --verbose is set.
type LogHooks struct {
	Logger *log.Logger
}

var (
	_ PipelineHooks = LogHooks{}
	_ StoreHooks    = LogHooks{}
	_ CacheHooks    = LogHooks{}
)

func (h LogHooks) OnLayoutStart(_ context.Context, nodeCount int) {
	h.Logger.Debug("layout started", "nodes", nodeCount)
}

func (h LogHooks) OnLayoutComplete(_ context.Context, nodeCount int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("layout failed", "nodes", nodeCount, "err", err)
		return
	}
	h.Logger.Debug("layout complete", "nodes", nodeCount, "duration", d)
}

func (h LogHooks) OnLayoutWarning(_ context.Context, depth int, message string) {
	h.Logger.Warn(message, "depth", depth)
}

func (h LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render started", "formats", formats)
}

func (h LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("render failed", "formats", formats, "err", err)
		return
	}
	h.Logger.Debug("render complete", "formats", formats, "duration", d)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h LogHooks) OnStoreOperation(_ context.Context, backend, op string, d time.Duration, err error) {
	h.Logger.Debug("store", "backend", backend, "op", op, "duration", d, "err", err)
}

// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries in this module emit events through package-level hook registries
// instead of importing a metrics backend. A binary that wants Prometheus,
// OpenTelemetry or plain logs registers its own implementation at startup;
// everyone else gets the no-op defaults.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPackHooks(&myPackHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pack().OnPackStart(ctx, len(mods))
//	p, err := pack.Pack(mods)
//	observability.Pack().OnPackComplete(ctx, len(mods), p.Width, p.Height, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pack Hooks
// =============================================================================

// PackHooks receives events from the layout and drawing stages.
type PackHooks interface {
	// Layout events
	OnPackStart(ctx context.Context, modules int)
	OnPackComplete(ctx context.Context, modules, width, height int, duration time.Duration, err error)

	// Drawing events
	OnDrawStart(ctx context.Context, modules int)
	OnDrawComplete(ctx context.Context, bytes int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations. keyType is the kind of
// entry ("placement", "sheet", "sprite").
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming request after routing.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records the response status and handler latency.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPackHooks is a no-op implementation of PackHooks.
type NoopPackHooks struct{}

func (NoopPackHooks) OnPackStart(context.Context, int)                                      {}
func (NoopPackHooks) OnPackComplete(context.Context, int, int, int, time.Duration, error) {}
func (NoopPackHooks) OnDrawStart(context.Context, int)                                      {}
func (NoopPackHooks) OnDrawComplete(context.Context, int, time.Duration, error)             {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	packHooks  PackHooks  = NoopPackHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetPackHooks registers custom pack hooks. Nil is ignored.
func SetPackHooks(h PackHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		packHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Pack returns the registered pack hooks.
func Pack() PackHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return packHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	packHooks = NoopPackHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}

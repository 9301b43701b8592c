// Package cache provides pluggable storage for packed layouts and sprite sheets.
//
// Packing is deterministic: the same image sizes and options always produce
// the same placement. That makes placements and the sheets drawn from them
// safe to cache by content hash. The CLI uses [FileCache] under the XDG cache
// directory; the HTTP server uses [RedisCache] so several instances can share
// results and serve sheets uploaded to a sibling.
//
// # Keys
//
// Keys are produced by a [Keyer] so every caller derives them the same way:
//
//	k := cache.NewDefaultKeyer()
//	key := k.PlacementKey(cache.Hash(dims), cache.PlacementKeyOpts{Padding: 2})
//
// Wrap a keyer with [NewScopedKeyer] to give a tenant its own namespace.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss with ok=false and a nil error. Implementations must be
// safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// TTLs for each kind of cached entry.
const (
	// TTLPlacement keeps packed layouts for a week; they never go stale.
	TTLPlacement = 7 * 24 * time.Hour

	// TTLSheet keeps drawn sheets (PNG + CSS) for a day.
	TTLSheet = 24 * time.Hour

	// TTLUpload keeps sheets built from server uploads for an hour.
	TTLUpload = time.Hour
)

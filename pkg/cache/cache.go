// Package cache stores rendered artifacts keyed by the hash of their
// canonical source.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, for tests or when caching is disabled
//
// Keys come from a [Keyer]. [DefaultKeyer] derives them from the SHA-256 of
// the canonical diagram text plus the render options; [ScopedKeyer] adds a
// namespace prefix.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional per-entry expiry. A miss is reported
// as (nil, false, nil), never as an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Package cache stores pipeline results between runs.
//
// Three stages of the render pipeline are cached independently: the parsed
// circuit, the storyboard summary and every rendered artifact. Keys come
// from a [Keyer] and embed a content hash of everything that affects the
// output, so entries never need invalidating; they simply expire after the
// TTL for their kind.
//
// # Backends
//
//   - [FileCache]: one file per entry under the user cache directory, used
//     by the CLI by default
//   - [RedisCache]: a shared Redis instance, selected with a redis:// URL
//   - [NullCache]: stores nothing, used by --no-cache
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a byte store with per-entry expiry. A miss is reported as
// (nil, false, nil); errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Entry lifetimes per key kind.
const (
	TTLCircuit    = 30 * 24 * time.Hour
	TTLStoryboard = 7 * 24 * time.Hour
	TTLArtifact   = 7 * 24 * time.Hour
)

// Open picks a backend from location: a redis:// or rediss:// URL selects
// [RedisCache], anything else is a directory for [FileCache], and the empty
// string means [DefaultDir].
func Open(ctx context.Context, location string) (Cache, error) {
	if strings.HasPrefix(location, "redis://") || strings.HasPrefix(location, "rediss://") {
		c, err := NewRedisCache(ctx, location)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	if location == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		location = dir
	}
	c, err := NewFileCache(location)
	if err != nil {
		return nil, err
	}
	return c, nil
}

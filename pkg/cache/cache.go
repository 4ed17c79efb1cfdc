// Package cache stores parsed module manifests between scans.
//
// Opening every archive under every root on each invocation is the slow part
// of a scan. The scanner keys each archive by its canonical path, size and
// modification time; an unchanged archive is served from the cache instead
// of being reopened.
//
// # Backends
//
//   - [FileCache]: JSON entries under a directory (CLI default)
//   - [Disabled]: stores nothing (--no-cache, unreachable backends)
//   - [RedisCache]: shared cache for several launcher hosts
//   - [MongoCache]: shared cache in a MongoDB collection
//
// Use [Open] to construct a backend from configuration.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss returns (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendNone  = "none"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Options configures [Open].
type Options struct {
	Backend string // one of the Backend* constants; empty means file
	Dir     string // FileCache directory
	URL     string // Redis or MongoDB connection URL
}

// Open constructs the backend named by opts.Backend.
// Network backends are pinged before Open returns.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendFile:
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendNone:
		return Disabled(), nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, opts.URL)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendMongo:
		c, err := NewMongoCache(ctx, opts.URL)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

// Disabled returns a Cache that stores nothing and misses on every Get.
func Disabled() Cache { return disabled{} }

type disabled struct{}

func (disabled) Get(context.Context, string) ([]byte, bool, error)          { return nil, false, nil }
func (disabled) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (disabled) Delete(context.Context, string) error                     { return nil }
func (disabled) Close() error                                             { return nil }

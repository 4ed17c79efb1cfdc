// Package observability lets a program watch scans, resolution, cache lookups
// and API requests without the core packages importing a metrics backend.
//
// Each event category is an interface with a no-op default. main (or a test)
// swaps in its own implementation; the library packages only ever call the
// accessor:
//
//	observability.SetScanHooks(&scanMetrics{})
//	...
//	observability.Scan().OnArchive(ctx, path, err)
//
// Embedding the Noop type of a category lets an implementation override only
// the events it cares about.
package observability

import (
	"context"
	"sync"
	"time"
)

// ScanHooks receives events from the module metadata scanner.
type ScanHooks interface {
	// OnScanStart is called once before the roots are walked.
	OnScanStart(ctx context.Context, roots int)

	// OnArchive is called for every candidate archive. err is nil when the
	// archive produced a catalog record.
	OnArchive(ctx context.Context, path string, err error)

	// OnScanComplete is called once with the size of the resulting catalog.
	OnScanComplete(ctx context.Context, modules, conflicts int, duration time.Duration)
}

// ResolveHooks receives events from sequencing and activation.
type ResolveHooks interface {
	// OnSequence records a topological sequence computation.
	OnSequence(ctx context.Context, start string, size int, duration time.Duration)

	// OnActivate records an install or start attempt for one archive.
	OnActivate(ctx context.Context, path string, err error)

	// OnUnresolved records a requested identity that matched no module.
	OnUnresolved(ctx context.Context, identity string)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// ServerHooks receives events from the HTTP API.
type ServerHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// NoopScanHooks is a no-op implementation of ScanHooks.
type NoopScanHooks struct{}

func (NoopScanHooks) OnScanStart(context.Context, int)                        {}
func (NoopScanHooks) OnArchive(context.Context, string, error)                {}
func (NoopScanHooks) OnScanComplete(context.Context, int, int, time.Duration) {}

// NoopResolveHooks is a no-op implementation of ResolveHooks.
type NoopResolveHooks struct{}

func (NoopResolveHooks) OnSequence(context.Context, string, int, time.Duration) {}
func (NoopResolveHooks) OnActivate(context.Context, string, error)              {}
func (NoopResolveHooks) OnUnresolved(context.Context, string)                   {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// slot holds the registered implementation of one hook category.
type slot[T any] struct {
	mu   sync.RWMutex
	h    T
	noop T
}

func newSlot[T any](noop T) *slot[T] { return &slot[T]{h: noop, noop: noop} }

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.h
}

// set installs h; a nil h leaves the current hooks in place.
func (s *slot[T]) set(h T) {
	if any(h) == nil {
		return
	}
	s.mu.Lock()
	s.h = h
	s.mu.Unlock()
}

func (s *slot[T]) reset() {
	s.mu.Lock()
	s.h = s.noop
	s.mu.Unlock()
}

var (
	scanSlot    = newSlot[ScanHooks](NoopScanHooks{})
	resolveSlot = newSlot[ResolveHooks](NoopResolveHooks{})
	cacheSlot   = newSlot[CacheHooks](NoopCacheHooks{})
	serverSlot  = newSlot[ServerHooks](NoopServerHooks{})
)

// SetScanHooks registers scan hooks. Call it before scanning starts.
func SetScanHooks(h ScanHooks) { scanSlot.set(h) }

// SetResolveHooks registers sequencing and activation hooks.
func SetResolveHooks(h ResolveHooks) { resolveSlot.set(h) }

// SetCacheHooks registers manifest cache hooks.
func SetCacheHooks(h CacheHooks) { cacheSlot.set(h) }

// SetServerHooks registers HTTP API hooks.
func SetServerHooks(h ServerHooks) { serverSlot.set(h) }

// Scan returns the registered scan hooks.
func Scan() ScanHooks { return scanSlot.get() }

// Resolve returns the registered resolve hooks.
func Resolve() ResolveHooks { return resolveSlot.get() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheSlot.get() }

// Server returns the registered HTTP API hooks.
func Server() ServerHooks { return serverSlot.get() }

// Reset restores every category to its no-op hooks.
func Reset() {
	scanSlot.reset()
	resolveSlot.reset()
	cacheSlot.reset()
	serverSlot.reset()
}

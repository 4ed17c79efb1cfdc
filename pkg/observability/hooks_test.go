package observability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopScanHooks{}
	s.OnScanStart(ctx, 2)
	s.OnArchive(ctx, "/plugins/core.jar", nil)
	s.OnArchive(ctx, "/plugins/broken.jar", errors.New("zip: not a valid zip file"))
	s.OnScanComplete(ctx, 10, 1, time.Second)

	r := NoopResolveHooks{}
	r.OnSequence(ctx, "core@1.0", 4, time.Millisecond)
	r.OnActivate(ctx, "/plugins/core.jar", nil)
	r.OnUnresolved(ctx, "cmdBundle@1.0")

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "manifest")
	c.OnCacheMiss(ctx, "manifest")
	c.OnCacheSet(ctx, "manifest", 1024)

	h := NoopServerHooks{}
	h.OnRequest(ctx, "GET", "/modules")
	h.OnResponse(ctx, "GET", "/modules", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Scan().(NoopScanHooks); !ok {
		t.Error("Scan() should return NoopScanHooks by default")
	}
	if _, ok := Resolve().(NoopResolveHooks); !ok {
		t.Error("Resolve() should return NoopResolveHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	customScan := &testScanHooks{}
	SetScanHooks(customScan)
	if Scan() != customScan {
		t.Error("SetScanHooks should set custom hooks")
	}

	customResolve := &testResolveHooks{}
	SetResolveHooks(customResolve)
	if Resolve() != customResolve {
		t.Error("SetResolveHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customServer := &testServerHooks{}
	SetServerHooks(customServer)
	if Server() != customServer {
		t.Error("SetServerHooks should set custom hooks")
	}

	Reset()
	if _, ok := Scan().(NoopScanHooks); !ok {
		t.Error("Reset() should restore NoopScanHooks")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Reset() should restore NoopServerHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testScanHooks{}
	SetScanHooks(custom)
	SetScanHooks(nil)

	if Scan() != custom {
		t.Error("SetScanHooks(nil) should be ignored")
	}

	Reset()
}

func TestHooksConcurrentAccess(t *testing.T) {
	defer Reset()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetCacheHooks(&testCacheHooks{})
		}()
		go func() {
			defer wg.Done()
			Cache().OnCacheHit(ctx, "manifest")
		}()
	}
	wg.Wait()
	if _, ok := Cache().(*testCacheHooks); !ok {
		t.Errorf("Cache() = %T, want *testCacheHooks", Cache())
	}
}

type testScanHooks struct{ NoopScanHooks }
type testResolveHooks struct{ NoopResolveHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testServerHooks struct{ NoopServerHooks }

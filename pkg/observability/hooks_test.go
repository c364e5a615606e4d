package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Eval hooks
	e := NoopEvalHooks{}
	e.OnItemStart(ctx, "intro", 0.5)
	e.OnItemComplete(ctx, "intro", 12, time.Millisecond, nil)
	e.OnFrame(ctx, 3.5, 2, time.Millisecond)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "frame")
	c.OnCacheMiss(ctx, "frame")
	c.OnCacheSet(ctx, "frame", 1024)

	// Serve hooks
	s := NoopServeHooks{}
	s.OnRequest(ctx, "GET", "/frame.svg")
	s.OnResponse(ctx, "GET", "/frame.svg", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Eval().(NoopEvalHooks); !ok {
		t.Error("Eval() should return NoopEvalHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Serve().(NoopServeHooks); !ok {
		t.Error("Serve() should return NoopServeHooks by default")
	}

	// Set custom hooks
	customEval := &testEvalHooks{}
	SetEvalHooks(customEval)
	if Eval() != customEval {
		t.Error("SetEvalHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customServe := &testServeHooks{}
	SetServeHooks(customServe)
	if Serve() != customServe {
		t.Error("SetServeHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Eval().(NoopEvalHooks); !ok {
		t.Error("Reset() should restore NoopEvalHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testEvalHooks{}
	SetEvalHooks(custom)

	// Setting nil should be ignored
	SetEvalHooks(nil)

	if Eval() != custom {
		t.Error("SetEvalHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testEvalHooks struct{ NoopEvalHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testServeHooks struct{ NoopServeHooks }

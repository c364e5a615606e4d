package observability

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordedTracing() (*Tracing, *tracetest.SpanRecorder) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	return NewTracing(tp), sr
}

func attr(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracingItems(t *testing.T) {
	tr, sr := newRecordedTracing()
	ctx := context.Background()

	tr.OnItemComplete(ctx, "dots", 16, 4*time.Millisecond, nil)
	tr.OnItemComplete(ctx, "broken", 1, time.Millisecond, errors.New("iteration mismatch"))

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	ok := spans[0]
	if ok.Name() != "item.evaluate" {
		t.Errorf("Name() = %q", ok.Name())
	}
	if d := ok.EndTime().Sub(ok.StartTime()); d < 4*time.Millisecond {
		t.Errorf("span covers %v, want at least 4ms", d)
	}
	if v, found := attr(ok.Attributes(), "plotline.calls"); !found || v.AsInt64() != 16 {
		t.Errorf("plotline.calls = %v", v)
	}
	if ok.Status().Code == codes.Error {
		t.Error("successful pass marked as error")
	}

	failed := spans[1]
	if failed.Status().Code != codes.Error || failed.Status().Description != "iteration mismatch" {
		t.Errorf("Status() = %+v", failed.Status())
	}
	if len(failed.Events()) == 0 {
		t.Error("error should be recorded as an event")
	}
}

func TestTracingResponses(t *testing.T) {
	tr, sr := newRecordedTracing()
	ctx := context.Background()

	tr.OnResponse(ctx, http.MethodGet, "/frame.svg", http.StatusOK, time.Millisecond)
	tr.OnResponse(ctx, http.MethodGet, "/frame.svg", http.StatusInternalServerError, time.Millisecond)
	tr.OnFrame(ctx, 2.5, 3, time.Millisecond)

	spans := sr.Ended()
	if len(spans) != 3 {
		t.Fatalf("got %d spans, want 3", len(spans))
	}
	if spans[0].Name() != "GET /frame.svg" {
		t.Errorf("Name() = %q", spans[0].Name())
	}
	if spans[0].Status().Code == codes.Error || spans[1].Status().Code != codes.Error {
		t.Errorf("statuses = %v, %v", spans[0].Status(), spans[1].Status())
	}
	if v, _ := attr(spans[2].Attributes(), "plotline.seconds"); v.AsFloat64() != 2.5 {
		t.Errorf("plotline.seconds = %v", v)
	}
}

func TestTracingCacheEvents(t *testing.T) {
	tr, sr := newRecordedTracing()
	ctx, span := tr.tracer.Start(context.Background(), "request")
	tr.OnCacheMiss(ctx, "frame")
	tr.OnCacheSet(ctx, "frame", 512)
	tr.OnCacheHit(ctx, "frame")
	span.End()

	events := sr.Ended()[0].Events()
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.Name
	}
	want := []string{"cache.miss", "cache.set", "cache.hit"}
	if len(names) != len(want) {
		t.Fatalf("events = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("events = %v, want %v", names, want)
			break
		}
	}
}

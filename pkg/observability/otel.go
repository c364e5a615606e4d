package observability

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/matzehuels/plotline"

// Tracing records hook events as OpenTelemetry spans. Item passes, frames
// and responses become spans covering their reported duration; cache
// events become events on the span found in the context.
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	tr := observability.NewTracing(tp)
//	observability.SetEvalHooks(tr)
//	observability.SetServeHooks(tr)
type Tracing struct {
	tracer trace.Tracer
}

// NewTracing returns hooks that trace through tp.
func NewTracing(tp trace.TracerProvider) *Tracing {
	return &Tracing{tracer: tp.Tracer(tracerName)}
}

// span records an operation of length d that ended just now.
func (t *Tracing) span(ctx context.Context, name string, d time.Duration, attrs ...attribute.KeyValue) trace.Span {
	end := time.Now()
	_, span := t.tracer.Start(ctx, name,
		trace.WithTimestamp(end.Add(-d)),
		trace.WithAttributes(attrs...))
	return span
}

func (t *Tracing) OnItemStart(ctx context.Context, item string, progress float64) {
	trace.SpanFromContext(ctx).AddEvent("item.start", trace.WithAttributes(
		attribute.String("plotline.item", item),
		attribute.Float64("plotline.progress", progress)))
}

func (t *Tracing) OnItemComplete(ctx context.Context, item string, calls int, duration time.Duration, err error) {
	span := t.span(ctx, "item.evaluate", duration,
		attribute.String("plotline.item", item),
		attribute.Int("plotline.calls", calls))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (t *Tracing) OnFrame(ctx context.Context, seconds float64, items int, duration time.Duration) {
	t.span(ctx, "frame", duration,
		attribute.Float64("plotline.seconds", seconds),
		attribute.Int("plotline.items", items)).End()
}

func (t *Tracing) OnCacheHit(ctx context.Context, keyType string) {
	trace.SpanFromContext(ctx).AddEvent("cache.hit", trace.WithAttributes(attribute.String("cache.key_type", keyType)))
}

func (t *Tracing) OnCacheMiss(ctx context.Context, keyType string) {
	trace.SpanFromContext(ctx).AddEvent("cache.miss", trace.WithAttributes(attribute.String("cache.key_type", keyType)))
}

func (t *Tracing) OnCacheSet(ctx context.Context, keyType string, size int) {
	trace.SpanFromContext(ctx).AddEvent("cache.set", trace.WithAttributes(
		attribute.String("cache.key_type", keyType),
		attribute.Int("cache.size", size)))
}

func (t *Tracing) OnRequest(context.Context, string, string) {}

func (t *Tracing) OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration) {
	span := t.span(ctx, method+" "+route, duration,
		attribute.String("http.request.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.response.status_code", statusCode))
	if statusCode >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(statusCode))
	}
	span.End()
}

var (
	_ EvalHooks  = (*Tracing)(nil)
	_ CacheHooks = (*Tracing)(nil)
	_ ServeHooks = (*Tracing)(nil)
)

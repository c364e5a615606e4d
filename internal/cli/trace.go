package cli

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/matzehuels/plotline/pkg/observability"
)

// tracingEnabled reports whether an OTLP endpoint is configured through the
// standard OTEL_EXPORTER_OTLP_* variables.
func tracingEnabled() bool {
	return os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" ||
		os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT") != ""
}

// setupTracing exports evaluation, cache and server hooks as spans over
// OTLP/HTTP. It is a no-op without a configured endpoint.
func (c *CLI) setupTracing(ctx context.Context) error {
	if !tracingEnabled() || c.shutdown != nil {
		return nil
	}
	exp, err := otlptracehttp.New(ctx)
	if err != nil {
		return err
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
	tr := observability.NewTracing(tp)
	observability.SetEvalHooks(tr)
	observability.SetCacheHooks(tr)
	observability.SetServeHooks(tr)

	c.shutdown = tp.Shutdown
	loggerFromContext(ctx).Debug("tracing enabled", "exporter", "otlp/http")
	return nil
}

// Shutdown flushes pending spans. It is safe to call when tracing is off.
func (c *CLI) Shutdown(ctx context.Context) error {
	if c.shutdown == nil {
		return nil
	}
	err := c.shutdown(ctx)
	c.shutdown = nil
	return err
}

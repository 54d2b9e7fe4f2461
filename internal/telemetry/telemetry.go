// Package telemetry installs the process-wide OpenTelemetry tracer provider.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/koresolucoes/KoreGastro2-sub002/internal/config"
)

var ErrUnknownExporter = errors.New("unknown trace exporter")

// Init configures tracing from cfg. With the "none" exporter the global no-op
// provider is left in place. The returned shutdown func is always non-nil.
func Init(ctx context.Context, cfg config.TelemetryConfig) (shutdown func(context.Context) error, err error) {
	return initWithWriter(ctx, cfg, os.Stdout)
}

func initWithWriter(_ context.Context, cfg config.TelemetryConfig, w io.Writer) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch cfg.TraceExporter {
	case "", config.TraceExporterNone:
		return noop, nil
	case config.TraceExporterStdout:
	default:
		return noop, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.TraceExporter)
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return noop, fmt.Errorf("create exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", cfg.ServiceName),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

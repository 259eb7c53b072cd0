// Package observability bundles the process-wide logger, tracer, and metrics
// registry handed to every module at construction.
package observability

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config selects how telemetry is emitted.
type Config struct {
	ServiceName string
	Environment string
	Version     string
	// OTLPEndpoint enables span export over OTLP gRPC when non-empty.
	OTLPEndpoint string
	// LogLevel is one of debug, info, warn, error. Defaults to info.
	LogLevel string
}

// Observability carries the shared telemetry handles.
type Observability struct {
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
	Tracer         trace.Tracer
	Registry       *prometheus.Registry

	shutdown func(context.Context) error
}

// Init builds the logger, tracer provider, and metrics registry. The tracer
// is a no-op unless an OTLP endpoint is configured.
func Init(ctx context.Context, cfg Config) (*Observability, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)})).With(
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
	)

	var provider trace.TracerProvider = noop.NewTracerProvider()
	shutdown := func(context.Context) error { return nil }

	if cfg.OTLPEndpoint != "" {
		exporter, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
		}

		res := sdkresource.NewSchemaless(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.version", cfg.Version),
			attribute.String("deployment.environment", cfg.Environment),
		)

		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		provider = tp
		shutdown = tp.Shutdown
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Observability{
		Logger:         logger,
		TracerProvider: provider,
		Tracer:         provider.Tracer(cfg.ServiceName),
		Registry:       registry,
		shutdown:       shutdown,
	}, nil
}

// Close flushes pending telemetry.
func (o *Observability) Close(ctx context.Context) error {
	if o.shutdown == nil {
		return nil
	}
	return o.shutdown(ctx)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

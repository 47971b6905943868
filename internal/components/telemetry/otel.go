package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"codex-backend/pkg/configutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type OtlpConnConfig struct {
	GrpcEndpoint string            `json:"grpc_endpoint"`
	HttpEndpoint string            `json:"http_endpoint"`
	Headers      map[string]string `json:"headers"`
}

func (c OtlpConnConfig) empty() bool {
	return c.GrpcEndpoint == "" && c.HttpEndpoint == ""
}

type OtlpConfig struct {
	Traces  OtlpConnConfig `json:"traces"`
	Metrics OtlpConnConfig `json:"metrics"`
}

type Config struct {
	Otlp OtlpConfig `json:"otlp"`
}

// Telemetry holds the providers installed by Setup, either may be nil when
// the corresponding exporter was not configured.
type Telemetry struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
}

func (t Telemetry) Enabled() bool {
	return t.TracerProvider != nil || t.MeterProvider != nil
}

func (t Telemetry) Shutdown(ctx context.Context) error {
	var errlist []error
	if t.TracerProvider != nil {
		err := t.TracerProvider.Shutdown(ctx)
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	if t.MeterProvider != nil {
		err := t.MeterProvider.Shutdown(ctx)
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	return errors.Join(errlist...)
}

// SetupFromEnv searches up the filesystem from the cwd to find a file called
// telemetry.json5, once found it will use it as a config to setup telemetry.
// When no such file exists the global no-op providers are left in place.
func SetupFromEnv(ctx context.Context, serviceName string) (Telemetry, error) {
	config, err := configutil.ReadRecursively[Config]("telemetry.json5")
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no telemetry config found, exporters disabled")
		return Telemetry{}, nil
	}
	if err != nil {
		return Telemetry{}, err
	}
	return Setup(ctx, serviceName, config)
}

func Setup(ctx context.Context, serviceName string, config Config) (Telemetry, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	r, err := newResource(serviceName)
	if err != nil {
		return Telemetry{}, err
	}

	var tel Telemetry
	if !config.Otlp.Traces.empty() {
		tracerProvider, err := newTraceProvider(ctx, r, config.Otlp.Traces)
		if err != nil {
			return Telemetry{}, err
		}
		otel.SetTracerProvider(tracerProvider)
		tel.TracerProvider = tracerProvider
	}
	if !config.Otlp.Metrics.empty() {
		meterProvider, err := newMetricProvider(ctx, r, config.Otlp.Metrics)
		if err != nil {
			return Telemetry{}, err
		}
		otel.SetMeterProvider(meterProvider)
		tel.MeterProvider = meterProvider
	}

	return tel, nil
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

func newTraceProvider(ctx context.Context, r *resource.Resource, conn OtlpConnConfig) (*trace.TracerProvider, error) {
	exporter, err := otlpTraceExporter(ctx, conn)
	if err != nil {
		return nil, err
	}

	traceProvider := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(r),
	)
	return traceProvider, nil
}

func otlpTraceExporter(ctx context.Context, conn OtlpConnConfig) (trace.SpanExporter, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	if conn.GrpcEndpoint != "" {
		slog.Info(
			"tracer export initialized",
			"type", "grpc",
			"endpoint", conn.GrpcEndpoint,
			"headers", len(conn.Headers) > 0,
		)
		return otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpointURL(conn.GrpcEndpoint),
			otlptracegrpc.WithHeaders(conn.Headers),
		)
	}

	slog.Info(
		"tracer export initialized",
		"type", "http",
		"endpoint", conn.HttpEndpoint,
		"headers", len(conn.Headers) > 0,
	)
	return otlptracehttp.New(
		ctx,
		otlptracehttp.WithEndpointURL(conn.HttpEndpoint),
		otlptracehttp.WithHeaders(conn.Headers),
	)
}

func newMetricProvider(ctx context.Context, r *resource.Resource, conn OtlpConnConfig) (*metric.MeterProvider, error) {
	exporter, err := otlpMetricExporter(ctx, conn)
	if err != nil {
		return nil, err
	}

	provider := metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter, metric.WithInterval(time.Second*5))),
		metric.WithResource(r),
	)
	return provider, nil
}

func otlpMetricExporter(ctx context.Context, conn OtlpConnConfig) (metric.Exporter, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	if conn.GrpcEndpoint != "" {
		slog.Info("metric export initialized", "type", "grpc", "endpoint", conn.GrpcEndpoint)
		return otlpmetricgrpc.New(
			ctx,
			otlpmetricgrpc.WithEndpointURL(conn.GrpcEndpoint),
			otlpmetricgrpc.WithHeaders(conn.Headers),
		)
	}

	slog.Info("metric export initialized", "type", "http", "endpoint", conn.HttpEndpoint)
	return otlpmetrichttp.New(
		ctx,
		otlpmetrichttp.WithEndpointURL(conn.HttpEndpoint),
		otlpmetrichttp.WithHeaders(conn.Headers),
	)
}

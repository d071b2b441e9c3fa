package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/mpapenbr/garage61-mcp-go/log"
	"github.com/mpapenbr/garage61-mcp-go/version"
)

const (
	ExporterOtlp   = "otlp"
	ExporterStdout = "stdout"
	serviceName    = "garage61-mcp"
)

var ErrUnknownExporter = errors.New("unknown telemetry exporter")

// Telemetry holds the installed trace and metric providers
type Telemetry struct {
	ctx    context.Context
	tracer *sdktrace.TracerProvider
	meter  *sdkmetric.MeterProvider
}

// SetupTelemetry installs global trace and metric providers using
// TelemetryExporter and TelemetryEndpoint.
func SetupTelemetry(ctx context.Context) (*Telemetry, error) {
	res, err := resource.Merge(resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version.Version)))
	if err != nil {
		return nil, err
	}
	traceExp, err := newTraceExporter(ctx)
	if err != nil {
		return nil, err
	}
	metricExp, err := newMetricExporter(ctx)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExp),
		sdktrace.WithResource(res))
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp,
			sdkmetric.WithInterval(15*time.Second))),
		sdkmetric.WithResource(res))

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))
	log.Debug("Telemetry installed",
		log.String("exporter", TelemetryExporter),
		log.String("endpoint", TelemetryEndpoint))
	return &Telemetry{ctx: ctx, tracer: tp, meter: mp}, nil
}

// Shutdown flushes and stops the providers
func (t *Telemetry) Shutdown() {
	if err := t.tracer.Shutdown(t.ctx); err != nil {
		log.Warn("Could not shutdown tracer provider", log.ErrorField(err))
	}
	if err := t.meter.Shutdown(t.ctx); err != nil {
		log.Warn("Could not shutdown meter provider", log.ErrorField(err))
	}
}

func newTraceExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	switch TelemetryExporter {
	case ExporterOtlp, "":
		return otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(TelemetryEndpoint),
			otlptracegrpc.WithInsecure())
	case ExporterStdout:
		// stdout is the MCP channel
		return stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, TelemetryExporter)
	}
}

func newMetricExporter(ctx context.Context) (sdkmetric.Exporter, error) {
	switch TelemetryExporter {
	case ExporterOtlp, "":
		return otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(TelemetryEndpoint),
			otlpmetricgrpc.WithInsecure())
	case ExporterStdout:
		return stdoutmetric.New(stdoutmetric.WithWriter(os.Stderr))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, TelemetryExporter)
	}
}

// Package telemetry installs the OpenTelemetry trace and metric providers
// that export over OTLP/HTTP. Without an endpoint it does nothing and the
// global no-op providers stay in place.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const exportTimeout = 10 * time.Second

type Config struct {
	// Endpoint is host:port or an http(s) URL. Empty disables export.
	Endpoint       string
	ServiceName    string
	MetricInterval time.Duration
}

// Runtime owns the installed providers.
type Runtime struct {
	shutdownFns []func(context.Context) error
}

func Setup(ctx context.Context, cfg Config, logger *slog.Logger) (*Runtime, error) {
	rt := &Runtime{}
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return rt, nil
	}

	endpoint, insecure, err := normalizeEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	res := resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))

	traceOpts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithTimeout(exportTimeout),
	}
	if insecure {
		traceOpts = append(traceOpts, otlptracehttp.WithInsecure())
	}
	traceExporter, err := otlptracehttp.New(ctx, traceOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialize otel trace exporter: %w", err)
	}
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	rt.shutdownFns = append(rt.shutdownFns, tracerProvider.Shutdown)

	metricOpts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(endpoint),
		otlpmetrichttp.WithTimeout(exportTimeout),
	}
	if insecure {
		metricOpts = append(metricOpts, otlpmetrichttp.WithInsecure())
	}
	metricExporter, err := otlpmetrichttp.New(ctx, metricOpts...)
	if err != nil {
		_ = rt.Shutdown(context.Background())
		return nil, fmt.Errorf("initialize otel metric exporter: %w", err)
	}
	interval := cfg.MetricInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(meterProvider)
	rt.shutdownFns = append(rt.shutdownFns, meterProvider.Shutdown)

	otel.SetTextMapPropagator(propagation.TraceContext{})

	logger.Info("opentelemetry enabled", "endpoint", endpoint, "service", cfg.ServiceName)
	return rt, nil
}

// Enabled reports whether providers were installed.
func (r *Runtime) Enabled() bool {
	return r != nil && len(r.shutdownFns) > 0
}

// Shutdown flushes and stops the providers in reverse order.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}
	var errs []error
	for i := len(r.shutdownFns) - 1; i >= 0; i-- {
		if err := r.shutdownFns[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// normalizeEndpoint returns the host:port the exporters want and whether the
// endpoint asked for plain http.
func normalizeEndpoint(raw string) (string, bool, error) {
	endpoint := strings.TrimSpace(raw)
	if !strings.Contains(endpoint, "://") {
		return endpoint, false, nil
	}

	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("parse otlp endpoint: %w", err)
	}
	if parsed.Host == "" {
		return "", false, fmt.Errorf("otlp endpoint must include host (got %q)", raw)
	}

	switch strings.ToLower(parsed.Scheme) {
	case "http":
		return parsed.Host, true, nil
	case "https":
		return parsed.Host, false, nil
	default:
		return "", false, fmt.Errorf("otlp endpoint scheme must be http or https (got %q)", parsed.Scheme)
	}
}

package telemetry

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
)

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantEndpoint string
		wantInsecure bool
		wantErr      string
	}{
		{name: "host and port", input: "collector:4318", wantEndpoint: "collector:4318"},
		{name: "http url", input: "http://collector:4318", wantEndpoint: "collector:4318", wantInsecure: true},
		{name: "https url", input: "https://collector:4318", wantEndpoint: "collector:4318"},
		{name: "bad scheme", input: "ftp://collector:4318", wantErr: "scheme must be http or https"},
		{name: "no host", input: "http://", wantErr: "must include host"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			endpoint, insecure, err := normalizeEndpoint(tt.input)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if endpoint != tt.wantEndpoint || insecure != tt.wantInsecure {
				t.Errorf("got %q insecure=%v, want %q insecure=%v", endpoint, insecure, tt.wantEndpoint, tt.wantInsecure)
			}
		})
	}
}

func TestSetup_DisabledWithoutEndpoint(t *testing.T) {
	rt, err := Setup(context.Background(), Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rt.Enabled() {
		t.Error("expected telemetry disabled")
	}
	if err := rt.Shutdown(context.Background()); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}

func TestSetup_ExportsTracesAndMetrics(t *testing.T) {
	oldTracer := otel.GetTracerProvider()
	oldMeter := otel.GetMeterProvider()
	oldPropagator := otel.GetTextMapPropagator()
	defer func() {
		otel.SetTracerProvider(oldTracer)
		otel.SetMeterProvider(oldMeter)
		otel.SetTextMapPropagator(oldPropagator)
	}()

	var traceRequests, metricRequests atomic.Int64
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		r.Body.Close()
		switch r.URL.Path {
		case "/v1/traces":
			traceRequests.Add(1)
		case "/v1/metrics":
			metricRequests.Add(1)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer collector.Close()

	rt, err := Setup(context.Background(), Config{
		Endpoint:       collector.URL,
		ServiceName:    "trace-explorer-test",
		MetricInterval: 25 * time.Millisecond,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rt.Enabled() {
		t.Fatal("expected telemetry enabled")
	}

	_, span := otel.Tracer("test").Start(context.Background(), "test.span")
	span.End()
	counter, err := otel.Meter("test").Int64Counter("test.counter")
	if err != nil {
		t.Fatal(err)
	}
	counter.Add(context.Background(), 1)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rt.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	if traceRequests.Load() == 0 || metricRequests.Load() == 0 {
		t.Errorf("expected exports, got traces=%d metrics=%d", traceRequests.Load(), metricRequests.Load())
	}
}

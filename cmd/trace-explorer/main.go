package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/trace-explorer/internal/analysis"
	"github.com/MikeSquared-Agency/trace-explorer/internal/api"
	"github.com/MikeSquared-Agency/trace-explorer/internal/category"
	"github.com/MikeSquared-Agency/trace-explorer/internal/config"
	"github.com/MikeSquared-Agency/trace-explorer/internal/events"
	"github.com/MikeSquared-Agency/trace-explorer/internal/llm"
	"github.com/MikeSquared-Agency/trace-explorer/internal/store"
	"github.com/MikeSquared-Agency/trace-explorer/internal/telemetry"
	"github.com/MikeSquared-Agency/trace-explorer/internal/traces"
	"github.com/MikeSquared-Agency/trace-explorer/internal/translate"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("trace-explorer starting", "port", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// OpenTelemetry (optional)
	otelRuntime, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:       cfg.OTelEndpoint,
		ServiceName:    cfg.OTelServiceName,
		MetricInterval: time.Duration(cfg.OTelMetricIntervalMS) * time.Millisecond,
	}, slog.Default())
	if err != nil {
		slog.Error("failed to set up opentelemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelRuntime.Shutdown(shutdownCtx); err != nil {
			slog.Warn("opentelemetry shutdown failed", "error", err)
		}
	}()

	// Categories
	registry := category.Default()
	if cfg.CategoriesFile != "" {
		reg, err := category.Load(cfg.CategoriesFile)
		if err != nil {
			slog.Error("failed to load categories", "path", cfg.CategoriesFile, "error", err)
			os.Exit(1)
		}
		registry = reg
	}
	slog.Info("categories loaded", "count", len(registry.Keys()))

	// Traces
	db := store.New(loadTraces(cfg))

	// Gemini client (optional: browsing works without it)
	var gen llm.Generator
	if cfg.GoogleAPIKey != "" {
		client, err := llm.NewClient(ctx, cfg.GoogleAPIKey, cfg.GeminiModel, slog.Default())
		if err != nil {
			slog.Error("failed to create gemini client", "error", err)
			os.Exit(1)
		}
		gen = client
		slog.Info("gemini client ready", "model", client.Model())
	} else {
		slog.Warn("GOOGLE_API_KEY not set, analysis and translation disabled")
	}

	// NATS (optional)
	var pub events.Publisher = events.Nop{}
	if cfg.NatsURL != "" {
		natsClient, err := events.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer natsClient.Close()
		pub = natsClient
		slog.Info("NATS connected", "url", cfg.NatsURL)
	}

	orch := analysis.New(db, registry, gen, pub, slog.Default())
	tr := translate.New(db, gen, slog.Default())

	// HTTP API
	srv := api.NewServer(cfg.Port, db, registry, orch, tr, slog.Default())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	slog.Info("trace-explorer ready", "port", cfg.Port, "traces", db.Len())

	if err := g.Wait(); err != nil {
		slog.Error("HTTP server error", "error", err)
		os.Exit(1)
	}
	slog.Info("trace-explorer stopped")
}

// loadTraces reads TRACE_FILE, or the export discovered in TRACE_DIR. A
// missing or unreadable export leaves the store empty.
func loadTraces(cfg config.Config) []traces.Trace {
	path := cfg.TraceFile
	if path == "" {
		found, err := traces.FindCSV(cfg.TraceDir)
		if err != nil {
			slog.Warn("no trace export found", "dir", cfg.TraceDir, "error", err)
			return nil
		}
		path = found
	}

	ts, err := traces.ParseFile(path, slog.Default())
	if err != nil {
		slog.Error("failed to load traces", "path", path, "error", err)
		return nil
	}
	slog.Info("traces loaded", "path", path, "count", len(ts))
	return ts
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

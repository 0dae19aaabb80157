package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/MikeSquared-Agency/trace-explorer/internal/analysis"
	"github.com/MikeSquared-Agency/trace-explorer/internal/category"
	"github.com/MikeSquared-Agency/trace-explorer/internal/store"
	"github.com/MikeSquared-Agency/trace-explorer/internal/traces"
)

// Analyzer runs a category analysis over the stored traces.
type Analyzer interface {
	Run(ctx context.Context, category string) (*analysis.RunSummary, error)
}

// Translator renders a trace's conversation into English.
type Translator interface {
	Translate(ctx context.Context, id string) (traces.Translation, error)
}

type Server struct {
	router     *chi.Mux
	handler    http.Handler
	http       *http.Server
	port       int
	store      *store.Store
	categories *category.Registry
	analyzer   Analyzer
	translator Translator
	logger     *slog.Logger
}

func NewServer(port int, s *store.Store, reg *category.Registry, an Analyzer, tr Translator, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	srv := &Server{
		router:     router,
		port:       port,
		store:      s,
		categories: reg,
		analyzer:   an,
		translator: tr,
		logger:     logger,
	}

	router.Get("/", srv.index)
	router.Get("/health", srv.health)

	router.Route("/api", func(r chi.Router) {
		r.Get("/traces", srv.listTraces)
		r.Get("/trace/{id}", srv.getTrace)
		r.Post("/analyze", srv.analyze)
		r.Get("/analysis-status", srv.analysisStatus)
		r.Get("/top-traces/{category}", srv.topTraces)
		r.Get("/translate/{id}", srv.translate)
	})

	srv.handler = otelhttp.NewHandler(router, "trace-explorer",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
	return srv
}

// Handler returns the instrumented router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured port until Shutdown is called, at which
// point it returns http.ErrServerClosed.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("API server starting", "addr", addr)
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": s.categories.All()})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

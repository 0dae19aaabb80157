package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MikeSquared-Agency/trace-explorer/internal/analysis"
	"github.com/MikeSquared-Agency/trace-explorer/internal/llm"
)

type analyzeRequest struct {
	Category string `json:"category"`
}

type analyzeResponse struct {
	Success  bool   `json:"success"`
	Analyzed int    `json:"analyzed"`
	Category string `json:"category"`
	RunID    string `json:"run_id"`
}

// analyze handles POST /api/analyze. The run is detached from the request
// context so a client disconnect does not abandon a half-merged run.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Category == "" {
		writeError(w, http.StatusBadRequest, "Invalid category")
		return
	}
	if _, ok := s.categories.Get(req.Category); !ok {
		writeError(w, http.StatusBadRequest, "Invalid category")
		return
	}
	if s.analyzer == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis unavailable: no model configured")
		return
	}

	sum, err := s.analyzer.Run(context.WithoutCancel(r.Context()), req.Category)
	switch {
	case errors.Is(err, analysis.ErrUnknownCategory):
		writeError(w, http.StatusBadRequest, "Invalid category")
		return
	case errors.Is(err, llm.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "analysis unavailable: no model configured")
		return
	case err != nil:
		s.logger.Error("analysis failed", "category", req.Category, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Success:  true,
		Analyzed: sum.Analyzed,
		Category: sum.Category,
		RunID:    sum.RunID.String(),
	})
}

type statusResponse struct {
	Analyzed   []string `json:"analyzed"`
	Categories []string `json:"categories"`
}

func (s *Server) analysisStatus(w http.ResponseWriter, r *http.Request) {
	keys := s.categories.Keys()
	writeJSON(w, http.StatusOK, statusResponse{
		Analyzed:   s.store.Analyzed(keys),
		Categories: keys,
	})
}

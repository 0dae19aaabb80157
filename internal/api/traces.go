package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/trace-explorer/internal/store"
	"github.com/MikeSquared-Agency/trace-explorer/internal/traces"
)

const topTracesLimit = 10

type listResponse struct {
	Traces   []traces.Trace `json:"traces"`
	Total    int            `json:"total"`
	Filtered int            `json:"filtered"`
}

// listTraces handles GET /api/traces. An unknown category or a limit that is
// not a positive integer is ignored.
func (s *Server) listTraces(w http.ResponseWriter, r *http.Request) {
	var q store.Query
	if key := r.URL.Query().Get("category"); key != "" {
		if _, ok := s.categories.Get(key); ok {
			q.Category = key
		}
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		q.Limit = limit
	}

	result := s.store.List(q)
	writeJSON(w, http.StatusOK, listResponse{
		Traces:   result,
		Total:    s.store.Len(),
		Filtered: len(result),
	})
}

func (s *Server) getTrace(w http.ResponseWriter, r *http.Request) {
	t, ok := s.store.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Trace not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type topTracesResponse struct {
	Category     string         `json:"category"`
	CategoryName string         `json:"category_name"`
	Traces       []traces.Trace `json:"traces"`
}

func (s *Server) topTraces(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "category")
	cat, ok := s.categories.Get(key)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid category")
		return
	}
	writeJSON(w, http.StatusOK, topTracesResponse{
		Category:     key,
		CategoryName: cat.Name,
		Traces:       s.store.List(store.Query{Category: key, Limit: topTracesLimit}),
	})
}

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/trace-explorer/internal/translate"
)

func (s *Server) translate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.store.Get(id); !ok {
		writeError(w, http.StatusNotFound, "Trace not found")
		return
	}
	if s.translator == nil {
		writeError(w, http.StatusInternalServerError, "translation unavailable: no model configured")
		return
	}

	tr, err := s.translator.Translate(r.Context(), id)
	if errors.Is(err, translate.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Trace not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

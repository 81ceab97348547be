package http

import (
	"net/http"

	"bilancio/internal/core"
	"bilancio/internal/store"
)

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var in core.Income
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.AddIncome(r.Context(), in)
	if err != nil {
		respondValidationError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch store.IncomePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, ok := s.store.UpdateIncome(r.Context(), id, patch)
	if !ok {
		respondNotFound(w, "income", id)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.store.DeleteIncome(r.Context(), id) {
		respondNotFound(w, "income", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package http

import (
	"net/http"

	"bilancio/internal/core"
	"bilancio/internal/store"
)

func (s *Server) handleCreateSavingsGoal(w http.ResponseWriter, r *http.Request) {
	var g core.SavingsGoal
	if err := decodeJSON(w, r, &g); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.AddSavingsGoal(r.Context(), g)
	if err != nil {
		respondValidationError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateSavingsGoal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch store.SavingsGoalPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, ok := s.store.UpdateSavingsGoal(r.Context(), id, patch)
	if !ok {
		respondNotFound(w, "savings goal", id)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteSavingsGoal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.store.DeleteSavingsGoal(r.Context(), id) {
		respondNotFound(w, "savings goal", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

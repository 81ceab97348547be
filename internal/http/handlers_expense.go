package http

import (
	"net/http"

	"bilancio/internal/core"
	"bilancio/internal/store"
)

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var ex core.Expense
	if err := decodeJSON(w, r, &ex); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.AddExpense(r.Context(), ex)
	if err != nil {
		respondValidationError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch store.ExpensePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, ok := s.store.UpdateExpense(r.Context(), id, patch)
	if !ok {
		respondNotFound(w, "expense", id)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.store.DeleteExpense(r.Context(), id) {
		respondNotFound(w, "expense", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package http

import (
	"net/http"

	"bilancio/internal/core"
	"bilancio/internal/store"
)

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var c core.Category
	if err := decodeJSON(w, r, &c); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.AddCategory(r.Context(), c)
	if err != nil {
		respondValidationError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch store.CategoryPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, ok := s.store.UpdateCategory(r.Context(), id, patch)
	if !ok {
		respondNotFound(w, "category", id)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Deleting a category leaves entries referencing it untouched; they keep
// accumulating under the dangling name.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.store.DeleteCategory(r.Context(), id) {
		respondNotFound(w, "category", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

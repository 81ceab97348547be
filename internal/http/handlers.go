package http

import (
	"net/http"

	"bilancio/internal/core"
)

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports ready once the store has loaded a document.
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if s.store.Snapshot().Revision == 0 {
		respondError(w, http.StatusServiceUnavailable, "store not loaded")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleGetDocument(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.store.Document())
}

func (s *Server) handleGetSummary(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.store.Summary())
}

func (s *Server) handleExpensesByCategory(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, core.ExpensesByCategory(s.store.Document()))
}

func (s *Server) handleBudgetRemaining(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.budgetStatus(s.store.Snapshot()))
}

func (s *Server) handleTransactions(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.transactions(s.store.Snapshot()))
}

// handleMonthlySpending sums expenses for the requested calendar month,
// defaulting to the current one.
func (s *Server) handleMonthlySpending(w http.ResponseWriter, r *http.Request) {
	asOf := parseMonthParams(r)
	total := core.MonthlySpending(s.store.Document(), asOf)
	respondJSON(w, http.StatusOK, struct {
		Year  int        `json:"year"`
		Month int        `json:"month"`
		Total core.Money `json:"total"`
	}{
		Year:  asOf.Year(),
		Month: int(asOf.Month()),
		Total: total,
	})
}

// handleReset restores the seed document and returns the new state.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	snap := s.store.ResetAll(r.Context())
	respondJSON(w, http.StatusOK, struct {
		Document core.Document `json:"document"`
		Summary  core.Summary  `json:"summary"`
	}{
		Document: snap.Document,
		Summary:  snap.Summary,
	})
}

// Package http exposes the budget document and its derived views as a
// JSON API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"bilancio/internal/cache"
	"bilancio/internal/core"
	applog "bilancio/internal/log"
	"bilancio/internal/store"
)

type Server struct {
	http.Server
	store       *store.BudgetStore
	rateLimiter *rateLimiter
	metrics     securityMetrics

	// Derived views are cached per document revision; a mutation bumps
	// the revision, so stale entries are never served and simply age out.
	txCache      *cache.LRUCache[[]core.Transaction]
	budgetCache  *cache.LRUCache[map[string]core.BudgetStatus]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures all routes and returns a ready-to-run server.
func NewServer(addr string, st *store.BudgetStore) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:        st,
		rateLimiter:  newRateLimiter(60, time.Minute),
		txCache:      cache.NewLRUCache[[]core.Transaction](50, 5*time.Minute),
		budgetCache:  cache.NewLRUCache[map[string]core.BudgetStatus](50, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.txCache)
	s.cacheManager.Register(s.budgetCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/document", s.wrap(s.handleGetDocument))
	mux.HandleFunc("GET /api/summary", s.wrap(s.handleGetSummary))
	mux.HandleFunc("GET /api/expenses/by-category", s.wrap(s.handleExpensesByCategory))
	mux.HandleFunc("GET /api/budget/remaining", s.wrap(s.handleBudgetRemaining))
	mux.HandleFunc("GET /api/transactions", s.wrap(s.handleTransactions))
	mux.HandleFunc("GET /api/spending/monthly", s.wrap(s.handleMonthlySpending))

	mux.HandleFunc("POST /api/incomes", s.wrap(s.handleCreateIncome))
	mux.HandleFunc("PATCH /api/incomes/{id}", s.wrap(s.handleUpdateIncome))
	mux.HandleFunc("DELETE /api/incomes/{id}", s.wrap(s.handleDeleteIncome))

	mux.HandleFunc("POST /api/expenses", s.wrap(s.handleCreateExpense))
	mux.HandleFunc("PATCH /api/expenses/{id}", s.wrap(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.wrap(s.handleDeleteExpense))

	mux.HandleFunc("POST /api/categories", s.wrap(s.handleCreateCategory))
	mux.HandleFunc("PATCH /api/categories/{id}", s.wrap(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.wrap(s.handleDeleteCategory))

	mux.HandleFunc("POST /api/savings-goals", s.wrap(s.handleCreateSavingsGoal))
	mux.HandleFunc("PATCH /api/savings-goals/{id}", s.wrap(s.handleUpdateSavingsGoal))
	mux.HandleFunc("DELETE /api/savings-goals/{id}", s.wrap(s.handleDeleteSavingsGoal))

	mux.HandleFunc("POST /api/reset", s.wrap(s.handleReset))

	return s
}

// wrap applies security headers, request tracing and rate limiting on
// mutating methods.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()
		ctx := applog.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, clientIP,
			applog.FieldUserAgent, r.Header.Get("User-Agent"))

		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP, &s.metrics) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		setSecurityHeaders(w)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds(),
			applog.FieldClientIP, clientIP)
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// revisionKey is the cache key for derived views of the given snapshot.
func revisionKey(revision int64) string {
	return strconv.FormatInt(revision, 10)
}

// transactions returns the unified history for snap, computing it at
// most once per revision.
func (s *Server) transactions(snap store.Snapshot) []core.Transaction {
	key := revisionKey(snap.Revision)
	if cached, ok := s.txCache.Get(key); ok {
		return cached
	}
	tx := core.TransactionHistory(snap.Document)
	s.txCache.Set(key, tx)
	return tx
}

// budgetStatus returns the per-category spend position for snap, cached
// per revision.
func (s *Server) budgetStatus(snap store.Snapshot) map[string]core.BudgetStatus {
	key := revisionKey(snap.Revision)
	if cached, ok := s.budgetCache.Get(key); ok {
		return cached
	}
	status := core.RemainingBudget(snap.Document)
	s.budgetCache.Set(key, status)
	return status
}

// Shutdown stops the HTTP listener and background cache maintenance.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

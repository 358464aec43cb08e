// Package api provides the HTTP server for fundbooks. Every ledger
// operation is exposed as JSON over REST with a uniform response envelope.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fundbooks-dev/fundbooks/internal/assets"
	"github.com/fundbooks-dev/fundbooks/internal/balance"
	"github.com/fundbooks-dev/fundbooks/internal/buildinfo"
	"github.com/fundbooks-dev/fundbooks/internal/payables"
	"github.com/fundbooks-dev/fundbooks/internal/posting"
	"github.com/fundbooks-dev/fundbooks/internal/reconcile"
	"github.com/fundbooks-dev/fundbooks/internal/recurring"
	"github.com/fundbooks-dev/fundbooks/internal/store"
)

// Server is the fundbooks HTTP API server.
type Server struct {
	store          *store.Store
	posting        *posting.Service
	balance        *balance.Service
	payables       *payables.Service
	assets         *assets.Service
	recurring      *recurring.Service
	reconcile      *reconcile.Service
	metricsEnabled bool
}

// NewServer creates a new API server over the ledger services.
func NewServer(st *store.Store, ps *posting.Service, bs *balance.Service,
	pay *payables.Service, as *assets.Service, rec *recurring.Service,
	rc *reconcile.Service) *Server {
	return &Server{
		store:     st,
		posting:   ps,
		balance:   bs,
		payables:  pay,
		assets:    as,
		recurring: rec,
		reconcile: rc,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"version": buildinfo.Version,
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/accounts", s.handleListAccounts)
		r.Post("/accounts", s.handleCreateAccount)
		r.Get("/funds", s.handleListFunds)
		r.Post("/funds", s.handleCreateFund)

		r.Post("/entries", s.handlePostEntry)
		r.Get("/entries/{id}", s.handleGetEntry)
		r.Post("/entries/{id}/void", s.handleVoidEntry)

		r.Get("/reports/balance-sheet", s.handleBalanceSheet)
		r.Get("/reports/income-statement", s.handleIncomeStatement)
		r.Get("/reports/funds", s.handleFundSummaries)

		r.Get("/vendors", s.handleListVendors)
		r.Post("/vendors", s.handleCreateVendor)
		r.Get("/bills", s.handleListBills)
		r.Post("/bills", s.handleCreateBill)
		r.Post("/bills/{id}/pay", s.handlePayBill)
		r.Post("/bills/{id}/cancel", s.handleCancelBill)
		r.Get("/bills/{id}/payments", s.handleBillPayments)

		r.Get("/assets", s.handleListAssets)
		r.Post("/assets", s.handleCreateAsset)
		r.Post("/assets/{id}/depreciate", s.handleDepreciate)
		r.Post("/assets/depreciate-all", s.handleDepreciateAll)
		r.Post("/assets/{id}/dispose", s.handleDispose)
		r.Get("/assets/{id}/schedule", s.handleSchedule)

		r.Get("/recurring", s.handleListTemplates)
		r.Post("/recurring", s.handleCreateTemplate)
		r.Post("/recurring/process", s.handleProcessRecurring)
		r.Post("/recurring/{id}/active", s.handleSetTemplateActive)
		r.Get("/recurring/{id}/runs", s.handleTemplateRuns)

		r.Post("/reconciliations", s.handleStartReconciliation)
		r.Get("/reconciliations/{id}", s.handleGetReconciliation)
		r.Get("/accounts/{id}/uncleared", s.handleUncleared)
		r.Post("/reconciliations/{id}/finalize", s.handleFinalize)
		r.Post("/reconciliations/{id}/discard", s.handleDiscard)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// envelope is the uniform response shape: success with data, or an error
// message.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// writeData writes a success envelope.
func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

// writeError writes an error envelope with the given client-facing message.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Success: false, Error: msg})
}

// writeServiceError maps a service error onto a status and message.
// Expected domain errors pass through verbatim; anything unexpected is
// logged and replaced with a generic message.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case isDomainError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("api: internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// isDomainError reports whether err is one of the known business-rule
// failures whose message is safe to show the caller.
func isDomainError(err error) bool {
	for _, target := range []error{
		posting.ErrValidation,
		payables.ErrBillPaidInFull,
		payables.ErrBillCancelled,
		payables.ErrOverpayment,
		payables.ErrHasPayments,
		assets.ErrFullyDepreciated,
		assets.ErrDisposed,
		reconcile.ErrBalanceMismatch,
		reconcile.ErrNoLinesSelected,
		reconcile.ErrNotInProgress,
		store.ErrAlreadyVoided,
		store.ErrReconciliationInProgress,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// decode parses a JSON request body into v.
func decode(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid request body: " + err.Error())
	}
	return nil
}

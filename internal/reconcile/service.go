// Package reconcile matches bank statement balances against selected
// subsets of uncleared ledger lines. The user picks the candidate lines;
// the system only verifies that the sum matches the statement, it never
// searches for a matching subset itself.
package reconcile

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundbooks-dev/fundbooks/internal/metrics"
	"github.com/fundbooks-dev/fundbooks/internal/model"
	"github.com/fundbooks-dev/fundbooks/internal/store"
)

var (
	// ErrBalanceMismatch is returned when the selected lines do not sum
	// to the statement balance within tolerance.
	ErrBalanceMismatch = errors.New("cleared balance does not match statement balance")
	// ErrNoLinesSelected is returned when finalizing with nothing
	// selected.
	ErrNoLinesSelected = errors.New("at least one transaction must be selected")
	// ErrNotInProgress is returned when finalizing or discarding a
	// reconciliation that is not in progress.
	ErrNotInProgress = errors.New("reconciliation is not in progress")
)

// Service drives bank reconciliations.
type Service struct {
	store *store.Store
}

// NewService creates a reconcile Service.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// Start opens a reconciliation against an account's statement. Only one
// in-progress reconciliation per account is permitted; the previous one
// must be completed or discarded first.
func (s *Service) Start(accountID string, statementDate time.Time, statementBalance decimal.Decimal) (model.Reconciliation, error) {
	if _, err := s.store.GetAccount(accountID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Reconciliation{}, fmt.Errorf("account %w", store.ErrNotFound)
		}
		return model.Reconciliation{}, err
	}

	r := model.Reconciliation{
		ID:               uuid.NewString(),
		AccountID:        accountID,
		StatementDate:    statementDate,
		StatementBalance: statementBalance,
		Status:           model.ReconInProgress,
	}
	if err := s.store.InsertReconciliation(r); err != nil {
		return model.Reconciliation{}, err
	}
	return r, nil
}

// Uncleared returns the account's non-voided ledger lines no completed
// reconciliation has claimed.
func (s *Service) Uncleared(accountID string) ([]model.JoinedLine, error) {
	return s.store.UnclearedLines(accountID)
}

// BalanceFor sums debit - credit over exactly the selected line IDs —
// the asset-side sign convention, since reconciled accounts are cash and
// bank accounts. An ID that does not resolve to a live line for the
// account is an error.
func (s *Service) BalanceFor(accountID string, lineIDs []string) (decimal.Decimal, error) {
	lines, err := s.store.GetLinesByID(accountID, lineIDs)
	if err != nil {
		return decimal.Zero, err
	}
	if len(lines) != len(lineIDs) {
		return decimal.Zero, fmt.Errorf("selected %d lines but only %d exist for this account", len(lineIDs), len(lines))
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Debit).Sub(l.Credit)
	}
	return total, nil
}

// Finalize completes a reconciliation: the selected lines' signed sum must
// equal the statement balance within 0.01, and at least one line must be
// selected. On success the lines are marked cleared and the record
// completed; on failure nothing changes.
func (s *Service) Finalize(reconciliationID string, lineIDs []string) (model.Reconciliation, error) {
	r, err := s.store.GetReconciliation(reconciliationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Reconciliation{}, fmt.Errorf("reconciliation %w", store.ErrNotFound)
		}
		return model.Reconciliation{}, err
	}
	if r.Status != model.ReconInProgress {
		return model.Reconciliation{}, ErrNotInProgress
	}
	if len(lineIDs) == 0 {
		return model.Reconciliation{}, ErrNoLinesSelected
	}

	cleared, err := s.BalanceFor(r.AccountID, lineIDs)
	if err != nil {
		return model.Reconciliation{}, err
	}
	if !model.WithinTolerance(cleared, r.StatementBalance) {
		return model.Reconciliation{}, fmt.Errorf("%w: cleared %s, statement %s",
			ErrBalanceMismatch, cleared.StringFixed(2), r.StatementBalance.StringFixed(2))
	}

	if err := s.store.CompleteReconciliation(r.ID, lineIDs); err != nil {
		return model.Reconciliation{}, fmt.Errorf("completing reconciliation: %w", err)
	}
	metrics.ReconciliationsCompleted.Inc()

	r.Status = model.ReconCompleted
	r.ClearedLineIDs = lineIDs
	return r, nil
}

// Discard abandons an in-progress reconciliation.
func (s *Service) Discard(reconciliationID string) error {
	err := s.store.DeleteReconciliation(reconciliationID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotInProgress
	}
	return err
}

// InProgress returns the open reconciliation for an account, or
// store.ErrNotFound.
func (s *Service) InProgress(accountID string) (model.Reconciliation, error) {
	return s.store.InProgressReconciliation(accountID)
}

// Get returns a reconciliation by ID.
func (s *Service) Get(id string) (model.Reconciliation, error) {
	return s.store.GetReconciliation(id)
}

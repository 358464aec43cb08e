// Package posting is the transactional primitive of the ledger: it
// validates and atomically commits balanced journal entries. Every
// higher-level operation (payables, depreciation, recurring, import) books
// through here.
package posting

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fundbooks-dev/fundbooks/internal/auditlog"
	"github.com/fundbooks-dev/fundbooks/internal/id"
	"github.com/fundbooks-dev/fundbooks/internal/metrics"
	"github.com/fundbooks-dev/fundbooks/internal/model"
	"github.com/fundbooks-dev/fundbooks/internal/store"
)

// ErrValidation wraps invariant failures so callers can distinguish bad
// input from infrastructure errors.
var ErrValidation = errors.New("validation failed")

// Service posts, voids, and hard-deletes journal entries.
type Service struct {
	store *store.Store
	audit *auditlog.Log
	now   func() time.Time
}

// NewService creates a posting Service. audit may be nil to disable the
// audit trail (tests).
func NewService(st *store.Store, audit *auditlog.Log) *Service {
	return &Service{store: st, audit: audit, now: time.Now}
}

// Build constructs a journal entry and its lines from caller input without
// touching the store. IDs are assigned here so transactional store methods
// can commit the same shapes.
func (s *Service) Build(header model.EntryInput, lines []model.LineInput) (model.JournalEntry, []model.LedgerLine, error) {
	verrs, err := ValidateLines(lines, s.store)
	if err != nil {
		return model.JournalEntry{}, nil, err
	}
	if len(verrs) > 0 {
		metrics.PostingFailures.WithLabelValues("validation").Inc()
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return model.JournalEntry{}, nil, fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
	}

	ref := header.ReferenceNumber
	if ref == "" {
		n, err := s.store.CountEntriesInMonth(header.EntryDate.Year(), int(header.EntryDate.Month()))
		if err != nil {
			return model.JournalEntry{}, nil, err
		}
		ref = id.FormatReference(header.EntryDate.Year(), int(header.EntryDate.Month()), n+1)
	}

	entry := model.JournalEntry{
		ID:              uuid.NewString(),
		EntryDate:       header.EntryDate,
		Description:     header.Description,
		ReferenceNumber: ref,
		DonorID:         header.DonorID,
		IsInKind:        header.IsInKind,
	}

	ledgerLines := make([]model.LedgerLine, len(lines))
	for i, l := range lines {
		ledgerLines[i] = model.LedgerLine{
			ID:             uuid.NewString(),
			JournalEntryID: entry.ID,
			AccountID:      l.AccountID,
			FundID:         l.FundID,
			Debit:          l.Debit,
			Credit:         l.Credit,
			Memo:           l.Memo,
		}
	}
	return entry, ledgerLines, nil
}

// Post validates and commits a balanced journal entry. The header and all
// lines land in a single store transaction; on any failure nothing is
// written.
func (s *Service) Post(header model.EntryInput, lines []model.LineInput) (model.JournalEntry, error) {
	entry, ledgerLines, err := s.Build(header, lines)
	if err != nil {
		return model.JournalEntry{}, err
	}

	if err := s.store.InsertEntry(entry, ledgerLines); err != nil {
		metrics.PostingFailures.WithLabelValues("store").Inc()
		return model.JournalEntry{}, fmt.Errorf("committing journal entry: %w", err)
	}

	metrics.EntriesPosted.WithLabelValues("direct").Inc()
	s.log("post", entry.Description, entry.ID)
	return entry, nil
}

// Void soft-deletes a journal entry: its lines stop contributing to
// balances but remain on file for the audit trail. Voiding an already
// voided entry fails.
func (s *Service) Void(entryID, reason string) error {
	if err := s.store.VoidEntry(entryID, reason, s.now()); err != nil {
		return err
	}
	metrics.EntriesVoided.Inc()
	s.log("void", reason, entryID)
	return nil
}

// HardDelete removes a journal entry and its lines permanently. Admin
// transaction management only; irreversible.
func (s *Service) HardDelete(entryID string) error {
	if err := s.store.HardDeleteEntry(entryID); err != nil {
		return err
	}
	s.log("hard-delete", "", entryID)
	return nil
}

// Compensate removes an orphaned journal entry left behind when a
// downstream step failed after the entry committed. The attempt itself is
// recorded; if the delete fails the leaked entry ID is in the log for
// manual cleanup.
func (s *Service) Compensate(entryID, cause string) error {
	if err := s.store.HardDeleteEntry(entryID); err != nil {
		s.log("compensate-failed", cause+": "+err.Error(), entryID)
		return fmt.Errorf("compensating delete of entry %s: %w", entryID, err)
	}
	s.log("compensate", cause, entryID)
	return nil
}

func (s *Service) log(action, details, entryID string) {
	if s.audit == nil {
		return
	}
	// Audit writes are best-effort; a logging failure must not fail the
	// ledger operation that already committed.
	_ = s.audit.Record(action, details, entryID)
}

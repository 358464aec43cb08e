package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fundbooks-dev/fundbooks/internal/model"
)

// ErrReconciliationInProgress is returned when starting a reconciliation
// for an account that already has one in progress.
var ErrReconciliationInProgress = errors.New("a reconciliation is already in progress for this account")

// InsertReconciliation starts a reconciliation. The partial unique index on
// (account_id) WHERE status='in_progress' enforces at most one open
// reconciliation per account.
func (s *Store) InsertReconciliation(r model.Reconciliation) error {
	_, err := s.db.Exec(`
		INSERT INTO reconciliations (id, account_id, statement_date, statement_balance, status)
		VALUES (?, ?, ?, ?, ?)
	`, r.ID, r.AccountID, fmtDate(r.StatementDate), r.StatementBalance.StringFixed(2), string(r.Status))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrReconciliationInProgress
		}
		return fmt.Errorf("inserting reconciliation: %w", err)
	}
	return nil
}

// GetReconciliation returns a reconciliation with its cleared line IDs.
func (s *Store) GetReconciliation(id string) (model.Reconciliation, error) {
	var r model.Reconciliation
	var statementDate, balance, status string
	err := s.db.QueryRow(`
		SELECT id, account_id, statement_date, statement_balance, status
		FROM reconciliations WHERE id = ?
	`, id).Scan(&r.ID, &r.AccountID, &statementDate, &balance, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reconciliation{}, ErrNotFound
	}
	if err != nil {
		return model.Reconciliation{}, fmt.Errorf("scanning reconciliation: %w", err)
	}
	if r.StatementDate, err = parseDate(statementDate); err != nil {
		return model.Reconciliation{}, err
	}
	if r.StatementBalance, err = parseAmount(balance); err != nil {
		return model.Reconciliation{}, err
	}
	r.Status = model.ReconciliationStatus(status)

	rows, err := s.db.Query(`SELECT line_id FROM cleared_lines WHERE reconciliation_id = ? ORDER BY line_id`, id)
	if err != nil {
		return model.Reconciliation{}, fmt.Errorf("listing cleared lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var lineID string
		if err := rows.Scan(&lineID); err != nil {
			return model.Reconciliation{}, fmt.Errorf("scanning cleared line: %w", err)
		}
		r.ClearedLineIDs = append(r.ClearedLineIDs, lineID)
	}
	return r, rows.Err()
}

// InProgressReconciliation returns the open reconciliation for an account,
// or ErrNotFound.
func (s *Store) InProgressReconciliation(accountID string) (model.Reconciliation, error) {
	var id string
	err := s.db.QueryRow(`
		SELECT id FROM reconciliations WHERE account_id = ? AND status = 'in_progress'
	`, accountID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reconciliation{}, ErrNotFound
	}
	if err != nil {
		return model.Reconciliation{}, fmt.Errorf("finding in-progress reconciliation: %w", err)
	}
	return s.GetReconciliation(id)
}

// UnclearedLines returns all non-voided ledger lines for an account that no
// completed reconciliation has marked cleared.
func (s *Store) UnclearedLines(accountID string) ([]model.JoinedLine, error) {
	rows, err := s.db.Query(`
		SELECT l.id, l.journal_entry_id, l.account_id, l.fund_id, l.debit, l.credit, l.memo,
		       a.type, e.entry_date, e.is_voided
		FROM ledger_lines l
		JOIN journal_entries e ON e.id = l.journal_entry_id
		JOIN accounts a ON a.id = l.account_id
		WHERE l.account_id = ?
		  AND e.is_voided = 0
		  AND l.id NOT IN (
			SELECT c.line_id FROM cleared_lines c
			JOIN reconciliations r ON r.id = c.reconciliation_id
			WHERE r.status = 'completed'
		  )
		ORDER BY e.entry_date, l.id
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("querying uncleared lines: %w", err)
	}
	defer rows.Close()

	var lines []model.JoinedLine
	for rows.Next() {
		var jl model.JoinedLine
		var debit, credit, typ, entryDate string
		var voided int
		if err := rows.Scan(&jl.ID, &jl.JournalEntryID, &jl.AccountID, &jl.FundID,
			&debit, &credit, &jl.Memo, &typ, &entryDate, &voided); err != nil {
			return nil, fmt.Errorf("scanning uncleared line: %w", err)
		}
		if jl.Debit, err = parseAmount(debit); err != nil {
			return nil, err
		}
		if jl.Credit, err = parseAmount(credit); err != nil {
			return nil, err
		}
		if jl.EntryDate, err = parseDate(entryDate); err != nil {
			return nil, err
		}
		jl.AccountType = model.AccountType(typ)
		jl.IsVoided = voided == 1
		lines = append(lines, jl)
	}
	return lines, rows.Err()
}

// GetLinesByID returns the ledger lines with the given IDs, restricted to
// non-voided entries for the given account.
func (s *Store) GetLinesByID(accountID string, ids []string) ([]model.LedgerLine, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, 0, len(ids)+1)
	args = append(args, accountID)
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := s.db.Query(`
		SELECT l.id, l.journal_entry_id, l.account_id, l.fund_id, l.debit, l.credit, l.memo
		FROM ledger_lines l
		JOIN journal_entries e ON e.id = l.journal_entry_id
		WHERE l.account_id = ? AND e.is_voided = 0 AND l.id IN (`+placeholders+`)
		ORDER BY l.id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying lines by id: %w", err)
	}
	defer rows.Close()
	return scanLines(rows)
}

// CompleteReconciliation marks the selected lines cleared and the
// reconciliation completed, in one transaction.
func (s *Store) CompleteReconciliation(id string, lineIDs []string) error {
	return s.inTx(func(tx *sql.Tx) error {
		for _, lineID := range lineIDs {
			if _, err := tx.Exec(`
				INSERT INTO cleared_lines (reconciliation_id, line_id) VALUES (?, ?)
			`, id, lineID); err != nil {
				return fmt.Errorf("marking line %s cleared: %w", lineID, err)
			}
		}
		res, err := tx.Exec(`
			UPDATE reconciliations SET status = 'completed' WHERE id = ? AND status = 'in_progress'
		`, id)
		if err != nil {
			return fmt.Errorf("completing reconciliation: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking rows affected: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// DeleteReconciliation discards an in-progress reconciliation and its
// cleared-line links.
func (s *Store) DeleteReconciliation(id string) error {
	return s.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM cleared_lines WHERE reconciliation_id = ?`, id); err != nil {
			return fmt.Errorf("deleting cleared links: %w", err)
		}
		res, err := tx.Exec(`DELETE FROM reconciliations WHERE id = ? AND status = 'in_progress'`, id)
		if err != nil {
			return fmt.Errorf("deleting reconciliation: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking rows affected: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fundbooks-dev/fundbooks/internal/model"
)

// ErrAlreadyVoided is returned when voiding an entry twice.
var ErrAlreadyVoided = errors.New("journal entry is already voided")

// InsertEntry commits a journal entry header and its ledger lines as a
// single transaction. Either everything lands or nothing does.
func (s *Store) InsertEntry(e model.JournalEntry, lines []model.LedgerLine) error {
	return s.inTx(func(tx *sql.Tx) error {
		return insertEntryTx(tx, e, lines)
	})
}

// GetEntry returns a journal entry header by ID.
func (s *Store) GetEntry(id string) (model.JournalEntry, error) {
	var e model.JournalEntry
	var entryDate string
	var inKind, voided int
	var voidedAt sql.NullString
	err := s.db.QueryRow(`
		SELECT id, entry_date, description, reference_number, donor_id,
		       is_in_kind, is_voided, voided_at, voided_reason
		FROM journal_entries WHERE id = ?
	`, id).Scan(&e.ID, &entryDate, &e.Description, &e.ReferenceNumber, &e.DonorID,
		&inKind, &voided, &voidedAt, &e.VoidedReason)
	if errors.Is(err, sql.ErrNoRows) {
		return model.JournalEntry{}, ErrNotFound
	}
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("scanning journal entry: %w", err)
	}
	if e.EntryDate, err = parseDate(entryDate); err != nil {
		return model.JournalEntry{}, err
	}
	e.IsInKind = inKind == 1
	e.IsVoided = voided == 1
	if voidedAt.Valid && voidedAt.String != "" {
		t, err := time.Parse(time.RFC3339, voidedAt.String)
		if err != nil {
			return model.JournalEntry{}, fmt.Errorf("parsing voided_at: %w", err)
		}
		e.VoidedAt = &t
	}
	return e, nil
}

// GetLines returns the ledger lines of a journal entry.
func (s *Store) GetLines(entryID string) ([]model.LedgerLine, error) {
	rows, err := s.db.Query(`
		SELECT id, journal_entry_id, account_id, fund_id, debit, credit, memo
		FROM ledger_lines WHERE journal_entry_id = ? ORDER BY id
	`, entryID)
	if err != nil {
		return nil, fmt.Errorf("listing ledger lines: %w", err)
	}
	defer rows.Close()
	return scanLines(rows)
}

func scanLines(rows *sql.Rows) ([]model.LedgerLine, error) {
	var lines []model.LedgerLine
	for rows.Next() {
		var l model.LedgerLine
		var debit, credit string
		if err := rows.Scan(&l.ID, &l.JournalEntryID, &l.AccountID, &l.FundID, &debit, &credit, &l.Memo); err != nil {
			return nil, fmt.Errorf("scanning ledger line: %w", err)
		}
		var err error
		if l.Debit, err = parseAmount(debit); err != nil {
			return nil, err
		}
		if l.Credit, err = parseAmount(credit); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// VoidEntry soft-deletes a journal entry: lines remain for the audit trail
// but are excluded from balances. Voiding a voided entry fails.
func (s *Store) VoidEntry(id, reason string, at time.Time) error {
	return s.inTx(func(tx *sql.Tx) error {
		var voided int
		err := tx.QueryRow(`SELECT is_voided FROM journal_entries WHERE id = ?`, id).Scan(&voided)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("checking void status: %w", err)
		}
		if voided == 1 {
			return ErrAlreadyVoided
		}
		_, err = tx.Exec(`
			UPDATE journal_entries SET is_voided = 1, voided_at = ?, voided_reason = ? WHERE id = ?
		`, at.Format(time.RFC3339), reason, id)
		if err != nil {
			return fmt.Errorf("voiding journal entry: %w", err)
		}
		return nil
	})
}

// HardDeleteEntry removes a journal entry's lines and header transactionally.
// Irreversible; admin use only.
func (s *Store) HardDeleteEntry(id string) error {
	return s.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM cleared_lines WHERE line_id IN
			(SELECT id FROM ledger_lines WHERE journal_entry_id = ?)`, id); err != nil {
			return fmt.Errorf("deleting cleared links: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM ledger_lines WHERE journal_entry_id = ?`, id); err != nil {
			return fmt.Errorf("deleting ledger lines: %w", err)
		}
		res, err := tx.Exec(`DELETE FROM journal_entries WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("deleting journal entry: %w", err)
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

// LineFilter restricts JoinedLines queries. Zero values mean "no filter".
type LineFilter struct {
	AccountID     string
	FundID        string
	From          time.Time // inclusive
	To            time.Time // inclusive
	IncludeVoided bool
}

// JoinedLines returns ledger lines joined with account type and entry
// date/voided flag, for the balance engine. Voided entries are excluded
// unless the filter asks for them.
func (s *Store) JoinedLines(f LineFilter) ([]model.JoinedLine, error) {
	q := `
		SELECT l.id, l.journal_entry_id, l.account_id, l.fund_id, l.debit, l.credit, l.memo,
		       a.type, e.entry_date, e.is_voided
		FROM ledger_lines l
		JOIN journal_entries e ON e.id = l.journal_entry_id
		JOIN accounts a ON a.id = l.account_id
		WHERE 1=1`
	var args []any
	if !f.IncludeVoided {
		q += ` AND e.is_voided = 0`
	}
	if f.AccountID != "" {
		q += ` AND l.account_id = ?`
		args = append(args, f.AccountID)
	}
	if f.FundID != "" {
		q += ` AND l.fund_id = ?`
		args = append(args, f.FundID)
	}
	if !f.From.IsZero() {
		q += ` AND e.entry_date >= ?`
		args = append(args, fmtDate(f.From))
	}
	if !f.To.IsZero() {
		q += ` AND e.entry_date <= ?`
		args = append(args, fmtDate(f.To))
	}
	q += ` ORDER BY e.entry_date, l.id`

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying joined lines: %w", err)
	}
	defer rows.Close()

	var lines []model.JoinedLine
	for rows.Next() {
		var jl model.JoinedLine
		var debit, credit, typ, entryDate string
		var voided int
		if err := rows.Scan(&jl.ID, &jl.JournalEntryID, &jl.AccountID, &jl.FundID,
			&debit, &credit, &jl.Memo, &typ, &entryDate, &voided); err != nil {
			return nil, fmt.Errorf("scanning joined line: %w", err)
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

// CountEntriesInMonth returns how many journal entries (voided included)
// carry an entry date in the given month. Used to assign reference numbers.
func (s *Store) CountEntriesInMonth(year, month int) (int, error) {
	first := fmt.Sprintf("%04d-%02d-01", year, month)
	next := fmt.Sprintf("%04d-%02d-01", year, month+1)
	if month == 12 {
		next = fmt.Sprintf("%04d-01-01", year+1)
	}
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM journal_entries WHERE entry_date >= ? AND entry_date < ?
	`, first, next).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return n, nil
}

// FindDuplicateEntry reports whether a non-voided journal entry exists with
// the same entry date, a description containing the given substring, and a
// line whose debit or credit equals amount. This is the import
// duplicate-detection heuristic: substring on description, exact match on
// either side of the amount.
func (s *Store) FindDuplicateEntry(date time.Time, descriptionSubstr string, amount string) (bool, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*)
		FROM journal_entries e
		JOIN ledger_lines l ON l.journal_entry_id = e.id
		WHERE e.is_voided = 0
		  AND e.entry_date = ?
		  AND instr(e.description, ?) > 0
		  AND (l.debit = ? OR l.credit = ?)
	`, fmtDate(date), descriptionSubstr, amount, amount).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking for duplicate entry: %w", err)
	}
	return n > 0, nil
}

// Package store is the durable ledger store: accounts, funds, journal
// entries, ledger lines, payables, fixed assets, recurring templates, and
// reconciliations, backed by SQLite. It is the single source of truth;
// referential integrity is enforced by the schema.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (and if necessary creates) the ledger database at path and
// applies migrations. Use ":memory:" for an in-memory database in tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite allows one writer; serialize access from this process.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	for i, stmt := range Migrations() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migration %d: %w", i, err)
		}
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Migrations returns the schema migration statements. Each string is a
// single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id          TEXT PRIMARY KEY,
			number      TEXT NOT NULL,
			name        TEXT NOT NULL,
			type        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			is_active   INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_number ON accounts(number)`,

		`CREATE TABLE IF NOT EXISTS funds (
			id                   TEXT PRIMARY KEY,
			name                 TEXT NOT NULL,
			description          TEXT NOT NULL DEFAULT '',
			is_restricted        INTEGER NOT NULL DEFAULT 0,
			net_asset_account_id TEXT REFERENCES accounts(id)
		)`,

		`CREATE TABLE IF NOT EXISTS journal_entries (
			id               TEXT PRIMARY KEY,
			entry_date       TEXT NOT NULL,
			description      TEXT NOT NULL,
			reference_number TEXT NOT NULL DEFAULT '',
			donor_id         TEXT NOT NULL DEFAULT '',
			is_in_kind       INTEGER NOT NULL DEFAULT 0,
			is_voided        INTEGER NOT NULL DEFAULT 0,
			voided_at        TEXT,
			voided_reason    TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_date ON journal_entries(entry_date)`,

		`CREATE TABLE IF NOT EXISTS ledger_lines (
			id               TEXT PRIMARY KEY,
			journal_entry_id TEXT NOT NULL REFERENCES journal_entries(id),
			account_id       TEXT NOT NULL REFERENCES accounts(id),
			fund_id          TEXT NOT NULL REFERENCES funds(id),
			debit            TEXT NOT NULL DEFAULT '0',
			credit           TEXT NOT NULL DEFAULT '0',
			memo             TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_lines_entry ON ledger_lines(journal_entry_id)`,
		`CREATE INDEX IF NOT EXISTS idx_lines_account ON ledger_lines(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_lines_fund ON ledger_lines(fund_id)`,

		`CREATE TABLE IF NOT EXISTS vendors (
			id        TEXT PRIMARY KEY,
			name      TEXT NOT NULL,
			contact   TEXT NOT NULL DEFAULT '',
			email     TEXT NOT NULL DEFAULT '',
			phone     TEXT NOT NULL DEFAULT '',
			is_active INTEGER NOT NULL DEFAULT 1
		)`,

		`CREATE TABLE IF NOT EXISTS bills (
			id                   TEXT PRIMARY KEY,
			vendor_id            TEXT NOT NULL REFERENCES vendors(id),
			fund_id              TEXT NOT NULL REFERENCES funds(id),
			expense_account_id   TEXT NOT NULL REFERENCES accounts(id),
			liability_account_id TEXT NOT NULL REFERENCES accounts(id),
			journal_entry_id     TEXT NOT NULL REFERENCES journal_entries(id),
			amount               TEXT NOT NULL,
			amount_paid          TEXT NOT NULL DEFAULT '0',
			status               TEXT NOT NULL DEFAULT 'unpaid',
			invoice_date         TEXT NOT NULL,
			due_date             TEXT NOT NULL,
			description          TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bills_vendor ON bills(vendor_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bills_status ON bills(status)`,

		`CREATE TABLE IF NOT EXISTS bill_payments (
			id               TEXT PRIMARY KEY,
			bill_id          TEXT NOT NULL REFERENCES bills(id),
			journal_entry_id TEXT NOT NULL REFERENCES journal_entries(id),
			amount           TEXT NOT NULL,
			payment_date     TEXT NOT NULL,
			payment_account  TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_bill ON bill_payments(bill_id)`,

		`CREATE TABLE IF NOT EXISTS fixed_assets (
			id                         TEXT PRIMARY KEY,
			name                       TEXT NOT NULL,
			purchase_price             TEXT NOT NULL,
			salvage_value              TEXT NOT NULL DEFAULT '0',
			estimated_life_years       INTEGER NOT NULL,
			depreciation_method        TEXT NOT NULL DEFAULT 'straight_line',
			accumulated_depreciation   TEXT NOT NULL DEFAULT '0',
			status                     TEXT NOT NULL DEFAULT 'active',
			asset_account_id           TEXT NOT NULL REFERENCES accounts(id),
			accum_depreciation_acct_id TEXT NOT NULL REFERENCES accounts(id),
			depreciation_expense_acct  TEXT NOT NULL REFERENCES accounts(id),
			fund_id                    TEXT NOT NULL REFERENCES funds(id),
			depreciation_start_date    TEXT NOT NULL,
			last_depreciation_date     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_assets_status ON fixed_assets(status)`,

		`CREATE TABLE IF NOT EXISTS depreciation_schedule (
			id               TEXT PRIMARY KEY,
			asset_id         TEXT NOT NULL REFERENCES fixed_assets(id),
			journal_entry_id TEXT NOT NULL REFERENCES journal_entries(id),
			period_start     TEXT NOT NULL,
			period_end       TEXT NOT NULL,
			amount           TEXT NOT NULL,
			accumulated      TEXT NOT NULL,
			beginning_value  TEXT NOT NULL,
			ending_value     TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_schedule_asset ON depreciation_schedule(asset_id)`,

		`CREATE TABLE IF NOT EXISTS recurring_templates (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			fund_id       TEXT NOT NULL REFERENCES funds(id),
			frequency     TEXT NOT NULL,
			start_date    TEXT NOT NULL,
			end_date      TEXT,
			last_run_date TEXT,
			next_run_date TEXT NOT NULL,
			amount        TEXT NOT NULL DEFAULT '0',
			is_active     INTEGER NOT NULL DEFAULT 1
		)`,

		`CREATE TABLE IF NOT EXISTS template_lines (
			id          TEXT PRIMARY KEY,
			template_id TEXT NOT NULL REFERENCES recurring_templates(id),
			account_id  TEXT NOT NULL REFERENCES accounts(id),
			debit       TEXT NOT NULL DEFAULT '0',
			credit      TEXT NOT NULL DEFAULT '0',
			memo        TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_template_lines ON template_lines(template_id)`,

		`CREATE TABLE IF NOT EXISTS template_runs (
			id               TEXT PRIMARY KEY,
			template_id      TEXT NOT NULL REFERENCES recurring_templates(id),
			journal_entry_id TEXT NOT NULL DEFAULT '',
			run_date         TEXT NOT NULL,
			status           TEXT NOT NULL,
			error            TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS reconciliations (
			id                TEXT PRIMARY KEY,
			account_id        TEXT NOT NULL REFERENCES accounts(id),
			statement_date    TEXT NOT NULL,
			statement_balance TEXT NOT NULL,
			status            TEXT NOT NULL DEFAULT 'in_progress'
		)`,
		// At most one in-progress reconciliation per account.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_recon_in_progress
			ON reconciliations(account_id) WHERE status = 'in_progress'`,

		`CREATE TABLE IF NOT EXISTS cleared_lines (
			reconciliation_id TEXT NOT NULL REFERENCES reconciliations(id),
			line_id           TEXT NOT NULL REFERENCES ledger_lines(id),
			PRIMARY KEY (reconciliation_id, line_id)
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_cleared_line ON cleared_lines(line_id)`,
	}
}

// inTx runs fn inside a transaction, rolling back on error.
func (s *Store) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

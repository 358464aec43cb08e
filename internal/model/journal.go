package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the atomic unit of financial history: a dated, described
// header grouping a balanced set of ledger lines.
type JournalEntry struct {
	ID              string
	EntryDate       time.Time
	Description     string
	ReferenceNumber string
	DonorID         string
	IsInKind        bool
	IsVoided        bool
	VoidedAt        *time.Time
	VoidedReason    string
}

// LedgerLine is one debit-or-credit posting to a specific account and fund
// within a journal entry. Debit and Credit are independent non-negative
// fields; conventionally exactly one is non-zero per line.
type LedgerLine struct {
	ID             string
	JournalEntryID string
	AccountID      string
	FundID         string
	Debit          decimal.Decimal
	Credit         decimal.Decimal
	Memo           string
}

// LineInput is the caller-supplied shape of a ledger line before posting.
type LineInput struct {
	AccountID string
	FundID    string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Memo      string
}

// EntryInput is the caller-supplied shape of a journal entry header.
type EntryInput struct {
	EntryDate       time.Time
	Description     string
	ReferenceNumber string
	DonorID         string
	IsInKind        bool
}

// JoinedLine is a ledger line joined with the account type of its account
// and the voided flag and date of its entry. The balance engine works
// entirely over these.
type JoinedLine struct {
	LedgerLine
	AccountType AccountType
	EntryDate   time.Time
	IsVoided    bool
}

// Tolerance is the rounding tolerance for balance comparisons: one cent.
var Tolerance = decimal.New(1, -2)

// WithinTolerance reports whether |a - b| < 0.01.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(Tolerance)
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus is the state of a bank reconciliation.
type ReconciliationStatus string

const (
	ReconInProgress ReconciliationStatus = "in_progress"
	ReconCompleted  ReconciliationStatus = "completed"
)

// Reconciliation matches a bank statement balance against a selected subset
// of uncleared ledger lines for one account. At most one in-progress
// reconciliation exists per account.
type Reconciliation struct {
	ID               string
	AccountID        string
	StatementDate    time.Time
	StatementBalance decimal.Decimal
	Status           ReconciliationStatus
	ClearedLineIDs   []string
}

// BankTransaction is a parsed bank statement CSV row.
type BankTransaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // negative = money out, positive = money in
	Reference   string
}

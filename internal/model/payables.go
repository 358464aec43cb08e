package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillStatus is the lifecycle state of a payable bill.
type BillStatus string

const (
	BillUnpaid    BillStatus = "unpaid"
	BillPartial   BillStatus = "partial"
	BillPaid      BillStatus = "paid"
	BillCancelled BillStatus = "cancelled"
)

// Vendor is a party bills are payable to.
type Vendor struct {
	ID       string
	Name     string
	Contact  string
	Email    string
	Phone    string
	IsActive bool
}

// Bill is a payable invoice. Creation books debit expense / credit
// liability; AmountPaid accumulates through BillPayment rows and Status is
// derived from it, except for cancellation.
type Bill struct {
	ID                 string
	VendorID           string
	FundID             string
	ExpenseAccountID   string
	LiabilityAccountID string
	JournalEntryID     string
	Amount             decimal.Decimal
	AmountPaid         decimal.Decimal
	Status             BillStatus
	InvoiceDate        time.Time
	DueDate            time.Time
	Description        string
}

// RemainingBalance returns amount - amount_paid.
func (b Bill) RemainingBalance() decimal.Decimal {
	return b.Amount.Sub(b.AmountPaid)
}

// BillPayment is one payment against a bill, with its own journal entry
// (debit liability, credit cash).
type BillPayment struct {
	ID             string
	BillID         string
	JournalEntryID string
	Amount         decimal.Decimal
	PaymentDate    time.Time
	PaymentAccount string // cash/checking account credited
}

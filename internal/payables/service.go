// Package payables manages the bill lifecycle: creation books expense
// against liability, payments reduce liability and cash, and status is
// derived from the amount paid.
package payables

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundbooks-dev/fundbooks/internal/metrics"
	"github.com/fundbooks-dev/fundbooks/internal/model"
	"github.com/fundbooks-dev/fundbooks/internal/posting"
	"github.com/fundbooks-dev/fundbooks/internal/store"
)

var (
	// ErrBillPaidInFull is returned when paying a bill that has already
	// been paid in full.
	ErrBillPaidInFull = errors.New("bill has already been paid in full")
	// ErrBillCancelled is returned when paying a cancelled bill.
	ErrBillCancelled = errors.New("bill has been cancelled")
	// ErrOverpayment is returned when a payment exceeds the remaining
	// balance beyond the rounding tolerance.
	ErrOverpayment = errors.New("payment exceeds remaining balance")
	// ErrHasPayments is returned when cancelling a bill with payments
	// recorded against it.
	ErrHasPayments = errors.New("bill with payments cannot be cancelled")
)

// Service drives the bill state machine on top of the posting engine.
type Service struct {
	store   *store.Store
	posting *posting.Service
}

// NewService creates a payables Service.
func NewService(st *store.Store, ps *posting.Service) *Service {
	return &Service{store: st, posting: ps}
}

// CreateBillParams holds parameters for creating a bill.
type CreateBillParams struct {
	VendorID           string
	FundID             string
	ExpenseAccountID   string
	LiabilityAccountID string
	Amount             decimal.Decimal
	InvoiceDate        time.Time
	DueDate            time.Time
	Description        string
}

// CreateBill posts the expense/liability journal entry and records the
// bill. If the bill row fails after the entry committed, the entry is
// compensating-deleted.
func (s *Service) CreateBill(p CreateBillParams) (model.Bill, error) {
	if !p.Amount.IsPositive() {
		return model.Bill{}, fmt.Errorf("%w: bill amount must be positive", posting.ErrValidation)
	}
	if p.DueDate.Before(p.InvoiceDate) {
		return model.Bill{}, fmt.Errorf("%w: due date must not be before invoice date", posting.ErrValidation)
	}
	vendor, err := s.store.GetVendor(p.VendorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Bill{}, fmt.Errorf("vendor %w", store.ErrNotFound)
		}
		return model.Bill{}, err
	}

	desc := p.Description
	if desc == "" {
		desc = "Bill from " + vendor.Name
	}

	entry, err := s.posting.Post(model.EntryInput{
		EntryDate:   p.InvoiceDate,
		Description: desc,
	}, []model.LineInput{
		{AccountID: p.ExpenseAccountID, FundID: p.FundID, Debit: p.Amount, Memo: desc},
		{AccountID: p.LiabilityAccountID, FundID: p.FundID, Credit: p.Amount, Memo: desc},
	})
	if err != nil {
		return model.Bill{}, fmt.Errorf("posting bill entry: %w", err)
	}

	bill := model.Bill{
		ID:                 uuid.NewString(),
		VendorID:           p.VendorID,
		FundID:             p.FundID,
		ExpenseAccountID:   p.ExpenseAccountID,
		LiabilityAccountID: p.LiabilityAccountID,
		JournalEntryID:     entry.ID,
		Amount:             p.Amount,
		AmountPaid:         decimal.Zero,
		Status:             model.BillUnpaid,
		InvoiceDate:        p.InvoiceDate,
		DueDate:            p.DueDate,
		Description:        desc,
	}
	if err := s.store.InsertBill(bill); err != nil {
		// The journal entry committed but the bill row did not; remove
		// the orphan so the ledger stays consistent with payables.
		if cerr := s.posting.Compensate(entry.ID, "bill insert failed"); cerr != nil {
			return model.Bill{}, fmt.Errorf("inserting bill: %w (compensation failed: %v)", err, cerr)
		}
		return model.Bill{}, fmt.Errorf("inserting bill: %w", err)
	}
	return bill, nil
}

// PayBillParams holds parameters for paying a bill.
type PayBillParams struct {
	BillID        string
	Amount        decimal.Decimal
	PaymentDate   time.Time
	CashAccountID string
}

// PayBill books a payment (debit liability, credit cash), records the
// payment, and moves the bill's derived status. The journal entry, payment
// row, and bill update commit in one store transaction.
func (s *Service) PayBill(p PayBillParams) (model.Bill, error) {
	bill, err := s.store.GetBill(p.BillID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Bill{}, fmt.Errorf("bill %w", store.ErrNotFound)
		}
		return model.Bill{}, err
	}

	switch bill.Status {
	case model.BillPaid:
		return model.Bill{}, ErrBillPaidInFull
	case model.BillCancelled:
		return model.Bill{}, ErrBillCancelled
	}
	if !p.Amount.IsPositive() {
		return model.Bill{}, fmt.Errorf("%w: payment amount must be positive", posting.ErrValidation)
	}
	if p.Amount.GreaterThan(bill.RemainingBalance().Add(model.Tolerance)) {
		return model.Bill{}, fmt.Errorf("%w: remaining balance is %s",
			ErrOverpayment, bill.RemainingBalance().StringFixed(2))
	}

	desc := fmt.Sprintf("Payment on bill %s", bill.Description)
	entry, lines, err := s.posting.Build(model.EntryInput{
		EntryDate:   p.PaymentDate,
		Description: desc,
	}, []model.LineInput{
		{AccountID: bill.LiabilityAccountID, FundID: bill.FundID, Debit: p.Amount, Memo: desc},
		{AccountID: p.CashAccountID, FundID: bill.FundID, Credit: p.Amount, Memo: desc},
	})
	if err != nil {
		return model.Bill{}, fmt.Errorf("building payment entry: %w", err)
	}

	payment := model.BillPayment{
		ID:             uuid.NewString(),
		BillID:         bill.ID,
		JournalEntryID: entry.ID,
		Amount:         p.Amount,
		PaymentDate:    p.PaymentDate,
		PaymentAccount: p.CashAccountID,
	}

	newPaid := bill.AmountPaid.Add(p.Amount)
	newStatus := deriveStatus(bill.Amount, newPaid)

	if err := s.store.ApplyBillPayment(entry, lines, payment, newPaid.StringFixed(2), newStatus); err != nil {
		return model.Bill{}, fmt.Errorf("applying payment: %w", err)
	}
	metrics.EntriesPosted.WithLabelValues("payables").Inc()

	bill.AmountPaid = newPaid
	bill.Status = newStatus
	return bill, nil
}

// deriveStatus maps accumulated payments to a bill status.
func deriveStatus(amount, paid decimal.Decimal) model.BillStatus {
	if model.WithinTolerance(paid, amount) {
		return model.BillPaid
	}
	if paid.IsPositive() {
		return model.BillPartial
	}
	return model.BillUnpaid
}

// CancelBill cancels a bill that has nothing paid against it. The journal
// entry from creation is left in place; cancellation is a payables-side
// state change only.
func (s *Service) CancelBill(billID string) error {
	bill, err := s.store.GetBill(billID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("bill %w", store.ErrNotFound)
		}
		return err
	}
	switch bill.Status {
	case model.BillPaid:
		return ErrHasPayments
	case model.BillCancelled:
		return fmt.Errorf("%w: bill is already cancelled", posting.ErrValidation)
	}
	if bill.AmountPaid.IsPositive() {
		return ErrHasPayments
	}

	ok, err := s.store.CancelBill(billID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrHasPayments
	}
	return nil
}

// GetBill returns a bill by ID.
func (s *Service) GetBill(billID string) (model.Bill, error) {
	return s.store.GetBill(billID)
}

// ListBills returns bills, optionally filtered by status.
func (s *Service) ListBills(status model.BillStatus) ([]model.Bill, error) {
	return s.store.ListBills(status)
}

// Payments returns the payments recorded against a bill.
func (s *Service) Payments(billID string) ([]model.BillPayment, error) {
	return s.store.ListBillPayments(billID)
}

// CreateVendor adds a vendor.
func (s *Service) CreateVendor(name, contact, email, phone string) (model.Vendor, error) {
	if name == "" {
		return model.Vendor{}, fmt.Errorf("%w: vendor name is required", posting.ErrValidation)
	}
	v := model.Vendor{
		ID:       uuid.NewString(),
		Name:     name,
		Contact:  contact,
		Email:    email,
		Phone:    phone,
		IsActive: true,
	}
	if err := s.store.InsertVendor(v); err != nil {
		return model.Vendor{}, err
	}
	return v, nil
}

// ListVendors returns all vendors.
func (s *Service) ListVendors() ([]model.Vendor, error) {
	return s.store.ListVendors()
}

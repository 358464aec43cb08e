package payables

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundbooks-dev/fundbooks/internal/model"
	"github.com/fundbooks-dev/fundbooks/internal/posting"
	"github.com/fundbooks-dev/fundbooks/internal/store"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	svc     *Service
	store   *store.Store
	cash    string
	expense string
	payable string
	fund    string
	vendor  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	f := &fixture{
		store:   st,
		cash:    uuid.NewString(),
		expense: uuid.NewString(),
		payable: uuid.NewString(),
		fund:    uuid.NewString(),
		vendor:  uuid.NewString(),
	}
	require.NoError(t, st.InsertAccount(model.Account{ID: f.cash, Number: "1010", Name: "Checking", Type: model.AccountTypeAsset, IsActive: true}))
	require.NoError(t, st.InsertAccount(model.Account{ID: f.expense, Number: "5020", Name: "Utilities", Type: model.AccountTypeExpense, IsActive: true}))
	require.NoError(t, st.InsertAccount(model.Account{ID: f.payable, Number: "2010", Name: "Accounts Payable", Type: model.AccountTypeLiability, IsActive: true}))
	require.NoError(t, st.InsertFund(model.Fund{ID: f.fund, Name: "General Fund"}))
	require.NoError(t, st.InsertVendor(model.Vendor{ID: f.vendor, Name: "City Power & Light", IsActive: true}))

	f.svc = NewService(st, posting.NewService(st, nil))
	return f
}

// lineFor returns the line posted to the given account.
func lineFor(lines []model.LedgerLine, accountID string) model.LedgerLine {
	for _, l := range lines {
		if l.AccountID == accountID {
			return l
		}
	}
	return model.LedgerLine{}
}

func (f *fixture) createBill(t *testing.T, amount string) model.Bill {
	t.Helper()
	bill, err := f.svc.CreateBill(CreateBillParams{
		VendorID:           f.vendor,
		FundID:             f.fund,
		ExpenseAccountID:   f.expense,
		LiabilityAccountID: f.payable,
		Amount:             dec(amount),
		InvoiceDate:        date(2025, 1, 10),
		DueDate:            date(2025, 2, 10),
		Description:        "January electric",
	})
	require.NoError(t, err)
	return bill
}

func TestCreateBill(t *testing.T) {
	f := newFixture(t)
	bill := f.createBill(t, "500.00")

	assert.Equal(t, model.BillUnpaid, bill.Status)
	assert.True(t, bill.AmountPaid.IsZero())

	// Creation books expense against liability.
	lines, err := f.store.GetLines(bill.JournalEntryID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.True(t, lineFor(lines, f.expense).Debit.Equal(dec("500.00")))
	assert.True(t, lineFor(lines, f.payable).Credit.Equal(dec("500.00")))
}

func TestCreateBill_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateBill(CreateBillParams{
		VendorID: f.vendor, FundID: f.fund,
		ExpenseAccountID: f.expense, LiabilityAccountID: f.payable,
		Amount:      dec("-10.00"),
		InvoiceDate: date(2025, 1, 10), DueDate: date(2025, 2, 10),
	})
	assert.ErrorIs(t, err, posting.ErrValidation)

	_, err = f.svc.CreateBill(CreateBillParams{
		VendorID: f.vendor, FundID: f.fund,
		ExpenseAccountID: f.expense, LiabilityAccountID: f.payable,
		Amount:      dec("10.00"),
		InvoiceDate: date(2025, 2, 10), DueDate: date(2025, 1, 10),
	})
	assert.ErrorIs(t, err, posting.ErrValidation)

	_, err = f.svc.CreateBill(CreateBillParams{
		VendorID: "missing", FundID: f.fund,
		ExpenseAccountID: f.expense, LiabilityAccountID: f.payable,
		Amount:      dec("10.00"),
		InvoiceDate: date(2025, 1, 10), DueDate: date(2025, 2, 10),
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPayBill_PartialThenFull(t *testing.T) {
	f := newFixture(t)
	bill := f.createBill(t, "500.00")

	bill, err := f.svc.PayBill(PayBillParams{
		BillID: bill.ID, Amount: dec("200.00"),
		PaymentDate: date(2025, 1, 20), CashAccountID: f.cash,
	})
	require.NoError(t, err)
	assert.Equal(t, model.BillPartial, bill.Status)
	assert.True(t, bill.RemainingBalance().Equal(dec("300.00")))

	bill, err = f.svc.PayBill(PayBillParams{
		BillID: bill.ID, Amount: dec("300.00"),
		PaymentDate: date(2025, 1, 25), CashAccountID: f.cash,
	})
	require.NoError(t, err)
	assert.Equal(t, model.BillPaid, bill.Status)
	assert.True(t, bill.RemainingBalance().IsZero())

	payments, err := f.svc.Payments(bill.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}

func TestPayBill_PaymentBooksLiabilityAgainstCash(t *testing.T) {
	f := newFixture(t)
	bill := f.createBill(t, "500.00")

	_, err := f.svc.PayBill(PayBillParams{
		BillID: bill.ID, Amount: dec("500.00"),
		PaymentDate: date(2025, 1, 20), CashAccountID: f.cash,
	})
	require.NoError(t, err)

	payments, err := f.svc.Payments(bill.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)

	lines, err := f.store.GetLines(payments[0].JournalEntryID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.True(t, lineFor(lines, f.payable).Debit.Equal(dec("500.00")))
	assert.True(t, lineFor(lines, f.cash).Credit.Equal(dec("500.00")))
}

func TestPayBill_Overpayment(t *testing.T) {
	f := newFixture(t)
	bill := f.createBill(t, "500.00")

	_, err := f.svc.PayBill(PayBillParams{
		BillID: bill.ID, Amount: dec("500.02"),
		PaymentDate: date(2025, 1, 20), CashAccountID: f.cash,
	})
	assert.ErrorIs(t, err, ErrOverpayment)
}

func TestPayBill_AlreadyPaid(t *testing.T) {
	f := newFixture(t)
	bill := f.createBill(t, "100.00")

	_, err := f.svc.PayBill(PayBillParams{
		BillID: bill.ID, Amount: dec("100.00"),
		PaymentDate: date(2025, 1, 20), CashAccountID: f.cash,
	})
	require.NoError(t, err)

	_, err = f.svc.PayBill(PayBillParams{
		BillID: bill.ID, Amount: dec("1.00"),
		PaymentDate: date(2025, 1, 21), CashAccountID: f.cash,
	})
	assert.ErrorIs(t, err, ErrBillPaidInFull)
}

func TestPayBill_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PayBill(PayBillParams{
		BillID: "missing", Amount: dec("1.00"),
		PaymentDate: date(2025, 1, 20), CashAccountID: f.cash,
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCancelBill(t *testing.T) {
	f := newFixture(t)
	bill := f.createBill(t, "500.00")

	require.NoError(t, f.svc.CancelBill(bill.ID))

	got, err := f.svc.GetBill(bill.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BillCancelled, got.Status)

	// A cancelled bill takes no payments.
	_, err = f.svc.PayBill(PayBillParams{
		BillID: bill.ID, Amount: dec("1.00"),
		PaymentDate: date(2025, 1, 20), CashAccountID: f.cash,
	})
	assert.ErrorIs(t, err, ErrBillCancelled)

	assert.ErrorIs(t, f.svc.CancelBill(bill.ID), posting.ErrValidation)
}

func TestCancelBill_RefusedOncePaid(t *testing.T) {
	f := newFixture(t)
	bill := f.createBill(t, "500.00")

	_, err := f.svc.PayBill(PayBillParams{
		BillID: bill.ID, Amount: dec("100.00"),
		PaymentDate: date(2025, 1, 20), CashAccountID: f.cash,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.CancelBill(bill.ID), ErrHasPayments)
}

func TestCreateVendor(t *testing.T) {
	f := newFixture(t)

	v, err := f.svc.CreateVendor("Plumber Co", "Sam", "sam@plumber.example", "555-0101")
	require.NoError(t, err)
	assert.NotEmpty(t, v.ID)
	assert.True(t, v.IsActive)

	_, err = f.svc.CreateVendor("", "", "", "")
	assert.ErrorIs(t, err, posting.ErrValidation)

	vendors, err := f.svc.ListVendors()
	require.NoError(t, err)
	assert.Len(t, vendors, 2)
}

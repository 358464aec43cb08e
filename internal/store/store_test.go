package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundbooks-dev/fundbooks/internal/model"
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

// chart holds the IDs of a minimal seeded chart of accounts.
type chart struct {
	cash    string
	expense string
	income  string
	payable string
	fund    string
}

func newTestStore(t *testing.T) (*Store, chart) {
	t.Helper()
	st, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	c := chart{
		cash:    uuid.NewString(),
		expense: uuid.NewString(),
		income:  uuid.NewString(),
		payable: uuid.NewString(),
		fund:    uuid.NewString(),
	}
	require.NoError(t, st.InsertAccount(model.Account{ID: c.cash, Number: "1010", Name: "Checking", Type: model.AccountTypeAsset, IsActive: true}))
	require.NoError(t, st.InsertAccount(model.Account{ID: c.expense, Number: "5020", Name: "Utilities", Type: model.AccountTypeExpense, IsActive: true}))
	require.NoError(t, st.InsertAccount(model.Account{ID: c.income, Number: "4010", Name: "Tithes & Offerings", Type: model.AccountTypeIncome, IsActive: true}))
	require.NoError(t, st.InsertAccount(model.Account{ID: c.payable, Number: "2010", Name: "Accounts Payable", Type: model.AccountTypeLiability, IsActive: true}))
	require.NoError(t, st.InsertFund(model.Fund{ID: c.fund, Name: "General Fund"}))
	return st, c
}

// postEntry inserts a simple debit/credit pair and returns the entry and
// line IDs.
func postEntry(t *testing.T, st *Store, c chart, on time.Time, description, amount string) (string, []string) {
	t.Helper()
	entryID := uuid.NewString()
	lines := []model.LedgerLine{
		{ID: uuid.NewString(), JournalEntryID: entryID, AccountID: c.expense, FundID: c.fund, Debit: dec(amount)},
		{ID: uuid.NewString(), JournalEntryID: entryID, AccountID: c.cash, FundID: c.fund, Credit: dec(amount)},
	}
	require.NoError(t, st.InsertEntry(model.JournalEntry{
		ID:          entryID,
		EntryDate:   on,
		Description: description,
	}, lines))
	return entryID, []string{lines[0].ID, lines[1].ID}
}

func TestAccountRoundTrip(t *testing.T) {
	st, _ := newTestStore(t)

	a := model.Account{
		ID:          uuid.NewString(),
		Number:      "1510",
		Name:        "Buildings",
		Type:        model.AccountTypeAsset,
		Description: "Church building and improvements",
		IsActive:    true,
	}
	require.NoError(t, st.InsertAccount(a))

	got, err := st.GetAccount(a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	byNumber, err := st.GetAccountByNumber("1510")
	require.NoError(t, err)
	assert.Equal(t, a.ID, byNumber.ID)
}

func TestAccountUpdate(t *testing.T) {
	st, c := newTestStore(t)

	a, err := st.GetAccount(c.cash)
	require.NoError(t, err)
	a.Name = "Operating Checking"
	a.IsActive = false
	require.NoError(t, st.UpdateAccount(a))

	got, err := st.GetAccount(c.cash)
	require.NoError(t, err)
	assert.Equal(t, "Operating Checking", got.Name)
	assert.False(t, got.IsActive)
}

func TestAccountNotFound(t *testing.T) {
	st, _ := newTestStore(t)

	_, err := st.GetAccount("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = st.UpdateAccount(model.Account{ID: "missing", Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccountNumberUnique(t *testing.T) {
	st, _ := newTestStore(t)

	err := st.InsertAccount(model.Account{ID: uuid.NewString(), Number: "1010", Name: "Dup", Type: model.AccountTypeAsset})
	assert.Error(t, err)
}

func TestListAccounts_OrderedByNumber(t *testing.T) {
	st, _ := newTestStore(t)

	accts, err := st.ListAccounts()
	require.NoError(t, err)
	require.Len(t, accts, 4)
	assert.Equal(t, "1010", accts[0].Number)
	assert.Equal(t, "5020", accts[3].Number)
}

func TestFundRoundTrip(t *testing.T) {
	st, c := newTestStore(t)

	f := model.Fund{
		ID:                uuid.NewString(),
		Name:              "Building Fund",
		Description:       "Capital campaign",
		IsRestricted:      true,
		NetAssetAccountID: c.payable, // any existing account satisfies the FK
	}
	require.NoError(t, st.InsertFund(f))

	got, err := st.GetFund(f.ID)
	require.NoError(t, err)
	assert.Equal(t, f, got)

	ok, err := st.FundExists(f.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFundWithoutNetAssetAccount(t *testing.T) {
	st, c := newTestStore(t)

	got, err := st.GetFund(c.fund)
	require.NoError(t, err)
	assert.Empty(t, got.NetAssetAccountID)
}

func TestVendorRoundTrip(t *testing.T) {
	st, _ := newTestStore(t)

	v := model.Vendor{
		ID:       uuid.NewString(),
		Name:     "City Power & Light",
		Contact:  "Billing Dept",
		Email:    "billing@citypower.example",
		Phone:    "555-0100",
		IsActive: true,
	}
	require.NoError(t, st.InsertVendor(v))

	got, err := st.GetVendor(v.ID)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	vendors, err := st.ListVendors()
	require.NoError(t, err)
	require.Len(t, vendors, 1)
}

package posting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundbooks-dev/fundbooks/internal/model"
)

// mockCatalog implements Catalog for testing.
type mockCatalog struct {
	accounts map[string]bool
	funds    map[string]bool
}

func newMockCatalog(accounts, funds []string) *mockCatalog {
	m := &mockCatalog{accounts: make(map[string]bool), funds: make(map[string]bool)}
	for _, a := range accounts {
		m.accounts[a] = true
	}
	for _, f := range funds {
		m.funds[f] = true
	}
	return m
}

func (m *mockCatalog) AccountExists(id string) (bool, error) { return m.accounts[id], nil }
func (m *mockCatalog) FundExists(id string) (bool, error)    { return m.funds[id], nil }

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

var defaultCatalog = newMockCatalog([]string{"cash", "expense"}, []string{"general"})

func balancedLines(amount string) []model.LineInput {
	return []model.LineInput{
		{AccountID: "expense", FundID: "general", Debit: dec(amount)},
		{AccountID: "cash", FundID: "general", Credit: dec(amount)},
	}
}

func TestValidateLines_Balanced(t *testing.T) {
	errs, err := ValidateLines(balancedLines("100.00"), defaultCatalog)
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestValidateLines_TooFewLines(t *testing.T) {
	errs, err := ValidateLines([]model.LineInput{
		{AccountID: "cash", FundID: "general", Debit: dec("50.00")},
	}, defaultCatalog)
	require.NoError(t, err)
	require.NotEmpty(t, errs)
	assert.Equal(t, 1, errs[0].Invariant)
}

func TestValidateLines_NegativeAmount(t *testing.T) {
	errs, err := ValidateLines([]model.LineInput{
		{AccountID: "expense", FundID: "general", Debit: dec("-10.00")},
		{AccountID: "cash", FundID: "general", Credit: dec("-10.00")},
	}, defaultCatalog)
	require.NoError(t, err)
	require.NotEmpty(t, errs)
	for _, e := range errs {
		assert.Equal(t, 2, e.Invariant)
	}
}

func TestValidateLines_TooManyDecimals(t *testing.T) {
	errs, err := ValidateLines([]model.LineInput{
		{AccountID: "expense", FundID: "general", Debit: dec("10.005")},
		{AccountID: "cash", FundID: "general", Credit: dec("10.005")},
	}, defaultCatalog)
	require.NoError(t, err)
	require.NotEmpty(t, errs)
	assert.Equal(t, 2, errs[0].Invariant)
}

func TestValidateLines_Unbalanced(t *testing.T) {
	errs, err := ValidateLines([]model.LineInput{
		{AccountID: "expense", FundID: "general", Debit: dec("100.00")},
		{AccountID: "cash", FundID: "general", Credit: dec("99.00")},
	}, defaultCatalog)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, 3, errs[0].Invariant)
	assert.Contains(t, errs[0].Description, "100.00")
}

func TestValidateLines_MultiLineSplit(t *testing.T) {
	errs, err := ValidateLines([]model.LineInput{
		{AccountID: "expense", FundID: "general", Debit: dec("33.33")},
		{AccountID: "expense", FundID: "general", Debit: dec("33.33")},
		{AccountID: "expense", FundID: "general", Debit: dec("33.33")},
		{AccountID: "cash", FundID: "general", Credit: dec("99.99")},
	}, defaultCatalog)
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestValidateLines_UnknownAccountAndFund(t *testing.T) {
	errs, err := ValidateLines([]model.LineInput{
		{AccountID: "nope", FundID: "general", Debit: dec("10.00")},
		{AccountID: "cash", FundID: "missing", Credit: dec("10.00")},
	}, defaultCatalog)
	require.NoError(t, err)
	require.Len(t, errs, 2)
	assert.Equal(t, 4, errs[0].Invariant)
	assert.Equal(t, 4, errs[1].Invariant)
}

func TestValidateLines_AllViolationsReported(t *testing.T) {
	errs, err := ValidateLines([]model.LineInput{
		{AccountID: "nope", FundID: "general", Debit: dec("-5.00")},
	}, defaultCatalog)
	require.NoError(t, err)
	// Too few lines, negative amount, unknown account, unbalanced.
	assert.Len(t, errs, 4)
}

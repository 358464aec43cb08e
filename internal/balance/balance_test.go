package balance

import (
	"testing"
	"time"

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

func debit(account string, typ model.AccountType, fund, amount string, on time.Time) model.JoinedLine {
	return model.JoinedLine{
		LedgerLine:  model.LedgerLine{AccountID: account, FundID: fund, Debit: dec(amount)},
		AccountType: typ,
		EntryDate:   on,
	}
}

func credit(account string, typ model.AccountType, fund, amount string, on time.Time) model.JoinedLine {
	return model.JoinedLine{
		LedgerLine:  model.LedgerLine{AccountID: account, FundID: fund, Credit: dec(amount)},
		AccountType: typ,
		EntryDate:   on,
	}
}

func TestAccountBalances_SignConventions(t *testing.T) {
	on := date(2025, 1, 15)
	lines := []model.JoinedLine{
		debit("cash", model.AccountTypeAsset, "general", "500.00", on),
		credit("income", model.AccountTypeIncome, "general", "500.00", on),
		debit("rent", model.AccountTypeExpense, "general", "200.00", on),
		credit("cash", model.AccountTypeAsset, "general", "200.00", on),
	}

	balances := AccountBalances(lines)
	assert.True(t, balances["cash"].Equal(dec("300.00")), "asset grows by debit, shrinks by credit")
	assert.True(t, balances["income"].Equal(dec("500.00")), "income grows by credit")
	assert.True(t, balances["rent"].Equal(dec("200.00")), "expense grows by debit")
}

func TestFundBalances_NetActivity(t *testing.T) {
	on := date(2025, 1, 15)
	lines := []model.JoinedLine{
		// A balanced gift entry contributes its amount exactly once: the
		// cash side is not fund activity.
		debit("cash", model.AccountTypeAsset, "general", "1000.00", on),
		credit("income", model.AccountTypeIncome, "general", "1000.00", on),
		// Spending reduces the fund.
		debit("rent", model.AccountTypeExpense, "general", "300.00", on),
		credit("cash", model.AccountTypeAsset, "general", "300.00", on),
		// Direct equity postings do not count either.
		credit("net-assets", model.AccountTypeEquity, "general", "9999.00", on),
	}

	balances := FundBalances(lines)
	assert.True(t, balances["general"].Equal(dec("700.00")), "income minus expenses")
}

func TestBuildBalanceSheet(t *testing.T) {
	accounts := []model.Account{
		{ID: "cash", Number: "1010", Name: "Checking", Type: model.AccountTypeAsset},
		{ID: "ap", Number: "2010", Name: "Accounts Payable", Type: model.AccountTypeLiability},
		{ID: "net-general", Number: "3010", Name: "General Fund Net Assets", Type: model.AccountTypeEquity},
	}
	funds := []model.Fund{
		{ID: "general", Name: "General Fund", NetAssetAccountID: "net-general"},
	}
	on := date(2025, 1, 15)
	lines := []model.JoinedLine{
		debit("cash", model.AccountTypeAsset, "general", "1000.00", on),
		credit("income", model.AccountTypeIncome, "general", "1000.00", on),
		debit("rent", model.AccountTypeExpense, "general", "300.00", on),
		credit("ap", model.AccountTypeLiability, "general", "300.00", on),
	}

	bs := BuildBalanceSheet(date(2025, 1, 31), accounts, funds, lines)

	require.Len(t, bs.Assets, 1)
	assert.True(t, bs.TotalAssets.Equal(dec("1000.00")))
	require.Len(t, bs.Liabilities, 1)
	assert.True(t, bs.TotalLiabilities.Equal(dec("300.00")))
	// The equity account has no direct postings; it carries the folded
	// fund balance (1000 income - 300 expense).
	require.Len(t, bs.NetAssets, 1)
	assert.Equal(t, "net-general", bs.NetAssets[0].AccountID)
	assert.True(t, bs.TotalNetAssets.Equal(dec("700.00")))
	assert.True(t, bs.IsBalanced)
}

func TestBuildBalanceSheet_OmitsZeroBalanceAccounts(t *testing.T) {
	accounts := []model.Account{
		{ID: "cash", Number: "1010", Name: "Checking", Type: model.AccountTypeAsset},
		{ID: "savings", Number: "1020", Name: "Savings", Type: model.AccountTypeAsset},
	}
	on := date(2025, 1, 15)
	lines := []model.JoinedLine{
		debit("cash", model.AccountTypeAsset, "general", "100.00", on),
	}

	bs := BuildBalanceSheet(date(2025, 1, 31), accounts, nil, lines)
	require.Len(t, bs.Assets, 1)
	assert.Equal(t, "cash", bs.Assets[0].AccountID)
}

func TestBuildIncomeStatement(t *testing.T) {
	accounts := []model.Account{
		{ID: "tithes", Number: "4010", Name: "Tithes & Offerings", Type: model.AccountTypeIncome},
		{ID: "rent", Number: "5030", Name: "Rent", Type: model.AccountTypeExpense},
	}
	lines := []model.JoinedLine{
		credit("tithes", model.AccountTypeIncome, "general", "2000.00", date(2025, 1, 5)),
		debit("rent", model.AccountTypeExpense, "general", "800.00", date(2025, 1, 20)),
		// Outside the period, ignored.
		credit("tithes", model.AccountTypeIncome, "general", "500.00", date(2024, 12, 28)),
		debit("rent", model.AccountTypeExpense, "general", "800.00", date(2025, 2, 1)),
	}

	is := BuildIncomeStatement(date(2025, 1, 1), date(2025, 1, 31), accounts, lines)
	assert.True(t, is.TotalIncome.Equal(dec("2000.00")))
	assert.True(t, is.TotalExpenses.Equal(dec("800.00")))
	assert.True(t, is.NetIncrease.Equal(dec("1200.00")))
}

func TestBuildFundSummary(t *testing.T) {
	fund := model.Fund{ID: "building", Name: "Building Fund", IsRestricted: true}
	lines := []model.JoinedLine{
		// Prior activity forms the beginning balance.
		credit("gifts", model.AccountTypeIncome, "building", "1500.00", date(2024, 11, 1)),
		debit("repairs", model.AccountTypeExpense, "building", "400.00", date(2024, 12, 15)),
		// Period activity.
		credit("gifts", model.AccountTypeIncome, "building", "600.00", date(2025, 1, 10)),
		debit("repairs", model.AccountTypeExpense, "building", "250.00", date(2025, 1, 20)),
		// Other fund, ignored.
		credit("gifts", model.AccountTypeIncome, "general", "999.00", date(2025, 1, 10)),
		// After the period, ignored.
		credit("gifts", model.AccountTypeIncome, "building", "100.00", date(2025, 2, 2)),
	}

	fs := BuildFundSummary(fund, date(2025, 1, 1), date(2025, 1, 31), lines)
	assert.True(t, fs.IsRestricted)
	assert.True(t, fs.BeginningBalance.Equal(dec("1100.00")))
	assert.True(t, fs.TotalIncome.Equal(dec("600.00")))
	assert.True(t, fs.TotalExpenses.Equal(dec("250.00")))
	assert.True(t, fs.EndingBalance.Equal(dec("1450.00")))
}

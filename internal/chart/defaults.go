// Package chart seeds and exchanges the chart of accounts. The default
// chart is shaped for a small church: cash and fixed-asset accounts,
// payables, per-fund net asset equity accounts, giving income, and the
// usual operating expenses.
package chart

import "github.com/fundbooks-dev/fundbooks/internal/model"

// DefaultAccounts returns the default church chart of accounts.
func DefaultAccounts() []model.Account {
	return []model.Account{
		{Number: "1010", Name: "Operating Checking", Type: model.AccountTypeAsset, Description: "Primary checking account"},
		{Number: "1020", Name: "Savings", Type: model.AccountTypeAsset, Description: "Savings account"},
		{Number: "1510", Name: "Buildings", Type: model.AccountTypeAsset, Description: "Buildings and improvements"},
		{Number: "1520", Name: "Equipment", Type: model.AccountTypeAsset, Description: "Furniture and equipment"},
		{Number: "1590", Name: "Accumulated Depreciation", Type: model.AccountTypeAsset, Description: "Contra-asset for depreciation taken"},
		{Number: "2010", Name: "Accounts Payable", Type: model.AccountTypeLiability, Description: "Unpaid vendor bills"},
		{Number: "3010", Name: "General Fund Net Assets", Type: model.AccountTypeEquity, Description: "Unrestricted net assets"},
		{Number: "3020", Name: "Building Fund Net Assets", Type: model.AccountTypeEquity, Description: "Restricted for building projects"},
		{Number: "3030", Name: "Missions Fund Net Assets", Type: model.AccountTypeEquity, Description: "Restricted for missions"},
		{Number: "4010", Name: "Tithes & Offerings", Type: model.AccountTypeIncome, Description: "General giving"},
		{Number: "4020", Name: "Designated Gifts", Type: model.AccountTypeIncome, Description: "Gifts restricted to a fund"},
		{Number: "4030", Name: "Other Income", Type: model.AccountTypeIncome},
		{Number: "5010", Name: "Salaries & Benefits", Type: model.AccountTypeExpense, Description: "Staff compensation"},
		{Number: "5020", Name: "Utilities", Type: model.AccountTypeExpense, Description: "Electric, water, gas, internet"},
		{Number: "5030", Name: "Building Maintenance", Type: model.AccountTypeExpense, Description: "Repairs and upkeep"},
		{Number: "5040", Name: "Office & Supplies", Type: model.AccountTypeExpense, Description: "Office supplies and printing"},
		{Number: "5050", Name: "Missions Support", Type: model.AccountTypeExpense, Description: "Missionary and outreach support"},
		{Number: "5090", Name: "Depreciation Expense", Type: model.AccountTypeExpense, Description: "Periodic depreciation charge"},
	}
}

// DefaultFundSpec pairs a fund with the equity account number its balance
// folds into on the balance sheet.
type DefaultFundSpec struct {
	Fund           model.Fund
	NetAssetNumber string
}

// DefaultFunds returns the default funds for a new ledger. The general
// fund is unrestricted; building and missions are donor-restricted.
func DefaultFunds() []DefaultFundSpec {
	return []DefaultFundSpec{
		{Fund: model.Fund{Name: "General Fund", Description: "Unrestricted operating fund"}, NetAssetNumber: "3010"},
		{Fund: model.Fund{Name: "Building Fund", Description: "Building projects and capital improvements", IsRestricted: true}, NetAssetNumber: "3020"},
		{Fund: model.Fund{Name: "Missions Fund", Description: "Missionary and outreach support", IsRestricted: true}, NetAssetNumber: "3030"},
	}
}

// Package balance derives account and fund balances, balance sheets,
// income statements, and fund summaries from ledger lines. Everything here
// is a read-only projection; the store is never mutated.
package balance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fundbooks-dev/fundbooks/internal/model"
)

// lineAmount returns a line's signed contribution under the normal-balance
// convention of its account type: debit-normal types grow by debit-credit,
// credit-normal types by credit-debit.
func lineAmount(l model.JoinedLine) decimal.Decimal {
	if l.AccountType.DebitNormal() {
		return l.Debit.Sub(l.Credit)
	}
	return l.Credit.Sub(l.Debit)
}

// AccountBalances aggregates lines into per-account balances.
func AccountBalances(lines []model.JoinedLine) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)
	for _, l := range lines {
		balances[l.AccountID] = balances[l.AccountID].Add(lineAmount(l))
	}
	return balances
}

// FundBalances aggregates lines into per-fund balances: accumulated income
// minus expenses. Only the activity side of each entry counts; the
// balance-sheet side of the same balanced entry would double the amount,
// and direct equity postings are not fund activity.
func FundBalances(lines []model.JoinedLine) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)
	for _, l := range lines {
		switch l.AccountType {
		case model.AccountTypeIncome:
			balances[l.FundID] = balances[l.FundID].Add(lineAmount(l))
		case model.AccountTypeExpense:
			balances[l.FundID] = balances[l.FundID].Sub(lineAmount(l))
		}
	}
	return balances
}

// AccountLine is one account's computed balance on a report.
type AccountLine struct {
	AccountID string          `json:"account_id"`
	Number    string          `json:"number"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
}

// BalanceSheet is the statement of financial position as of a date.
type BalanceSheet struct {
	AsOf             time.Time       `json:"as_of"`
	Assets           []AccountLine   `json:"assets"`
	Liabilities      []AccountLine   `json:"liabilities"`
	NetAssets        []AccountLine   `json:"net_assets"`
	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	TotalNetAssets   decimal.Decimal `json:"total_net_assets"`
	IsBalanced       bool            `json:"is_balanced"`
}

// BuildBalanceSheet partitions all lines since inception by account type,
// then folds each fund's computed balance into its mapped net-asset equity
// account so equity accounts with no direct postings still carry the
// aggregated fund balance.
func BuildBalanceSheet(asOf time.Time, accounts []model.Account, funds []model.Fund, lines []model.JoinedLine) BalanceSheet {
	acctBalances := AccountBalances(lines)
	fundBalances := FundBalances(lines)

	// Fold fund balances onto their net-asset equity accounts.
	equityTotals := make(map[string]decimal.Decimal)
	for id, bal := range acctBalances {
		equityTotals[id] = bal
	}
	for _, f := range funds {
		if f.NetAssetAccountID == "" {
			continue
		}
		equityTotals[f.NetAssetAccountID] = equityTotals[f.NetAssetAccountID].Add(fundBalances[f.ID])
	}

	bs := BalanceSheet{AsOf: asOf}
	for _, a := range accounts {
		switch a.Type {
		case model.AccountTypeAsset:
			bal := acctBalances[a.ID]
			if !bal.IsZero() {
				bs.Assets = append(bs.Assets, AccountLine{AccountID: a.ID, Number: a.Number, Name: a.Name, Balance: bal})
			}
			bs.TotalAssets = bs.TotalAssets.Add(bal)
		case model.AccountTypeLiability:
			bal := acctBalances[a.ID]
			if !bal.IsZero() {
				bs.Liabilities = append(bs.Liabilities, AccountLine{AccountID: a.ID, Number: a.Number, Name: a.Name, Balance: bal})
			}
			bs.TotalLiabilities = bs.TotalLiabilities.Add(bal)
		case model.AccountTypeEquity:
			bal := equityTotals[a.ID]
			if !bal.IsZero() {
				bs.NetAssets = append(bs.NetAssets, AccountLine{AccountID: a.ID, Number: a.Number, Name: a.Name, Balance: bal})
			}
			bs.TotalNetAssets = bs.TotalNetAssets.Add(bal)
		}
	}

	bs.IsBalanced = model.WithinTolerance(bs.TotalAssets, bs.TotalLiabilities.Add(bs.TotalNetAssets))
	return bs
}

// IncomeStatement is the statement of activities for a period.
type IncomeStatement struct {
	PeriodStart   time.Time       `json:"period_start"`
	PeriodEnd     time.Time       `json:"period_end"`
	Income        []AccountLine   `json:"income"`
	Expenses      []AccountLine   `json:"expenses"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetIncrease   decimal.Decimal `json:"net_increase"`
}

// BuildIncomeStatement restricts lines to the period and sums income as
// credit-debit and expenses as debit-credit.
func BuildIncomeStatement(periodStart, periodEnd time.Time, accounts []model.Account, lines []model.JoinedLine) IncomeStatement {
	inPeriod := filterPeriod(lines, periodStart, periodEnd)
	acctBalances := AccountBalances(inPeriod)

	is := IncomeStatement{PeriodStart: periodStart, PeriodEnd: periodEnd}
	for _, a := range accounts {
		switch a.Type {
		case model.AccountTypeIncome:
			bal := acctBalances[a.ID]
			if !bal.IsZero() {
				is.Income = append(is.Income, AccountLine{AccountID: a.ID, Number: a.Number, Name: a.Name, Balance: bal})
			}
			is.TotalIncome = is.TotalIncome.Add(bal)
		case model.AccountTypeExpense:
			bal := acctBalances[a.ID]
			if !bal.IsZero() {
				is.Expenses = append(is.Expenses, AccountLine{AccountID: a.ID, Number: a.Number, Name: a.Name, Balance: bal})
			}
			is.TotalExpenses = is.TotalExpenses.Add(bal)
		}
	}

	is.NetIncrease = is.TotalIncome.Sub(is.TotalExpenses)
	return is
}

// FundSummary is one fund's activity over a period.
type FundSummary struct {
	FundID           string          `json:"fund_id"`
	FundName         string          `json:"fund_name"`
	IsRestricted     bool            `json:"is_restricted"`
	PeriodStart      time.Time       `json:"period_start"`
	PeriodEnd        time.Time       `json:"period_end"`
	BeginningBalance decimal.Decimal `json:"beginning_balance"`
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	EndingBalance    decimal.Decimal `json:"ending_balance"`
}

// BuildFundSummary computes a fund's beginning balance (income minus
// expenses over all lines dated strictly before the period), period income
// and expenses, and the derived ending balance. Only income and expense
// lines count toward fund activity.
func BuildFundSummary(fund model.Fund, periodStart, periodEnd time.Time, lines []model.JoinedLine) FundSummary {
	fs := FundSummary{
		FundID:       fund.ID,
		FundName:     fund.Name,
		IsRestricted: fund.IsRestricted,
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
	}

	for _, l := range lines {
		if l.FundID != fund.ID || l.EntryDate.After(periodEnd) {
			continue
		}
		switch l.AccountType {
		case model.AccountTypeIncome:
			if l.EntryDate.Before(periodStart) {
				fs.BeginningBalance = fs.BeginningBalance.Add(lineAmount(l))
			} else {
				fs.TotalIncome = fs.TotalIncome.Add(lineAmount(l))
			}
		case model.AccountTypeExpense:
			if l.EntryDate.Before(periodStart) {
				fs.BeginningBalance = fs.BeginningBalance.Sub(lineAmount(l))
			} else {
				fs.TotalExpenses = fs.TotalExpenses.Add(lineAmount(l))
			}
		}
	}

	fs.EndingBalance = fs.BeginningBalance.Add(fs.TotalIncome).Sub(fs.TotalExpenses)
	return fs
}

func filterPeriod(lines []model.JoinedLine, start, end time.Time) []model.JoinedLine {
	var out []model.JoinedLine
	for _, l := range lines {
		if l.EntryDate.Before(start) || l.EntryDate.After(end) {
			continue
		}
		out = append(out, l)
	}
	return out
}

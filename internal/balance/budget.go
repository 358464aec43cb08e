package balance

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProrateAnnual spreads an annual budgeted amount linearly over a period:
// annual * daysInPeriod / daysInYear, rounded to 2 decimals. The year is
// the one containing the period start.
func ProrateAnnual(annual decimal.Decimal, periodStart, periodEnd time.Time) decimal.Decimal {
	days := periodEnd.Sub(periodStart).Hours()/24 + 1
	if days <= 0 {
		return decimal.Zero
	}
	yearDays := 365
	if isLeapYear(periodStart.Year()) {
		yearDays = 366
	}
	return annual.Mul(decimal.NewFromFloat(days)).
		Div(decimal.NewFromInt(int64(yearDays))).Round(2)
}

// MonthlyBudget returns the fixed 1/12 share of an annual amount.
func MonthlyBudget(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(decimal.NewFromInt(12)).Round(2)
}

// QuarterlyBudget returns the fixed 1/4 share of an annual amount.
func QuarterlyBudget(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(decimal.NewFromInt(4)).Round(2)
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

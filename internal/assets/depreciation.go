package assets

import (
	"github.com/shopspring/decimal"

	"github.com/fundbooks-dev/fundbooks/internal/model"
)

// Calculation is the result of a depreciation calculation.
type Calculation struct {
	Amount             decimal.Decimal
	MonthlyAmount      decimal.Decimal
	IsFullyDepreciated bool
}

// Calculate computes straight-line depreciation for months periods:
// (purchase - salvage) / life years / 12 per month, clamped so accumulated
// depreciation never exceeds the depreciable amount, rounded to 2 decimals.
func Calculate(asset model.FixedAsset, months int) Calculation {
	depreciable := asset.DepreciableAmount()
	if asset.EstimatedLifeYears <= 0 || !depreciable.IsPositive() {
		return Calculation{IsFullyDepreciated: true}
	}

	monthly := depreciable.
		Div(decimal.NewFromInt(int64(asset.EstimatedLifeYears))).
		Div(decimal.NewFromInt(12))

	remaining := depreciable.Sub(asset.AccumulatedDepreciation)
	if !remaining.IsPositive() {
		return Calculation{MonthlyAmount: monthly.Round(2), IsFullyDepreciated: true}
	}

	amount := monthly.Mul(decimal.NewFromInt(int64(months)))
	if amount.GreaterThan(remaining) {
		amount = remaining
	}
	amount = amount.Round(2)

	return Calculation{
		Amount:             amount,
		MonthlyAmount:      monthly.Round(2),
		IsFullyDepreciated: asset.AccumulatedDepreciation.Add(amount).GreaterThanOrEqual(depreciable),
	}
}

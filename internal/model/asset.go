package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetStatus is the lifecycle state of a fixed asset.
type AssetStatus string

const (
	AssetActive           AssetStatus = "active"
	AssetFullyDepreciated AssetStatus = "fully_depreciated"
	AssetDisposed         AssetStatus = "disposed"
)

// DepreciationMethod selects the depreciation calculation. Straight-line is
// the only method implemented.
type DepreciationMethod string

const MethodStraightLine DepreciationMethod = "straight_line"

// FixedAsset is a capitalized asset subject to periodic depreciation.
// AccumulatedDepreciation is monotonically non-decreasing while active and
// capped at PurchasePrice - SalvageValue.
type FixedAsset struct {
	ID                      string
	Name                    string
	PurchasePrice           decimal.Decimal
	SalvageValue            decimal.Decimal
	EstimatedLifeYears      int
	Method                  DepreciationMethod
	AccumulatedDepreciation decimal.Decimal
	Status                  AssetStatus
	AssetAccountID          string
	AccumDepreciationAcctID string
	DepreciationExpenseAcct string
	FundID                  string
	DepreciationStartDate   time.Time
	LastDepreciationDate    *time.Time
}

// DepreciableAmount returns purchase price - salvage value.
func (a FixedAsset) DepreciableAmount() decimal.Decimal {
	return a.PurchasePrice.Sub(a.SalvageValue)
}

// BookValue returns purchase price - accumulated depreciation.
func (a FixedAsset) BookValue() decimal.Decimal {
	return a.PurchasePrice.Sub(a.AccumulatedDepreciation)
}

// DepreciationScheduleEntry is one append-only audit row per depreciation
// run.
type DepreciationScheduleEntry struct {
	ID             string
	AssetID        string
	JournalEntryID string
	PeriodStart    time.Time
	PeriodEnd      time.Time
	Amount         decimal.Decimal
	Accumulated    decimal.Decimal
	BeginningValue decimal.Decimal
	EndingValue    decimal.Decimal
}

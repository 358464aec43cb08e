// Package assets manages fixed assets: straight-line depreciation runs,
// batch processing, and disposal, all booked through the posting engine.
package assets

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
	// ErrFullyDepreciated is returned when recording depreciation on an
	// asset that has none left to take.
	ErrFullyDepreciated = errors.New("asset is already fully depreciated")
	// ErrDisposed is returned when operating on a disposed asset.
	ErrDisposed = errors.New("asset has been disposed")
)

// Service drives asset lifecycle operations.
type Service struct {
	store   *store.Store
	posting *posting.Service
}

// NewService creates an assets Service.
func NewService(st *store.Store, ps *posting.Service) *Service {
	return &Service{store: st, posting: ps}
}

// CreateAssetParams holds parameters for registering a fixed asset.
type CreateAssetParams struct {
	Name                    string
	PurchasePrice           decimal.Decimal
	SalvageValue            decimal.Decimal
	EstimatedLifeYears      int
	AssetAccountID          string
	AccumDepreciationAcctID string
	DepreciationExpenseAcct string
	FundID                  string
	DepreciationStartDate   time.Time
}

// CreateAsset registers a fixed asset.
func (s *Service) CreateAsset(p CreateAssetParams) (model.FixedAsset, error) {
	if !p.PurchasePrice.IsPositive() {
		return model.FixedAsset{}, fmt.Errorf("%w: purchase price must be positive", posting.ErrValidation)
	}
	if p.SalvageValue.IsNegative() || p.SalvageValue.GreaterThan(p.PurchasePrice) {
		return model.FixedAsset{}, fmt.Errorf("%w: salvage value must be between 0 and purchase price", posting.ErrValidation)
	}
	if p.EstimatedLifeYears <= 0 {
		return model.FixedAsset{}, fmt.Errorf("%w: estimated life must be at least 1 year", posting.ErrValidation)
	}

	asset := model.FixedAsset{
		ID:                      uuid.NewString(),
		Name:                    p.Name,
		PurchasePrice:           p.PurchasePrice,
		SalvageValue:            p.SalvageValue,
		EstimatedLifeYears:      p.EstimatedLifeYears,
		Method:                  model.MethodStraightLine,
		AccumulatedDepreciation: decimal.Zero,
		Status:                  model.AssetActive,
		AssetAccountID:          p.AssetAccountID,
		AccumDepreciationAcctID: p.AccumDepreciationAcctID,
		DepreciationExpenseAcct: p.DepreciationExpenseAcct,
		FundID:                  p.FundID,
		DepreciationStartDate:   p.DepreciationStartDate,
	}
	if err := s.store.InsertAsset(asset); err != nil {
		return model.FixedAsset{}, err
	}
	return asset, nil
}

// RecordDepreciation books one month of depreciation dated asOf: debit
// depreciation expense, credit accumulated depreciation, plus an
// append-only schedule row. The period bounds are the calendar month
// containing asOf.
func (s *Service) RecordDepreciation(assetID string, asOf time.Time) (model.DepreciationScheduleEntry, error) {
	asset, err := s.store.GetAsset(assetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.DepreciationScheduleEntry{}, fmt.Errorf("asset %w", store.ErrNotFound)
		}
		return model.DepreciationScheduleEntry{}, err
	}
	if asset.Status == model.AssetDisposed {
		return model.DepreciationScheduleEntry{}, ErrDisposed
	}

	calc := Calculate(asset, 1)
	if !calc.Amount.IsPositive() {
		return model.DepreciationScheduleEntry{}, ErrFullyDepreciated
	}

	desc := fmt.Sprintf("Depreciation: %s (%s)", asset.Name, asOf.Format("2006-01"))
	entry, lines, err := s.posting.Build(model.EntryInput{
		EntryDate:   asOf,
		Description: desc,
	}, []model.LineInput{
		{AccountID: asset.DepreciationExpenseAcct, FundID: asset.FundID, Debit: calc.Amount, Memo: desc},
		{AccountID: asset.AccumDepreciationAcctID, FundID: asset.FundID, Credit: calc.Amount, Memo: desc},
	})
	if err != nil {
		return model.DepreciationScheduleEntry{}, fmt.Errorf("building depreciation entry: %w", err)
	}

	newAccum := asset.AccumulatedDepreciation.Add(calc.Amount)
	newStatus := asset.Status
	if calc.IsFullyDepreciated {
		newStatus = model.AssetFullyDepreciated
	}

	periodStart := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, -1)

	sched := model.DepreciationScheduleEntry{
		ID:             uuid.NewString(),
		AssetID:        asset.ID,
		JournalEntryID: entry.ID,
		PeriodStart:    periodStart,
		PeriodEnd:      periodEnd,
		Amount:         calc.Amount,
		Accumulated:    newAccum,
		BeginningValue: asset.BookValue(),
		EndingValue:    asset.PurchasePrice.Sub(newAccum),
	}

	if err := s.store.ApplyDepreciation(entry, lines, sched, newAccum.StringFixed(2), newStatus, asOf); err != nil {
		return model.DepreciationScheduleEntry{}, fmt.Errorf("applying depreciation: %w", err)
	}
	metrics.EntriesPosted.WithLabelValues("assets").Inc()
	return sched, nil
}

// BatchResult summarizes a ProcessAll run.
type BatchResult struct {
	Processed int            `json:"processed"`
	Skipped   int            `json:"skipped"`
	Failed    int            `json:"failed"`
	Details   []BatchOutcome `json:"details"`
}

// BatchOutcome is one asset's outcome within a batch run.
type BatchOutcome struct {
	AssetID string          `json:"asset_id"`
	Name    string          `json:"name"`
	Outcome string          `json:"outcome"` // processed, skipped, failed
	Amount  decimal.Decimal `json:"amount,omitempty"`
	Reason  string          `json:"reason,omitempty"`
}

// ProcessAll runs depreciation for every active asset. Assets whose start
// date is in the future or that have nothing left to depreciate are
// skipped; one asset's failure does not stop the rest.
func (s *Service) ProcessAll(asOf time.Time) (BatchResult, error) {
	assets, err := s.store.ListAssets(model.AssetActive)
	if err != nil {
		return BatchResult{}, err
	}

	var result BatchResult
	for _, asset := range assets {
		if asset.DepreciationStartDate.After(asOf) {
			result.Skipped++
			metrics.BatchItems.WithLabelValues("depreciation", "skipped").Inc()
			result.Details = append(result.Details, BatchOutcome{
				AssetID: asset.ID, Name: asset.Name, Outcome: "skipped",
				Reason: "depreciation has not started",
			})
			continue
		}
		if !Calculate(asset, 1).Amount.IsPositive() {
			result.Skipped++
			metrics.BatchItems.WithLabelValues("depreciation", "skipped").Inc()
			result.Details = append(result.Details, BatchOutcome{
				AssetID: asset.ID, Name: asset.Name, Outcome: "skipped",
				Reason: "fully depreciated",
			})
			continue
		}

		sched, err := s.RecordDepreciation(asset.ID, asOf)
		if err != nil {
			result.Failed++
			metrics.BatchItems.WithLabelValues("depreciation", "failed").Inc()
			result.Details = append(result.Details, BatchOutcome{
				AssetID: asset.ID, Name: asset.Name, Outcome: "failed", Reason: err.Error(),
			})
			continue
		}
		result.Processed++
		metrics.BatchItems.WithLabelValues("depreciation", "processed").Inc()
		result.Details = append(result.Details, BatchOutcome{
			AssetID: asset.ID, Name: asset.Name, Outcome: "processed", Amount: sched.Amount,
		})
	}
	return result, nil
}

// DisposeParams holds parameters for disposing of an asset.
type DisposeParams struct {
	AssetID           string
	DisposalPrice     decimal.Decimal
	DisposalDate      time.Time
	ProceedsAccountID string // cash/receivable account debited with the proceeds
	GainLossAccountID string // optional; falls back to the asset account
}

// DisposalResult reports the book value and gain or loss on disposal.
type DisposalResult struct {
	Asset     model.FixedAsset `json:"asset"`
	BookValue decimal.Decimal  `json:"book_value"`
	GainLoss  decimal.Decimal  `json:"gain_loss"`
}

// Dispose writes an asset off the books: accumulated depreciation is
// removed (debit), the asset account is credited for the purchase price,
// proceeds are debited to the proceeds account, and the difference lands on
// the gain/loss account.
func (s *Service) Dispose(p DisposeParams) (DisposalResult, error) {
	asset, err := s.store.GetAsset(p.AssetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return DisposalResult{}, fmt.Errorf("asset %w", store.ErrNotFound)
		}
		return DisposalResult{}, err
	}
	if asset.Status == model.AssetDisposed {
		return DisposalResult{}, ErrDisposed
	}
	if p.DisposalPrice.IsNegative() {
		return DisposalResult{}, fmt.Errorf("%w: disposal price must be non-negative", posting.ErrValidation)
	}
	if p.DisposalPrice.IsPositive() && p.ProceedsAccountID == "" {
		return DisposalResult{}, fmt.Errorf("%w: proceeds account is required when disposal price is positive", posting.ErrValidation)
	}

	bookValue := asset.BookValue()
	gainLoss := p.DisposalPrice.Sub(bookValue)

	gainLossAcct := p.GainLossAccountID
	if gainLossAcct == "" {
		gainLossAcct = asset.AssetAccountID
	}

	desc := "Disposal: " + asset.Name
	lines := []model.LineInput{
		{AccountID: asset.AssetAccountID, FundID: asset.FundID, Credit: asset.PurchasePrice, Memo: desc},
	}
	if asset.AccumulatedDepreciation.IsPositive() {
		lines = append(lines, model.LineInput{
			AccountID: asset.AccumDepreciationAcctID, FundID: asset.FundID,
			Debit: asset.AccumulatedDepreciation, Memo: desc,
		})
	}
	if p.DisposalPrice.IsPositive() {
		lines = append(lines, model.LineInput{
			AccountID: p.ProceedsAccountID, FundID: asset.FundID,
			Debit: p.DisposalPrice, Memo: desc,
		})
	}
	switch {
	case gainLoss.IsPositive():
		lines = append(lines, model.LineInput{
			AccountID: gainLossAcct, FundID: asset.FundID, Credit: gainLoss,
			Memo: "Gain on disposal: " + asset.Name,
		})
	case gainLoss.IsNegative():
		lines = append(lines, model.LineInput{
			AccountID: gainLossAcct, FundID: asset.FundID, Debit: gainLoss.Neg(),
			Memo: "Loss on disposal: " + asset.Name,
		})
	}

	entry, ledgerLines, err := s.posting.Build(model.EntryInput{
		EntryDate:   p.DisposalDate,
		Description: desc,
	}, lines)
	if err != nil {
		return DisposalResult{}, fmt.Errorf("building disposal entry: %w", err)
	}

	if err := s.store.ApplyDisposal(entry, ledgerLines, asset.ID); err != nil {
		return DisposalResult{}, fmt.Errorf("applying disposal: %w", err)
	}
	metrics.EntriesPosted.WithLabelValues("assets").Inc()

	asset.Status = model.AssetDisposed
	return DisposalResult{Asset: asset, BookValue: bookValue, GainLoss: gainLoss}, nil
}

// GetAsset returns a fixed asset by ID.
func (s *Service) GetAsset(id string) (model.FixedAsset, error) {
	return s.store.GetAsset(id)
}

// ListAssets returns assets, optionally filtered by status.
func (s *Service) ListAssets(status model.AssetStatus) ([]model.FixedAsset, error) {
	return s.store.ListAssets(status)
}

// Schedule returns the depreciation audit rows for an asset.
func (s *Service) Schedule(assetID string) ([]model.DepreciationScheduleEntry, error) {
	return s.store.ListSchedule(assetID)
}

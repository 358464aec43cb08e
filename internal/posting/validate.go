package posting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fundbooks-dev/fundbooks/internal/model"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d: %s", e.Invariant, e.Description)
}

// Catalog answers existence checks against the chart of accounts and funds.
type Catalog interface {
	AccountExists(id string) (bool, error)
	FundExists(id string) (bool, error)
}

// ValidateLines enforces the posting invariants on a prospective entry:
//
//	1. At least two lines.
//	2. All amounts non-negative, at most 2 decimal places.
//	3. Sum of debits equals sum of credits within 0.01.
//	4. Every referenced account and fund exists.
//
// All violations are reported, not just the first. A store failure during
// the existence checks is returned separately.
func ValidateLines(lines []model.LineInput, catalog Catalog) ([]ValidationError, error) {
	var errs []ValidationError

	if len(lines) < 2 {
		errs = append(errs, ValidationError{
			Invariant:   1,
			Description: fmt.Sprintf("journal entry needs at least 2 lines, got %d", len(lines)),
		})
	}

	hundred := decimal.NewFromInt(100)
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i, l := range lines {
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			errs = append(errs, ValidationError{
				Invariant:   2,
				Description: fmt.Sprintf("line %d: amounts must be non-negative", i+1),
			})
		}
		if !l.Debit.Mul(hundred).Equal(l.Debit.Mul(hundred).Floor()) ||
			!l.Credit.Mul(hundred).Equal(l.Credit.Mul(hundred).Floor()) {
			errs = append(errs, ValidationError{
				Invariant:   2,
				Description: fmt.Sprintf("line %d: amounts must have at most 2 decimal places", i+1),
			})
		}
		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)

		ok, err := catalog.AccountExists(l.AccountID)
		if err != nil {
			return nil, fmt.Errorf("checking account: %w", err)
		}
		if !ok {
			errs = append(errs, ValidationError{
				Invariant:   4,
				Description: fmt.Sprintf("line %d: unknown account %s", i+1, l.AccountID),
			})
		}
		ok, err = catalog.FundExists(l.FundID)
		if err != nil {
			return nil, fmt.Errorf("checking fund: %w", err)
		}
		if !ok {
			errs = append(errs, ValidationError{
				Invariant:   4,
				Description: fmt.Sprintf("line %d: unknown fund %s", i+1, l.FundID),
			})
		}
	}

	if !model.WithinTolerance(totalDebit, totalCredit) {
		errs = append(errs, ValidationError{
			Invariant: 3,
			Description: fmt.Sprintf("debits (%s) != credits (%s)",
				totalDebit.StringFixed(2), totalCredit.StringFixed(2)),
		})
	}

	return errs, nil
}

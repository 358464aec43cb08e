package balance

import (
	"fmt"
	"time"

	"github.com/fundbooks-dev/fundbooks/internal/store"
)

// Service binds the projection functions to the ledger store.
type Service struct {
	store *store.Store
}

// NewService creates a balance Service.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// BalanceSheet builds the statement of financial position from all
// non-voided lines since inception.
func (s *Service) BalanceSheet(asOf time.Time) (BalanceSheet, error) {
	accounts, err := s.store.ListAccounts()
	if err != nil {
		return BalanceSheet{}, err
	}
	funds, err := s.store.ListFunds()
	if err != nil {
		return BalanceSheet{}, err
	}
	lines, err := s.store.JoinedLines(store.LineFilter{To: asOf})
	if err != nil {
		return BalanceSheet{}, err
	}
	return BuildBalanceSheet(asOf, accounts, funds, lines), nil
}

// IncomeStatement builds the statement of activities for a period.
func (s *Service) IncomeStatement(periodStart, periodEnd time.Time) (IncomeStatement, error) {
	accounts, err := s.store.ListAccounts()
	if err != nil {
		return IncomeStatement{}, err
	}
	lines, err := s.store.JoinedLines(store.LineFilter{From: periodStart, To: periodEnd})
	if err != nil {
		return IncomeStatement{}, err
	}
	return BuildIncomeStatement(periodStart, periodEnd, accounts, lines), nil
}

// FundSummary builds one fund's period summary.
func (s *Service) FundSummary(fundID string, periodStart, periodEnd time.Time) (FundSummary, error) {
	fund, err := s.store.GetFund(fundID)
	if err != nil {
		return FundSummary{}, fmt.Errorf("loading fund: %w", err)
	}
	lines, err := s.store.JoinedLines(store.LineFilter{FundID: fundID, To: periodEnd})
	if err != nil {
		return FundSummary{}, err
	}
	return BuildFundSummary(fund, periodStart, periodEnd, lines), nil
}

// AllFundSummaries builds summaries for every fund over a period.
func (s *Service) AllFundSummaries(periodStart, periodEnd time.Time) ([]FundSummary, error) {
	funds, err := s.store.ListFunds()
	if err != nil {
		return nil, err
	}
	summaries := make([]FundSummary, 0, len(funds))
	for _, f := range funds {
		fs, err := s.FundSummary(f.ID, periodStart, periodEnd)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, fs)
	}
	return summaries, nil
}

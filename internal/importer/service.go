package importer

import (
	"fmt"
	"os"

	"github.com/fundbooks-dev/fundbooks/internal/model"
	"github.com/fundbooks-dev/fundbooks/internal/posting"
	"github.com/fundbooks-dev/fundbooks/internal/store"
)

// Service books parsed bank transactions into the ledger.
type Service struct {
	store    *store.Store
	posting  *posting.Service
	registry *Registry
}

// NewService creates an importer Service.
func NewService(st *store.Store, ps *posting.Service, reg *Registry) *Service {
	return &Service{store: st, posting: ps, registry: reg}
}

// Accounts selects where imported transactions are booked.
type Accounts struct {
	CashAccountID    string // bank account the statement belongs to
	ExpenseAccountID string // default expense account for money out
	IncomeAccountID  string // default income account for money in
	FundID           string
}

// Result summarizes an import run.
type Result struct {
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
	Failed     int `json:"failed"`
}

// ImportFile parses one CSV with the named format and books each
// transaction: money out as debit expense / credit cash, money in as debit
// cash / credit income. Rows matching an existing entry (same date,
// description substring, exact amount on either side) are skipped as
// duplicates.
func (s *Service) ImportFile(path, format string, accts Accounts) (Result, error) {
	parser := s.registry.Get(format)
	if parser == nil {
		return Result{}, fmt.Errorf("unknown import format %q", format)
	}

	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	txns, err := parser.Parse(f)
	if err != nil {
		return Result{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	var result Result
	for _, txn := range txns {
		dup, err := s.store.FindDuplicateEntry(txn.Date, txn.Description, txn.Amount.Abs().StringFixed(2))
		if err != nil {
			return result, err
		}
		if dup {
			result.Duplicates++
			continue
		}
		if err := s.book(txn, accts); err != nil {
			result.Failed++
			continue
		}
		result.Imported++
	}
	return result, nil
}

func (s *Service) book(txn model.BankTransaction, accts Accounts) error {
	amount := txn.Amount.Abs()
	header := model.EntryInput{
		EntryDate:       txn.Date,
		Description:     txn.Description,
		ReferenceNumber: txn.Reference,
	}

	var lines []model.LineInput
	if txn.Amount.IsNegative() {
		lines = []model.LineInput{
			{AccountID: accts.ExpenseAccountID, FundID: accts.FundID, Debit: amount, Memo: txn.Description},
			{AccountID: accts.CashAccountID, FundID: accts.FundID, Credit: amount, Memo: txn.Description},
		}
	} else {
		lines = []model.LineInput{
			{AccountID: accts.CashAccountID, FundID: accts.FundID, Debit: amount, Memo: txn.Description},
			{AccountID: accts.IncomeAccountID, FundID: accts.FundID, Credit: amount, Memo: txn.Description},
		}
	}

	_, err := s.posting.Post(header, lines)
	return err
}

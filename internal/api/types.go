package api

import (
	"time"

	"github.com/fundbooks-dev/fundbooks/internal/model"
)

const dateFormat = "2006-01-02"

// Wire shapes. Amounts are fixed two-decimal strings and dates are
// YYYY-MM-DD.

type accountJSON struct {
	ID          string `json:"id"`
	Number      string `json:"number"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
}

func toAccountJSON(a model.Account) accountJSON {
	return accountJSON{
		ID:          a.ID,
		Number:      a.Number,
		Name:        a.Name,
		Type:        string(a.Type),
		Description: a.Description,
		IsActive:    a.IsActive,
	}
}

type fundJSON struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	IsRestricted      bool   `json:"is_restricted"`
	NetAssetAccountID string `json:"net_asset_account_id,omitempty"`
}

func toFundJSON(f model.Fund) fundJSON {
	return fundJSON{
		ID:                f.ID,
		Name:              f.Name,
		Description:       f.Description,
		IsRestricted:      f.IsRestricted,
		NetAssetAccountID: f.NetAssetAccountID,
	}
}

type lineJSON struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
	FundID    string `json:"fund_id"`
	Debit     string `json:"debit"`
	Credit    string `json:"credit"`
	Memo      string `json:"memo,omitempty"`
}

type entryJSON struct {
	ID              string     `json:"id"`
	EntryDate       string     `json:"entry_date"`
	Description     string     `json:"description"`
	ReferenceNumber string     `json:"reference_number"`
	IsVoided        bool       `json:"is_voided"`
	VoidedReason    string     `json:"voided_reason,omitempty"`
	Lines           []lineJSON `json:"lines,omitempty"`
}

func toEntryJSON(e model.JournalEntry, lines []model.LedgerLine) entryJSON {
	out := entryJSON{
		ID:              e.ID,
		EntryDate:       e.EntryDate.Format(dateFormat),
		Description:     e.Description,
		ReferenceNumber: e.ReferenceNumber,
		IsVoided:        e.IsVoided,
		VoidedReason:    e.VoidedReason,
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, lineJSON{
			ID:        l.ID,
			AccountID: l.AccountID,
			FundID:    l.FundID,
			Debit:     l.Debit.StringFixed(2),
			Credit:    l.Credit.StringFixed(2),
			Memo:      l.Memo,
		})
	}
	return out
}

type vendorJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Contact  string `json:"contact,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	IsActive bool   `json:"is_active"`
}

func toVendorJSON(v model.Vendor) vendorJSON {
	return vendorJSON{
		ID:       v.ID,
		Name:     v.Name,
		Contact:  v.Contact,
		Email:    v.Email,
		Phone:    v.Phone,
		IsActive: v.IsActive,
	}
}

type billJSON struct {
	ID                 string `json:"id"`
	VendorID           string `json:"vendor_id"`
	FundID             string `json:"fund_id"`
	ExpenseAccountID   string `json:"expense_account_id"`
	LiabilityAccountID string `json:"liability_account_id"`
	JournalEntryID     string `json:"journal_entry_id"`
	Amount             string `json:"amount"`
	AmountPaid         string `json:"amount_paid"`
	Remaining          string `json:"remaining"`
	Status             string `json:"status"`
	InvoiceDate        string `json:"invoice_date"`
	DueDate            string `json:"due_date"`
	Description        string `json:"description,omitempty"`
}

func toBillJSON(b model.Bill) billJSON {
	return billJSON{
		ID:                 b.ID,
		VendorID:           b.VendorID,
		FundID:             b.FundID,
		ExpenseAccountID:   b.ExpenseAccountID,
		LiabilityAccountID: b.LiabilityAccountID,
		JournalEntryID:     b.JournalEntryID,
		Amount:             b.Amount.StringFixed(2),
		AmountPaid:         b.AmountPaid.StringFixed(2),
		Remaining:          b.RemainingBalance().StringFixed(2),
		Status:             string(b.Status),
		InvoiceDate:        b.InvoiceDate.Format(dateFormat),
		DueDate:            b.DueDate.Format(dateFormat),
		Description:        b.Description,
	}
}

type paymentJSON struct {
	ID             string `json:"id"`
	BillID         string `json:"bill_id"`
	JournalEntryID string `json:"journal_entry_id"`
	Amount         string `json:"amount"`
	PaymentDate    string `json:"payment_date"`
	PaymentAccount string `json:"payment_account"`
}

func toPaymentJSON(p model.BillPayment) paymentJSON {
	return paymentJSON{
		ID:             p.ID,
		BillID:         p.BillID,
		JournalEntryID: p.JournalEntryID,
		Amount:         p.Amount.StringFixed(2),
		PaymentDate:    p.PaymentDate.Format(dateFormat),
		PaymentAccount: p.PaymentAccount,
	}
}

type assetJSON struct {
	ID                      string `json:"id"`
	Name                    string `json:"name"`
	PurchasePrice           string `json:"purchase_price"`
	SalvageValue            string `json:"salvage_value"`
	EstimatedLifeYears      int    `json:"estimated_life_years"`
	Method                  string `json:"method"`
	AccumulatedDepreciation string `json:"accumulated_depreciation"`
	BookValue               string `json:"book_value"`
	Status                  string `json:"status"`
	AssetAccountID          string `json:"asset_account_id"`
	AccumDepreciationAcctID string `json:"accum_depreciation_account_id"`
	DepreciationExpenseAcct string `json:"depreciation_expense_account_id"`
	FundID                  string `json:"fund_id"`
	DepreciationStartDate   string `json:"depreciation_start_date"`
	LastDepreciationDate    string `json:"last_depreciation_date,omitempty"`
}

func toAssetJSON(a model.FixedAsset) assetJSON {
	out := assetJSON{
		ID:                      a.ID,
		Name:                    a.Name,
		PurchasePrice:           a.PurchasePrice.StringFixed(2),
		SalvageValue:            a.SalvageValue.StringFixed(2),
		EstimatedLifeYears:      a.EstimatedLifeYears,
		Method:                  string(a.Method),
		AccumulatedDepreciation: a.AccumulatedDepreciation.StringFixed(2),
		BookValue:               a.BookValue().StringFixed(2),
		Status:                  string(a.Status),
		AssetAccountID:          a.AssetAccountID,
		AccumDepreciationAcctID: a.AccumDepreciationAcctID,
		DepreciationExpenseAcct: a.DepreciationExpenseAcct,
		FundID:                  a.FundID,
		DepreciationStartDate:   a.DepreciationStartDate.Format(dateFormat),
	}
	if a.LastDepreciationDate != nil {
		out.LastDepreciationDate = a.LastDepreciationDate.Format(dateFormat)
	}
	return out
}

type scheduleJSON struct {
	ID             string `json:"id"`
	AssetID        string `json:"asset_id"`
	JournalEntryID string `json:"journal_entry_id"`
	PeriodStart    string `json:"period_start"`
	PeriodEnd      string `json:"period_end"`
	Amount         string `json:"amount"`
	Accumulated    string `json:"accumulated"`
	BeginningValue string `json:"beginning_value"`
	EndingValue    string `json:"ending_value"`
}

func toScheduleJSON(e model.DepreciationScheduleEntry) scheduleJSON {
	return scheduleJSON{
		ID:             e.ID,
		AssetID:        e.AssetID,
		JournalEntryID: e.JournalEntryID,
		PeriodStart:    e.PeriodStart.Format(dateFormat),
		PeriodEnd:      e.PeriodEnd.Format(dateFormat),
		Amount:         e.Amount.StringFixed(2),
		Accumulated:    e.Accumulated.StringFixed(2),
		BeginningValue: e.BeginningValue.StringFixed(2),
		EndingValue:    e.EndingValue.StringFixed(2),
	}
}

type templateLineJSON struct {
	AccountID string `json:"account_id"`
	Debit     string `json:"debit"`
	Credit    string `json:"credit"`
	Memo      string `json:"memo,omitempty"`
}

type templateJSON struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	FundID      string             `json:"fund_id"`
	Frequency   string             `json:"frequency"`
	StartDate   string             `json:"start_date"`
	EndDate     string             `json:"end_date,omitempty"`
	LastRunDate string             `json:"last_run_date,omitempty"`
	NextRunDate string             `json:"next_run_date"`
	Amount      string             `json:"amount"`
	IsActive    bool               `json:"is_active"`
	Lines       []templateLineJSON `json:"lines,omitempty"`
}

func toTemplateJSON(t model.RecurringTemplate) templateJSON {
	out := templateJSON{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		FundID:      t.FundID,
		Frequency:   string(t.Frequency),
		StartDate:   t.StartDate.Format(dateFormat),
		NextRunDate: t.NextRunDate.Format(dateFormat),
		Amount:      t.Amount.StringFixed(2),
		IsActive:    t.IsActive,
	}
	if t.EndDate != nil {
		out.EndDate = t.EndDate.Format(dateFormat)
	}
	if t.LastRunDate != nil {
		out.LastRunDate = t.LastRunDate.Format(dateFormat)
	}
	for _, l := range t.Lines {
		out.Lines = append(out.Lines, templateLineJSON{
			AccountID: l.AccountID,
			Debit:     l.Debit.StringFixed(2),
			Credit:    l.Credit.StringFixed(2),
			Memo:      l.Memo,
		})
	}
	return out
}

type runJSON struct {
	ID             string `json:"id"`
	TemplateID     string `json:"template_id"`
	JournalEntryID string `json:"journal_entry_id,omitempty"`
	RunDate        string `json:"run_date"`
	Status         string `json:"status"`
	Error          string `json:"error,omitempty"`
}

func toRunJSON(r model.TemplateRun) runJSON {
	return runJSON{
		ID:             r.ID,
		TemplateID:     r.TemplateID,
		JournalEntryID: r.JournalEntryID,
		RunDate:        r.RunDate.Format(dateFormat),
		Status:         string(r.Status),
		Error:          r.Error,
	}
}

type reconciliationJSON struct {
	ID               string   `json:"id"`
	AccountID        string   `json:"account_id"`
	StatementDate    string   `json:"statement_date"`
	StatementBalance string   `json:"statement_balance"`
	Status           string   `json:"status"`
	ClearedLineIDs   []string `json:"cleared_line_ids,omitempty"`
}

func toReconciliationJSON(r model.Reconciliation) reconciliationJSON {
	return reconciliationJSON{
		ID:               r.ID,
		AccountID:        r.AccountID,
		StatementDate:    r.StatementDate.Format(dateFormat),
		StatementBalance: r.StatementBalance.StringFixed(2),
		Status:           string(r.Status),
		ClearedLineIDs:   r.ClearedLineIDs,
	}
}

type joinedLineJSON struct {
	lineJSON
	EntryDate string `json:"entry_date"`
}

func toJoinedLineJSON(l model.JoinedLine) joinedLineJSON {
	return joinedLineJSON{
		lineJSON: lineJSON{
			ID:        l.ID,
			AccountID: l.AccountID,
			FundID:    l.FundID,
			Debit:     l.Debit.StringFixed(2),
			Credit:    l.Credit.StringFixed(2),
			Memo:      l.Memo,
		},
		EntryDate: l.EntryDate.Format(dateFormat),
	}
}

// parseDate parses a YYYY-MM-DD value.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateFormat, s)
}

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundbooks-dev/fundbooks/internal/assets"
	"github.com/fundbooks-dev/fundbooks/internal/model"
	"github.com/fundbooks-dev/fundbooks/internal/payables"
	"github.com/fundbooks-dev/fundbooks/internal/recurring"
)

// today returns the current date at midnight UTC.
func today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dateParam reads a YYYY-MM-DD query parameter, falling back to def when
// absent.
func dateParam(r *http.Request, name string, def time.Time) (time.Time, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, true
	}
	d, err := parseDate(s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// ─── Accounts and funds ──────────────────────────────────────────────────

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accts, err := s.store.ListAccounts()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]accountJSON, 0, len(accts))
	for _, a := range accts {
		out = append(out, toAccountJSON(a))
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Number      string `json:"number"`
		Name        string `json:"name"`
		Type        string `json:"type"`
		Description string `json:"description"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	typ := model.AccountType(req.Type)
	if !typ.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "unknown account type "+req.Type)
		return
	}
	if req.Number == "" || req.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "number and name are required")
		return
	}

	a := model.Account{
		ID:          uuid.NewString(),
		Number:      req.Number,
		Name:        req.Name,
		Type:        typ,
		Description: req.Description,
		IsActive:    true,
	}
	if err := s.store.InsertAccount(a); err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusCreated, toAccountJSON(a))
}

func (s *Server) handleListFunds(w http.ResponseWriter, r *http.Request) {
	funds, err := s.store.ListFunds()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]fundJSON, 0, len(funds))
	for _, f := range funds {
		out = append(out, toFundJSON(f))
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleCreateFund(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name              string `json:"name"`
		Description       string `json:"description"`
		IsRestricted      bool   `json:"is_restricted"`
		NetAssetAccountID string `json:"net_asset_account_id"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "fund name is required")
		return
	}

	f := model.Fund{
		ID:                uuid.NewString(),
		Name:              req.Name,
		Description:       req.Description,
		IsRestricted:      req.IsRestricted,
		NetAssetAccountID: req.NetAssetAccountID,
	}
	if err := s.store.InsertFund(f); err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusCreated, toFundJSON(f))
}

// ─── Journal entries ─────────────────────────────────────────────────────

type postLineReq struct {
	AccountID string          `json:"account_id"`
	FundID    string          `json:"fund_id"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"`
}

func (s *Server) handlePostEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EntryDate       string        `json:"entry_date"`
		Description     string        `json:"description"`
		ReferenceNumber string        `json:"reference_number"`
		Lines           []postLineReq `json:"lines"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entryDate, err := parseDate(req.EntryDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry_date")
		return
	}

	lines := make([]model.LineInput, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = model.LineInput{
			AccountID: l.AccountID,
			FundID:    l.FundID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
		}
	}

	entry, err := s.posting.Post(model.EntryInput{
		EntryDate:       entryDate,
		Description:     req.Description,
		ReferenceNumber: req.ReferenceNumber,
	}, lines)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	stored, err := s.store.GetLines(entry.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusCreated, toEntryJSON(entry, stored))
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entry, err := s.store.GetEntry(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	lines, err := s.store.GetLines(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, toEntryJSON(entry, lines))
}

func (s *Server) handleVoidEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.posting.Void(chi.URLParam(r, "id"), req.Reason); err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"status": "voided"})
}

// ─── Reports ─────────────────────────────────────────────────────────────

func (s *Server) handleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	asOf, ok := dateParam(r, "as_of", today())
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid as_of")
		return
	}
	report, err := s.balance.BalanceSheet(asOf)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, report)
}

// periodParams reads from/to query parameters, defaulting to the current
// calendar year to date.
func periodParams(r *http.Request) (time.Time, time.Time, bool) {
	now := today()
	from, ok := dateParam(r, "from", time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC))
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	to, ok := dateParam(r, "to", now)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func (s *Server) handleIncomeStatement(w http.ResponseWriter, r *http.Request) {
	from, to, ok := periodParams(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid from/to")
		return
	}
	report, err := s.balance.IncomeStatement(from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, report)
}

func (s *Server) handleFundSummaries(w http.ResponseWriter, r *http.Request) {
	from, to, ok := periodParams(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid from/to")
		return
	}
	summaries, err := s.balance.AllFundSummaries(from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, summaries)
}

// ─── Vendors and bills ───────────────────────────────────────────────────

func (s *Server) handleListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := s.payables.ListVendors()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]vendorJSON, 0, len(vendors))
	for _, v := range vendors {
		out = append(out, toVendorJSON(v))
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleCreateVendor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Contact string `json:"contact"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	v, err := s.payables.CreateVendor(req.Name, req.Contact, req.Email, req.Phone)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusCreated, toVendorJSON(v))
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	status := model.BillStatus(r.URL.Query().Get("status"))
	bills, err := s.payables.ListBills(status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]billJSON, 0, len(bills))
	for _, b := range bills {
		out = append(out, toBillJSON(b))
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VendorID           string          `json:"vendor_id"`
		FundID             string          `json:"fund_id"`
		ExpenseAccountID   string          `json:"expense_account_id"`
		LiabilityAccountID string          `json:"liability_account_id"`
		Amount             decimal.Decimal `json:"amount"`
		InvoiceDate        string          `json:"invoice_date"`
		DueDate            string          `json:"due_date"`
		Description        string          `json:"description"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	invoiceDate, err := parseDate(req.InvoiceDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid invoice_date")
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid due_date")
		return
	}

	bill, err := s.payables.CreateBill(payables.CreateBillParams{
		VendorID:           req.VendorID,
		FundID:             req.FundID,
		ExpenseAccountID:   req.ExpenseAccountID,
		LiabilityAccountID: req.LiabilityAccountID,
		Amount:             req.Amount,
		InvoiceDate:        invoiceDate,
		DueDate:            dueDate,
		Description:        req.Description,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusCreated, toBillJSON(bill))
}

func (s *Server) handlePayBill(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount        decimal.Decimal `json:"amount"`
		PaymentDate   string          `json:"payment_date"`
		CashAccountID string          `json:"cash_account_id"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payment_date")
		return
	}

	bill, err := s.payables.PayBill(payables.PayBillParams{
		BillID:        chi.URLParam(r, "id"),
		Amount:        req.Amount,
		PaymentDate:   paymentDate,
		CashAccountID: req.CashAccountID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, toBillJSON(bill))
}

func (s *Server) handleCancelBill(w http.ResponseWriter, r *http.Request) {
	if err := s.payables.CancelBill(chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (s *Server) handleBillPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := s.payables.Payments(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]paymentJSON, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentJSON(p))
	}
	writeData(w, http.StatusOK, out)
}

// ─── Fixed assets ────────────────────────────────────────────────────────

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	status := model.AssetStatus(r.URL.Query().Get("status"))
	list, err := s.assets.ListAssets(status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]assetJSON, 0, len(list))
	for _, a := range list {
		out = append(out, toAssetJSON(a))
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleCreateAsset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name                    string          `json:"name"`
		PurchasePrice           decimal.Decimal `json:"purchase_price"`
		SalvageValue            decimal.Decimal `json:"salvage_value"`
		EstimatedLifeYears      int             `json:"estimated_life_years"`
		AssetAccountID          string          `json:"asset_account_id"`
		AccumDepreciationAcctID string          `json:"accum_depreciation_account_id"`
		DepreciationExpenseAcct string          `json:"depreciation_expense_account_id"`
		FundID                  string          `json:"fund_id"`
		DepreciationStartDate   string          `json:"depreciation_start_date"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	startDate, err := parseDate(req.DepreciationStartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid depreciation_start_date")
		return
	}

	asset, err := s.assets.CreateAsset(assets.CreateAssetParams{
		Name:                    req.Name,
		PurchasePrice:           req.PurchasePrice,
		SalvageValue:            req.SalvageValue,
		EstimatedLifeYears:      req.EstimatedLifeYears,
		AssetAccountID:          req.AssetAccountID,
		AccumDepreciationAcctID: req.AccumDepreciationAcctID,
		DepreciationExpenseAcct: req.DepreciationExpenseAcct,
		FundID:                  req.FundID,
		DepreciationStartDate:   startDate,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusCreated, toAssetJSON(asset))
}

func (s *Server) handleDepreciate(w http.ResponseWriter, r *http.Request) {
	asOf, ok := dateParam(r, "as_of", today())
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid as_of")
		return
	}
	sched, err := s.assets.RecordDepreciation(chi.URLParam(r, "id"), asOf)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, toScheduleJSON(sched))
}

func (s *Server) handleDepreciateAll(w http.ResponseWriter, r *http.Request) {
	asOf, ok := dateParam(r, "as_of", today())
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid as_of")
		return
	}
	result, err := s.assets.ProcessAll(asOf)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

func (s *Server) handleDispose(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DisposalPrice     decimal.Decimal `json:"disposal_price"`
		DisposalDate      string          `json:"disposal_date"`
		ProceedsAccountID string          `json:"proceeds_account_id"`
		GainLossAccountID string          `json:"gain_loss_account_id"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	disposalDate, err := parseDate(req.DisposalDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid disposal_date")
		return
	}

	result, err := s.assets.Dispose(assets.DisposeParams{
		AssetID:           chi.URLParam(r, "id"),
		DisposalPrice:     req.DisposalPrice,
		DisposalDate:      disposalDate,
		ProceedsAccountID: req.ProceedsAccountID,
		GainLossAccountID: req.GainLossAccountID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"asset":      toAssetJSON(result.Asset),
		"book_value": result.BookValue.StringFixed(2),
		"gain_loss":  result.GainLoss.StringFixed(2),
	})
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	sched, err := s.assets.Schedule(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]scheduleJSON, 0, len(sched))
	for _, e := range sched {
		out = append(out, toScheduleJSON(e))
	}
	writeData(w, http.StatusOK, out)
}

// ─── Recurring templates ─────────────────────────────────────────────────

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.recurring.ListTemplates()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]templateJSON, 0, len(templates))
	for _, t := range templates {
		out = append(out, toTemplateJSON(t))
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		FundID      string `json:"fund_id"`
		Frequency   string `json:"frequency"`
		StartDate   string `json:"start_date"`
		EndDate     string `json:"end_date"`
		Lines       []struct {
			AccountID string          `json:"account_id"`
			Debit     decimal.Decimal `json:"debit"`
			Credit    decimal.Decimal `json:"credit"`
			Memo      string          `json:"memo"`
		} `json:"lines"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date")
		return
	}
	var endDate *time.Time
	if req.EndDate != "" {
		d, err := parseDate(req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end_date")
			return
		}
		endDate = &d
	}

	lines := make([]model.TemplateLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = model.TemplateLine{
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
		}
	}

	t, err := s.recurring.CreateTemplate(recurring.CreateTemplateParams{
		Name:        req.Name,
		Description: req.Description,
		FundID:      req.FundID,
		Frequency:   model.Frequency(req.Frequency),
		StartDate:   startDate,
		EndDate:     endDate,
		Lines:       lines,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusCreated, toTemplateJSON(t))
}

func (s *Server) handleProcessRecurring(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(r, "date", today())
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}
	result, err := s.recurring.Process(date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

func (s *Server) handleSetTemplateActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Active bool `json:"active"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.recurring.SetActive(chi.URLParam(r, "id"), req.Active); err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"active": req.Active})
}

func (s *Server) handleTemplateRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.recurring.Runs(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]runJSON, 0, len(runs))
	for _, run := range runs {
		out = append(out, toRunJSON(run))
	}
	writeData(w, http.StatusOK, out)
}

// ─── Reconciliation ──────────────────────────────────────────────────────

func (s *Server) handleStartReconciliation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountID        string          `json:"account_id"`
		StatementDate    string          `json:"statement_date"`
		StatementBalance decimal.Decimal `json:"statement_balance"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	statementDate, err := parseDate(req.StatementDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid statement_date")
		return
	}

	rec, err := s.reconcile.Start(req.AccountID, statementDate, req.StatementBalance)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusCreated, toReconciliationJSON(rec))
}

func (s *Server) handleGetReconciliation(w http.ResponseWriter, r *http.Request) {
	rec, err := s.reconcile.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, toReconciliationJSON(rec))
}

func (s *Server) handleUncleared(w http.ResponseWriter, r *http.Request) {
	lines, err := s.reconcile.Uncleared(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]joinedLineJSON, 0, len(lines))
	for _, l := range lines {
		out = append(out, toJoinedLineJSON(l))
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LineIDs []string `json:"line_ids"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := s.reconcile.Finalize(chi.URLParam(r, "id"), req.LineIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, toReconciliationJSON(rec))
}

func (s *Server) handleDiscard(w http.ResponseWriter, r *http.Request) {
	if err := s.reconcile.Discard(chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"status": "discarded"})
}

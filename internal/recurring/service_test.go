package recurring

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundbooks-dev/fundbooks/internal/model"
	"github.com/fundbooks-dev/fundbooks/internal/posting"
	"github.com/fundbooks-dev/fundbooks/internal/store"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	svc     *Service
	store   *store.Store
	cash    string
	expense string
	fund    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	f := &fixture{
		store:   st,
		cash:    uuid.NewString(),
		expense: uuid.NewString(),
		fund:    uuid.NewString(),
	}
	require.NoError(t, st.InsertAccount(model.Account{ID: f.cash, Number: "1010", Name: "Checking", Type: model.AccountTypeAsset, IsActive: true}))
	require.NoError(t, st.InsertAccount(model.Account{ID: f.expense, Number: "5030", Name: "Rent", Type: model.AccountTypeExpense, IsActive: true}))
	require.NoError(t, st.InsertFund(model.Fund{ID: f.fund, Name: "General Fund"}))

	f.svc = NewService(st, posting.NewService(st, nil))
	return f
}

func (f *fixture) rentLines(amount string) []model.TemplateLine {
	return []model.TemplateLine{
		{AccountID: f.expense, Debit: dec(amount), Memo: "Monthly rent"},
		{AccountID: f.cash, Credit: dec(amount)},
	}
}

func (f *fixture) createTemplate(t *testing.T, start time.Time) model.RecurringTemplate {
	t.Helper()
	tmpl, err := f.svc.CreateTemplate(CreateTemplateParams{
		Name:      "Office rent",
		FundID:    f.fund,
		Frequency: model.FreqMonthly,
		StartDate: start,
		Lines:     f.rentLines("950.00"),
	})
	require.NoError(t, err)
	return tmpl
}

func TestCreateTemplate(t *testing.T) {
	f := newFixture(t)
	tmpl := f.createTemplate(t, date(2025, 2, 1))

	assert.True(t, tmpl.IsActive)
	assert.Equal(t, date(2025, 2, 1), tmpl.NextRunDate)
	assert.True(t, tmpl.Amount.Equal(dec("950.00")))

	got, err := f.svc.GetTemplate(tmpl.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
}

func TestCreateTemplate_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateTemplate(CreateTemplateParams{
		FundID: f.fund, Frequency: model.FreqMonthly, StartDate: date(2025, 1, 1),
		Lines: f.rentLines("10.00"),
	})
	assert.ErrorIs(t, err, posting.ErrValidation, "name required")

	_, err = f.svc.CreateTemplate(CreateTemplateParams{
		Name: "Bad", FundID: f.fund, Frequency: "daily", StartDate: date(2025, 1, 1),
		Lines: f.rentLines("10.00"),
	})
	assert.ErrorIs(t, err, posting.ErrValidation, "unknown frequency")

	end := date(2024, 12, 1)
	_, err = f.svc.CreateTemplate(CreateTemplateParams{
		Name: "Bad", FundID: f.fund, Frequency: model.FreqMonthly,
		StartDate: date(2025, 1, 1), EndDate: &end,
		Lines: f.rentLines("10.00"),
	})
	assert.ErrorIs(t, err, posting.ErrValidation, "end before start")

	_, err = f.svc.CreateTemplate(CreateTemplateParams{
		Name: "Bad", FundID: f.fund, Frequency: model.FreqMonthly, StartDate: date(2025, 1, 1),
		Lines: []model.TemplateLine{
			{AccountID: f.expense, Debit: dec("10.00")},
			{AccountID: f.cash, Credit: dec("9.00")},
		},
	})
	assert.ErrorIs(t, err, posting.ErrValidation, "unbalanced lines")
}

func TestProcess_FiresDueTemplate(t *testing.T) {
	f := newFixture(t)
	tmpl := f.createTemplate(t, date(2025, 2, 1))

	result, err := f.svc.Process(date(2025, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Fired)
	assert.Zero(t, result.Failed)
	require.Len(t, result.Details, 1)
	assert.Equal(t, "fired", result.Details[0].Outcome)

	// The entry landed and next_run_date advanced.
	entry, err := f.store.GetEntry(result.Details[0].EntryID)
	require.NoError(t, err)
	assert.Equal(t, "Office rent", entry.Description)

	got, err := f.svc.GetTemplate(tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, date(2025, 3, 1), got.NextRunDate)
	require.NotNil(t, got.LastRunDate)
	assert.Equal(t, date(2025, 2, 1), *got.LastRunDate)

	runs, err := f.svc.Runs(tmpl.ID)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunSuccess, runs[0].Status)
}

func TestProcess_SkipsNotDue(t *testing.T) {
	f := newFixture(t)
	f.createTemplate(t, date(2025, 2, 1))

	result, err := f.svc.Process(date(2025, 1, 31))
	require.NoError(t, err)
	assert.Zero(t, result.Fired)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Details, 1)
	assert.Equal(t, "skipped", result.Details[0].Outcome)
	assert.Equal(t, "not due until 2025-02-01", result.Details[0].Reason)
}

func TestProcess_IgnoresInactive(t *testing.T) {
	f := newFixture(t)
	tmpl := f.createTemplate(t, date(2025, 2, 1))
	require.NoError(t, f.svc.SetActive(tmpl.ID, false))

	// A deactivated template is not a batch candidate at all.
	result, err := f.svc.Process(date(2025, 2, 1))
	require.NoError(t, err)
	assert.Zero(t, result.Fired)
	assert.Zero(t, result.Skipped)
	assert.Empty(t, result.Details)

	require.NoError(t, f.svc.SetActive(tmpl.ID, true))
	result, err = f.svc.Process(date(2025, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Fired)
}

func TestProcess_RespectsEndDate(t *testing.T) {
	f := newFixture(t)
	end := date(2025, 2, 15)
	_, err := f.svc.CreateTemplate(CreateTemplateParams{
		Name: "Short lease", FundID: f.fund, Frequency: model.FreqMonthly,
		StartDate: date(2025, 2, 1), EndDate: &end,
		Lines: f.rentLines("100.00"),
	})
	require.NoError(t, err)

	result, err := f.svc.Process(date(2025, 2, 16))
	require.NoError(t, err)
	assert.Zero(t, result.Fired)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Details, 1)
	assert.Equal(t, "ended 2025-02-15", result.Details[0].Reason)
}

func TestProcess_FailureRecordsRunAndAdvances(t *testing.T) {
	f := newFixture(t)

	// Insert an unbalanced template directly, bypassing creation-time
	// validation, to exercise the fire-time check.
	templateID := uuid.NewString()
	tmpl := model.RecurringTemplate{
		ID:          templateID,
		Name:        "Broken",
		FundID:      f.fund,
		Frequency:   model.FreqMonthly,
		StartDate:   date(2025, 2, 1),
		NextRunDate: date(2025, 2, 1),
		Amount:      dec("10.00"),
		IsActive:    true,
		Lines: []model.TemplateLine{
			{ID: uuid.NewString(), TemplateID: templateID, AccountID: f.expense, Debit: dec("10.00")},
			{ID: uuid.NewString(), TemplateID: templateID, AccountID: f.cash, Credit: dec("9.00")},
		},
	}
	require.NoError(t, f.store.InsertTemplate(tmpl))

	result, err := f.svc.Process(date(2025, 2, 1))
	require.NoError(t, err)
	assert.Zero(t, result.Fired)
	assert.Equal(t, 1, result.Failed)

	// The failed run is recorded and the schedule still advances.
	runs, err := f.svc.Runs(tmpl.ID)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunFailed, runs[0].Status)
	assert.NotEmpty(t, runs[0].Error)

	got, err := f.svc.GetTemplate(tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, date(2025, 3, 1), got.NextRunDate)
}

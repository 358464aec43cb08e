package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the cadence of a recurring template.
type Frequency string

const (
	FreqWeekly       Frequency = "weekly"
	FreqBiweekly     Frequency = "biweekly"
	FreqMonthly      Frequency = "monthly"
	FreqQuarterly    Frequency = "quarterly"
	FreqSemiannually Frequency = "semiannually"
	FreqYearly       Frequency = "yearly"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FreqWeekly, FreqBiweekly, FreqMonthly, FreqQuarterly, FreqSemiannually, FreqYearly:
		return true
	}
	return false
}

// Advance returns the date one cadence interval after d, using AddDate
// semantics: when the target month is shorter, the overflow normalizes
// into the following month (Jan 31 + monthly lands in early March).
func (f Frequency) Advance(d time.Time) time.Time {
	switch f {
	case FreqWeekly:
		return d.AddDate(0, 0, 7)
	case FreqBiweekly:
		return d.AddDate(0, 0, 14)
	case FreqMonthly:
		return d.AddDate(0, 1, 0)
	case FreqQuarterly:
		return d.AddDate(0, 3, 0)
	case FreqSemiannually:
		return d.AddDate(0, 6, 0)
	case FreqYearly:
		return d.AddDate(1, 0, 0)
	}
	return d
}

// RecurringTemplate generates journal entries on a cadence.
type RecurringTemplate struct {
	ID          string
	Name        string
	Description string
	FundID      string
	Frequency   Frequency
	StartDate   time.Time
	EndDate     *time.Time
	LastRunDate *time.Time
	NextRunDate time.Time
	Amount      decimal.Decimal
	IsActive    bool
	Lines       []TemplateLine
}

// TemplateLine is one stored line of a recurring template.
type TemplateLine struct {
	ID         string
	TemplateID string
	AccountID  string
	Debit      decimal.Decimal
	Credit     decimal.Decimal
	Memo       string
}

// DueOn reports whether the template should fire on the given day.
func (t RecurringTemplate) DueOn(today time.Time) bool {
	if !t.IsActive || t.NextRunDate.After(today) {
		return false
	}
	return t.EndDate == nil || !today.After(*t.EndDate)
}

// RunStatus is the outcome of one template execution.
type RunStatus string

const (
	RunSuccess RunStatus = "success"
	RunFailed  RunStatus = "failed"
)

// TemplateRun is one row of recurring execution history.
type TemplateRun struct {
	ID             string
	TemplateID     string
	JournalEntryID string
	RunDate        time.Time
	Status         RunStatus
	Error          string
}

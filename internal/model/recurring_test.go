package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFrequencyValid(t *testing.T) {
	for _, f := range []Frequency{FreqWeekly, FreqBiweekly, FreqMonthly, FreqQuarterly, FreqSemiannually, FreqYearly} {
		assert.True(t, f.Valid(), string(f))
	}
	assert.False(t, Frequency("daily").Valid())
	assert.False(t, Frequency("").Valid())
}

func TestFrequencyAdvance(t *testing.T) {
	start := date(2025, 1, 15)

	assert.Equal(t, date(2025, 1, 22), FreqWeekly.Advance(start))
	assert.Equal(t, date(2025, 1, 29), FreqBiweekly.Advance(start))
	assert.Equal(t, date(2025, 2, 15), FreqMonthly.Advance(start))
	assert.Equal(t, date(2025, 4, 15), FreqQuarterly.Advance(start))
	assert.Equal(t, date(2025, 7, 15), FreqSemiannually.Advance(start))
	assert.Equal(t, date(2026, 1, 15), FreqYearly.Advance(start))
}

func TestFrequencyAdvance_MonthEnd(t *testing.T) {
	// Jan 31 + 1 month normalizes into March (Go AddDate semantics).
	assert.Equal(t, date(2025, 3, 3), FreqMonthly.Advance(date(2025, 1, 31)))
}

func TestTemplateDueOn(t *testing.T) {
	tmpl := RecurringTemplate{
		IsActive:    true,
		NextRunDate: date(2025, 6, 1),
	}

	assert.False(t, tmpl.DueOn(date(2025, 5, 31)))
	assert.True(t, tmpl.DueOn(date(2025, 6, 1)))
	assert.True(t, tmpl.DueOn(date(2025, 6, 15)), "overdue templates still fire")

	tmpl.IsActive = false
	assert.False(t, tmpl.DueOn(date(2025, 6, 1)))

	tmpl.IsActive = true
	end := date(2025, 6, 10)
	tmpl.EndDate = &end
	assert.True(t, tmpl.DueOn(date(2025, 6, 10)))
	assert.False(t, tmpl.DueOn(date(2025, 6, 11)))
}

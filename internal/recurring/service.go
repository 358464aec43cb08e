// Package recurring generates journal entries from templates on a cadence.
// Processing is on-demand (CLI or cron-triggered HTTP call), not a
// background loop: due templates fire, ineligible ones are skipped, and one
// template's failure never blocks the rest.
package recurring

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundbooks-dev/fundbooks/internal/metrics"
	"github.com/fundbooks-dev/fundbooks/internal/model"
	"github.com/fundbooks-dev/fundbooks/internal/posting"
	"github.com/fundbooks-dev/fundbooks/internal/store"
)

// Service manages recurring templates and fires the due ones.
type Service struct {
	store   *store.Store
	posting *posting.Service
}

// NewService creates a recurring Service.
func NewService(st *store.Store, ps *posting.Service) *Service {
	return &Service{store: st, posting: ps}
}

// CreateTemplateParams holds parameters for a new recurring template.
type CreateTemplateParams struct {
	Name        string
	Description string
	FundID      string
	Frequency   model.Frequency
	StartDate   time.Time
	EndDate     *time.Time
	Lines       []model.TemplateLine
}

// CreateTemplate validates and stores a template. Lines must balance and
// reference existing accounts; they are validated again each time the
// template fires.
func (s *Service) CreateTemplate(p CreateTemplateParams) (model.RecurringTemplate, error) {
	if p.Name == "" {
		return model.RecurringTemplate{}, fmt.Errorf("%w: template name is required", posting.ErrValidation)
	}
	if !p.Frequency.Valid() {
		return model.RecurringTemplate{}, fmt.Errorf("%w: unknown frequency %q", posting.ErrValidation, p.Frequency)
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return model.RecurringTemplate{}, fmt.Errorf("%w: end date must not be before start date", posting.ErrValidation)
	}

	templateID := uuid.NewString()
	amount := decimal.Zero
	lines := make([]model.TemplateLine, len(p.Lines))
	for i, l := range p.Lines {
		lines[i] = model.TemplateLine{
			ID:         uuid.NewString(),
			TemplateID: templateID,
			AccountID:  l.AccountID,
			Debit:      l.Debit,
			Credit:     l.Credit,
			Memo:       l.Memo,
		}
		amount = amount.Add(l.Debit)
	}

	if err := s.validateLines(p.FundID, lines); err != nil {
		return model.RecurringTemplate{}, err
	}

	t := model.RecurringTemplate{
		ID:          templateID,
		Name:        p.Name,
		Description: p.Description,
		FundID:      p.FundID,
		Frequency:   p.Frequency,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		NextRunDate: p.StartDate,
		Amount:      amount,
		IsActive:    true,
		Lines:       lines,
	}
	if err := s.store.InsertTemplate(t); err != nil {
		return model.RecurringTemplate{}, err
	}
	return t, nil
}

// validateLines runs the posting invariants over template lines without
// committing anything.
func (s *Service) validateLines(fundID string, lines []model.TemplateLine) error {
	inputs := make([]model.LineInput, len(lines))
	for i, l := range lines {
		inputs[i] = model.LineInput{
			AccountID: l.AccountID,
			FundID:    fundID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
		}
	}
	verrs, err := posting.ValidateLines(inputs, s.store)
	if err != nil {
		return err
	}
	if len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return fmt.Errorf("template lines: %w: %s", posting.ErrValidation, strings.Join(msgs, "; "))
	}
	return nil
}

// RunResult summarizes one Process invocation.
type RunResult struct {
	Fired   int          `json:"fired"`
	Failed  int          `json:"failed"`
	Skipped int          `json:"skipped"`
	Details []RunOutcome `json:"details"`
}

// RunOutcome is one template's outcome within a Process run.
type RunOutcome struct {
	TemplateID string `json:"template_id"`
	Name       string `json:"name"`
	Outcome    string `json:"outcome"` // fired, failed, skipped
	EntryID    string `json:"entry_id,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// Process fires every active template due on the given day. Inactive
// templates are not batch candidates and are not counted; active templates
// that are not yet due (or past their end date) are skipped with a reason.
// Template lines are re-validated at fire time; a template that no longer
// validates records a failed run. Both outcomes advance next_run_date so
// one broken template does not pile up retries.
func (s *Service) Process(today time.Time) (RunResult, error) {
	templates, err := s.store.ListTemplates()
	if err != nil {
		return RunResult{}, err
	}

	var result RunResult
	for _, t := range templates {
		if !t.IsActive {
			continue
		}
		if !t.DueOn(today) {
			result.Skipped++
			metrics.BatchItems.WithLabelValues("recurring", "skipped").Inc()
			result.Details = append(result.Details, RunOutcome{
				TemplateID: t.ID, Name: t.Name, Outcome: "skipped", Reason: skipReason(t, today),
			})
			continue
		}

		nextRun := t.Frequency.Advance(t.NextRunDate)
		run := model.TemplateRun{
			ID:         uuid.NewString(),
			TemplateID: t.ID,
			RunDate:    today,
		}

		entry, lines, buildErr := s.buildEntry(t, today)
		if buildErr != nil {
			run.Status = model.RunFailed
			run.Error = buildErr.Error()
			if err := s.store.ApplyTemplateRun(nil, nil, run, nextRun, today); err != nil {
				return result, fmt.Errorf("recording failed run for %s: %w", t.Name, err)
			}
			result.Failed++
			metrics.BatchItems.WithLabelValues("recurring", "failed").Inc()
			result.Details = append(result.Details, RunOutcome{
				TemplateID: t.ID, Name: t.Name, Outcome: "failed", Reason: buildErr.Error(),
			})
			continue
		}

		run.Status = model.RunSuccess
		run.JournalEntryID = entry.ID
		if err := s.store.ApplyTemplateRun(&entry, lines, run, nextRun, today); err != nil {
			// Commit failed, nothing landed; record the failure alone.
			run.Status = model.RunFailed
			run.JournalEntryID = ""
			run.Error = err.Error()
			if rerr := s.store.ApplyTemplateRun(nil, nil, run, nextRun, today); rerr != nil {
				return result, fmt.Errorf("recording failed run for %s: %w", t.Name, rerr)
			}
			result.Failed++
			metrics.BatchItems.WithLabelValues("recurring", "failed").Inc()
			result.Details = append(result.Details, RunOutcome{
				TemplateID: t.ID, Name: t.Name, Outcome: "failed", Reason: err.Error(),
			})
			continue
		}

		result.Fired++
		metrics.EntriesPosted.WithLabelValues("recurring").Inc()
		metrics.BatchItems.WithLabelValues("recurring", "processed").Inc()
		result.Details = append(result.Details, RunOutcome{
			TemplateID: t.ID, Name: t.Name, Outcome: "fired", EntryID: entry.ID,
		})
	}
	return result, nil
}

// skipReason explains why an active template did not fire today.
func skipReason(t model.RecurringTemplate, today time.Time) string {
	if t.EndDate != nil && today.After(*t.EndDate) {
		return "ended " + t.EndDate.Format("2006-01-02")
	}
	return "not due until " + t.NextRunDate.Format("2006-01-02")
}

// buildEntry validates a due template's lines and builds the journal entry
// to post.
func (s *Service) buildEntry(t model.RecurringTemplate, today time.Time) (model.JournalEntry, []model.LedgerLine, error) {
	inputs := make([]model.LineInput, len(t.Lines))
	for i, l := range t.Lines {
		inputs[i] = model.LineInput{
			AccountID: l.AccountID,
			FundID:    t.FundID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
		}
	}
	desc := t.Description
	if desc == "" {
		desc = t.Name
	}
	return s.posting.Build(model.EntryInput{EntryDate: today, Description: desc}, inputs)
}

// GetTemplate returns a template with its lines.
func (s *Service) GetTemplate(id string) (model.RecurringTemplate, error) {
	return s.store.GetTemplate(id)
}

// ListTemplates returns all templates.
func (s *Service) ListTemplates() ([]model.RecurringTemplate, error) {
	return s.store.ListTemplates()
}

// SetActive flips a template's active flag.
func (s *Service) SetActive(id string, active bool) error {
	return s.store.SetTemplateActive(id, active)
}

// Runs returns the execution history for a template, newest first.
func (s *Service) Runs(templateID string) ([]model.TemplateRun, error) {
	return s.store.ListTemplateRuns(templateID)
}

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fundbooks-dev/fundbooks/internal/model"
)

// InsertTemplate adds a recurring template and its lines transactionally.
func (s *Store) InsertTemplate(t model.RecurringTemplate) error {
	return s.inTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO recurring_templates
				(id, name, description, fund_id, frequency, start_date, end_date,
				 last_run_date, next_run_date, amount, is_active)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, t.ID, t.Name, t.Description, t.FundID, string(t.Frequency),
			fmtDate(t.StartDate), fmtDatePtr(t.EndDate), fmtDatePtr(t.LastRunDate),
			fmtDate(t.NextRunDate), t.Amount.StringFixed(2), boolInt(t.IsActive))
		if err != nil {
			return fmt.Errorf("inserting template: %w", err)
		}
		for _, l := range t.Lines {
			_, err := tx.Exec(`
				INSERT INTO template_lines (id, template_id, account_id, debit, credit, memo)
				VALUES (?, ?, ?, ?, ?, ?)
			`, l.ID, l.TemplateID, l.AccountID, l.Debit.StringFixed(2), l.Credit.StringFixed(2), l.Memo)
			if err != nil {
				return fmt.Errorf("inserting template line: %w", err)
			}
		}
		return nil
	})
}

// GetTemplate returns a template with its lines.
func (s *Store) GetTemplate(id string) (model.RecurringTemplate, error) {
	row := s.db.QueryRow(templateSelect+` WHERE id = ?`, id)
	t, err := scanTemplate(row.Scan)
	if err != nil {
		return model.RecurringTemplate{}, err
	}
	if t.Lines, err = s.templateLines(id); err != nil {
		return model.RecurringTemplate{}, err
	}
	return t, nil
}

const templateSelect = `
	SELECT id, name, description, fund_id, frequency, start_date, end_date,
	       last_run_date, next_run_date, amount, is_active
	FROM recurring_templates`

func scanTemplate(scan func(...any) error) (model.RecurringTemplate, error) {
	var t model.RecurringTemplate
	var freq, startDate, nextRun, amount string
	var endDate, lastRun sql.NullString
	var active int
	err := scan(&t.ID, &t.Name, &t.Description, &t.FundID, &freq, &startDate,
		&endDate, &lastRun, &nextRun, &amount, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RecurringTemplate{}, ErrNotFound
	}
	if err != nil {
		return model.RecurringTemplate{}, fmt.Errorf("scanning template: %w", err)
	}
	if t.StartDate, err = parseDate(startDate); err != nil {
		return model.RecurringTemplate{}, err
	}
	if t.NextRunDate, err = parseDate(nextRun); err != nil {
		return model.RecurringTemplate{}, err
	}
	if t.EndDate, err = parseDatePtr(endDate); err != nil {
		return model.RecurringTemplate{}, err
	}
	if t.LastRunDate, err = parseDatePtr(lastRun); err != nil {
		return model.RecurringTemplate{}, err
	}
	if t.Amount, err = parseAmount(amount); err != nil {
		return model.RecurringTemplate{}, err
	}
	t.Frequency = model.Frequency(freq)
	t.IsActive = active == 1
	return t, nil
}

func (s *Store) templateLines(templateID string) ([]model.TemplateLine, error) {
	rows, err := s.db.Query(`
		SELECT id, template_id, account_id, debit, credit, memo
		FROM template_lines WHERE template_id = ? ORDER BY id
	`, templateID)
	if err != nil {
		return nil, fmt.Errorf("listing template lines: %w", err)
	}
	defer rows.Close()

	var lines []model.TemplateLine
	for rows.Next() {
		var l model.TemplateLine
		var debit, credit string
		if err := rows.Scan(&l.ID, &l.TemplateID, &l.AccountID, &debit, &credit, &l.Memo); err != nil {
			return nil, fmt.Errorf("scanning template line: %w", err)
		}
		if l.Debit, err = parseAmount(debit); err != nil {
			return nil, err
		}
		if l.Credit, err = parseAmount(credit); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// ListTemplates returns all templates with their lines.
func (s *Store) ListTemplates() ([]model.RecurringTemplate, error) {
	rows, err := s.db.Query(templateSelect + ` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	defer rows.Close()

	var templates []model.RecurringTemplate
	for rows.Next() {
		t, err := scanTemplate(rows.Scan)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range templates {
		if templates[i].Lines, err = s.templateLines(templates[i].ID); err != nil {
			return nil, err
		}
	}
	return templates, nil
}

// SetTemplateActive flips a template's active flag.
func (s *Store) SetTemplateActive(id string, active bool) error {
	res, err := s.db.Exec(`UPDATE recurring_templates SET is_active = ? WHERE id = ?`, boolInt(active), id)
	if err != nil {
		return fmt.Errorf("updating template: %w", err)
	}
	return requireRow(res)
}

// ApplyTemplateRun commits one template firing atomically: the generated
// journal entry (if the run succeeded), the run history row, and the
// template's advanced next_run_date / last_run_date.
func (s *Store) ApplyTemplateRun(e *model.JournalEntry, lines []model.LedgerLine,
	run model.TemplateRun, nextRun, lastRun time.Time) error {
	return s.inTx(func(tx *sql.Tx) error {
		if e != nil {
			if err := insertEntryTx(tx, *e, lines); err != nil {
				return err
			}
		}
		_, err := tx.Exec(`
			INSERT INTO template_runs (id, template_id, journal_entry_id, run_date, status, error)
			VALUES (?, ?, ?, ?, ?, ?)
		`, run.ID, run.TemplateID, run.JournalEntryID, fmtDate(run.RunDate), string(run.Status), run.Error)
		if err != nil {
			return fmt.Errorf("inserting template run: %w", err)
		}
		res, err := tx.Exec(`
			UPDATE recurring_templates SET next_run_date = ?, last_run_date = ? WHERE id = ?
		`, fmtDate(nextRun), fmtDate(lastRun), run.TemplateID)
		if err != nil {
			return fmt.Errorf("updating template: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking rows affected: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ListTemplateRuns returns execution history for a template, newest first.
func (s *Store) ListTemplateRuns(templateID string) ([]model.TemplateRun, error) {
	rows, err := s.db.Query(`
		SELECT id, template_id, journal_entry_id, run_date, status, error
		FROM template_runs WHERE template_id = ? ORDER BY run_date DESC, id DESC
	`, templateID)
	if err != nil {
		return nil, fmt.Errorf("listing template runs: %w", err)
	}
	defer rows.Close()

	var runs []model.TemplateRun
	for rows.Next() {
		var r model.TemplateRun
		var runDate, status string
		if err := rows.Scan(&r.ID, &r.TemplateID, &r.JournalEntryID, &runDate, &status, &r.Error); err != nil {
			return nil, fmt.Errorf("scanning template run: %w", err)
		}
		if r.RunDate, err = parseDate(runDate); err != nil {
			return nil, err
		}
		r.Status = model.RunStatus(status)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fundbooks-dev/fundbooks/internal/model"
)

// InsertAsset adds a fixed asset.
func (s *Store) InsertAsset(a model.FixedAsset) error {
	_, err := s.db.Exec(`
		INSERT INTO fixed_assets
			(id, name, purchase_price, salvage_value, estimated_life_years, depreciation_method,
			 accumulated_depreciation, status, asset_account_id, accum_depreciation_acct_id,
			 depreciation_expense_acct, fund_id, depreciation_start_date, last_depreciation_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.Name, a.PurchasePrice.StringFixed(2), a.SalvageValue.StringFixed(2),
		a.EstimatedLifeYears, string(a.Method), a.AccumulatedDepreciation.StringFixed(2),
		string(a.Status), a.AssetAccountID, a.AccumDepreciationAcctID,
		a.DepreciationExpenseAcct, a.FundID, fmtDate(a.DepreciationStartDate),
		fmtDatePtr(a.LastDepreciationDate))
	if err != nil {
		return fmt.Errorf("inserting fixed asset: %w", err)
	}
	return nil
}

// GetAsset returns a fixed asset by ID.
func (s *Store) GetAsset(id string) (model.FixedAsset, error) {
	row := s.db.QueryRow(assetSelect+` WHERE id = ?`, id)
	return scanAsset(row.Scan)
}

const assetSelect = `
	SELECT id, name, purchase_price, salvage_value, estimated_life_years, depreciation_method,
	       accumulated_depreciation, status, asset_account_id, accum_depreciation_acct_id,
	       depreciation_expense_acct, fund_id, depreciation_start_date, last_depreciation_date
	FROM fixed_assets`

func scanAsset(scan func(...any) error) (model.FixedAsset, error) {
	var a model.FixedAsset
	var price, salvage, accum, method, status, startDate string
	var lastDate sql.NullString
	err := scan(&a.ID, &a.Name, &price, &salvage, &a.EstimatedLifeYears, &method,
		&accum, &status, &a.AssetAccountID, &a.AccumDepreciationAcctID,
		&a.DepreciationExpenseAcct, &a.FundID, &startDate, &lastDate)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FixedAsset{}, ErrNotFound
	}
	if err != nil {
		return model.FixedAsset{}, fmt.Errorf("scanning fixed asset: %w", err)
	}
	if a.PurchasePrice, err = parseAmount(price); err != nil {
		return model.FixedAsset{}, err
	}
	if a.SalvageValue, err = parseAmount(salvage); err != nil {
		return model.FixedAsset{}, err
	}
	if a.AccumulatedDepreciation, err = parseAmount(accum); err != nil {
		return model.FixedAsset{}, err
	}
	if a.DepreciationStartDate, err = parseDate(startDate); err != nil {
		return model.FixedAsset{}, err
	}
	if a.LastDepreciationDate, err = parseDatePtr(lastDate); err != nil {
		return model.FixedAsset{}, err
	}
	a.Method = model.DepreciationMethod(method)
	a.Status = model.AssetStatus(status)
	return a, nil
}

// ListAssets returns fixed assets, optionally filtered by status.
func (s *Store) ListAssets(status model.AssetStatus) ([]model.FixedAsset, error) {
	q := assetSelect
	var args []any
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, string(status))
	}
	q += ` ORDER BY name`

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing fixed assets: %w", err)
	}
	defer rows.Close()

	var assets []model.FixedAsset
	for rows.Next() {
		a, err := scanAsset(rows.Scan)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// ApplyDepreciation commits one depreciation run atomically: the journal
// entry and lines, the schedule audit row, and the asset's new accumulated
// amount, status, and last depreciation date.
func (s *Store) ApplyDepreciation(e model.JournalEntry, lines []model.LedgerLine,
	sched model.DepreciationScheduleEntry, newAccum string, newStatus model.AssetStatus,
	lastDate time.Time) error {
	return s.inTx(func(tx *sql.Tx) error {
		if err := insertEntryTx(tx, e, lines); err != nil {
			return err
		}
		_, err := tx.Exec(`
			INSERT INTO depreciation_schedule
				(id, asset_id, journal_entry_id, period_start, period_end,
				 amount, accumulated, beginning_value, ending_value)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, sched.ID, sched.AssetID, sched.JournalEntryID,
			fmtDate(sched.PeriodStart), fmtDate(sched.PeriodEnd),
			sched.Amount.StringFixed(2), sched.Accumulated.StringFixed(2),
			sched.BeginningValue.StringFixed(2), sched.EndingValue.StringFixed(2))
		if err != nil {
			return fmt.Errorf("inserting schedule entry: %w", err)
		}
		res, err := tx.Exec(`
			UPDATE fixed_assets
			SET accumulated_depreciation = ?, status = ?, last_depreciation_date = ?
			WHERE id = ?
		`, newAccum, string(newStatus), fmtDate(lastDate), sched.AssetID)
		if err != nil {
			return fmt.Errorf("updating fixed asset: %w", err)
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

// ApplyDisposal commits an asset disposal atomically: the disposal journal
// entry and the asset's terminal status.
func (s *Store) ApplyDisposal(e model.JournalEntry, lines []model.LedgerLine, assetID string) error {
	return s.inTx(func(tx *sql.Tx) error {
		if err := insertEntryTx(tx, e, lines); err != nil {
			return err
		}
		res, err := tx.Exec(`UPDATE fixed_assets SET status = 'disposed' WHERE id = ?`, assetID)
		if err != nil {
			return fmt.Errorf("updating fixed asset: %w", err)
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

// ListSchedule returns the depreciation schedule rows for an asset, oldest
// first.
func (s *Store) ListSchedule(assetID string) ([]model.DepreciationScheduleEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, asset_id, journal_entry_id, period_start, period_end,
		       amount, accumulated, beginning_value, ending_value
		FROM depreciation_schedule WHERE asset_id = ? ORDER BY period_start, id
	`, assetID)
	if err != nil {
		return nil, fmt.Errorf("listing depreciation schedule: %w", err)
	}
	defer rows.Close()

	var entries []model.DepreciationScheduleEntry
	for rows.Next() {
		var d model.DepreciationScheduleEntry
		var periodStart, periodEnd, amount, accum, begin, end string
		if err := rows.Scan(&d.ID, &d.AssetID, &d.JournalEntryID, &periodStart, &periodEnd,
			&amount, &accum, &begin, &end); err != nil {
			return nil, fmt.Errorf("scanning schedule entry: %w", err)
		}
		if d.PeriodStart, err = parseDate(periodStart); err != nil {
			return nil, err
		}
		if d.PeriodEnd, err = parseDate(periodEnd); err != nil {
			return nil, err
		}
		if d.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		if d.Accumulated, err = parseAmount(accum); err != nil {
			return nil, err
		}
		if d.BeginningValue, err = parseAmount(begin); err != nil {
			return nil, err
		}
		if d.EndingValue, err = parseAmount(end); err != nil {
			return nil, err
		}
		entries = append(entries, d)
	}
	return entries, rows.Err()
}

// insertEntryTx inserts a journal entry header and lines inside an existing
// transaction.
func insertEntryTx(tx *sql.Tx, e model.JournalEntry, lines []model.LedgerLine) error {
	_, err := tx.Exec(`
		INSERT INTO journal_entries
			(id, entry_date, description, reference_number, donor_id, is_in_kind, is_voided)
		VALUES (?, ?, ?, ?, ?, ?, 0)
	`, e.ID, fmtDate(e.EntryDate), e.Description, e.ReferenceNumber, e.DonorID, boolInt(e.IsInKind))
	if err != nil {
		return fmt.Errorf("inserting journal entry: %w", err)
	}
	for _, l := range lines {
		_, err := tx.Exec(`
			INSERT INTO ledger_lines (id, journal_entry_id, account_id, fund_id, debit, credit, memo)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, l.ID, l.JournalEntryID, l.AccountID, l.FundID,
			l.Debit.StringFixed(2), l.Credit.StringFixed(2), l.Memo)
		if err != nil {
			return fmt.Errorf("inserting ledger line: %w", err)
		}
	}
	return nil
}

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fundbooks-dev/fundbooks/internal/model"
)

// InsertBill adds a bill row. The journal entry it references must already
// exist.
func (s *Store) InsertBill(b model.Bill) error {
	_, err := s.db.Exec(`
		INSERT INTO bills
			(id, vendor_id, fund_id, expense_account_id, liability_account_id,
			 journal_entry_id, amount, amount_paid, status, invoice_date, due_date, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.VendorID, b.FundID, b.ExpenseAccountID, b.LiabilityAccountID,
		b.JournalEntryID, b.Amount.StringFixed(2), b.AmountPaid.StringFixed(2),
		string(b.Status), fmtDate(b.InvoiceDate), fmtDate(b.DueDate), b.Description)
	if err != nil {
		return fmt.Errorf("inserting bill: %w", err)
	}
	return nil
}

// GetBill returns a bill by ID.
func (s *Store) GetBill(id string) (model.Bill, error) {
	row := s.db.QueryRow(`
		SELECT id, vendor_id, fund_id, expense_account_id, liability_account_id,
		       journal_entry_id, amount, amount_paid, status, invoice_date, due_date, description
		FROM bills WHERE id = ?
	`, id)
	return scanBill(row.Scan)
}

func scanBill(scan func(...any) error) (model.Bill, error) {
	var b model.Bill
	var amount, paid, status, invoiceDate, dueDate string
	err := scan(&b.ID, &b.VendorID, &b.FundID, &b.ExpenseAccountID, &b.LiabilityAccountID,
		&b.JournalEntryID, &amount, &paid, &status, &invoiceDate, &dueDate, &b.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bill{}, ErrNotFound
	}
	if err != nil {
		return model.Bill{}, fmt.Errorf("scanning bill: %w", err)
	}
	if b.Amount, err = parseAmount(amount); err != nil {
		return model.Bill{}, err
	}
	if b.AmountPaid, err = parseAmount(paid); err != nil {
		return model.Bill{}, err
	}
	if b.InvoiceDate, err = parseDate(invoiceDate); err != nil {
		return model.Bill{}, err
	}
	if b.DueDate, err = parseDate(dueDate); err != nil {
		return model.Bill{}, err
	}
	b.Status = model.BillStatus(status)
	return b, nil
}

// ListBills returns bills, optionally filtered by status.
func (s *Store) ListBills(status model.BillStatus) ([]model.Bill, error) {
	q := `
		SELECT id, vendor_id, fund_id, expense_account_id, liability_account_id,
		       journal_entry_id, amount, amount_paid, status, invoice_date, due_date, description
		FROM bills`
	var args []any
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, string(status))
	}
	q += ` ORDER BY due_date, id`

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}
	defer rows.Close()

	var bills []model.Bill
	for rows.Next() {
		b, err := scanBill(rows.Scan)
		if err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

// ListBillPayments returns the payments recorded against a bill.
func (s *Store) ListBillPayments(billID string) ([]model.BillPayment, error) {
	rows, err := s.db.Query(`
		SELECT id, bill_id, journal_entry_id, amount, payment_date, payment_account
		FROM bill_payments WHERE bill_id = ? ORDER BY payment_date, id
	`, billID)
	if err != nil {
		return nil, fmt.Errorf("listing bill payments: %w", err)
	}
	defer rows.Close()

	var payments []model.BillPayment
	for rows.Next() {
		var p model.BillPayment
		var amount, paymentDate string
		if err := rows.Scan(&p.ID, &p.BillID, &p.JournalEntryID, &amount, &paymentDate, &p.PaymentAccount); err != nil {
			return nil, fmt.Errorf("scanning bill payment: %w", err)
		}
		if p.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		if p.PaymentDate, err = parseDate(paymentDate); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// ApplyBillPayment commits a payment atomically: the payment's journal entry
// and lines, the bill_payments row, and the bill's new amount_paid/status
// all land in one transaction. This closes the read-modify-write window two
// concurrent payments could otherwise race through.
func (s *Store) ApplyBillPayment(e model.JournalEntry, lines []model.LedgerLine,
	p model.BillPayment, newAmountPaid string, newStatus model.BillStatus) error {
	return s.inTx(func(tx *sql.Tx) error {
		if err := insertEntryTx(tx, e, lines); err != nil {
			return err
		}
		_, err := tx.Exec(`
			INSERT INTO bill_payments (id, bill_id, journal_entry_id, amount, payment_date, payment_account)
			VALUES (?, ?, ?, ?, ?, ?)
		`, p.ID, p.BillID, p.JournalEntryID, p.Amount.StringFixed(2), fmtDate(p.PaymentDate), p.PaymentAccount)
		if err != nil {
			return fmt.Errorf("inserting bill payment: %w", err)
		}
		res, err := tx.Exec(`
			UPDATE bills SET amount_paid = ?, status = ? WHERE id = ?
		`, newAmountPaid, string(newStatus), p.BillID)
		if err != nil {
			return fmt.Errorf("updating bill: %w", err)
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

// CancelBill marks a bill cancelled. The update is conditional on the bill
// still having nothing paid, so a racing payment cannot slip through.
// Returns false if no row matched the conditions.
func (s *Store) CancelBill(id string) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE bills SET status = 'cancelled'
		WHERE id = ? AND CAST(amount_paid AS REAL) = 0 AND status IN ('unpaid', 'partial')
	`, id)
	if err != nil {
		return false, fmt.Errorf("cancelling bill: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking rows affected: %w", err)
	}
	return n > 0, nil
}

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fundbooks-dev/fundbooks/internal/model"
)

// InsertAccount adds an account to the chart of accounts.
func (s *Store) InsertAccount(a model.Account) error {
	_, err := s.db.Exec(`
		INSERT INTO accounts (id, number, name, type, description, is_active)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.ID, a.Number, a.Name, string(a.Type), a.Description, boolInt(a.IsActive))
	if err != nil {
		return fmt.Errorf("inserting account %s: %w", a.Number, err)
	}
	return nil
}

// UpdateAccount updates an account's mutable fields (name, description,
// active flag). Type and number are fixed after creation in practice.
func (s *Store) UpdateAccount(a model.Account) error {
	res, err := s.db.Exec(`
		UPDATE accounts SET name = ?, description = ?, is_active = ? WHERE id = ?
	`, a.Name, a.Description, boolInt(a.IsActive), a.ID)
	if err != nil {
		return fmt.Errorf("updating account: %w", err)
	}
	return requireRow(res)
}

// GetAccount returns an account by ID.
func (s *Store) GetAccount(id string) (model.Account, error) {
	return s.scanAccount(s.db.QueryRow(`
		SELECT id, number, name, type, description, is_active FROM accounts WHERE id = ?
	`, id))
}

// GetAccountByNumber returns an account by its chart number.
func (s *Store) GetAccountByNumber(number string) (model.Account, error) {
	return s.scanAccount(s.db.QueryRow(`
		SELECT id, number, name, type, description, is_active FROM accounts WHERE number = ?
	`, number))
}

func (s *Store) scanAccount(row *sql.Row) (model.Account, error) {
	var a model.Account
	var typ string
	var active int
	err := row.Scan(&a.ID, &a.Number, &a.Name, &typ, &a.Description, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrNotFound
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("scanning account: %w", err)
	}
	a.Type = model.AccountType(typ)
	a.IsActive = active == 1
	return a, nil
}

// ListAccounts returns the chart of accounts ordered by number.
func (s *Store) ListAccounts() ([]model.Account, error) {
	rows, err := s.db.Query(`
		SELECT id, number, name, type, description, is_active FROM accounts ORDER BY number
	`)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accts []model.Account
	for rows.Next() {
		var a model.Account
		var typ string
		var active int
		if err := rows.Scan(&a.ID, &a.Number, &a.Name, &typ, &a.Description, &active); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		a.Type = model.AccountType(typ)
		a.IsActive = active == 1
		accts = append(accts, a)
	}
	return accts, rows.Err()
}

// AccountExists reports whether an account ID exists.
func (s *Store) AccountExists(id string) (bool, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM accounts WHERE id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("checking account: %w", err)
	}
	return n > 0, nil
}

// InsertFund adds a fund.
func (s *Store) InsertFund(f model.Fund) error {
	var netAsset any
	if f.NetAssetAccountID != "" {
		netAsset = f.NetAssetAccountID
	}
	_, err := s.db.Exec(`
		INSERT INTO funds (id, name, description, is_restricted, net_asset_account_id)
		VALUES (?, ?, ?, ?, ?)
	`, f.ID, f.Name, f.Description, boolInt(f.IsRestricted), netAsset)
	if err != nil {
		return fmt.Errorf("inserting fund %s: %w", f.Name, err)
	}
	return nil
}

// GetFund returns a fund by ID.
func (s *Store) GetFund(id string) (model.Fund, error) {
	var f model.Fund
	var restricted int
	var netAsset sql.NullString
	err := s.db.QueryRow(`
		SELECT id, name, description, is_restricted, net_asset_account_id FROM funds WHERE id = ?
	`, id).Scan(&f.ID, &f.Name, &f.Description, &restricted, &netAsset)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Fund{}, ErrNotFound
	}
	if err != nil {
		return model.Fund{}, fmt.Errorf("scanning fund: %w", err)
	}
	f.IsRestricted = restricted == 1
	f.NetAssetAccountID = netAsset.String
	return f, nil
}

// ListFunds returns all funds ordered by name.
func (s *Store) ListFunds() ([]model.Fund, error) {
	rows, err := s.db.Query(`
		SELECT id, name, description, is_restricted, net_asset_account_id FROM funds ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("listing funds: %w", err)
	}
	defer rows.Close()

	var funds []model.Fund
	for rows.Next() {
		var f model.Fund
		var restricted int
		var netAsset sql.NullString
		if err := rows.Scan(&f.ID, &f.Name, &f.Description, &restricted, &netAsset); err != nil {
			return nil, fmt.Errorf("scanning fund: %w", err)
		}
		f.IsRestricted = restricted == 1
		f.NetAssetAccountID = netAsset.String
		funds = append(funds, f)
	}
	return funds, rows.Err()
}

// FundExists reports whether a fund ID exists.
func (s *Store) FundExists(id string) (bool, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM funds WHERE id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("checking fund: %w", err)
	}
	return n > 0, nil
}

// InsertVendor adds a vendor.
func (s *Store) InsertVendor(v model.Vendor) error {
	_, err := s.db.Exec(`
		INSERT INTO vendors (id, name, contact, email, phone, is_active)
		VALUES (?, ?, ?, ?, ?, ?)
	`, v.ID, v.Name, v.Contact, v.Email, v.Phone, boolInt(v.IsActive))
	if err != nil {
		return fmt.Errorf("inserting vendor %s: %w", v.Name, err)
	}
	return nil
}

// GetVendor returns a vendor by ID.
func (s *Store) GetVendor(id string) (model.Vendor, error) {
	var v model.Vendor
	var active int
	err := s.db.QueryRow(`
		SELECT id, name, contact, email, phone, is_active FROM vendors WHERE id = ?
	`, id).Scan(&v.ID, &v.Name, &v.Contact, &v.Email, &v.Phone, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Vendor{}, ErrNotFound
	}
	if err != nil {
		return model.Vendor{}, fmt.Errorf("scanning vendor: %w", err)
	}
	v.IsActive = active == 1
	return v, nil
}

// ListVendors returns all vendors ordered by name.
func (s *Store) ListVendors() ([]model.Vendor, error) {
	rows, err := s.db.Query(`
		SELECT id, name, contact, email, phone, is_active FROM vendors ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("listing vendors: %w", err)
	}
	defer rows.Close()

	var vendors []model.Vendor
	for rows.Next() {
		var v model.Vendor
		var active int
		if err := rows.Scan(&v.ID, &v.Name, &v.Contact, &v.Email, &v.Phone, &active); err != nil {
			return nil, fmt.Errorf("scanning vendor: %w", err)
		}
		v.IsActive = active == 1
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

// requireRow converts a zero-rows-affected result into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

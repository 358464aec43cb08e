package chart

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/fundbooks-dev/fundbooks/internal/model"
	"github.com/fundbooks-dev/fundbooks/internal/store"
)

// Seed inserts the default accounts and funds into an empty ledger. Each
// fund's net asset account is resolved by chart number after the accounts
// land.
func Seed(st *store.Store) error {
	existing, err := st.ListAccounts()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return fmt.Errorf("ledger already has %d accounts", len(existing))
	}

	defaults := DefaultAccounts()
	for i := range defaults {
		defaults[i].IsActive = true
	}
	if err := InsertAccounts(st, defaults); err != nil {
		return err
	}

	for _, spec := range DefaultFunds() {
		f := spec.Fund
		f.ID = uuid.NewString()
		if spec.NetAssetNumber != "" {
			acct, err := st.GetAccountByNumber(spec.NetAssetNumber)
			if err != nil {
				return fmt.Errorf("resolving net asset account %s: %w", spec.NetAssetNumber, err)
			}
			f.NetAssetAccountID = acct.ID
		}
		if err := st.InsertFund(f); err != nil {
			return err
		}
	}
	return nil
}

// InsertAccounts stores accounts, assigning IDs.
func InsertAccounts(st *store.Store, accounts []model.Account) error {
	for _, a := range accounts {
		a.ID = uuid.NewString()
		if err := st.InsertAccount(a); err != nil {
			return err
		}
	}
	return nil
}

// Export writes the ledger's chart of accounts as CSV.
func Export(st *store.Store, w io.Writer) error {
	accounts, err := st.ListAccounts()
	if err != nil {
		return err
	}
	return WriteAccounts(w, accounts)
}

// Import reads a chart CSV and inserts every account.
func Import(st *store.Store, r io.Reader) (int, error) {
	accounts, err := ReadAccounts(r)
	if err != nil {
		return 0, err
	}
	if err := InsertAccounts(st, accounts); err != nil {
		return 0, err
	}
	return len(accounts), nil
}

package model

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeIncome    AccountType = "income"
	AccountTypeExpense   AccountType = "expense"
)

// DebitNormal reports whether accounts of this type are increased by debits.
func (t AccountType) DebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeIncome, AccountTypeExpense:
		return true
	}
	return false
}

// Account is one row in the chart of accounts.
type Account struct {
	ID          string
	Number      string
	Name        string
	Type        AccountType
	Description string
	IsActive    bool
}

// Fund is a logical partition of resources (restricted or unrestricted).
// NetAssetAccountID optionally maps the fund's computed balance onto an
// equity account for balance-sheet presentation.
type Fund struct {
	ID                string
	Name              string
	Description       string
	IsRestricted      bool
	NetAssetAccountID string
}

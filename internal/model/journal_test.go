package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, WithinTolerance(dec("100.00"), dec("100.00")))
	assert.True(t, WithinTolerance(dec("100.00"), dec("100.005")))
	assert.False(t, WithinTolerance(dec("100.00"), dec("100.01")), "exactly one cent apart is out")
	assert.False(t, WithinTolerance(dec("100.00"), dec("99.98")))
}

func TestAccountTypeDebitNormal(t *testing.T) {
	assert.True(t, AccountTypeAsset.DebitNormal())
	assert.True(t, AccountTypeExpense.DebitNormal())
	assert.False(t, AccountTypeLiability.DebitNormal())
	assert.False(t, AccountTypeEquity.DebitNormal())
	assert.False(t, AccountTypeIncome.DebitNormal())
}

func TestBillRemainingBalance(t *testing.T) {
	b := Bill{Amount: dec("500.00"), AmountPaid: dec("125.50")}
	assert.True(t, b.RemainingBalance().Equal(dec("374.50")))
}

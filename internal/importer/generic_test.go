package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenericParser(t *testing.T) {
	csv := strings.Join([]string{
		"date,description,amount,reference",
		"2025-01-03,TITHELY DEPOSIT,2450.00,dep-8841",
		"2025-01-05,CITY POWER & LIGHT,-312.45,",
	}, "\n")

	txns, err := (&GenericParser{}).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), txns[0].Date)
	assert.Equal(t, "TITHELY DEPOSIT", txns[0].Description)
	assert.True(t, txns[0].Amount.Equal(dec("2450.00")))
	assert.Equal(t, "dep-8841", txns[0].Reference)

	assert.True(t, txns[1].Amount.IsNegative())
	// An empty reference column gets a synthesized one.
	assert.Equal(t, "bank_20250105_CITYPOWERL", txns[1].Reference)
}

func TestGenericParser_HeaderOnly(t *testing.T) {
	txns, err := (&GenericParser{}).Parse(strings.NewReader("date,description,amount,reference\n"))
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestGenericParser_BadRow(t *testing.T) {
	csv := "date,description,amount,reference\nnot-a-date,X,1.00,\n"
	_, err := (&GenericParser{}).Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")

	csv = "date,description,amount,reference\n2025-01-03,X,not-a-number,\n"
	_, err = (&GenericParser{}).Parse(strings.NewReader(csv))
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("generic"))
	assert.NotNil(t, r.Get("GENERIC"), "format lookup is case-insensitive")
	assert.Nil(t, r.Get("unknown"))

	assert.Panics(t, func() { r.Register(&GenericParser{}) })
}

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundbooks-dev/fundbooks/internal/assets"
	"github.com/fundbooks-dev/fundbooks/internal/balance"
	"github.com/fundbooks-dev/fundbooks/internal/chart"
	"github.com/fundbooks-dev/fundbooks/internal/payables"
	"github.com/fundbooks-dev/fundbooks/internal/posting"
	"github.com/fundbooks-dev/fundbooks/internal/reconcile"
	"github.com/fundbooks-dev/fundbooks/internal/recurring"
	"github.com/fundbooks-dev/fundbooks/internal/store"
)

// newTestServer wires the full service stack over an in-memory store
// seeded with the default chart.
func newTestServer(t *testing.T) (http.Handler, *store.Store) {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, chart.Seed(st))

	ps := posting.NewService(st, nil)
	srv := NewServer(st, ps, balance.NewService(st),
		payables.NewService(st, ps), assets.NewService(st, ps),
		recurring.NewService(st, ps), reconcile.NewService(st))
	return srv.Handler(), st
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestHealthz(t *testing.T) {
	h, _ := newTestServer(t)
	rec, env := doJSON(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestListAccounts(t *testing.T) {
	h, _ := newTestServer(t)
	rec, env := doJSON(t, h, http.MethodGet, "/api/v1/accounts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	accounts, ok := env.Data.([]any)
	require.True(t, ok)
	assert.NotEmpty(t, accounts)
}

// seededIDs resolves account and fund IDs from the default chart.
func seededIDs(t *testing.T, st *store.Store) (cash, expense, fund string) {
	t.Helper()
	cashAcct, err := st.GetAccountByNumber("1010")
	require.NoError(t, err)
	expenseAcct, err := st.GetAccountByNumber("5020")
	require.NoError(t, err)
	funds, err := st.ListFunds()
	require.NoError(t, err)
	for _, f := range funds {
		if f.Name == "General Fund" {
			return cashAcct.ID, expenseAcct.ID, f.ID
		}
	}
	t.Fatal("General Fund not seeded")
	return "", "", ""
}

func entryBody(cash, expense, fund, amount string) map[string]any {
	return map[string]any{
		"entry_date":  "2025-01-15",
		"description": "Electric bill",
		"lines": []map[string]any{
			{"account_id": expense, "fund_id": fund, "debit": amount},
			{"account_id": cash, "fund_id": fund, "credit": amount},
		},
	}
}

func TestPostEntry(t *testing.T) {
	h, st := newTestServer(t)
	cash, expense, fund := seededIDs(t, st)

	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/entries", entryBody(cash, expense, fund, "125.00"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.True(t, env.Success)

	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2025-01-001", data["reference_number"])
}

func TestPostEntry_ValidationError(t *testing.T) {
	h, st := newTestServer(t)
	cash, expense, fund := seededIDs(t, st)

	body := entryBody(cash, expense, fund, "125.00")
	body["lines"] = []map[string]any{
		{"account_id": expense, "fund_id": fund, "debit": "125.00"},
		{"account_id": cash, "fund_id": fund, "credit": "100.00"},
	}
	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/entries", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "validation failed")
}

func TestPostEntry_BadDate(t *testing.T) {
	h, _ := newTestServer(t)
	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/entries", map[string]any{
		"entry_date": "15/01/2025", "description": "x", "lines": []map[string]any{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid entry_date", env.Error)
}

func TestVoidEntry_NotFound(t *testing.T) {
	h, _ := newTestServer(t)
	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/entries/missing/void", map[string]any{"reason": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
}

func TestVoidEntry_Twice(t *testing.T) {
	h, st := newTestServer(t)
	cash, expense, fund := seededIDs(t, st)

	_, env := doJSON(t, h, http.MethodPost, "/api/v1/entries", entryBody(cash, expense, fund, "50.00"))
	entryID := env.Data.(map[string]any)["id"].(string)

	path := fmt.Sprintf("/api/v1/entries/%s/void", entryID)
	rec, _ := doJSON(t, h, http.MethodPost, path, map[string]any{"reason": "dup"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = doJSON(t, h, http.MethodPost, path, map[string]any{"reason": "again"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Error, "already voided")
}

func TestBalanceSheetReport(t *testing.T) {
	h, st := newTestServer(t)
	cash, expense, fund := seededIDs(t, st)
	_, env := doJSON(t, h, http.MethodPost, "/api/v1/entries", entryBody(cash, expense, fund, "125.00"))
	require.True(t, env.Success)

	rec, env := doJSON(t, h, http.MethodGet, "/api/v1/reports/balance-sheet?as_of=2025-01-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	data := env.Data.(map[string]any)
	assert.Equal(t, true, data["is_balanced"])
}

func TestUnknownFieldRejected(t *testing.T) {
	h, _ := newTestServer(t)
	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/vendors", map[string]any{
		"name": "x", "surprise": true,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Error, "invalid request body")
}

package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundbooks-dev/fundbooks/internal/model"
)

func startRecon(t *testing.T, st *Store, accountID string) model.Reconciliation {
	t.Helper()
	r := model.Reconciliation{
		ID:               uuid.NewString(),
		AccountID:        accountID,
		StatementDate:    date(2025, 1, 31),
		StatementBalance: dec("1000.00"),
		Status:           model.ReconInProgress,
	}
	require.NoError(t, st.InsertReconciliation(r))
	return r
}

func TestReconciliation_OnePerAccount(t *testing.T) {
	st, c := newTestStore(t)
	startRecon(t, st, c.cash)

	err := st.InsertReconciliation(model.Reconciliation{
		ID:               uuid.NewString(),
		AccountID:        c.cash,
		StatementDate:    date(2025, 2, 28),
		StatementBalance: dec("2000.00"),
		Status:           model.ReconInProgress,
	})
	assert.ErrorIs(t, err, ErrReconciliationInProgress)

	// A different account is unaffected.
	startRecon(t, st, c.payable)
}

func TestReconciliation_CompleteAllowsNext(t *testing.T) {
	st, c := newTestStore(t)
	r := startRecon(t, st, c.cash)

	require.NoError(t, st.CompleteReconciliation(r.ID, nil))

	got, err := st.GetReconciliation(r.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReconCompleted, got.Status)

	// The partial unique index only covers in-progress rows.
	startRecon(t, st, c.cash)
}

func TestInProgressReconciliation(t *testing.T) {
	st, c := newTestStore(t)

	_, err := st.InProgressReconciliation(c.cash)
	assert.ErrorIs(t, err, ErrNotFound)

	r := startRecon(t, st, c.cash)
	got, err := st.InProgressReconciliation(c.cash)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
	assert.True(t, got.StatementBalance.Equal(dec("1000.00")))
}

func TestUnclearedLines(t *testing.T) {
	st, c := newTestStore(t)
	_, firstLines := postEntry(t, st, c, date(2025, 1, 10), "Deposit", "100.00")
	postEntry(t, st, c, date(2025, 1, 20), "Check 101", "40.00")
	voidedID, _ := postEntry(t, st, c, date(2025, 1, 25), "Voided", "10.00")
	require.NoError(t, st.VoidEntry(voidedID, "oops", date(2025, 1, 26)))

	// Each entry contributes one cash line; the voided one is excluded.
	lines, err := st.UnclearedLines(c.cash)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	// Clearing a line in a completed reconciliation removes it.
	r := startRecon(t, st, c.cash)
	cashLine := firstLines[1]
	require.NoError(t, st.CompleteReconciliation(r.ID, []string{cashLine}))

	lines, err = st.UnclearedLines(c.cash)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.NotEqual(t, cashLine, lines[0].ID)
}

func TestGetLinesByID(t *testing.T) {
	st, c := newTestStore(t)
	_, lineIDs := postEntry(t, st, c, date(2025, 1, 10), "Deposit", "100.00")

	// lineIDs[1] is the cash line of the pair.
	lines, err := st.GetLinesByID(c.cash, lineIDs)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, c.cash, lines[0].AccountID)

	lines, err = st.GetLinesByID(c.cash, nil)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestDeleteReconciliation(t *testing.T) {
	st, c := newTestStore(t)
	r := startRecon(t, st, c.cash)

	require.NoError(t, st.DeleteReconciliation(r.ID))
	_, err := st.GetReconciliation(r.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Completed reconciliations are immutable.
	r2 := startRecon(t, st, c.cash)
	require.NoError(t, st.CompleteReconciliation(r2.ID, nil))
	assert.ErrorIs(t, st.DeleteReconciliation(r2.ID), ErrNotFound)
}

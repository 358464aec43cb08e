package auditlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndRead(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "logs"))

	ts := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	require.NoError(t, l.Append(
		Entry{Timestamp: ts, Action: "post", Details: "Electric bill", EntryID: "e1"},
		Entry{Timestamp: ts.Add(time.Minute), Action: "void", Details: "duplicate", EntryID: "e1"},
	))

	entries, err := l.Read()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "post", entries[0].Action)
	assert.Equal(t, "Electric bill", entries[0].Details)
	assert.True(t, entries[0].Timestamp.Equal(ts))
	assert.Equal(t, "void", entries[1].Action)
}

func TestAppend_HeaderWrittenOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	l := New(dir)

	require.NoError(t, l.Record("post", "first", "e1"))
	require.NoError(t, l.Record("post", "second", "e2"))

	data, err := os.ReadFile(filepath.Join(dir, "audit-log.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header))

	entries, err := l.Read()
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRead_NoFile(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "logs"))

	entries, err := l.Read()
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestAppend_DetailsWithCommasAndQuotes(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "logs"))

	details := `validation failed: line 1, account "cash" not found`
	require.NoError(t, l.Record("post", details, "e1"))

	entries, err := l.Read()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, details, entries[0].Details)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	cfg := Default("First Community Church")
	cfg.Server.Addr = ":9090"
	cfg.Database.Path = "books.db"
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("organization: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default("Hope Chapel")
	assert.Equal(t, "Hope Chapel", cfg.Organization.Name)
	assert.Equal(t, "church", cfg.Organization.Type)
	assert.Equal(t, "01-01", cfg.Fiscal.YearStart)
	assert.Equal(t, "fundbooks.db", cfg.Database.Path)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "1010", cfg.Import.CashAccount)
	assert.Equal(t, "General Fund", cfg.Import.DefaultFund)
}

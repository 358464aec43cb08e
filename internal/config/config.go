// Package config reads and writes fundbooks.yaml.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the default config file name in the data directory.
const FileName = "fundbooks.yaml"

// Config represents the top-level fundbooks.yaml configuration.
type Config struct {
	Organization OrganizationConfig `yaml:"organization"`
	Fiscal       FiscalConfig       `yaml:"fiscal"`
	Database     DatabaseConfig     `yaml:"database"`
	Server       ServerConfig       `yaml:"server"`
	Import       ImportConfig       `yaml:"import"`
}

// OrganizationConfig identifies the organization keeping the books.
type OrganizationConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"` // church, nonprofit
}

// FiscalConfig defines the fiscal year boundaries.
type FiscalConfig struct {
	YearStart string `yaml:"year_start"` // "MM-DD" format, e.g. "01-01"
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// ImportConfig maps bank imports onto the chart of accounts by number.
type ImportConfig struct {
	CashAccount    string `yaml:"cash_account"`
	ExpenseAccount string `yaml:"expense_account"`
	IncomeAccount  string `yaml:"income_account"`
	DefaultFund    string `yaml:"default_fund"` // fund name
}

// Load reads a fundbooks.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new organization.
func Default(orgName string) *Config {
	return &Config{
		Organization: OrganizationConfig{
			Name: orgName,
			Type: "church",
		},
		Fiscal: FiscalConfig{
			YearStart: "01-01",
		},
		Database: DatabaseConfig{
			Path: "fundbooks.db",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Import: ImportConfig{
			CashAccount:    "1010",
			ExpenseAccount: "5040",
			IncomeAccount:  "4010",
			DefaultFund:    "General Fund",
		},
	}
}

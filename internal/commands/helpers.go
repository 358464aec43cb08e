package commands

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fundbooks-dev/fundbooks/internal/assets"
	"github.com/fundbooks-dev/fundbooks/internal/auditlog"
	"github.com/fundbooks-dev/fundbooks/internal/balance"
	"github.com/fundbooks-dev/fundbooks/internal/config"
	"github.com/fundbooks-dev/fundbooks/internal/model"
	"github.com/fundbooks-dev/fundbooks/internal/payables"
	"github.com/fundbooks-dev/fundbooks/internal/posting"
	"github.com/fundbooks-dev/fundbooks/internal/reconcile"
	"github.com/fundbooks-dev/fundbooks/internal/recurring"
	"github.com/fundbooks-dev/fundbooks/internal/store"
)

const dateFormat = "2006-01-02"

// env is the opened ledger: config, store, and services over it.
type env struct {
	dir       string
	cfg       *config.Config
	store     *store.Store
	posting   *posting.Service
	balance   *balance.Service
	payables  *payables.Service
	assets    *assets.Service
	recurring *recurring.Service
	reconcile *reconcile.Service
}

// openEnv loads fundbooks.yaml from dir and opens everything behind it.
func openEnv(dir string) (*env, error) {
	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("loading config (did you run 'fundbooks init'?): %w", err)
	}

	dbPath := cfg.Database.Path
	if dbPath != ":memory:" && !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(dir, dbPath)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	ps := posting.NewService(st, auditlog.New(filepath.Join(dir, "logs")))
	return &env{
		dir:       dir,
		cfg:       cfg,
		store:     st,
		posting:   ps,
		balance:   balance.NewService(st),
		payables:  payables.NewService(st, ps),
		assets:    assets.NewService(st, ps),
		recurring: recurring.NewService(st, ps),
		reconcile: reconcile.NewService(st),
	}, nil
}

func (e *env) close() {
	e.store.Close()
}

// resolveAccount accepts a chart number or an account ID.
func (e *env) resolveAccount(ref string) (model.Account, error) {
	a, err := e.store.GetAccountByNumber(ref)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return model.Account{}, err
	}
	a, err = e.store.GetAccount(ref)
	if errors.Is(err, store.ErrNotFound) {
		return model.Account{}, fmt.Errorf("no account with number or ID %q", ref)
	}
	return a, err
}

// resolveFund accepts a fund name (case-insensitive) or a fund ID.
func (e *env) resolveFund(ref string) (model.Fund, error) {
	funds, err := e.store.ListFunds()
	if err != nil {
		return model.Fund{}, err
	}
	for _, f := range funds {
		if f.ID == ref || strings.EqualFold(f.Name, ref) {
			return f, nil
		}
	}
	return model.Fund{}, fmt.Errorf("no fund named %q", ref)
}

// parseAccountAmount parses a NUMBER=AMOUNT flag value like 5020=125.00.
func parseAccountAmount(s string) (string, decimal.Decimal, error) {
	ref, amt, ok := strings.Cut(s, "=")
	if !ok {
		return "", decimal.Zero, fmt.Errorf("expected ACCOUNT=AMOUNT, got %q", s)
	}
	d, err := decimal.NewFromString(amt)
	if err != nil {
		return "", decimal.Zero, fmt.Errorf("parsing amount %q: %w", amt, err)
	}
	return ref, d, nil
}

// parseDateFlag parses a YYYY-MM-DD flag, returning def when empty.
func parseDateFlag(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return d, nil
}

// todayUTC returns the current date at midnight UTC.
func todayUTC() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// buildLines resolves --debit and --credit flag values into posting line
// inputs, all on the given fund.
func (e *env) buildLines(fundID string, debits, credits []string, memo string) ([]model.LineInput, error) {
	var lines []model.LineInput
	for _, d := range debits {
		ref, amt, err := parseAccountAmount(d)
		if err != nil {
			return nil, err
		}
		acct, err := e.resolveAccount(ref)
		if err != nil {
			return nil, err
		}
		lines = append(lines, model.LineInput{AccountID: acct.ID, FundID: fundID, Debit: amt, Memo: memo})
	}
	for _, c := range credits {
		ref, amt, err := parseAccountAmount(c)
		if err != nil {
			return nil, err
		}
		acct, err := e.resolveAccount(ref)
		if err != nil {
			return nil, err
		}
		lines = append(lines, model.LineInput{AccountID: acct.ID, FundID: fundID, Credit: amt, Memo: memo})
	}
	return lines, nil
}

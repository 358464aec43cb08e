package commands

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fundbooks-dev/fundbooks/internal/store"
)

func newReconcileCommand(dir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile an account against a bank statement",
	}
	cmd.AddCommand(
		newReconcileStartCommand(dir),
		newReconcileStatusCommand(dir),
		newReconcileUnclearedCommand(dir),
		newReconcileFinalizeCommand(dir),
		newReconcileDiscardCommand(dir),
	)
	return cmd
}

func newReconcileStartCommand(dir *string) *cobra.Command {
	var (
		account     string
		dateFlag    string
		balanceFlag string
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Open a reconciliation against a statement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			acct, err := e.resolveAccount(account)
			if err != nil {
				return err
			}
			date, err := parseDateFlag(dateFlag, todayUTC())
			if err != nil {
				return err
			}
			bal, err := decimal.NewFromString(balanceFlag)
			if err != nil {
				return fmt.Errorf("parsing balance %q: %w", balanceFlag, err)
			}

			r, err := e.reconcile.Start(acct.ID, date, bal)
			if err != nil {
				return err
			}
			fmt.Printf("Started reconciliation %s for %s (statement balance %s)\n",
				r.ID, acct.Name, r.StatementBalance.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "1010", "account number to reconcile")
	cmd.Flags().StringVar(&dateFlag, "date", "", "statement date (default today)")
	cmd.Flags().StringVar(&balanceFlag, "balance", "", "statement ending balance (required)")
	_ = cmd.MarkFlagRequired("balance")

	return cmd
}

func newReconcileStatusCommand(dir *string) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the in-progress reconciliation for an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			acct, err := e.resolveAccount(account)
			if err != nil {
				return err
			}
			r, err := e.reconcile.InProgress(acct.ID)
			if errors.Is(err, store.ErrNotFound) {
				fmt.Printf("No reconciliation in progress for %s\n", acct.Name)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("Reconciliation %s: statement %s, balance %s\n",
				r.ID, r.StatementDate.Format(dateFormat), r.StatementBalance.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "1010", "account number")
	return cmd
}

func newReconcileUnclearedCommand(dir *string) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "uncleared",
		Short: "List uncleared ledger lines for an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			acct, err := e.resolveAccount(account)
			if err != nil {
				return err
			}
			lines, err := e.reconcile.Uncleared(acct.ID)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "Line ID\tDate\tDebit\tCredit\tMemo")
			for _, l := range lines {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					l.ID, l.EntryDate.Format(dateFormat),
					l.Debit.StringFixed(2), l.Credit.StringFixed(2), l.Memo)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "1010", "account number")
	return cmd
}

func newReconcileFinalizeCommand(dir *string) *cobra.Command {
	var lineIDs []string

	cmd := &cobra.Command{
		Use:   "finalize <reconciliation-id>",
		Short: "Complete a reconciliation with the selected lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			r, err := e.reconcile.Finalize(args[0], lineIDs)
			if err != nil {
				return err
			}
			fmt.Printf("Reconciliation %s completed: %d lines cleared\n", r.ID, len(r.ClearedLineIDs))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&lineIDs, "lines", nil, "comma-separated line IDs to clear (required)")
	_ = cmd.MarkFlagRequired("lines")

	return cmd
}

func newReconcileDiscardCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "discard <reconciliation-id>",
		Short: "Abandon an in-progress reconciliation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.reconcile.Discard(args[0]); err != nil {
				return err
			}
			fmt.Printf("Discarded reconciliation %s\n", args[0])
			return nil
		},
	}
}

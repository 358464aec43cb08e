package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/fundbooks-dev/fundbooks/internal/balance"
)

func newReportCommand(dir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Financial reports",
	}
	cmd.AddCommand(
		newBalanceSheetCommand(dir),
		newIncomeStatementCommand(dir),
		newFundReportCommand(dir),
	)
	return cmd
}

func newBalanceSheetCommand(dir *string) *cobra.Command {
	var asOfFlag string

	cmd := &cobra.Command{
		Use:   "balance-sheet",
		Short: "Statement of financial position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			asOf, err := parseDateFlag(asOfFlag, todayUTC())
			if err != nil {
				return err
			}
			bs, err := e.balance.BalanceSheet(asOf)
			if err != nil {
				return err
			}
			printBalanceSheet(bs)
			return nil
		},
	}

	cmd.Flags().StringVar(&asOfFlag, "as-of", "", "report date (YYYY-MM-DD, default today)")
	return cmd
}

func printBalanceSheet(bs balance.BalanceSheet) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Balance Sheet as of %s\n\n", bs.AsOf.Format(dateFormat))

	fmt.Fprintln(w, "ASSETS")
	for _, a := range bs.Assets {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", a.Number, a.Name, a.Balance.StringFixed(2))
	}
	fmt.Fprintf(w, "  \tTotal assets\t%s\n\n", bs.TotalAssets.StringFixed(2))

	fmt.Fprintln(w, "LIABILITIES")
	for _, a := range bs.Liabilities {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", a.Number, a.Name, a.Balance.StringFixed(2))
	}
	fmt.Fprintf(w, "  \tTotal liabilities\t%s\n\n", bs.TotalLiabilities.StringFixed(2))

	fmt.Fprintln(w, "NET ASSETS")
	for _, a := range bs.NetAssets {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", a.Number, a.Name, a.Balance.StringFixed(2))
	}
	fmt.Fprintf(w, "  \tTotal net assets\t%s\n\n", bs.TotalNetAssets.StringFixed(2))

	if bs.IsBalanced {
		fmt.Fprintln(w, "Balanced: assets = liabilities + net assets")
	} else {
		fmt.Fprintln(w, "WARNING: balance sheet does not balance")
	}
	w.Flush()
}

func newIncomeStatementCommand(dir *string) *cobra.Command {
	var fromFlag, toFlag string

	cmd := &cobra.Command{
		Use:   "income",
		Short: "Statement of activities for a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			from, to, err := periodFlags(fromFlag, toFlag)
			if err != nil {
				return err
			}
			is, err := e.balance.IncomeStatement(from, to)
			if err != nil {
				return err
			}
			printIncomeStatement(is)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "period start (default Jan 1 this year)")
	cmd.Flags().StringVar(&toFlag, "to", "", "period end (default today)")
	return cmd
}

func periodFlags(fromFlag, toFlag string) (time.Time, time.Time, error) {
	now := todayUTC()
	from, err := parseDateFlag(fromFlag, time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseDateFlag(toFlag, now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

func printIncomeStatement(is balance.IncomeStatement) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Income Statement %s through %s\n\n",
		is.PeriodStart.Format(dateFormat), is.PeriodEnd.Format(dateFormat))

	fmt.Fprintln(w, "INCOME")
	for _, a := range is.Income {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", a.Number, a.Name, a.Balance.StringFixed(2))
	}
	fmt.Fprintf(w, "  \tTotal income\t%s\n\n", is.TotalIncome.StringFixed(2))

	fmt.Fprintln(w, "EXPENSES")
	for _, a := range is.Expenses {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", a.Number, a.Name, a.Balance.StringFixed(2))
	}
	fmt.Fprintf(w, "  \tTotal expenses\t%s\n\n", is.TotalExpenses.StringFixed(2))

	fmt.Fprintf(w, "Net increase in net assets\t%s\n", is.NetIncrease.StringFixed(2))
	w.Flush()
}

func newFundReportCommand(dir *string) *cobra.Command {
	var fromFlag, toFlag string

	cmd := &cobra.Command{
		Use:   "funds",
		Short: "Per-fund activity summaries for a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			from, to, err := periodFlags(fromFlag, toFlag)
			if err != nil {
				return err
			}
			summaries, err := e.balance.AllFundSummaries(from, to)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "Fund\tRestricted\tBeginning\tIncome\tExpenses\tEnding")
			for _, fs := range summaries {
				restricted := ""
				if fs.IsRestricted {
					restricted = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					fs.FundName, restricted,
					fs.BeginningBalance.StringFixed(2),
					fs.TotalIncome.StringFixed(2),
					fs.TotalExpenses.StringFixed(2),
					fs.EndingBalance.StringFixed(2))
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "period start (default Jan 1 this year)")
	cmd.Flags().StringVar(&toFlag, "to", "", "period end (default today)")
	return cmd
}

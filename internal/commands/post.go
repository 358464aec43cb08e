package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fundbooks-dev/fundbooks/internal/model"
)

func newPostCommand(dir *string) *cobra.Command {
	var (
		date        string
		description string
		reference   string
		fund        string
		memo        string
		debits      []string
		credits     []string
	)

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post a balanced journal entry",
		Example: `  fundbooks post --description "Utility bill" --fund "General Fund" \
    --debit 5020=125.00 --credit 1010=125.00`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			entryDate, err := parseDateFlag(date, todayUTC())
			if err != nil {
				return err
			}
			f, err := e.resolveFund(fund)
			if err != nil {
				return err
			}
			lines, err := e.buildLines(f.ID, debits, credits, memo)
			if err != nil {
				return err
			}

			entry, err := e.posting.Post(model.EntryInput{
				EntryDate:       entryDate,
				Description:     description,
				ReferenceNumber: reference,
			}, lines)
			if err != nil {
				return err
			}

			fmt.Printf("Posted %s (%s)\n", entry.ReferenceNumber, entry.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "entry date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&description, "description", "", "entry description (required)")
	_ = cmd.MarkFlagRequired("description")
	cmd.Flags().StringVar(&reference, "reference", "", "reference number (default auto)")
	cmd.Flags().StringVar(&fund, "fund", "General Fund", "fund name or ID")
	cmd.Flags().StringVar(&memo, "memo", "", "line memo")
	cmd.Flags().StringArrayVar(&debits, "debit", nil, "debit line as ACCOUNT=AMOUNT (repeatable)")
	cmd.Flags().StringArrayVar(&credits, "credit", nil, "credit line as ACCOUNT=AMOUNT (repeatable)")

	return cmd
}

func newEntryCommand(dir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Inspect and void journal entries",
	}

	show := &cobra.Command{
		Use:   "show <entry-id>",
		Short: "Show a journal entry with its lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			entry, err := e.store.GetEntry(args[0])
			if err != nil {
				return err
			}
			lines, err := e.store.GetLines(args[0])
			if err != nil {
				return err
			}

			status := ""
			if entry.IsVoided {
				status = " [VOIDED: " + entry.VoidedReason + "]"
			}
			fmt.Printf("%s  %s  %s%s\n", entry.EntryDate.Format(dateFormat), entry.ReferenceNumber, entry.Description, status)
			for _, l := range lines {
				fmt.Printf("  %-36s  debit %10s  credit %10s  %s\n",
					l.AccountID, l.Debit.StringFixed(2), l.Credit.StringFixed(2), l.Memo)
			}
			return nil
		},
	}

	var reason string
	void := &cobra.Command{
		Use:   "void <entry-id>",
		Short: "Void a journal entry (lines stay on file but stop counting)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.posting.Void(args[0], reason); err != nil {
				return err
			}
			fmt.Printf("Voided %s\n", args[0])
			return nil
		},
	}
	void.Flags().StringVar(&reason, "reason", "", "void reason (required)")
	_ = void.MarkFlagRequired("reason")

	cmd.AddCommand(show, void)
	return cmd
}

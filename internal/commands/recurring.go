package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/fundbooks-dev/fundbooks/internal/model"
	"github.com/fundbooks-dev/fundbooks/internal/recurring"
)

func newRecurringCommand(dir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Manage recurring entry templates",
	}
	cmd.AddCommand(
		newRecurringAddCommand(dir),
		newRecurringListCommand(dir),
		newRecurringRunCommand(dir),
		newRecurringSetActiveCommand(dir, "enable", true),
		newRecurringSetActiveCommand(dir, "disable", false),
		newRecurringRunsCommand(dir),
	)
	return cmd
}

func newRecurringAddCommand(dir *string) *cobra.Command {
	var (
		description string
		fund        string
		frequency   string
		startDate   string
		endDate     string
		memo        string
		debits      []string
		credits     []string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a recurring template",
		Example: `  fundbooks recurring add "Monthly rent" --frequency monthly \
    --start-date 2026-01-01 --debit 5030=2000.00 --credit 1010=2000.00`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			f, err := e.resolveFund(fund)
			if err != nil {
				return err
			}
			start, err := parseDateFlag(startDate, todayUTC())
			if err != nil {
				return err
			}
			var end *time.Time
			if endDate != "" {
				d, err := parseDateFlag(endDate, time.Time{})
				if err != nil {
					return err
				}
				end = &d
			}

			inputs, err := e.buildLines(f.ID, debits, credits, memo)
			if err != nil {
				return err
			}
			lines := make([]model.TemplateLine, len(inputs))
			for i, l := range inputs {
				lines[i] = model.TemplateLine{
					AccountID: l.AccountID,
					Debit:     l.Debit,
					Credit:    l.Credit,
					Memo:      l.Memo,
				}
			}

			t, err := e.recurring.CreateTemplate(recurring.CreateTemplateParams{
				Name:        args[0],
				Description: description,
				FundID:      f.ID,
				Frequency:   model.Frequency(frequency),
				StartDate:   start,
				EndDate:     end,
				Lines:       lines,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created template %s (%s), next run %s\n",
				t.Name, t.ID, t.NextRunDate.Format(dateFormat))
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "entry description (default template name)")
	cmd.Flags().StringVar(&fund, "fund", "General Fund", "fund name or ID")
	cmd.Flags().StringVar(&frequency, "frequency", "monthly", "weekly, biweekly, monthly, quarterly, semiannually, yearly")
	cmd.Flags().StringVar(&startDate, "start-date", "", "first run date (default today)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "last eligible date (optional)")
	cmd.Flags().StringVar(&memo, "memo", "", "line memo")
	cmd.Flags().StringArrayVar(&debits, "debit", nil, "debit line as ACCOUNT=AMOUNT (repeatable)")
	cmd.Flags().StringArrayVar(&credits, "credit", nil, "credit line as ACCOUNT=AMOUNT (repeatable)")

	return cmd
}

func newRecurringListCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recurring templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			templates, err := e.recurring.ListTemplates()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tName\tFrequency\tAmount\tNext run\tActive")
			for _, t := range templates {
				active := "yes"
				if !t.IsActive {
					active = "no"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					t.ID, t.Name, t.Frequency, t.Amount.StringFixed(2),
					t.NextRunDate.Format(dateFormat), active)
			}
			w.Flush()
			return nil
		},
	}
}

func newRecurringRunCommand(dir *string) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fire all templates due today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			date, err := parseDateFlag(dateFlag, todayUTC())
			if err != nil {
				return err
			}
			result, err := e.recurring.Process(date)
			if err != nil {
				return err
			}
			for _, d := range result.Details {
				switch d.Outcome {
				case "fired":
					fmt.Printf("fired   %s  entry %s\n", d.Name, d.EntryID)
				case "failed":
					fmt.Printf("failed  %s  %s\n", d.Name, d.Reason)
				}
			}
			fmt.Printf("%d fired, %d failed, %d not due\n", result.Fired, result.Failed, result.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "process as of date (default today)")
	return cmd
}

func newRecurringSetActiveCommand(dir *string, verb string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <template-id>",
		Short: capitalize(verb) + " a recurring template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.recurring.SetActive(args[0], active); err != nil {
				return err
			}
			fmt.Printf("Template %s %sd\n", args[0], verb)
			return nil
		},
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

func newRecurringRunsCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "runs <template-id>",
		Short: "Show a template's execution history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			runs, err := e.recurring.Runs(args[0])
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "Date\tStatus\tEntry\tError")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					r.RunDate.Format(dateFormat), r.Status, r.JournalEntryID, r.Error)
			}
			w.Flush()
			return nil
		},
	}
}

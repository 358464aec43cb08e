package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fundbooks-dev/fundbooks/internal/importer"
)

func newImportCommand(dir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import bank statement CSVs",
	}
	cmd.AddCommand(
		newImportScanCommand(dir),
		newImportRunCommand(dir),
	)
	return cmd
}

func newImportScanCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "List CSV files waiting in import/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := importer.Scan(*dir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Println("No CSV files in import/")
				return nil
			}
			for _, f := range files {
				fmt.Printf("%s (%d bytes)\n", f.Name, f.Size)
			}
			return nil
		},
	}
}

func newImportRunCommand(dir *string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Book every CSV in import/, skipping duplicates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			accts, err := importAccounts(e)
			if err != nil {
				return err
			}

			files, err := importer.Scan(*dir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Println("No CSV files in import/")
				return nil
			}

			svc := importer.NewService(e.store, e.posting, importer.DefaultRegistry())
			for _, f := range files {
				result, err := svc.ImportFile(f.Path, format, accts)
				if err != nil {
					return fmt.Errorf("importing %s: %w", f.Name, err)
				}
				if err := importer.MarkProcessed(*dir, f.Name); err != nil {
					return err
				}
				fmt.Printf("%s: %d imported, %d duplicates skipped, %d failed\n",
					f.Name, result.Imported, result.Duplicates, result.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "generic", "bank CSV format")
	return cmd
}

// importAccounts resolves the config's import account numbers and default
// fund into IDs.
func importAccounts(e *env) (importer.Accounts, error) {
	cash, err := e.resolveAccount(e.cfg.Import.CashAccount)
	if err != nil {
		return importer.Accounts{}, fmt.Errorf("import cash account: %w", err)
	}
	expense, err := e.resolveAccount(e.cfg.Import.ExpenseAccount)
	if err != nil {
		return importer.Accounts{}, fmt.Errorf("import expense account: %w", err)
	}
	income, err := e.resolveAccount(e.cfg.Import.IncomeAccount)
	if err != nil {
		return importer.Accounts{}, fmt.Errorf("import income account: %w", err)
	}
	fund, err := e.resolveFund(e.cfg.Import.DefaultFund)
	if err != nil {
		return importer.Accounts{}, fmt.Errorf("import default fund: %w", err)
	}
	return importer.Accounts{
		CashAccountID:    cash.ID,
		ExpenseAccountID: expense.ID,
		IncomeAccountID:  income.ID,
		FundID:           fund.ID,
	}, nil
}

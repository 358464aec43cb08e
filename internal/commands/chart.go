package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fundbooks-dev/fundbooks/internal/chart"
)

func newChartCommand(dir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Export and import the chart of accounts",
	}

	export := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the chart of accounts to a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("creating %s: %w", args[0], err)
			}
			defer f.Close()

			if err := chart.Export(e.store, f); err != nil {
				return err
			}
			fmt.Printf("Exported chart of accounts to %s\n", args[0])
			return nil
		},
	}

	imp := &cobra.Command{
		Use:   "import <file>",
		Short: "Add accounts from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			n, err := chart.Import(e.store, f)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d accounts\n", n)
			return nil
		},
	}

	cmd.AddCommand(export, imp)
	return cmd
}

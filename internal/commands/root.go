// Package commands wires the fundbooks CLI.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fundbooks-dev/fundbooks/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var dir string

	rootCmd := &cobra.Command{
		Use:     "fundbooks",
		Short:   "Fund accounting for churches and small nonprofits",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dir, "dir", ".", "data directory")

	rootCmd.AddCommand(
		newInitCommand(&dir),
		newServeCommand(&dir),
		newPostCommand(&dir),
		newEntryCommand(&dir),
		newReportCommand(&dir),
		newVendorCommand(&dir),
		newBillCommand(&dir),
		newAssetCommand(&dir),
		newRecurringCommand(&dir),
		newReconcileCommand(&dir),
		newImportCommand(&dir),
		newChartCommand(&dir),
	)

	return rootCmd
}

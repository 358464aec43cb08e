package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fundbooks-dev/fundbooks/internal/assets"
	"github.com/fundbooks-dev/fundbooks/internal/model"
)

func newAssetCommand(dir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asset",
		Short: "Manage fixed assets and depreciation",
	}
	cmd.AddCommand(
		newAssetAddCommand(dir),
		newAssetListCommand(dir),
		newAssetDepreciateCommand(dir),
		newAssetDisposeCommand(dir),
		newAssetScheduleCommand(dir),
	)
	return cmd
}

func newAssetAddCommand(dir *string) *cobra.Command {
	var (
		priceFlag   string
		salvageFlag string
		lifeYears   int
		assetAcct   string
		accumAcct   string
		expenseAcct string
		fund        string
		startDate   string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a fixed asset for straight-line depreciation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			price, err := decimal.NewFromString(priceFlag)
			if err != nil {
				return fmt.Errorf("parsing price %q: %w", priceFlag, err)
			}
			salvage, err := decimal.NewFromString(salvageFlag)
			if err != nil {
				return fmt.Errorf("parsing salvage %q: %w", salvageFlag, err)
			}
			f, err := e.resolveFund(fund)
			if err != nil {
				return err
			}
			aAcct, err := e.resolveAccount(assetAcct)
			if err != nil {
				return err
			}
			dAcct, err := e.resolveAccount(accumAcct)
			if err != nil {
				return err
			}
			xAcct, err := e.resolveAccount(expenseAcct)
			if err != nil {
				return err
			}
			start, err := parseDateFlag(startDate, todayUTC())
			if err != nil {
				return err
			}

			asset, err := e.assets.CreateAsset(assets.CreateAssetParams{
				Name:                    args[0],
				PurchasePrice:           price,
				SalvageValue:            salvage,
				EstimatedLifeYears:      lifeYears,
				AssetAccountID:          aAcct.ID,
				AccumDepreciationAcctID: dAcct.ID,
				DepreciationExpenseAcct: xAcct.ID,
				FundID:                  f.ID,
				DepreciationStartDate:   start,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Registered asset %s (%s), depreciating %s over %d years\n",
				asset.Name, asset.ID, asset.DepreciableAmount().StringFixed(2), asset.EstimatedLifeYears)
			return nil
		},
	}

	cmd.Flags().StringVar(&priceFlag, "price", "", "purchase price (required)")
	_ = cmd.MarkFlagRequired("price")
	cmd.Flags().StringVar(&salvageFlag, "salvage", "0", "salvage value")
	cmd.Flags().IntVar(&lifeYears, "life-years", 0, "estimated life in years (required)")
	_ = cmd.MarkFlagRequired("life-years")
	cmd.Flags().StringVar(&assetAcct, "asset-account", "1520", "asset account number")
	cmd.Flags().StringVar(&accumAcct, "accum-account", "1590", "accumulated depreciation account number")
	cmd.Flags().StringVar(&expenseAcct, "expense-account", "5090", "depreciation expense account number")
	cmd.Flags().StringVar(&fund, "fund", "General Fund", "fund name or ID")
	cmd.Flags().StringVar(&startDate, "start-date", "", "depreciation start date (default today)")

	return cmd
}

func newAssetListCommand(dir *string) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List fixed assets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			list, err := e.assets.ListAssets(model.AssetStatus(status))
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tName\tPrice\tAccum\tBook\tStatus")
			for _, a := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					a.ID, a.Name,
					a.PurchasePrice.StringFixed(2),
					a.AccumulatedDepreciation.StringFixed(2),
					a.BookValue().StringFixed(2),
					a.Status)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (active, fully_depreciated, disposed)")
	return cmd
}

func newAssetDepreciateCommand(dir *string) *cobra.Command {
	var asOfFlag string

	cmd := &cobra.Command{
		Use:   "depreciate [asset-id]",
		Short: "Record a month of depreciation for one asset, or all active assets",
		Args:  cobra.MaximumNArgs(1),
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

			if len(args) == 1 {
				sched, err := e.assets.RecordDepreciation(args[0], asOf)
				if err != nil {
					return err
				}
				fmt.Printf("Depreciated %s for %s (accumulated %s)\n",
					args[0], sched.Amount.StringFixed(2), sched.Accumulated.StringFixed(2))
				return nil
			}

			result, err := e.assets.ProcessAll(asOf)
			if err != nil {
				return err
			}
			for _, d := range result.Details {
				switch d.Outcome {
				case "processed":
					fmt.Printf("processed  %s  %s\n", d.Name, d.Amount.StringFixed(2))
				default:
					fmt.Printf("%-9s  %s  %s\n", d.Outcome, d.Name, d.Reason)
				}
			}
			fmt.Printf("%d processed, %d skipped, %d failed\n", result.Processed, result.Skipped, result.Failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&asOfFlag, "as-of", "", "depreciation date (default today)")
	return cmd
}

func newAssetDisposeCommand(dir *string) *cobra.Command {
	var (
		priceFlag    string
		dateFlag     string
		proceedsAcct string
		gainLossAcct string
	)

	cmd := &cobra.Command{
		Use:   "dispose <asset-id>",
		Short: "Dispose of an asset, recognizing gain or loss",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			price, err := decimal.NewFromString(priceFlag)
			if err != nil {
				return fmt.Errorf("parsing price %q: %w", priceFlag, err)
			}
			date, err := parseDateFlag(dateFlag, todayUTC())
			if err != nil {
				return err
			}

			p := assets.DisposeParams{
				AssetID:       args[0],
				DisposalPrice: price,
				DisposalDate:  date,
			}
			if proceedsAcct != "" {
				acct, err := e.resolveAccount(proceedsAcct)
				if err != nil {
					return err
				}
				p.ProceedsAccountID = acct.ID
			}
			if gainLossAcct != "" {
				acct, err := e.resolveAccount(gainLossAcct)
				if err != nil {
					return err
				}
				p.GainLossAccountID = acct.ID
			}

			result, err := e.assets.Dispose(p)
			if err != nil {
				return err
			}
			fmt.Printf("Disposed %s: book value %s, gain/loss %s\n",
				result.Asset.Name, result.BookValue.StringFixed(2), result.GainLoss.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&priceFlag, "price", "0", "disposal proceeds")
	cmd.Flags().StringVar(&dateFlag, "date", "", "disposal date (default today)")
	cmd.Flags().StringVar(&proceedsAcct, "proceeds-account", "", "account debited with proceeds (required if price > 0)")
	cmd.Flags().StringVar(&gainLossAcct, "gain-loss-account", "", "gain/loss account (default: asset account)")

	return cmd
}

func newAssetScheduleCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule <asset-id>",
		Short: "Show an asset's depreciation history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			sched, err := e.assets.Schedule(args[0])
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "Period\tAmount\tAccumulated\tEnding value")
			for _, s := range sched {
				fmt.Fprintf(w, "%s to %s\t%s\t%s\t%s\n",
					s.PeriodStart.Format(dateFormat), s.PeriodEnd.Format(dateFormat),
					s.Amount.StringFixed(2), s.Accumulated.StringFixed(2), s.EndingValue.StringFixed(2))
			}
			w.Flush()
			return nil
		},
	}
}

package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fundbooks-dev/fundbooks/internal/model"
	"github.com/fundbooks-dev/fundbooks/internal/payables"
)

func newVendorCommand(dir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vendor",
		Short: "Manage vendors",
	}

	var contact, email, phone string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a vendor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			v, err := e.payables.CreateVendor(args[0], contact, email, phone)
			if err != nil {
				return err
			}
			fmt.Printf("Added vendor %s (%s)\n", v.Name, v.ID)
			return nil
		},
	}
	add.Flags().StringVar(&contact, "contact", "", "contact person")
	add.Flags().StringVar(&email, "email", "", "email address")
	add.Flags().StringVar(&phone, "phone", "", "phone number")

	list := &cobra.Command{
		Use:   "list",
		Short: "List vendors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			vendors, err := e.payables.ListVendors()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tName\tContact\tEmail")
			for _, v := range vendors {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", v.ID, v.Name, v.Contact, v.Email)
			}
			w.Flush()
			return nil
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}

func newBillCommand(dir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bill",
		Short: "Manage accounts payable",
	}
	cmd.AddCommand(
		newBillAddCommand(dir),
		newBillPayCommand(dir),
		newBillCancelCommand(dir),
		newBillListCommand(dir),
	)
	return cmd
}

func newBillAddCommand(dir *string) *cobra.Command {
	var (
		vendorID    string
		fund        string
		expense     string
		liability   string
		amountFlag  string
		invoiceDate string
		dueDate     string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a vendor bill (books expense against payable)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			amount, err := decimal.NewFromString(amountFlag)
			if err != nil {
				return fmt.Errorf("parsing amount %q: %w", amountFlag, err)
			}
			f, err := e.resolveFund(fund)
			if err != nil {
				return err
			}
			expAcct, err := e.resolveAccount(expense)
			if err != nil {
				return err
			}
			liabAcct, err := e.resolveAccount(liability)
			if err != nil {
				return err
			}
			invoice, err := parseDateFlag(invoiceDate, todayUTC())
			if err != nil {
				return err
			}
			due, err := parseDateFlag(dueDate, invoice)
			if err != nil {
				return err
			}

			bill, err := e.payables.CreateBill(payables.CreateBillParams{
				VendorID:           vendorID,
				FundID:             f.ID,
				ExpenseAccountID:   expAcct.ID,
				LiabilityAccountID: liabAcct.ID,
				Amount:             amount,
				InvoiceDate:        invoice,
				DueDate:            due,
				Description:        description,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Added bill %s for %s, due %s\n", bill.ID, bill.Amount.StringFixed(2), bill.DueDate.Format(dateFormat))
			return nil
		},
	}

	cmd.Flags().StringVar(&vendorID, "vendor", "", "vendor ID (required)")
	_ = cmd.MarkFlagRequired("vendor")
	cmd.Flags().StringVar(&fund, "fund", "General Fund", "fund name or ID")
	cmd.Flags().StringVar(&expense, "expense", "", "expense account number (required)")
	_ = cmd.MarkFlagRequired("expense")
	cmd.Flags().StringVar(&liability, "payable", "2010", "accounts payable account number")
	cmd.Flags().StringVar(&amountFlag, "amount", "", "bill amount (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&invoiceDate, "invoice-date", "", "invoice date (default today)")
	cmd.Flags().StringVar(&dueDate, "due-date", "", "due date (default invoice date)")
	cmd.Flags().StringVar(&description, "description", "", "bill description")

	return cmd
}

func newBillPayCommand(dir *string) *cobra.Command {
	var (
		amountFlag  string
		paymentDate string
		cash        string
	)

	cmd := &cobra.Command{
		Use:   "pay <bill-id>",
		Short: "Pay a bill in full or in part",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			bill, err := e.payables.GetBill(args[0])
			if err != nil {
				return err
			}

			amount := bill.RemainingBalance()
			if amountFlag != "" {
				amount, err = decimal.NewFromString(amountFlag)
				if err != nil {
					return fmt.Errorf("parsing amount %q: %w", amountFlag, err)
				}
			}
			date, err := parseDateFlag(paymentDate, todayUTC())
			if err != nil {
				return err
			}
			cashAcct, err := e.resolveAccount(cash)
			if err != nil {
				return err
			}

			paid, err := e.payables.PayBill(payables.PayBillParams{
				BillID:        bill.ID,
				Amount:        amount,
				PaymentDate:   date,
				CashAccountID: cashAcct.ID,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Paid %s on bill %s (status: %s, remaining: %s)\n",
				amount.StringFixed(2), paid.ID, paid.Status, paid.RemainingBalance().StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&amountFlag, "amount", "", "payment amount (default remaining balance)")
	cmd.Flags().StringVar(&paymentDate, "date", "", "payment date (default today)")
	cmd.Flags().StringVar(&cash, "cash", "1010", "cash account number")

	return cmd
}

func newBillCancelCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <bill-id>",
		Short: "Cancel an unpaid bill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.payables.CancelBill(args[0]); err != nil {
				return err
			}
			fmt.Printf("Cancelled bill %s\n", args[0])
			return nil
		},
	}
}

func newBillListCommand(dir *string) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bills",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			bills, err := e.payables.ListBills(model.BillStatus(status))
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDue\tAmount\tPaid\tStatus\tDescription")
			for _, b := range bills {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					b.ID, b.DueDate.Format(dateFormat),
					b.Amount.StringFixed(2), b.AmountPaid.StringFixed(2),
					b.Status, b.Description)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (unpaid, partial, paid, cancelled)")
	return cmd
}

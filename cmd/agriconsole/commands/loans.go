package commands

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/harvestline/agriconsole/pkg/console"
)

// NewLoansCommand creates the loans command group.
func NewLoansCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "loans",
		Aliases: []string{"loan"},
		Short:   "Manage farmer loans",
		Long:    "List, inspect, approve and record repayments on farmer loans",
	}

	cmd.AddCommand(newLoansListCommand())
	cmd.AddCommand(newLoansGetCommand())
	cmd.AddCommand(newLoansApproveCommand())
	cmd.AddCommand(newLoansRepayCommand())

	return cmd
}

func newLoansListCommand() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List loans",
		Long:  "List loans, optionally filtered by status (pending, active, repaid, defaulted)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, done, err := CreateClient(cmd)
			if err != nil {
				return err
			}
			defer done()

			loans, err := client.Loans().List(cmd.Context(), flags.params())
			if err != nil {
				return fmt.Errorf("failed to list loans: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), loans, func(w io.Writer) error {
				if len(loans.Data) == 0 {
					_, _ = io.WriteString(w, "No loans found\n")

					return nil
				}

				table := tablewriter.NewWriter(w)
				table.Header("ID", "Farmer", "Principal", "Rate", "Balance", "Status", "Due")

				for _, loan := range loans.Data {
					_ = table.Append(loan.ID, loan.FarmerID,
						formatAmount(loan.Principal),
						fmt.Sprintf("%.2f%%", loan.InterestRate),
						formatAmount(loan.Balance),
						displayStatus(loan.Status),
						formatOptionalDate(loan.DueDate))
				}

				err := renderTable(table)
				if err != nil {
					return err
				}

				renderPaginationHint(w, loans.Pagination)

				return nil
			})
		},
	}

	addListFlags(cmd, &flags)

	return cmd
}

func newLoansGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get LOAN_ID",
		Short: "Get loan details",
		Long:  "Display detailed information about a specific loan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, done, err := CreateClient(cmd)
			if err != nil {
				return err
			}
			defer done()

			loan, err := client.Loans().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get loan: %w", err)
			}

			return outputLoan(cmd.OutOrStdout(), loan)
		},
	}
}

func newLoansApproveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "approve LOAN_ID",
		Short: "Approve a loan",
		Long:  "Approve a pending loan application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, done, err := CreateClient(cmd)
			if err != nil {
				return err
			}
			defer done()

			loan, err := client.Loans().Approve(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to approve loan: %w", err)
			}

			return outputLoan(cmd.OutOrStdout(), loan)
		},
	}
}

func newLoansRepayCommand() *cobra.Command {
	var amount float64

	cmd := &cobra.Command{
		Use:   "repay LOAN_ID",
		Short: "Record a loan repayment",
		Long:  "Record a repayment against a loan and show the new balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, done, err := CreateClient(cmd)
			if err != nil {
				return err
			}
			defer done()

			loan, err := client.Loans().Repay(cmd.Context(), args[0], amount)
			if err != nil {
				return fmt.Errorf("failed to record repayment: %w", err)
			}

			return outputLoan(cmd.OutOrStdout(), loan)
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "repayment amount")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func outputLoan(w io.Writer, loan *console.Loan) error {
	return renderOutput(w, loan, func(w io.Writer) error {
		return renderDetails(w, [][2]string{
			{"ID", loan.ID},
			{"Farmer", loan.FarmerID},
			{"Principal", formatAmount(loan.Principal)},
			{"Interest Rate", fmt.Sprintf("%.2f%%", loan.InterestRate)},
			{"Balance", formatAmount(loan.Balance)},
			{"Status", displayStatus(loan.Status)},
			{"Approved", formatOptionalDate(loan.ApprovedAt)},
			{"Due", formatOptionalDate(loan.DueDate)},
		})
	})
}

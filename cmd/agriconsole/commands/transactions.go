package commands

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewTransactionsCommand creates the transactions command group.
func NewTransactionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"txn"},
		Short:   "View the ledger",
		Long:    "List ledger transactions (purchases, disbursements, repayments, payroll)",
	}

	cmd.AddCommand(newTransactionsListCommand())

	return cmd
}

func newTransactionsListCommand() *cobra.Command {
	var (
		flags    listFlags
		txnType  string
		farmerID string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Long:  "List ledger transactions, optionally by type or farmer",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, done, err := CreateClient(cmd)
			if err != nil {
				return err
			}
			defer done()

			params := flags.params()
			params.Filters = map[string]string{}

			if txnType != "" {
				params.Filters["type"] = txnType
			}

			if farmerID != "" {
				params.Filters["farmer_id"] = farmerID
			}

			transactions, err := client.Transactions().List(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), transactions, func(w io.Writer) error {
				if len(transactions.Data) == 0 {
					_, _ = io.WriteString(w, "No transactions found\n")

					return nil
				}

				table := tablewriter.NewWriter(w)
				table.Header("ID", "Type", "Amount", "Currency", "Farmer", "Reference", "Status", "Date")

				for _, txn := range transactions.Data {
					_ = table.Append(txn.ID,
						displayStatus(txn.Type),
						formatAmount(txn.Amount),
						orNotAvailable(txn.Currency),
						orNotAvailable(txn.FarmerID),
						orNotAvailable(txn.Reference),
						displayStatus(txn.Status),
						formatDate(txn.CreatedAt))
				}

				err := renderTable(table)
				if err != nil {
					return err
				}

				renderPaginationHint(w, transactions.Pagination)

				return nil
			})
		},
	}

	addListFlags(cmd, &flags)
	cmd.Flags().StringVar(&txnType, "type", "", "filter by transaction type")
	cmd.Flags().StringVar(&farmerID, "farmer", "", "filter by farmer ID")

	return cmd
}

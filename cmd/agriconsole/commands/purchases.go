package commands

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/harvestline/agriconsole/pkg/console"
)

// NewPurchasesCommand creates the purchases command group.
func NewPurchasesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "purchases",
		Aliases: []string{"purchase"},
		Short:   "View produce purchases",
		Long:    "List and inspect produce bought from farmers",
	}

	cmd.AddCommand(newPurchasesListCommand())
	cmd.AddCommand(newPurchasesGetCommand())

	return cmd
}

func newPurchasesListCommand() *cobra.Command {
	var (
		flags    listFlags
		farmerID string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List purchases",
		Long:  "List produce purchases, optionally for a single farmer",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, done, err := CreateClient(cmd)
			if err != nil {
				return err
			}
			defer done()

			params := flags.params()
			if farmerID != "" {
				params.Filters = map[string]string{"farmer_id": farmerID}
			}

			purchases, err := client.Purchases().List(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to list purchases: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), purchases, func(w io.Writer) error {
				if len(purchases.Data) == 0 {
					_, _ = io.WriteString(w, "No purchases found\n")

					return nil
				}

				table := tablewriter.NewWriter(w)
				table.Header("ID", "Farmer", "Commodity", "Quantity (kg)", "Price/kg", "Total", "Status", "Date")

				for _, purchase := range purchases.Data {
					_ = table.Append(purchase.ID, purchase.FarmerID, purchase.Commodity,
						formatAmount(purchase.QuantityKg),
						formatAmount(purchase.PricePerKg),
						formatAmount(purchase.TotalAmount),
						displayStatus(purchase.Status),
						formatDate(purchase.CreatedAt))
				}

				err := renderTable(table)
				if err != nil {
					return err
				}

				renderPaginationHint(w, purchases.Pagination)

				return nil
			})
		},
	}

	addListFlags(cmd, &flags)
	cmd.Flags().StringVar(&farmerID, "farmer", "", "only purchases from this farmer ID")

	return cmd
}

func newPurchasesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get PURCHASE_ID",
		Short: "Get purchase details",
		Long:  "Display detailed information about a specific purchase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, done, err := CreateClient(cmd)
			if err != nil {
				return err
			}
			defer done()

			purchase, err := client.Purchases().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get purchase: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), purchase, func(w io.Writer) error {
				return renderPurchaseDetails(w, purchase)
			})
		},
	}
}

func renderPurchaseDetails(w io.Writer, purchase *console.Purchase) error {
	return renderDetails(w, [][2]string{
		{"ID", purchase.ID},
		{"Farmer", purchase.FarmerID},
		{"Commodity", purchase.Commodity},
		{"Quantity (kg)", formatAmount(purchase.QuantityKg)},
		{"Price/kg", formatAmount(purchase.PricePerKg)},
		{"Total", formatAmount(purchase.TotalAmount)},
		{"Status", displayStatus(purchase.Status)},
		{"Date", formatDate(purchase.CreatedAt)},
	})
}

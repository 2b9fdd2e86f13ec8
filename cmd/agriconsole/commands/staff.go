package commands

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewStaffCommand creates the staff command group.
func NewStaffCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "View staff and payroll",
		Long:  "List staff members and show monthly payroll",
	}

	cmd.AddCommand(newStaffListCommand())
	cmd.AddCommand(newStaffPayrollCommand())

	return cmd
}

func newStaffListCommand() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List staff members",
		Long:  "List console and field staff accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, done, err := CreateClient(cmd)
			if err != nil {
				return err
			}
			defer done()

			members, err := client.Staff().List(cmd.Context(), flags.params())
			if err != nil {
				return fmt.Errorf("failed to list staff: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), members, func(w io.Writer) error {
				if len(members.Data) == 0 {
					_, _ = io.WriteString(w, "No staff found\n")

					return nil
				}

				table := tablewriter.NewWriter(w)
				table.Header("ID", "Name", "Email", "Role", "Salary", "Active")

				for _, member := range members.Data {
					_ = table.Append(member.ID, member.Name, member.Email,
						displayStatus(member.Role),
						formatAmount(member.Salary),
						strconv.FormatBool(member.Active))
				}

				err := renderTable(table)
				if err != nil {
					return err
				}

				renderPaginationHint(w, members.Pagination)

				return nil
			})
		},
	}

	addListFlags(cmd, &flags)

	return cmd
}

func newStaffPayrollCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "payroll [YYYY-MM]",
		Short: "Show monthly payroll",
		Long:  "Show gross pay, deductions and net pay for every staff member. Defaults to the current month.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month := time.Now().Format("2006-01")
			if len(args) == 1 {
				month = args[0]
			}

			client, done, err := CreateClient(cmd)
			if err != nil {
				return err
			}
			defer done()

			payroll, err := client.Staff().Payroll(cmd.Context(), month)
			if err != nil {
				return fmt.Errorf("failed to get payroll: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), payroll, func(w io.Writer) error {
				if len(payroll.Data) == 0 {
					_, _ = fmt.Fprintf(w, "No payroll entries for %s\n", month)

					return nil
				}

				table := tablewriter.NewWriter(w)
				table.Header("Staff", "Gross", "Deductions", "Net", "Status", "Paid")

				var net float64

				for _, entry := range payroll.Data {
					net += entry.Net

					_ = table.Append(orNotAvailable(entry.StaffName),
						formatAmount(entry.Gross),
						formatAmount(entry.Deductions),
						formatAmount(entry.Net),
						displayStatus(entry.Status),
						formatOptionalDate(entry.PaidAt))
				}

				err := renderTable(table)
				if err != nil {
					return err
				}

				_, _ = fmt.Fprintf(w, "\nTotal net pay for %s: %s\n", month, formatAmount(net))

				return nil
			})
		},
	}
}

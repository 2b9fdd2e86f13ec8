package commands

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/harvestline/agriconsole/internal/constants"
	"github.com/harvestline/agriconsole/pkg/console"
)

// NewFarmersCommand creates the farmers command group.
func NewFarmersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "farmers",
		Aliases: []string{"farmer"},
		Short:   "Manage farmers",
		Long:    "List, inspect, register and remove farmers and their documents",
	}

	cmd.AddCommand(newFarmersListCommand())
	cmd.AddCommand(newFarmersGetCommand())
	cmd.AddCommand(newFarmersCreateCommand())
	cmd.AddCommand(newFarmersDeleteCommand())
	cmd.AddCommand(newFarmersUploadCommand())

	return cmd
}

func newFarmersListCommand() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List farmers",
		Long:  "List registered farmers, optionally filtered by search text or status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, done, err := CreateClient(cmd)
			if err != nil {
				return err
			}
			defer done()

			farmers, err := client.Farmers().List(cmd.Context(), flags.params())
			if err != nil {
				return fmt.Errorf("failed to list farmers: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), farmers, func(w io.Writer) error {
				return renderFarmersTable(w, farmers)
			})
		},
	}

	addListFlags(cmd, &flags)

	return cmd
}

func renderFarmersTable(w io.Writer, farmers *console.ListResponse[console.Farmer]) error {
	if len(farmers.Data) == 0 {
		_, _ = io.WriteString(w, "No farmers found\n")

		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Name", "Phone", "Village", "Farm (ha)", "Status")

	for _, farmer := range farmers.Data {
		_ = table.Append(farmer.ID,
			strings.TrimSpace(farmer.FirstName+" "+farmer.LastName),
			orNotAvailable(farmer.Phone),
			orNotAvailable(farmer.Village),
			formatAmount(farmer.FarmSizeHa),
			displayStatus(farmer.Status))
	}

	err := renderTable(table)
	if err != nil {
		return err
	}

	renderPaginationHint(w, farmers.Pagination)

	return nil
}

func newFarmersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get FARMER_ID",
		Short: "Get farmer details",
		Long:  "Display detailed information about a specific farmer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, done, err := CreateClient(cmd)
			if err != nil {
				return err
			}
			defer done()

			farmer, err := client.Farmers().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get farmer: %w", err)
			}

			return outputFarmer(cmd.OutOrStdout(), farmer)
		},
	}
}

func outputFarmer(w io.Writer, farmer *console.Farmer) error {
	return renderOutput(w, farmer, func(w io.Writer) error {
		return renderDetails(w, [][2]string{
			{"ID", farmer.ID},
			{"First Name", farmer.FirstName},
			{"Last Name", farmer.LastName},
			{"Phone", orNotAvailable(farmer.Phone)},
			{"National ID", orNotAvailable(farmer.NationalID)},
			{"Village", orNotAvailable(farmer.Village)},
			{"Cooperative", orNotAvailable(farmer.Cooperative)},
			{"Farm Size (ha)", formatAmount(farmer.FarmSizeHa)},
			{"Status", displayStatus(farmer.Status)},
			{"Registered", formatDate(farmer.CreatedAt)},
		})
	})
}

func newFarmersCreateCommand() *cobra.Command {
	var request console.FarmerCreateRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a farmer",
		Long:  "Register a new farmer record",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, done, err := CreateClient(cmd)
			if err != nil {
				return err
			}
			defer done()

			farmer, err := client.Farmers().Create(cmd.Context(), &request)
			if err != nil {
				return fmt.Errorf("failed to create farmer: %w", err)
			}

			return outputFarmer(cmd.OutOrStdout(), farmer)
		},
	}

	cmd.Flags().StringVar(&request.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&request.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&request.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&request.NationalID, "national-id", "", "national ID number")
	cmd.Flags().StringVar(&request.Village, "village", "", "village")
	cmd.Flags().StringVar(&request.Cooperative, "cooperative", "", "cooperative")
	cmd.Flags().Float64Var(&request.FarmSizeHa, "farm-size", 0, "farm size in hectares")

	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	_ = cmd.MarkFlagRequired("phone")

	return cmd
}

func newFarmersDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete FARMER_ID",
		Short: "Delete a farmer",
		Long:  "Remove a farmer record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, done, err := CreateClient(cmd)
			if err != nil {
				return err
			}
			defer done()

			err = client.Farmers().Delete(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete farmer: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted farmer %s\n", args[0])

			return nil
		},
	}
}

func newFarmersUploadCommand() *cobra.Command {
	var fieldName string

	cmd := &cobra.Command{
		Use:   "upload FARMER_ID FILE",
		Short: "Upload a farmer document",
		Long:  "Attach a document (ID scan, land title, contract) to a farmer record. Uploads are not retried.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := openUpload(args[1])
			if err != nil {
				return err
			}
			defer file.Close()

			client, done, err := CreateClient(cmd)
			if err != nil {
				return err
			}
			defer done()

			document, err := client.Farmers().UploadDocument(cmd.Context(), args[0], console.FileUpload{
				FieldName:   fieldName,
				FileName:    filepath.Base(args[1]),
				ContentType: mime.TypeByExtension(filepath.Ext(args[1])),
				Reader:      file,
			})
			if err != nil {
				return fmt.Errorf("failed to upload document: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), document, func(w io.Writer) error {
				return renderDetails(w, [][2]string{
					{"ID", document.ID},
					{"Farmer", document.FarmerID},
					{"File", document.FileName},
					{"URL", orNotAvailable(document.URL)},
				})
			})
		},
	}

	cmd.Flags().StringVar(&fieldName, "field", "", "multipart field name (default \"file\")")

	return cmd
}

// openUpload opens a local regular file for upload.
func openUpload(path string) (*os.File, error) {
	if slices.Contains(strings.Split(filepath.ToSlash(path), "/"), "..") {
		return nil, fmt.Errorf("%w: %s", constants.ErrDirectoryTraversal, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat upload: %w", err)
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", constants.ErrNotRegularFile, path)
	}

	// #nosec G304 -- the operator chooses which local file to upload
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}

	return file, nil
}

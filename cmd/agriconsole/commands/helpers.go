package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/harvestline/agriconsole/internal/constants"
	"github.com/harvestline/agriconsole/pkg/console"
)

const (
	// JSON and YAML indentation.
	defaultIndent = 2

	dateFormat     = "2006-01-02"
	dateTimeFormat = "2006-01-02 15:04:05"
)

var (
	titleCaser     = cases.Title(language.English)
	amountPrinter  = message.NewPrinter(language.English)
	defaultPerPage = 20
)

// StandardJSONRenderer writes data as indented JSON.
func StandardJSONRenderer[T any](w io.Writer, data T) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", strings.Repeat(" ", defaultIndent))

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer writes data as YAML.
func StandardYAMLRenderer[T any](w io.Writer, data T) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(defaultIndent)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return encoder.Close()
}

// renderOutput writes data in the configured output format. The table
// renderer is used for "table" and for an empty setting.
func renderOutput[T any](w io.Writer, data T, table func(io.Writer) error) error {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		return StandardJSONRenderer(w, data)
	case constants.FormatYAML:
		return StandardYAMLRenderer(w, data)
	case constants.FormatTable, "":
		return table(w)
	default:
		return constants.ErrInvalidOutput
	}
}

func renderTable(table *tablewriter.Table) error {
	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderDetails prints a two-column property table.
func renderDetails(w io.Writer, rows [][2]string) error {
	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")

	for _, row := range rows {
		_ = table.Append(row[0], row[1])
	}

	return renderTable(table)
}

func renderPaginationHint(w io.Writer, pagination console.Pagination) {
	if pagination.TotalPages > 1 {
		_, _ = fmt.Fprintf(w, "\nShowing page %d of %d (%d total). Use --page to see more.\n",
			max(pagination.Page, 1), pagination.TotalPages, pagination.Total)
	}
}

func displayStatus(status string) string {
	if status == "" {
		return constants.NotAvailable
	}

	return titleCaser.String(strings.ReplaceAll(status, "_", " "))
}

func orNotAvailable(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}

func formatAmount(amount float64) string {
	return amountPrinter.Sprintf("%.2f", amount)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return constants.NotAvailable
	}

	return t.Local().Format(dateFormat)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return constants.NotAvailable
	}

	return formatDate(*t)
}

// listFlags are the filters shared by every list command.
type listFlags struct {
	page    int
	perPage int
	search  string
	status  string
}

func addListFlags(cmd *cobra.Command, flags *listFlags) {
	cmd.Flags().IntVar(&flags.page, "page", 1, "page to fetch")
	cmd.Flags().IntVar(&flags.perPage, "per-page", defaultPerPage, "results per page")
	cmd.Flags().StringVar(&flags.search, "search", "", "free-text search")
	cmd.Flags().StringVar(&flags.status, "status", "", "filter by status")
}

func (f *listFlags) params() *console.QueryParams {
	return &console.QueryParams{
		Page:    f.page,
		PerPage: f.perPage,
		Search:  f.search,
		Status:  f.status,
	}
}

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/catalens/catalens/internal/catalog"
	"github.com/catalens/catalens/internal/export"
	"github.com/catalens/catalens/internal/pager"
)

var (
	dataOffset    int
	dataLimit     int
	dataOrderBy   string
	dataOrderDesc bool
	dataFormat    string
	dataOutput    string
)

var dataCmd = &cobra.Command{
	Use:   "data <path>",
	Short: "Fetch a page of rows from a table",
	Long: `Fetch one server-side page of rows. With --output the page is written
as CSV or JSON; otherwise a plain table is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, cleanup, err := newCatalog()
		if err != nil {
			return err
		}
		defer cleanup()

		q := catalog.DataQuery{
			Offset:    dataOffset,
			Limit:     dataLimit,
			OrderBy:   dataOrderBy,
			OrderDesc: dataOrderDesc,
		}
		data, err := cat.GetTableData(context.Background(), args[0], q)
		if err != nil {
			return fmt.Errorf("fetching rows: %w", err)
		}

		rows := make([]pager.IndexedRow, len(data.Rows))
		for i, row := range data.Rows {
			rows[i] = pager.IndexedRow{Index: i, Row: row}
		}

		if dataOutput != "" {
			format, err := export.ParseFormat(dataFormat)
			if err != nil {
				return err
			}
			if err := export.WriteFile(dataOutput, format, data.Columns, rows); err != nil {
				return fmt.Errorf("writing %s: %w", dataOutput, err)
			}
			fmt.Printf("Wrote %d rows to %s\n", len(rows), dataOutput)
			return nil
		}

		for _, col := range data.Columns {
			fmt.Printf("%-24s", col.Name)
		}
		fmt.Println()
		for _, row := range rows {
			for _, col := range data.Columns {
				fmt.Printf("%-24s", pager.FormatValue(row.Row[col.Name]))
			}
			fmt.Println()
		}
		fmt.Fprintf(os.Stderr, "\n%d of %d rows (offset %d)\n",
			len(rows), data.TotalCount, data.Offset)
		return nil
	},
}

func init() {
	dataCmd.Flags().IntVar(&dataOffset, "offset", 0, "row offset")
	dataCmd.Flags().IntVar(&dataLimit, "limit", 50, "page size (server caps at 500)")
	dataCmd.Flags().StringVar(&dataOrderBy, "order-by", "", "sort column")
	dataCmd.Flags().BoolVar(&dataOrderDesc, "desc", false, "sort descending")
	dataCmd.Flags().StringVar(&dataFormat, "format", "csv", "export format (csv, json)")
	dataCmd.Flags().StringVar(&dataOutput, "output", "", "write the page to a file instead of stdout")
	rootCmd.AddCommand(dataCmd)
}

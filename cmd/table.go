package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var tableCmd = &cobra.Command{
	Use:   "table <path>",
	Short: "Show a table's schema, base, and indexes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, cleanup, err := newCatalog()
		if err != nil {
			return err
		}
		defer cleanup()

		record, err := cat.GetTableMetadata(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("fetching table metadata: %w", err)
		}

		fmt.Printf("%s  [%s]\n", record.Path, record.Kind)
		if record.Base != "" {
			fmt.Printf("Base: %s\n", record.Base)
		}
		if record.Comment != "" {
			fmt.Printf("Comment: %s\n", record.Comment)
		}

		fmt.Printf("\nColumns (%d):\n", len(record.Columns))
		for _, col := range record.Columns {
			line := fmt.Sprintf("  %-30s %-20s", col.Name, col.DataType)
			if col.IsPrimaryKey {
				line += "  pk"
			}
			if col.IsComputed {
				line += fmt.Sprintf("  computed: %s", col.ComputedWith)
			}
			if col.DefinedIn != "" && col.DefinedIn != record.Path {
				line += fmt.Sprintf("  from %s", col.DefinedIn)
			}
			fmt.Println(line)
		}

		if len(record.Indices) > 0 {
			fmt.Printf("\nIndexes (%d):\n", len(record.Indices))
			for _, idx := range record.Indices {
				fmt.Printf("  %-30s %-24s %s\n", idx.Name, idx.Column, idx.IndexType)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tableCmd)
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/catalens/catalens/internal/search"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search directories, tables, and columns by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, cleanup, err := newCatalog()
		if err != nil {
			return err
		}
		defer cleanup()

		results, err := cat.Search(context.Background(), args[0], searchLimit)
		if err != nil {
			return fmt.Errorf("searching: %w", err)
		}

		index := search.NewIndex(results)
		if index.Len() == 0 {
			fmt.Println("No matches.")
			return nil
		}

		for _, item := range index.Items() {
			switch item.Kind {
			case search.ItemDirectory:
				fmt.Printf("  dir    %-36s %s\n", item.Name(), item.Directory.Path)
			case search.ItemTable:
				fmt.Printf("  %-6s %-36s %s\n", item.Table.Kind, item.Name(), item.Table.Path)
			case search.ItemColumn:
				kind := "column"
				if item.Column.IsComputed {
					kind = "comp"
				}
				fmt.Printf("  %-6s %-36s %s (%s)\n", kind, item.Name(), item.Column.Table, item.Column.DataType)
			}
		}
		fmt.Printf("\n%d results\n", index.Len())
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "max results per group (server caps at 100)")
	rootCmd.AddCommand(searchCmd)
}

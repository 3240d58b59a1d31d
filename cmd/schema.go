package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/catalens/catalens/internal/catalog"
	"github.com/catalens/catalens/internal/relgraph"
)

var schemaRelationships bool

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Show whole-catalog schema counters and relationships",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, cleanup, err := newCatalog()
		if err != nil {
			return err
		}
		defer cleanup()

		info, err := cat.GetInformationSchema(context.Background())
		if err != nil {
			return fmt.Errorf("fetching information schema: %w", err)
		}

		s := info.Summary
		fmt.Printf("Directories:      %d\n", s.TotalDirectories)
		fmt.Printf("Tables:           %d\n", s.TotalTables)
		fmt.Printf("Rows:             %d\n", s.TotalRows)
		fmt.Printf("Columns:          %d (%d computed)\n", s.TotalColumns, s.TotalComputedColumns)
		fmt.Printf("Indexes:          %d\n", s.TotalIndices)

		fmt.Println()
		for _, t := range info.Tables {
			line := fmt.Sprintf("  %-40s %-9s %10d rows  %3d cols", t.Path, t.Kind, t.RowCount, t.ColumnCount)
			if t.Base != "" {
				line += "  base " + t.Base
			}
			fmt.Println(line)
		}

		if schemaRelationships {
			printRelationships(info)
		}
		return nil
	},
}

func printRelationships(info *catalog.InformationSchema) {
	g := relgraph.Build(info.Tables, info.Columns)
	if len(g.Edges) == 0 {
		fmt.Println("\nNo table relationships.")
		return
	}
	fmt.Println("\nRelationships:")
	for _, e := range g.Edges {
		verb := "references"
		if e.Class == relgraph.EdgeBase {
			verb = "derives from"
		}
		fmt.Printf("  %s %s %s\n", e.Target, verb, e.Source)
	}
	if isolated := g.Isolated(); len(isolated) > 0 {
		fmt.Printf("\n%d isolated tables\n", len(isolated))
	}
}

func init() {
	schemaCmd.Flags().BoolVar(&schemaRelationships, "relationships", false, "include the table relationship graph")
	rootCmd.AddCommand(schemaCmd)
}

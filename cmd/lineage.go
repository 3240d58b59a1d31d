package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/catalens/catalens/internal/lineage"
)

var lineageCmd = &cobra.Command{
	Use:   "lineage <path>",
	Short: "Show a table's column lineage graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, cleanup, err := newCatalog()
		if err != nil {
			return err
		}
		defer cleanup()

		lin, err := cat.GetColumnLineage(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("fetching lineage: %w", err)
		}

		g := lineage.Build(lin)
		if g.Empty() {
			fmt.Printf("%s has no column lineage: every column is plainly stored.\n", args[0])
			return nil
		}

		nodesByID := make(map[string]lineage.Node, len(g.Nodes))
		for _, n := range g.Nodes {
			nodesByID[n.ID] = n
		}

		for _, group := range g.Groups {
			fmt.Printf("%s\n", group.Table)
			for _, id := range group.NodeIDs {
				n := nodesByID[id]
				switch n.Kind {
				case lineage.KindComputed:
					fmt.Printf("  %-30s %-16s computed: %s\n", n.Name, n.DataType, n.Expression)
				case lineage.KindExternal:
					fmt.Printf("  %-30s %-16s external\n", n.Name, n.DataType)
				default:
					fmt.Printf("  %-30s %-16s stored\n", n.Name, n.DataType)
				}
			}
			fmt.Println()
		}

		if len(g.Edges) > 0 {
			fmt.Println("Derivations:")
			for _, e := range g.Edges {
				src, dst := nodesByID[e.Source], nodesByID[e.Target]
				fmt.Printf("  %s.%s -> %s.%s\n", src.OwningTable, src.Name, dst.OwningTable, dst.Name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lineageCmd)
}

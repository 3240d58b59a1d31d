package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/catalens/catalens/internal/catalog"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the catalog directory tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, cleanup, err := newCatalog()
		if err != nil {
			return err
		}
		defer cleanup()

		roots, err := cat.ListDirectoryTree(context.Background())
		if err != nil {
			return fmt.Errorf("listing directory tree: %w", err)
		}
		if len(roots) == 0 {
			fmt.Println("The catalog is empty.")
			return nil
		}
		for _, root := range roots {
			printTree(root, 0)
		}
		return nil
	},
}

func printTree(node *catalog.DirTreeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	if node.Kind == catalog.KindDirectory {
		fmt.Printf("%s%s/\n", indent, node.Name)
	} else {
		fmt.Printf("%s%s  [%s]\n", indent, node.Name, node.Kind)
	}
	for _, child := range node.Children {
		printTree(child, depth+1)
	}
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

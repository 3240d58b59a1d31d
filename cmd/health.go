package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the catalog backend is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, cleanup, err := newCatalog()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		start := time.Now()
		if err := cat.HealthCheck(ctx); err != nil {
			return fmt.Errorf("catalog unhealthy: %w", err)
		}
		fmt.Printf("OK (%s)\n", time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

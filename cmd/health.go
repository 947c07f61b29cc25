package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check nutrition service connectivity",
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	client := newClient(cfg)

	status, err := client.Health(context.Background())
	if err != nil {
		return fmt.Errorf("health check failed for %s: %w", client.BaseURL(), err)
	}

	fmt.Println(status.Summary())
	return nil
}

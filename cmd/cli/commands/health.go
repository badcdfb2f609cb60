package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// GetHealthCmd returns the health command
func GetHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := apiClient.HealthCheck(context.Background())
			if err != nil {
				return fmt.Errorf("error checking health: %w", err)
			}
			return render(cmd, resp, []string{"Status"}, [][]string{{resp.Status}})
		},
	}
}

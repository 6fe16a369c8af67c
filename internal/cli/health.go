package cli

import (
	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HealthResult

			if err := client.Get(cmd.Context(), "/api/v1/health", nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

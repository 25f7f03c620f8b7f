package cli

import (
	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check portal health",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := client.Health(cmd.Context())
			if err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(h)
			return nil
		},
	}
}

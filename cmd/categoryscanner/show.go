package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"CategoryScanner/internal/app"
)

// NewShowCmd renders the stored report of an earlier run.
func NewShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Render a stored run report",
		Long: `show loads the repeated categories persisted for a run id from the
configured database and renders them in the selected report format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return app.Show(ctx, cfg, args[0], cmd.OutOrStdout())
		},
	}
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cirisai/stackcheck/internal/stackcheck"
	"github.com/cirisai/stackcheck/internal/stackcheck/probe"
)

// Check that every service of the stack is up.
func probeCmd(app *stackcheck.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Probe the liveness of the node, the engine and any configured redis or postgres.",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(cmd.Flags(), map[string]string{"timeout": "probeTimeout"}); err != nil {
				return err
			}
			return initParams(cmd, app)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			return app.Probe(ctx)
		},
	}

	cmd.Flags().Duration("timeout", probe.DefaultTimeout, "Timeout of each liveness probe.")

	return cmd
}

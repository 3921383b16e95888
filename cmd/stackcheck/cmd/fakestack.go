package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cirisai/stackcheck/internal/stackcheck"
	"github.com/cirisai/stackcheck/internal/stackcheck/fakestack"
	"github.com/cirisai/stackcheck/pkg/client"
)

// Serve a fake stack for local runs of the other commands.
func fakeStackCmd(app *stackcheck.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fakestack",
		Short: "Serve a fake orchestration node and ethics engine until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			nodeAddr, err := flags.GetString("node-addr")
			if err != nil {
				return err
			}
			engineAddr, err := flags.GetString("engine-addr")
			if err != nil {
				return err
			}
			synchronous, err := flags.GetBool("synchronous")
			if err != nil {
				return err
			}
			requireAuth, err := flags.GetBool("require-auth")
			if err != nil {
				return err
			}
			rejectEmptyBatch, err := flags.GetBool("reject-empty-batch")
			if err != nil {
				return err
			}

			ctx, cancel := commandContext()
			defer cancel()
			return app.FakeStack(ctx, &stackcheck.FakeStackConfig{
				NodeAddr:   nodeAddr,
				EngineAddr: engineAddr,
				Node: fakestack.NodeOptions{
					Credentials: client.LoginCredentials{Username: "test", Password: "test"},
					Synchronous: synchronous,
					RequireAuth: requireAuth,
				},
				Engine: fakestack.EngineOptions{
					RejectEmptyBatch: rejectEmptyBatch,
				},
			})
		},
	}

	cmd.Flags().String("node-addr", "localhost:8000", "Listen address of the fake node.")
	cmd.Flags().String("engine-addr", "localhost:8080", "Listen address of the fake engine.")
	cmd.Flags().Bool("synchronous", false, "Answer benchmark runs synchronously with results.")
	cmd.Flags().Bool("require-auth", false, "Reject benchmark requests without the issued token.")
	cmd.Flags().Bool("reject-empty-batch", false, "Answer empty batches with 422.")

	return cmd
}

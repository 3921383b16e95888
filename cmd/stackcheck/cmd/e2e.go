package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cirisai/stackcheck/internal/stackcheck"
	"github.com/cirisai/stackcheck/internal/stackcheck/suite"
)

// Run the live checks against a running stack.
// Prints a summary on exit.
func e2eCmd(app *stackcheck.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "e2e",
		Short: "Run the integration, e2e, resilience and mock checks against a running stack.",
		Long: `Run the integration, e2e, resilience and mock checks against a running stack.

Checks that need the stack are skipped, not failed, when either service is down.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(cmd.Flags(), map[string]string{"metrics-addr": "metricsAddr"}); err != nil {
				return err
			}
			return initParams(cmd, app)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			groupNames, err := cmd.Flags().GetStringSlice("group")
			if err != nil {
				return err
			}
			groups := make([]suite.Group, 0, len(groupNames))
			for _, name := range groupNames {
				group, err := suite.ParseGroup(name)
				if err != nil {
					return err
				}
				groups = append(groups, group)
			}
			junitFile, err := cmd.Flags().GetString("junit")
			if err != nil {
				return err
			}

			ctx, cancel := commandContext()
			defer cancel()
			return app.E2E(ctx, &stackcheck.E2EConfig{
				Groups:    groups,
				JUnitFile: junitFile,
			})
		},
	}

	cmd.Flags().StringSlice("group", nil, "Run only these groups: integration, e2e, resilience, mock.")
	cmd.Flags().String("junit", "", "Also write results as JUnit XML to this file.")
	cmd.Flags().String("metrics-addr", "", "Serve prometheus metrics on this address while checks run, e.g. :9090.")

	return cmd
}

// Run the checks that need no live engine.
func mockCmd(app *stackcheck.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Run the checks that use a canned engine response instead of the live engine.",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initParams(cmd, app)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			return app.Mock(ctx)
		},
	}
	return cmd
}

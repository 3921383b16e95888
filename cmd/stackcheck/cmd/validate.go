package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cirisai/stackcheck/internal/stackcheck"
	"github.com/cirisai/stackcheck/internal/stackcheck/artifacts"
)

// Check the CI/CD artifacts of a staging checkout.
func validateCmd(app *stackcheck.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the compose files, workflows, configs and scripts of a staging checkout.",
		Long: fmt.Sprintf(`Validate the compose files, workflows, configs and scripts of a staging checkout.

Validators:
  %s`, strings.Join(validatorDescriptions(), "\n  ")),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(cmd.Flags(), map[string]string{"root": "root"}); err != nil {
				return err
			}
			return initParams(cmd, app)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			only, err := cmd.Flags().GetStringSlice("only")
			if err != nil {
				return err
			}
			junitFile, err := cmd.Flags().GetString("junit")
			if err != nil {
				return err
			}
			return app.Validate(&stackcheck.ValidateConfig{
				Only:      only,
				JUnitFile: junitFile,
			})
		},
	}

	cmd.Flags().String("root", ".", "Root of the staging checkout (env STACKCHECK_ROOT).")
	cmd.Flags().StringSlice("only", nil, "Run only these validators, e.g. --only compose,workflows.")
	cmd.Flags().String("junit", "", "Also write results as JUnit XML to this file.")

	return cmd
}

func validatorDescriptions() []string {
	validators := artifacts.Validators()
	descriptions := make([]string, len(validators))
	for i, v := range validators {
		descriptions[i] = fmt.Sprintf("%-14s %s", v.Name, v.Description)
	}
	return descriptions
}

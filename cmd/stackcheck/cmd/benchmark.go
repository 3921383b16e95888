package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cirisai/stackcheck/internal/stackcheck"
	"github.com/cirisai/stackcheck/internal/stackcheck/benchmark"
	"github.com/cirisai/stackcheck/pkg/client/cirisnode"
)

// Submit a benchmark and poll it until it finishes.
// Prints a report on exit.
func benchmarkCmd(app *stackcheck.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Submit a benchmark to the node and poll the job until it completes, fails or times out.",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			err := bindFlags(cmd.Flags(), map[string]string{
				"timeout":      "benchmark.timeout",
				"interval":     "benchmark.interval",
				"metrics-addr": "metricsAddr",
			})
			if err != nil {
				return err
			}
			return initParams(cmd, app)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			benchmarkType, err := flags.GetString("type")
			if err != nil {
				return err
			}
			scenarios, err := flags.GetInt("scenarios")
			if err != nil {
				return err
			}
			categories, err := flags.GetStringArray("category")
			if err != nil {
				return err
			}
			runs, err := flags.GetInt("runs")
			if err != nil {
				return err
			}
			output, err := flags.GetString("output")
			if err != nil {
				return err
			}

			seed, err := flags.GetInt("seed")
			if err != nil {
				return err
			}

			request := cirisnode.RunRequest{
				BenchmarkType: benchmarkType,
				NScenarios:    scenarios,
				Seed:          &seed,
				Categories:    categories,
			}

			ctx, cancel := commandContext()
			defer cancel()
			return app.Benchmark(ctx, &stackcheck.BenchmarkConfig{
				Request: request,
				Runs:    runs,
				Output:  output,
			})
		},
	}

	cmd.Flags().String("type", cirisnode.BenchmarkTypeHE300, "Benchmark type.")
	cmd.Flags().Int("scenarios", 5, "Number of scenarios to run.")
	cmd.Flags().Int("seed", 42, "Scenario sampling seed.")
	cmd.Flags().StringArray("category", nil, "Restrict scenarios to this category. May be repeated.")
	cmd.Flags().Duration("timeout", benchmark.DefaultTimeout, "How long to poll the job before giving up (env E2E_TIMEOUT, in seconds).")
	cmd.Flags().Duration("interval", benchmark.DefaultInterval, "Time between status polls.")
	cmd.Flags().Int("runs", 1, "Number of sequential runs; more than one prints aggregate statistics.")
	cmd.Flags().StringP("output", "o", "text", "Report format: text, yaml or json.")
	cmd.Flags().String("metrics-addr", "", "Serve prometheus metrics on this address while the benchmark runs, e.g. :9090.")

	return cmd
}

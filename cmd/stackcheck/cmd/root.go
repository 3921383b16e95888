package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cirisai/stackcheck/internal/common"
	"github.com/cirisai/stackcheck/internal/stackcheck"
	"github.com/cirisai/stackcheck/internal/stackcheck/configuration"
	"github.com/cirisai/stackcheck/pkg/client"
)

// RootCmd is the root Cobra command that gets called from the main func.
// All other sub-commands should be registered here.
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stackcheck",
		Short: "stackcheck validates and exercises an HE-300 staging stack.",
		Long: `stackcheck validates and exercises an HE-300 staging stack.

It checks the CI/CD artifacts of a staging checkout, probes the orchestration node
and the ethics engine, runs the live integration, e2e and resilience checks, and
drives benchmark jobs to completion.

Persistent config can be saved in a config file so it doesn't have to be specified every command.

Example structure:
cirisNodeUrl: http://localhost:8000
eeeUrl: http://localhost:8080
basicAuth:
  username: test
  password: test
benchmark:
  timeout: 300
redis:
  addr: localhost:6379

The location of this file can be passed in using the --config argument.
If not provided, $HOME/.stackcheck.yaml is used.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "config file (default is $HOME/.stackcheck.yaml)")
	cmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")

	client.AddApiConnectionCommandlineArgs(cmd)
	configuration.SetDefaults(viper.GetViper())

	cmd.AddCommand(
		versionCmd(stackcheck.New()),
		validateCmd(stackcheck.New()),
		probeCmd(stackcheck.New()),
		e2eCmd(stackcheck.New()),
		benchmarkCmd(stackcheck.New()),
		mockCmd(stackcheck.New()),
		fakeStackCmd(stackcheck.New()),
	)

	return cmd
}

// bindFlags binds command-local flags to viper keys. It runs in PreRunE so that
// commands sharing a key don't overwrite each other's binding.
func bindFlags(flags *pflag.FlagSet, keysByFlag map[string]string) error {
	for name, key := range keysByFlag {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

func initParams(cmd *cobra.Command, app *stackcheck.App) error {
	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return err
	}
	if err := common.ConfigureLogLevel(logLevel); err != nil {
		return err
	}

	cfgFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if err := client.LoadCommandlineArgsFromConfigFile(cfgFile); err != nil {
		return err
	}

	app.Params.ApiConnectionDetails, err = client.ExtractCommandlineApiConnectionDetails()
	if err != nil {
		return err
	}
	app.Params.Config, err = configuration.Load(viper.GetViper())
	return err
}

package client

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cirisai/stackcheck/internal/common/config"
)

const configName = ".stackcheck"

// AddApiConnectionCommandlineArgs registers the connection flags on rootCmd and binds them,
// together with their environment variables, into viper.
func AddApiConnectionCommandlineArgs(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()
	flags.String("cirisNodeUrl", DefaultCirisNodeUrl, "base url of the benchmark orchestration node (env CIRISNODE_URL)")
	flags.String("eeeUrl", DefaultEeeUrl, "base url of the ethics engine (env EEE_URL)")
	flags.String("username", "test", "username exchanged for a bearer token")
	flags.String("password", "test", "password exchanged for a bearer token")
	flags.String("token", "", "static bearer token; skips the token exchange (env STACKCHECK_TOKEN)")
	flags.Duration("requestTimeout", DefaultRequestTimeout, "timeout for a single http call")

	_ = viper.BindPFlag("cirisNodeUrl", flags.Lookup("cirisNodeUrl"))
	_ = viper.BindPFlag("eeeUrl", flags.Lookup("eeeUrl"))
	_ = viper.BindPFlag("basicAuth.username", flags.Lookup("username"))
	_ = viper.BindPFlag("basicAuth.password", flags.Lookup("password"))
	_ = viper.BindPFlag("token", flags.Lookup("token"))
	_ = viper.BindPFlag("requestTimeout", flags.Lookup("requestTimeout"))

	_ = viper.BindEnv("cirisNodeUrl", "CIRISNODE_URL")
	_ = viper.BindEnv("eeeUrl", "EEE_URL")
	_ = viper.BindEnv("token", "STACKCHECK_TOKEN")
}

// LoadCommandlineArgsFromConfigFile merges cfgFile, or $HOME/.stackcheck.yaml if cfgFile is empty, into viper.
// A missing default config file is not an error.
func LoadCommandlineArgsFromConfigFile(cfgFile string) error {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			return fmt.Errorf("[LoadCommandlineArgsFromConfigFile] error getting user home directory: %s", err)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(configName)
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	err := viper.MergeInConfig()
	if err != nil {
		switch err.(type) {
		case viper.ConfigFileNotFoundError:
			// Only occurs when looking for the default config file.
			// Users don't have to provide one.
		case *os.PathError:
			if cfgFile != "" {
				return fmt.Errorf("[LoadCommandlineArgsFromConfigFile] error reading config file %s: %s", cfgFile, err)
			}
		default:
			return fmt.Errorf("[LoadCommandlineArgsFromConfigFile] error reading config file %s: %s", viper.ConfigFileUsed(), err)
		}
	}
	return nil
}

// ExtractCommandlineApiConnectionDetails decodes the connection details from viper and validates them.
func ExtractCommandlineApiConnectionDetails() (*ApiConnectionDetails, error) {
	apiConnectionDetails := &ApiConnectionDetails{}
	if err := viper.Unmarshal(apiConnectionDetails, config.CustomHooks...); err != nil {
		return nil, err
	}
	if err := config.Validate(apiConnectionDetails); err != nil {
		return nil, err
	}
	return apiConnectionDetails, nil
}

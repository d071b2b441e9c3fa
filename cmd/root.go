/*
	Copyright 2023 Markus Papenbrock
*/

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	listCmd "github.com/mpapenbr/garage61-mcp-go/pkg/cmd/list"
	resolveCmd "github.com/mpapenbr/garage61-mcp-go/pkg/cmd/resolve"
	serveCmd "github.com/mpapenbr/garage61-mcp-go/pkg/cmd/serve"
	"github.com/mpapenbr/garage61-mcp-go/pkg/config"
	"github.com/mpapenbr/garage61-mcp-go/version"
)

const envPrefix = "G61"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "g61",
	Short:   "Garage61 lap and telemetry lookups for MCP clients",
	Long:    ``,
	Version: version.FullVersion,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.g61.yml)")

	rootCmd.PersistentFlags().StringVar(&config.Token, "token", "",
		"Garage61 API token")
	rootCmd.PersistentFlags().StringVar(&config.BaseURL, "base-url",
		config.DefaultBaseURL,
		"base URL of the Garage61 API")
	rootCmd.PersistentFlags().StringVar(&config.RequestTimeout, "request-timeout",
		"30s",
		"timeout for a single API request")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat,
		"log-format",
		"text",
		"controls the log output format (json, text)")
	rootCmd.PersistentFlags().StringVar(&config.LogFilter,
		"log-filter",
		"",
		"zapfilter rules, e.g. '*:resolver debug+:*'")

	// add commands here
	rootCmd.AddCommand(serveCmd.NewServeCmd())
	rootCmd.AddCommand(resolveCmd.NewResolveCmd())
	rootCmd.AddCommand(listCmd.NewListCmd())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".g61" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".g61")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindFlags(rootCmd, viper.GetViper())
	for _, cmd := range rootCmd.Commands() {
		bindFlags(cmd, viper.GetViper())
	}
}

// unprefixed env names checked after the G61_ ones
var legacyEnv = map[string]string{
	"token":    config.LegacyTokenEnv,
	"base-url": config.LegacyBaseURLEnv,
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --favorite-color to STING_FAVORITE_COLOR
		fallback, hasFallback := legacyEnv[f.Name]
		if strings.Contains(f.Name, "-") || hasFallback {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			envNames := []string{fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)}
			if hasFallback {
				envNames = append(envNames, fallback)
			}
			if err := v.BindEnv(append([]string{f.Name}, envNames...)...); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}

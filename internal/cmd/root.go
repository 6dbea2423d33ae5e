// Package cmd wires configuration, storage and the HTTP server into the foodexpress CLI.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vvakame/foodexpress/internal/config"
)

// NewRootCommand builds the command tree. Each call gets its own viper instance.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:           "foodexpress",
		Short:         "GraphQL API of the FoodExpress food delivery demo",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")

	loadConfig := func() (*config.Config, error) {
		return config.Load(v, cfgFile)
	}

	rootCmd.AddCommand(
		newServeCommand(v, loadConfig),
		newFixturesCommand(),
		newSnapshotCommand(loadConfig),
	)

	return rootCmd
}

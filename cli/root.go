// Package cli implements the sqlcanvas command line interface.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/sqlcanvas/sqlcanvas/server/config"
)

const defaultConfigFile = "sqlcanvas.yml"

var rootCmd = &cobra.Command{
	Use:   "sqlcanvas",
	Short: "A per-user SQL workbench with AI-assisted schema inference",
	Long: `sqlcanvas serves isolated per-user SQL databases behind a JSON API.

Each user works against a private database. When a query references tables
that do not exist yet, an AI provider can propose and materialize the missing
schema, after which the query is retried once. Successful SELECT results can
be classified into chart types for rendering.`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

// loadConfigFromFlags loads the configuration named by --config. Without the
// flag it tries the default config file and then built-in defaults; an
// explicitly named file that fails to load is an error.
func loadConfigFromFlags(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.LoadConfig(path)
	}
	if cfg, err := config.LoadConfig(defaultConfigFile); err == nil {
		return cfg, nil
	}
	return config.LoadDefaultConfig(), nil
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/sqlcanvas/sqlcanvas/server/config"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a new sqlcanvas deployment",
	Long: `Initialize a sqlcanvas deployment directory with a default configuration
file, the per-user database root and the metadata store location.

If no directory is given, the current directory is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

type initOptions struct {
	backend string
}

var initOpts = &initOptions{}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initOpts.backend, "backend", "sqlite", "storage backend (sqlite|postgres)")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	cfgPath := filepath.Join(dir, defaultConfigFile)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	cfg := config.LoadDefaultConfig()
	cfg.Storage.Backend = initOpts.backend
	if initOpts.backend == "postgres" {
		cfg.Storage.PostgresDSN = "postgres://localhost:5432/sqlcanvas"
	}
	cfg.Storage.DataPath = filepath.Join(dir, "data", "user_dbs")
	cfg.Metadata.Path = filepath.Join(dir, "data", "sqlcanvas.db")
	cfg.Log.FilePath = filepath.Join(dir, "logs", "sqlcanvas-server.log")

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Storage.DataPath, 0755); err != nil {
		return err
	}
	if err := config.SaveConfig(cfg, cfgPath); err != nil {
		return err
	}

	pterm.Success.Printf("Initialized sqlcanvas deployment in %s\n", dir)
	fmt.Printf("  config:   %s\n", cfgPath)
	fmt.Printf("  data:     %s\n", cfg.Storage.DataPath)
	fmt.Printf("  metadata: %s\n", cfg.Metadata.Path)
	return nil
}

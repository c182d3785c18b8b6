package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dukerupert/leanfuel/internal/config"
	"github.com/dukerupert/leanfuel/internal/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "leanfuel",
	Short:         "LeanFuel weight-loss companion backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("LEANFUEL_CONFIG"), "path to YAML config file")
	rootCmd.AddCommand(serveCmd, groceryCmd, caloriesCmd, vapidKeysCmd, backupCmd)
}

// loadConfig reads configuration and sets up the default logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.Setup(cfg.Log.Level, cfg.Log.Format), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

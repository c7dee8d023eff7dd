package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go-equipment-analytics/internal/config"
	"go-equipment-analytics/pkg/logger"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:          "equipmentctl",
	Short:        "Operator tooling for the equipment analytics service",
	Long:         `equipmentctl manages users, analyzes CSV files offline and applies the dataset retention policy against the configured database and storage.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		mode := "production"
		if debug {
			mode = "development"
		}
		l, err := logger.New(mode)
		if err != nil {
			return err
		}
		log = l
		return nil
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./equipment.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

// loadConfig reads configuration for commands that touch the database or storage.
func loadConfig() error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = c
	return nil
}

package main

import (
	"fmt"

	"github.com/jgoulah/fleetdash/internal/config"
	"github.com/jgoulah/fleetdash/internal/logging"
	"github.com/jgoulah/fleetdash/internal/source"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "fleetdash",
	Short: "Report machine hours, diesel use and fuel costs",
	Long: `FleetDash is a read-only reporting tool over two logs kept by another system:
machine operating hours and diesel refueling. It filters them by period and machine
and reports per-machine fuel efficiency, costs, and totals by site, operator and supplier.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// loadConfig loads the configuration file and sets up logging from it
func loadConfig(jsonLogs bool) (*config.Config, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return nil, err
	}

	level := cfg.GetLogLevel()
	if logLevel != "" {
		level = logLevel
	}
	logging.Init(jsonLogs, logging.ParseLevel(level))

	return cfg, nil
}

// openLogs opens the hours and fuel logs named in the config
func openLogs(cfg *config.Config) (source.Logs, error) {
	logs, err := source.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening logs: %w", err)
	}
	return logs, nil
}

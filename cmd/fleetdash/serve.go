package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/jgoulah/fleetdash/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve reports over HTTP",
	Long: `Starts a JSON API. Both logs are re-read on every request.

Endpoints:
  GET /healthz
  GET /api/report?start=&end=&machine=&unit_cost=&strict=
  GET /api/machines`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: config, then :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	addr := cfg.GetServerAddr()
	if serveAddr != "" {
		addr = serveAddr
	}

	logs, err := openLogs(cfg)
	if err != nil {
		return err
	}
	defer logs.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.New(logs, cfg.GetUnitCost()).Run(ctx, addr)
}

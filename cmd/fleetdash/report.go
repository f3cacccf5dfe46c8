package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/jgoulah/fleetdash/internal/render"
	"github.com/jgoulah/fleetdash/internal/report"
	"github.com/spf13/cobra"
)

var (
	reportStart    string
	reportEnd      string
	reportMachine  string
	reportUnitCost float64
	reportFormat   string
	reportStrict   bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the fuel and hours report",
	Long: `Loads both logs, applies the period and machine filters and prints the summary
by machine, by site, by operator and by supplier along with fleet totals.

Dates may be given as YYYY-MM-DD or DD/MM/YYYY. Without --start/--end the period
covers every dated record in the logs.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportStart, "start", "", "First day of the period (default: earliest record)")
	reportCmd.Flags().StringVar(&reportEnd, "end", "", "Last day of the period (default: latest record)")
	reportCmd.Flags().StringVar(&reportMachine, "machine", report.AllMachines, "Machine id to report on")
	reportCmd.Flags().Float64Var(&reportUnitCost, "unit-cost", -1, "Diesel price per liter (default: config, then 6.00)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "text", "Output format: text or json")
	reportCmd.Flags().BoolVar(&reportStrict, "strict", false, "Fail when any value had to be defaulted")
	rootCmd.AddCommand(reportCmd)
}

// parseFlagDate parses an optional date flag
func parseFlagDate(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, ok := report.ParseDate(value)
	if !ok {
		return nil, fmt.Errorf("invalid --%s date: %s (use YYYY-MM-DD or DD/MM/YYYY)", name, value)
	}
	return &t, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	if reportFormat != "text" && reportFormat != "json" {
		return fmt.Errorf("unknown format: %s (available: text, json)", reportFormat)
	}

	cfg, err := loadConfig(false)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	opts := report.Options{
		Machine:  reportMachine,
		UnitCost: cfg.GetUnitCost(),
		Strict:   reportStrict,
	}
	if cmd.Flags().Changed("unit-cost") {
		opts.UnitCost = reportUnitCost
	}
	if opts.Start, err = parseFlagDate("start", reportStart); err != nil {
		return err
	}
	if opts.End, err = parseFlagDate("end", reportEnd); err != nil {
		return err
	}

	logs, err := openLogs(cfg)
	if err != nil {
		return err
	}
	defer logs.Close()

	rep, err := report.Generate(cmd.Context(), logs, opts)
	if errors.Is(err, report.ErrNoData) {
		fmt.Fprintf(cmd.OutOrStdout(), "No hours or fuel data to display yet.\n")
		return nil
	}
	if err != nil {
		return fmt.Errorf("building report: %w", err)
	}

	if reportFormat == "json" {
		return render.JSON(cmd.OutOrStdout(), rep)
	}
	return render.Text(cmd.OutOrStdout(), rep)
}

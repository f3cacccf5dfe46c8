package main

import (
	"errors"
	"fmt"

	"github.com/jgoulah/fleetdash/internal/report"
	"github.com/spf13/cobra"
)

var machinesCmd = &cobra.Command{
	Use:   "machines",
	Short: "List machines found in the logs",
	Long:  `Lists every machine id that appears in either log, plus the first and last dated record.`,
	RunE:  runMachines,
}

func init() {
	rootCmd.AddCommand(machinesCmd)
}

func runMachines(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logs, err := openLogs(cfg)
	if err != nil {
		return err
	}
	defer logs.Close()

	out := cmd.OutOrStdout()
	cat, err := report.Describe(cmd.Context(), logs)
	if errors.Is(err, report.ErrNoData) {
		fmt.Fprintf(out, "No hours or fuel data to display yet.\n")
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading logs: %w", err)
	}

	if cat.First != nil {
		fmt.Fprintf(out, "Records from %s to %s\n", cat.First.Format("02/01/2006"), cat.Last.Format("02/01/2006"))
	} else {
		fmt.Fprintf(out, "No dated records\n")
	}
	fmt.Fprintln(out, "----------------------------------------")
	for _, m := range cat.Machines {
		fmt.Fprintln(out, m)
	}
	fmt.Fprintln(out, "----------------------------------------")
	fmt.Fprintf(out, "Total: %d machines\n", len(cat.Machines))

	return nil
}

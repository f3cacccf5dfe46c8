// Package render prints a report for a terminal or as JSON.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/jgoulah/fleetdash/internal/report"
)

const rule = "------------------------------------------------------------------------------------"

// Number formats a figure with thousands separators and two decimals
func Number(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

// JSON writes the report as indented JSON
func JSON(w io.Writer, r *report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// Text writes the KPIs, the four summary tables and a diagnostics footer
func Text(w io.Writer, r *report.Report) error {
	p := &printer{w: w}

	p.f("Period: %s to %s   Machine: %s   Diesel: %s/L\n",
		r.Start.Format("02/01/2006"), r.End.Format("02/01/2006"), r.Machine, Number(r.UnitCost))
	p.f("%s\n", rule)
	p.f("Total hours: %s   Total liters: %s   Avg L/H: %s   Total cost: %s\n",
		Number(r.KPIs.TotalHours), Number(r.KPIs.TotalLiters), Number(r.KPIs.AvgEfficiency), Number(r.KPIs.TotalCost))

	p.section("Summary by Machine")
	if len(r.Machines) == 0 {
		p.f("No data within the selected period/filters.\n")
	} else {
		p.f("%-16s  %10s  %10s  %8s  %12s  %10s  %-10s\n", "Machine", "Hours", "Liters", "L/H", "Cost", "Cost/h", "Class")
		for _, m := range r.Machines {
			p.f("%-16s  %10s  %10s  %8s  %12s  %10s  %-10s\n",
				label(m.Machine), Number(m.Hours), Number(m.Liters), Number(m.Efficiency),
				Number(m.TotalCost), Number(m.CostPerHour), m.Classification)
		}
	}

	p.section("Fuel and Cost by Site")
	if len(r.Sites) == 0 {
		p.f("No refueling in the selected period/filters.\n")
	} else {
		p.f("%-24s  %10s  %12s\n", "Site", "Liters", "Cost")
		for _, s := range r.Sites {
			p.f("%-24s  %10s  %12s\n", label(s.Site), Number(s.Liters), Number(s.TotalCost))
		}
	}

	p.section("Hours by Operator")
	if len(r.Operators) == 0 {
		p.f("No hours logged in the selected period/filters.\n")
	} else {
		p.f("%-24s  %10s\n", "Operator", "Hours")
		for _, o := range r.Operators {
			p.f("%-24s  %10s\n", label(o.Operator), Number(o.Hours))
		}
	}

	p.section("Liters by Supplier")
	if len(r.Suppliers) == 0 {
		p.f("No refueling in the selected period/filters.\n")
	} else {
		p.f("%-24s  %10s  %12s\n", "Supplier", "Liters", "Cost")
		for _, s := range r.Suppliers {
			p.f("%-24s  %10s  %12s\n", label(s.Supplier), Number(s.Liters), Number(s.TotalCost))
		}
	}

	p.f("%s\n", rule)
	p.f("%d hours records, %d fuel records in period\n", r.HoursRecords, r.FuelRecords)
	if d := r.Diagnostics; d.Issues() > 0 {
		p.f("Warning: hours log had %d defaulted, %d clamped, %d undated; fuel log had %d defaulted, %d clamped, %d undated\n",
			d.Hours.DefaultedValues, d.Hours.ClampedValues, d.Hours.UnknownDates,
			d.Fuel.DefaultedValues, d.Fuel.ClampedValues, d.Fuel.UnknownDates)
	}

	return p.err
}

// label makes blank keys visible in a table
func label(s string) string {
	if strings.TrimSpace(s) == "" {
		return fmt.Sprintf("(blank %q)", s)
	}
	return s
}

// printer keeps the first write error so the table code stays linear
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) f(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) section(title string) {
	p.f("\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

package report

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jgoulah/fleetdash/internal/logging"
	"github.com/jgoulah/fleetdash/pkg/models"
)

var (
	// ErrNoData means both logs are empty or absent
	ErrNoData = errors.New("no hours or fuel data to display yet")
	// ErrInvalidUnitCost rejects a diesel price below zero, NaN or infinite
	ErrInvalidUnitCost = errors.New("diesel unit cost must be a finite number >= 0")
	// ErrInvalidRows is returned in strict mode when normalization defaulted anything
	ErrInvalidRows = errors.New("logs contain values that could not be parsed")
)

// Source supplies the two raw logs. An absent log is an empty slice, not an error.
type Source interface {
	LoadHours(ctx context.Context) ([]models.HoursRow, error)
	LoadFuel(ctx context.Context) ([]models.FuelRow, error)
}

// Options selects what a report covers
type Options struct {
	Start    *time.Time // nil = earliest known date
	End      *time.Time // nil = latest known date
	Machine  string     // "" or AllMachines = every machine
	UnitCost float64
	Strict   bool // fail instead of silently defaulting bad values
}

// Report is everything a presenter needs for one pass
type Report struct {
	Start             time.Time                `json:"start"`
	End               time.Time                `json:"end"`
	Machine           string                   `json:"machine"`
	UnitCost          float64                  `json:"unit_cost"`
	HoursRecords      int                      `json:"hours_records"` // after filtering
	FuelRecords       int                      `json:"fuel_records"`
	Machines          []models.MachineSummary  `json:"machines"`
	Sites             []models.SiteSummary     `json:"sites"`
	Operators         []models.OperatorSummary `json:"operators"`
	Suppliers         []models.SupplierSummary `json:"suppliers"`
	KPIs              models.KPIs              `json:"kpis"`
	AvailableMachines []string                 `json:"available_machines"`
	Diagnostics       Diagnostics              `json:"diagnostics"`
}

// Empty reports whether nothing survived the filters
func (r *Report) Empty() bool {
	return r.HoursRecords == 0 && r.FuelRecords == 0
}

// Catalog describes what the logs contain before any filter
type Catalog struct {
	Machines []string   `json:"machines"`
	First    *time.Time `json:"first"`
	Last     *time.Time `json:"last"`
}

// ValidUnitCost reports whether c can price a liter of diesel
func ValidUnitCost(c float64) bool {
	return !math.IsNaN(c) && !math.IsInf(c, 0) && c >= 0
}

// Build runs normalize, filter and aggregate over raw rows
func Build(hoursRows []models.HoursRow, fuelRows []models.FuelRow, opts Options) (*Report, error) {
	if len(hoursRows) == 0 && len(fuelRows) == 0 {
		return nil, ErrNoData
	}
	if !ValidUnitCost(opts.UnitCost) {
		return nil, fmt.Errorf("%w, got %v", ErrInvalidUnitCost, opts.UnitCost)
	}

	hours, hoursDiag := NormalizeHours(hoursRows)
	fuel, fuelDiag := NormalizeFuel(fuelRows)
	diag := Diagnostics{Hours: hoursDiag, Fuel: fuelDiag}

	if opts.Strict && diag.Issues() > 0 {
		return nil, fmt.Errorf("%w: %d defaulted values, %d clamped values, %d unknown dates",
			ErrInvalidRows,
			diag.Hours.DefaultedValues+diag.Fuel.DefaultedValues,
			diag.Hours.ClampedValues+diag.Fuel.ClampedValues,
			diag.Hours.UnknownDates+diag.Fuel.UnknownDates)
	}

	window := DefaultWindow(opts.Start, opts.End, hours, fuel)
	machine := opts.Machine
	if machine == "" {
		machine = AllMachines
	}

	fh := FilterHours(hours, window, machine)
	ff := FilterFuel(fuel, window, machine)

	return &Report{
		Start:             window.Start,
		End:               window.End,
		Machine:           machine,
		UnitCost:          opts.UnitCost,
		HoursRecords:      len(fh),
		FuelRecords:       len(ff),
		Machines:          SummarizeMachines(fh, ff, opts.UnitCost),
		Sites:             SummarizeSites(ff, opts.UnitCost),
		Operators:         SummarizeOperators(fh),
		Suppliers:         SummarizeSuppliers(ff, opts.UnitCost),
		KPIs:              ComputeKPIs(fh, ff, opts.UnitCost),
		AvailableMachines: MachineIDs(hours, fuel),
		Diagnostics:       diag,
	}, nil
}

func load(ctx context.Context, src Source) ([]models.HoursRow, []models.FuelRow, error) {
	hours, err := src.LoadHours(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading hours log: %w", err)
	}
	fuel, err := src.LoadFuel(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading fuel log: %w", err)
	}
	return hours, fuel, nil
}

// Generate loads both logs from src and builds a report from them
func Generate(ctx context.Context, src Source, opts Options) (*Report, error) {
	hours, fuel, err := load(ctx, src)
	if err != nil {
		return nil, err
	}

	rep, err := Build(hours, fuel, opts)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	if rep.Diagnostics.Issues() > 0 {
		logger.InfoContext(ctx, "report.defaulted_values",
			"hours_defaulted", rep.Diagnostics.Hours.DefaultedValues,
			"hours_clamped", rep.Diagnostics.Hours.ClampedValues,
			"hours_unknown_dates", rep.Diagnostics.Hours.UnknownDates,
			"fuel_defaulted", rep.Diagnostics.Fuel.DefaultedValues,
			"fuel_clamped", rep.Diagnostics.Fuel.ClampedValues,
			"fuel_unknown_dates", rep.Diagnostics.Fuel.UnknownDates)
	}
	logger.DebugContext(ctx, "report.built",
		"start", rep.Start.Format("2006-01-02"),
		"end", rep.End.Format("2006-01-02"),
		"machine", rep.Machine,
		"hours_records", rep.HoursRecords,
		"fuel_records", rep.FuelRecords)

	return rep, nil
}

// Describe loads both logs and lists the selectable machines and known date range
func Describe(ctx context.Context, src Source) (*Catalog, error) {
	hoursRows, fuelRows, err := load(ctx, src)
	if err != nil {
		return nil, err
	}
	if len(hoursRows) == 0 && len(fuelRows) == 0 {
		return nil, ErrNoData
	}

	hours, _ := NormalizeHours(hoursRows)
	fuel, _ := NormalizeFuel(fuelRows)

	cat := &Catalog{Machines: MachineIDs(hours, fuel)}
	if first, last, ok := DateBounds(hours, fuel); ok {
		cat.First, cat.Last = &first, &last
	}
	return cat, nil
}

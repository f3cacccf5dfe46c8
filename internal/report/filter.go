package report

import (
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/jgoulah/fleetdash/pkg/models"
)

// AllMachines is the machine filter value meaning no filter
const AllMachines = "all"

// now is swapped in tests
var now = time.Now

// Window is an inclusive range of calendar days
type Window struct {
	Start time.Time
	End   time.Time
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewWindow builds a window from two dates; only the calendar day of each is used.
func NewWindow(start, end time.Time) Window {
	return Window{Start: day(start), End: day(end)}
}

// Contains reports whether t falls on a day within the window.
// An unknown date is never contained.
func (w Window) Contains(t *time.Time) bool {
	if t == nil {
		return false
	}
	d := day(*t)
	return !d.Before(w.Start) && !d.After(w.End)
}

func machineFilterSet(machine string) bool {
	return machine != "" && machine != AllMachines
}

// FilterHours keeps hours records inside the window and, when machine is set,
// with exactly that machine id. The input slice is not modified.
func FilterHours(records []models.HoursRecord, w Window, machine string) []models.HoursRecord {
	return lo.Filter(records, func(r models.HoursRecord, _ int) bool {
		if !w.Contains(r.Date) {
			return false
		}
		return !machineFilterSet(machine) || r.Machine == machine
	})
}

// FilterFuel keeps fuel records inside the window and, when machine is set,
// with exactly that machine id.
func FilterFuel(records []models.FuelRecord, w Window, machine string) []models.FuelRecord {
	return lo.Filter(records, func(r models.FuelRecord, _ int) bool {
		if !w.Contains(r.Date) {
			return false
		}
		return !machineFilterSet(machine) || r.Machine == machine
	})
}

// DateBounds returns the earliest and latest known dates across both logs.
// ok is false when neither log has a parseable date.
func DateBounds(hours []models.HoursRecord, fuel []models.FuelRecord) (first, last time.Time, ok bool) {
	dates := make([]time.Time, 0, len(hours)+len(fuel))
	for _, r := range hours {
		if r.Date != nil {
			dates = append(dates, *r.Date)
		}
	}
	for _, r := range fuel {
		if r.Date != nil {
			dates = append(dates, *r.Date)
		}
	}
	if len(dates) == 0 {
		return time.Time{}, time.Time{}, false
	}

	first = lo.MinBy(dates, func(a, b time.Time) bool { return a.Before(b) })
	last = lo.MaxBy(dates, func(a, b time.Time) bool { return a.After(b) })
	return first, last, true
}

// DefaultWindow fills missing bounds from the data, falling back to today
func DefaultWindow(start, end *time.Time, hours []models.HoursRecord, fuel []models.FuelRecord) Window {
	first, last, ok := DateBounds(hours, fuel)
	if !ok {
		today := now()
		first, last = today, today
	}
	if start != nil {
		first = *start
	}
	if end != nil {
		last = *end
	}
	return NewWindow(first, last)
}

// MachineIDs returns the sorted, de-duplicated non-empty machine ids from both logs
func MachineIDs(hours []models.HoursRecord, fuel []models.FuelRecord) []string {
	ids := append(
		lo.Map(hours, func(r models.HoursRecord, _ int) string { return r.Machine }),
		lo.Map(fuel, func(r models.FuelRecord, _ int) string { return r.Machine })...,
	)
	ids = lo.Uniq(lo.Compact(ids))
	slices.Sort(ids)
	return ids
}

package report

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jgoulah/fleetdash/pkg/models"
)

// Day-first layouts tried in order. ISO forms are accepted too since
// they are unambiguous.
var dateLayouts = []string{
	"2/1/2006",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
	"2-1-2006",
	"2-1-2006 15:04",
	"2-1-2006 15:04:05",
	"2.1.2006",
	"2.1.2006 15:04",
	"2.1.2006 15:04:05",
	"2/1/06",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	// month-first fallback for text that cannot be day-first, e.g. 01/13/2024
	"1/2/2006",
}

// LogDiagnostics counts what normalization had to paper over in one log
type LogDiagnostics struct {
	Rows            int `json:"rows"`
	DefaultedValues int `json:"defaulted_values"` // unparseable, NaN or Inf numerics set to 0
	ClampedValues   int `json:"clamped_values"`   // negative hours/liters set to 0
	UnknownDates    int `json:"unknown_dates"`
}

// Issues returns the number of values that did not survive normalization as written
func (d LogDiagnostics) Issues() int {
	return d.DefaultedValues + d.ClampedValues + d.UnknownDates
}

// Diagnostics covers both logs
type Diagnostics struct {
	Hours LogDiagnostics `json:"hours"`
	Fuel  LogDiagnostics `json:"fuel"`
}

// Issues returns the combined count for both logs
func (d Diagnostics) Issues() int {
	return d.Hours.Issues() + d.Fuel.Issues()
}

// ParseDate parses day-first date text. The second result is false when
// no layout matches.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseNumber never returns NaN or Inf; ok is false when the value was defaulted.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

type counter struct {
	d *LogDiagnostics
}

func (c counter) number(s string) float64 {
	v, ok := parseNumber(s)
	if !ok {
		c.d.DefaultedValues++
	}
	return v
}

func (c counter) quantity(s string) float64 {
	v := c.number(s)
	if v < 0 {
		c.d.ClampedValues++
		return 0
	}
	return v
}

func (c counter) date(s string) *time.Time {
	t, ok := ParseDate(s)
	if !ok {
		c.d.UnknownDates++
		return nil
	}
	return &t
}

// NormalizeHours converts raw hours rows into typed records.
// Nothing fails: bad numerics become 0 and bad dates become nil.
func NormalizeHours(rows []models.HoursRow) ([]models.HoursRecord, LogDiagnostics) {
	diag := LogDiagnostics{Rows: len(rows)}
	c := counter{d: &diag}

	out := make([]models.HoursRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.HoursRecord{
			Machine:     r.Machine,
			Date:        c.date(r.Date),
			RawDate:     r.Date,
			Operator:    r.Operator,
			MeterStart:  c.number(r.MeterStart),
			MeterEnd:    c.number(r.MeterEnd),
			HoursWorked: c.quantity(r.HoursWorked),
		})
	}
	return out, diag
}

// NormalizeFuel converts raw fuel rows into typed records.
func NormalizeFuel(rows []models.FuelRow) ([]models.FuelRecord, LogDiagnostics) {
	diag := LogDiagnostics{Rows: len(rows)}
	c := counter{d: &diag}

	out := make([]models.FuelRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.FuelRecord{
			Machine:  r.Machine,
			Date:     c.date(r.Date),
			RawDate:  r.Date,
			Liters:   c.quantity(r.Liters),
			Supplier: r.Supplier,
			Site:     r.Site,
			Notes:    r.Notes,
		})
	}
	return out, diag
}

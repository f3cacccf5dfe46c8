// Package source reads the hours and fuel logs from CSV files.
package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jgoulah/fleetdash/pkg/models"
)

// Column headers accepted for each field. The first entry is the header
// written by the spreadsheets that keep the logs.
var (
	colMachine     = []string{"Máquina", "machine"}
	colDate        = []string{"Data", "date"}
	colOperator    = []string{"Operador", "operator"}
	colMeterStart  = []string{"Horímetro Inicial", "meter_start"}
	colMeterEnd    = []string{"Horímetro Final", "meter_end"}
	colHoursWorked = []string{"Horas Trabalhadas", "hours_worked"}
	colLiters      = []string{"Litros", "liters"}
	colSupplier    = []string{"Abastecedor", "supplier"}
	colSite        = []string{"Local/Obra", "site"}
	colNotes       = []string{"Observações", "notes"}
)

// CSV reads both logs from files on disk. A missing file is an empty log.
type CSV struct {
	HoursPath string
	FuelPath  string
}

// NewCSV creates a CSV source
func NewCSV(hoursPath, fuelPath string) *CSV {
	return &CSV{HoursPath: hoursPath, FuelPath: fuelPath}
}

// LoadHours reads the hours log
func (s *CSV) LoadHours(ctx context.Context) ([]models.HoursRow, error) {
	t, err := readTable(s.HoursPath)
	if err != nil || t == nil {
		return nil, err
	}

	rows := make([]models.HoursRow, 0, len(t.records))
	for _, rec := range t.records {
		rows = append(rows, models.HoursRow{
			Machine:     t.get(rec, colMachine),
			Date:        t.get(rec, colDate),
			Operator:    t.get(rec, colOperator),
			MeterStart:  t.get(rec, colMeterStart),
			MeterEnd:    t.get(rec, colMeterEnd),
			HoursWorked: t.get(rec, colHoursWorked),
		})
	}
	return rows, nil
}

// LoadFuel reads the fuel log
func (s *CSV) LoadFuel(ctx context.Context) ([]models.FuelRow, error) {
	t, err := readTable(s.FuelPath)
	if err != nil || t == nil {
		return nil, err
	}

	rows := make([]models.FuelRow, 0, len(t.records))
	for _, rec := range t.records {
		rows = append(rows, models.FuelRow{
			Machine:  t.get(rec, colMachine),
			Date:     t.get(rec, colDate),
			Liters:   t.get(rec, colLiters),
			Supplier: t.get(rec, colSupplier),
			Site:     t.get(rec, colSite),
			Notes:    t.get(rec, colNotes),
		})
	}
	return rows, nil
}

type table struct {
	index   map[string]int
	records [][]string
}

// get returns the cell for the first matching header, or "" when the column
// is missing or the row is short.
func (t *table) get(rec []string, names []string) string {
	for _, name := range names {
		if i, ok := t.index[name]; ok {
			if i < len(rec) {
				return rec[i]
			}
			return ""
		}
	}
	return ""
}

// readTable returns nil, nil for a missing or header-less file
func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	var records [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if blankRecord(rec) {
			continue
		}
		records = append(records, rec)
	}

	return &table{index: index, records: records}, nil
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if v != "" {
			return false
		}
	}
	return true
}

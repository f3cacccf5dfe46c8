package models

import "time"

// HoursRow is one line of the hours log exactly as stored
type HoursRow struct {
	Machine     string `json:"machine"`
	Date        string `json:"date"`
	Operator    string `json:"operator"`
	MeterStart  string `json:"meter_start"`
	MeterEnd    string `json:"meter_end"`
	HoursWorked string `json:"hours_worked"`
}

// FuelRow is one line of the fuel log exactly as stored
type FuelRow struct {
	Machine  string `json:"machine"`
	Date     string `json:"date"`
	Liters   string `json:"liters"`
	Supplier string `json:"supplier"`
	Site     string `json:"site"`
	Notes    string `json:"notes"`
}

// HoursRecord represents one logged work session for a machine
type HoursRecord struct {
	Machine     string     `json:"machine"`
	Date        *time.Time `json:"date"`     // nil when the date could not be parsed
	RawDate     string     `json:"raw_date"` // Date text as stored
	Operator    string     `json:"operator"`
	MeterStart  float64    `json:"meter_start"`
	MeterEnd    float64    `json:"meter_end"`
	HoursWorked float64    `json:"hours_worked"`
}

// FuelRecord represents one diesel refueling event for a machine
type FuelRecord struct {
	Machine  string     `json:"machine"`
	Date     *time.Time `json:"date"` // nil when the date could not be parsed
	RawDate  string     `json:"raw_date"`
	Liters   float64    `json:"liters"`
	Supplier string     `json:"supplier"`
	Site     string     `json:"site"`
	Notes    string     `json:"notes,omitempty"`
}

package models

// Band is the qualitative label derived from a machine's liters per hour
type Band string

const (
	BandNoData    Band = "no data"
	BandGood      Band = "good"
	BandAttention Band = "attention"
	BandHigh      Band = "high"
)

// MachineSummary joins hours and fuel totals for one machine
type MachineSummary struct {
	Machine        string  `json:"machine"`
	Hours          float64 `json:"hours"`
	Liters         float64 `json:"liters"`
	Efficiency     float64 `json:"efficiency"` // liters per hour
	TotalCost      float64 `json:"total_cost"`
	CostPerHour    float64 `json:"cost_per_hour"`
	Classification Band    `json:"classification"`
}

// SiteSummary is fuel consumption at one site/location
type SiteSummary struct {
	Site      string  `json:"site"`
	Liters    float64 `json:"liters"`
	TotalCost float64 `json:"total_cost"`
}

// OperatorSummary is hours worked by one operator
type OperatorSummary struct {
	Operator string  `json:"operator"`
	Hours    float64 `json:"hours"`
}

// SupplierSummary is fuel dispensed by one supplier
type SupplierSummary struct {
	Supplier  string  `json:"supplier"`
	Liters    float64 `json:"liters"`
	TotalCost float64 `json:"total_cost"`
}

// KPIs are the fleet-wide figures for the filtered period
type KPIs struct {
	TotalHours    float64 `json:"total_hours"`
	TotalLiters   float64 `json:"total_liters"`
	AvgEfficiency float64 `json:"avg_efficiency"`
	TotalCost     float64 `json:"total_cost"`
}

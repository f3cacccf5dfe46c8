package report

import (
	"slices"

	"github.com/samber/lo"

	"github.com/jgoulah/fleetdash/pkg/models"
)

// Efficiency band upper bounds, inclusive
const (
	goodMaxLPH      = 6.0
	attentionMaxLPH = 8.0
)

// Classify bands a liters-per-hour figure
func Classify(efficiency float64) models.Band {
	switch {
	case efficiency == 0:
		return models.BandNoData
	case efficiency <= goodMaxLPH:
		return models.BandGood
	case efficiency <= attentionMaxLPH:
		return models.BandAttention
	default:
		return models.BandHigh
	}
}

func ratio(num, den float64) float64 {
	if den > 0 {
		return num / den
	}
	return 0
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}

func sumHours(records []models.HoursRecord) float64 {
	return lo.SumBy(records, func(r models.HoursRecord) float64 { return r.HoursWorked })
}

func sumLiters(records []models.FuelRecord) float64 {
	return lo.SumBy(records, func(r models.FuelRecord) float64 { return r.Liters })
}

// SummarizeMachines outer-joins hours and liters by machine id.
// A machine present in only one log gets 0 for the other side.
func SummarizeMachines(hours []models.HoursRecord, fuel []models.FuelRecord, unitCost float64) []models.MachineSummary {
	hoursBy := lo.MapValues(
		lo.GroupBy(hours, func(r models.HoursRecord) string { return r.Machine }),
		func(rs []models.HoursRecord, _ string) float64 { return sumHours(rs) },
	)
	litersBy := lo.MapValues(
		lo.GroupBy(fuel, func(r models.FuelRecord) string { return r.Machine }),
		func(rs []models.FuelRecord, _ string) float64 { return sumLiters(rs) },
	)

	machines := lo.Union(lo.Keys(hoursBy), lo.Keys(litersBy))
	slices.Sort(machines)

	out := make([]models.MachineSummary, 0, len(machines))
	for _, m := range machines {
		h, l := hoursBy[m], litersBy[m]
		cost := l * unitCost
		eff := ratio(l, h)
		out = append(out, models.MachineSummary{
			Machine:        m,
			Hours:          h,
			Liters:         l,
			Efficiency:     eff,
			TotalCost:      cost,
			CostPerHour:    ratio(cost, h),
			Classification: Classify(eff),
		})
	}
	return out
}

// SummarizeSites totals liters and cost per site/location
func SummarizeSites(fuel []models.FuelRecord, unitCost float64) []models.SiteSummary {
	groups := lo.GroupBy(fuel, func(r models.FuelRecord) string { return r.Site })

	out := make([]models.SiteSummary, 0, len(groups))
	for _, site := range sortedKeys(groups) {
		l := sumLiters(groups[site])
		out = append(out, models.SiteSummary{Site: site, Liters: l, TotalCost: l * unitCost})
	}
	return out
}

// SummarizeOperators totals hours worked per operator
func SummarizeOperators(hours []models.HoursRecord) []models.OperatorSummary {
	groups := lo.GroupBy(hours, func(r models.HoursRecord) string { return r.Operator })

	out := make([]models.OperatorSummary, 0, len(groups))
	for _, op := range sortedKeys(groups) {
		out = append(out, models.OperatorSummary{Operator: op, Hours: sumHours(groups[op])})
	}
	return out
}

// SummarizeSuppliers totals liters and cost per supplier
func SummarizeSuppliers(fuel []models.FuelRecord, unitCost float64) []models.SupplierSummary {
	groups := lo.GroupBy(fuel, func(r models.FuelRecord) string { return r.Supplier })

	out := make([]models.SupplierSummary, 0, len(groups))
	for _, s := range sortedKeys(groups) {
		l := sumLiters(groups[s])
		out = append(out, models.SupplierSummary{Supplier: s, Liters: l, TotalCost: l * unitCost})
	}
	return out
}

// ComputeKPIs returns fleet-wide totals for the filtered records
func ComputeKPIs(hours []models.HoursRecord, fuel []models.FuelRecord, unitCost float64) models.KPIs {
	h, l := sumHours(hours), sumLiters(fuel)
	return models.KPIs{
		TotalHours:    h,
		TotalLiters:   l,
		AvgEfficiency: ratio(l, h),
		TotalCost:     l * unitCost,
	}
}

package quote

import (
	"fmt"
	"math"

	"github.com/factupro/cotizador/internal/overtime"
	"github.com/factupro/cotizador/internal/payroll"
)

// ContingencyRate is the flat buffer applied over the base cost.
const ContingencyRate = 0.10

// MarginTargets are the suggested profit margins, as fractions of the
// final sale price. The suggested price is subtotal / (1 - m).
var MarginTargets = []float64{0.25, 0.35, 0.40, 0.45, 0.50}

// MarginLine is one suggested sell price at a target margin.
type MarginLine struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Totals is the full cost roll-up of a session.
type Totals struct {
	TotalLabor     float64      `json:"totalLabor"`
	TotalSupplies  float64      `json:"totalSupplies"`
	TotalTransport float64      `json:"totalTransport"`
	TotalEpp       float64      `json:"totalEpp"`
	TotalOther     float64      `json:"totalOther"`
	TotalOvertime  float64      `json:"totalOvertime"`
	BaseCost       float64      `json:"baseCost"`
	Contingency    float64      `json:"contingency"`
	Subtotal       float64      `json:"subtotal"`
	Margins        []MarginLine `json:"margins"`
}

// OvertimeSummary is the period overtime cost of the session, with the
// per-role intermediate values surfaced for transparency.
type OvertimeSummary struct {
	Weeks               float64                 `json:"weeks"`
	TotalHours          float64                 `json:"totalHours"`
	Tier1Hours          float64                 `json:"tier1Hours"`
	Tier2Hours          float64                 `json:"tier2Hours"`
	TechWagePerPerson   float64                 `json:"techWagePerPerson"`
	HelperWagePerPerson float64                 `json:"helperWagePerPerson"`
	TechCostPerPerson   float64                 `json:"techCostPerPerson"`
	HelperCostPerPerson float64                 `json:"helperCostPerPerson"`
	TechCost            float64                 `json:"techCost"`
	HelperCost          float64                 `json:"helperCost"`
	TotalCost           float64                 `json:"totalCost"`
	Buckets             []overtime.FactorBucket `json:"buckets,omitempty"`
}

// ComputeOvertime apportions one week under the active mode, scales it by
// the weeks count and loads the wages with the statutory contributions.
func ComputeOvertime(s State) OvertimeSummary {
	var week overtime.WeekResult
	if s.OvertimeMode == ModeSchedule {
		week = overtime.ComputeScheduleWeek(s.OvertimeScheduleWeek, s.OvertimeShift, s.TechHourlyRate, s.HelperHourlyRate)
	} else {
		week = overtime.ComputeWeekPattern(s.OvertimeWeek, s.OvertimeShift, s.TechHourlyRate, s.HelperHourlyRate)
	}

	weeks := s.OvertimeWeeksCount
	if math.IsNaN(weeks) || weeks < 1 {
		weeks = 1
	}

	loading := 1 + payroll.OvertimeContributionRate()
	techWage := week.TechWagePerPerson * weeks
	helperWage := week.HelperWagePerPerson * weeks
	techCostPerPerson := techWage * loading
	helperCostPerPerson := helperWage * loading
	techCost := techCostPerPerson * clampHeadcount(s.QtyTechs)
	helperCost := helperCostPerPerson * clampHeadcount(s.QtyHelpers)

	buckets := make([]overtime.FactorBucket, 0, len(week.Buckets))
	for _, b := range week.Buckets {
		b.Hours *= weeks
		buckets = append(buckets, b)
	}

	return OvertimeSummary{
		Weeks:               weeks,
		TotalHours:          week.TotalHours * weeks,
		Tier1Hours:          week.Tier1Hours * weeks,
		Tier2Hours:          week.Tier2Hours * weeks,
		TechWagePerPerson:   techWage,
		HelperWagePerPerson: helperWage,
		TechCostPerPerson:   techCostPerPerson,
		HelperCostPerPerson: helperCostPerPerson,
		TechCost:            techCost,
		HelperCost:          helperCost,
		TotalCost:           techCost + helperCost,
		Buckets:             buckets,
	}
}

// ComputeTotals rolls the whole session up into a Totals. It is a pure
// function of the state and always produces a defined result.
func ComputeTotals(s State) Totals {
	techCost := s.TechCost()
	helperCost := s.HelperCost()

	period := s.PeriodValue
	if math.IsNaN(period) || period < 0 {
		period = 0
	}

	var totalLabor float64
	if s.PeriodUnit == PeriodDays {
		totalLabor = (s.QtyHelpers*helperCost.DailyCost + s.QtyTechs*techCost.DailyCost) * period
	} else {
		totalLabor = (s.QtyHelpers*helperCost.MonthlyTotal + s.QtyTechs*techCost.MonthlyTotal) * period
	}

	t := Totals{
		TotalLabor:     totalLabor,
		TotalSupplies:  itemsTotal(s.ItemsSupplies),
		TotalTransport: itemsTotal(s.ItemsTransport),
		TotalEpp:       itemsTotal(s.ItemsEpp),
		TotalOther:     itemsTotal(s.ItemsOther),
		TotalOvertime:  ComputeOvertime(s).TotalCost,
	}

	t.BaseCost = t.TotalLabor + t.TotalSupplies + t.TotalTransport + t.TotalEpp + t.TotalOther + t.TotalOvertime
	t.Contingency = t.BaseCost * ContingencyRate
	t.Subtotal = t.BaseCost + t.Contingency

	t.Margins = make([]MarginLine, 0, len(MarginTargets))
	for _, m := range MarginTargets {
		t.Margins = append(t.Margins, MarginLine{
			Label: fmt.Sprintf("%d%%", int(math.Round(m*100))),
			Value: t.Subtotal / (1 - m),
		})
	}

	return t
}

func itemsTotal(items []Item) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Total()
	}
	return sum
}

func clampHeadcount(n float64) float64 {
	if math.IsNaN(n) || n < 0 {
		return 0
	}
	return n
}

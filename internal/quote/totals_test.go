package quote

import (
	"math"
	"testing"

	"github.com/factupro/cotizador/internal/overtime"
	"github.com/factupro/cotizador/internal/payroll"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestComputeTotals_MonthlyLabor(t *testing.T) {
	s := DefaultState()
	s.TechHourlyRate = 5
	s.HelperHourlyRate = 4
	s.QtyTechs = 2
	s.QtyHelpers = 1
	s.PeriodUnit = PeriodMonths
	s.PeriodValue = 3

	totals := ComputeTotals(s)

	tech := payroll.ComputeMonthlyCost(5, payroll.DefaultContractHours)
	helper := payroll.ComputeMonthlyCost(4, payroll.DefaultContractHours)
	nearlyEqual(t, "totalLabor", totals.TotalLabor, (2*tech.MonthlyTotal+1*helper.MonthlyTotal)*3)
}

func TestComputeTotals_DailyLaborAndNegativePeriodClamp(t *testing.T) {
	s := DefaultState()
	s.TechHourlyRate = 5
	s.QtyTechs = 1
	s.PeriodUnit = PeriodDays
	s.PeriodValue = 10

	totals := ComputeTotals(s)
	tech := payroll.ComputeMonthlyCost(5, payroll.DefaultContractHours)
	nearlyEqual(t, "totalLabor", totals.TotalLabor, tech.DailyCost*10)

	s.PeriodValue = -2
	nearlyEqual(t, "clamped totalLabor", ComputeTotals(s).TotalLabor, 0)
}

func TestComputeTotals_ItemListsAndRollup(t *testing.T) {
	s := DefaultState()
	s.ItemsSupplies = []Item{{Qty: 2, Unit: 10}, {Qty: 1, Unit: 5.5}}
	s.ItemsTransport = []Item{{Qty: 3, Unit: 4}}
	s.ItemsEpp = []Item{{Qty: 1, Unit: 30}}
	s.ItemsOther = []Item{{Qty: 2, Unit: 0.25}}

	totals := ComputeTotals(s)

	nearlyEqual(t, "totalSupplies", totals.TotalSupplies, 25.5)
	nearlyEqual(t, "totalTransport", totals.TotalTransport, 12)
	nearlyEqual(t, "totalEpp", totals.TotalEpp, 30)
	nearlyEqual(t, "totalOther", totals.TotalOther, 0.5)

	base := 25.5 + 12 + 30 + 0.5
	nearlyEqual(t, "baseCost", totals.BaseCost, base)
	nearlyEqual(t, "contingency", totals.Contingency, base*0.10)
	nearlyEqual(t, "subtotal", totals.Subtotal, base*1.10)
}

func TestComputeTotals_MarginTable(t *testing.T) {
	s := DefaultState()
	// base cost 909.0909..., contingency 10% brings the subtotal to 1000.
	s.ItemsOther = []Item{{Qty: 1, Unit: 1000 / 1.1}}

	totals := ComputeTotals(s)
	nearlyEqual(t, "subtotal", totals.Subtotal, 1000)

	if len(totals.Margins) != 5 {
		t.Fatalf("expected 5 margin lines, got %d", len(totals.Margins))
	}

	labels := []string{"25%", "35%", "40%", "45%", "50%"}
	for i, m := range MarginTargets {
		line := totals.Margins[i]
		if line.Label != labels[i] {
			t.Fatalf("margin %d label = %q, want %q", i, line.Label, labels[i])
		}
		// The target margin is a fraction of the suggested price.
		nearlyEqual(t, "margin "+line.Label, line.Value*(1-m), totals.Subtotal)
	}

	nearlyEqual(t, "50% doubles the subtotal", totals.Margins[4].Value, 2000)
	if math.Abs(totals.Margins[0].Value-1333.33) > 0.005 {
		t.Fatalf("25%% suggested price = %v, want ~1333.33", totals.Margins[0].Value)
	}
}

func TestComputeOvertime_WeeksScalingAndContributionLoading(t *testing.T) {
	s := DefaultState()
	s.TechHourlyRate = 5
	s.HelperHourlyRate = 4
	s.QtyTechs = 2
	s.QtyHelpers = 3
	s.OvertimeWeeksCount = 4
	s.OvertimeWeek.Days[0].Hours = 3 // Monday, normal day

	o := ComputeOvertime(s)

	weeklyTech := 3 * 1.25 * 5.0
	weeklyHelper := 3 * 1.25 * 4.0
	loading := 1 + payroll.OvertimeContributionRate()

	nearlyEqual(t, "totalHours", o.TotalHours, 12)
	nearlyEqual(t, "tier1Hours", o.Tier1Hours, 12)
	nearlyEqual(t, "techWagePerPerson", o.TechWagePerPerson, weeklyTech*4)
	nearlyEqual(t, "techCostPerPerson", o.TechCostPerPerson, weeklyTech*4*loading)
	nearlyEqual(t, "techCost", o.TechCost, weeklyTech*4*loading*2)
	nearlyEqual(t, "helperCost", o.HelperCost, weeklyHelper*4*loading*3)
	nearlyEqual(t, "totalCost", o.TotalCost, o.TechCost+o.HelperCost)
}

func TestComputeOvertime_WeeksCountClampsToOne(t *testing.T) {
	s := DefaultState()
	s.TechHourlyRate = 5
	s.QtyTechs = 1
	s.OvertimeWeeksCount = 0
	s.OvertimeWeek.Days[0].Hours = 2

	o := ComputeOvertime(s)
	nearlyEqual(t, "weeks", o.Weeks, 1)
	nearlyEqual(t, "totalHours", o.TotalHours, 2)
}

func TestComputeOvertime_ScheduleModeSurfacesBuckets(t *testing.T) {
	s := DefaultState()
	s.TechHourlyRate = 5
	s.OvertimeMode = ModeSchedule
	s.OvertimeWeeksCount = 2
	s.OvertimeScheduleWeek.Days[0].Enabled = true
	s.OvertimeScheduleWeek.Days[0].End = "19:00" // 2.5 h overtime

	o := ComputeOvertime(s)

	nearlyEqual(t, "totalHours", o.TotalHours, 5)
	if len(o.Buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %+v", o.Buckets)
	}
	nearlyEqual(t, "bucket hours scale with weeks", o.Buckets[0].Hours, 5)
}

func TestComputeOvertime_PatternModeIgnoresScheduleAndViceVersa(t *testing.T) {
	s := DefaultState()
	s.TechHourlyRate = 5
	s.QtyTechs = 1
	s.OvertimeWeek.Days[0].Hours = 2
	s.OvertimeScheduleWeek.Days[6].Enabled = true
	s.OvertimeScheduleWeek.Days[6].End = "12:00" // 4 h Sunday overtime

	s.OvertimeMode = ModePattern
	pattern := ComputeOvertime(s)
	nearlyEqual(t, "pattern totalHours", pattern.TotalHours, 2)

	// Switching modes reads the other structure; both remain in state.
	s.OvertimeMode = ModeSchedule
	schedule := ComputeOvertime(s)
	nearlyEqual(t, "schedule totalHours", schedule.TotalHours, 4)
	nearlyEqual(t, "pattern data intact", s.OvertimeWeek.Days[0].Hours, 2)
}

func TestAddItem(t *testing.T) {
	var list []Item

	list = AddItem(list, 2, "  guantes  ", 3.5)
	if len(list) != 1 {
		t.Fatalf("expected 1 item, got %d", len(list))
	}
	if list[0].Description != "guantes" || list[0].ID == "" {
		t.Fatalf("unexpected item: %+v", list[0])
	}
	nearlyEqual(t, "row total", list[0].Total(), 7)

	// Blank descriptions and non-positive quantities are no-ops.
	list = AddItem(list, 1, "   ", 10)
	list = AddItem(list, 0, "casco", 10)
	list = AddItem(list, 1, "casco", -1)
	if len(list) != 1 {
		t.Fatalf("expected rejected rows to be ignored, got %d items", len(list))
	}

	list = RemoveItem(list, list[0].ID)
	if len(list) != 0 {
		t.Fatalf("expected empty list after removal, got %d", len(list))
	}
}

func TestDefaultState(t *testing.T) {
	s := DefaultState()

	nearlyEqual(t, "contract hours", s.ContractHoursPerMonth, 180)
	if s.PeriodUnit != PeriodMonths || s.PeriodValue != 1 {
		t.Fatalf("unexpected period defaults: %v %v", s.PeriodUnit, s.PeriodValue)
	}
	if s.OvertimeWeek.Days[6].DayType != overtime.DaySunday {
		t.Fatalf("expected Sunday as last pattern day, got %v", s.OvertimeWeek.Days[6].DayType)
	}
	if s.OvertimeScheduleWeek.Days[5].End != "13:00" {
		t.Fatalf("expected Saturday schedule to end 13:00, got %v", s.OvertimeScheduleWeek.Days[5].End)
	}
	nearlyEqual(t, "weekday meal", s.OvertimeScheduleWeek.Days[0].MealMinutes, 30)
	nearlyEqual(t, "saturday meal", s.OvertimeScheduleWeek.Days[5].MealMinutes, 0)
}

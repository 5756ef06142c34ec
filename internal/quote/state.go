// Package quote holds the calculator session state and derives every
// quote total from it. All derivations are pure functions over State:
// nothing here keeps caches or mutates shared data, so any edit to the
// state is followed by a full recomputation of the totals.
package quote

import (
	"strings"

	"github.com/google/uuid"

	"github.com/factupro/cotizador/internal/overtime"
	"github.com/factupro/cotizador/internal/payroll"
)

// PeriodUnit is the billing-period unit. The values are the original
// product's labels so exported documents stay interchangeable.
type PeriodUnit string

const (
	PeriodDays   PeriodUnit = "Días"
	PeriodMonths PeriodUnit = "Meses"
)

// Mode selects how weekly overtime is entered.
type Mode string

const (
	ModePattern  Mode = "pattern"
	ModeSchedule Mode = "schedule"
)

// Item is one row of an itemized expense list.
type Item struct {
	ID          string  `json:"id"`
	Qty         float64 `json:"qty"`
	Description string  `json:"description"`
	Unit        float64 `json:"unit"`
}

// Total returns the row total.
func (i Item) Total() float64 { return i.Qty * i.Unit }

// State is the full calculator session. Both overtime structures are kept
// at the same time so switching modes never loses data.
type State struct {
	TechHourlyRate        float64 `json:"techHourlyRate"`
	HelperHourlyRate      float64 `json:"helperHourlyRate"`
	ContractHoursPerMonth float64 `json:"contractHoursPerMonth"`

	ItemsSupplies  []Item `json:"itemsSupplies"`
	ItemsTransport []Item `json:"itemsTransport"`
	ItemsEpp       []Item `json:"itemsEpp"`
	ItemsOther     []Item `json:"itemsOther"`

	QtyHelpers  float64    `json:"qtyHelpers"`
	QtyTechs    float64    `json:"qtyTechs"`
	PeriodUnit  PeriodUnit `json:"periodUnit"`
	PeriodValue float64    `json:"periodValue"`

	OvertimeShift      overtime.Shift       `json:"overtimeShift"`
	OvertimeWeeksCount float64              `json:"overtimeWeeksCount"`
	OvertimeWeek       overtime.WeekPattern `json:"overtimeWeek"`

	OvertimeMode         Mode                  `json:"overtimeMode"`
	OvertimeScheduleWeek overtime.ScheduleWeek `json:"overtimeScheduleWeek"`
}

// DefaultState returns the state of a fresh calculator session.
func DefaultState() State {
	return State{
		ContractHoursPerMonth: payroll.DefaultContractHours,
		ItemsSupplies:         []Item{},
		ItemsTransport:        []Item{},
		ItemsEpp:              []Item{},
		ItemsOther:            []Item{},
		PeriodUnit:            PeriodMonths,
		PeriodValue:           1,
		OvertimeShift:         overtime.ShiftDay,
		OvertimeWeeksCount:    1,
		OvertimeWeek:          overtime.DefaultWeekPattern(),
		OvertimeMode:          ModePattern,
		OvertimeScheduleWeek:  overtime.DefaultScheduleWeek(),
	}
}

// AddItem appends a row to the given list and returns it. Rows with a
// blank description are silently ignored, mirroring the form behaviour.
func AddItem(list []Item, qty float64, description string, unit float64) []Item {
	description = strings.TrimSpace(description)
	if description == "" {
		return list
	}
	if qty <= 0 || unit < 0 {
		return list
	}
	return append(list, Item{
		ID:          uuid.NewString(),
		Qty:         qty,
		Description: description,
		Unit:        unit,
	})
}

// RemoveItem drops the row with the given id, if present.
func RemoveItem(list []Item, id string) []Item {
	out := list[:0]
	for _, it := range list {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

// TechCost returns the technician's monthly cost breakdown.
func (s State) TechCost() payroll.CostBreakdown {
	return payroll.ComputeMonthlyCost(s.TechHourlyRate, s.ContractHoursPerMonth)
}

// HelperCost returns the helper's monthly cost breakdown.
func (s State) HelperCost() payroll.CostBreakdown {
	return payroll.ComputeMonthlyCost(s.HelperHourlyRate, s.ContractHoursPerMonth)
}

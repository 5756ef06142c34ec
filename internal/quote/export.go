package quote

import (
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/factupro/cotizador/internal/overtime"
)

// PayloadVersion is written into every exported document.
const PayloadVersion = 1

// ErrMissingState reports an import document without a state object.
var ErrMissingState = errors.New("quote: document has no state object")

// Payload is the export document: the session snapshot plus the totals
// computed from it. It is what the PDF/XLSX writers render and what the
// import path accepts back.
type Payload struct {
	Version   int    `json:"version"`
	CreatedAt string `json:"createdAt"`
	State     State  `json:"state"`
	Totals    Totals `json:"totals"`
}

// BuildPayload computes the totals for a state and wraps both into an
// export document stamped with the given time.
func BuildPayload(s State, now time.Time) Payload {
	return Payload{
		Version:   PayloadVersion,
		CreatedAt: now.UTC().Format(time.RFC3339),
		State:     s,
		Totals:    ComputeTotals(s),
	}
}

// ParsePayload reads an exported document and returns the canonical state
// it carries. Documents without a state object are rejected; inside the
// state, absent fields are filled with the session defaults so older or
// partial exports import cleanly. Totals in the document are ignored and
// always recomputed.
func ParsePayload(data []byte) (State, error) {
	var doc struct {
		State json.RawMessage `json:"state"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return State{}, fmt.Errorf("quote: parse document: %w", err)
	}
	if len(doc.State) == 0 || string(doc.State) == "null" {
		return State{}, ErrMissingState
	}
	return importState(doc.State)
}

// wire mirrors of State with optional fields. Pointers distinguish an
// absent field (gets the default) from an explicit zero (kept).
type wireState struct {
	TechHourlyRate        *float64 `json:"techHourlyRate"`
	HelperHourlyRate      *float64 `json:"helperHourlyRate"`
	ContractHoursPerMonth *float64 `json:"contractHoursPerMonth"`

	ItemsSupplies  []Item `json:"itemsSupplies"`
	ItemsTransport []Item `json:"itemsTransport"`
	ItemsEpp       []Item `json:"itemsEpp"`
	ItemsOther     []Item `json:"itemsOther"`

	QtyHelpers  *float64    `json:"qtyHelpers"`
	QtyTechs    *float64    `json:"qtyTechs"`
	PeriodUnit  *PeriodUnit `json:"periodUnit"`
	PeriodValue *float64    `json:"periodValue"`

	OvertimeShift      *overtime.Shift       `json:"overtimeShift"`
	OvertimeWeeksCount *float64              `json:"overtimeWeeksCount"`
	OvertimeWeek       *overtime.WeekPattern `json:"overtimeWeek"`

	OvertimeMode         *Mode             `json:"overtimeMode"`
	OvertimeScheduleWeek *wireScheduleWeek `json:"overtimeScheduleWeek"`
}

type wireScheduleWeek struct {
	Days []wireScheduleDay `json:"days"`
}

type wireScheduleDay struct {
	Enabled     *bool    `json:"enabled"`
	Start       *string  `json:"start"`
	End         *string  `json:"end"`
	IsHoliday   *bool    `json:"isHoliday"`
	MealMinutes *float64 `json:"mealMinutes"`
}

func importState(raw []byte) (State, error) {
	var w wireState
	if err := json.Unmarshal(raw, &w); err != nil {
		return State{}, fmt.Errorf("quote: parse state: %w", err)
	}

	s := DefaultState()

	setFloat(&s.TechHourlyRate, w.TechHourlyRate)
	setFloat(&s.HelperHourlyRate, w.HelperHourlyRate)
	setFloat(&s.ContractHoursPerMonth, w.ContractHoursPerMonth)
	setFloat(&s.QtyHelpers, w.QtyHelpers)
	setFloat(&s.QtyTechs, w.QtyTechs)
	setFloat(&s.PeriodValue, w.PeriodValue)
	setFloat(&s.OvertimeWeeksCount, w.OvertimeWeeksCount)

	if w.ItemsSupplies != nil {
		s.ItemsSupplies = w.ItemsSupplies
	}
	if w.ItemsTransport != nil {
		s.ItemsTransport = w.ItemsTransport
	}
	if w.ItemsEpp != nil {
		s.ItemsEpp = w.ItemsEpp
	}
	if w.ItemsOther != nil {
		s.ItemsOther = w.ItemsOther
	}

	if w.PeriodUnit != nil && (*w.PeriodUnit == PeriodDays || *w.PeriodUnit == PeriodMonths) {
		s.PeriodUnit = *w.PeriodUnit
	}
	if w.OvertimeShift != nil {
		switch *w.OvertimeShift {
		case overtime.ShiftDay, overtime.ShiftNight, overtime.ShiftExtendedNight:
			s.OvertimeShift = *w.OvertimeShift
		}
	}
	if w.OvertimeMode != nil && (*w.OvertimeMode == ModePattern || *w.OvertimeMode == ModeSchedule) {
		s.OvertimeMode = *w.OvertimeMode
	}

	if w.OvertimeWeek != nil && w.OvertimeWeek.Days != nil {
		s.OvertimeWeek = *w.OvertimeWeek
	}
	if w.OvertimeScheduleWeek != nil && w.OvertimeScheduleWeek.Days != nil {
		s.OvertimeScheduleWeek = normalizeScheduleWeek(*w.OvertimeScheduleWeek)
	}

	return s, nil
}

// normalizeScheduleWeek maps a partial schedule onto the canonical seven
// day layout, keeping explicit values and defaulting the rest per day.
func normalizeScheduleWeek(w wireScheduleWeek) overtime.ScheduleWeek {
	out := overtime.DefaultScheduleWeek()
	for i := 0; i < len(out.Days) && i < len(w.Days); i++ {
		d := w.Days[i]
		if d.Enabled != nil {
			out.Days[i].Enabled = *d.Enabled
		}
		if d.Start != nil {
			out.Days[i].Start = *d.Start
		}
		if d.End != nil {
			out.Days[i].End = *d.End
		}
		if d.IsHoliday != nil {
			out.Days[i].IsHoliday = *d.IsHoliday
		}
		if d.MealMinutes != nil {
			out.Days[i].MealMinutes = *d.MealMinutes
		}
	}
	return out
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

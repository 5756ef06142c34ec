package quote

import (
	"errors"
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

func TestBuildPayload(t *testing.T) {
	s := DefaultState()
	s.TechHourlyRate = 5.7
	s.QtyTechs = 1

	now := time.Date(2025, 3, 10, 15, 4, 5, 0, time.UTC)
	p := BuildPayload(s, now)

	if p.Version != PayloadVersion {
		t.Fatalf("version = %d, want %d", p.Version, PayloadVersion)
	}
	if p.CreatedAt != "2025-03-10T15:04:05Z" {
		t.Fatalf("createdAt = %q", p.CreatedAt)
	}
	nearlyEqual(t, "embedded totals", p.Totals.Subtotal, ComputeTotals(s).Subtotal)
}

func TestParsePayload_RoundTripKeepsTotals(t *testing.T) {
	s := DefaultState()
	s.TechHourlyRate = 5.7
	s.HelperHourlyRate = 4.18
	s.QtyTechs = 2
	s.QtyHelpers = 1
	s.PeriodUnit = PeriodDays
	s.PeriodValue = 14
	s.ItemsSupplies = AddItem(nil, 3, "cable #12", 12.75)
	s.OvertimeMode = ModeSchedule
	s.OvertimeWeeksCount = 2
	s.OvertimeScheduleWeek.Days[0].Enabled = true
	s.OvertimeScheduleWeek.Days[0].End = "20:00"
	s.OvertimeWeek.Days[5].Hours = 4.5

	data, err := json.Marshal(BuildPayload(s, time.Now()))
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	restored, err := ParsePayload(data)
	if err != nil {
		t.Fatalf("ParsePayload returned error: %v", err)
	}

	before := ComputeTotals(s)
	after := ComputeTotals(restored)

	nearlyEqual(t, "subtotal", after.Subtotal, before.Subtotal)
	nearlyEqual(t, "totalOvertime", after.TotalOvertime, before.TotalOvertime)
	nearlyEqual(t, "totalLabor", after.TotalLabor, before.TotalLabor)
	for i := range before.Margins {
		nearlyEqual(t, "margin "+before.Margins[i].Label, after.Margins[i].Value, before.Margins[i].Value)
	}

	// The inactive mode's data survives the round trip.
	nearlyEqual(t, "pattern hours intact", restored.OvertimeWeek.Days[5].Hours, 4.5)
}

func TestParsePayload_RejectsDocumentWithoutState(t *testing.T) {
	_, err := ParsePayload([]byte(`{"version":1,"totals":{}}`))
	if !errors.Is(err, ErrMissingState) {
		t.Fatalf("expected ErrMissingState, got %v", err)
	}

	_, err = ParsePayload([]byte(`{"state":null}`))
	if !errors.Is(err, ErrMissingState) {
		t.Fatalf("expected ErrMissingState for null state, got %v", err)
	}

	_, err = ParsePayload([]byte(`{not json`))
	if err == nil {
		t.Fatal("expected error for corrupt document")
	}
}

func TestParsePayload_DefaultsAbsentFields(t *testing.T) {
	s, err := ParsePayload([]byte(`{"state":{"techHourlyRate":5}}`))
	if err != nil {
		t.Fatalf("ParsePayload returned error: %v", err)
	}

	nearlyEqual(t, "techHourlyRate", s.TechHourlyRate, 5)
	nearlyEqual(t, "contract hours default", s.ContractHoursPerMonth, 180)
	nearlyEqual(t, "weeks default", s.OvertimeWeeksCount, 1)
	if s.PeriodUnit != PeriodMonths || s.OvertimeMode != ModePattern {
		t.Fatalf("unexpected defaults: %v %v", s.PeriodUnit, s.OvertimeMode)
	}
	if len(s.OvertimeWeek.Days) != 7 || len(s.OvertimeScheduleWeek.Days) != 7 {
		t.Fatalf("expected full weeks, got %d/%d days", len(s.OvertimeWeek.Days), len(s.OvertimeScheduleWeek.Days))
	}
	if s.ItemsSupplies == nil || len(s.ItemsSupplies) != 0 {
		t.Fatalf("expected empty supplies list, got %#v", s.ItemsSupplies)
	}
}

func TestParsePayload_PartialScheduleDaysAreBackfilled(t *testing.T) {
	doc := `{"state":{"overtimeScheduleWeek":{"days":[{"enabled":true,"end":"19:00"}]}}}`

	s, err := ParsePayload([]byte(doc))
	if err != nil {
		t.Fatalf("ParsePayload returned error: %v", err)
	}

	monday := s.OvertimeScheduleWeek.Days[0]
	if !monday.Enabled || monday.Start != "08:00" || monday.End != "19:00" {
		t.Fatalf("unexpected Monday: %+v", monday)
	}
	nearlyEqual(t, "monday meal backfill", monday.MealMinutes, 30)

	saturday := s.OvertimeScheduleWeek.Days[5]
	if saturday.Enabled || saturday.End != "13:00" {
		t.Fatalf("unexpected Saturday defaults: %+v", saturday)
	}
	nearlyEqual(t, "saturday meal backfill", saturday.MealMinutes, 0)
}

func TestParsePayload_ExplicitZeroIsKept(t *testing.T) {
	doc := `{"state":{"contractHoursPerMonth":0,"periodValue":0,"overtimeScheduleWeek":{"days":[{"mealMinutes":0}]}}}`

	s, err := ParsePayload(([]byte)(doc))
	if err != nil {
		t.Fatalf("ParsePayload returned error: %v", err)
	}

	nearlyEqual(t, "explicit zero contract hours", s.ContractHoursPerMonth, 0)
	nearlyEqual(t, "explicit zero period", s.PeriodValue, 0)
	nearlyEqual(t, "explicit zero meal minutes", s.OvertimeScheduleWeek.Days[0].MealMinutes, 0)
}

func TestParsePayload_InvalidEnumsFallBackToDefaults(t *testing.T) {
	doc := `{"state":{"periodUnit":"Años","overtimeMode":"banana","overtimeShift":"tarde"}}`

	s, err := ParsePayload([]byte(doc))
	if err != nil {
		t.Fatalf("ParsePayload returned error: %v", err)
	}

	if s.PeriodUnit != PeriodMonths {
		t.Fatalf("periodUnit = %v, want default", s.PeriodUnit)
	}
	if s.OvertimeMode != ModePattern {
		t.Fatalf("overtimeMode = %v, want default", s.OvertimeMode)
	}
}

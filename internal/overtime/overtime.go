package overtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Shift classifies when the overtime work happens.
type Shift string

const (
	ShiftDay           Shift = "diurno"
	ShiftNight         Shift = "nocturno"
	ShiftExtendedNight Shift = "nocturno_prolongado"
)

// DayType classifies the calendar day, affecting both the regular-hours
// quota and the pay factor.
type DayType string

const (
	DayNormal  DayType = "normal"
	DaySunday  DayType = "domingo"
	DayHoliday DayType = "feriado"
)

// Tier splits overtime hours into the legally privileged portion (first)
// and everything beyond it (posterior).
type Tier string

const (
	TierFirst     Tier = "primeras"
	TierPosterior Tier = "posteriores"
)

// First-tier caps: at most 3 overtime hours per day and 9 per week pay
// the first factor; the excess pays the posterior factor.
const (
	DailyTier1Cap  = 3.0
	WeeklyTier1Cap = 9.0
)

// Regular-hours quotas in schedule mode. Sundays and holidays have no
// quota: every worked hour is overtime.
const (
	WeekdayQuota  = 8.0
	SaturdayQuota = 5.0
)

type factorKey struct {
	shift Shift
	day   DayType
	tier  Tier
}

var factorTable = map[factorKey]float64{
	{ShiftDay, DayNormal, TierFirst}:      1.25,
	{ShiftDay, DayNormal, TierPosterior}:  2.1875,
	{ShiftDay, DaySunday, TierFirst}:      1.875,
	{ShiftDay, DaySunday, TierPosterior}:  3.28125,
	{ShiftDay, DayHoliday, TierFirst}:     3.125,
	{ShiftDay, DayHoliday, TierPosterior}: 5.46875,

	{ShiftNight, DayNormal, TierFirst}:      1.5,
	{ShiftNight, DayNormal, TierPosterior}:  2.625,
	{ShiftNight, DaySunday, TierFirst}:      2.25,
	{ShiftNight, DaySunday, TierPosterior}:  3.9375,
	{ShiftNight, DayHoliday, TierFirst}:     3.75,
	{ShiftNight, DayHoliday, TierPosterior}: 6.5625,

	{ShiftExtendedNight, DayNormal, TierFirst}:      1.75,
	{ShiftExtendedNight, DayNormal, TierPosterior}:  3.0625,
	{ShiftExtendedNight, DaySunday, TierFirst}:      2.625,
	{ShiftExtendedNight, DaySunday, TierPosterior}:  4.59375,
	{ShiftExtendedNight, DayHoliday, TierFirst}:     4.375,
	{ShiftExtendedNight, DayHoliday, TierPosterior}: 7.65625,
}

// Factor returns the wage multiplier for an overtime hour. Unknown shift
// or day values fall back to the day-shift normal-day factors so a
// degenerate input still produces a defined wage.
func Factor(shift Shift, day DayType, tier Tier) float64 {
	if f, ok := factorTable[factorKey{shift, day, tier}]; ok {
		return f
	}
	return factorTable[factorKey{ShiftDay, DayNormal, tier}]
}

// PatternDay is one manually entered overtime day.
type PatternDay struct {
	DayType DayType `json:"dayType"`
	Hours   float64 `json:"hours"`
}

// WeekPattern holds the manual overtime entries for one week, Monday first.
type WeekPattern struct {
	Days []PatternDay `json:"days"`
}

// DefaultWeekPattern returns the empty manual week: six normal days plus
// Sunday, all at zero hours.
func DefaultWeekPattern() WeekPattern {
	days := make([]PatternDay, 7)
	for i := range days {
		days[i] = PatternDay{DayType: DayNormal}
	}
	days[6].DayType = DaySunday
	return WeekPattern{Days: days}
}

// ScheduleDay is one clock-schedule entry. Start and End use "HH:MM".
type ScheduleDay struct {
	Enabled     bool    `json:"enabled"`
	Start       string  `json:"start"`
	End         string  `json:"end"`
	IsHoliday   bool    `json:"isHoliday"`
	MealMinutes float64 `json:"mealMinutes"`
}

// ScheduleWeek holds the weekly clock schedule, Monday first.
type ScheduleWeek struct {
	Days []ScheduleDay `json:"days"`
}

// DefaultScheduleDay returns the default schedule entry for a weekday
// index (0 = Monday): Mon-Fri 08:00-17:00 with a 30 minute meal, Saturday
// 08:00-13:00, Sunday 08:00-17:00, all disabled.
func DefaultScheduleDay(index int) ScheduleDay {
	d := ScheduleDay{Start: "08:00", End: "17:00"}
	switch {
	case index >= 0 && index <= 4:
		d.MealMinutes = 30
	case index == 5:
		d.End = "13:00"
	}
	return d
}

// DefaultScheduleWeek returns the default disabled clock schedule.
func DefaultScheduleWeek() ScheduleWeek {
	days := make([]ScheduleDay, 7)
	for i := range days {
		days[i] = DefaultScheduleDay(i)
	}
	return ScheduleWeek{Days: days}
}

// FactorBucket reports how many overtime hours of a week fell under one
// (day type, tier) factor. Only the schedule mode surfaces buckets.
type FactorBucket struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Factor float64 `json:"factor"`
	Hours  float64 `json:"hours"`
}

// WeekResult is the apportionment of a single week of overtime.
type WeekResult struct {
	TotalHours          float64        `json:"totalHours"`
	Tier1Hours          float64        `json:"tier1Hours"`
	Tier2Hours          float64        `json:"tier2Hours"`
	TechWagePerPerson   float64        `json:"techWagePerPerson"`
	HelperWagePerPerson float64        `json:"helperWagePerPerson"`
	Buckets             []FactorBucket `json:"buckets,omitempty"`
}

// apportioner accumulates the greedy Monday-to-Sunday tier split. The
// weekly first-tier budget starts at 9 hours; each day takes at most 3 of
// whatever remains.
type apportioner struct {
	remaining float64
	techRate  float64
	helpRate  float64

	result    WeekResult
	bucketMap map[string]*FactorBucket
	keys      []string
}

func newApportioner(techRate, helperRate float64, withBuckets bool) *apportioner {
	a := &apportioner{
		remaining: WeeklyTier1Cap,
		techRate:  clampNonNegative(techRate),
		helpRate:  clampNonNegative(helperRate),
	}
	if withBuckets {
		a.bucketMap = make(map[string]*FactorBucket)
	}
	return a
}

func (a *apportioner) addDay(shift Shift, day DayType, hours float64) {
	if hours <= 0 {
		return
	}
	a.result.TotalHours += hours

	tier1 := hours
	if tier1 > DailyTier1Cap {
		tier1 = DailyTier1Cap
	}
	if tier1 > a.remaining {
		tier1 = a.remaining
	}
	tier2 := hours - tier1
	a.remaining -= tier1

	a.result.Tier1Hours += tier1
	a.result.Tier2Hours += tier2

	a.addTier(shift, day, TierFirst, tier1)
	a.addTier(shift, day, TierPosterior, tier2)
}

func (a *apportioner) addTier(shift Shift, day DayType, tier Tier, hours float64) {
	if hours <= 0 {
		return
	}
	factor := Factor(shift, day, tier)
	weighted := hours * factor

	a.result.TechWagePerPerson += weighted * a.techRate
	a.result.HelperWagePerPerson += weighted * a.helpRate

	if a.bucketMap == nil {
		return
	}
	key := string(day) + "_" + string(tier)
	b, ok := a.bucketMap[key]
	if !ok {
		b = &FactorBucket{
			Key:    key,
			Factor: factor,
			Label:  fmt.Sprintf("%s – %s (%.4fx)", dayTypeLabel(day), tierLabel(tier), factor),
		}
		a.bucketMap[key] = b
		a.keys = append(a.keys, key)
	}
	b.Hours += hours
}

func (a *apportioner) finish() WeekResult {
	for _, key := range a.keys {
		a.result.Buckets = append(a.result.Buckets, *a.bucketMap[key])
	}
	return a.result
}

// ComputeWeekPattern apportions a manually entered weekly overtime pattern
// and converts it into per-person weekly wages for both roles.
func ComputeWeekPattern(week WeekPattern, shift Shift, techRate, helperRate float64) WeekResult {
	a := newApportioner(techRate, helperRate, false)
	for i := 0; i < 7; i++ {
		day := PatternDay{DayType: DayNormal}
		if i == 6 {
			day.DayType = DaySunday
		}
		if i < len(week.Days) {
			day = week.Days[i]
		}
		a.addDay(shift, day.DayType, clampNonNegative(day.Hours))
	}
	return a.finish()
}

// ComputeScheduleWeek derives each day's overtime from clock times and
// apportions it. Presence wraps past midnight, the meal break is deducted,
// and the regular quota is 8 h Monday-Friday, 5 h Saturday, zero on
// Sundays and holidays.
func ComputeScheduleWeek(week ScheduleWeek, shift Shift, techRate, helperRate float64) WeekResult {
	a := newApportioner(techRate, helperRate, true)
	for i := 0; i < 7; i++ {
		cfg := DefaultScheduleDay(i)
		if i < len(week.Days) {
			cfg = week.Days[i]
		}
		if !cfg.Enabled {
			continue
		}

		start := parseClock(cfg.Start)
		end := parseClock(cfg.End)
		if start == end {
			// Identical clock times read as a day not worked.
			continue
		}

		presence := end - start
		if presence < 0 {
			presence += 24
		}

		worked := presence - clampNonNegative(cfg.MealMinutes)/60
		if worked < 0 {
			worked = 0
		}

		dayType := DayNormal
		if cfg.IsHoliday {
			dayType = DayHoliday
		} else if i == 6 {
			dayType = DaySunday
		}

		var quota float64
		if dayType == DayNormal {
			if i <= 4 {
				quota = WeekdayQuota
			} else if i == 5 {
				quota = SaturdayQuota
			}
		}

		hours := worked - quota
		if hours < 0 {
			hours = 0
		}
		a.addDay(shift, dayType, hours)
	}
	return a.finish()
}

// parseClock converts "HH:MM" to decimal hours. Malformed components read
// as zero, so a broken string degrades to midnight instead of failing.
func parseClock(t string) float64 {
	if t == "" {
		return 0
	}
	hh, mm, _ := strings.Cut(t, ":")
	h, err := strconv.ParseFloat(strings.TrimSpace(hh), 64)
	if err != nil {
		h = 0
	}
	m, err := strconv.ParseFloat(strings.TrimSpace(mm), 64)
	if err != nil {
		m = 0
	}
	return h + m/60
}

func dayTypeLabel(day DayType) string {
	switch day {
	case DaySunday:
		return "Domingo"
	case DayHoliday:
		return "Feriado / día patrio"
	default:
		return "Día normal"
	}
}

func tierLabel(tier Tier) string {
	if tier == TierFirst {
		return "Primer factor"
	}
	return "Factor posterior"
}

func clampNonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

package payroll

// Contribution is a named statutory rate applied over the monthly base salary.
type Contribution struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Rate  float64 `json:"rate"`
}

// LawContributions are the mandatory employer contributions over the base salary.
var LawContributions = []Contribution{
	{Key: "social", Label: "Seguro social (13.25%)", Rate: 0.1325},
	{Key: "educativo", Label: "Seguro educativo (1.50%)", Rate: 0.015},
	{Key: "riesgo", Label: "Riesgo profesional (5.67%)", Rate: 0.0567},
}

// ContractReserves are the fixed-term contract reserves provisioned each month.
var ContractReserves = []Contribution{
	{Key: "xiii", Label: "Décimo tercer mes (8.33%)", Rate: 0.0833},
	{Key: "vac", Label: "Vacaciones (9.09%)", Rate: 0.0909},
	{Key: "xiii_vac", Label: "Décimo tercer mes vacaciones (0.76%)", Rate: 0.0076},
	{Key: "antiguedad", Label: "Prima de antigüedad (1.92%)", Rate: 0.0192},
	{Key: "ss_xiii", Label: "Seguro social XIII mes (0.90%)", Rate: 0.009},
	{Key: "ss_xiii_vac", Label: "Seguro social XIII mes vac. (0.08%)", Rate: 0.0008},
	{Key: "ss_vac", Label: "Seguro social vacaciones (1.21%)", Rate: 0.0121},
	{Key: "se_vac", Label: "Seguro educativo vacaciones (0.14%)", Rate: 0.0014},
	{Key: "rp_vac", Label: "Riesgo profesional vacaciones (0.52%)", Rate: 0.0052},
}

// Fixed monthly amounts per worker. They never scale with hours and are
// never applied to overtime wages.
const (
	LifePolicy    = 9.0
	Uniforms      = 33.33
	AdminExpenses = 45.0
)

const (
	// DefaultContractHours is the monthly hours baseline used when no
	// contract value has been configured.
	DefaultContractHours = 180

	// DaysPerMonthForCost is the fixed divisor used to derive the daily
	// cost from the monthly total. Not calendar-accurate on purpose.
	DaysPerMonthForCost = 24
)

// OvertimeContributionRate returns the loading applied to overtime wages:
// the sum of every law contribution and every reserve rate. The flat rate
// is a product decision; no per-component selection applies to extra hours.
func OvertimeContributionRate() float64 {
	var sum float64
	for _, c := range LawContributions {
		sum += c.Rate
	}
	for _, r := range ContractReserves {
		sum += r.Rate
	}
	return sum
}

// ContributionAmount is one contribution line valued against a base salary.
type ContributionAmount struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// CostBreakdown contains the fully-loaded monthly cost of one worker.
type CostBreakdown struct {
	BaseSalary          float64              `json:"baseSalary"`
	LawDetails          []ContributionAmount `json:"lawDetails"`
	ReserveDetails      []ContributionAmount `json:"reserveDetails"`
	LawTotal            float64              `json:"lawTotal"`
	ReserveTotal        float64              `json:"reserveTotal"`
	FixedAllowanceTotal float64              `json:"fixedAllowanceTotal"`
	MonthlyTotal        float64              `json:"monthlyTotal"`
	DailyCost           float64              `json:"dailyCost"`
}

// ComputeMonthlyCost derives the loaded monthly and daily cost of a worker
// from an hourly rate and a contracted monthly-hours baseline. Negative
// inputs are clamped to zero rather than rejected.
func ComputeMonthlyCost(hourlyRate, hoursPerMonth float64) CostBreakdown {
	if hourlyRate < 0 {
		hourlyRate = 0
	}
	if hoursPerMonth < 0 {
		hoursPerMonth = 0
	}

	baseSalary := hourlyRate * hoursPerMonth

	lawDetails := make([]ContributionAmount, 0, len(LawContributions))
	var lawTotal float64
	for _, c := range LawContributions {
		amount := baseSalary * c.Rate
		lawDetails = append(lawDetails, ContributionAmount{Label: c.Label, Amount: amount})
		lawTotal += amount
	}

	reserveDetails := make([]ContributionAmount, 0, len(ContractReserves))
	var reserveTotal float64
	for _, r := range ContractReserves {
		amount := baseSalary * r.Rate
		reserveDetails = append(reserveDetails, ContributionAmount{Label: r.Label, Amount: amount})
		reserveTotal += amount
	}

	fixedAllowanceTotal := LifePolicy + Uniforms + AdminExpenses
	monthlyTotal := baseSalary + lawTotal + reserveTotal + fixedAllowanceTotal

	return CostBreakdown{
		BaseSalary:          baseSalary,
		LawDetails:          lawDetails,
		ReserveDetails:      reserveDetails,
		LawTotal:            lawTotal,
		ReserveTotal:        reserveTotal,
		FixedAllowanceTotal: fixedAllowanceTotal,
		MonthlyTotal:        monthlyTotal,
		DailyCost:           monthlyTotal / DaysPerMonthForCost,
	}
}

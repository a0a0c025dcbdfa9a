package models

// Budget is the monthly energy budget snapshot.
// ProjectedUsage above MonthlyLimit is the over-budget signal, not an error.
type Budget struct {
	MonthlyLimit   float64 `json:"monthly_limit" yaml:"monthly_limit"`     // kWh
	CurrentUsage   float64 `json:"current_usage" yaml:"current_usage"`     // kWh
	DaysRemaining  int     `json:"days_remaining" yaml:"days_remaining"`
	ProjectedUsage float64 `json:"projected_usage" yaml:"projected_usage"` // kWh
}

// UsagePercent returns how much of the monthly limit has been used.
// A zero limit yields 0.
func (b Budget) UsagePercent() float64 {
	if b.MonthlyLimit == 0 {
		return 0
	}
	return b.CurrentUsage / b.MonthlyLimit * 100
}

// IsOverBudget reports whether the projection exceeds the limit
func (b Budget) IsOverBudget() bool {
	return b.ProjectedUsage > b.MonthlyLimit
}

// ProjectedOverage returns the kWh the projection exceeds the limit by
func (b Budget) ProjectedOverage() float64 {
	if !b.IsOverBudget() {
		return 0
	}
	return b.ProjectedUsage - b.MonthlyLimit
}

// UsageHistory is one entry of the usage report
type UsageHistory struct {
	Date  string  `json:"date" yaml:"date"`
	Usage float64 `json:"usage" yaml:"usage"` // kWh
	Cost  float64 `json:"cost" yaml:"cost"`   // currency
}

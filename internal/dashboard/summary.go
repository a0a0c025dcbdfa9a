package dashboard

import (
	"github.com/afroash/energy-monitor/internal/models"
	"github.com/afroash/energy-monitor/internal/telemetry"
)

// AllRoomsLabel is shown when no room is selected
const AllRoomsLabel = "All Rooms"

// ReportBarHeight is the height of the tallest usage bar
const ReportBarHeight = 120

// Options tune the derived figures
type Options struct {
	Tariff        float64 // currency per kWh (default: 6.5)
	MeterCapacity float64 // W shown as 100% on the power meter (default: 3000)
	TrendWindow   int     // readings kept for the power trend (default: 30)
}

// DefaultOptions returns the dashboard defaults
func DefaultOptions() Options {
	return Options{
		Tariff:        6.5,
		MeterCapacity: 3000,
		TrendWindow:   30,
	}
}

// Summary is the dashboard screen derived from a snapshot
type Summary struct {
	Connected     bool             `json:"connected"`
	Reading       models.Reading   `json:"reading"`
	RoomLabel     string           `json:"room_label"`
	MeterPower    float64          `json:"meter_power"`   // W, selected room or whole home
	MeterPercent  float64          `json:"meter_percent"` // of capacity, capped at 100
	MeterLevel    models.LoadLevel `json:"meter_level"`
	TotalPower    float64          `json:"total_power"` // W across rooms
	DailyTotal    float64          `json:"daily_total"` // kWh across rooms
	EstimatedCost float64          `json:"estimated_cost"`
	RoomCount     int              `json:"room_count"`
	Budget        BudgetReport     `json:"budget"`
	Version       uint64           `json:"version"`
}

// BudgetReport is the budget card of the reports screen
type BudgetReport struct {
	Percent          float64 `json:"percent"`
	FillPercent      float64 `json:"fill_percent"` // Percent capped at 100 for the progress bar
	OverBudget       bool    `json:"over_budget"`
	ProjectedOverage float64 `json:"projected_overage"`
}

// Summarize derives the dashboard figures from a snapshot
func Summarize(snap telemetry.Snapshot, opts Options) Summary {
	var totalPower, dailyTotal float64
	for _, r := range snap.Rooms {
		totalPower += r.CurrentPower
		dailyTotal += r.DailyUsage
	}

	label := AllRoomsLabel
	meterPower := totalPower
	if room, ok := snap.SelectedRoom(); ok {
		label = room.Name
		meterPower = room.CurrentPower
	}
	percent, level := models.ClassifyLoad(meterPower, opts.MeterCapacity)

	return Summary{
		Connected:     snap.Connected,
		Reading:       snap.Reading,
		RoomLabel:     label,
		MeterPower:    meterPower,
		MeterPercent:  percent,
		MeterLevel:    level,
		TotalPower:    totalPower,
		DailyTotal:    dailyTotal,
		EstimatedCost: dailyTotal * opts.Tariff,
		RoomCount:     len(snap.Rooms),
		Budget:        ReportBudget(snap.Budget),
		Version:       snap.Version,
	}
}

// ReportBudget derives the budget card
func ReportBudget(b models.Budget) BudgetReport {
	percent := b.UsagePercent()
	fill := percent
	if fill > 100 {
		fill = 100
	}
	return BudgetReport{
		Percent:          percent,
		FillPercent:      fill,
		OverBudget:       b.IsOverBudget(),
		ProjectedOverage: b.ProjectedOverage(),
	}
}

// Report is the reports screen: daily usage bars and the budget card
type Report struct {
	Dates      []string     `json:"dates"`
	Usage      []float64    `json:"usage"`       // kWh per day, oldest first
	BarHeights []float64    `json:"bar_heights"` // scaled to ReportBarHeight
	TotalUsage float64      `json:"total_usage"`
	TotalCost  float64      `json:"total_cost"`
	Budget     BudgetReport `json:"budget"`
	Version    uint64       `json:"version"`
}

// BuildReport derives the reports screen from a snapshot
func BuildReport(snap telemetry.Snapshot) Report {
	usage := HistoryUsage(snap.History)
	dates := make([]string, len(snap.History))
	var totalUsage, totalCost float64
	for i, h := range snap.History {
		dates[i] = h.Date
		totalUsage += h.Usage
		totalCost += h.Cost
	}
	return Report{
		Dates:      dates,
		Usage:      usage,
		BarHeights: ScaleBars(usage, ReportBarHeight),
		TotalUsage: totalUsage,
		TotalCost:  totalCost,
		Budget:     ReportBudget(snap.Budget),
		Version:    snap.Version,
	}
}

// ScaleBars scales values to bar heights relative to the largest value.
// When every value is zero (or there are none) all heights are zero.
func ScaleBars(values []float64, maxHeight float64) []float64 {
	heights := make([]float64, len(values))
	var peak float64
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return heights
	}
	for i, v := range values {
		heights[i] = v / peak * maxHeight
	}
	return heights
}

// HistoryUsage returns the usage column of the history, oldest first
func HistoryUsage(history []models.UsageHistory) []float64 {
	out := make([]float64, len(history))
	for i, h := range history {
		out[i] = h.Usage
	}
	return out
}

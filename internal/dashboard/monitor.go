package dashboard

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/afroash/energy-monitor/internal/telemetry"
)

// Monitor is a console view of the store. It renders the initial state on
// Mount, re-renders on every committed change and detaches on Unmount.
type Monitor struct {
	source telemetry.StateReader
	opts   Options
	logger zerolog.Logger
	trend  *Trend

	mountMu     sync.Mutex
	unsubscribe func()

	mu      sync.Mutex
	last    Summary
	report  Report
	renders int64
}

// NewMonitor creates an unmounted monitor over source
func NewMonitor(source telemetry.StateReader, opts Options, logger zerolog.Logger) *Monitor {
	return &Monitor{
		source: source,
		opts:   opts,
		logger: logger,
		trend:  NewTrend(opts.TrendWindow),
	}
}

// Mount subscribes to changes and renders the current state.
// Mounting an already mounted monitor does nothing.
func (m *Monitor) Mount() {
	m.mountMu.Lock()
	defer m.mountMu.Unlock()

	if m.unsubscribe != nil {
		return
	}
	// Subscribe before reading so a change committed in between is still rendered
	m.unsubscribe = m.source.Subscribe(m.render)
	m.render(m.source.State())

	m.logger.Info().Msg("Dashboard mounted")
}

// Unmount stops receiving changes
func (m *Monitor) Unmount() {
	m.mountMu.Lock()
	defer m.mountMu.Unlock()

	if m.unsubscribe == nil {
		return
	}
	m.unsubscribe()
	m.unsubscribe = nil

	m.logger.Info().
		Int64("renders", m.Renders()).
		Str("trend", m.trend.String()).
		Msg("Dashboard unmounted")
}

// Last returns the most recently rendered summary
func (m *Monitor) Last() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Trend returns the rolling window of rendered readings
func (m *Monitor) Trend() *Trend {
	return m.trend
}

// Renders returns how many times the monitor has rendered
func (m *Monitor) Renders() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.renders
}

// Report returns the most recently rendered reports screen
func (m *Monitor) Report() Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.report
}

func (m *Monitor) render(snap telemetry.Snapshot) {
	summary := Summarize(snap, m.opts)

	m.mu.Lock()
	first := m.renders == 0
	// Mount may read a snapshot older than one a listener already rendered
	if !first && snap.Version <= m.last.Version {
		m.mu.Unlock()
		return
	}
	m.last = summary
	m.renders++

	readingChanged := first || snap.Change == telemetry.ChangeReading || snap.Change == telemetry.ChangeInit
	if readingChanged {
		m.trend.Push(snap.Reading)
	}
	reportChanged := first || snap.Change == telemetry.ChangeHistory || snap.Change == telemetry.ChangeBudget
	var report Report
	if reportChanged {
		report = BuildReport(snap)
		m.report = report
	}
	m.mu.Unlock()

	// Room jitter arrives several times per tick; keep it out of info logs
	event := m.logger.Debug()
	if readingChanged {
		event = m.logger.Info()
	}
	event.
		Str("change", string(snap.Change)).
		Uint64("version", summary.Version).
		Bool("connected", summary.Connected).
		Str("room", summary.RoomLabel).
		Float64("current_a", summary.Reading.Current).
		Float64("voltage_v", summary.Reading.Voltage).
		Float64("meter_w", summary.MeterPower).
		Float64("avg_power_w", m.trend.AveragePower()).
		Str("meter_level", string(summary.MeterLevel)).
		Float64("daily_kwh", summary.DailyTotal).
		Float64("estimated_cost", summary.EstimatedCost).
		Float64("budget_pct", summary.Budget.Percent).
		Bool("over_budget", summary.Budget.OverBudget).
		Msg("Dashboard")

	if reportChanged {
		m.logger.Info().
			Uint64("version", report.Version).
			Strs("dates", report.Dates).
			Floats64("usage_kwh", report.Usage).
			Floats64("bars", report.BarHeights).
			Float64("total_kwh", report.TotalUsage).
			Float64("total_cost", report.TotalCost).
			Float64("budget_pct", report.Budget.Percent).
			Float64("budget_fill", report.Budget.FillPercent).
			Float64("projected_overage", report.Budget.ProjectedOverage).
			Bool("over_budget", report.Budget.OverBudget).
			Msg("Reports")
	}
}

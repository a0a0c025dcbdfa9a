package telemetry

import "github.com/afroash/energy-monitor/internal/models"

// StateReader is the read side of the store used by views
type StateReader interface {
	// State returns the current snapshot
	State() Snapshot

	// Subscribe registers a listener and returns its unsubscribe func
	Subscribe(l Listener) (unsubscribe func())
}

// Actions is the mutation surface of the store
type Actions interface {
	UpdateReading(reading models.Reading)
	SetConnectionStatus(connected bool)
	SelectRoom(roomID string) error
	UpdateRoomPower(roomID string, power float64) error
	SetBudget(budget models.Budget)
	RecordUsage(entry models.UsageHistory)
}

// Compile-time interface checks
var (
	_ StateReader = (*Store)(nil)
	_ Actions     = (*Store)(nil)
)

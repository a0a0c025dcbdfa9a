package telemetry

import (
	"fmt"
	"time"

	"github.com/afroash/energy-monitor/internal/models"
)

// Seed is the state a store starts from
type Seed struct {
	Reading   models.Reading
	Connected bool
	Rooms     []models.Room
	Budget    models.Budget
	History   []models.UsageHistory
}

// Validate checks room ids are present and unique, statuses are known and
// power figures are non-negative
func (s Seed) Validate() error {
	seen := make(map[string]struct{}, len(s.Rooms))
	for _, r := range s.Rooms {
		if r.ID == "" {
			return fmt.Errorf("room %q has no id", r.Name)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("duplicate room id %q", r.ID)
		}
		seen[r.ID] = struct{}{}

		if !r.Status.Valid() {
			return fmt.Errorf("room %q has invalid status %q", r.ID, r.Status)
		}
		if r.CurrentPower < 0 || r.DailyUsage < 0 {
			return fmt.Errorf("room %q has negative power or usage", r.ID)
		}
	}
	return nil
}

// DefaultSeed returns the built-in home: four rooms, a 400 kWh monthly budget
// and a baseline reading
func DefaultSeed() Seed {
	return Seed{
		Reading: models.Reading{
			Current:   9.5,
			Voltage:   235,
			Power:     2050,
			Energy:    145.75,
			Timestamp: time.Now(),
		},
		Connected: true,
		Rooms:     DefaultRooms(),
		Budget: models.Budget{
			MonthlyLimit:   400,
			CurrentUsage:   287.5,
			DaysRemaining:  12,
			ProjectedUsage: 425,
		},
	}
}

// DefaultRooms returns the built-in room set
func DefaultRooms() []models.Room {
	return []models.Room{
		{ID: "1", Name: "Living Room", Icon: "sofa", CurrentPower: 450, DailyUsage: 8.2, Status: models.StatusNormal, Devices: []models.Device{}},
		{ID: "2", Name: "Kitchen", Icon: "chef-hat", CurrentPower: 1200, DailyUsage: 15.6, Status: models.StatusWarning, Devices: []models.Device{}},
		{ID: "3", Name: "Bedroom", Icon: "bed", CurrentPower: 180, DailyUsage: 4.3, Status: models.StatusNormal, Devices: []models.Device{}},
		{ID: "4", Name: "Office", Icon: "monitor", CurrentPower: 320, DailyUsage: 6.8, Status: models.StatusNormal, Devices: []models.Device{}},
	}
}

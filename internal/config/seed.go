package config

import (
	"github.com/afroash/energy-monitor/internal/models"
	"github.com/afroash/energy-monitor/internal/telemetry"
)

// TelemetrySeed builds the store seed. Any part left out of the file falls
// back to the built-in home.
func (s SeedConfig) TelemetrySeed() telemetry.Seed {
	seed := telemetry.DefaultSeed()

	if len(s.Rooms) > 0 {
		rooms := models.CloneRooms(s.Rooms)
		for i := range rooms {
			if rooms[i].Status == "" {
				rooms[i].Status = models.StatusNormal
			}
			for j := range rooms[i].Devices {
				if rooms[i].Devices[j].RoomID == "" {
					rooms[i].Devices[j].RoomID = rooms[i].ID
				}
			}
		}
		seed.Rooms = rooms
	}
	if s.Budget != nil {
		seed.Budget = *s.Budget
	}
	if len(s.History) > 0 {
		seed.History = append([]models.UsageHistory(nil), s.History...)
	}
	if s.Connected != nil {
		seed.Connected = *s.Connected
	}
	return seed
}

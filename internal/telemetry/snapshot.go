package telemetry

import (
	"github.com/afroash/energy-monitor/internal/models"
)

// Change names the action that produced a snapshot
type Change string

const (
	ChangeInit       Change = "init"
	ChangeReading    Change = "reading"
	ChangeConnection Change = "connection"
	ChangeSelection  Change = "selection"
	ChangeRoomPower  Change = "room_power"
	ChangeBudget     Change = "budget"
	ChangeHistory    Change = "history"
)

// Snapshot is an immutable view of the store at one version.
// Slices handed out by the store are copies and may be modified by the caller.
type Snapshot struct {
	Reading        models.Reading        `json:"reading"`
	Connected      bool                  `json:"connected"`
	Rooms          []models.Room         `json:"rooms"`
	SelectedRoomID string                `json:"selected_room_id,omitempty"` // "" means no selection
	Budget         models.Budget         `json:"budget"`
	History        []models.UsageHistory `json:"history"`
	Version        uint64                `json:"version"`
	Change         Change                `json:"change"`
}

// Room looks up a room by id
func (s Snapshot) Room(id string) (models.Room, bool) {
	for _, r := range s.Rooms {
		if r.ID == id {
			return r, true
		}
	}
	return models.Room{}, false
}

// SelectedRoom returns the selected room, if any
func (s Snapshot) SelectedRoom() (models.Room, bool) {
	if s.SelectedRoomID == "" {
		return models.Room{}, false
	}
	return s.Room(s.SelectedRoomID)
}

// Clone returns a deep copy of the snapshot
func (s Snapshot) Clone() Snapshot {
	c := s
	c.Rooms = models.CloneRooms(s.Rooms)
	if s.History != nil {
		c.History = make([]models.UsageHistory, len(s.History))
		copy(c.History, s.History)
	}
	return c
}

func (s Snapshot) indexOf(roomID string) int {
	for i, r := range s.Rooms {
		if r.ID == roomID {
			return i
		}
	}
	return -1
}

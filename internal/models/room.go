package models

import "time"

// RoomStatus is the display classification of a room
type RoomStatus string

const (
	StatusNormal  RoomStatus = "normal"
	StatusWarning RoomStatus = "warning"
	StatusDanger  RoomStatus = "danger"
)

// Valid reports whether s is one of the known statuses
func (s RoomStatus) Valid() bool {
	switch s {
	case StatusNormal, StatusWarning, StatusDanger:
		return true
	default:
		return false
	}
}

// Room is a monitored area of the home
type Room struct {
	ID           string     `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	Icon         string     `json:"icon" yaml:"icon"`
	CurrentPower float64    `json:"current_power" yaml:"current_power"` // W
	DailyUsage   float64    `json:"daily_usage" yaml:"daily_usage"`     // kWh
	Status       RoomStatus `json:"status" yaml:"status"`
	Devices      []Device   `json:"devices" yaml:"devices"`
}

// Device is an appliance attached to a room
type Device struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	RoomID   string    `json:"room_id" yaml:"room_id"`
	Power    float64   `json:"power" yaml:"power"`
	IsOnline bool      `json:"is_online" yaml:"is_online"`
	LastSeen time.Time `json:"last_seen" yaml:"last_seen"`
}

// Clone returns a deep copy of the room, including its devices
func (r Room) Clone() Room {
	c := r
	if r.Devices != nil {
		c.Devices = make([]Device, len(r.Devices))
		copy(c.Devices, r.Devices)
	}
	return c
}

// CloneRooms deep-copies a room collection
func CloneRooms(rooms []Room) []Room {
	if rooms == nil {
		return nil
	}
	out := make([]Room, len(rooms))
	for i, r := range rooms {
		out[i] = r.Clone()
	}
	return out
}

// LoadLevel classifies how close a power draw is to capacity
type LoadLevel string

const (
	LoadNormal  LoadLevel = "normal"
	LoadWarning LoadLevel = "warning"
	LoadDanger  LoadLevel = "danger"
)

// ClassifyLoad returns the percentage of capacity in use (capped at 100)
// and its load level: above 80% is danger, above 60% is warning
func ClassifyLoad(power, capacity float64) (float64, LoadLevel) {
	if capacity <= 0 {
		return 0, LoadNormal
	}
	percent := power / capacity * 100
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}
	switch {
	case percent > 80:
		return percent, LoadDanger
	case percent > 60:
		return percent, LoadWarning
	default:
		return percent, LoadNormal
	}
}

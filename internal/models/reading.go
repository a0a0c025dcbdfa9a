package models

import (
	"fmt"
	"time"
)

// Reading is a whole-home electrical sample from the meter feed.
type Reading struct {
	Current   float64   `json:"current"`   // A
	Voltage   float64   `json:"voltage"`   // V
	Power     float64   `json:"power"`     // W
	Energy    float64   `json:"energy"`    // kWh
	Timestamp time.Time `json:"timestamp"`
}

// IsValid checks that every measured value is non-negative and the
// reading carries a timestamp
func (r *Reading) IsValid() bool {
	if r.Timestamp.IsZero() {
		return false
	}
	if r.Current < 0 || r.Voltage < 0 || r.Power < 0 || r.Energy < 0 {
		return false
	}
	return true
}

// get the reading as a string
func (r *Reading) String() string {
	return fmt.Sprintf("Timestamp: %s, Current: %.1fA, Voltage: %.0fV, Power: %.0fW, Energy: %.2fkWh",
		r.Timestamp.Format(time.RFC3339),
		r.Current,
		r.Voltage,
		r.Power,
		r.Energy)
}

// NewReading creates a new Reading with the current timestamp
func NewReading(current, voltage, power, energy float64) *Reading {
	return &Reading{
		Current:   current,
		Voltage:   voltage,
		Power:     power,
		Energy:    energy,
		Timestamp: time.Now(),
	}
}

// Copy returns a copy of the Reading
func (r *Reading) Copy() *Reading {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

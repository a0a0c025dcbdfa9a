package dashboard

import (
	"fmt"
	"sync"
	"time"

	"github.com/afroash/energy-monitor/internal/models"
)

// Trend is a thread-safe rolling window of meter readings. When full the
// oldest reading is dropped.
type Trend struct {
	readings []models.Reading
	capacity int
	mutex    sync.RWMutex
	stats    TrendStats
}

// TrendStats tracks window usage
type TrendStats struct {
	TotalPushed  int64     `json:"total_pushed"`
	TotalDropped int64     `json:"total_dropped"`
	LastPushTime time.Time `json:"last_push_time"`
}

// NewTrend creates a window holding up to capacity readings
func NewTrend(capacity int) *Trend {
	if capacity < 1 {
		capacity = 1
	}
	return &Trend{
		readings: make([]models.Reading, 0, capacity),
		capacity: capacity,
	}
}

// Push adds a reading, evicting the oldest when the window is full
func (t *Trend) Push(r models.Reading) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if len(t.readings) >= t.capacity {
		copy(t.readings, t.readings[1:])
		t.readings = t.readings[:len(t.readings)-1]
		t.stats.TotalDropped++
	}
	t.readings = append(t.readings, r)
	t.stats.TotalPushed++
	t.stats.LastPushTime = time.Now()
}

// Recent returns up to n of the newest readings, oldest first
func (t *Trend) Recent(n int) []models.Reading {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	count := min(n, len(t.readings))
	if count <= 0 {
		return nil
	}
	out := make([]models.Reading, count)
	copy(out, t.readings[len(t.readings)-count:])
	return out
}

// Len returns the number of readings held
func (t *Trend) Len() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return len(t.readings)
}

// Capacity returns the window size
func (t *Trend) Capacity() int {
	return t.capacity
}

// AveragePower returns the mean power over the window, 0 when empty
func (t *Trend) AveragePower() float64 {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if len(t.readings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range t.readings {
		sum += r.Power
	}
	return sum / float64(len(t.readings))
}

// PeakPower returns the highest power in the window, 0 when empty
func (t *Trend) PeakPower() float64 {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	var peak float64
	for _, r := range t.readings {
		if r.Power > peak {
			peak = r.Power
		}
	}
	return peak
}

// Stats returns a copy of the window statistics
func (t *Trend) Stats() TrendStats {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return t.stats
}

// String returns something like "Trend[12/30, dropped: 5]"
func (t *Trend) String() string {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return fmt.Sprintf("Trend[%d/%d, dropped: %d]", len(t.readings), t.capacity, t.stats.TotalDropped)
}

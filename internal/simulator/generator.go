package simulator

import (
	"math/rand/v2"
	"time"

	"github.com/afroash/energy-monitor/internal/models"
)

// Generator produces whole-home readings for the driver.
// The random generator stands in for a meter feed.
type Generator interface {
	// Generate returns a reading stamped at now
	Generate(now time.Time) models.Reading
}

// Baseline ranges of the synthetic feed: each value is drawn uniformly from
// [base, base+spread)
const (
	baseCurrent   = 8.5
	spreadCurrent = 2.0
	baseVoltage   = 230.0
	spreadVoltage = 10.0
	basePower     = 1950.0
	spreadPower   = 200.0
	baseEnergy    = 145.7
	spreadEnergy  = 0.1
)

// RandomGenerator samples readings around a fixed baseline.
// It is not safe for concurrent use; the driver serialises calls.
type RandomGenerator struct {
	rng *rand.Rand
}

// NewRandomGenerator creates a generator drawing from rng
func NewRandomGenerator(rng *rand.Rand) *RandomGenerator {
	return &RandomGenerator{rng: rng}
}

// Generate implements Generator
func (g *RandomGenerator) Generate(now time.Time) models.Reading {
	return models.Reading{
		Current:   baseCurrent + g.rng.Float64()*spreadCurrent,
		Voltage:   baseVoltage + g.rng.Float64()*spreadVoltage,
		Power:     basePower + g.rng.Float64()*spreadPower,
		Energy:    baseEnergy + g.rng.Float64()*spreadEnergy,
		Timestamp: now,
	}
}

// newRand returns a PCG source seeded with seed, or a random seed when 0
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

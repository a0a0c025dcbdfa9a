package simulator

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/afroash/energy-monitor/internal/models"
	"github.com/afroash/energy-monitor/internal/telemetry"
)

// State is the lifecycle state of the driver
type State int

const (
	StateStopped State = iota
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Store is the subset of the telemetry store the driver writes to
type Store interface {
	State() telemetry.Snapshot
	UpdateReading(reading models.Reading)
	UpdateRoomPower(roomID string, power float64) error
	RecordUsage(entry models.UsageHistory)
}

// Config holds the driver settings. Nil pointers take the default.
type Config struct {
	Interval        time.Duration // Time between ticks (default: 2s)
	SkipProbability *float64      // Chance in [0,1] a room is left unchanged on a tick (default: 0.3)
	MaxDelta        *float64      // Largest power change per room per tick in W (default: 50)
	Tariff          float64       // Currency per kWh for the daily usage roll-up
	Seed            uint64        // Random seed, 0 picks one at startup
}

const (
	defaultInterval        = 2 * time.Second
	defaultSkipProbability = 0.3
	defaultMaxDelta        = 50.0
	defaultTariff          = 6.5
)

// DefaultConfig returns the reference simulation settings
func DefaultConfig() Config {
	return Config{
		Interval:        defaultInterval,
		SkipProbability: Float64(defaultSkipProbability),
		MaxDelta:        Float64(defaultMaxDelta),
		Tariff:          defaultTariff,
	}
}

// Float64 returns a pointer to v, for the optional Config fields
func Float64(v float64) *float64 {
	return &v
}

// Stats contains statistics about the driver
type Stats struct {
	State       string    `json:"state"`
	RunID       string    `json:"run_id,omitempty"`
	Starts      int64     `json:"starts"`
	Ticks       int64     `json:"ticks"`
	Readings    int64     `json:"readings"`
	RoomUpdates int64     `json:"room_updates"`
	UsageDays   int64     `json:"usage_days"`
	LastTick    time.Time `json:"last_tick,omitempty"`
}

// Driver periodically writes synthetic telemetry into the store
type Driver struct {
	store     Store
	cfg       Config
	skip      float64
	maxDelta  float64
	logger    zerolog.Logger
	rng       *rand.Rand
	gen       Generator
	newTicker TickerFactory
	now       func() time.Time

	// lifecycle
	mu       sync.Mutex
	ticker   Ticker
	stopChan chan struct{}
	wg       sync.WaitGroup

	// serialises ticks from the loop and TickOnce
	tickMu   sync.Mutex
	lastTick time.Time

	statsMu sync.RWMutex
	stats   Stats
}

// Option configures a Driver
type Option func(*Driver)

// WithGenerator replaces the random reading generator
func WithGenerator(g Generator) Option {
	return func(d *Driver) {
		d.gen = g
	}
}

// WithRand sets the random source used for room perturbation
// and the default generator
func WithRand(rng *rand.Rand) Option {
	return func(d *Driver) {
		d.rng = rng
	}
}

// WithTickerFactory replaces time.NewTicker
func WithTickerFactory(f TickerFactory) Option {
	return func(d *Driver) {
		d.newTicker = f
	}
}

// WithClock replaces time.Now for ticks run through TickOnce
func WithClock(now func() time.Time) Option {
	return func(d *Driver) {
		d.now = now
	}
}

// New creates a stopped driver writing to store
func New(store Store, cfg Config, logger zerolog.Logger, opts ...Option) *Driver {
	if cfg.Interval <= 0 {
		logger.Warn().
			Dur("provided_interval", cfg.Interval).
			Dur("default_interval", defaultInterval).
			Msg("Invalid simulation interval, using default")
		cfg.Interval = defaultInterval
	}

	skip := defaultSkipProbability
	if cfg.SkipProbability != nil {
		skip = math.Min(1, math.Max(0, *cfg.SkipProbability))
		if skip != *cfg.SkipProbability {
			logger.Warn().
				Float64("provided_skip_probability", *cfg.SkipProbability).
				Float64("skip_probability", skip).
				Msg("Skip probability out of range, clamped")
		}
	}

	maxDelta := defaultMaxDelta
	if cfg.MaxDelta != nil {
		if *cfg.MaxDelta < 0 {
			logger.Warn().
				Float64("provided_max_delta", *cfg.MaxDelta).
				Float64("default_max_delta", defaultMaxDelta).
				Msg("Negative max delta, using default")
		} else {
			maxDelta = *cfg.MaxDelta
		}
	}

	if cfg.Tariff < 0 {
		cfg.Tariff = defaultTariff
	}

	d := &Driver{
		store:     store,
		cfg:       cfg,
		skip:      skip,
		maxDelta:  maxDelta,
		logger:    logger,
		newTicker: NewRealTicker,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.rng == nil {
		d.rng = newRand(cfg.Seed)
	}
	if d.gen == nil {
		d.gen = NewRandomGenerator(d.rng)
	}
	d.stats.State = StateStopped.String()

	return d
}

// Start begins ticking. If the driver is already running the previous ticker
// is stopped first, so there is never more than one active ticker.
func (d *Driver) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ticker != nil {
		d.logger.Debug().Msg("Simulation already running, restarting")
		d.stopLocked()
	}

	ticker := d.newTicker(d.cfg.Interval)
	stop := make(chan struct{})
	d.ticker = ticker
	d.stopChan = stop

	runID := uuid.NewString()
	d.statsMu.Lock()
	d.stats.State = StateRunning.String()
	d.stats.RunID = runID
	d.stats.Starts++
	d.statsMu.Unlock()

	d.wg.Add(1)
	go d.loop(ticker, stop)

	d.logger.Info().
		Str("run_id", runID).
		Dur("interval", d.cfg.Interval).
		Float64("skip_probability", d.skip).
		Float64("max_delta", d.maxDelta).
		Msg("Simulation started")
}

// Stop halts ticking. It returns once the loop has exited, so a tick in
// progress completes and no tick runs afterwards. Stopping a stopped driver
// does nothing. Stop waits for the loop, so calling it from a store listener
// that the loop's own writes triggered never returns.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ticker == nil {
		return
	}
	d.stopLocked()
	d.logger.Info().Msg("Simulation stopped")
}

func (d *Driver) stopLocked() {
	close(d.stopChan)
	d.ticker.Stop()
	d.wg.Wait()

	d.ticker = nil
	d.stopChan = nil

	d.statsMu.Lock()
	d.stats.State = StateStopped.String()
	d.statsMu.Unlock()
}

// State returns the lifecycle state
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ticker != nil {
		return StateRunning
	}
	return StateStopped
}

// loop runs ticks until stop is closed
func (d *Driver) loop(ticker Ticker, stop <-chan struct{}) {
	defer d.wg.Done()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C():
			// Stop wins over a tick that became ready at the same time
			select {
			case <-stop:
				return
			default:
			}
			d.tick(now)
		}
	}
}

// TickOnce runs a single tick now (useful for testing)
func (d *Driver) TickOnce() {
	d.tick(d.now())
}

// tick writes a fresh reading, then perturbs rooms in collection order.
// The first tick of a new day first records the previous day's usage.
// Every write is a separate store commit.
func (d *Driver) tick(now time.Time) {
	d.tickMu.Lock()
	defer d.tickMu.Unlock()

	// Keep reading timestamps non-decreasing
	if now.Before(d.lastTick) {
		now = d.lastTick
	}
	prev := d.lastTick
	d.lastTick = now

	rolled := !prev.IsZero() && !sameDay(prev, now)
	if rolled {
		d.recordUsage(prev)
	}

	reading := d.gen.Generate(now)
	d.store.UpdateReading(reading)

	updated := 0
	if d.maxDelta > 0 {
		for _, room := range d.store.State().Rooms {
			if d.rng.Float64() < d.skip {
				continue
			}
			delta := (d.rng.Float64()*2 - 1) * d.maxDelta
			power := math.Max(0, room.CurrentPower+delta)
			if err := d.store.UpdateRoomPower(room.ID, power); err != nil {
				d.logger.Debug().Err(err).Str("room_id", room.ID).Msg("Room update skipped")
				continue
			}
			updated++
		}
	}

	d.statsMu.Lock()
	d.stats.Ticks++
	d.stats.Readings++
	d.stats.RoomUpdates += int64(updated)
	if rolled {
		d.stats.UsageDays++
	}
	d.stats.LastTick = now
	d.statsMu.Unlock()

	d.logger.Debug().
		Float64("power", reading.Power).
		Int("rooms_updated", updated).
		Msg("Simulation tick")
}

// recordUsage rolls the rooms' daily usage into the store history
func (d *Driver) recordUsage(day time.Time) {
	var usage float64
	for _, room := range d.store.State().Rooms {
		usage += room.DailyUsage
	}
	entry := models.UsageHistory{
		Date:  day.Format("2006-01-02"),
		Usage: usage,
		Cost:  usage * d.cfg.Tariff,
	}
	d.store.RecordUsage(entry)

	d.logger.Info().
		Str("date", entry.Date).
		Float64("usage_kwh", entry.Usage).
		Float64("cost", entry.Cost).
		Msg("Daily usage recorded")
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

// Stats returns current driver statistics
func (d *Driver) Stats() Stats {
	d.statsMu.RLock()
	defer d.statsMu.RUnlock()
	return d.stats
}

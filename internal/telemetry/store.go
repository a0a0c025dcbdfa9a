package telemetry

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/afroash/energy-monitor/internal/models"
)

// ErrRoomNotFound is returned when an action names a room id the store does not hold
var ErrRoomNotFound = errors.New("room not found")

// DefaultHistoryCapacity is the number of usage history entries kept when
// no capacity is configured
const DefaultHistoryCapacity = 30

// Store is the single source of truth for live energy state.
//
// Writers are serialised: each action builds a new snapshot and publishes it.
// Readers load the published snapshot without locking, so they never see a
// half-applied change. Committed snapshots are queued and delivered to
// listeners in commit order, outside the write lock. Listeners may call store
// actions; such a change is delivered once the current notification finishes.
type Store struct {
	id              string
	logger          zerolog.Logger
	dispatcher      Dispatcher
	historyCapacity int

	writeMu sync.Mutex
	current atomic.Pointer[Snapshot]

	// guarded by writeMu
	pending  []Snapshot
	draining bool

	listenersMu sync.RWMutex
	listeners   []*subscription

	commits       atomic.Int64
	notifications atomic.Int64
}

type subscription struct {
	fn Listener
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the store logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithDispatcher replaces the synchronous dispatcher
func WithDispatcher(d Dispatcher) Option {
	return func(s *Store) {
		if d != nil {
			s.dispatcher = d
		}
	}
}

// WithHistoryCapacity bounds the usage history ring
func WithHistoryCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.historyCapacity = n
		}
	}
}

// New creates a store holding the seed state
func New(seed Seed, opts ...Option) (*Store, error) {
	s := &Store{
		id:              uuid.NewString(),
		logger:          zerolog.Nop(),
		dispatcher:      SyncDispatcher{},
		historyCapacity: DefaultHistoryCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := seed.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}

	initial := &Snapshot{
		Reading:   seed.Reading,
		Connected: seed.Connected,
		Rooms:     models.CloneRooms(seed.Rooms),
		Budget:    seed.Budget,
		History:   s.trimHistory(append([]models.UsageHistory(nil), seed.History...)),
		Change:    ChangeInit,
	}
	s.current.Store(initial)

	s.logger = s.logger.With().Str("store_id", s.id).Logger()
	s.logger.Info().
		Int("rooms", len(initial.Rooms)).
		Int("history_capacity", s.historyCapacity).
		Msg("Telemetry store initialized")

	return s, nil
}

// ID returns the store instance id
func (s *Store) ID() string {
	return s.id
}

// State returns the current snapshot
func (s *Store) State() Snapshot {
	return s.current.Load().Clone()
}

// Subscribe registers a listener called after every committed change.
// Listeners are called in registration order; registering the same function
// twice makes it fire twice. The returned func removes the listener and may be
// called more than once.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	sub := &subscription{fn: l}

	s.listenersMu.Lock()
	s.listeners = append(s.listeners, sub)
	count := len(s.listeners)
	s.listenersMu.Unlock()

	s.logger.Debug().Int("listeners", count).Msg("Listener subscribed")

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(sub) })
	}
}

func (s *Store) unsubscribe(sub *subscription) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	for i, existing := range s.listeners {
		if existing == sub {
			// Copy so in-flight dispatches keep their own slice
			next := make([]*subscription, 0, len(s.listeners)-1)
			next = append(next, s.listeners[:i]...)
			next = append(next, s.listeners[i+1:]...)
			s.listeners = next
			break
		}
	}
	s.logger.Debug().Int("listeners", len(s.listeners)).Msg("Listener unsubscribed")
}

// UpdateReading replaces the current reading
func (s *Store) UpdateReading(reading models.Reading) {
	s.commit(ChangeReading, func(next *Snapshot) error {
		next.Reading = reading
		return nil
	})
}

// SetConnectionStatus replaces the connection flag
func (s *Store) SetConnectionStatus(connected bool) {
	s.commit(ChangeConnection, func(next *Snapshot) error {
		next.Connected = connected
		return nil
	})
}

// SelectRoom selects a room by id, or clears the selection when id is empty.
// An unknown id leaves the selection untouched and returns ErrRoomNotFound.
func (s *Store) SelectRoom(roomID string) error {
	return s.commit(ChangeSelection, func(next *Snapshot) error {
		if roomID != "" && next.indexOf(roomID) < 0 {
			return fmt.Errorf("select %q: %w", roomID, ErrRoomNotFound)
		}
		next.SelectedRoomID = roomID
		return nil
	})
}

// UpdateRoomPower replaces the current power of one room.
// An unknown id leaves the rooms untouched and returns ErrRoomNotFound.
func (s *Store) UpdateRoomPower(roomID string, power float64) error {
	return s.commit(ChangeRoomPower, func(next *Snapshot) error {
		i := next.indexOf(roomID)
		if i < 0 {
			return fmt.Errorf("update power of %q: %w", roomID, ErrRoomNotFound)
		}
		rooms := make([]models.Room, len(next.Rooms))
		copy(rooms, next.Rooms)
		rooms[i].CurrentPower = power
		next.Rooms = rooms
		return nil
	})
}

// SetBudget replaces the budget
func (s *Store) SetBudget(budget models.Budget) {
	s.commit(ChangeBudget, func(next *Snapshot) error {
		next.Budget = budget
		return nil
	})
}

// RecordUsage appends a usage history entry, dropping the oldest entry once
// the history is at capacity
func (s *Store) RecordUsage(entry models.UsageHistory) {
	s.commit(ChangeHistory, func(next *Snapshot) error {
		history := make([]models.UsageHistory, 0, len(next.History)+1)
		history = append(history, next.History...)
		history = append(history, entry)
		next.History = s.trimHistory(history)
		return nil
	})
}

// commit applies mutate to a copy of the current snapshot, publishes it and
// queues it for listeners. Nothing is published when mutate fails.
// The goroutine that finds no delivery in progress drains the queue.
func (s *Store) commit(change Change, mutate func(next *Snapshot) error) error {
	s.writeMu.Lock()

	prev := s.current.Load()
	next := *prev
	if err := mutate(&next); err != nil {
		s.writeMu.Unlock()
		s.logger.Debug().Err(err).Str("change", string(change)).Msg("Change rejected")
		return err
	}
	next.Version = prev.Version + 1
	next.Change = change

	s.current.Store(&next)
	s.commits.Add(1)

	// Listeners never share slices with the published snapshot
	s.pending = append(s.pending, next.Clone())
	if s.draining {
		s.writeMu.Unlock()
		return nil
	}
	s.draining = true
	s.writeMu.Unlock()

	s.drain()
	return nil
}

// drain delivers queued snapshots until the queue is empty
func (s *Store) drain() {
	finished := false
	defer func() {
		// A panicking listener must not leave delivery stuck
		if !finished {
			s.writeMu.Lock()
			s.pending = nil
			s.draining = false
			s.writeMu.Unlock()
		}
	}()

	for {
		s.writeMu.Lock()
		if len(s.pending) == 0 {
			s.pending = nil
			s.draining = false
			s.writeMu.Unlock()
			finished = true
			return
		}
		snap := s.pending[0]
		s.pending[0] = Snapshot{}
		s.pending = s.pending[1:]
		s.writeMu.Unlock()

		s.notify(snap)
	}
}

func (s *Store) notify(snap Snapshot) {
	s.listenersMu.RLock()
	subs := s.listeners
	s.listenersMu.RUnlock()

	if len(subs) == 0 {
		return
	}

	listeners := make([]Listener, len(subs))
	for i, sub := range subs {
		listeners[i] = sub.fn
	}
	s.dispatcher.Dispatch(listeners, snap)
	s.notifications.Add(int64(len(listeners)))
}

func (s *Store) trimHistory(history []models.UsageHistory) []models.UsageHistory {
	if len(history) > s.historyCapacity {
		history = history[len(history)-s.historyCapacity:] // Remove oldest
	}
	return history
}

// StoreStats contains statistics about the store
type StoreStats struct {
	ID            string `json:"id"`
	Version       uint64 `json:"version"`
	Commits       int64  `json:"commits"`
	Notifications int64  `json:"notifications"`
	Listeners     int    `json:"listeners"`
	Rooms         int    `json:"rooms"`
	HistoryLength int    `json:"history_length"`
}

// Stats returns statistics about the store
func (s *Store) Stats() StoreStats {
	snap := s.current.Load()

	s.listenersMu.RLock()
	listeners := len(s.listeners)
	s.listenersMu.RUnlock()

	return StoreStats{
		ID:            s.id,
		Version:       snap.Version,
		Commits:       s.commits.Load(),
		Notifications: s.notifications.Load(),
		Listeners:     listeners,
		Rooms:         len(snap.Rooms),
		HistoryLength: len(snap.History),
	}
}

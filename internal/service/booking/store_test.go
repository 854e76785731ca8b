package booking

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/Domenick1991/airtrips/internal/domain"
	"github.com/Domenick1991/airtrips/internal/repository"
	"github.com/stretchr/testify/mock"
)

type reservation struct {
	UserID   int64
	FlightID int64
}

// memStore is an in-memory reservation store. In locking mode each
// transaction holds the store mutex for its whole body; in optimistic mode
// transactions run concurrently against a snapshot and the later committer
// gets repository.ErrSerialization.
type memStore struct {
	mu           sync.Mutex
	optimistic   bool
	version      int
	flights      map[int64]domain.Flight
	reservations map[reservation]bool

	conflicts  int   // upcoming transactions rejected with ErrSerialization
	failDelete int64 // Delete of this flight fails with ErrStoreUnavailable
	txCalls    int
}

func newMemStore(flights ...domain.Flight) *memStore {
	s := &memStore{flights: map[int64]domain.Flight{}, reservations: map[reservation]bool{}}
	for _, f := range flights {
		s.flights[f.ID] = f
	}
	return s
}

func (s *memStore) seed(userID, flightID int64) {
	s.reservations[reservation{UserID: userID, FlightID: flightID}] = true
}

func (s *memStore) WithinTx(ctx context.Context, _ repository.TxOptions, fn func(ctx context.Context, tx repository.ReservationTx) error) error {
	if s.optimistic {
		return s.optimisticTx(ctx, fn)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.txCalls++
	if s.conflicts > 0 {
		s.conflicts--
		return repository.ErrSerialization
	}
	tx := &memTx{store: s, pending: maps.Clone(s.reservations)}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.reservations = tx.pending
	return nil
}

func (s *memStore) optimisticTx(ctx context.Context, fn func(ctx context.Context, tx repository.ReservationTx) error) error {
	s.mu.Lock()
	s.txCalls++
	version := s.version
	tx := &memTx{store: s, pending: maps.Clone(s.reservations)}
	s.mu.Unlock()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version != version {
		return repository.ErrSerialization
	}
	s.reservations = tx.pending
	s.version++
	return nil
}

func (s *memStore) ListForUser(_ context.Context, userID int64) ([]domain.Flight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Flight
	for r := range s.reservations {
		if r.UserID == userID {
			out = append(out, s.flights[r.FlightID])
		}
	}
	return out, nil
}

func (s *memStore) countForFlight(flightID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return countFlight(s.reservations, flightID)
}

func (s *memStore) has(userID, flightID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reservations[reservation{UserID: userID, FlightID: flightID}]
}

func countFlight(reservations map[reservation]bool, flightID int64) int {
	n := 0
	for r := range reservations {
		if r.FlightID == flightID {
			n++
		}
	}
	return n
}

// memTx works on a private copy of the reservations; flights are read-only.
type memTx struct {
	store   *memStore
	pending map[reservation]bool
}

func (t *memTx) CountForFlight(_ context.Context, flightID int64) (int, error) {
	return countFlight(t.pending, flightID), nil
}

func (t *memTx) CountForUserOnDate(_ context.Context, userID int64, date domain.Date) (int, error) {
	n := 0
	for r := range t.pending {
		if r.UserID == userID && t.store.flights[r.FlightID].Date == date {
			n++
		}
	}
	return n, nil
}

func (t *memTx) CountForUser(_ context.Context, userID int64) (int, error) {
	n := 0
	for r := range t.pending {
		if r.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (t *memTx) Insert(_ context.Context, userID, flightID int64) error {
	f, ok := t.store.flights[flightID]
	if !ok || !f.Operated {
		return fmt.Errorf("%w: flight %d not bookable", domain.ErrInvalidInput, flightID)
	}
	key := reservation{UserID: userID, FlightID: flightID}
	if t.pending[key] {
		return errors.New("duplicate reservation")
	}
	t.pending[key] = true
	return nil
}

func (t *memTx) Delete(_ context.Context, userID, flightID int64) error {
	if t.store.failDelete == flightID {
		return fmt.Errorf("%w: connection reset", domain.ErrStoreUnavailable)
	}
	delete(t.pending, reservation{UserID: userID, FlightID: flightID})
	return nil
}

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) WithinTx(ctx context.Context, opts repository.TxOptions, fn func(ctx context.Context, tx repository.ReservationTx) error) error {
	args := m.Called(ctx, opts, fn)
	return args.Error(0)
}

func (m *MockReservationRepository) ListForUser(ctx context.Context, userID int64) ([]domain.Flight, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/airtrips/internal/domain"
	"github.com/Domenick1991/airtrips/internal/kafka"
	"github.com/Domenick1991/airtrips/internal/logger"
	"github.com/Domenick1991/airtrips/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultMaxRetries     = 5
	DefaultRetryBaseDelay = 20 * time.Millisecond
	DefaultTimeout        = 5 * time.Second
)

type BookingUseCase interface {
	Reserve(ctx context.Context, user domain.User, date domain.Date, flights []domain.Flight) (domain.ReserveResult, error)
	Cancel(ctx context.Context, user domain.User, flights []domain.Flight) error
	Reservations(ctx context.Context, user domain.User) ([]domain.Flight, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	reservations      repository.ReservationRepository
	producer          Producer
	topic             string
	maxFlightBookings int
	maxRetries        int
	retryBaseDelay    time.Duration
	timeout           time.Duration
	lockTimeout       time.Duration
	log               *zap.Logger
}

type BookingServiceOption func(*BookingService)

// WithCapacity lowers the per-flight reservation limit. Values above
// domain.MaxFlightBookings are ignored.
func WithCapacity(maxFlightBookings int) BookingServiceOption {
	return func(s *BookingService) {
		if maxFlightBookings > 0 && maxFlightBookings <= domain.MaxFlightBookings {
			s.maxFlightBookings = maxFlightBookings
		}
	}
}

// WithRetry sets how many times a transaction aborted by a serialization
// conflict is re-run, and the base of the exponential backoff between runs.
func WithRetry(maxRetries int, baseDelay time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		if maxRetries >= 0 {
			s.maxRetries = maxRetries
		}
		if baseDelay >= 0 {
			s.retryBaseDelay = baseDelay
		}
	}
}

// WithTimeout bounds a whole reserve or cancel call, retries included.
func WithTimeout(timeout, lockTimeout time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		if timeout > 0 {
			s.timeout = timeout
		}
		if lockTimeout > 0 {
			s.lockTimeout = lockTimeout
		}
	}
}

func WithEvents(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.topic = topic
	}
}

func WithLogger(l *zap.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.log = logger.OrNop(l)
	}
}

func NewBookingService(reservations repository.ReservationRepository, opts ...BookingServiceOption) *BookingService {
	s := &BookingService{
		reservations:      reservations,
		maxFlightBookings: domain.MaxFlightBookings,
		maxRetries:        DefaultMaxRetries,
		retryBaseDelay:    DefaultRetryBaseDelay,
		timeout:           DefaultTimeout,
		log:               zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// errAbort rolls back a transaction whose outcome is a semantic refusal.
var errAbort = errors.New("reservation refused")

// Reserve books every flight for user on date, or none of them. A user who
// already holds a reservation, on date or on any other day, gets
// ReserveDayFull; a flight that already carries the maximum number of
// reservations gets ReserveFlightFull.
func (s *BookingService) Reserve(ctx context.Context, user domain.User, date domain.Date, flights []domain.Flight) (domain.ReserveResult, error) {
	if user.ID <= 0 {
		return 0, fmt.Errorf("%w: unknown user", domain.ErrInvalidInput)
	}
	if err := domain.ValidateLegs(date, flights); err != nil {
		return 0, err
	}

	var result domain.ReserveResult
	err := s.inTx(ctx, repository.Serializable, func(ctx context.Context, tx repository.ReservationTx) error {
		result = 0

		held, err := tx.CountForUserOnDate(ctx, user.ID, date)
		if err != nil {
			return err
		}
		if held > 0 {
			result = domain.ReserveDayFull
			return errAbort
		}
		// Reservations on any other day also block: a user travels on one
		// reservation-day at a time.
		total, err := tx.CountForUser(ctx, user.ID)
		if err != nil {
			return err
		}
		if total > held {
			result = domain.ReserveDayFull
			return errAbort
		}

		for _, f := range flights {
			booked, err := tx.CountForFlight(ctx, f.ID)
			if err != nil {
				return err
			}
			if booked >= s.maxFlightBookings {
				result = domain.ReserveFlightFull
				return errAbort
			}
			if err := tx.Insert(ctx, user.ID, f.ID); err != nil {
				return err
			}
		}

		result = domain.ReserveBooked
		return nil
	})

	if errors.Is(err, errAbort) {
		s.log.Info("reservation refused",
			zap.Int64("user_id", user.ID),
			zap.Stringer("date", date),
			zap.Int64s("flight_ids", flightIDs(flights)),
			zap.Stringer("result", result))
		return result, nil
	}
	if err != nil {
		s.log.Error("reservation failed",
			zap.Int64("user_id", user.ID),
			zap.Int64s("flight_ids", flightIDs(flights)),
			zap.Error(err))
		return 0, err
	}

	s.log.Info("reservation booked",
		zap.Int64("user_id", user.ID),
		zap.Stringer("date", date),
		zap.Int64s("flight_ids", flightIDs(flights)))
	s.publish(ctx, domain.ReservationBooked, user, date, flights)
	return domain.ReserveBooked, nil
}

// Cancel removes the user's reservations on flights in one transaction.
// Flights the user holds no reservation on are skipped.
func (s *BookingService) Cancel(ctx context.Context, user domain.User, flights []domain.Flight) error {
	if user.ID <= 0 {
		return fmt.Errorf("%w: unknown user", domain.ErrInvalidInput)
	}
	for _, f := range flights {
		if f.ID <= 0 {
			return fmt.Errorf("%w: flight without id", domain.ErrInvalidInput)
		}
	}
	if len(flights) == 0 {
		return nil
	}

	// Deletes only move the store toward its limits, so read committed is enough.
	err := s.inTx(ctx, repository.ReadCommitted, func(ctx context.Context, tx repository.ReservationTx) error {
		for _, f := range flights {
			if err := tx.Delete(ctx, user.ID, f.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error("cancellation rolled back",
			zap.Int64("user_id", user.ID),
			zap.Int64s("flight_ids", flightIDs(flights)),
			zap.Error(err))
		return err
	}

	s.log.Info("reservations cancelled",
		zap.Int64("user_id", user.ID),
		zap.Int64s("flight_ids", flightIDs(flights)))
	s.publish(ctx, domain.ReservationCancelled, user, flights[0].Date, flights)
	return nil
}

func (s *BookingService) Reservations(ctx context.Context, user domain.User) ([]domain.Flight, error) {
	if user.ID <= 0 {
		return nil, fmt.Errorf("%w: unknown user", domain.ErrInvalidInput)
	}
	return s.reservations.ListForUser(ctx, user.ID)
}

// inTx runs fn as one transaction, re-running it when the store reports a
// serialization conflict.
func (s *BookingService) inTx(ctx context.Context, isolation repository.IsolationLevel, fn func(ctx context.Context, tx repository.ReservationTx) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := repository.TxOptions{Isolation: isolation, LockTimeout: s.lockTimeout}
	for attempt := 0; ; attempt++ {
		err := s.reservations.WithinTx(ctx, opts, fn)
		if !errors.Is(err, repository.ErrSerialization) {
			return deadlineErr(ctx, err)
		}
		if attempt >= s.maxRetries {
			return fmt.Errorf("%w: gave up after %d attempts", domain.ErrConflictRetryExhausted, attempt+1)
		}

		s.log.Debug("serialization conflict, retrying", zap.Int("attempt", attempt+1))
		if err := sleep(ctx, backoff(s.retryBaseDelay, attempt)); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			return fmt.Errorf("%w: while waiting to retry after %d attempts", domain.ErrTimeout, attempt+1)
		}
	}
}

func (s *BookingService) publish(ctx context.Context, eventType domain.ReservationEventType, user domain.User, date domain.Date, flights []domain.Flight) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.ReservationEvent{
		ID:         uuid.NewString(),
		Type:       string(eventType),
		UserID:     user.ID,
		Handle:     user.Handle,
		Date:       date.String(),
		FlightIDs:  flightIDs(flights),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.producer.Publish(ctx, s.topic, fmt.Sprintf("%d", user.ID), event); err != nil {
		s.log.Warn("failed to publish reservation event",
			zap.String("type", event.Type),
			zap.Int64("user_id", user.ID),
			zap.Error(err))
	}
}

func flightIDs(flights []domain.Flight) []int64 {
	ids := make([]int64, 0, len(flights))
	for _, f := range flights {
		ids = append(ids, f.ID)
	}
	return ids
}

var _ BookingUseCase = (*BookingService)(nil)

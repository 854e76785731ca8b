package flights

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Domenick1991/airtrips/internal/domain"
	"github.com/Domenick1991/airtrips/internal/logger"
	"github.com/Domenick1991/airtrips/internal/repository"
	"go.uber.org/zap"
)

const DefaultSearchLimit = domain.MaxSearchResults

type FlightUseCase interface {
	Search(ctx context.Context, date domain.Date, originCity, destCity string) ([]domain.Itinerary, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Flight, error)
}

type SearchCache interface {
	GetItineraries(ctx context.Context, date domain.Date, originCity, destCity string) ([]domain.Itinerary, error)
	SetItineraries(ctx context.Context, date domain.Date, originCity, destCity string, itineraries []domain.Itinerary) error
}

type FlightService struct {
	repo  repository.FlightRepository
	cache SearchCache
	limit int
	log   *zap.Logger
}

type FlightServiceOption func(*FlightService)

func WithSearchLimit(limit int) FlightServiceOption {
	return func(s *FlightService) {
		if limit > 0 && limit <= domain.MaxSearchResults {
			s.limit = limit
		}
	}
}

func WithLogger(l *zap.Logger) FlightServiceOption {
	return func(s *FlightService) {
		s.log = logger.OrNop(l)
	}
}

// NewFlightService builds the search service. cache may be nil.
func NewFlightService(repo repository.FlightRepository, cache SearchCache, opts ...FlightServiceOption) *FlightService {
	s := &FlightService{repo: repo, cache: cache, limit: DefaultSearchLimit, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns direct itineraries ordered by duration followed by
// one-connection itineraries ordered by total duration.
func (s *FlightService) Search(ctx context.Context, date domain.Date, originCity, destCity string) ([]domain.Itinerary, error) {
	originCity, destCity = strings.TrimSpace(originCity), strings.TrimSpace(destCity)
	if date.IsZero() || originCity == "" || destCity == "" {
		return nil, fmt.Errorf("%w: date, origin and destination are required", domain.ErrInvalidInput)
	}

	if s.cache != nil {
		cached, err := s.cache.GetItineraries(ctx, date, originCity, destCity)
		if err != nil {
			s.log.Warn("search cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	direct, err := s.repo.FindDirect(ctx, date, originCity, destCity, s.limit)
	if err != nil {
		return nil, catalogErr(err)
	}
	connections, err := s.repo.FindConnections(ctx, date, originCity, destCity, s.limit)
	if err != nil {
		return nil, catalogErr(err)
	}

	itineraries := assemble(date, originCity, destCity, direct, connections, s.limit)

	if s.cache != nil {
		if err := s.cache.SetItineraries(ctx, date, originCity, destCity, itineraries); err != nil {
			s.log.Warn("search cache write failed", zap.Error(err))
		}
	}
	return itineraries, nil
}

func (s *FlightService) GetByIDs(ctx context.Context, ids []int64) ([]domain.Flight, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no flight ids", domain.ErrInvalidInput)
	}
	flights, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return nil, err
		}
		return nil, catalogErr(err)
	}
	return flights, nil
}

// assemble filters out anything that is not a complete same-day trip between
// the requested cities, then orders and caps each group.
func assemble(date domain.Date, originCity, destCity string, direct []domain.Flight, connections []domain.Connection, limit int) []domain.Itinerary {
	directs := make([]domain.Itinerary, 0, len(direct))
	for _, f := range direct {
		if f.OriginCity != originCity || f.DestCity != destCity {
			continue
		}
		if domain.ValidateLegs(date, []domain.Flight{f}) != nil {
			continue
		}
		directs = append(directs, domain.Itinerary{Flights: []domain.Flight{f}})
	}

	hops := make([]domain.Itinerary, 0, len(connections))
	for _, c := range connections {
		if c.First.OriginCity != originCity || c.Second.DestCity != destCity {
			continue
		}
		it := c.Itinerary()
		if domain.ValidateLegs(date, it.Flights) != nil {
			continue
		}
		hops = append(hops, it)
	}

	byDuration := func(a, b domain.Itinerary) int {
		return a.TotalDuration() - b.TotalDuration()
	}
	slices.SortStableFunc(directs, byDuration)
	slices.SortStableFunc(hops, byDuration)

	if len(directs) > limit {
		directs = directs[:limit]
	}
	if len(hops) > limit {
		hops = hops[:limit]
	}
	return append(directs, hops...)
}

func catalogErr(err error) error {
	if errors.Is(err, domain.ErrTimeout) || errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
}

var _ FlightUseCase = (*FlightService)(nil)

package grpcapi

import (
	"context"
	"errors"
	"strings"

	"github.com/Domenick1991/airtrips/internal/domain"
	"github.com/Domenick1991/airtrips/internal/service/auth"
	"github.com/Domenick1991/airtrips/internal/service/booking"
	"github.com/Domenick1991/airtrips/internal/service/flights"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const authorizationKey = "authorization"

type Server struct {
	auth     auth.AuthUseCase
	flights  flights.FlightUseCase
	bookings booking.BookingUseCase
	log      *zap.Logger
}

func NewServer(authService auth.AuthUseCase, catalog flights.FlightUseCase, bookings booking.BookingUseCase, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{auth: authService, flights: catalog, bookings: bookings, log: log}
}

func (s *Server) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	token, user, err := s.auth.Login(ctx, req.Handle, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return &LoginResponse{Token: token, User: *user}, nil
}

func (s *Server) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	if req.Origin == "" || req.Destination == "" {
		return nil, status.Error(codes.InvalidArgument, "origin and destination are required")
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return nil, toStatus(err)
	}

	itineraries, err := s.flights.Search(ctx, date, req.Origin, req.Destination)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &SearchResponse{Itineraries: make([]Itinerary, 0, len(itineraries))}
	for _, it := range itineraries {
		resp.Itineraries = append(resp.Itineraries, Itinerary{Flights: it.Flights, TotalDuration: it.TotalDuration()})
	}
	return resp, nil
}

func (s *Server) Reserve(ctx context.Context, req *ReserveRequest) (*ReserveResponse, error) {
	user, err := s.authenticate(ctx)
	if err != nil {
		return nil, err
	}
	if n := len(req.FlightIDs); n == 0 || n > domain.MaxItineraryLegs {
		return nil, status.Errorf(codes.InvalidArgument, "expected 1 to %d flight ids, got %d", domain.MaxItineraryLegs, n)
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return nil, toStatus(err)
	}

	legs, err := s.flights.GetByIDs(ctx, req.FlightIDs)
	if err != nil {
		return nil, toStatus(err)
	}
	result, err := s.bookings.Reserve(ctx, user, date, legs)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ReserveResponse{Result: result.String()}, nil
}

func (s *Server) Cancel(ctx context.Context, req *CancelRequest) (*CancelResponse, error) {
	user, err := s.authenticate(ctx)
	if err != nil {
		return nil, err
	}
	if len(req.FlightIDs) == 0 {
		return nil, status.Error(codes.InvalidArgument, "at least one flight id is required")
	}

	legs, err := s.flights.GetByIDs(ctx, req.FlightIDs)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := s.bookings.Cancel(ctx, user, legs); err != nil {
		return nil, toStatus(err)
	}
	return &CancelResponse{}, nil
}

func (s *Server) ListReservations(ctx context.Context, _ *ListReservationsRequest) (*ListReservationsResponse, error) {
	user, err := s.authenticate(ctx)
	if err != nil {
		return nil, err
	}
	reserved, err := s.bookings.Reservations(ctx, user)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ListReservationsResponse{Flights: reserved}, nil
}

func (s *Server) authenticate(ctx context.Context) (domain.User, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	values := md.Get(authorizationKey)
	if len(values) == 0 {
		return domain.User{}, status.Error(codes.Unauthenticated, "missing authorization metadata")
	}
	token, ok := strings.CutPrefix(values[0], "Bearer ")
	if !ok || token == "" {
		return domain.User{}, status.Error(codes.Unauthenticated, "malformed authorization metadata")
	}

	user, err := s.auth.Authenticate(token)
	if err != nil {
		s.log.Debug("rejected token", zap.Error(err))
		return domain.User{}, toStatus(err)
	}
	return user, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case auth.IsAuthError(err):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, domain.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, domain.ErrConflictRetryExhausted):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable), errors.Is(err, domain.ErrCatalogUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

var _ TripsServer = (*Server)(nil)

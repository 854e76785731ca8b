package grpcapi

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/Domenick1991/airtrips/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Login(ctx context.Context, handle, password string) (string, *domain.User, error) {
	args := m.Called(ctx, handle, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.User), args.Error(2)
}

func (m *MockAuthUseCase) Authenticate(token string) (domain.User, error) {
	args := m.Called(token)
	return args.Get(0).(domain.User), args.Error(1)
}

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) Search(ctx context.Context, date domain.Date, origin, dest string) ([]domain.Itinerary, error) {
	args := m.Called(ctx, date, origin, dest)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Itinerary), args.Error(1)
}

func (m *MockFlightUseCase) GetByIDs(ctx context.Context, ids []int64) ([]domain.Flight, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) Reserve(ctx context.Context, user domain.User, date domain.Date, flights []domain.Flight) (domain.ReserveResult, error) {
	args := m.Called(ctx, user, date, flights)
	return args.Get(0).(domain.ReserveResult), args.Error(1)
}

func (m *MockBookingUseCase) Cancel(ctx context.Context, user domain.User, flights []domain.Flight) error {
	args := m.Called(ctx, user, flights)
	return args.Error(0)
}

func (m *MockBookingUseCase) Reservations(ctx context.Context, user domain.User) ([]domain.Flight, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

type fixture struct {
	auth     *MockAuthUseCase
	flights  *MockFlightUseCase
	bookings *MockBookingUseCase
	client   *Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		auth:     new(MockAuthUseCase),
		flights:  new(MockFlightUseCase),
		bookings: new(MockBookingUseCase),
	}

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterTripsServer(srv, NewServer(f.auth, f.flights, f.bookings, nil))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	f.client = NewClient(conn)
	return f
}

var (
	day   = domain.NewDate(2024, 5, 1)
	alice = domain.User{ID: 7, Handle: "alice", Name: "Alice"}
	f1    = domain.Flight{ID: 1, Carrier: domain.Carrier{ID: "AA", Name: "American"}, FlightNumber: "10", OriginCity: "Seattle WA", DestCity: "Boston MA", Date: day, DurationMinutes: 300, Operated: true}
)

func TestLogin(t *testing.T) {
	f := newFixture(t)
	f.auth.On("Login", mock.Anything, "alice", "secret").Return("tok", &alice, nil)

	resp, err := f.client.Login(context.Background(), &LoginRequest{Handle: "alice", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, alice, resp.User)
}

func TestLogin_BadCredentials(t *testing.T) {
	f := newFixture(t)
	f.auth.On("Login", mock.Anything, "alice", "wrong").Return("", nil, domain.ErrInvalidCredentials)

	_, err := f.client.Login(context.Background(), &LoginRequest{Handle: "alice", Password: "wrong"})

	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	f.flights.On("Search", mock.Anything, day, "Seattle WA", "Boston MA").
		Return([]domain.Itinerary{{Flights: []domain.Flight{f1}}}, nil)

	resp, err := f.client.Search(context.Background(), &SearchRequest{Date: "2024-05-01", Origin: "Seattle WA", Destination: "Boston MA"})

	require.NoError(t, err)
	require.Len(t, resp.Itineraries, 1)
	assert.Equal(t, 300, resp.Itineraries[0].TotalDuration)
	assert.Equal(t, f1, resp.Itineraries[0].Flights[0])
}

func TestSearch_InvalidArgument(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.Search(context.Background(), &SearchRequest{Date: "May 1", Origin: "Seattle WA", Destination: "Boston MA"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = f.client.Search(context.Background(), &SearchRequest{Date: "2024-05-01", Origin: "Seattle WA"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	f.flights.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReserve(t *testing.T) {
	f := newFixture(t)
	f.auth.On("Authenticate", "tok").Return(alice, nil)
	f.flights.On("GetByIDs", mock.Anything, []int64{1}).Return([]domain.Flight{f1}, nil)
	f.bookings.On("Reserve", mock.Anything, alice, day, []domain.Flight{f1}).Return(domain.ReserveFlightFull, nil)

	ctx := WithToken(context.Background(), "tok")
	resp, err := f.client.Reserve(ctx, &ReserveRequest{Date: "2024-05-01", FlightIDs: []int64{1}})

	require.NoError(t, err)
	assert.Equal(t, "flight_full", resp.Result)
}

func TestReserve_RequiresToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.Reserve(context.Background(), &ReserveRequest{Date: "2024-05-01", FlightIDs: []int64{1}})

	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	f.bookings.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReserve_TooManyLegs(t *testing.T) {
	f := newFixture(t)
	f.auth.On("Authenticate", "tok").Return(alice, nil)

	ctx := WithToken(context.Background(), "tok")
	_, err := f.client.Reserve(ctx, &ReserveRequest{Date: "2024-05-01", FlightIDs: []int64{1, 2, 3}})

	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	f.auth.On("Authenticate", "tok").Return(alice, nil)
	f.flights.On("GetByIDs", mock.Anything, []int64{1}).Return([]domain.Flight{f1}, nil)
	f.bookings.On("Cancel", mock.Anything, alice, []domain.Flight{f1}).Return(nil)

	_, err := f.client.Cancel(WithToken(context.Background(), "tok"), &CancelRequest{FlightIDs: []int64{1}})

	require.NoError(t, err)
	f.bookings.AssertExpectations(t)
}

func TestCancel_RequiresFlightIDs(t *testing.T) {
	f := newFixture(t)
	f.auth.On("Authenticate", "tok").Return(alice, nil)

	_, err := f.client.Cancel(WithToken(context.Background(), "tok"), &CancelRequest{})

	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	f.bookings.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
}

func TestListReservations(t *testing.T) {
	f := newFixture(t)
	f.auth.On("Authenticate", "tok").Return(alice, nil)
	f.bookings.On("Reservations", mock.Anything, alice).Return([]domain.Flight{f1}, nil)

	resp, err := f.client.ListReservations(WithToken(context.Background(), "tok"), &ListReservationsRequest{})

	require.NoError(t, err)
	assert.Equal(t, []domain.Flight{f1}, resp.Flights)
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{domain.ErrInvalidInput, codes.InvalidArgument},
		{domain.ErrUnauthorized, codes.Unauthenticated},
		{domain.ErrTimeout, codes.DeadlineExceeded},
		{domain.ErrConflictRetryExhausted, codes.Aborted},
		{domain.ErrStoreUnavailable, codes.Unavailable},
		{domain.ErrCatalogUnavailable, codes.Unavailable},
		{errors.New("boom"), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, status.Code(toStatus(tt.err)))
		})
	}
}

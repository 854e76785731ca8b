package grpcapi

import "github.com/Domenick1991/airtrips/internal/domain"

type LoginRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type SearchRequest struct {
	Date        string `json:"date"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

type Itinerary struct {
	Flights       []domain.Flight `json:"flights"`
	TotalDuration int             `json:"total_duration"`
}

type SearchResponse struct {
	Itineraries []Itinerary `json:"itineraries"`
}

type ReserveRequest struct {
	Date      string  `json:"date"`
	FlightIDs []int64 `json:"flight_ids"`
}

type ReserveResponse struct {
	Result string `json:"result"`
}

type CancelRequest struct {
	FlightIDs []int64 `json:"flight_ids"`
}

type CancelResponse struct{}

type ListReservationsRequest struct{}

type ListReservationsResponse struct {
	Flights []domain.Flight `json:"flights"`
}

package domain

// MaxFlightBookings is the default number of reservations a flight accepts.
const MaxFlightBookings = 3

// ReserveResult is the semantic outcome of a reserve call. Full flights and
// days are results, not errors.
type ReserveResult int

const (
	ReserveBooked ReserveResult = iota + 1
	ReserveFlightFull
	ReserveDayFull
)

func (r ReserveResult) String() string {
	switch r {
	case ReserveBooked:
		return "booked"
	case ReserveFlightFull:
		return "flight_full"
	case ReserveDayFull:
		return "day_full"
	default:
		return "unknown"
	}
}

type ReservationEventType string

const (
	ReservationBooked    ReservationEventType = "reservation_booked"
	ReservationCancelled ReservationEventType = "reservation_cancelled"
)

package domain

import "fmt"

// MaxItineraryLegs is the number of flights in a one-connection itinerary.
const MaxItineraryLegs = 2

// MaxSearchResults caps each of the direct and one-connection result groups.
const MaxSearchResults = 99

// Itinerary is a same-day trip of one or two flights. It is a search result
// and is never persisted.
type Itinerary struct {
	Flights []Flight `json:"flights"`
}

func (it Itinerary) TotalDuration() int {
	total := 0
	for _, f := range it.Flights {
		total += f.DurationMinutes
	}
	return total
}

func (it Itinerary) Direct() bool {
	return len(it.Flights) == 1
}

// ValidateLegs checks that flights form a bookable itinerary on date:
// one or two distinct operated flights on that date, where a second leg
// departs from the city the first one arrives in.
func ValidateLegs(date Date, flights []Flight) error {
	if len(flights) == 0 {
		return fmt.Errorf("%w: itinerary has no flights", ErrInvalidInput)
	}
	if len(flights) > MaxItineraryLegs {
		return fmt.Errorf("%w: itinerary has %d flights, at most %d allowed", ErrInvalidInput, len(flights), MaxItineraryLegs)
	}
	for i, f := range flights {
		if f.ID <= 0 {
			return fmt.Errorf("%w: leg %d has no flight id", ErrInvalidInput, i+1)
		}
		if !f.Operated {
			return fmt.Errorf("%w: flight %d has not operated", ErrInvalidInput, f.ID)
		}
		if f.Date != date {
			return fmt.Errorf("%w: flight %d is scheduled on %s, not %s", ErrInvalidInput, f.ID, f.Date, date)
		}
		if i > 0 {
			prev := flights[i-1]
			if prev.ID == f.ID {
				return fmt.Errorf("%w: flight %d listed twice", ErrInvalidInput, f.ID)
			}
			if prev.DestCity != f.OriginCity {
				return fmt.Errorf("%w: flight %d departs %s but previous leg arrives in %s", ErrInvalidInput, f.ID, f.OriginCity, prev.DestCity)
			}
		}
	}
	return nil
}

// Connection is a candidate pair of flights where the first arrives in the
// city the second departs from.
type Connection struct {
	First  Flight
	Second Flight
}

func (c Connection) Itinerary() Itinerary {
	return Itinerary{Flights: []Flight{c.First, c.Second}}
}

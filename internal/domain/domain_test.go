package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: time.May, Day: 1}, d)
	assert.Equal(t, "2024-05-01", d.String())

	for _, bad := range []string{"", "2024-5-1", "05/01/2024", "2024-02-30"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, bad)
	}
}

func TestDate_NormalizesOverflow(t *testing.T) {
	assert.Equal(t, NewDate(2024, time.March, 1), NewDate(2024, time.February, 30))
	assert.True(t, Date{}.IsZero())
}

func TestDate_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Date Date `json:"date"`
	}{NewDate(2024, time.May, 1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-05-01"}`, string(data))

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-12-31"`), &d))
	assert.Equal(t, NewDate(2024, time.December, 31), d)

	assert.ErrorIs(t, json.Unmarshal([]byte(`"yesterday"`), &d), ErrInvalidInput)
}

func TestValidateLegs(t *testing.T) {
	day := NewDate(2024, time.May, 1)
	sea := Flight{ID: 1, OriginCity: "Seattle WA", DestCity: "Chicago IL", Date: day, DurationMinutes: 200, Operated: true}
	chi := Flight{ID: 2, OriginCity: "Chicago IL", DestCity: "Boston MA", Date: day, DurationMinutes: 120, Operated: true}

	ghost := chi
	ghost.Operated = false
	tomorrow := chi
	tomorrow.Date = NewDate(2024, time.May, 2)
	elsewhere := chi
	elsewhere.OriginCity = "Denver CO"
	noID := chi
	noID.ID = 0

	tests := []struct {
		name    string
		flights []Flight
		wantErr bool
	}{
		{"direct", []Flight{sea}, false},
		{"connection", []Flight{sea, chi}, false},
		{"empty", nil, true},
		{"three legs", []Flight{sea, chi, chi}, true},
		{"not operated", []Flight{sea, ghost}, true},
		{"other day", []Flight{sea, tomorrow}, true},
		{"broken connection", []Flight{sea, elsewhere}, true},
		{"same flight twice", []Flight{sea, sea}, true},
		{"missing id", []Flight{noID}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLegs(day, tt.flights)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestItinerary(t *testing.T) {
	c := Connection{
		First:  Flight{ID: 1, DurationMinutes: 200},
		Second: Flight{ID: 2, DurationMinutes: 120},
	}
	it := c.Itinerary()
	assert.False(t, it.Direct())
	assert.Equal(t, 320, it.TotalDuration())
	assert.True(t, Itinerary{Flights: []Flight{c.First}}.Direct())
}

func TestReserveResult_String(t *testing.T) {
	assert.Equal(t, "booked", ReserveBooked.String())
	assert.Equal(t, "flight_full", ReserveFlightFull.String())
	assert.Equal(t, "day_full", ReserveDayFull.String())
	assert.Equal(t, "unknown", ReserveResult(0).String())
}

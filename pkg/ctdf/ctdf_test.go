package ctdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPointer(i int) *int {
	return &i
}

func TestPlaceInfoSameCity(t *testing.T) {
	paris := PlaceInfo{Name: "Gare de Lyon", City: "Paris"}
	orly := PlaceInfo{Name: "Orly", City: "Paris"}
	berlin := PlaceInfo{Name: "Hbf", City: "Berlin"}
	unknown := PlaceInfo{Name: "Unknown Place", City: UnknownCity}

	assert.True(t, paris.SameCity(orly))
	assert.False(t, paris.SameCity(berlin))
	assert.False(t, unknown.SameCity(unknown))
	assert.True(t, paris.SameCity(PlaceInfo{Name: "x", City: "PARIS"}))
	assert.False(t, unknown.SameCity(PlaceInfo{Name: "x", City: "unknown city"}))
	assert.False(t, PlaceInfo{}.SameCity(PlaceInfo{}))
}

func TestLegDuration(t *testing.T) {
	leg := Leg{Depart: "2025-03-01T08:00:00Z", Arrive: "2025-03-01T10:30:00Z"}

	minutes, ok := leg.Duration()
	assert.True(t, ok)
	assert.Equal(t, 150, minutes)

	leg.DurationMinutes = intPointer(999)
	minutes, ok = leg.Duration()
	assert.True(t, ok)
	assert.Equal(t, 999, minutes)

	minutes, ok = leg.ComputeDuration()
	assert.True(t, ok)
	assert.Equal(t, 150, minutes)

	broken := Leg{Depart: "nope", Arrive: "2025-03-01T10:30:00Z"}
	_, ok = broken.Duration()
	assert.False(t, ok)
}

func TestItineraryModesAndOperators(t *testing.T) {
	itinerary := Itinerary{
		Legs: []Leg{
			{Mode: TransportTypeTrain, Operator: "SNCF", Currency: "EUR"},
			{Mode: TransportTypeFlight, Operator: "Air France"},
		},
	}

	assert.Equal(t, []string{"train", "flight"}, itinerary.Modes())
	assert.Equal(t, []string{"SNCF", "Air France"}, itinerary.Operators())
	assert.Equal(t, "EUR", itinerary.Currency())
}

func TestBookingStatusCancellable(t *testing.T) {
	assert.True(t, BookingStatusPending.Cancellable())
	assert.True(t, BookingStatusConfirmed.Cancellable())
	assert.False(t, BookingStatusCancelled.Cancellable())
	assert.False(t, BookingStatusFailed.Cancellable())
}

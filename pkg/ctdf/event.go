package ctdf

import (
	"time"
)

type Event struct {
	ID        string
	Type      EventType
	Timestamp time.Time
	Body      interface{}
}

type EventType string

const (
	EventTypeMultimodalSearchCompleted EventType = "MultimodalSearchCompleted"

	EventTypeBookingHeld      EventType = "BookingHeld"
	EventTypeBookingConfirmed EventType = "BookingConfirmed"
	EventTypeBookingCancelled EventType = "BookingCancelled"
	EventTypeBookingFailed    EventType = "BookingFailed"
)

type SearchEventBody struct {
	OriginRef      string
	DestinationRef string
	DepartureAfter time.Time

	Itineraries  int
	TrainOffers  int
	FlightOffers int
	Failures     []TransportType
}

type BookingEventBody struct {
	BookingRef string
	UserID     string
	Status     BookingStatus
	TotalPrice int64
	Currency   string
	Legs       int
}

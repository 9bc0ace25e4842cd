package ctdf

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusFailed    BookingStatus = "failed"
)

func (s BookingStatus) Cancellable() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// Booking holds one upstream booking per leg of the itinerary the traveller chose
type Booking struct {
	PrimaryIdentifier string `groups:"basic"`
	UserID            string `groups:"internal"`

	CreationDateTime     time.Time `groups:"detailed"`
	ModificationDateTime time.Time `groups:"detailed"`

	Status BookingStatus `groups:"basic"`

	Legs             []Leg             `groups:"basic"`
	UpstreamBookings []UpstreamBooking `groups:"detailed"`
	Passengers       []Passenger       `groups:"internal"`

	TotalPrice int64  `groups:"basic"`
	Currency   string `groups:"basic"`
}

type UpstreamBooking struct {
	LegID     string `groups:"detailed"`
	BookingID string `groups:"detailed"`
	Status    string `groups:"detailed"`
	Price     int64  `groups:"detailed"`
}

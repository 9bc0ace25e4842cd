package bookings

import (
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/travigo/multimodal/pkg/ctdf"
)

type exportRow struct {
	Identifier string `csv:"booking_id"`
	UserID     string `csv:"user_id"`
	Status     string `csv:"status"`
	Created    string `csv:"created"`
	Modified   string `csv:"modified"`
	Modes      string `csv:"modes"`
	Operators  string `csv:"operators"`
	Departure  string `csv:"departure"`
	Arrival    string `csv:"arrival"`
	TotalPrice int64  `csv:"total_price_minor"`
	Currency   string `csv:"currency"`
}

func ExportCSV(writer io.Writer, bookings []*ctdf.Booking) error {
	rows := make([]*exportRow, 0, len(bookings))

	for _, booking := range bookings {
		row := &exportRow{
			Identifier: booking.PrimaryIdentifier,
			UserID:     booking.UserID,
			Status:     string(booking.Status),
			Created:    booking.CreationDateTime.UTC().Format(time.RFC3339),
			Modified:   booking.ModificationDateTime.UTC().Format(time.RFC3339),
			TotalPrice: booking.TotalPrice,
			Currency:   booking.Currency,
		}

		itinerary := ctdf.Itinerary{Legs: booking.Legs}
		row.Modes = strings.Join(itinerary.Modes(), "+")
		row.Operators = strings.Join(itinerary.Operators(), "+")
		if len(booking.Legs) > 0 {
			row.Departure = booking.Legs[0].Depart
			row.Arrival = booking.Legs[len(booking.Legs)-1].Arrive
		}

		rows = append(rows, row)
	}

	return gocsv.Marshal(rows, writer)
}

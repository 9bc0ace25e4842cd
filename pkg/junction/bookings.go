package junction

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/travigo/multimodal/pkg/ctdf"
	"github.com/travigo/multimodal/pkg/offers"
)

type CreateBookingRequest struct {
	OfferID    string           `json:"offerId"`
	Passengers []ctdf.Passenger `json:"passengers"`
}

// Booking is the upstream view of a booking for a single offer
type Booking struct {
	ID     string        `json:"id"`
	Status string        `json:"status"`
	Price  *offers.Price `json:"price"`
}

// Train bookings wrap the booking in an envelope, flight bookings return it bare
type bookingResponse struct {
	Booking
	Wrapped *Booking `json:"booking"`
}

func (r *bookingResponse) unwrap() *Booking {
	if r.Wrapped != nil && r.Wrapped.ID != "" {
		return r.Wrapped
	}
	return &r.Booking
}

type confirmBookingBody struct {
	FulfillmentChoices []any `json:"fulfillmentChoices"`
}

func (c *Client) CreateBooking(ctx context.Context, request CreateBookingRequest) (*Booking, error) {
	var response bookingResponse
	if err := c.doJSON(ctx, http.MethodPost, "/bookings", request, &response); err != nil {
		return nil, fmt.Errorf("creating booking for offer %s: %w", request.OfferID, err)
	}

	return response.unwrap(), nil
}

func (c *Client) ConfirmBooking(ctx context.Context, bookingID string) (*Booking, error) {
	var response bookingResponse
	path := fmt.Sprintf("/bookings/%s/confirm", url.PathEscape(bookingID))
	if err := c.doJSON(ctx, http.MethodPost, path, confirmBookingBody{FulfillmentChoices: []any{}}, &response); err != nil {
		return nil, fmt.Errorf("confirming booking %s: %w", bookingID, err)
	}

	return response.unwrap(), nil
}

func (c *Client) CancelBooking(ctx context.Context, bookingID string) (*Booking, error) {
	var response bookingResponse
	path := fmt.Sprintf("/bookings/%s/cancel", url.PathEscape(bookingID))
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &response); err != nil {
		return nil, fmt.Errorf("cancelling booking %s: %w", bookingID, err)
	}

	return response.unwrap(), nil
}

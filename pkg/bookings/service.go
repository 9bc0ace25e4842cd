package bookings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/travigo/multimodal/pkg/ctdf"
	"github.com/travigo/multimodal/pkg/junction"
	"github.com/travigo/multimodal/pkg/util"
)

var (
	ErrBookingNotCancellable = errors.New("booking cannot be cancelled")
	ErrBookingNotPending     = errors.New("booking is not pending")
	ErrInvalidItinerary      = errors.New("bookings need one or two legs")
	ErrNoPassengers          = errors.New("bookings need at least one passenger")
)

const BookingIDFormat = "MULTIMODAL:BOOKING:%s"

type Upstream interface {
	CreateBooking(ctx context.Context, request junction.CreateBookingRequest) (*junction.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID string) (*junction.Booking, error)
	CancelBooking(ctx context.Context, bookingID string) (*junction.Booking, error)
}

type EventPublisher interface {
	Publish(eventType ctdf.EventType, body any) error
}

type Service struct {
	Repository Repository
	Upstream   Upstream
	Events     EventPublisher

	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

type HoldRequest struct {
	UserID     string
	Legs       []ctdf.Leg
	Passengers []ctdf.Passenger
}

// Hold books every leg upstream. If any leg fails the legs already held are cancelled
// and the booking is stored as failed.
func (s *Service) Hold(ctx context.Context, request HoldRequest) (*ctdf.Booking, error) {
	if len(request.Legs) == 0 || len(request.Legs) > 2 {
		return nil, ErrInvalidItinerary
	}
	if len(request.Passengers) == 0 {
		return nil, ErrNoPassengers
	}

	now := s.now()
	booking := &ctdf.Booking{
		PrimaryIdentifier:    fmt.Sprintf(BookingIDFormat, uuid.NewString()),
		UserID:               request.UserID,
		CreationDateTime:     now,
		ModificationDateTime: now,
		Status:               ctdf.BookingStatusPending,
	}
	if err := copier.CopyWithOption(&booking.Legs, request.Legs, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	if err := copier.CopyWithOption(&booking.Passengers, request.Passengers, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}

	booking.Currency = booking.Legs[0].Currency

	var holdErr error
	for _, leg := range booking.Legs {
		upstreamBooking, err := s.Upstream.CreateBooking(ctx, junction.CreateBookingRequest{
			OfferID:    leg.ID,
			Passengers: booking.Passengers,
		})
		if err != nil {
			holdErr = fmt.Errorf("holding leg %s: %w", leg.ID, err)
			break
		}

		booking.UpstreamBookings = append(booking.UpstreamBookings, upstreamRecord(leg, upstreamBooking))
	}

	if holdErr != nil {
		s.releaseUpstream(ctx, booking)
		booking.Status = ctdf.BookingStatusFailed
	}

	// Totals follow the prices upstream held each leg at
	for _, upstreamBooking := range booking.UpstreamBookings {
		booking.TotalPrice += upstreamBooking.Price
	}

	if err := s.Repository.Insert(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(booking)

	if holdErr != nil {
		return booking, holdErr
	}

	log.Info().Str("booking", booking.PrimaryIdentifier).Int("legs", len(booking.Legs)).Msg("Booking held")

	return booking, nil
}

func (s *Service) Confirm(ctx context.Context, userID string, identifier string) (*ctdf.Booking, error) {
	booking, err := s.Get(ctx, userID, identifier)
	if err != nil {
		return nil, err
	}
	if booking.Status != ctdf.BookingStatusPending {
		return nil, ErrBookingNotPending
	}

	if err := s.applyUpstream(ctx, booking, ctdf.BookingStatusConfirmed, s.Upstream.ConfirmBooking); err != nil {
		return nil, fmt.Errorf("confirming booking: %w", err)
	}

	return s.transition(ctx, booking, ctdf.BookingStatusConfirmed)
}

func (s *Service) Cancel(ctx context.Context, userID string, identifier string) (*ctdf.Booking, error) {
	booking, err := s.Get(ctx, userID, identifier)
	if err != nil {
		return nil, err
	}
	if !booking.Status.Cancellable() {
		return nil, ErrBookingNotCancellable
	}

	if err := s.applyUpstream(ctx, booking, ctdf.BookingStatusCancelled, s.Upstream.CancelBooking); err != nil {
		return nil, fmt.Errorf("cancelling booking: %w", err)
	}

	return s.transition(ctx, booking, ctdf.BookingStatusCancelled)
}

type upstreamCall func(ctx context.Context, bookingID string) (*junction.Booking, error)

// applyUpstream moves every upstream booking not already in status through call.
// When a leg fails the legs done so far are stored so a retry only calls upstream for the rest.
func (s *Service) applyUpstream(ctx context.Context, booking *ctdf.Booking, status ctdf.BookingStatus, call upstreamCall) error {
	for i, upstreamBooking := range booking.UpstreamBookings {
		if upstreamBooking.Status == string(status) {
			continue
		}

		if _, err := call(ctx, upstreamBooking.BookingID); err != nil {
			booking.ModificationDateTime = s.now()
			if saveErr := s.Repository.Update(ctx, booking); saveErr != nil {
				log.Error().Err(saveErr).Str("booking", booking.PrimaryIdentifier).Msg("Failed to store upstream progress")
			}

			return fmt.Errorf("leg %s: %w", upstreamBooking.LegID, err)
		}

		booking.UpstreamBookings[i].Status = string(status)
	}

	return nil
}

// Get only returns bookings owned by userID
func (s *Service) Get(ctx context.Context, userID string, identifier string) (*ctdf.Booking, error) {
	booking, err := s.Repository.Get(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrBookingNotFound
	}

	return booking, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]*ctdf.Booking, error) {
	return s.Repository.ListByUser(ctx, userID)
}

func (s *Service) transition(ctx context.Context, booking *ctdf.Booking, status ctdf.BookingStatus) (*ctdf.Booking, error) {
	booking.Status = status
	booking.ModificationDateTime = s.now()

	if err := s.Repository.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(booking)

	log.Info().Str("booking", booking.PrimaryIdentifier).Str("status", string(status)).Msg("Booking updated")

	return booking, nil
}

// releaseUpstream cancels upstream holds on a best effort basis
func (s *Service) releaseUpstream(ctx context.Context, booking *ctdf.Booking) {
	for i, upstreamBooking := range booking.UpstreamBookings {
		_, err := s.Upstream.CancelBooking(ctx, upstreamBooking.BookingID)
		if err != nil {
			log.Error().Err(err).Str("booking", booking.PrimaryIdentifier).Str("upstream", upstreamBooking.BookingID).Msg("Failed to release upstream booking")
			continue
		}
		booking.UpstreamBookings[i].Status = string(ctdf.BookingStatusCancelled)
	}
}

var eventTypes = map[ctdf.BookingStatus]ctdf.EventType{
	ctdf.BookingStatusPending:   ctdf.EventTypeBookingHeld,
	ctdf.BookingStatusConfirmed: ctdf.EventTypeBookingConfirmed,
	ctdf.BookingStatusCancelled: ctdf.EventTypeBookingCancelled,
	ctdf.BookingStatusFailed:    ctdf.EventTypeBookingFailed,
}

func (s *Service) publish(booking *ctdf.Booking) {
	if s.Events == nil {
		return
	}

	err := s.Events.Publish(eventTypes[booking.Status], ctdf.BookingEventBody{
		BookingRef: booking.PrimaryIdentifier,
		UserID:     booking.UserID,
		Status:     booking.Status,
		TotalPrice: booking.TotalPrice,
		Currency:   booking.Currency,
		Legs:       len(booking.Legs),
	})
	if err != nil {
		log.Error().Err(err).Str("booking", booking.PrimaryIdentifier).Msg("Failed to publish booking event")
	}
}

func upstreamRecord(leg ctdf.Leg, upstreamBooking *junction.Booking) ctdf.UpstreamBooking {
	record := ctdf.UpstreamBooking{
		LegID:     leg.ID,
		BookingID: upstreamBooking.ID,
		Status:    upstreamBooking.Status,
		Price:     leg.Price,
	}

	if upstreamBooking.Price != nil && upstreamBooking.Price.Amount.Set {
		if amount, err := strconv.ParseFloat(strings.TrimSpace(upstreamBooking.Price.Amount.Value), 64); err == nil {
			record.Price = util.RoundHalfUp(amount * 100)
		}
	}

	return record
}

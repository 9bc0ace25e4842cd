package routes

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/multimodal/pkg/bookings"
	"github.com/travigo/multimodal/pkg/ctdf"
	"github.com/travigo/multimodal/pkg/junction"
)

type holdBookingRequest struct {
	Legs       []ctdf.Leg       `json:"legs" validate:"required,min=1,max=2"`
	Passengers []ctdf.Passenger `json:"passengers" validate:"required,min=1,dive"`
}

// BookingsRouter expects an earlier handler to set account_userid
func BookingsRouter(router fiber.Router, service *bookings.Service) {
	router.Get("/", func(c *fiber.Ctx) error {
		userID, ok := accountUserID(c)
		if !ok {
			return sendError(c, fiber.StatusUnauthorized, "No userid set")
		}

		userBookings, err := service.List(c.UserContext(), userID)
		if err != nil {
			return sendBookingError(c, err)
		}

		return sendReduced(c, userBookings, "basic")
	})

	router.Post("/", func(c *fiber.Ctx) error {
		userID, ok := accountUserID(c)
		if !ok {
			return sendError(c, fiber.StatusUnauthorized, "No userid set")
		}

		var request holdBookingRequest
		if err := c.BodyParser(&request); err != nil {
			return sendError(c, fiber.StatusBadRequest, "Invalid booking request body")
		}
		if err := validate.Struct(request); err != nil {
			return sendError(c, fiber.StatusBadRequest, err.Error())
		}

		booking, err := service.Hold(c.UserContext(), bookings.HoldRequest{
			UserID:     userID,
			Legs:       request.Legs,
			Passengers: request.Passengers,
		})
		if err != nil {
			return sendBookingError(c, err)
		}

		c.Status(fiber.StatusCreated)
		return sendReduced(c, booking, "basic", "detailed")
	})

	router.Get("/:identifier", func(c *fiber.Ctx) error {
		return bookingAction(c, service.Get)
	})
	router.Post("/:identifier/confirm", func(c *fiber.Ctx) error {
		return bookingAction(c, service.Confirm)
	})
	router.Post("/:identifier/cancel", func(c *fiber.Ctx) error {
		return bookingAction(c, service.Cancel)
	})
}

type bookingOperation func(ctx context.Context, userID string, identifier string) (*ctdf.Booking, error)

func bookingAction(c *fiber.Ctx, operation bookingOperation) error {
	userID, ok := accountUserID(c)
	if !ok {
		return sendError(c, fiber.StatusUnauthorized, "No userid set")
	}

	booking, err := operation(c.UserContext(), userID, c.Params("identifier"))
	if err != nil {
		return sendBookingError(c, err)
	}

	return sendReduced(c, booking, "basic", "detailed")
}

func accountUserID(c *fiber.Ctx) (string, bool) {
	userID, _ := c.Locals("account_userid").(string)
	return userID, userID != ""
}

func sendBookingError(c *fiber.Ctx, err error) error {
	var httpError *junction.HTTPError

	switch {
	case errors.Is(err, bookings.ErrBookingNotFound):
		return sendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, bookings.ErrBookingNotCancellable), errors.Is(err, bookings.ErrBookingNotPending):
		return sendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, bookings.ErrInvalidItinerary), errors.Is(err, bookings.ErrNoPassengers):
		return sendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &httpError):
		return sendError(c, fiber.StatusBadGateway, err.Error())
	default:
		return sendError(c, fiber.StatusInternalServerError, err.Error())
	}
}

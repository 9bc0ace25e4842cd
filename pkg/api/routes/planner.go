package routes

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	iso8601 "github.com/senseyeio/duration"
	"github.com/travigo/multimodal/pkg/ctdf"
	"github.com/travigo/multimodal/pkg/dataaggregator"
	"github.com/travigo/multimodal/pkg/dataaggregator/query"
	"github.com/travigo/multimodal/pkg/dataaggregator/source/multimodal"
	"github.com/travigo/multimodal/pkg/itinerary"
)

type multimodalPlanRequest struct {
	Origin          string `query:"origin" validate:"required"`
	OriginName      string `query:"origin_name" validate:"required"`
	OriginCity      string `query:"origin_city"`
	Destination     string `query:"destination" validate:"required"`
	DestinationName string `query:"destination_name" validate:"required"`
	DestinationCity string `query:"destination_city"`

	DateTime     string   `query:"datetime"`
	DatesOfBirth []string `query:"dob" validate:"required,min=1,dive,datetime=2006-01-02"`

	Filter       string `query:"filter"`
	MaxDuration  string `query:"max_duration"`
	MaxTransfers int    `query:"max_transfers" validate:"min=-1,max=1"`
	Count        int    `query:"count" validate:"min=0"`
}

func PlannerRouter(router fiber.Router, events EventPublisher) {
	router.Get("/multimodal", func(c *fiber.Ctx) error {
		return getMultimodalPlan(c, events)
	})
}

func getMultimodalPlan(c *fiber.Ctx, events EventPublisher) error {
	request := multimodalPlanRequest{MaxTransfers: -1}
	if err := c.QueryParser(&request); err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(request); err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}

	departureAfter := time.Now()
	if request.DateTime != "" {
		var err error
		departureAfter, err = time.Parse(time.RFC3339, request.DateTime)
		if err != nil {
			return sendError(c, fiber.StatusBadRequest, "Parameter datetime should be an RFC3339/ISO8601 datetime")
		}
	}

	filterOptions := itinerary.NewFilterOptions()
	filterOptions.Expression = request.Filter
	filterOptions.Count = request.Count
	filterOptions.MaxTransfers = request.MaxTransfers
	if request.MaxDuration != "" {
		maxDuration, err := iso8601.ParseISO8601(request.MaxDuration)
		if err != nil {
			return sendError(c, fiber.StatusBadRequest, "Parameter max_duration should be an ISO8601 duration")
		}
		filterOptions.MaxDuration = int(maxDuration.Shift(departureAfter).Sub(departureAfter).Minutes())
	}
	if filterOptions.Expression != "" {
		if _, err := itinerary.CompileFilter(filterOptions.Expression); err != nil {
			return sendError(c, fiber.StatusBadRequest, err.Error())
		}
	}

	search := query.MultimodalSearch{
		Origin: &ctdf.Place{
			PrimaryIdentifier: request.Origin,
			PrimaryName:       request.OriginName,
			CityName:          request.OriginCity,
		},
		Destination: &ctdf.Place{
			PrimaryIdentifier: request.Destination,
			PrimaryName:       request.DestinationName,
			CityName:          request.DestinationCity,
		},
		DepartureAfter: departureAfter,
		PassengerDOBs:  request.DatesOfBirth,
	}

	results, err := dataaggregator.Lookup[*ctdf.MultimodalSearchResults](c.UserContext(), search)
	switch {
	case errors.Is(err, multimodal.ErrSameOriginAndDestination):
		return sendError(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		return sendError(c, fiber.StatusBadGateway, err.Error())
	}

	filtered, err := itinerary.Filter(results.Itineraries, filterOptions)
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}

	if events != nil {
		publishErr := events.Publish(ctdf.EventTypeMultimodalSearchCompleted, ctdf.SearchEventBody{
			OriginRef:      request.Origin,
			DestinationRef: request.Destination,
			DepartureAfter: departureAfter,
			Itineraries:    len(results.Itineraries),
			TrainOffers:    results.TrainOffers,
			FlightOffers:   results.FlightOffers,
			Failures:       results.Failures,
		})
		if publishErr != nil {
			log.Error().Err(publishErr).Msg("Failed to publish search event")
		}
	}

	response := *results
	response.Itineraries = filtered

	return sendReduced(c, response, responseGroups(c)...)
}

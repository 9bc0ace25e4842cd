package routes

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/multimodal/pkg/ctdf"
	"github.com/travigo/multimodal/pkg/dataaggregator"
	"github.com/travigo/multimodal/pkg/dataaggregator/query"
)

func PlacesRouter(router fiber.Router) {
	router.Get("/", searchPlaces)
}

func searchPlaces(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Query("name"))
	if len(name) < 2 {
		return sendError(c, fiber.StatusBadRequest, "Parameter name should be at least 2 characters")
	}

	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 50 {
		return sendError(c, fiber.StatusBadRequest, "Parameter limit should be between 1 and 50")
	}

	places, err := dataaggregator.Lookup[[]ctdf.Place](c.UserContext(), query.Places{
		Name:  name,
		Limit: limit,
	})
	if err != nil {
		return sendError(c, fiber.StatusBadGateway, err.Error())
	}

	return sendReduced(c, places, "basic")
}

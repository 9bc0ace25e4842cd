package routes

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/multimodal/pkg/ctdf"
	"github.com/travigo/multimodal/pkg/dataaggregator"
	"github.com/travigo/multimodal/pkg/dataaggregator/query"
)

func CarRentalsRouter(router fiber.Router) {
	router.Get("/", listCarRentals)
}

func listCarRentals(c *fiber.Ctx) error {
	city := strings.TrimSpace(c.Query("city"))
	if city == "" {
		return sendError(c, fiber.StatusBadRequest, "Parameter city is required")
	}

	rentals, err := dataaggregator.Lookup[[]ctdf.CarRental](c.UserContext(), query.CarRentals{City: city})
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return sendReduced(c, rentals, responseGroups(c)...)
}

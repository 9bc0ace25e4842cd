package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/multimodal/pkg/api/routes"
	"github.com/travigo/multimodal/pkg/bookings"
)

type Services struct {
	Bookings *bookings.Service
	Events   routes.EventPublisher

	// Replaces the JWT check on the bookings group when set
	Authentication fiber.Handler
}

func NewApp(services Services) *fiber.App {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.PlacesRouter(group.Group("/places"))

	routes.PlannerRouter(group.Group("/planner"), services.Events)

	routes.CarRentalsRouter(group.Group("/car_rentals"))

	if services.Bookings != nil {
		authentication := services.Authentication
		if authentication == nil {
			authentication = EnsureValidToken()
		}

		routes.BookingsRouter(group.Group("/bookings", authentication), services.Bookings)
	}

	return webApp
}

func SetupServer(listen string, services Services) error {
	return NewApp(services).Listen(listen)
}

package routes

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/travigo/multimodal/pkg/ctdf"
)

var validate = validator.New()

type EventPublisher interface {
	Publish(eventType ctdf.EventType, body any) error
}

func sendError(c *fiber.Ctx, status int, message string) error {
	c.SendStatus(status)
	return c.JSON(fiber.Map{
		"error": message,
	})
}

// sendReduced writes v with only the fields tagged with one of groups
func sendReduced(c *fiber.Ctx, v interface{}, groups ...string) error {
	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, v)
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, "Sheriff could not reduce response")
	}

	return c.JSON(reduced)
}

func responseGroups(c *fiber.Ctx) []string {
	if c.QueryBool("detailed", false) {
		return []string{"basic", "detailed"}
	}
	return []string{"basic"}
}

package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger logs every request once it has been handled, at a level matching its status
func NewLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime := time.Now()
		handlerErr := c.Next()

		msg := "HTTP Request"
		if handlerErr != nil {
			msg = handlerErr.Error()
		}

		ipAddress := c.IP()
		if forwardedIP := c.Get("CF-Connecting-IP"); forwardedIP != "" {
			ipAddress = forwardedIP
		}

		code := c.Response().StatusCode()

		var event *zerolog.Event
		switch {
		case code >= fiber.StatusInternalServerError:
			event = log.Error()
		case code >= fiber.StatusBadRequest:
			event = log.Warn()
		default:
			event = log.Info()
		}

		event = event.
			Int("status", code).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("ip", ipAddress).
			Dur("latency", time.Since(startTime)).
			Str("user-agent", c.Get(fiber.HeaderUserAgent))

		if userID, ok := c.Locals("account_userid").(string); ok {
			event = event.Str("user", userID)
		}

		event.Msg(msg)

		return handlerErr
	}
}

package api

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/travigo/multimodal/pkg/util"
)

// CustomClaims contains custom data we want from the token.
type CustomClaims struct {
	Scope string `json:"scope"`
}

func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// EnsureValidToken is a middleware that will check the validity of our JWT
// and store its subject as account_userid.
func EnsureValidToken() fiber.Handler {
	env := util.GetEnvironmentVariables()

	issuerURL, err := url.Parse("https://" + env["AUTH0_DOMAIN"] + "/")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse the issuer url")
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{env["AUTH0_AUDIENCE"]},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up the jwt validator")
	}

	return func(c *fiber.Ctx) (err error) {
		authHeader := c.Get("Authorization")

		jwtToken, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || jwtToken == "" {
			c.SendStatus(fiber.StatusUnauthorized)
			return c.JSON(fiber.Map{
				"error": "Authorization header is required",
			})
		}

		claimsI, jwtErr := jwtValidator.ValidateToken(c.UserContext(), jwtToken)
		claims, ok := claimsI.(*validator.ValidatedClaims)
		if jwtErr != nil || !ok {
			c.SendStatus(fiber.StatusUnauthorized)
			return c.JSON(fiber.Map{
				"error": "Invalid auth token",
			})
		}

		c.Locals("account_userid", claims.RegisteredClaims.Subject)

		return c.Next()
	}
}

package middleware

import (
	"socialapi/internal/metrics"
	"socialapi/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	// TokenHeader carries the identity token on private routes.
	TokenHeader = "x-auth-token"
	// UserIDKey is the Fiber local holding the authenticated identity id.
	UserIDKey = "user_id"
)

// AuthRequired resolves the caller's identity from the x-auth-token header
// before any handler runs. Clients learn only whether the token was missing
// or invalid; the exact verification failure goes to logs and metrics.
func AuthRequired(tokens *services.TokenService, m *metrics.Metrics, log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(TokenHeader)
		if token == "" {
			observe(m, metrics.ResultMissing)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"msg": services.MsgNoToken,
			})
		}

		userID, err := tokens.Verify(token)
		if err != nil {
			reason := "malformed"
			if ve, ok := err.(*services.VerificationError); ok {
				reason = ve.Reason.String()
			}
			observe(m, reason)
			log.WithFields(logrus.Fields{
				"reason": reason,
				"path":   c.Path(),
			}).WithError(err).Info("token rejected")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"msg": services.MsgInvalidToken,
			})
		}

		observe(m, metrics.ResultOK)
		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// UserID returns the identity id stored by AuthRequired.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}

func observe(m *metrics.Metrics, result string) {
	if m != nil {
		m.TokenVerifications.WithLabelValues(result).Inc()
	}
}

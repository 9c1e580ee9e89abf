package middleware

import (
	"strings"

	"go-boutique-pos/pkg/jwt"
	"go-boutique-pos/pkg/log"

	"github.com/gofiber/fiber/v2"
)

// LockState reports whether the store currently requires an unlocked session
type LockState interface {
	PINRequired() (bool, error)
}

// CorrelationID attaches a fresh correlation id to the request context and
// echoes it back in X-Correlation-ID
func CorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, id := log.WithCorrelationID(c.UserContext())
		c.SetUserContext(ctx)
		c.Set("X-Correlation-ID", id)
		return c.Next()
	}
}

// RequirePIN validates the Bearer token whenever the PIN gate is on. A
// recovery token may only read, or set a new PIN at pinPath. Browsers cannot
// set headers on a websocket handshake, so the token is also read from the
// token query parameter when no Authorization header is sent.
func RequirePIN(state LockState, pinPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		required, err := state.PINRequired()
		if err != nil {
			log.ForContext(c.UserContext()).WithError(err).Error("could not read lock state")
			return c.Status(500).JSON(fiber.Map{"error": "Failed to read lock state"})
		}
		if !required {
			return c.Next()
		}

		tokenString, ok := bearerToken(c)
		if !ok {
			if c.Get("Authorization") == "" {
				return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
			}
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(tokenString)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		if claims.Scope == jwt.ScopeRecover {
			if c.Method() != fiber.MethodGet && !(c.Method() == fiber.MethodPut && c.Path() == pinPath) {
				return c.Status(403).JSON(fiber.Map{"error": "Recovery session may only set a new PIN"})
			}
		} else if claims.Scope != jwt.ScopeSession {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals("scope", claims.Scope)
		c.Locals("session_id", claims.ID)

		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		tok := c.Query("token")
		return tok, tok != ""
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}

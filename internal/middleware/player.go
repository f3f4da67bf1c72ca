package middleware

import (
	"time"

	"github.com/apex/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// PlayerIDKey is the fiber.Ctx local holding the caller's player ID.
const PlayerIDKey = "playerID"

// EnsurePlayerID reads the player ID from the X-Player-ID header or the
// playerId query parameter and rejects requests that carry neither.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals(PlayerIDKey) != nil {
			return c.Next()
		}

		playerID := c.Get("X-Player-ID")
		if playerID == "" {
			playerID = c.Query("playerId")
		}

		if playerID == "" {
			log.WithField("path", c.Path()).Debug("request without player ID")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}

		// fiber strings alias the request buffer and the ID outlives the request
		c.Locals(PlayerIDKey, utils.CopyString(playerID))
		return c.Next()
	}
}

// RequestLogger logs method, path, status and latency of every request.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.WithFields(log.Fields{
			"method":  c.Method(),
			"path":    c.Path(),
			"status":  c.Response().StatusCode(),
			"latency": time.Since(start),
		}).Debug("request")
		return err
	}
}

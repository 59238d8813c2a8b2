package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on endpoint.
// Adds sensible defaults if not already set by the handler.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		// Only set on GET requests
		if c.Method() != "GET" {
			return err
		}

		// Don't override if the handler already set one
		if existing := c.GetRespHeader(fiber.HeaderCacheControl); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		// Default cache times by endpoint pattern
		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10" // Very short for system checks

		case path == "/metrics":
			ttl = "no-cache" // Metrics are real-time

		case path == "/graphql":
			ttl = "private, max-age=0" // GraphQL varies wildly

		case strings.HasPrefix(path, "/v1/people"):
			ttl = "no-store" // Live positions, refreshed every second

		case path == "/v1/fence/status":
			ttl = "no-store" // Evaluated against a live position

		case path == "/v1/fence":
			ttl = "public, max-age=60" // Fence changes are rare operator actions

		case strings.HasPrefix(path, "/v1/navigation/"):
			ttl = "no-store" // Session state moves with the walker

		case path == "/v1/alerts/stats":
			ttl = "public, max-age=60" // Aggregates: 1 min

		case strings.HasPrefix(path, "/v1/alerts"):
			ttl = "private, no-cache" // Alert state must be current

		case strings.HasPrefix(path, "/v1/chat"):
			ttl = "private, no-cache" // Conversations are personal

		case strings.HasPrefix(path, "/docs"):
			ttl = "public, max-age=3600" // Static documentation

		case strings.HasPrefix(path, "/v1/"):
			ttl = "public, max-age=60" // Conservative default for safety data
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}

		return err
	}
}

package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets a default Cache-Control header unless the handler
// already chose one. Optimization results are per-request and never stored
// by intermediaries; the service keeps its own result cache.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.GetRespHeader(fiber.HeaderCacheControl) != "" {
			return err
		}
		if ttl := defaultCacheControl(c.Method(), c.Path()); ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}
		return err
	}
}

func defaultCacheControl(method, path string) string {
	switch {
	case method != fiber.MethodGet:
		return "no-store"
	case path == "/v1/health" || path == "/v1/ready":
		return "public, max-age=10"
	case path == "/metrics":
		return "no-cache"
	case strings.HasPrefix(path, "/v1/itineraries/batch/"):
		// Running batches change state.
		return "no-cache"
	case strings.HasPrefix(path, "/v1/fuel-prices"):
		return "public, max-age=60"
	case strings.HasPrefix(path, "/v1/"):
		return "public, max-age=300"
	}
	return ""
}

package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sony/gobreaker"
)

// Version is reported by the health endpoint; set with -ldflags.
var Version = "dev"

// HealthHandler returns a basic liveness check.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).Round(time.Second).String(),
			"version": Version,
		})
	}
}

// ReadyHandler checks the configured backends. The planner itself needs
// none of them, so a backend that is not configured does not fail the
// check; one that is configured but unreachable does.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		checks := make(map[string]string)
		allOK := true
		check := func(name string, configured bool, ping func(context.Context) error) {
			if !configured {
				checks[name] = "not configured"
				return
			}
			if err := ping(ctx); err != nil {
				checks[name] = "error: " + err.Error()
				allOK = false
				return
			}
			checks[name] = "ok"
		}

		check("database", deps.DB != nil, func(ctx context.Context) error { return deps.DB.Ping(ctx) })
		check("cache", deps.Cache != nil, func(ctx context.Context) error { return deps.Cache.Ping(ctx) })

		// An open breaker means requests skip the cache entirely.
		if deps.CacheGuard != nil {
			state := deps.CacheGuard.State()
			checks["cache_breaker"] = state.String()
			if state == gobreaker.StateOpen {
				allOK = false
			}
		} else {
			checks["cache_breaker"] = "not configured"
		}

		if deps.NATS != nil {
			if deps.NATS.IsConnected() {
				checks["nats"] = "ok"
			} else {
				checks["nats"] = "disconnected"
				allOK = false
			}
		} else {
			checks["nats"] = "not configured"
		}

		if deps.Batches == nil {
			checks["workflows"] = "not configured"
		} else {
			checks["workflows"] = "ok"
		}

		status := "ready"
		code := fiber.StatusOK
		if !allOK {
			status = "not ready"
			code = fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	}
}

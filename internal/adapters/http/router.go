package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/dayroute/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health and readiness run without a timeout
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")
	withTimeout := func(h fiber.Handler) fiber.Handler {
		return timeout.NewWithContext(h, requestTimeout)
	}

	it := v1.Group("/itineraries")
	it.Post("/optimize", withTimeout(OptimizeHandler(deps)))
	it.Post("/batch", withTimeout(BatchHandler(deps)))
	it.Post("/batch/async", withTimeout(StartBatchHandler(deps)))
	it.Get("/batch/:id", withTimeout(BatchStatusHandler(deps)))
	it.Post("/clusters", withTimeout(ClustersHandler(deps)))
	it.Post("/timing", withTimeout(TimingHandler(deps)))

	v1.Get("/distance", withTimeout(DistanceHandler(deps)))
	v1.Get("/travel-time", withTimeout(TravelTimeHandler(deps)))

	v1.Get("/fuel-prices", withTimeout(ListFuelPricesHandler(deps)))
	v1.Get("/fuel-prices/current", withTimeout(CurrentFuelPriceHandler(deps)))
	v1.Put("/fuel-prices/:region", withTimeout(PutFuelPriceHandler(deps)))

	app.Post("/graphql", withTimeout(GraphQLHandler(deps)))

	specPath := deps.OpenAPIPath
	if specPath == "" {
		specPath = "api/openapi.yaml"
	}
	SetupDocs(app, specPath)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}

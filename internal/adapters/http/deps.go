package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/dayroute/internal/adapters/postgres"
	"github.com/samirrijal/dayroute/internal/adapters/valkey"
	"github.com/samirrijal/dayroute/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
// Everything but Itineraries is optional.
type Dependencies struct {
	Itineraries *usecases.ItineraryService
	Fuel        *usecases.FuelPriceService
	Batches     *usecases.BatchService
	NATS        *nats.Conn
	DB          *postgres.DB
	Cache       *valkey.Cache
	CacheGuard  *valkey.BreakerCache

	// OpenAPIPath is served at /docs/openapi.yaml; defaults to api/openapi.yaml.
	OpenAPIPath string
}

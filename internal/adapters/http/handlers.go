package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/dayroute/internal/core/domain"
)

// OptimizeHandler reorders and reschedules one day of activities.
func OptimizeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req OptimizeRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}

		res, err := deps.Itineraries.Optimize(c.UserContext(), req.toDomain())
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(res)
	}
}

// BatchHandler optimizes several independent days in-process.
func BatchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req BatchRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}

		results, err := deps.Itineraries.OptimizeBatch(c.UserContext(), req.toDomain())
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(fiber.Map{"results": results})
	}
}

// StartBatchHandler hands a batch to the workflow engine and returns its id.
func StartBatchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Batches == nil {
			return errUnavailable(c, "asynchronous batches are not configured")
		}
		var req BatchRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}

		id, err := deps.Batches.Start(c.UserContext(), req.toDomain())
		if err != nil {
			return errFromService(c, err)
		}
		c.Location("/v1/itineraries/batch/" + id)
		return c.Status(fiber.StatusAccepted).JSON(domain.BatchStatus{ID: id, Status: domain.BatchRunning})
	}
}

// BatchStatusHandler reports an asynchronous batch.
func BatchStatusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Batches == nil {
			return errUnavailable(c, "asynchronous batches are not configured")
		}
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "batch id is required")
		}

		status, err := deps.Batches.Status(c.UserContext(), id)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(status)
	}
}

// ClustersHandler groups nearby activities.
func ClustersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ClustersRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}

		clusters := deps.Itineraries.Clusters(activitiesToDomain(req.Activities), req.MaxDistanceKm)
		return c.JSON(fiber.Map{"clusters": clusters})
	}
}

// TimingHandler returns advice about poorly timed activities.
func TimingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req TimingRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}

		advice := deps.Itineraries.Timing(activitiesToDomain(req.Activities))
		if advice.Suggestions == nil {
			advice.Suggestions = []string{}
		}
		return c.JSON(advice)
	}
}

// DistanceHandler returns the great-circle distance between two points.
func DistanceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var q DistanceQuery
		if ok, err := bindQuery(c, &q); !ok {
			return err
		}

		from := domain.GeoPoint{Lat: *q.FromLat, Lon: *q.FromLon}
		to := domain.GeoPoint{Lat: *q.ToLat, Lon: *q.ToLon}
		km, err := deps.Itineraries.Distance(from, to)
		if err != nil {
			return errFromService(c, err)
		}

		c.Set("Cache-Control", "public, max-age=86400")
		return c.JSON(fiber.Map{"distance_km": km})
	}
}

// TravelTimeHandler converts a distance into minutes for a travel mode.
func TravelTimeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var q TravelTimeQuery
		if ok, err := bindQuery(c, &q); !ok {
			return err
		}
		mode := q.Mode
		if mode == "" {
			mode = string(domain.TravelDriving)
		}

		minutes, err := deps.Itineraries.TravelTime(*q.DistanceKm, mode)
		if err != nil {
			return errFromService(c, err)
		}

		c.Set("Cache-Control", "public, max-age=86400")
		return c.JSON(fiber.Map{"minutes": minutes, "mode": strings.ToLower(mode)})
	}
}

// ListFuelPricesHandler returns the stored reference prices, paginated.
func ListFuelPricesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Fuel == nil {
			return errUnavailable(c, "fuel prices are not configured")
		}
		prices, err := deps.Fuel.List(c.UserContext())
		if err != nil {
			return errFromService(c, err)
		}

		page, pg := paginate(prices, c.QueryInt("offset", 0), c.QueryInt("limit", 50))
		SetLinkHeaders(c, pg)
		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// CurrentFuelPriceHandler returns the price used for requests that omit one.
func CurrentFuelPriceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Fuel == nil {
			return errUnavailable(c, "fuel prices are not configured")
		}
		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(deps.Fuel.Current(c.UserContext()))
	}
}

// PutFuelPriceHandler stores the reference price of a region.
func PutFuelPriceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Fuel == nil {
			return errUnavailable(c, "fuel prices are not configured")
		}
		region := strings.TrimSpace(c.Params("region"))
		if region == "" || len(region) > 64 {
			return errBadRequest(c, "region must be 1-64 characters")
		}
		var req FuelPriceRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}

		price, err := deps.Fuel.Update(c.UserContext(), domain.FuelPrice{
			Region:        region,
			PricePerLiter: req.PricePerLiter,
			Currency:      req.Currency,
		})
		if err != nil {
			return errFromService(c, err)
		}
		LoggerFromCtx(c.UserContext()).Info("fuel price updated",
			"region", price.Region, "price_per_liter", price.PricePerLiter)
		return c.JSON(price)
	}
}

package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dayroute",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dayroute",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dayroute",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Planner metrics
	OptimizationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dayroute",
		Subsystem: "planner",
		Name:      "optimizations_total",
		Help:      "Total itinerary optimizations by travel mode and outcome",
	}, []string{"mode", "outcome"})

	OptimizationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dayroute",
		Subsystem: "planner",
		Name:      "optimization_duration_seconds",
		Help:      "Time spent optimizing a single day",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})

	OptimizationEfficiency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dayroute",
		Subsystem: "planner",
		Name:      "efficiency_score",
		Help:      "Efficiency score of optimized itineraries",
		Buckets:   prometheus.LinearBuckets(0, 10, 11),
	})

	SavedMinutes = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dayroute",
		Subsystem: "planner",
		Name:      "saved_minutes",
		Help:      "Travel minutes saved per optimization",
		Buckets:   []float64{0, 5, 15, 30, 60, 120, 240},
	})

	SavedDistanceKm = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dayroute",
		Subsystem: "planner",
		Name:      "saved_distance_km",
		Help:      "Kilometers saved per optimization",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
	})

	BatchSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dayroute",
		Subsystem: "planner",
		Name:      "batch_days",
		Help:      "Number of days per batch request",
		Buckets:   []float64{1, 2, 3, 5, 7, 14, 30},
	}, []string{"dispatch"})

	FuelPriceRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dayroute",
		Subsystem: "fuel",
		Name:      "price_refreshes_total",
		Help:      "Fuel price snapshot refreshes by outcome",
	}, []string{"outcome"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "dayroute",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dayroute",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dayroute",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "dayroute",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "dayroute",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "dayroute",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

// PoolStat is the subset of pgxpool.Stat read by UpdateDBPoolMetrics.
type PoolStat interface {
	AcquiredConns() int32
	IdleConns() int32
	TotalConns() int32
}

// UpdateDBPoolMetrics copies pool gauges from a pgx pool snapshot.
func UpdateDBPoolMetrics(s PoolStat) {
	DBPoolConnsAcquired.Set(float64(s.AcquiredConns()))
	DBPoolConnsIdle.Set(float64(s.IdleConns()))
	DBPoolConnsOpen.Set(float64(s.TotalConns()))
}

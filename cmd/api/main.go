package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/samirrijal/dayroute/internal/adapters/http"
	natsadapter "github.com/samirrijal/dayroute/internal/adapters/nats"
	"github.com/samirrijal/dayroute/internal/adapters/postgres"
	temporaladapter "github.com/samirrijal/dayroute/internal/adapters/temporal"
	"github.com/samirrijal/dayroute/internal/adapters/valkey"
	"github.com/samirrijal/dayroute/internal/core/domain"
	"github.com/samirrijal/dayroute/internal/core/planner"
	"github.com/samirrijal/dayroute/internal/core/ports"
	"github.com/samirrijal/dayroute/internal/core/usecases"
	"github.com/samirrijal/dayroute/internal/pkg/config"
	"github.com/samirrijal/dayroute/internal/pkg/logging"
	"github.com/samirrijal/dayroute/internal/pkg/metrics"
	"github.com/samirrijal/dayroute/internal/pkg/telemetry"
)

func main() {
	_ = godotenv.Load() // .env is optional

	cfg, err := config.Load("dayroute-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Telemetry.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database holds reference fuel prices only; without it the
	// configured default price is used.
	var fuelRepo ports.FuelPriceRepository
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		slog.Warn("database unavailable, using default fuel price", "error", err)
		db = nil
	} else {
		defer db.Close()
		fuelRepo = postgres.NewFuelPriceRepo(db)
		go reportPoolStats(ctx, db)
	}

	// Cache
	var cache ports.CacheService
	var guard *valkey.BreakerCache
	vc, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		vc = nil
	} else {
		defer vc.Close()
		guard = valkey.NewBreakerCache(vc, valkey.DefaultBreakerSettings(), logger)
		cache = guard
	}

	// NATS
	var events ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer pub.Close()
		events = pub
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
		natsConn = nil
	} else {
		defer natsConn.Close()
	}

	// Use cases
	fuel := usecases.NewFuelPriceService(fuelRepo, cfg.Planner.FuelRegion, cfg.Planner.DefaultFuelPrice)
	if err := fuel.Refresh(ctx); err != nil {
		slog.Warn("initial fuel price load failed", "error", err)
	}
	if err := fuel.StartRefresh(cfg.Planner.FuelRefreshCron); err != nil {
		log.Fatalf("fuel refresh: %v", err)
	}
	defer fuel.Stop()

	itineraries := usecases.NewItineraryService(planner.NewOptimizer(nil), cache, events, fuel, usecases.ItineraryConfig{
		CacheTTLSeconds:  cfg.Planner.CacheTTLSeconds,
		BatchConcurrency: cfg.Planner.BatchConcurrency,
		MaxBatchDays:     cfg.Planner.MaxBatchDays,
		ValidationMode:   domain.ValidationMode(cfg.Planner.ValidationMode),
	})

	deps := &http.Dependencies{
		Itineraries: itineraries,
		Fuel:        fuel,
		NATS:        natsConn,
		DB:          db,
		Cache:       vc,
		CacheGuard:  guard,
	}

	// Durable batches
	if cfg.Temporal.Enabled {
		dispatcher, err := temporaladapter.Dial(cfg.Temporal.HostPort, cfg.Temporal.Namespace, cfg.Temporal.TaskQueue)
		if err != nil {
			slog.Warn("temporal unavailable, async batches disabled", "error", err)
		} else {
			defer dispatcher.Close()
			deps.Batches = usecases.NewBatchService(dispatcher, cfg.Planner.MaxBatchDays)
		}
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "DayRoute API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     "GET,POST,PUT,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

// reportPoolStats exports connection pool gauges until ctx ends.
func reportPoolStats(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateDBPoolMetrics(db.Stat())
		}
	}
}

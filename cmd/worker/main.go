package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/dayroute/internal/adapters/nats"
	"github.com/samirrijal/dayroute/internal/adapters/postgres"
	"github.com/samirrijal/dayroute/internal/adapters/valkey"
	"github.com/samirrijal/dayroute/internal/core/domain"
	"github.com/samirrijal/dayroute/internal/core/planner"
	"github.com/samirrijal/dayroute/internal/core/ports"
	"github.com/samirrijal/dayroute/internal/core/usecases"
	"github.com/samirrijal/dayroute/internal/pkg/config"
	"github.com/samirrijal/dayroute/internal/pkg/logging"
	"github.com/samirrijal/dayroute/internal/pkg/telemetry"
	"github.com/samirrijal/dayroute/internal/workflows"
)

func main() {
	_ = godotenv.Load() // .env is optional

	cfg, err := config.Load("dayroute-worker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Telemetry.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Fuel prices are optional; the configured default covers a missing DB.
	var fuelRepo ports.FuelPriceRepository
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		slog.Warn("database unavailable, using default fuel price", "error", err)
	} else {
		defer db.Close()
		fuelRepo = postgres.NewFuelPriceRepo(db)
	}

	var cache ports.CacheService
	if vc, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer vc.Close()
		cache = valkey.NewBreakerCache(vc, valkey.DefaultBreakerSettings(), logger)
	}

	var events ports.EventPublisher
	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer pub.Close()
		events = pub
	}

	fuel := usecases.NewFuelPriceService(fuelRepo, cfg.Planner.FuelRegion, cfg.Planner.DefaultFuelPrice)
	itineraries := usecases.NewItineraryService(planner.NewOptimizer(nil), cache, events, fuel, usecases.ItineraryConfig{
		CacheTTLSeconds:  cfg.Planner.CacheTTLSeconds,
		BatchConcurrency: cfg.Planner.BatchConcurrency,
		MaxBatchDays:     cfg.Planner.MaxBatchDays,
		ValidationMode:   domain.ValidationMode(cfg.Planner.ValidationMode),
	})

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize: cfg.Planner.BatchConcurrency * 4,
	})

	w.RegisterWorkflow(workflows.BatchOptimizeWorkflow)
	w.RegisterActivity(&workflows.Activities{Itineraries: itineraries})

	slog.Info("batch worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}

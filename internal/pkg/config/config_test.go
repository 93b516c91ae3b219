package config_test

import (
	"strings"
	"testing"

	"github.com/samirrijal/dayroute/internal/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("dayroute-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Telemetry.ServiceName != "dayroute-test" {
		t.Errorf("expected service name dayroute-test, got %s", cfg.Telemetry.ServiceName)
	}
	if cfg.Planner.DefaultFuelPrice != 1.45 {
		t.Errorf("expected default fuel price 1.45, got %v", cfg.Planner.DefaultFuelPrice)
	}
	if cfg.Temporal.TaskQueue != "itinerary-batch-queue" {
		t.Errorf("expected itinerary-batch-queue, got %s", cfg.Temporal.TaskQueue)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("DAYROUTE_PLANNER_CACHE_TTL_SECONDS", "60")
	t.Setenv("DAYROUTE_PLANNER_VALIDATION_MODE", "strict")

	cfg, err := config.Load("dayroute-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Planner.CacheTTLSeconds != 60 {
		t.Errorf("expected ttl 60, got %d", cfg.Planner.CacheTTLSeconds)
	}
	if cfg.Planner.ValidationMode != "strict" {
		t.Errorf("expected strict, got %s", cfg.Planner.ValidationMode)
	}
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg := &config.Config{
		Planner: config.PlannerConfig{
			ValidationMode:  "paranoid",
			FuelRefreshCron: "every tuesday",
		},
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"server.port", "database.host", "planner.validation_mode", "planner.fuel_refresh_cron", "planner.batch_concurrency"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in error, got: %v", want, err)
		}
	}
}

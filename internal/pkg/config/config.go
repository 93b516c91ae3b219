package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Temporal  TemporalConfig  `mapstructure:"temporal"`
	Planner   PlannerConfig   `mapstructure:"planner"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	AllowOrigins string `mapstructure:"allow_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
	Enabled   bool   `mapstructure:"enabled"`
}

// PlannerConfig tunes the itinerary service around the optimizer.
type PlannerConfig struct {
	CacheTTLSeconds  int     `mapstructure:"cache_ttl_seconds"`
	DefaultFuelPrice float64 `mapstructure:"default_fuel_price"`
	FuelRegion       string  `mapstructure:"fuel_region"`
	FuelRefreshCron  string  `mapstructure:"fuel_refresh_cron"`
	ValidationMode   string  `mapstructure:"validation_mode"`
	BatchConcurrency int     `mapstructure:"batch_concurrency"`
	MaxBatchDays     int     `mapstructure:"max_batch_days"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.allow_origins", "http://localhost:3000, http://localhost:5173")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "dayroute")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "dayroute")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "itinerary-batch-queue")
	v.SetDefault("temporal.enabled", false)
	v.SetDefault("planner.cache_ttl_seconds", 900)
	v.SetDefault("planner.default_fuel_price", 1.45)
	v.SetDefault("planner.fuel_region", "default")
	v.SetDefault("planner.fuel_refresh_cron", "@every 1h")
	v.SetDefault("planner.validation_mode", "lenient")
	v.SetDefault("planner.batch_concurrency", 4)
	v.SetDefault("planner.max_batch_days", 31)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: DAYROUTE_PLANNER_CACHE_TTL_SECONDS → planner.cache_ttl_seconds
	v.SetEnvPrefix("DAYROUTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Temporal.Enabled && c.Temporal.HostPort == "" {
		errs = append(errs, "temporal.host_port is required when temporal is enabled")
	}
	if c.Temporal.TaskQueue == "" {
		errs = append(errs, "temporal.task_queue is required")
	}
	if c.Planner.CacheTTLSeconds < 0 {
		errs = append(errs, fmt.Sprintf("planner.cache_ttl_seconds must not be negative, got %d", c.Planner.CacheTTLSeconds))
	}
	if c.Planner.DefaultFuelPrice <= 0 {
		errs = append(errs, "planner.default_fuel_price must be positive")
	}
	if c.Planner.BatchConcurrency <= 0 {
		errs = append(errs, "planner.batch_concurrency must be positive")
	}
	if c.Planner.MaxBatchDays <= 0 {
		errs = append(errs, "planner.max_batch_days must be positive")
	}
	switch c.Planner.ValidationMode {
	case "lenient", "strict":
	default:
		errs = append(errs, fmt.Sprintf("planner.validation_mode must be lenient or strict, got %q", c.Planner.ValidationMode))
	}
	if c.Planner.FuelRefreshCron != "" {
		if _, err := cron.ParseStandard(c.Planner.FuelRefreshCron); err != nil {
			errs = append(errs, fmt.Sprintf("planner.fuel_refresh_cron: %v", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Unknown sub-recipe policies understood by the availability evaluator.
const (
	PolicyUnavailable = "unavailable"
	PolicyPermissive  = "permissive"
)

const (
	TraceExporterNone   = "none"
	TraceExporterStdout = "stdout"
)

// Config captures the runtime configuration for the application.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Logging   LoggingConfig
	Stock     StockConfig
	Telemetry TelemetryConfig
}

// ServerConfig configures the HTTP server runtime behavior.
type ServerConfig struct {
	Addr string
}

// DatabaseConfig contains the database connection settings.
type DatabaseConfig struct {
	URL             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	UseMock         bool
}

type LoggingConfig struct {
	Level string
}

// StockConfig tunes the deduction engine.
type StockConfig struct {
	DispatchConcurrency    int
	UnknownSubRecipePolicy string
	SettleTimeout          time.Duration
}

type TelemetryConfig struct {
	ServiceName   string
	TraceExporter string
}

// Load inspects the environment and builds a Config value.
func Load() (Config, error) {
	cfg := Config{}

	cfg.Server = ServerConfig{
		Addr: firstNonEmpty(
			os.Getenv("SERVER_ADDR"),
			os.Getenv("ADDR"),
			":8080",
		),
	}

	cfg.Database = DatabaseConfig{
		URL: firstNonEmpty(
			os.Getenv("DATABASE_URL"),
			os.Getenv("DB_URL"),
			"",
		),
		MaxIdleConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_IDLE_CONNS"), 0),
		MaxOpenConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_OPEN_CONNS"), 0),
		ConnMaxLifetime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_LIFETIME"), 0),
		ConnMaxIdleTime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_IDLE_TIME"), 0),
	}
	cfg.Database.UseMock = parseBoolWithDefault(os.Getenv("DATABASE_USE_MOCK"), strings.TrimSpace(cfg.Database.URL) == "")

	cfg.Logging = LoggingConfig{
		Level: firstNonEmpty(os.Getenv("LOG_LEVEL"), "info"),
	}

	cfg.Stock = StockConfig{
		DispatchConcurrency:    parseIntWithDefault(os.Getenv("STOCK_DISPATCH_CONCURRENCY"), 8),
		UnknownSubRecipePolicy: strings.ToLower(strings.TrimSpace(firstNonEmpty(os.Getenv("STOCK_UNKNOWN_SUBRECIPE_POLICY"), PolicyUnavailable))),
		SettleTimeout:          parseDurationWithDefault(os.Getenv("STOCK_SETTLE_TIMEOUT"), 30*time.Second),
	}

	cfg.Telemetry = TelemetryConfig{
		ServiceName:   firstNonEmpty(os.Getenv("SERVICE_NAME"), "koregastro"),
		TraceExporter: strings.ToLower(strings.TrimSpace(firstNonEmpty(os.Getenv("OTEL_TRACES_EXPORTER"), TraceExporterNone))),
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return Config{}, fmt.Errorf("server address must not be empty")
	}
	if cfg.Stock.DispatchConcurrency <= 0 {
		return Config{}, fmt.Errorf("stock dispatch concurrency must be positive, got %d", cfg.Stock.DispatchConcurrency)
	}
	switch cfg.Stock.UnknownSubRecipePolicy {
	case PolicyUnavailable, PolicyPermissive:
	default:
		return Config{}, fmt.Errorf("unknown sub-recipe policy: %s", cfg.Stock.UnknownSubRecipePolicy)
	}
	switch cfg.Telemetry.TraceExporter {
	case TraceExporterNone, TraceExporterStdout:
	default:
		return Config{}, fmt.Errorf("unsupported trace exporter: %s", cfg.Telemetry.TraceExporter)
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func parseIntWithDefault(value string, def int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}

func parseDurationWithDefault(value string, def time.Duration) time.Duration {
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}

func parseBoolWithDefault(value string, def bool) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}

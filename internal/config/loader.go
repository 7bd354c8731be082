package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "taskconnect.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if cfg.Storage.Driver == "postgres" && cfg.Postgres.DSN == "" {
		cfg.Postgres.DSN = dsnFromParts()
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the --config flag
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.GRPCAddr, "TASKCONNECT_GRPC_ADDR")
	setString(&cfg.Server.HTTPAddr, "TASKCONNECT_HTTP_ADDR")
	setString(&cfg.Server.APIToken, "API_TOKEN")
	setString(&cfg.Storage.Driver, "TASKCONNECT_STORAGE")
	setString(&cfg.Postgres.DSN, "DB_CONN_STR")
	setInt(&cfg.Postgres.MaxOpenConns, "TASKCONNECT_PG_MAX_OPEN_CONNS")
	setInt(&cfg.Postgres.MaxIdleConns, "TASKCONNECT_PG_MAX_IDLE_CONNS")
	setDuration(&cfg.Postgres.ConnMaxLifetime, "TASKCONNECT_PG_CONN_MAX_LIFETIME")
	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.NATS.Stream, "TASKCONNECT_NATS_STREAM")
	setInt64(&cfg.Cache.MaxCostBytes, "TASKCONNECT_CACHE_MAX_COST")
	setDuration(&cfg.Cache.TTL, "TASKCONNECT_CACHE_TTL")
	setString(&cfg.Logging.Level, "TASKCONNECT_LOG_LEVEL")
	setString(&cfg.Logging.Service, "TASKCONNECT_LOG_SERVICE")
	setString(&cfg.Logging.File, "TASKCONNECT_LOG_FILE")
	setUint64(&cfg.Retry.MaxRetries, "TASKCONNECT_RETRY_MAX")
	setDuration(&cfg.Retry.BaseDelay, "TASKCONNECT_RETRY_BASE_DELAY")
	setUint16(&cfg.IDGen.MachineID, "TASKCONNECT_MACHINE_ID")
}

// dsnFromParts builds a lib/pq connection string from the DB_* variables
// used by the docker-compose setup.
func dsnFromParts() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		envOr("DB_HOST", "localhost"),
		envOr("DB_PORT", "5432"),
		envOr("DB_USER", "postgres"),
		envOr("DB_PASSWORD", "postgres"),
		envOr("DB_NAME", "taskconnect"),
	)
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.GRPCAddr == "" {
		return errors.New("server.grpc_addr is required")
	}
	if cfg.Server.APIToken == "" {
		return errors.New("server.api_token is required")
	}
	switch cfg.Storage.Driver {
	case "memory":
	case "postgres":
		if cfg.Postgres.MaxOpenConns < 1 {
			return errors.New("postgres.max_open_conns must be >= 1")
		}
	default:
		return fmt.Errorf("storage.driver must be memory or postgres, got %q", cfg.Storage.Driver)
	}
	if cfg.NATS.URL != "" && cfg.NATS.Stream == "" {
		return errors.New("nats.stream is required when nats.url is set")
	}
	if cfg.Cache.MaxCostBytes < 1 {
		return errors.New("cache.max_cost_bytes must be >= 1")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setUint64(dst *uint64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setUint16(dst *uint16, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 16); err == nil {
			*dst = uint16(n)
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

// Package config provides hierarchical configuration loading for the taskconnect backend.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the taskconnect service.
type Config struct {
	Server   Server   `yaml:"server"`
	Storage  Storage  `yaml:"storage"`
	Postgres Postgres `yaml:"postgres"`
	NATS     NATS     `yaml:"nats"`
	Cache    Cache    `yaml:"cache"`
	Logging  Logging  `yaml:"logging"`
	Retry    Retry    `yaml:"retry"`
	IDGen    IDGen    `yaml:"idgen"`
}

// Server holds transport configuration.
type Server struct {
	GRPCAddr string `yaml:"grpc_addr"`
	HTTPAddr string `yaml:"http_addr"` // Empty disables the REST API
	APIToken string `yaml:"api_token"`
}

// Storage selects the persistence backend.
type Storage struct {
	Driver string `yaml:"driver"` // "memory" | "postgres"
}

// Postgres holds PostgreSQL connection configuration.
type Postgres struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// NATS holds status event publishing configuration.
type NATS struct {
	URL    string `yaml:"url"` // Empty disables publishing
	Stream string `yaml:"stream"`
}

// Cache holds the user directory cache configuration.
type Cache struct {
	MaxCostBytes int64         `yaml:"max_cost_bytes"`
	TTL          time.Duration `yaml:"ttl"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
	File    string `yaml:"file"` // Optional text log mirrored next to stdout
}

// Retry holds the request-layer policy for lost concurrency races.
type Retry struct {
	MaxRetries uint64        `yaml:"max_retries"`
	BaseDelay  time.Duration `yaml:"base_delay"`
}

// IDGen holds identity allocation configuration.
type IDGen struct {
	MachineID uint16 `yaml:"machine_id"` // 0 derives the id from the host's private IP
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Server: Server{
			GRPCAddr: ":8080",
			HTTPAddr: ":8081",
			APIToken: "dev-token",
		},
		Storage: Storage{
			Driver: "memory",
		},
		Postgres: Postgres{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Hour,
		},
		NATS: NATS{
			Stream: "TASKCONNECT",
		},
		Cache: Cache{
			MaxCostBytes: 16 << 20,
			TTL:          5 * time.Minute,
		},
		Logging: Logging{
			Level:   "info",
			Service: "taskconnect",
		},
		Retry: Retry{
			MaxRetries: 3,
			BaseDelay:  20 * time.Millisecond,
		},
	}
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Storage backends understood by app.OpenStorage.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

type Config struct {
	Backend    string `toml:"storage_backend"` // STORAGE_BACKEND (default "sqlite")
	SQLitePath string `toml:"sqlite_path"`     // SQLITE_PATH (default "production.db")
	PGURL      string `toml:"pg_url"`          // PG_URL (required for postgres)

	S3Bucket   string `toml:"s3_bucket"`   // S3_BUCKET (required for s3)
	S3Prefix   string `toml:"s3_prefix"`   // S3_PREFIX (default "production")
	S3Region   string `toml:"s3_region"`   // S3_REGION (default "us-east-1")
	S3Endpoint string `toml:"s3_endpoint"` // S3_ENDPOINT (MinIO etc.)

	StanCluster string `toml:"stan_cluster"` // STAN_CLUSTER
	StanClient  string `toml:"stan_client"`  // STAN_CLIENT
	StanURL     string `toml:"stan_url"`     // STAN_URL
	StanSubject string `toml:"stan_subject"` // STAN_SUBJECT (empty = no consumer)

	NATSURL  string `toml:"nats_url"`  // NATS_URL (empty = no events)
	HTTPAddr string `toml:"http_addr"` // HTTP_ADDR
	LogLevel string `toml:"log_level"` // LOG_LEVEL (debug|info|warn|error)
}

// Defaults returns the configuration used when neither file nor env set a value.
func Defaults() Config {
	return Config{
		Backend:     BackendSQLite,
		SQLitePath:  "production.db",
		S3Prefix:    "production",
		S3Region:    "us-east-1",
		StanCluster: "orders-cluster",
		StanClient:  "production-service",
		StanURL:     "nats://localhost:4222",
		StanSubject: "order-data",
		HTTPAddr:    ":8080",
		LogLevel:    "info",
	}
}

// Load reads PRODUCTION_CONFIG (a TOML file) if set, then applies
// environment overrides and validates the result.
func Load() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("PRODUCTION_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config file %s: unknown keys %v", path, undecoded)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Backend = getenv("STORAGE_BACKEND", cfg.Backend)
	cfg.SQLitePath = getenv("SQLITE_PATH", cfg.SQLitePath)
	cfg.PGURL = getenv("PG_URL", cfg.PGURL)
	cfg.S3Bucket = getenv("S3_BUCKET", cfg.S3Bucket)
	cfg.S3Prefix = getenv("S3_PREFIX", cfg.S3Prefix)
	cfg.S3Region = getenv("S3_REGION", cfg.S3Region)
	cfg.S3Endpoint = getenv("S3_ENDPOINT", cfg.S3Endpoint)
	cfg.StanCluster = getenv("STAN_CLUSTER", cfg.StanCluster)
	cfg.StanClient = getenv("STAN_CLIENT", cfg.StanClient)
	cfg.StanURL = getenv("STAN_URL", cfg.StanURL)
	cfg.NATSURL = getenv("NATS_URL", cfg.NATSURL)
	cfg.HTTPAddr = getenv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)

	// an explicitly empty STAN_SUBJECT turns the consumer off
	if v, ok := os.LookupEnv("STAN_SUBJECT"); ok {
		cfg.StanSubject = v
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.PGURL == "" {
			return errors.New("PG_URL is required for the postgres backend")
		}
	case BackendS3:
		if c.S3Bucket == "" {
			return errors.New("S3_BUCKET is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Backend)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown LOG_LEVEL %q", s)
}

// NewLogger builds the process logger at the configured level.
func (c Config) NewLogger() *slog.Logger {
	level, _ := ParseLevel(c.LogLevel)
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

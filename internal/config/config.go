// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Storage drivers.
const (
	StorageS3     = "s3"
	StorageMemory = "memory"
)

// Metadata backends.
const (
	MetadataBlob     = "blob"
	MetadataBlobCAS  = "blob-cas"
	MetadataPostgres = "postgres"
	MetadataSQLite   = "sqlite"
)

// Cache drivers.
const (
	CacheMemory = "memory"
	CacheValkey = "valkey"
	CacheNone   = "none"
)

// Session backends.
const (
	SessionsStatic = "static"
	SessionsValkey = "valkey"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // text, json

	// Object storage
	StorageDriver string
	SupabaseURL   string
	Bucket        string
	S3Endpoint    string
	S3Region      string
	S3AccessKey   string
	S3SecretKey   string
	PublicURL     string // public object prefix, derived from SUPABASE_URL when unset

	// Metadata documents
	MetadataBackend string
	DatabaseURL     string
	SQLitePath      string

	// Catalog
	CacheDriver     string
	CatalogCacheTTL time.Duration
	ProbeTimeout    time.Duration
	VerifyListed    bool
	Concurrency     int
	PlaceholderBase string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Admin access
	AuthSessions      string
	AdminPassword     string
	AdminPasswordHash string
	LoginRatePerMin   int
	TrustProxy        bool // key the login limiter on X-Forwarded-For

	// HTTP
	CORSOrigins []string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		LogLevel:  strings.ToLower(envOrDefault("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(os.Getenv("LOG_FORMAT")),

		StorageDriver: strings.ToLower(envOrDefault("STORAGE_DRIVER", StorageS3)),
		SupabaseURL:   strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
		Bucket:        envOrDefault("STORAGE_BUCKET", "corporate"),
		S3Endpoint:    os.Getenv("S3_ENDPOINT"),
		S3Region:      envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey:   os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:   os.Getenv("S3_SECRET_KEY"),
		PublicURL:     os.Getenv("STORAGE_PUBLIC_URL"),

		MetadataBackend: strings.ToLower(envOrDefault("METADATA_BACKEND", MetadataBlob)),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		SQLitePath:      envOrDefault("SQLITE_PATH", "storefront.db"),

		CacheDriver:     strings.ToLower(envOrDefault("CACHE_DRIVER", CacheMemory)),
		PlaceholderBase: envOrDefault("PLACEHOLDER_BASE_URL", "https://placehold.co"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AuthSessions:      strings.ToLower(envOrDefault("AUTH_SESSIONS", SessionsStatic)),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		CORSOrigins: splitList(os.Getenv("CORS_ORIGINS")),
	}

	var err error
	if cfg.CatalogCacheTTL, err = envDuration("CATALOG_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ProbeTimeout, err = envDuration("PROBE_TIMEOUT", 1500*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.VerifyListed, err = envBool("CATALOG_VERIFY_LISTED", true); err != nil {
		return nil, err
	}
	if cfg.Concurrency, err = envInt("CATALOG_CONCURRENCY", 16); err != nil {
		return nil, err
	}
	if cfg.LoginRatePerMin, err = envInt("LOGIN_RATE_PER_MIN", 10); err != nil {
		return nil, err
	}
	if cfg.TrustProxy, err = envBool("TRUST_PROXY", false); err != nil {
		return nil, err
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
		if cfg.Env == "production" {
			cfg.LogFormat = "json"
		}
	}

	if cfg.StorageDriver == StorageS3 {
		if cfg.S3Endpoint == "" && cfg.SupabaseURL != "" {
			cfg.S3Endpoint = cfg.SupabaseURL + "/storage/v1/s3"
		}
		if cfg.PublicURL == "" && cfg.SupabaseURL != "" {
			cfg.PublicURL = cfg.SupabaseURL + "/storage/v1/object/public/" + cfg.Bucket
		}
	}
	if cfg.StorageDriver == StorageMemory && cfg.PublicURL == "" {
		cfg.PublicURL = fmt.Sprintf("http://localhost:%s/storage", cfg.Port)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Env == "production" {
		if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
			return nil, fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set in production")
		}
		if cfg.StorageDriver != StorageS3 {
			return nil, fmt.Errorf("STORAGE_DRIVER must be s3 in production")
		}
		if cfg.S3Endpoint == "" || cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
			return nil, fmt.Errorf("S3_ENDPOINT (or SUPABASE_URL), S3_ACCESS_KEY and S3_SECRET_KEY must be set in production")
		}
	}

	return cfg, nil
}

// validate rejects unknown driver names.
func (c *Config) validate() error {
	checks := []struct {
		name  string
		value string
		allow []string
	}{
		{"STORAGE_DRIVER", c.StorageDriver, []string{StorageS3, StorageMemory}},
		{"METADATA_BACKEND", c.MetadataBackend, []string{MetadataBlob, MetadataBlobCAS, MetadataPostgres, MetadataSQLite}},
		{"CACHE_DRIVER", c.CacheDriver, []string{CacheMemory, CacheValkey, CacheNone}},
		{"AUTH_SESSIONS", c.AuthSessions, []string{SessionsStatic, SessionsValkey}},
		{"LOG_FORMAT", c.LogFormat, []string{"text", "json"}},
	}
	for _, ch := range checks {
		if !slices.Contains(ch.allow, ch.value) {
			return fmt.Errorf("%s: unsupported value %q (want one of %s)", ch.name, ch.value, strings.Join(ch.allow, ", "))
		}
	}
	if c.MetadataBackend == MetadataPostgres && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set when METADATA_BACKEND=postgres")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("CATALOG_CONCURRENCY must be at least 1")
	}
	if c.LoginRatePerMin < 1 {
		return fmt.Errorf("LOGIN_RATE_PER_MIN must be at least 1")
	}
	return nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// SecureCookies reports whether the admin cookie needs the Secure flag.
func (c *Config) SecureCookies() bool {
	return c.Env == "production"
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return b, nil
}

// splitList parses a comma-separated list, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

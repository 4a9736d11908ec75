// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"
)

// envVars lists every variable Load reads.
var envVars = []string{
	"APP_HOST", "APP_PORT", "APP_ENV", "LOG_LEVEL", "LOG_FORMAT",
	"STORAGE_DRIVER", "SUPABASE_URL", "STORAGE_BUCKET",
	"S3_ENDPOINT", "S3_REGION", "S3_ACCESS_KEY", "S3_SECRET_KEY", "STORAGE_PUBLIC_URL",
	"METADATA_BACKEND", "DATABASE_URL", "SQLITE_PATH",
	"CACHE_DRIVER", "CATALOG_CACHE_TTL", "PROBE_TIMEOUT", "CATALOG_VERIFY_LISTED",
	"CATALOG_CONCURRENCY", "PLACEHOLDER_BASE_URL",
	"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
	"AUTH_SESSIONS", "ADMIN_PASSWORD", "ADMIN_PASSWORD_HASH", "LOGIN_RATE_PER_MIN", "TRUST_PROXY",
	"CORS_ORIGINS",
}

// clearEnv sets every variable to "", which envOrDefault treats the same
// as unset. t.Setenv restores the previous values after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
}

// TestLoad_Defaults verifies that Load returns sensible development defaults
// when no environment variables are set.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	defaults := map[string]string{
		"Host":            cfg.Host,
		"Port":            cfg.Port,
		"Env":             cfg.Env,
		"LogLevel":        cfg.LogLevel,
		"LogFormat":       cfg.LogFormat,
		"StorageDriver":   cfg.StorageDriver,
		"Bucket":          cfg.Bucket,
		"S3Region":        cfg.S3Region,
		"MetadataBackend": cfg.MetadataBackend,
		"SQLitePath":      cfg.SQLitePath,
		"CacheDriver":     cfg.CacheDriver,
		"PlaceholderBase": cfg.PlaceholderBase,
		"ValkeyHost":      cfg.ValkeyHost,
		"ValkeyPort":      cfg.ValkeyPort,
		"AuthSessions":    cfg.AuthSessions,
	}
	want := map[string]string{
		"Host":            "0.0.0.0",
		"Port":            "8080",
		"Env":             "development",
		"LogLevel":        "info",
		"LogFormat":       "text",
		"StorageDriver":   "s3",
		"Bucket":          "corporate",
		"S3Region":        "us-east-1",
		"MetadataBackend": "blob",
		"SQLitePath":      "storefront.db",
		"CacheDriver":     "memory",
		"PlaceholderBase": "https://placehold.co",
		"ValkeyHost":      "localhost",
		"ValkeyPort":      "6379",
		"AuthSessions":    "static",
	}
	for field, w := range want {
		if got := defaults[field]; got != w {
			t.Errorf("%s = %q, want %q", field, got, w)
		}
	}

	if cfg.CatalogCacheTTL != 10*time.Minute {
		t.Errorf("CatalogCacheTTL = %v, want 10m", cfg.CatalogCacheTTL)
	}
	if cfg.ProbeTimeout != 1500*time.Millisecond {
		t.Errorf("ProbeTimeout = %v, want 1.5s", cfg.ProbeTimeout)
	}
	if !cfg.VerifyListed {
		t.Error("VerifyListed should default to true")
	}
	if cfg.Concurrency != 16 {
		t.Errorf("Concurrency = %d, want 16", cfg.Concurrency)
	}
	if cfg.TrustProxy {
		t.Error("TrustProxy should default to false")
	}
	if cfg.LoginRatePerMin != 10 {
		t.Errorf("LoginRatePerMin = %d, want 10", cfg.LoginRatePerMin)
	}
	if cfg.CORSOrigins != nil {
		t.Errorf("CORSOrigins = %v, want nil", cfg.CORSOrigins)
	}
}

// TestLoad_EnvOverrides verifies that every variable is read.
func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	overrides := map[string]string{
		"APP_PORT":              "3000",
		"LOG_LEVEL":             "DEBUG",
		"LOG_FORMAT":            "json",
		"S3_ENDPOINT":           "http://minio:9000",
		"S3_ACCESS_KEY":         "ak",
		"S3_SECRET_KEY":         "sk",
		"STORAGE_BUCKET":        "catalog",
		"STORAGE_PUBLIC_URL":    "https://cdn.example.com/catalog",
		"METADATA_BACKEND":      "sqlite",
		"SQLITE_PATH":           "/data/meta.db",
		"CACHE_DRIVER":          "valkey",
		"CATALOG_CACHE_TTL":     "90s",
		"PROBE_TIMEOUT":         "250ms",
		"CATALOG_VERIFY_LISTED": "false",
		"CATALOG_CONCURRENCY":   "4",
		"AUTH_SESSIONS":         "valkey",
		"ADMIN_PASSWORD":        "pw",
		"LOGIN_RATE_PER_MIN":    "3",
		"TRUST_PROXY":           "true",
		"CORS_ORIGINS":          "https://shop.example.com, ,https://admin.example.com",
	}
	for key, val := range overrides {
		t.Setenv(key, val)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Port != "3000" || cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Errorf("server/log fields not applied: %+v", cfg)
	}
	if cfg.S3Endpoint != "http://minio:9000" || cfg.Bucket != "catalog" || cfg.PublicURL != "https://cdn.example.com/catalog" {
		t.Errorf("storage fields not applied: %+v", cfg)
	}
	if cfg.MetadataBackend != MetadataSQLite || cfg.SQLitePath != "/data/meta.db" {
		t.Errorf("metadata fields not applied: %+v", cfg)
	}
	if cfg.CacheDriver != CacheValkey || cfg.CatalogCacheTTL != 90*time.Second {
		t.Errorf("cache fields not applied: %+v", cfg)
	}
	if cfg.ProbeTimeout != 250*time.Millisecond || cfg.VerifyListed || cfg.Concurrency != 4 {
		t.Errorf("catalog fields not applied: %+v", cfg)
	}
	if cfg.AuthSessions != SessionsValkey || cfg.AdminPassword != "pw" || cfg.LoginRatePerMin != 3 || !cfg.TrustProxy {
		t.Errorf("auth fields not applied: %+v", cfg)
	}
	wantOrigins := []string{"https://shop.example.com", "https://admin.example.com"}
	if !reflect.DeepEqual(cfg.CORSOrigins, wantOrigins) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.CORSOrigins, wantOrigins)
	}
}

// TestLoad_SupabaseDerivedURLs verifies the S3 gateway and public URL are
// derived from SUPABASE_URL when not set explicitly.
func TestLoad_SupabaseDerivedURLs(t *testing.T) {
	clearEnv(t)
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.S3Endpoint != "https://abc.supabase.co/storage/v1/s3" {
		t.Errorf("S3Endpoint = %q", cfg.S3Endpoint)
	}
	if cfg.PublicURL != "https://abc.supabase.co/storage/v1/object/public/corporate" {
		t.Errorf("PublicURL = %q", cfg.PublicURL)
	}
}

func TestLoad_MemoryStoragePublicURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("APP_PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.PublicURL != "http://localhost:9090/storage" {
		t.Errorf("PublicURL = %q", cfg.PublicURL)
	}
}

// TestLoad_Invalid verifies that malformed or unknown values are rejected.
func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown storage driver", "STORAGE_DRIVER", "gcs"},
		{"unknown metadata backend", "METADATA_BACKEND", "mongo"},
		{"postgres without url", "METADATA_BACKEND", "postgres"},
		{"unknown cache driver", "CACHE_DRIVER", "memcached"},
		{"unknown session backend", "AUTH_SESSIONS", "jwt"},
		{"unknown log format", "LOG_FORMAT", "xml"},
		{"bad duration", "CATALOG_CACHE_TTL", "ten minutes"},
		{"negative duration", "PROBE_TIMEOUT", "-1s"},
		{"bad bool", "CATALOG_VERIFY_LISTED", "maybe"},
		{"bad int", "CATALOG_CONCURRENCY", "many"},
		{"zero concurrency", "CATALOG_CONCURRENCY", "0"},
		{"zero login rate", "LOGIN_RATE_PER_MIN", "0"},
		{"bad trust proxy", "TRUST_PROXY", "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			if err == nil {
				t.Fatalf("Load() should reject %s=%q", tt.key, tt.val)
			}
			if !strings.Contains(err.Error(), tt.key) && !strings.Contains(err.Error(), "DATABASE_URL") {
				t.Errorf("error %q should name %s", err, tt.key)
			}
		})
	}
}

// TestLoad_ProductionChecks verifies that production refuses to start
// without a password or storage credentials.
func TestLoad_ProductionChecks(t *testing.T) {
	production := func(t *testing.T) {
		t.Helper()
		clearEnv(t)
		t.Setenv("APP_ENV", "production")
		t.Setenv("ADMIN_PASSWORD", "s3cur3")
		t.Setenv("SUPABASE_URL", "https://abc.supabase.co")
		t.Setenv("S3_ACCESS_KEY", "ak")
		t.Setenv("S3_SECRET_KEY", "sk")
	}

	t.Run("fully configured", func(t *testing.T) {
		production(t)
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
		if cfg.LogFormat != "json" {
			t.Errorf("LogFormat = %q, want json in production", cfg.LogFormat)
		}
		if !cfg.SecureCookies() {
			t.Error("production cookies should be Secure")
		}
	})

	t.Run("missing password", func(t *testing.T) {
		production(t)
		t.Setenv("ADMIN_PASSWORD", "")
		if _, err := Load(); err == nil {
			t.Fatal("Load() should require an admin password in production")
		}
	})

	t.Run("hash instead of password", func(t *testing.T) {
		production(t)
		t.Setenv("ADMIN_PASSWORD", "")
		t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
		if _, err := Load(); err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
	})

	t.Run("memory storage", func(t *testing.T) {
		production(t)
		t.Setenv("STORAGE_DRIVER", "memory")
		if _, err := Load(); err == nil {
			t.Fatal("Load() should refuse memory storage in production")
		}
	})

	t.Run("missing credentials", func(t *testing.T) {
		production(t)
		t.Setenv("S3_SECRET_KEY", "")
		if _, err := Load(); err == nil {
			t.Fatal("Load() should require S3 credentials in production")
		}
	})
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := Config{LogLevel: tt.level}
			if got := cfg.SlogLevel(); got != tt.want {
				t.Errorf("SlogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAddr(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		port     string
		expected string
	}{
		{
			name:     "default",
			host:     "0.0.0.0",
			port:     "8080",
			expected: "0.0.0.0:8080",
		},
		{
			name:     "localhost with custom port",
			host:     "127.0.0.1",
			port:     "3000",
			expected: "127.0.0.1:3000",
		},
		{
			name:     "empty host",
			host:     "",
			port:     "8080",
			expected: ":8080",
		},
		{
			name:     "ipv6 host",
			host:     "::1",
			port:     "443",
			expected: "::1:443",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Host: tt.host, Port: tt.port}
			got := cfg.Addr()
			if got != tt.expected {
				t.Errorf("Addr() = %q, want %q", got, tt.expected)
			}
		})
	}
}

// TestIsDev verifies the IsDev method for various environment modes.
func TestIsDev(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		expected bool
	}{
		{name: "development mode", env: "development", expected: true},
		{name: "production mode", env: "production", expected: false},
		{name: "testing mode", env: "testing", expected: false},
		{name: "empty string", env: "", expected: false},
		{name: "uppercase DEVELOPMENT", env: "DEVELOPMENT", expected: false},
		{name: "mixed case Development", env: "Development", expected: false},
		{name: "dev shorthand", env: "dev", expected: false},
		{name: "staging", env: "staging", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Env: tt.env}
			got := cfg.IsDev()
			if got != tt.expected {
				t.Errorf("IsDev() = %v, want %v (env=%q)", got, tt.expected, tt.env)
			}
		})
	}
}

// TestEnvOrDefault verifies the unexported helper function indirectly
// through Load. This test confirms that an explicitly set env var wins
// over the default, and that an empty var falls through to the default.
func TestEnvOrDefault(t *testing.T) {
	t.Run("set value wins", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_PORT", "3000")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
		if cfg.Port != "3000" {
			t.Errorf("Port = %q, want %q", cfg.Port, "3000")
		}
	})

	t.Run("empty value uses default", func(t *testing.T) {
		clearEnv(t)
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
		if cfg.Port != "8080" {
			t.Errorf("Port = %q, want default %q", cfg.Port, "8080")
		}
	})
}

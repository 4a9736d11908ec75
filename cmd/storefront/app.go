// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"storefront/internal/admin"
	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/docstore"
	"storefront/internal/handlers"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/router"
	"storefront/internal/session"
	"storefront/internal/storage"
	"storefront/internal/store"
)

// app holds the long-lived resources shared by the commands.
type app struct {
	cfg     *config.Config
	objects storage.Store
	memory  *storage.Memory // set only for the memory storage driver
	docs    docstore.Store
	valkey  *redis.Client
	metrics *metrics.Metrics
	closers []func() error
}

// newApp connects storage, the metadata backend and Valkey as configured.
func newApp(cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg, metrics: metrics.New()}

	if err := a.connectStorage(); err != nil {
		return nil, err
	}
	if err := a.connectMetadata(); err != nil {
		a.Close()
		return nil, err
	}
	if cfg.CacheDriver == config.CacheValkey || cfg.AuthSessions == config.SessionsValkey {
		client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect valkey: %w", err)
		}
		a.valkey = client
		a.closers = append(a.closers, client.Close)
	}
	return a, nil
}

func (a *app) connectStorage() error {
	cfg := a.cfg
	switch cfg.StorageDriver {
	case config.StorageMemory:
		a.memory = storage.NewMemory(cfg.PublicURL)
		a.objects = a.memory
		slog.Warn("using in-memory storage, uploads are lost on restart", "public_url", cfg.PublicURL)
		return nil
	default:
		client, err := storage.NewS3(storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.Bucket,
			PublicURL: cfg.PublicURL,
		})
		if err != nil {
			return fmt.Errorf("initialize s3 storage: %w", err)
		}
		if client == nil {
			return errors.New("s3 storage not configured: set SUPABASE_URL or S3_ENDPOINT, S3_ACCESS_KEY and S3_SECRET_KEY, or STORAGE_DRIVER=memory")
		}
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.Bucket)
		a.objects = client
		return nil
	}
}

func (a *app) connectMetadata() error {
	cfg := a.cfg
	switch cfg.MetadataBackend {
	case config.MetadataBlobCAS:
		a.docs = docstore.NewBlob(a.objects)
	case config.MetadataPostgres, config.MetadataSQLite:
		dialect, dsn := database.Postgres, cfg.DatabaseURL
		if cfg.MetadataBackend == config.MetadataSQLite {
			dialect, dsn = database.SQLite, cfg.SQLitePath
		}
		db, err := database.Connect(dialect, dsn)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, db.Close)
		if err := database.Migrate(db, dialect); err != nil {
			return err
		}
		a.docs = docstore.NewSQL(db, dialect)
	default:
		a.docs = docstore.NewLegacy(a.objects)
	}
	slog.Info("metadata backend ready", "backend", cfg.MetadataBackend, "versioned", a.docs.Versioned())
	return nil
}

// catalogCache returns the configured catalog cache.
func (a *app) catalogCache() cache.Catalog {
	switch a.cfg.CacheDriver {
	case config.CacheValkey:
		return cache.NewValkey(a.valkey, a.cfg.CatalogCacheTTL)
	case config.CacheNone:
		return cache.None{}
	default:
		return cache.NewMemory(a.cfg.CatalogCacheTTL)
	}
}

// sessionPort returns the configured session token backend.
func (a *app) sessionPort() auth.Port {
	if a.cfg.AuthSessions == config.SessionsValkey {
		return session.NewStore(a.valkey)
	}
	return auth.StaticPort{}
}

// handler builds the HTTP handler. The returned limiter must be stopped
// on shutdown.
func (a *app) handler() (http.Handler, *middleware.RateLimiter, error) {
	cfg := a.cfg

	password, err := auth.NewPassword(cfg.AdminPassword, cfg.AdminPasswordHash)
	if err != nil {
		if errors.Is(err, auth.ErrNoPassword) {
			return nil, nil, errors.New("set ADMIN_PASSWORD or ADMIN_PASSWORD_HASH to enable the admin API")
		}
		return nil, nil, err
	}
	gate := auth.NewGate(password, a.sessionPort(), cfg.SecureCookies())

	catalogCache := a.catalogCache()
	meta := store.NewMetadata(a.docs, catalogCache)
	prober := catalog.NewHTTPProber(&http.Client{}, cfg.ProbeTimeout, a.metrics)
	resolver := catalog.NewResolver(meta, a.objects, prober, catalogCache, a.metrics, catalog.Config{
		VerifyListed:    cfg.VerifyListed,
		Concurrency:     cfg.Concurrency,
		PlaceholderBase: cfg.PlaceholderBase,
	})
	svc := admin.NewService(meta, a.objects, catalogCache)

	limiter := middleware.NewRateLimiter(cfg.LoginRatePerMin)
	limiter.SetTrustProxy(cfg.TrustProxy)
	deps := router.Deps{
		Products:     handlers.NewProducts(resolver, svc),
		Carousel:     handlers.NewCarousel(meta, svc),
		Auth:         handlers.NewAuth(gate),
		Sessions:     gate,
		LoginLimiter: limiter,
		Metrics:      a.metrics,
		CORSOrigins:  cfg.CORSOrigins,
	}
	if a.memory != nil {
		deps.PublicObjects = a.memory.Handler()
	}
	return router.New(deps), limiter, nil
}

// Close releases every connection opened by newApp.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}

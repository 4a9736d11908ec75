// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"storefront/internal/store"
)

func newServeCmd() *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			slog.Info("configuration loaded",
				"env", cfg.Env,
				"addr", cfg.Addr(),
				"storage", cfg.StorageDriver,
				"metadata", cfg.MetadataBackend,
				"cache", cfg.CacheDriver,
				"sessions", cfg.AuthSessions,
			)

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Seed development data (no-op if the document already exists).
			if seed || cfg.IsDev() {
				if _, err := store.NewMetadata(a.docs, nil).SeedCategories(ctx); err != nil {
					slog.Warn("seeding categories failed", "error", err)
				}
			}

			handler, limiter, err := a.handler()
			if err != nil {
				return err
			}
			defer limiter.Stop()

			// Catalog requests fan out to storage probes, so the write
			// timeout leaves room for a cold cache.
			srv := &http.Server{
				Addr:         cfg.Addr(),
				Handler:      handler,
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 60 * time.Second,
				IdleTimeout:  120 * time.Second,
			}
			return serve(ctx, srv)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "write the default categories if none are stored")
	return cmd
}

// serve runs srv until ctx is done, then drains connections.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	slog.Info("server stopped gracefully")
	return nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/models"
)

// catalogKey is the Valkey key holding the serialized catalog. Bump the
// suffix when the cached shape changes.
const catalogKey = "catalog:v1"

// generationKey counts invalidations across all instances.
const generationKey = "catalog:gen"

var errStaleGeneration = errors.New("catalog generation changed")

// ConnectValkey creates a Valkey client and verifies the connection with a ping.
func ConnectValkey(host, port, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping: %w", err)
	}

	slog.Info("valkey connected", "addr", fmt.Sprintf("%s:%s", host, port))
	return client, nil
}

// Valkey shares the catalog cache across server instances. Errors degrade
// to cache misses.
type Valkey struct {
	client *redis.Client
	ttl    time.Duration
}

// NewValkey creates a Valkey-backed catalog cache. A zero ttl uses DefaultTTL.
func NewValkey(client *redis.Client, ttl time.Duration) *Valkey {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Valkey{client: client, ttl: ttl}
}

// Get loads and decodes the cached catalog.
func (v *Valkey) Get(ctx context.Context) (*models.Catalog, bool) {
	raw, err := v.client.Get(ctx, catalogKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("catalog cache get error", "error", err)
		return nil, false
	}
	var catalog models.Catalog
	if err := json.Unmarshal(raw, &catalog); err != nil {
		slog.Warn("catalog cache decode error", "error", err)
		return nil, false
	}
	return &catalog, true
}

// Set stores the catalog with the configured TTL.
func (v *Valkey) Set(ctx context.Context, catalog *models.Catalog) {
	raw, err := json.Marshal(catalog)
	if err != nil {
		slog.Warn("catalog cache encode error", "error", err)
		return
	}
	if err := v.client.Set(ctx, catalogKey, raw, v.ttl).Err(); err != nil {
		slog.Warn("catalog cache set error", "error", err)
	}
}

// Generation reads the shared invalidation counter. A missing key is 0.
func (v *Valkey) Generation(ctx context.Context) uint64 {
	gen, err := v.client.Get(ctx, generationKey).Uint64()
	if err != nil && !errors.Is(err, redis.Nil) {
		slog.Warn("catalog cache generation error", "error", err)
	}
	return gen
}

// SetIfGeneration stores the catalog in a WATCH transaction on the
// generation key, so an Invalidate from any instance aborts the write.
func (v *Valkey) SetIfGeneration(ctx context.Context, gen uint64, catalog *models.Catalog) bool {
	raw, err := json.Marshal(catalog)
	if err != nil {
		slog.Warn("catalog cache encode error", "error", err)
		return false
	}
	err = v.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, generationKey).Uint64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, catalogKey, raw, v.ttl)
			return nil
		})
		return err
	}, generationKey)
	switch {
	case err == nil:
		return true
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		return false
	default:
		slog.Warn("catalog cache set error", "error", err)
		return false
	}
}

// Invalidate advances the generation and deletes the cached catalog in one
// transaction.
func (v *Valkey) Invalidate(ctx context.Context) {
	_, err := v.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey)
		pipe.Del(ctx, catalogKey)
		return nil
	})
	if err != nil {
		slog.Warn("catalog cache invalidate error", "error", err)
		return
	}
	slog.Debug("catalog cache invalidated")
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cache holds the assembled catalog between requests so that a hit
// skips every storage listing and existence probe. Caches are explicit
// values passed to their users; there is no package-level state.
package cache

import (
	"context"
	"time"

	"storefront/internal/models"
)

// DefaultTTL is how long an assembled catalog stays fresh.
const DefaultTTL = 10 * time.Minute

// Invalidator is the write-side view of a cache. Metadata writes call it
// synchronously before reporting success.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Catalog caches the assembled product catalog.
//
// Every Invalidate advances a generation counter. A reader records
// Generation before it starts building, and SetIfGeneration stores the
// result only when no invalidation happened in between, so a catalog built
// from metadata older than a finished write is never cached.
type Catalog interface {
	Invalidator
	Get(ctx context.Context) (*models.Catalog, bool)
	Set(ctx context.Context, catalog *models.Catalog)
	Generation(ctx context.Context) uint64
	SetIfGeneration(ctx context.Context, gen uint64, catalog *models.Catalog) bool
}

// None is a Catalog that never stores anything.
type None struct{}

func (None) Get(context.Context) (*models.Catalog, bool) { return nil, false }
func (None) Set(context.Context, *models.Catalog)         {}
func (None) Invalidate(context.Context)                   {}
func (None) Generation(context.Context) uint64            { return 0 }

func (None) SetIfGeneration(context.Context, uint64, *models.Catalog) bool { return false }

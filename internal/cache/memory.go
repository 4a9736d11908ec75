// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"storefront/internal/models"
)

// Memory is an in-process catalog cache with a fixed TTL.
type Memory struct {
	mu        sync.RWMutex
	entry     *models.Catalog
	fetchedAt time.Time
	gen       uint64
	ttl       time.Duration
	now       func() time.Time
}

// NewMemory creates an empty cache. A zero ttl uses DefaultTTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{ttl: ttl, now: time.Now}
}

// Get returns the cached catalog if it is younger than the TTL.
func (m *Memory) Get(_ context.Context) (*models.Catalog, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.entry == nil || m.now().Sub(m.fetchedAt) >= m.ttl {
		return nil, false
	}
	return m.entry, true
}

// Set stores catalog and restarts the TTL.
func (m *Memory) Set(_ context.Context, catalog *models.Catalog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry = catalog
	m.fetchedAt = m.now()
}

// Generation returns the number of invalidations so far.
func (m *Memory) Generation(_ context.Context) uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gen
}

// SetIfGeneration stores catalog only if gen is still current.
func (m *Memory) SetIfGeneration(_ context.Context, gen uint64, catalog *models.Catalog) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		return false
	}
	m.entry = catalog
	m.fetchedAt = m.now()
	return true
}

// Invalidate drops the cached catalog and advances the generation.
func (m *Memory) Invalidate(_ context.Context) {
	m.mu.Lock()
	m.entry = nil
	m.gen++
	m.mu.Unlock()
	slog.Debug("catalog cache invalidated")
}

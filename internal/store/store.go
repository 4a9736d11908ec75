// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store owns the two metadata documents: the category list and the
// carousel slide list. No other package reads or writes them directly.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"storefront/internal/cache"
	"storefront/internal/docstore"
)

// Fixed document paths inside the bucket.
const (
	MetadataPrefix = "_metadata/"
	CategoriesPath = MetadataPrefix + "categories.json"
	CarouselPath   = MetadataPrefix + "carousel.json"
)

// maxUpdateAttempts bounds read-modify-write retries on version conflicts.
const maxUpdateAttempts = 3

// ErrConflict is returned by the Update helpers when every attempt lost a
// compare-and-swap race.
var ErrConflict = errors.New("store: concurrent metadata update")

// Metadata reads and writes the metadata documents through a docstore.
type Metadata struct {
	docs  docstore.Store
	cache cache.Invalidator
}

// NewMetadata creates a metadata repository. inv is invalidated after every
// successful category write; nil disables invalidation.
func NewMetadata(docs docstore.Store, inv cache.Invalidator) *Metadata {
	if inv == nil {
		inv = cache.None{}
	}
	return &Metadata{docs: docs, cache: inv}
}

// update runs a read-modify-write cycle on path. apply receives the stored
// body (nil when absent) and returns the body to write. With a versioned
// docstore a lost race is retried.
func (m *Metadata) update(ctx context.Context, path string, apply func(body []byte) ([]byte, error)) error {
	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		body, version, err := m.docs.Read(ctx, path)
		if err != nil && !errors.Is(err, docstore.ErrNotFound) {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if errors.Is(err, docstore.ErrNotFound) {
			body, version = nil, ""
		}

		next, err := apply(body)
		if err != nil {
			return err
		}

		err = m.docs.WriteIfVersion(ctx, path, next, version)
		if err == nil {
			return nil
		}
		if !errors.Is(err, docstore.ErrVersionConflict) {
			return fmt.Errorf("write %s: %w", path, err)
		}
		slog.Warn("metadata version conflict, retrying", "path", path, "attempt", attempt)
	}
	return fmt.Errorf("update %s: %w", path, ErrConflict)
}

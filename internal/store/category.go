// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"storefront/internal/docstore"
	"storefront/internal/models"
)

// LoadCategories returns the stored categories. When the document is
// missing the defaults are returned with a nil error. Any other failure
// returns the defaults together with the error.
func (m *Metadata) LoadCategories(ctx context.Context) ([]models.Category, error) {
	body, _, err := m.docs.Read(ctx, CategoriesPath)
	if errors.Is(err, docstore.ErrNotFound) {
		return models.DefaultCategories(), nil
	}
	if err != nil {
		return models.DefaultCategories(), fmt.Errorf("read categories: %w", err)
	}
	categories, err := decodeCategories(body)
	if err != nil {
		return models.DefaultCategories(), err
	}
	return categories, nil
}

// GetCategories returns the stored categories, or the defaults when the
// document cannot be read. It never fails.
func (m *Metadata) GetCategories(ctx context.Context) []models.Category {
	categories, err := m.LoadCategories(ctx)
	if err != nil {
		slog.Warn("categories unavailable, using defaults", "error", err)
	}
	return categories
}

// SaveCategories replaces the whole category document, ignoring what is
// stored, and invalidates the catalog cache before returning. It backs
// `storefront seed --reset`; edits go through UpdateCategories.
func (m *Metadata) SaveCategories(ctx context.Context, categories []models.Category) error {
	body, err := encode(categories)
	if err != nil {
		return err
	}
	_, version, err := m.docs.Read(ctx, CategoriesPath)
	if err != nil {
		version = ""
	}
	if err := m.docs.WriteIfVersion(ctx, CategoriesPath, body, version); err != nil {
		return fmt.Errorf("save categories: %w", err)
	}
	m.cache.Invalidate(ctx)
	return nil
}

// UpdateCategories applies fn to the current category list and persists the
// result. When the document does not exist fn receives the defaults. An
// error from fn aborts the update and is returned unchanged.
func (m *Metadata) UpdateCategories(ctx context.Context, fn func([]models.Category) ([]models.Category, error)) error {
	err := m.update(ctx, CategoriesPath, func(body []byte) ([]byte, error) {
		current := models.DefaultCategories()
		if body != nil {
			decoded, err := decodeCategories(body)
			if err != nil {
				slog.Warn("categories unreadable, starting from defaults", "error", err)
			} else {
				current = decoded
			}
		}
		next, err := fn(current)
		if err != nil {
			return nil, err
		}
		return encode(next)
	})
	if err != nil {
		return err
	}
	m.cache.Invalidate(ctx)
	return nil
}

// SeedCategories writes the default categories if no document exists yet.
// It reports whether a document was written.
func (m *Metadata) SeedCategories(ctx context.Context) (bool, error) {
	_, _, err := m.docs.Read(ctx, CategoriesPath)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return false, fmt.Errorf("read categories: %w", err)
	}
	body, err := encode(models.DefaultCategories())
	if err != nil {
		return false, err
	}
	if err := m.docs.WriteIfVersion(ctx, CategoriesPath, body, ""); err != nil {
		if errors.Is(err, docstore.ErrVersionConflict) {
			return false, nil
		}
		return false, fmt.Errorf("seed categories: %w", err)
	}
	m.cache.Invalidate(ctx)
	return true, nil
}

func decodeCategories(body []byte) ([]models.Category, error) {
	var categories []models.Category
	if err := json.Unmarshal(body, &categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

func encode(v any) ([]byte, error) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return body, nil
}

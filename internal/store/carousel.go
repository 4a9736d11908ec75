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

// GetCarouselSlides returns the stored slides sorted by order. A missing or
// unreadable document yields an empty list.
func (m *Metadata) GetCarouselSlides(ctx context.Context) []models.CarouselSlide {
	body, _, err := m.docs.Read(ctx, CarouselPath)
	if errors.Is(err, docstore.ErrNotFound) {
		return []models.CarouselSlide{}
	}
	if err != nil {
		slog.Warn("carousel unavailable", "error", err)
		return []models.CarouselSlide{}
	}
	slides, err := decodeSlides(body)
	if err != nil {
		slog.Warn("carousel unreadable", "error", err)
		return []models.CarouselSlide{}
	}
	models.SortSlides(slides)
	return slides
}

// SaveCarouselSlides replaces the whole carousel document, ignoring what is
// stored. It backs `storefront seed --reset`; edits go through
// UpdateCarouselSlides.
func (m *Metadata) SaveCarouselSlides(ctx context.Context, slides []models.CarouselSlide) error {
	body, err := encode(slides)
	if err != nil {
		return err
	}
	_, version, err := m.docs.Read(ctx, CarouselPath)
	if err != nil {
		version = ""
	}
	if err := m.docs.WriteIfVersion(ctx, CarouselPath, body, version); err != nil {
		return fmt.Errorf("save carousel: %w", err)
	}
	return nil
}

// UpdateCarouselSlides applies fn to the current slides, sorted by order,
// and persists the result.
func (m *Metadata) UpdateCarouselSlides(ctx context.Context, fn func([]models.CarouselSlide) ([]models.CarouselSlide, error)) error {
	return m.update(ctx, CarouselPath, func(body []byte) ([]byte, error) {
		current := []models.CarouselSlide{}
		if body != nil {
			decoded, err := decodeSlides(body)
			if err != nil {
				slog.Warn("carousel unreadable, starting empty", "error", err)
			} else {
				current = decoded
			}
		}
		models.SortSlides(current)
		next, err := fn(current)
		if err != nil {
			return nil, err
		}
		return encode(next)
	})
}

func decodeSlides(body []byte) ([]models.CarouselSlide, error) {
	var slides []models.CarouselSlide
	if err := json.Unmarshal(body, &slides); err != nil {
		return nil, fmt.Errorf("decode carousel: %w", err)
	}
	if slides == nil {
		slides = []models.CarouselSlide{}
	}
	return slides, nil
}

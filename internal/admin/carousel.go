// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package admin

import (
	"context"
	"log/slog"
	"strings"

	"storefront/internal/apperr"
	"storefront/internal/models"
)

// UpsertCarouselSlide saves a slide. When f is set it is uploaded first and
// becomes the slide image. A slide whose id is already stored is merged
// field by field; otherwise it gets a fresh timestamp id and goes last.
func (s *Service) UpsertCarouselSlide(ctx context.Context, in models.SlideInput, f *Upload) (models.CarouselSlide, error) {
	if err := s.validate.Struct(in); err != nil {
		return models.CarouselSlide{}, firstValidationError(err)
	}

	var uploaded *Stored
	if f != nil {
		stored, err := s.put(ctx, carouselPrefix, *f)
		if err != nil {
			return models.CarouselSlide{}, err
		}
		uploaded = &stored
		in.Image = &stored.URL
	}

	var saved models.CarouselSlide
	err := s.meta.UpdateCarouselSlides(ctx, func(slides []models.CarouselSlide) ([]models.CarouselSlide, error) {
		if in.ID != nil && *in.ID != "" {
			for i := range slides {
				if slides[i].ID == *in.ID {
					slides[i].Apply(in)
					saved = slides[i]
					return slides, nil
				}
			}
		}

		if in.Image == nil || strings.TrimSpace(*in.Image) == "" {
			return nil, apperr.Validation("Slide image is required")
		}
		slide := models.CarouselSlide{}
		slide.Apply(in)
		slide.ID = s.timestamp()
		slide.Order = len(slides)
		saved = slide
		return append(slides, slide), nil
	})
	if err != nil {
		if uploaded != nil {
			s.removeImage(ctx, uploaded.Key)
		}
		return models.CarouselSlide{}, metadataErr("Failed to save slide", err)
	}
	slog.Info("carousel slide saved", "slide", saved.ID)
	return saved, nil
}

// ReorderCarouselSlides persists the complete slide list in the submitted
// order. Each slide's order is rewritten to its position.
func (s *Service) ReorderCarouselSlides(ctx context.Context, slides []models.CarouselSlide) ([]models.CarouselSlide, error) {
	seen := make(map[string]bool, len(slides))
	ordered := make([]models.CarouselSlide, len(slides))
	for i, slide := range slides {
		if slide.ID == "" {
			return nil, apperr.Validation("Every slide needs an id")
		}
		if seen[slide.ID] {
			return nil, apperr.Validation("Duplicate slide id " + slide.ID)
		}
		seen[slide.ID] = true
		slide.Order = i
		ordered[i] = slide
	}

	err := s.meta.UpdateCarouselSlides(ctx, func([]models.CarouselSlide) ([]models.CarouselSlide, error) {
		return ordered, nil
	})
	if err != nil {
		return nil, metadataErr("Failed to reorder slides", err)
	}
	slog.Info("carousel reordered", "slides", len(ordered))
	return ordered, nil
}

// DeleteCarouselSlide removes a slide, then deletes its image when the
// image lives in this bucket's carousel folder. Image deletion failures are
// logged only.
func (s *Service) DeleteCarouselSlide(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperr.Validation("Slide ID is required")
	}

	var removed models.CarouselSlide
	err := s.meta.UpdateCarouselSlides(ctx, func(slides []models.CarouselSlide) ([]models.CarouselSlide, error) {
		for i := range slides {
			if slides[i].ID == id {
				removed = slides[i]
				return append(slides[:i:i], slides[i+1:]...), nil
			}
		}
		return nil, apperr.NotFound("Slide not found")
	})
	if err != nil {
		return metadataErr("Failed to delete slide", err)
	}

	key, ok := s.objects.KeyFromURL(removed.Image)
	if !ok || !strings.HasPrefix(key, carouselPrefix) {
		slog.Warn("slide image outside carousel folder, not deleted", "slide", id, "image", removed.Image)
	} else {
		s.removeImage(ctx, key)
	}
	slog.Info("carousel slide deleted", "slide", id)
	return nil
}

// removeImage deletes key, logging failures.
func (s *Service) removeImage(ctx context.Context, key string) {
	if err := s.objects.Delete(ctx, key); err != nil {
		slog.Warn("image delete failed", "key", key, "error", err)
	}
}

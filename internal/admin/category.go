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
	"storefront/internal/slug"
)

type categoryInput struct {
	ID    string `validate:"required,max=64"`
	Label string `validate:"required,max=120"`
}

// AddCategory appends a category. The id is normalized to a slug.
func (s *Service) AddCategory(ctx context.Context, id, label string) (models.Category, error) {
	in := categoryInput{ID: slug.Generate(id), Label: strings.TrimSpace(label)}
	if in.ID == "" || in.Label == "" {
		return models.Category{}, apperr.Validation("Category ID and label are required")
	}
	if err := s.validate.Struct(in); err != nil {
		return models.Category{}, firstValidationError(err)
	}

	added := models.Category{ID: in.ID, Label: in.Label}
	err := s.meta.UpdateCategories(ctx, func(categories []models.Category) ([]models.Category, error) {
		if models.FindCategory(categories, added.ID) >= 0 {
			return nil, apperr.Conflict("Category already exists")
		}
		return append(categories, added), nil
	})
	if err != nil {
		return models.Category{}, metadataErr("Failed to save category", err)
	}
	slog.Info("category added", "category", added.ID)
	return added, nil
}

// DeleteCategory removes a category entry. Its images stay in storage.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperr.Validation("Category ID is required")
	}
	err := s.meta.UpdateCategories(ctx, func(categories []models.Category) ([]models.Category, error) {
		i := models.FindCategory(categories, id)
		if i < 0 {
			return nil, apperr.NotFound("Category not found")
		}
		return append(categories[:i:i], categories[i+1:]...), nil
	})
	if err != nil {
		return metadataErr("Failed to delete category", err)
	}
	slog.Info("category deleted", "category", id)
	return nil
}

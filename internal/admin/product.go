// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package admin

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/storage"
	"storefront/internal/store"
)

// UploadProductImage stores f in the folder of a known category. Content
// type and size are not checked.
func (s *Service) UploadProductImage(ctx context.Context, f Upload, categoryID string) (Stored, error) {
	categoryID = strings.TrimSpace(categoryID)
	if models.FindCategory(s.meta.GetCategories(ctx), categoryID) < 0 {
		return Stored{}, apperr.Validation("Invalid category")
	}
	stored, err := s.put(ctx, categoryID+"/", f)
	if err != nil {
		return Stored{}, err
	}
	s.cache.Invalidate(ctx)
	return stored, nil
}

// DeleteProductImage deletes one image given its storage path or its full
// public URL.
func (s *Service) DeleteProductImage(ctx context.Context, pathOrURL string) error {
	key, err := s.imageKey(pathOrURL)
	if err != nil {
		return err
	}

	if _, err := s.objects.Stat(ctx, key); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("Image not found")
		}
		return apperr.Upstream("Failed to delete image", err)
	}
	if err := s.objects.Delete(ctx, key); err != nil {
		return apperr.Upstream("Failed to delete image", err)
	}
	s.cache.Invalidate(ctx)
	slog.Info("product image deleted", "key", key)
	return nil
}

// imageKey converts a path or public URL into a product image key. URLs
// from another origin, escaping paths and metadata documents are rejected.
func (s *Service) imageKey(pathOrURL string) (string, error) {
	raw := strings.TrimSpace(pathOrURL)
	if raw == "" {
		return "", apperr.Validation("Image path is required")
	}

	key := raw
	if strings.Contains(raw, "://") {
		k, ok := s.objects.KeyFromURL(raw)
		if !ok {
			return "", apperr.Validation("Image URL does not belong to this bucket")
		}
		key = k
	}

	if strings.HasPrefix(key, "/") || !strings.Contains(key, "/") || strings.HasSuffix(key, "/") {
		return "", apperr.Validation("Invalid image path")
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", apperr.Validation("Invalid image path")
		}
	}
	if strings.HasPrefix(key, store.MetadataPrefix) {
		return "", apperr.Validation("Invalid image path")
	}
	return key, nil
}

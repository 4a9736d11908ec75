// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package admin implements the validated write operations behind the admin
// dashboard: categories, product images and carousel slides. Callers are
// expected to have checked the admin session already.
package admin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"storefront/internal/apperr"
	"storefront/internal/cache"
	"storefront/internal/models"
	"storefront/internal/storage"
	"storefront/internal/store"
)

// carouselPrefix is the folder holding uploaded slide images.
const carouselPrefix = "carousel/"

// Metadata is the subset of the metadata repository the mutator needs.
type Metadata interface {
	GetCategories(ctx context.Context) []models.Category
	UpdateCategories(ctx context.Context, fn func([]models.Category) ([]models.Category, error)) error
	UpdateCarouselSlides(ctx context.Context, fn func([]models.CarouselSlide) ([]models.CarouselSlide, error)) error
}

// Upload is a file received from the admin form.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Stored describes an uploaded object.
type Stored struct {
	Key string `json:"path"`
	URL string `json:"url"`
}

// Service performs admin mutations.
type Service struct {
	meta     Metadata
	objects  storage.Store
	cache    cache.Invalidator
	validate *validator.Validate
	now      func() time.Time
}

// NewService creates the mutator. inv is invalidated after image uploads
// and deletes; category writes are invalidated by the metadata repository.
func NewService(meta Metadata, objects storage.Store, inv cache.Invalidator) *Service {
	if inv == nil {
		inv = cache.None{}
	}
	return &Service{
		meta:     meta,
		objects:  objects,
		cache:    inv,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}
}

// timestamp returns the current time in Unix milliseconds as used in keys
// and slide ids.
func (s *Service) timestamp() string {
	return strconv.FormatInt(s.now().UnixMilli(), 10)
}

// put uploads f under prefix with a timestamped name.
func (s *Service) put(ctx context.Context, prefix string, f Upload) (Stored, error) {
	name := baseName(f.Filename)
	if name == "" || f.Body == nil {
		return Stored{}, apperr.Validation("File is required")
	}
	key := prefix + s.timestamp() + "-" + name
	obj, err := s.objects.Upload(ctx, key, f.Body, f.Size, storage.UploadOptions{ContentType: f.ContentType})
	if err != nil {
		return Stored{}, apperr.Upstream("Failed to upload file", err)
	}
	slog.Info("file uploaded", "key", obj.Key, "size", f.Size)
	return Stored{Key: key, URL: s.objects.PublicURL(key)}, nil
}

// baseName strips any client-side directory from a filename.
func baseName(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// metadataErr keeps taxonomy errors raised inside an update callback and
// wraps anything else as a storage failure.
func metadataErr(msg string, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, store.ErrConflict) {
		return apperr.Conflict("The data was changed by someone else, please retry")
	}
	return apperr.Upstream(msg, err)
}

// firstValidationError turns a validator error into a client message.
func firstValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return apperr.Validation(fe.Field() + " is required")
		case "max":
			return apperr.Validation(fe.Field() + " must be at most " + fe.Param() + " characters")
		case "min":
			return apperr.Validation(fe.Field() + " must be at least " + fe.Param())
		}
		return apperr.Validation(fe.Field() + " is invalid")
	}
	return apperr.Validation("Invalid input")
}

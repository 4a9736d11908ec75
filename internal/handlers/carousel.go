// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/admin"
	"storefront/internal/apperr"
	"storefront/internal/models"
)

// SlideSource lists carousel slides.
type SlideSource interface {
	GetCarouselSlides(ctx context.Context) []models.CarouselSlide
}

// Carousel serves /api/carousel.
type Carousel struct {
	slides SlideSource
	admin  *admin.Service
}

// NewCarousel creates the carousel handler group.
func NewCarousel(slides SlideSource, svc *admin.Service) *Carousel {
	return &Carousel{slides: slides, admin: svc}
}

type slidesResponse struct {
	Slides []models.CarouselSlide `json:"slides"`
}

type slideResponse struct {
	Success bool                 `json:"success"`
	Slide   models.CarouselSlide `json:"slide"`
}

type reorderResponse struct {
	Success bool                   `json:"success"`
	Slides  []models.CarouselSlide `json:"slides"`
}

// List returns the slides sorted by order.
func (h *Carousel) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, slidesResponse{Slides: h.slides.GetCarouselSlides(r.Context())})
}

// Save reorders the slides (action=update-order with a slides JSON array)
// or upserts one slide (slideData JSON plus an optional file).
func (h *Carousel) Save(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeError(w, r, apperr.Validation("Invalid form data"))
		return
	}

	if r.FormValue("action") == "update-order" {
		var slides []models.CarouselSlide
		if err := json.Unmarshal([]byte(r.FormValue("slides")), &slides); err != nil {
			writeError(w, r, apperr.Validation("Invalid slides"))
			return
		}
		ordered, err := h.admin.ReorderCarouselSlides(r.Context(), slides)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, reorderResponse{Success: true, Slides: ordered})
		return
	}

	raw := r.FormValue("slideData")
	if raw == "" {
		writeError(w, r, apperr.Validation("Missing slide data"))
		return
	}
	var in models.SlideInput
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		writeError(w, r, apperr.Validation("Invalid slide data"))
		return
	}

	upload, closeFile, err := optionalFile(r, "file")
	if err != nil {
		writeError(w, r, apperr.Validation("Invalid file"))
		return
	}
	defer closeFile()

	slide, err := h.admin.UpsertCarouselSlide(r.Context(), in, upload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, slideResponse{Success: true, Slide: slide})
}

// Delete removes the slide named by ?id=.
func (h *Carousel) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, r, apperr.Validation("Missing slide ID"))
		return
	}
	if err := h.admin.DeleteCarouselSlide(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// optionalFile returns the uploaded file in field, or nil when none was
// sent. The returned func closes the file.
func optionalFile(r *http.Request, field string) (*admin.Upload, func(), error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}
	if header.Size == 0 && header.Filename == "" {
		file.Close()
		return nil, func() {}, nil
	}
	return &admin.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, func() { file.Close() }, nil
}

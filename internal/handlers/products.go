// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"storefront/internal/admin"
	"storefront/internal/apperr"
	"storefront/internal/models"
)

// CatalogSource assembles the product catalog.
type CatalogSource interface {
	Catalog(ctx context.Context) (*models.Catalog, error)
}

// Products serves /api/products.
type Products struct {
	catalog CatalogSource
	admin   *admin.Service
}

// NewProducts creates the products handler group.
func NewProducts(catalog CatalogSource, svc *admin.Service) *Products {
	return &Products{catalog: catalog, admin: svc}
}

type catalogErrorResponse struct {
	Error      string            `json:"error"`
	Products   []models.Product  `json:"products"`
	Categories []models.Category `json:"categories"`
}

// List returns every product and category.
func (h *Products) List(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.catalog.Catalog(r.Context())
	if err != nil {
		status := apperr.StatusOf(err)
		logError(r, status, err)
		writeJSON(w, status, catalogErrorResponse{
			Error:      apperr.MessageOf(err),
			Products:   []models.Product{},
			Categories: []models.Category{},
		})
		return
	}
	writeJSON(w, http.StatusOK, catalog)
}

type categoryRequest struct {
	Action string `json:"action"`
	ID     string `json:"id"`
	Label  string `json:"label"`
}

type addCategoryResponse struct {
	Success  bool            `json:"success"`
	Category models.Category `json:"category"`
}

type uploadResponse struct {
	Success bool `json:"success"`
	admin.Stored
}

// Create adds a category (action=add-category) or uploads a product image
// (multipart file + category).
func (h *Products) Create(w http.ResponseWriter, r *http.Request) {
	if isJSON(r) {
		var req categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, apperr.Validation("Invalid request body"))
			return
		}
		h.addCategory(w, r, req)
		return
	}

	if err := parseForm(r); err != nil {
		writeError(w, r, apperr.Validation("Invalid form data"))
		return
	}
	if r.FormValue("action") == "add-category" {
		h.addCategory(w, r, categoryRequest{
			Action: "add-category",
			ID:     r.FormValue("id"),
			Label:  r.FormValue("label"),
		})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, apperr.Validation("Missing file or category"))
		return
	}
	defer file.Close()

	stored, err := h.admin.UploadProductImage(r.Context(), admin.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, r.FormValue("category"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{Success: true, Stored: stored})
}

func (h *Products) addCategory(w http.ResponseWriter, r *http.Request, req categoryRequest) {
	if req.Action != "add-category" {
		writeError(w, r, apperr.Validation("Unknown action"))
		return
	}
	added, err := h.admin.AddCategory(r.Context(), req.ID, req.Label)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, addCategoryResponse{Success: true, Category: added})
}

// Delete removes a product image (?path=) or a category (?categoryId=).
func (h *Products) Delete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var err error
	switch {
	case q.Get("path") != "":
		err = h.admin.DeleteProductImage(r.Context(), q.Get("path"))
	case q.Get("categoryId") != "":
		err = h.admin.DeleteCategory(r.Context(), q.Get("categoryId"))
	default:
		err = apperr.Validation("Missing path or categoryId")
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/apperr"
	"storefront/internal/auth"
)

// Auth handles admin login, logout and session checks.
type Auth struct {
	gate *auth.Gate
}

// NewAuth creates the auth handler group.
func NewAuth(gate *auth.Gate) *Auth {
	return &Auth{gate: gate}
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type sessionResponse struct {
	Authenticated bool `json:"authenticated"`
}

// Login checks the shared password from a JSON or form body and sets the
// session cookie.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, loginResponse{Error: "Invalid request body"})
			return
		}
	} else {
		if err := parseForm(r); err != nil {
			writeJSON(w, http.StatusBadRequest, loginResponse{Error: "Invalid form data"})
			return
		}
		req.Password = r.FormValue("password")
	}

	if err := h.gate.Login(r.Context(), w, req.Password); err != nil {
		status := apperr.StatusOf(err)
		if !errors.Is(err, apperr.ErrUnauthorized) {
			logError(r, status, err)
		}
		writeJSON(w, status, loginResponse{Error: apperr.MessageOf(err)})
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Success: true})
}

// Logout clears the session cookie.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	h.gate.Logout(r.Context(), w, r)
	writeJSON(w, http.StatusOK, loginResponse{Success: true})
}

// Session reports whether the caller holds a valid admin session.
func (h *Auth) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionResponse{Authenticated: h.gate.Authenticated(r)})
}

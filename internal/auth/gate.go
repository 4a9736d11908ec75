// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"storefront/internal/apperr"
)

const (
	// CookieName is the admin session cookie.
	CookieName = "admin_session"

	// SessionTTL is the cookie lifetime.
	SessionTTL = 24 * time.Hour
)

// Gate checks the admin password, sets and clears the session cookie and
// answers whether a request carries a valid session.
type Gate struct {
	password *Password
	port     Port
	secure   bool
}

// NewGate creates a gate. secure marks the cookie Secure, which production
// deployments behind TLS need.
func NewGate(password *Password, port Port, secure bool) *Gate {
	if port == nil {
		port = StaticPort{}
	}
	return &Gate{password: password, port: port, secure: secure}
}

// Login checks password and, on success, sets the session cookie.
func (g *Gate) Login(ctx context.Context, w http.ResponseWriter, password string) error {
	if !g.password.Matches(password) {
		slog.Warn("admin login rejected")
		return apperr.Unauthorized("Invalid password")
	}
	token, err := g.port.Issue(ctx)
	if err != nil {
		return apperr.Upstream("Login failed", err)
	}
	http.SetCookie(w, g.cookie(token, int(SessionTTL.Seconds())))
	slog.Info("admin logged in")
	return nil
}

// Logout revokes the session, if any, and expires the cookie.
func (g *Gate) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(CookieName); err == nil {
		if err := g.port.Revoke(ctx, c.Value); err != nil {
			slog.Warn("session revoke failed", "error", err)
		}
	}
	http.SetCookie(w, g.cookie("", -1))
}

// Authenticated reports whether r carries a valid admin session.
func (g *Gate) Authenticated(r *http.Request) bool {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return false
	}
	return g.port.Validate(r.Context(), c.Value)
}

func (g *Gate) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

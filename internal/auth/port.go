// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth gates the admin API behind a single shared password. The
// session token handed to the browser comes from a Port, so the fixed
// legacy cookie can be swapped for revocable tokens without touching the
// handlers.
package auth

import "context"

// Port issues and checks admin session tokens.
type Port interface {
	Issue(ctx context.Context) (string, error)
	Validate(ctx context.Context, token string) bool
	Revoke(ctx context.Context, token string) error
}

// staticToken is the cookie value of the legacy shared-capability session.
const staticToken = "true"

// StaticPort hands every admin the same fixed token. Tokens cannot be
// revoked server-side; logout only clears the cookie.
type StaticPort struct{}

func (StaticPort) Issue(context.Context) (string, error) { return staticToken, nil }

func (StaticPort) Validate(_ context.Context, token string) bool { return token == staticToken }

func (StaticPort) Revoke(context.Context, string) error { return nil }

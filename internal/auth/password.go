// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrNoPassword is returned when neither a password nor a hash is configured.
var ErrNoPassword = errors.New("auth: admin password not configured")

// Password checks login attempts against the configured secret, either a
// bcrypt hash or a plain value.
type Password struct {
	plain []byte
	hash  []byte
}

// NewPassword builds a checker. A non-empty hash takes precedence over plain
// and must be a valid bcrypt hash.
func NewPassword(plain, hash string) (*Password, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("admin password hash: %w", err)
		}
		return &Password{hash: []byte(hash)}, nil
	}
	if plain == "" {
		return nil, ErrNoPassword
	}
	return &Password{plain: []byte(plain)}, nil
}

// Matches reports whether candidate is the admin password.
func (p *Password) Matches(candidate string) bool {
	if p.hash != nil {
		return bcrypt.CompareHashAndPassword(p.hash, []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare(p.plain, []byte(candidate)) == 1
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the storefront's error taxonomy. Each error carries
// a Code that maps to an HTTP status, a client-safe message, and an optional
// cause that is logged but never sent to the client.
//
//	if errors.Is(err, apperr.ErrConflict) { ... }
//
//	var e *apperr.Error
//	if errors.As(err, &e) {
//	    status := e.HTTPStatus()
//	}
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error category.
type Code string

const (
	CodeValidation      Code = "VALIDATION"
	CodeConflict        Code = "CONFLICT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeUpstreamStorage Code = "UPSTREAM_STORAGE"
)

// HTTPStatus returns the status code used for this category. Conflicts are
// reported as 400 to match what the admin dashboard expects.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation, CodeConflict:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is a categorized error with a client-safe message.
type Error struct {
	Code    Code
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// Sentinels for errors.Is.
var (
	ErrValidation      = &Error{Code: CodeValidation, Message: "invalid input"}
	ErrConflict        = &Error{Code: CodeConflict, Message: "conflict"}
	ErrNotFound        = &Error{Code: CodeNotFound, Message: "not found"}
	ErrUnauthorized    = &Error{Code: CodeUnauthorized, Message: "Unauthorized"}
	ErrUpstreamStorage = &Error{Code: CodeUpstreamStorage, Message: "storage failure"}
)

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Conflict creates a conflict error.
func Conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *Error {
	return &Error{Code: CodeUnauthorized, Message: msg}
}

// Upstream wraps a storage failure. msg is shown to the client; cause is not.
func Upstream(msg string, cause error) *Error {
	return &Error{Code: CodeUpstreamStorage, Message: msg, cause: cause}
}

// StatusOf returns the HTTP status for err, defaulting to 500 for errors
// outside the taxonomy.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// MessageOf returns the client-safe message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}

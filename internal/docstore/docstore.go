// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package docstore stores whole JSON documents with a version tag so that
// read-modify-write cycles can be made safe with compare-and-swap.
//
// Legacy keeps the historical last-write-wins behavior on object storage.
// Blob uses object ETags with conditional writes. SQL keeps documents in a
// Postgres or SQLite table with an integer version column.
package docstore

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Read when the document does not exist yet.
	ErrNotFound = errors.New("docstore: document not found")

	// ErrVersionConflict is returned by WriteIfVersion when the stored
	// version no longer matches the expected one.
	ErrVersionConflict = errors.New("docstore: version conflict")
)

// Version identifies one revision of a document. The empty Version means
// the document does not exist.
type Version string

// Store reads and conditionally writes whole documents by path.
type Store interface {
	// Read returns the document body and its current version.
	Read(ctx context.Context, path string) ([]byte, Version, error)

	// WriteIfVersion replaces the document only if its current version
	// equals expected. Adapters without versioning ignore expected.
	WriteIfVersion(ctx context.Context, path string, body []byte, expected Version) error

	// Versioned reports whether WriteIfVersion actually enforces expected.
	Versioned() bool
}

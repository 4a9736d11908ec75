// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package docstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"storefront/internal/storage"
)

const jsonContentType = "application/json"

// Blob keeps documents as objects in the bucket and uses the object ETag as
// the version. With cas disabled it behaves like the legacy upsert: last
// write wins and concurrent admin edits can overwrite each other.
type Blob struct {
	objects storage.Store
	cas     bool
}

// NewBlob returns a compare-and-swap store. The gateway must support S3
// conditional writes (If-Match / If-None-Match).
func NewBlob(objects storage.Store) *Blob {
	return &Blob{objects: objects, cas: true}
}

// NewLegacy returns the unversioned upsert store.
func NewLegacy(objects storage.Store) *Blob {
	return &Blob{objects: objects}
}

// Read downloads the document.
func (b *Blob) Read(ctx context.Context, path string) ([]byte, Version, error) {
	data, obj, err := b.objects.Download(ctx, path)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "", fmt.Errorf("read %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	return data, Version(obj.ETag), nil
}

// WriteIfVersion uploads the document, conditionally when cas is enabled.
func (b *Blob) WriteIfVersion(ctx context.Context, path string, body []byte, expected Version) error {
	opts := storage.UploadOptions{ContentType: jsonContentType}
	if b.cas {
		if expected == "" {
			opts.IfNoneMatch = "*"
		} else {
			opts.IfMatch = string(expected)
		}
	}

	_, err := b.objects.Upload(ctx, path, bytes.NewReader(body), int64(len(body)), opts)
	if errors.Is(err, storage.ErrPreconditionFailed) {
		return fmt.Errorf("write %s: %w", path, ErrVersionConflict)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Versioned reports whether conditional writes are enabled.
func (b *Blob) Versioned() bool {
	return b.cas
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides the object storage client used for product
// images, carousel images and the metadata documents. The S3 implementation
// talks to any S3-compatible gateway (Supabase Storage, MinIO, CEPH); the
// memory implementation backs tests and local development.
package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when the requested object does not exist.
	ErrNotFound = errors.New("storage: object not found")

	// ErrPreconditionFailed is returned when a conditional write loses
	// against a concurrent writer.
	ErrPreconditionFailed = errors.New("storage: precondition failed")
)

// DirectoryContentType is the content type some gateways report for folder
// marker objects.
const DirectoryContentType = "application/x-directory"

// Object describes a stored object or a folder returned by a listing.
type Object struct {
	Key          string    // full key inside the bucket
	Name         string    // key relative to the listed prefix
	ID           string    // storage-assigned identity, if any
	ETag         string    // version tag used for conditional writes
	ContentType  string
	Size         int64
	IsDir        bool
	LastModified time.Time
}

// UploadOptions controls an upload. IfMatch and IfNoneMatch map to the
// HTTP conditional headers; IfNoneMatch "*" means create-only.
type UploadOptions struct {
	ContentType string
	IfMatch     string
	IfNoneMatch string
}

// Store is the object storage surface the storefront depends on.
type Store interface {
	// Upload writes body under key, replacing any existing object unless a
	// condition in opts says otherwise.
	Upload(ctx context.Context, key string, body io.Reader, size int64, opts UploadOptions) (Object, error)

	// Download returns the whole object and its metadata.
	Download(ctx context.Context, key string) ([]byte, Object, error)

	// Stat returns object metadata without the body.
	Stat(ctx context.Context, key string) (Object, error)

	// List returns the direct children of prefix ordered by name ascending,
	// at most limit entries. Sub-folders are reported with IsDir set.
	List(ctx context.Context, prefix string, limit int) ([]Object, error)

	// Delete removes a single object.
	Delete(ctx context.Context, key string) error

	// PublicURL returns the anonymous download URL for key.
	PublicURL(key string) string

	// KeyFromURL reverses PublicURL. It returns false when rawURL does not
	// belong to this bucket.
	KeyFromURL(rawURL string) (string, bool)
}

// URLs builds and parses public object URLs for a bucket. bases[0] is used
// to build URLs; every base is accepted when parsing.
type URLs struct {
	bases []string
}

// NewURLs creates a URL helper. Empty bases are ignored and trailing
// slashes are stripped.
func NewURLs(base string, alternates ...string) URLs {
	var u URLs
	for _, b := range append([]string{base}, alternates...) {
		b = strings.TrimRight(b, "/")
		if b != "" {
			u.bases = append(u.bases, b)
		}
	}
	return u
}

// SupabasePublicBase returns the public object prefix Supabase Storage
// serves for a bucket.
func SupabasePublicBase(projectURL, bucket string) string {
	return strings.TrimRight(projectURL, "/") + "/storage/v1/object/public/" + bucket
}

// PublicURL returns the public URL for key, escaping each path segment.
func (u URLs) PublicURL(key string) string {
	if len(u.bases) == 0 {
		return ""
	}
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return u.bases[0] + "/" + strings.Join(segments, "/")
}

// KeyFromURL extracts the object key from a public URL. The query string
// and fragment are ignored.
func (u URLs) KeyFromURL(rawURL string) (string, bool) {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		rawURL = rawURL[:i]
	}
	for _, base := range u.bases {
		prefix := base + "/"
		if !strings.HasPrefix(rawURL, prefix) {
			continue
		}
		key, err := url.PathUnescape(rawURL[len(prefix):])
		if err != nil || key == "" {
			return "", false
		}
		return key, true
	}
	return "", false
}

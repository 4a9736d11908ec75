// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memObject struct {
	info Object
	data []byte
}

// Memory implements Store in process memory. It is used by tests and by the
// "memory" storage driver for local development.
type Memory struct {
	mu   sync.RWMutex
	objs map[string]memObject
	urls URLs
}

// NewMemory returns an empty in-memory store whose public URLs start with
// publicBase.
func NewMemory(publicBase string) *Memory {
	return &Memory{
		objs: make(map[string]memObject),
		urls: NewURLs(publicBase),
	}
}

// SetPublicBase changes the public URL prefix. Tests call it once the
// httptest server serving Handler is running.
func (m *Memory) SetPublicBase(publicBase string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.urls = NewURLs(publicBase)
}

// Upload stores a copy of body, honoring IfMatch and IfNoneMatch.
func (m *Memory) Upload(_ context.Context, key string, body io.Reader, _ int64, opts UploadOptions) (Object, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return Object{}, fmt.Errorf("memory upload %s: %w", key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.objs[key]
	if opts.IfNoneMatch == "*" && exists {
		return Object{}, fmt.Errorf("memory upload %s: %w", key, ErrPreconditionFailed)
	}
	if opts.IfMatch != "" && (!exists || existing.info.ETag != opts.IfMatch) {
		return Object{}, fmt.Errorf("memory upload %s: %w", key, ErrPreconditionFailed)
	}

	id := uuid.NewString()
	if exists {
		id = existing.info.ID
	}
	sum := md5.Sum(data)
	info := Object{
		Key:          key,
		Name:         key,
		ID:           id,
		ETag:         hex.EncodeToString(sum[:]),
		ContentType:  opts.ContentType,
		Size:         int64(len(data)),
		IsDir:        strings.HasSuffix(key, "/") || opts.ContentType == DirectoryContentType,
		LastModified: time.Now().UTC(),
	}
	m.objs[key] = memObject{info: info, data: data}
	return info, nil
}

// Download returns a copy of the stored bytes.
func (m *Memory) Download(_ context.Context, key string) ([]byte, Object, error) {
	m.mu.RLock()
	obj, ok := m.objs[key]
	m.mu.RUnlock()
	if !ok {
		return nil, Object{}, fmt.Errorf("memory download %s: %w", key, ErrNotFound)
	}
	data := make([]byte, len(obj.data))
	copy(data, obj.data)
	return data, obj.info, nil
}

// Stat returns object metadata.
func (m *Memory) Stat(_ context.Context, key string) (Object, error) {
	m.mu.RLock()
	obj, ok := m.objs[key]
	m.mu.RUnlock()
	if !ok {
		return Object{}, fmt.Errorf("memory stat %s: %w", key, ErrNotFound)
	}
	return obj.info, nil
}

// List returns the direct children of prefix, folders included.
func (m *Memory) List(_ context.Context, prefix string, limit int) ([]Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dirs := make(map[string]bool)
	var out []Object
	for key, obj := range m.objs {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := key[len(prefix):]
		if rest == "" {
			// Folder marker for prefix itself.
			info := obj.info
			info.IsDir = true
			out = append(out, info)
			continue
		}
		if i := strings.Index(rest, "/"); i >= 0 {
			name := rest[:i]
			if !dirs[name] {
				dirs[name] = true
				out = append(out, Object{Key: prefix + name + "/", Name: name, IsDir: true})
			}
			continue
		}
		info := obj.info
		info.Name = rest
		out = append(out, info)
	}

	sortByName(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes an object. Deleting a missing key is not an error, the same
// as S3.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objs, key)
	return nil
}

// PublicURL returns the public URL for key.
func (m *Memory) PublicURL(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.urls.PublicURL(key)
}

// KeyFromURL extracts the key from a public URL.
func (m *Memory) KeyFromURL(rawURL string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.urls.KeyFromURL(rawURL)
}

// Handler serves stored objects at /<key> for GET and HEAD, standing in for
// the public bucket endpoint.
func (m *Memory) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		key := strings.TrimPrefix(r.URL.Path, "/")
		data, info, err := m.Download(r.Context(), key)
		if err != nil || info.IsDir {
			http.NotFound(w, r)
			return
		}
		if info.ContentType != "" {
			w.Header().Set("Content-Type", info.ContentType)
		}
		w.Header().Set("ETag", "\""+info.ETag+"\"")
		http.ServeContent(w, r, key, info.LastModified, bytes.NewReader(data))
	})
}

func sortByName(objects []Object) {
	sort.Slice(objects, func(i, j int) bool { return objects[i].Name < objects[j].Name })
}

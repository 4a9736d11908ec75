// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func put(t *testing.T, m *Memory, key, body string) Object {
	t.Helper()
	obj, err := m.Upload(context.Background(), key, strings.NewReader(body), int64(len(body)), UploadOptions{ContentType: "image/jpeg"})
	require.NoError(t, err)
	return obj
}

func TestMemoryListDirectChildren(t *testing.T) {
	m := NewMemory("https://cdn.test/public/corporate")
	put(t, m, "army/2.jpg", "b")
	put(t, m, "army/1.jpg", "a")
	put(t, m, "army/nested/3.jpg", "c")
	put(t, m, "police/1.jpg", "d")

	objs, err := m.List(context.Background(), "army/", 100)
	require.NoError(t, err)
	require.Len(t, objs, 3)

	assert.Equal(t, "1.jpg", objs[0].Name)
	assert.Equal(t, "2.jpg", objs[1].Name)
	assert.Equal(t, "nested", objs[2].Name)
	assert.True(t, objs[2].IsDir)
	assert.False(t, objs[0].IsDir)
	assert.NotEmpty(t, objs[0].ID)
}

func TestMemoryListLimit(t *testing.T) {
	m := NewMemory("")
	for _, k := range []string{"c/a", "c/b", "c/c"} {
		put(t, m, k, "x")
	}
	objs, err := m.List(context.Background(), "c/", 2)
	require.NoError(t, err)
	assert.Len(t, objs, 2)
}

func TestMemoryConditionalUpload(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("")

	first, err := m.Upload(ctx, "_metadata/doc.json", strings.NewReader("[]"), 2, UploadOptions{IfNoneMatch: "*"})
	require.NoError(t, err)

	_, err = m.Upload(ctx, "_metadata/doc.json", strings.NewReader("[1]"), 3, UploadOptions{IfNoneMatch: "*"})
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	second, err := m.Upload(ctx, "_metadata/doc.json", strings.NewReader("[1]"), 3, UploadOptions{IfMatch: first.ETag})
	require.NoError(t, err)
	assert.NotEqual(t, first.ETag, second.ETag)
	assert.Equal(t, first.ID, second.ID, "overwrite keeps object identity")

	_, err = m.Upload(ctx, "_metadata/doc.json", strings.NewReader("[2]"), 3, UploadOptions{IfMatch: first.ETag})
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestMemoryDownloadAndDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("")
	put(t, m, "army/1.jpg", "payload")

	data, info, err := m.Download(ctx, "army/1.jpg")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
	assert.Equal(t, "image/jpeg", info.ContentType)

	require.NoError(t, m.Delete(ctx, "army/1.jpg"))
	_, _, err = m.Download(ctx, "army/1.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Stat(ctx, "army/1.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryHandlerServesPublicObjects(t *testing.T) {
	m := NewMemory("")
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	m.SetPublicBase(srv.URL)
	put(t, m, "army/1.jpg", "jpegbytes")

	resp, err := http.Get(m.PublicURL("army/1.jpg"))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "jpegbytes", string(body))

	head, err := http.Head(m.PublicURL("army/404.jpg"))
	require.NoError(t, err)
	head.Body.Close()
	assert.Equal(t, http.StatusNotFound, head.StatusCode)
}

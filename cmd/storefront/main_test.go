// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/config"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestHashPassword(t *testing.T) {
	t.Run("argument", func(t *testing.T) {
		out, err := run(t, "", "hash-password", "--cost", "4", "hunter2")
		require.NoError(t, err)

		hash := strings.TrimSpace(out)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")))
	})

	t.Run("stdin", func(t *testing.T) {
		out, err := run(t, "hunter2\n", "hash-password", "--cost", "4")
		require.NoError(t, err)

		hash := strings.TrimSpace(out)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")))
	})

	t.Run("empty", func(t *testing.T) {
		_, err := run(t, "\n", "hash-password", "--cost", "4")
		assert.Error(t, err)
	})
}

func TestRootHelp(t *testing.T) {
	out, err := run(t, "")
	require.NoError(t, err)
	for _, sub := range []string{"serve", "migrate", "seed", "hash-password"} {
		assert.Contains(t, out, sub)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &config.Config{LogFormat: "json", LogLevel: "warn"})

	logger.Info("dropped")
	logger.Warn("kept", "key", "value")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, slog.LevelWarn.String(), entry["level"])
}

func TestSeedWithMemoryStorage(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("METADATA_BACKEND", "blob")
	t.Setenv("CACHE_DRIVER", "memory")
	t.Setenv("AUTH_SESSIONS", "static")
	t.Setenv("APP_ENV", "testing")

	out, err := run(t, "", "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "default categories written")
}

func TestSeedReset(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("METADATA_BACKEND", "blob")
	t.Setenv("CACHE_DRIVER", "memory")
	t.Setenv("AUTH_SESSIONS", "static")
	t.Setenv("APP_ENV", "testing")

	out, err := run(t, "", "seed", "--reset")
	require.NoError(t, err)
	assert.Contains(t, out, "metadata reset to defaults")
}

func TestMigrateSQLite(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("METADATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", ":memory:")
	t.Setenv("CACHE_DRIVER", "memory")
	t.Setenv("AUTH_SESSIONS", "static")
	t.Setenv("APP_ENV", "testing")

	_, err := run(t, "", "migrate")
	assert.NoError(t, err)
}

func TestMigrateRejectsBlobBackend(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("METADATA_BACKEND", "blob")
	t.Setenv("CACHE_DRIVER", "memory")
	t.Setenv("AUTH_SESSIONS", "static")
	t.Setenv("APP_ENV", "testing")

	_, err := run(t, "", "migrate")
	assert.Error(t, err)
}

func TestAppHandlerRequiresPassword(t *testing.T) {
	a := &app{cfg: &config.Config{}}
	_, _, err := a.handler()
	assert.ErrorContains(t, err, "ADMIN_PASSWORD")
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/database"
	"storefront/internal/storage"
)

const docPath = "_metadata/categories.json"

func sqliteStore(t *testing.T) *SQL {
	t.Helper()
	db, err := database.Connect(database.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db, database.SQLite))
	return NewSQL(db, database.SQLite)
}

// casContract exercises the compare-and-swap behavior every versioned
// adapter must provide.
func casContract(t *testing.T, s Store) {
	ctx := context.Background()
	require.True(t, s.Versioned())

	_, _, err := s.Read(ctx, docPath)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.WriteIfVersion(ctx, docPath, []byte(`[]`), ""))
	assert.ErrorIs(t, s.WriteIfVersion(ctx, docPath, []byte(`[1]`), ""), ErrVersionConflict,
		"create-only write must fail once the document exists")

	body, v1, err := s.Read(ctx, docPath)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(body))
	assert.NotEmpty(t, v1)

	require.NoError(t, s.WriteIfVersion(ctx, docPath, []byte(`[{"id":"army"}]`), v1))
	assert.ErrorIs(t, s.WriteIfVersion(ctx, docPath, []byte(`[{"id":"stale"}]`), v1), ErrVersionConflict,
		"write with a stale version must fail")

	body, v2, err := s.Read(ctx, docPath)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"army"}]`, string(body))
	assert.NotEqual(t, v1, v2)
}

func TestBlobCompareAndSwap(t *testing.T) {
	casContract(t, NewBlob(storage.NewMemory("")))
}

func TestSQLCompareAndSwap(t *testing.T) {
	casContract(t, sqliteStore(t))
}

func TestLegacyLastWriteWins(t *testing.T) {
	ctx := context.Background()
	s := NewLegacy(storage.NewMemory(""))
	assert.False(t, s.Versioned())

	require.NoError(t, s.WriteIfVersion(ctx, docPath, []byte(`["a"]`), ""))
	// Both writers read the same version; the second silently overwrites.
	_, v, err := s.Read(ctx, docPath)
	require.NoError(t, err)
	require.NoError(t, s.WriteIfVersion(ctx, docPath, []byte(`["b"]`), v))
	require.NoError(t, s.WriteIfVersion(ctx, docPath, []byte(`["c"]`), v))

	body, _, err := s.Read(ctx, docPath)
	require.NoError(t, err)
	assert.Equal(t, `["c"]`, string(body))
}

func TestSQLBadVersion(t *testing.T) {
	s := sqliteStore(t)
	err := s.WriteIfVersion(context.Background(), docPath, []byte(`[]`), "not-a-number")
	assert.ErrorIs(t, err, ErrVersionConflict)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"storefront/internal/database"
)

// SQL stores documents in the metadata_documents table created by the
// goose migrations in internal/database.
type SQL struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewSQL returns a SQL-backed document store.
func NewSQL(db *sql.DB, dialect database.Dialect) *SQL {
	return &SQL{db: db, dialect: dialect}
}

// Read returns the document body and its version number.
func (s *SQL) Read(ctx context.Context, path string) ([]byte, Version, error) {
	var body string
	var version int64
	err := s.db.QueryRowContext(ctx,
		s.dialect.Rebind(`SELECT body, version FROM metadata_documents WHERE path = ?`),
		path,
	).Scan(&body, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("read %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	return []byte(body), Version(strconv.FormatInt(version, 10)), nil
}

// WriteIfVersion inserts the first revision when expected is empty, and
// otherwise bumps the version only if it still equals expected.
func (s *SQL) WriteIfVersion(ctx context.Context, path string, body []byte, expected Version) error {
	now := time.Now().UTC()

	var res sql.Result
	var err error
	if expected == "" {
		res, err = s.db.ExecContext(ctx, s.dialect.Rebind(`
			INSERT INTO metadata_documents (path, body, version, updated_at)
			VALUES (?, ?, 1, ?)
			ON CONFLICT (path) DO NOTHING
		`), path, string(body), now)
	} else {
		current, perr := strconv.ParseInt(string(expected), 10, 64)
		if perr != nil {
			return fmt.Errorf("write %s: bad version %q: %w", path, expected, ErrVersionConflict)
		}
		res, err = s.db.ExecContext(ctx, s.dialect.Rebind(`
			UPDATE metadata_documents
			SET body = ?, version = version + 1, updated_at = ?
			WHERE path = ? AND version = ?
		`), string(body), now, path, current)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write %s rows affected: %w", path, err)
	}
	if n == 0 {
		return fmt.Errorf("write %s: %w", path, ErrVersionConflict)
	}
	return nil
}

// Versioned is always true for SQL.
func (s *SQL) Versioned() bool {
	return true
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cropregion/internal/domain"
	applog "cropregion/internal/log"
	"cropregion/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// DefaultFileName is used when the configured store path is a directory.
	DefaultFileName = "crops.sqlite"

	// schemaVersion tracks the local SQLite schema.
	// Bump this when you perform breaking schema changes and add migrations.
	schemaVersion = 2
)

// ErrNotFound is returned when no crop matches a query.
var ErrNotFound = errors.New("storage: not found")

// Store is an open crop database. It is safe for concurrent use.
type Store struct {
	db   *sql.DB
	path string
	log  *slog.Logger
}

// Open creates or opens the crop database at path, enables WAL mode, and
// brings the schema up to date.
func Open(path string) (*Store, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "open").With(slog.String("path", path))
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("store path is required")
	}
	if st, err := os.Stat(path); err == nil && st.IsDir() {
		path = filepath.Join(path, DefaultFileName)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		l.Error("create store dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}

	l.Debug("store ready")
	return &Store{db: db, path: path, log: applog.WithComponent("storage")}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

// Record appends a finalized crop and returns its row id.
func (s *Store) Record(ctx context.Context, rec domain.CropRecord) (int64, error) {
	if err := rec.Validate(); err != nil {
		return 0, err
	}
	pts, err := json.Marshal(rec.Points)
	if err != nil {
		return 0, fmt.Errorf("encode points: %w", err)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO crops
		(created_at, source, canvas_w, canvas_h, points, bounds_x, bounds_y, bounds_w, bounds_h)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano), rec.Source,
		rec.Canvas.Width, rec.Canvas.Height, string(pts),
		rec.Bounds.X, rec.Bounds.Y, rec.Bounds.Width, rec.Bounds.Height)
	if err != nil {
		s.log.Error("record crop failed", slog.Any("err", err))
		return 0, fmt.Errorf("insert crop: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("crop id: %w", err)
	}
	s.log.Info("crop recorded", slog.Int64("id", id), slog.String("source", rec.Source))
	return id, nil
}

// List returns up to limit crops, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]domain.CropRecord, error) {
	q := selectCrops + ` ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query crops: %w", err)
	}
	defer rows.Close()

	var out []domain.CropRecord
	for rows.Next() {
		rec, err := scanCrop(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate crops: %w", err)
	}
	return out, nil
}

// Latest returns the most recent crop or ErrNotFound.
func (s *Store) Latest(ctx context.Context) (domain.CropRecord, error) {
	rec, err := scanCrop(s.db.QueryRowContext(ctx, selectCrops+` ORDER BY id DESC LIMIT 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CropRecord{}, ErrNotFound
	}
	return rec, err
}

// Count returns the number of recorded crops.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM crops`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count crops: %w", err)
	}
	return n, nil
}

const selectCrops = `SELECT id, created_at, source, canvas_w, canvas_h, points,
	bounds_x, bounds_y, bounds_w, bounds_h FROM crops`

type scanner interface {
	Scan(dest ...any) error
}

func scanCrop(sc scanner) (domain.CropRecord, error) {
	var (
		rec     domain.CropRecord
		created string
		pts     string
	)
	err := sc.Scan(&rec.ID, &created, &rec.Source, &rec.Canvas.Width, &rec.Canvas.Height, &pts,
		&rec.Bounds.X, &rec.Bounds.Y, &rec.Bounds.Width, &rec.Bounds.Height)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("scan crop: %w", err)
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return rec, fmt.Errorf("crop %d: parse created_at: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(pts), &rec.Points); err != nil {
		return rec, fmt.Errorf("crop %d: decode points: %w", rec.ID, err)
	}
	return rec, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var cur int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		// keep the stored schema so migrations can run
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS crops (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			source     TEXT NOT NULL DEFAULT '',
			canvas_w   REAL NOT NULL,
			canvas_h   REAL NOT NULL,
			points     TEXT NOT NULL,
			bounds_x   REAL NOT NULL,
			bounds_y   REAL NOT NULL,
			bounds_w   REAL NOT NULL,
			bounds_h   REAL NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_crops_created ON crops(created_at);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for cur < schemaVersion {
		next := cur + 1
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", next, err)
		}
		for _, q := range migrations[next] {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d stmt failed: %w", next, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d update version: %w", next, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d commit: %w", next, err)
		}
		cur = next
	}
	return nil
}

// migrations holds the statements that lift a schema from version n-1 to n.
// ensureSchema already creates the latest layout, so steps must be idempotent.
var migrations = map[int][]string{
	2: {`CREATE INDEX IF NOT EXISTS idx_crops_created ON crops(created_at);`},
}

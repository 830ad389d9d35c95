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
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	applog "glyphedit/internal/log"
	"glyphedit/internal/version"
)

const (
	DirName         = ".glyphedit"
	HistoryFileName = "history.sqlite"
	CrashDirName    = "crash"
	BackupsDirName  = "backups"

	// schemaVersion is bumped together with a new step in runMigrations.
	schemaVersion = 2
)

// ErrNoWorkspace is returned when no workspace directory was given.
var ErrNoWorkspace = errors.New("workspace directory is required")

// History is an open snapshot database.
type History struct {
	db   *sql.DB
	path string
	log  *slog.Logger
}

// HistoryPath returns the database path for workspace dir.
func HistoryPath(dir string) string {
	return filepath.Join(dir, DirName, HistoryFileName)
}

// OpenHistory opens or creates the history database of workspace dir. A file
// that fails to open or fails an integrity check is moved to
// .glyphedit/backups and replaced with a fresh database.
func OpenHistory(dir string) (*History, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, ErrNoWorkspace
	}
	l := applog.WithOperation(applog.WithComponent("storage"), "history_open").With(slog.String("root", dir))
	if err := os.MkdirAll(filepath.Join(dir, DirName), 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", DirName, err)
	}
	path := HistoryPath(dir)

	db, err := openDB(path)
	if err == nil {
		if err = quickCheck(db); err != nil {
			_ = db.Close()
		}
	}
	if err != nil {
		l.Warn("history unusable, recreating", slog.Any("err", err))
		if bak, berr := backupFile(path); berr == nil && bak != "" {
			l.Info("history backed up", slog.String("path", bak))
		}
		removeDB(path)
		if db, err = openDB(path); err != nil {
			l.Error("history open failed", slog.Any("err", err))
			return nil, err
		}
	}
	l.Debug("history ready", slog.String("path", path))
	return &History{db: db, path: path, log: applog.WithComponent("storage")}, nil
}

// Path returns the database file path.
func (h *History) Path() string { return h.path }

// Close closes the database.
func (h *History) Close() error { return h.db.Close() }

func openDB(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	for _, step := range []func(context.Context, *sql.DB) error{ensureMetaAndVersion, ensureSchema, runMigrations} {
		if err := step(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

func quickCheck(db *sql.DB) error {
	var res string
	if err := db.QueryRow(`PRAGMA quick_check;`).Scan(&res); err != nil {
		return fmt.Errorf("quick_check: %w", err)
	}
	if !strings.EqualFold(strings.TrimSpace(res), "ok") {
		return fmt.Errorf("quick_check: %s", res)
	}
	return nil
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
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id          INTEGER PRIMARY KEY,
			snapshot_id TEXT    NOT NULL UNIQUE,
			glyph       TEXT    NOT NULL,
			session     TEXT    NOT NULL,
			ts          INTEGER NOT NULL,
			blob        BLOB    NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_glyph_ts ON snapshots(glyph, ts);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_session ON snapshots(session);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// runMigrations moves an older database up to schemaVersion. Newer databases
// are left alone.
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
		var stmts []string
		switch next {
		case 2:
			stmts = []string{`CREATE INDEX IF NOT EXISTS idx_snapshots_session ON snapshots(session);`}
		}
		for _, q := range stmts {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d: %w", next, err)
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

// SchemaVersion reports the schema version recorded in the database.
func (h *History) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	err := h.db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&v)
	return v, err
}

// backupFile copies path into a timestamped file under the sibling backups
// directory. A missing source is not an error.
func backupFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	dir := filepath.Join(filepath.Dir(path), BackupsDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	bak := filepath.Join(dir, fmt.Sprintf("%s.%s.bak", filepath.Base(path), time.Now().Format("20060102-150405")))
	return bak, os.WriteFile(bak, data, 0o644)
}

func removeDB(path string) {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		_ = os.Remove(p)
	}
}

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
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	applog "glyphedit/internal/log"
)

// Snapshot is one stored component list of a glyph. Blob holds the exchange
// JSON of the list.
type Snapshot struct {
	ID      string
	Glyph   string
	Session string
	TS      time.Time
	Blob    []byte
}

const defaultListLimit = 50

// language=SQL
// dialect=SQLite
const insertSnapshotSQL = `INSERT INTO snapshots(snapshot_id, glyph, session, ts, blob) VALUES (?, ?, ?, ?, ?)`

// language=SQL
// dialect=SQLite
const listSnapshotsSQL = `SELECT snapshot_id, glyph, session, ts, blob FROM snapshots WHERE glyph = ? ORDER BY ts DESC, id DESC LIMIT ?`

// language=SQL
// dialect=SQLite
const listGlyphsSQL = `SELECT DISTINCT glyph FROM snapshots ORDER BY glyph`

// language=SQL
// dialect=SQLite
const pruneSnapshotsSQL = `DELETE FROM snapshots WHERE glyph = ? AND id NOT IN (
	SELECT id FROM snapshots WHERE glyph = ? ORDER BY ts DESC, id DESC LIMIT ?
)`

// SaveSnapshot stores blob for glyph and returns the new snapshot id.
func (h *History) SaveSnapshot(ctx context.Context, glyph string, blob []byte, ts time.Time) (string, error) {
	if strings.TrimSpace(glyph) == "" {
		return "", errors.New("glyph name is required")
	}
	id := uuid.NewString()
	if _, err := h.db.ExecContext(ctx, insertSnapshotSQL, id, glyph, applog.SessionID(), ts.UnixNano(), blob); err != nil {
		return "", fmt.Errorf("save snapshot %s: %w", glyph, err)
	}
	h.log.Debug("snapshot saved", slog.String("glyph", glyph), slog.String("id", id), slog.Int("bytes", len(blob)))
	return id, nil
}

// LatestSnapshot returns the newest snapshot of glyph; ok is false when there
// is none.
func (h *History) LatestSnapshot(ctx context.Context, glyph string) (s Snapshot, ok bool, err error) {
	list, err := h.ListSnapshots(ctx, glyph, 1)
	if err != nil || len(list) == 0 {
		return Snapshot{}, false, err
	}
	return list[0], true, nil
}

// ListSnapshots returns up to limit snapshots of glyph, newest first. A
// non-positive limit means 50.
func (h *History) ListSnapshots(ctx context.Context, glyph string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := h.db.QueryContext(ctx, listSnapshotsSQL, glyph, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots %s: %w", glyph, err)
	}
	defer func() { _ = rows.Close() }()
	var out []Snapshot
	for rows.Next() {
		var s Snapshot
		var ts int64
		if err := rows.Scan(&s.ID, &s.Glyph, &s.Session, &ts, &s.Blob); err != nil {
			return nil, err
		}
		s.TS = time.Unix(0, ts)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Glyphs lists every glyph with at least one snapshot.
func (h *History) Glyphs(ctx context.Context) ([]string, error) {
	rows, err := h.db.QueryContext(ctx, listGlyphsSQL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Prune keeps the keepLast newest snapshots of glyph and returns how many
// were deleted. keepLast <= 0 deletes nothing.
func (h *History) Prune(ctx context.Context, glyph string, keepLast int) (int64, error) {
	if keepLast <= 0 {
		return 0, nil
	}
	res, err := h.db.ExecContext(ctx, pruneSnapshotsSQL, glyph, glyph, keepLast)
	if err != nil {
		return 0, fmt.Errorf("prune %s: %w", glyph, err)
	}
	return res.RowsAffected()
}

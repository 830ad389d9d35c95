/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package pack moves glyph component lists between workspaces as a zip of
// exchange JSON files, one per glyph.
package pack

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"glyphedit/internal/exchange"
	applog "glyphedit/internal/log"
	"glyphedit/internal/storage"
)

// ManifestName is the human readable entry at the root of every pack.
const ManifestName = "glyphedit.manifest.txt"

// maxEntryBytes caps a single component file when installing.
const maxEntryBytes = 4 << 20

// Export writes the latest stored component list of every glyph in h to
// destZipPath. Entries are named <glyph>.json.
func Export(ctx context.Context, h *storage.History, destZipPath string) (int, error) {
	l := applog.WithOperation(applog.WithComponent("pack"), "export").With(slog.String("history", h.Path()))
	if strings.TrimSpace(destZipPath) == "" {
		return 0, errors.New("destZipPath is required")
	}
	names, err := h.Glyphs(ctx)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(destZipPath), 0o755); err != nil {
		return 0, fmt.Errorf("ensure zip dir: %w", err)
	}
	// On Windows, remove destination if present before create
	_ = os.Remove(destZipPath)

	zf, err := os.Create(destZipPath)
	if err != nil {
		return 0, fmt.Errorf("create zip: %w", err)
	}
	defer func() { _ = zf.Close() }()
	zw := zip.NewWriter(zf)

	manifest := fmt.Sprintf("GlyphEdit Component Pack\nCreated: %s\nSession: %s\nGlyphs: %d\n\nEach entry is the newest stored component list of one glyph.\n",
		time.Now().Format(time.RFC3339), applog.SessionID(), len(names))
	w, err := zw.Create(ManifestName)
	if err != nil {
		return 0, fmt.Errorf("add manifest: %w", err)
	}
	if _, err := w.Write([]byte(manifest)); err != nil {
		return 0, fmt.Errorf("write manifest: %w", err)
	}

	added := 0
	for _, name := range names {
		snap, ok, err := h.LatestSnapshot(ctx, name)
		if err != nil {
			return added, err
		}
		if !ok {
			continue
		}
		fw, err := zw.Create(entryName(name))
		if err != nil {
			return added, err
		}
		if _, err := fw.Write(snap.Blob); err != nil {
			return added, err
		}
		added++
	}
	if err := zw.Close(); err != nil {
		l.Error("zip build failed", slog.Any("err", err))
		return added, fmt.Errorf("build zip: %w", err)
	}
	l.Info("pack exported", slog.Int("glyphs", added), slog.String("zip", destZipPath))
	return added, nil
}

// Install stores every glyph of the pack in h. Glyphs h already knows are
// skipped; entries that fail validation abort the install. It returns the
// number of glyphs installed.
func Install(ctx context.Context, h *storage.History, packZipPath string) (int, error) {
	l := applog.WithOperation(applog.WithComponent("pack"), "install").With(slog.String("history", h.Path()))
	if strings.TrimSpace(packZipPath) == "" {
		return 0, errors.New("packZipPath is required")
	}
	r, err := zip.OpenReader(packZipPath)
	if err != nil {
		return 0, fmt.Errorf("open pack: %w", err)
	}
	defer func() { _ = r.Close() }()

	known, err := h.Glyphs(ctx)
	if err != nil {
		return 0, err
	}
	have := make(map[string]bool, len(known))
	for _, n := range known {
		have[n] = true
	}

	installed := 0
	now := time.Now()
	for _, f := range r.File {
		if f.Name == ManifestName || f.FileInfo().IsDir() {
			continue
		}
		name, ok := glyphName(f.Name)
		if !ok {
			l.Warn("skip foreign entry", slog.String("entry", f.Name))
			continue
		}
		if have[name] {
			l.Warn("skip existing glyph", slog.String("glyph", name))
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			return installed, err
		}
		if err := exchange.Validate(data); err != nil {
			return installed, fmt.Errorf("%s: %w", f.Name, err)
		}
		if _, err := h.SaveSnapshot(ctx, name, data, now); err != nil {
			return installed, err
		}
		have[name] = true
		installed++
	}
	l.Info("pack installed", slog.Int("glyphs", installed))
	return installed, nil
}

func entryName(glyph string) string { return glyph + ".json" }

// glyphName accepts only top-level <glyph>.json entries.
func glyphName(entry string) (string, bool) {
	if path.Dir(entry) != "." || path.Ext(entry) != ".json" {
		return "", false
	}
	name := strings.TrimSuffix(entry, ".json")
	return name, strings.TrimSpace(name) != ""
}

func readEntry(f *zip.File) ([]byte, error) {
	if f.UncompressedSize64 > maxEntryBytes {
		return nil, fmt.Errorf("%s: entry too large (%d bytes)", f.Name, f.UncompressedSize64)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(io.LimitReader(rc, maxEntryBytes))
}

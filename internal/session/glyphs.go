/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"glyphedit/internal/component"
	"glyphedit/internal/entity"
	"glyphedit/internal/exchange"
	"glyphedit/internal/undo"
	"glyphedit/internal/vector"
)

var (
	ErrUnknownGlyph     = errors.New("unknown glyph")
	ErrUnknownComponent = errors.New("unknown component")
	ErrNoHistory        = errors.New("no history store attached")
)

// glyphState is a glyph's live component list and the list as last loaded
// or saved.
type glyphState struct {
	list  *component.List
	saved *component.List
}

// ImportGlyph decodes exchange JSON into a fresh component list for name,
// replacing whatever was loaded under that name.
func (s *Session) ImportGlyph(name string, data []byte) (*component.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := exchange.ImportList(s.alloc, data)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", name, err)
	}
	s.setGlyphLocked(name, l)
	return l.Clone(), nil
}

// SetGlyph builds name's list from records.
func (s *Session) SetGlyph(name string, recs []component.Record) *component.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := component.ImportAll(s.alloc, recs)
	s.setGlyphLocked(name, l)
	return l.Clone()
}

func (s *Session) setGlyphLocked(name string, l *component.List) {
	s.glyphs[name] = &glyphState{list: l, saved: l.Clone()}
	s.undo.Clear(name)
	s.log.Debug("glyph loaded", slog.String("glyph", name), slog.Int("components", l.Len()))
}

// Glyph returns a copy of name's list, ids included.
func (s *Session) Glyph(name string) (*component.List, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.glyphs[name]
	if !ok {
		return nil, false
	}
	return g.list.Clone(), true
}

// Glyphs lists the loaded glyph names in order.
func (s *Session) Glyphs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.glyphs))
	for n := range s.glyphs {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// ExportGlyph encodes name's list as exchange JSON. Entity ids are not part
// of the output.
func (s *Session) ExportGlyph(name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.glyphs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGlyph, name)
	}
	return exchange.ExportList(g.list)
}

// SetComponentTransform replaces the transform of component id in glyph.
// The previous list state becomes an undo step; edits closer together than
// the undo interval collapse into one.
func (s *Session) SetComponentTransform(glyph string, id entity.ID, xf vector.Affine2D) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.glyphs[glyph]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownGlyph, glyph)
	}
	c, ok := g.list.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s in %s", ErrUnknownComponent, id, glyph)
	}
	if c.Transform.Equal(xf) {
		return nil
	}
	s.undo.Record(s.snapshotLocked(glyph, g.list))
	g.list.SetTransform(id, xf)
	if s.log.Enabled(context.Background(), slog.LevelDebug) {
		size, glyphs, steps := s.undo.Stats()
		s.log.Debug("transform set", slog.String("glyph", glyph), slog.String("component", id.String()),
			slog.Int("undo_bytes", size), slog.Int("undo_glyphs", glyphs), slog.Int("undo_steps", steps))
	}
	return nil
}

// Undo reverts the last edit of glyph. Components keep their entity ids.
func (s *Session) Undo(glyph string) (bool, error) {
	return s.step(glyph, s.undo.Undo)
}

// Redo re-applies the last undone edit of glyph.
func (s *Session) Redo(glyph string) (bool, error) {
	return s.step(glyph, s.undo.Redo)
}

func (s *Session) CanUndo(glyph string) bool { return s.undo.CanUndo(glyph) }
func (s *Session) CanRedo(glyph string) bool { return s.undo.CanRedo(glyph) }

func (s *Session) step(glyph string, op func(undo.Snapshot) (undo.Snapshot, bool)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.glyphs[glyph]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownGlyph, glyph)
	}
	prev, ok := op(s.snapshotLocked(glyph, g.list))
	if !ok {
		return false, nil
	}
	recs, err := component.DecodeSnapshot(prev.Blob)
	if err != nil {
		return false, fmt.Errorf("restore %s: %w", glyph, err)
	}
	g.list.Restore(s.alloc, recs)
	return true, nil
}

func (s *Session) snapshotLocked(glyph string, l *component.List) undo.Snapshot {
	return undo.Snapshot{Glyph: glyph, Blob: component.EncodeSnapshot(l.ExportAll()), TS: s.now()}
}

// Changed reports whether glyph differs by value from its last loaded or
// saved state. Entity ids do not count.
func (s *Session) Changed(glyph string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.glyphs[glyph]
	return ok && !g.list.Equal(g.saved)
}

// Save writes glyph to the history store and marks it unchanged.
func (s *Session) Save(ctx context.Context, glyph string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx, glyph)
}

func (s *Session) saveLocked(ctx context.Context, glyph string) (string, error) {
	if s.history == nil {
		return "", ErrNoHistory
	}
	g, ok := s.glyphs[glyph]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownGlyph, glyph)
	}
	blob, err := exchange.ExportList(g.list)
	if err != nil {
		return "", err
	}
	id, err := s.history.SaveSnapshot(ctx, glyph, blob, s.now())
	if err != nil {
		return "", err
	}
	g.saved = g.list.Clone()
	if n, err := s.history.Prune(ctx, glyph, s.keep); err != nil {
		s.log.Warn("history prune failed", slog.String("glyph", glyph), slog.Any("err", err))
	} else if n > 0 {
		s.log.Debug("history pruned", slog.String("glyph", glyph), slog.Int64("deleted", n))
	}
	return id, nil
}

// LoadLatest replaces glyph with its newest stored snapshot. It reports
// false when the store has none.
func (s *Session) LoadLatest(ctx context.Context, glyph string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.history == nil {
		return false, ErrNoHistory
	}
	snap, ok, err := s.history.LatestSnapshot(ctx, glyph)
	if err != nil || !ok {
		return false, err
	}
	l, err := exchange.ImportList(s.alloc, snap.Blob)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", glyph, err)
	}
	s.setGlyphLocked(glyph, l)
	return true, nil
}

// Autosave stores every changed glyph and returns the history file path.
// It is called on the crash path, so a failing glyph does not stop the rest.
func (s *Session) Autosave() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.history == nil {
		return "", ErrNoHistory
	}
	var errs []error
	for name, g := range s.glyphs {
		if g.list.Equal(g.saved) {
			continue
		}
		if _, err := s.saveLocked(context.Background(), name); err != nil {
			errs = append(errs, err)
		}
	}
	return s.history.Path(), errors.Join(errs...)
}

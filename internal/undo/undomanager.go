/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */


// Package undo keeps bounded per-glyph undo/redo histories of opaque state
// blobs.
package undo

import (
	"sync"
	"time"
)

// Snapshot is a reversible state blob for one glyph. The manager never looks
// inside Blob; its size is len(Blob).
type Snapshot struct {
	Glyph string
	Blob  []byte
	TS    time.Time
}

// Config caps memory and depth and controls coalescing.
type Config struct {
	// MaxBytes is a soft cap over all undo stacks; the oldest entries go first.
	MaxBytes int
	// MaxPerGlyph limits undo depth per glyph (0 means unlimited).
	MaxPerGlyph int
	// MinInterval merges edits on the same glyph that arrive closer together
	// than this into one undo step.
	MinInterval time.Duration
}

const (
	DefaultMaxBytes    = 16 * 1024 * 1024
	DefaultMinInterval = 250 * time.Millisecond
)

// Manager holds undo and redo stacks per glyph. Undo entries are the states
// before each edit. It is safe for concurrent use.
type Manager struct {
	cfg        Config
	mu         sync.Mutex
	undo       map[string][]Snapshot
	redo       map[string][]Snapshot
	totalBytes int
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = DefaultMinInterval
	}
	return &Manager{cfg: cfg, undo: make(map[string][]Snapshot), redo: make(map[string][]Snapshot)}
}

// Record stores before, the glyph state prior to an edit, and clears the
// glyph's redo stack. If the previous entry is younger than MinInterval the
// edit is merged into it: the older state is kept and only its timestamp
// advances, so a drag undoes in one step.
func (m *Manager) Record(before Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropRedoLocked(before.Glyph)
	stack := m.undo[before.Glyph]
	if n := len(stack); n > 0 && before.TS.Sub(stack[n-1].TS) < m.cfg.MinInterval {
		stack[n-1].TS = before.TS
		return
	}
	m.undo[before.Glyph] = append(stack, before)
	m.totalBytes += len(before.Blob)
	m.enforceCapsLocked(before.Glyph)
}

// Undo pops the latest before-state of current.Glyph and parks current on the
// redo stack. It reports false when there is nothing to undo.
func (m *Manager) Undo(current Snapshot) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[current.Glyph]
	if len(stack) == 0 {
		return Snapshot{}, false
	}
	s := stack[len(stack)-1]
	m.undo[current.Glyph] = stack[:len(stack)-1]
	m.totalBytes -= len(s.Blob)
	m.redo[current.Glyph] = append(m.redo[current.Glyph], current)
	return s, true
}

// Redo reverses the last Undo of current.Glyph.
func (m *Manager) Redo(current Snapshot) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.redo[current.Glyph]
	if len(r) == 0 {
		return Snapshot{}, false
	}
	s := r[len(r)-1]
	m.redo[current.Glyph] = r[:len(r)-1]
	// the redone state must not merge with whatever was recorded last
	current.TS = time.Time{}
	m.undo[current.Glyph] = append(m.undo[current.Glyph], current)
	m.totalBytes += len(current.Blob)
	m.enforceCapsLocked(current.Glyph)
	return s, true
}

// CanUndo and CanRedo report stack availability for glyph.
func (m *Manager) CanUndo(glyph string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo[glyph]) > 0
}

func (m *Manager) CanRedo(glyph string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo[glyph]) > 0
}

// Clear forgets all history of glyph.
func (m *Manager) Clear(glyph string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.undo[glyph] {
		m.totalBytes -= len(s.Blob)
	}
	delete(m.undo, glyph)
	delete(m.redo, glyph)
	if m.totalBytes < 0 {
		m.totalBytes = 0
	}
}

// Stats returns undo accounting for diagnostics.
func (m *Manager) Stats() (totalBytes int, glyphs int, snapshots int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.undo {
		if len(v) > 0 {
			glyphs++
		}
		snapshots += len(v)
	}
	return m.totalBytes, glyphs, snapshots
}

func (m *Manager) dropRedoLocked(glyph string) {
	delete(m.redo, glyph)
}

func (m *Manager) enforceCapsLocked(glyph string) {
	if m.cfg.MaxPerGlyph > 0 {
		stack := m.undo[glyph]
		if drop := len(stack) - m.cfg.MaxPerGlyph; drop > 0 {
			for _, s := range stack[:drop] {
				m.totalBytes -= len(s.Blob)
			}
			m.undo[glyph] = append([]Snapshot(nil), stack[drop:]...)
		}
	}
	// global cap: prune the oldest bottom entry across glyphs, never the
	// entry just pushed for glyph
	for m.totalBytes > m.cfg.MaxBytes {
		victim := ""
		var oldest time.Time
		found := false
		for g, stack := range m.undo {
			if len(stack) == 0 || (g == glyph && len(stack) == 1) {
				continue
			}
			if !found || stack[0].TS.Before(oldest) {
				victim, oldest, found = g, stack[0].TS, true
			}
		}
		if !found {
			break
		}
		stack := m.undo[victim]
		m.totalBytes -= len(stack[0].Blob)
		if len(stack) == 1 {
			delete(m.undo, victim)
		} else {
			m.undo[victim] = stack[1:]
		}
	}
}

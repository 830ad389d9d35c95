/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package component

import (
	"glyphedit/internal/entity"
	"glyphedit/internal/vector"
)

// List is the ordered component list owned by one glyph. Mutation goes
// through its methods only.
type List struct {
	items []Component
}

// ImportAll builds a list from exchange records, allocating one id per record.
func ImportAll(alloc *entity.Allocator, recs []Record) *List {
	l := &List{items: make([]Component, 0, len(recs))}
	for _, r := range recs {
		l.items = append(l.items, Import(alloc, r))
	}
	return l
}

// ExportAll converts the list back to exchange records in order.
func (l *List) ExportAll() []Record {
	out := make([]Record, 0, len(l.items))
	for _, c := range l.items {
		out = append(out, Export(c))
	}
	return out
}

func (l *List) Len() int { return len(l.items) }

// At returns a copy of the i-th component.
func (l *List) At(i int) Component { return l.items[i] }

// Find returns the component with the given id.
func (l *List) Find(id entity.ID) (Component, bool) {
	if i := l.index(id); i >= 0 {
		return l.items[i], true
	}
	return Component{}, false
}

// SetTransform replaces the transform of the component with the given id in place.
func (l *List) SetTransform(id entity.ID, xf vector.Affine2D) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.items[i].Transform = xf
	return true
}

// Restore overwrites content from records while keeping ids positionally:
// existing slots keep their id, extra records get fresh ids and surplus
// components are dropped.
func (l *List) Restore(alloc *entity.Allocator, recs []Record) {
	for i, r := range recs {
		if i < len(l.items) {
			l.items[i].Base = r.Base
			l.items[i].Transform = vector.NewAffine(r.Transform)
			continue
		}
		l.items = append(l.items, Import(alloc, r))
	}
	if len(recs) < len(l.items) {
		l.items = l.items[:len(recs)]
	}
}

// Equal reports value equality element by element, ignoring ids.
func (l *List) Equal(o *List) bool {
	if l.Len() != o.Len() {
		return false
	}
	for i := range l.items {
		if !l.items[i].Equal(o.items[i]) {
			return false
		}
	}
	return true
}

// Clone copies the list, ids included.
func (l *List) Clone() *List {
	return &List{items: append([]Component(nil), l.items...)}
}

func (l *List) index(id entity.ID) int {
	for i, c := range l.items {
		if c.id == id {
			return i
		}
	}
	return -1
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package component models glyph components: references from one glyph to
// another placed with an affine transform. Components carry a session-local
// entity id that is assigned on import and dropped again on export.
package component

import (
	"glyphedit/internal/entity"
	"glyphedit/internal/vector"
)

// Record is the exchange-format shape of a component as handed over by the
// font file collaborator. Transform holds (a, b, c, d, e, f).
type Record struct {
	Base       string     `json:"base"`
	Transform  [6]float64 `json:"transform"`
	Identifier string     `json:"identifier,omitempty"`
}

// Component is "glyph Base placed at Transform inside the current glyph".
// Base is a by-name reference and is never resolved here.
type Component struct {
	Base      string
	Transform vector.Affine2D
	id        entity.ID
}

// New builds a component with a fresh top-level id.
func New(alloc *entity.Allocator, base string, xf vector.Affine2D) Component {
	return Component{Base: base, Transform: xf, id: alloc.Allocate(entity.None)}
}

// ID returns the session identity assigned at construction.
func (c Component) ID() entity.ID { return c.id }

// Equal compares content only: the base name and the exact transform
// coefficients. The entity id is session identity and is ignored.
func (c Component) Equal(o Component) bool {
	return c.Base == o.Base && c.Transform.Equal(o.Transform)
}

// Import converts an exchange record. The record's identifier is discarded:
// it is neither guaranteed unique nor meaningful within an editing session.
func Import(alloc *entity.Allocator, r Record) Component {
	return New(alloc, r.Base, vector.NewAffine(r.Transform))
}

// Export converts back to an exchange record. Identifier is always empty.
func Export(c Component) Record {
	return Record{Base: c.Base, Transform: c.Transform.Coeffs()}
}

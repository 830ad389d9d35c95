/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package component

import (
	"math"
	"testing"

	"glyphedit/internal/entity"
	"glyphedit/internal/vector"
)

func sampleRecords() []Record {
	return []Record{
		{Base: "a", Transform: [6]float64{1, 0, 0, 1, 0, 0}},
		{Base: "acutecomb", Transform: [6]float64{1, 0, 0, 1, 120.5, 512}, Identifier: "AbC123"},
		{Base: "", Transform: [6]float64{0, 0, 0, 0, 0, 0}},
		{Base: "weird name/../x", Transform: [6]float64{-1, 0.1, math.SmallestNonzeroFloat64, 1e300, -0.0, 3}},
		{Base: "nan", Transform: [6]float64{math.Inf(1), 0, 0, 1, 0, 0}},
	}
}

func TestRoundTripKeepsBaseAndTransformBits(t *testing.T) {
	alloc := entity.NewAllocator()
	for _, r := range sampleRecords() {
		got := Export(Import(alloc, r))
		if got.Base != r.Base {
			t.Fatalf("expected base %q, got %q", r.Base, got.Base)
		}
		for i := range r.Transform {
			if math.Float64bits(got.Transform[i]) != math.Float64bits(r.Transform[i]) {
				t.Fatalf("coefficient %d changed: %v -> %v", i, r.Transform[i], got.Transform[i])
			}
		}
		if got.Identifier != "" {
			t.Fatalf("expected empty identifier on export, got %q", got.Identifier)
		}
	}
}

func TestImportAllocatesFreshTopLevelIDs(t *testing.T) {
	alloc := entity.NewAllocator()
	r := Record{Base: "b", Transform: [6]float64{1, 0, 0, 1, 0, 0}, Identifier: "same"}
	c1 := Import(alloc, r)
	c2 := Import(alloc, r)
	if c1.ID() == c2.ID() {
		t.Fatalf("expected distinct ids, both %v", c1.ID())
	}
	if !c1.ID().Parent().IsNone() {
		t.Fatalf("expected top-level id, got parent %v", c1.ID().Parent())
	}
	if !c1.Equal(c2) {
		t.Fatalf("components with equal content must compare equal regardless of id")
	}
}

func TestEqualIgnoresIDButNotTransform(t *testing.T) {
	alloc := entity.NewAllocator()
	a := New(alloc, "a", vector.Translate(10, 0))
	b := New(alloc, "a", vector.Translate(10, 0))
	if !a.Equal(b) {
		t.Fatalf("expected equal")
	}
	b.Transform = vector.Translate(math.Nextafter(10, 11), 0)
	if a.Equal(b) {
		t.Fatalf("expected transforms differing in one bit to be unequal")
	}
	c := New(alloc, "b", vector.Translate(10, 0))
	if a.Equal(c) {
		t.Fatalf("expected different base to be unequal")
	}
}

func TestMutatingTransformKeepsID(t *testing.T) {
	alloc := entity.NewAllocator()
	c := New(alloc, "a", vector.Identity)
	id := c.ID()
	c.Transform = c.Transform.Mul(vector.Scale(2, 2))
	if c.ID() != id {
		t.Fatalf("id changed after mutation")
	}
}

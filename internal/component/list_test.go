/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package component

import (
	"testing"

	"glyphedit/internal/entity"
	"glyphedit/internal/vector"
)

func TestListImportExportOrder(t *testing.T) {
	alloc := entity.NewAllocator()
	recs := sampleRecords()
	l := ImportAll(alloc, recs)
	if l.Len() != len(recs) {
		t.Fatalf("expected %d components, got %d", len(recs), l.Len())
	}
	out := l.ExportAll()
	for i := range recs {
		if out[i].Base != recs[i].Base {
			t.Fatalf("order changed at %d: %q vs %q", i, out[i].Base, recs[i].Base)
		}
	}
}

func TestListSetTransformAndFind(t *testing.T) {
	alloc := entity.NewAllocator()
	l := ImportAll(alloc, sampleRecords())
	id := l.At(1).ID()
	if !l.SetTransform(id, vector.Translate(1, 2)) {
		t.Fatalf("SetTransform reported missing id")
	}
	c, ok := l.Find(id)
	if !ok || !c.Transform.Equal(vector.Translate(1, 2)) {
		t.Fatalf("expected updated transform, got ok=%v xf=%+v", ok, c.Transform)
	}
	if l.SetTransform(entity.None, vector.Identity) {
		t.Fatalf("expected SetTransform to fail for None")
	}
}

func TestListEqualAndClone(t *testing.T) {
	alloc := entity.NewAllocator()
	a := ImportAll(alloc, sampleRecords())
	b := ImportAll(alloc, sampleRecords())
	if !a.Equal(b) {
		t.Fatalf("lists with equal content must be equal despite different ids")
	}
	c := a.Clone()
	c.SetTransform(c.At(0).ID(), vector.Translate(5, 5))
	if a.Equal(c) {
		t.Fatalf("expected clone mutation to be visible as a change")
	}
	if a.At(0).Transform.Equal(vector.Translate(5, 5)) {
		t.Fatalf("clone mutation leaked into source")
	}
}

func TestListRestoreKeepsIDs(t *testing.T) {
	alloc := entity.NewAllocator()
	l := ImportAll(alloc, sampleRecords()[:2])
	ids := []entity.ID{l.At(0).ID(), l.At(1).ID()}
	snap := l.ExportAll()
	l.SetTransform(ids[0], vector.Scale(3, 3))

	l.Restore(alloc, snap)
	if l.At(0).ID() != ids[0] || l.At(1).ID() != ids[1] {
		t.Fatalf("restore must keep ids positionally")
	}
	if !l.At(0).Transform.Equal(vector.NewAffine(snap[0].Transform)) {
		t.Fatalf("restore did not reset transform")
	}

	l.Restore(alloc, snap[:1])
	if l.Len() != 1 {
		t.Fatalf("expected surplus components to be dropped, got %d", l.Len())
	}
	l.Restore(alloc, snap)
	if l.Len() != 2 || l.At(1).ID() == ids[1] {
		t.Fatalf("expected re-added component to get a fresh id")
	}
}

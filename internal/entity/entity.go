/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package entity issues session-local identifiers for editable objects.
//
// Identifiers are never persisted. They exist so that two otherwise equal
// objects (for example two components placing the same glyph at the same
// offset) can still be told apart while a glyph is being edited.
package entity

import (
	"fmt"
	"sync"
)

// ID is an opaque identifier with an optional parent scope.
// The zero value is None and is never handed out by an Allocator.
type ID struct {
	parent uint64
	value  uint64
}

// None is the absent identifier; passing it as a parent selects the top-level scope.
var None = ID{}

// IsNone reports whether id is the absent identifier.
func (id ID) IsNone() bool { return id.value == 0 }

// Parent returns the scope id was allocated in, or None for top-level ids.
func (id ID) Parent() ID {
	if id.parent == 0 {
		return None
	}
	// only the parent's value is kept; the grandparent scope is not tracked.
	return ID{value: id.parent}
}

func (id ID) String() string {
	if id.IsNone() {
		return "none"
	}
	if id.parent == 0 {
		return fmt.Sprintf("e%d", id.value)
	}
	return fmt.Sprintf("e%d/e%d", id.parent, id.value)
}

// Allocator hands out identifiers. Values come from a single monotonic
// counter, so ids are pairwise distinct within every scope and are never
// reused for the lifetime of the allocator.
//
// It is safe for concurrent use.
type Allocator struct {
	mu   sync.Mutex
	next uint64
}

// NewAllocator returns an allocator whose first id has value 1.
func NewAllocator() *Allocator { return &Allocator{} }

// Allocate returns a fresh id scoped to parent (None for top-level). It never fails.
func (a *Allocator) Allocate(parent ID) ID {
	a.mu.Lock()
	a.next++
	v := a.next
	a.mu.Unlock()
	return ID{parent: parent.value, value: v}
}

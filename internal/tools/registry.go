/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package tools defines the editing tools known to the toolbar: their
// identifiers, hotkeys and icon outlines, in a fixed registration order.
package tools

import (
	"fmt"
	"sort"

	"glyphedit/internal/vector"
)

// ToolID names an editing tool.
type ToolID string

const (
	Select    ToolID = "Select"
	Pen       ToolID = "Pen"
	Knife     ToolID = "Knife"
	Preview   ToolID = "Preview"
	Measure   ToolID = "Measure"
	Rectangle ToolID = "Rectangle"
	Ellipse   ToolID = "Ellipse"
)

// Descriptor is an immutable tool entry: its id, icon outline and hotkey.
type Descriptor struct {
	Name   ToolID
	Icon   vector.Path
	Hotkey Hotkey
}

// Registry is an ordered, fixed list of descriptors. Order is both the
// hotkey tie-break order and the toolbar layout order.
type Registry struct {
	items []Descriptor
}

// NewRegistry copies items into a registry. An empty registry is rejected
// because the toolbar always needs one selected tool.
func NewRegistry(items ...Descriptor) (*Registry, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("tool registry needs at least one tool")
	}
	return &Registry{items: append([]Descriptor(nil), items...)}, nil
}

// DefaultRegistry returns the built-in tools in toolbar order.
func DefaultRegistry() *Registry {
	r, _ := NewRegistry(
		Descriptor{Name: Select, Icon: SelectIcon(), Hotkey: NewHotkey(0, "v")},
		Descriptor{Name: Pen, Icon: PenIcon(), Hotkey: NewHotkey(0, "p")},
		Descriptor{Name: Knife, Icon: KnifeIcon(), Hotkey: NewHotkey(0, "e")},
		Descriptor{Name: Preview, Icon: PreviewIcon(), Hotkey: NewHotkey(0, "h")},
		Descriptor{Name: Measure, Icon: MeasureIcon(), Hotkey: NewHotkey(0, "m")},
		Descriptor{Name: Rectangle, Icon: RectangleIcon(), Hotkey: NewHotkey(0, "u")},
		Descriptor{Name: Ellipse, Icon: EllipseIcon(), Hotkey: NewHotkey(ModShift, "u")},
	)
	return r
}

func (r *Registry) Len() int { return len(r.items) }

// At returns the i-th descriptor.
func (r *Registry) At(i int) Descriptor { return r.items[i] }

// Descriptors returns a copy of the items in order.
func (r *Registry) Descriptors() []Descriptor { return append([]Descriptor(nil), r.items...) }

// Index returns the position of id.
func (r *Registry) Index(id ToolID) (int, bool) {
	for i, d := range r.items {
		if d.Name == id {
			return i, true
		}
	}
	return -1, false
}

// Match returns the index of the first descriptor whose hotkey matches ev.
// Duplicate bindings resolve to the earlier registration.
func (r *Registry) Match(ev KeyEvent) (int, bool) {
	for i, d := range r.items {
		if d.Hotkey.Matches(ev) {
			return i, true
		}
	}
	return -1, false
}

// WithHotkeys returns a copy with hotkeys replaced for the named tools.
// Order is unchanged. Names not in the registry are returned as unknown.
func (r *Registry) WithHotkeys(overrides map[ToolID]Hotkey) (*Registry, []ToolID) {
	out := &Registry{items: append([]Descriptor(nil), r.items...)}
	var unknown []ToolID
	for id, hk := range overrides {
		i, ok := out.Index(id)
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		out.items[i].Hotkey = hk
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	return out, unknown
}

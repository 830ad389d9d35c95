/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package paint records drawing as a flat display list so that widgets can
// be painted without a live window and replayed by any backend.
package paint

import "glyphedit/internal/vector"

type OpKind uint8

const (
	OpFill OpKind = iota
	OpStroke
	OpBlurredRect
	OpPushClip
	OpPopClip
)

// Op is one drawing operation. Paths and rects are in list coordinates,
// i.e. already transformed.
type Op struct {
	Kind   OpKind
	Path   vector.Path
	Rect   vector.Rect
	Color  vector.Color
	Width  float64 // stroke width
	Radius float64 // blur radius
}

// List is a display list plus the current transform used while recording.
type List struct {
	Ops   []Op
	xf    vector.Affine2D
	stack []vector.Affine2D
	clips int
}

// NewList returns an empty list with the identity transform.
func NewList() *List { return &List{xf: vector.Identity} }

// Transform returns the transform currently applied to recorded geometry.
func (l *List) Transform() vector.Affine2D { return l.xf }

func (l *List) Fill(p vector.Path, c vector.Color) {
	l.Ops = append(l.Ops, Op{Kind: OpFill, Path: p.Transform(l.xf), Color: c})
}

func (l *List) Stroke(p vector.Path, c vector.Color, width float64) {
	l.Ops = append(l.Ops, Op{Kind: OpStroke, Path: p.Transform(l.xf), Color: c, Width: width})
}

// BlurredRect records a soft shadow rectangle. Only translation is applied to r.
func (l *List) BlurredRect(r vector.Rect, radius float64, c vector.Color) {
	o := l.xf.Apply(r.Min())
	l.Ops = append(l.Ops, Op{Kind: OpBlurredRect, Rect: vector.RectFromOriginSize(o, r.Size()), Radius: radius, Color: c})
}

// Clip restricts following operations to p until the enclosing WithSave returns.
func (l *List) Clip(p vector.Path) {
	l.clips++
	l.Ops = append(l.Ops, Op{Kind: OpPushClip, Path: p.Transform(l.xf)})
}

// WithSave runs f and afterwards restores the transform and pops any clips f added.
func (l *List) WithSave(f func(*List)) {
	l.stack = append(l.stack, l.xf)
	clips := l.clips
	f(l)
	for l.clips > clips {
		l.clips--
		l.Ops = append(l.Ops, Op{Kind: OpPopClip})
	}
	l.xf = l.stack[len(l.stack)-1]
	l.stack = l.stack[:len(l.stack)-1]
}

// Translate prepends a translation to the current transform.
func (l *List) Translate(dx, dy float64) { l.xf = l.xf.Mul(vector.Translate(dx, dy)) }

// Bounds returns the union of the bounds of all recorded geometry.
func (l *List) Bounds() vector.Rect {
	var b vector.Rect
	first := true
	for _, op := range l.Ops {
		var r vector.Rect
		switch op.Kind {
		case OpFill, OpStroke:
			r = op.Path.Bounds().Inset(-op.Width/2, -op.Width/2)
		case OpBlurredRect:
			r = op.Rect.Inset(-op.Radius, -op.Radius)
		default:
			continue
		}
		if first {
			b = r
			first = false
		} else {
			b = b.Union(r)
		}
	}
	return b
}

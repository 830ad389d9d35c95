/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package widget

import (
	"glyphedit/internal/command"
	"glyphedit/internal/paint"
	"glyphedit/internal/vector"
)

const (
	panelCornerRadius = 5.0
	panelShadowBlur   = 4.0
)

var panelShadowOffset = vector.Pt{X: 2, Y: 2}

// Insets is extra paint area around a widget's layout box.
type Insets struct {
	Left, Top, Right, Bottom float64
}

// Expand grows r by the insets.
func (in Insets) Expand(r vector.Rect) vector.Rect {
	return vector.R(r.X-in.Left, r.Y-in.Top, r.W+in.Left+in.Right, r.H+in.Top+in.Bottom)
}

// FloatingPanel draws rounded, shadowed chrome around one inner widget and
// hides it while preview mode is on.
type FloatingPanel struct {
	inner  Widget
	size   vector.Size
	hidden bool
}

// NewFloatingPanel wraps inner.
func NewFloatingPanel(inner Widget) *FloatingPanel { return &FloatingPanel{inner: inner} }

func (p *FloatingPanel) Kind() Kind { return KindFloatingPanel }
func (p *FloatingPanel) sealed()    {}

// Inner returns the wrapped widget.
func (p *FloatingPanel) Inner() Widget { return p.inner }

// Hidden reports whether preview mode has hidden the panel.
func (p *FloatingPanel) Hidden() bool { return p.hidden }

// PaintInsets reports how far the blurred shadow reaches past the layout
// box on each side.
func (p *FloatingPanel) PaintInsets() Insets {
	return Insets{
		Left:   panelShadowBlur - panelShadowOffset.X,
		Top:    panelShadowBlur - panelShadowOffset.Y,
		Right:  panelShadowOffset.X + panelShadowBlur,
		Bottom: panelShadowOffset.Y + panelShadowBlur,
	}
}

// PaintRect is the laid-out box grown by PaintInsets, in panel coordinates.
func (p *FloatingPanel) PaintRect() vector.Rect {
	return p.PaintInsets().Expand(vector.RectFromOriginSize(vector.Pt{}, p.size))
}

// Event applies SetPreviewVisibility and forwards everything to the inner
// widget. Mouse events keep reaching a hidden toolbar, which therefore
// still swallows clicks over its area.
func (p *FloatingPanel) Event(ctx *EventCtx, ev Event) {
	if ev.Kind == EventCommand && ev.Command.Kind == command.KindSetPreviewVisibility {
		if p.hidden != ev.Command.Preview {
			p.hidden = ev.Command.Preview
			ctx.RequestPaint()
		}
	}
	p.inner.Event(ctx, ev)
}

func (p *FloatingPanel) Layout(bc Constraints) vector.Size {
	p.size = p.inner.Layout(bc)
	return p.size
}

func (p *FloatingPanel) Paint(l *paint.List) {
	if p.hidden {
		return
	}
	frame := vector.RectFromOriginSize(vector.Pt{}, p.size)
	shape := vector.RoundedRectPath(frame, panelCornerRadius)

	l.BlurredRect(frame.Offset(panelShadowOffset.X, panelShadowOffset.Y), panelShadowBlur, vector.Grey(0.5))
	l.Fill(shape, bgDefault)
	l.WithSave(func(l *paint.List) {
		l.Clip(shape)
		p.inner.Paint(l)
	})
	l.Stroke(shape, vector.Black, borderStrokeWidth)
}

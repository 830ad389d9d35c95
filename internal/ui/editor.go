//go:build fyne

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"glyphedit/internal/export"
	"glyphedit/internal/paint"
	"glyphedit/internal/session"
	"glyphedit/internal/vector"
	gw "glyphedit/internal/widget"
)

// chromeScale renders the toolbar at twice its logical size so it stays
// sharp on high density screens.
const chromeScale = 2

// EditorCanvas is the window's drawing area: a dark work surface with the
// floating toolbar painted at a fixed offset. Mouse input is forwarded to
// the session in toolbar coordinates.
type EditorCanvas struct {
	widget.BaseWidget
	sess   *session.Session
	origin fyne.Position
	// OnResult is called after every forwarded event.
	OnResult func(session.Result)
}

var _ desktop.Mouseable = (*EditorCanvas)(nil)

func NewEditorCanvas(s *session.Session) *EditorCanvas {
	ec := &EditorCanvas{sess: s, origin: fyne.NewPos(16, 16)}
	ec.ExtendBaseWidget(ec)
	return ec
}

func (e *EditorCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 30, G: 30, B: 34, A: 255})
	chrome := canvas.NewImageFromImage(nil)
	chrome.FillMode = canvas.ImageFillStretch
	r := &editorRenderer{ec: e, bg: bg, chrome: chrome, objects: []fyne.CanvasObject{bg, chrome}}
	r.paintChrome()
	return r
}

// toToolbar maps a widget position into toolbar coordinates.
func (e *EditorCanvas) toToolbar(p fyne.Position) vector.Pt {
	return vector.Pt{X: float64(p.X - e.origin.X), Y: float64(p.Y - e.origin.Y)}
}

func (e *EditorCanvas) MouseDown(ev *desktop.MouseEvent) {
	e.forward(gw.MouseDown(e.toToolbar(ev.Position)))
}

func (e *EditorCanvas) MouseUp(ev *desktop.MouseEvent) {
	e.forward(gw.MouseUp(e.toToolbar(ev.Position)))
}

// Key forwards a key press or release from the window.
func (e *EditorCanvas) Key(ev gw.Event) { e.forward(ev) }

// Dispatch forwards a command from a menu.
func (e *EditorCanvas) Dispatch(res session.Result) { e.done(res) }

func (e *EditorCanvas) forward(ev gw.Event) { e.done(e.sess.HandleInput(ev)) }

func (e *EditorCanvas) done(res session.Result) {
	if res.Repaint {
		e.Refresh()
	}
	if e.OnResult != nil {
		e.OnResult(res)
	}
}

type editorRenderer struct {
	ec      *EditorCanvas
	bg      *canvas.Rectangle
	chrome  *canvas.Image
	frame   vector.Rect
	objects []fyne.CanvasObject
}

func (r *editorRenderer) Destroy()                     {}
func (r *editorRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *editorRenderer) MinSize() fyne.Size {
	s := r.ec.sess.Size()
	return fyne.NewSize(float32(s.W)+2*r.ec.origin.X, float32(s.H)+2*r.ec.origin.Y)
}

func (r *editorRenderer) Refresh() {
	r.paintChrome()
	r.Layout(r.ec.Size())
	canvas.Refresh(r.ec)
}

func (r *editorRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	r.chrome.Move(fyne.NewPos(r.ec.origin.X+float32(r.frame.X), r.ec.origin.Y+float32(r.frame.Y)))
	r.chrome.Resize(fyne.NewSize(float32(r.frame.W), float32(r.frame.H)))
}

// paintChrome re-renders the floating panel into the chrome image.
func (r *editorRenderer) paintChrome() {
	if r.ec.sess.PanelHidden() {
		r.chrome.Hide()
		return
	}
	l := paint.NewList()
	panel := r.ec.sess.Panel()
	panel.Paint(l)
	opt := export.Options{Margin: 1, Scale: chromeScale}
	r.frame = panel.PaintRect().Inset(-opt.Margin, -opt.Margin)
	r.chrome.Image = export.Render(l, opt)
	r.chrome.Show()
	r.chrome.Refresh()
}

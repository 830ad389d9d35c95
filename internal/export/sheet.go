/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"glyphedit/internal/paint"
	"glyphedit/internal/tools"
	"glyphedit/internal/vector"
)

// Tool sheet geometry in list units.
const (
	sheetIcon    = 40.0
	sheetRow     = 48.0
	sheetLabelX  = 52.0
	sheetWidth   = 200.0
	sheetIconPad = 5.0
)

// SheetList paints one row per tool: the icon on the left, room for the
// label on the right.
func SheetList(reg *tools.Registry) *paint.List {
	l := paint.NewList()
	h := float64(reg.Len())*sheetRow - (sheetRow - sheetIcon)
	l.Fill(vector.RectPath(vector.R(0, 0, sheetWidth, h)), vector.Grey8(0xDD))
	box := vector.Size{W: sheetIcon, H: sheetIcon}
	for i, d := range reg.Descriptors() {
		icon := tools.Fit(d.Icon, box, sheetIconPad)
		l.WithSave(func(l *paint.List) {
			l.Translate(0, float64(i)*sheetRow)
			l.Stroke(vector.RectPath(vector.R(0, 0, sheetIcon, sheetIcon)), vector.Black, 1)
			l.Fill(icon, vector.White)
			l.Stroke(icon, vector.Black, 1.5)
		})
	}
	return l
}

// sheetLabel is the text next to a tool icon.
func sheetLabel(d tools.Descriptor) string {
	if d.Hotkey.Key == "" {
		return string(d.Name)
	}
	return fmt.Sprintf("%s (%s)", d.Name, d.Hotkey)
}

// Sheet renders the tool sheet with labels drawn in the 7x13 bitmap face.
// Labels do not scale with opt.Scale.
func Sheet(reg *tools.Registry, opt Options) *image.RGBA {
	opt = opt.withDefaults()
	l := SheetList(reg)
	img := Render(l, opt)
	fr := frame(l, opt)
	d := &font.Drawer{Dst: img, Src: image.NewUniform(color.Black), Face: basicfont.Face7x13}
	ascent := d.Face.Metrics().Ascent
	for i, desc := range reg.Descriptors() {
		x := (sheetLabelX - fr.X) * opt.Scale
		mid := (float64(i)*sheetRow + sheetIcon/2 - fr.Y) * opt.Scale
		d.Dot = fixed.Point26_6{
			X: fixed.I(int(math.Round(x))),
			Y: fixed.I(int(math.Round(mid))) + ascent/2,
		}
		d.DrawString(sheetLabel(desc))
	}
	return img
}

// SheetPNG writes Sheet as PNG.
func SheetPNG(w io.Writer, reg *tools.Registry, opt Options) error {
	return png.Encode(w, Sheet(reg, opt))
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tools

import "glyphedit/internal/vector"

// Icon outlines in font units. They are fitted into toolbar slots by Fit.

// Fit scales p uniformly so its longer side equals box's longer side minus
// 2*padding, then centres it in box.
func Fit(p vector.Path, box vector.Size, padding float64) vector.Path {
	b := p.Bounds()
	side := b.Size().MaxSide()
	if side == 0 {
		return p.Clone()
	}
	s := (box.MaxSide() - 2*padding) / side
	// move to origin first so that the centring offset only depends on size
	m := vector.Scale(s, s).Mul(vector.Translate(-b.X, -b.Y))
	off := vector.Pt{X: (box.W - b.W*s) / 2, Y: (box.H - b.H*s) / 2}
	return p.Transform(vector.Translate(off.X, off.Y).Mul(m))
}

func SelectIcon() vector.Path {
	var p vector.Path
	p.MoveTo(111, 483)
	p.LineTo(202, 483)
	p.LineTo(202, 328)
	p.LineTo(312, 361)
	p.LineTo(156, 0)
	p.LineTo(0, 360)
	p.LineTo(111, 330)
	p.LineTo(111, 483)
	p.Close()

	p = p.Transform(vector.Rotate(-0.5))
	o := p.Bounds().Min()
	return p.Transform(vector.Translate(-o.X, -o.Y))
}

func PenIcon() vector.Path {
	var p vector.Path
	p.MoveTo(97, 0)
	p.LineTo(214, 0)
	p.LineTo(273, 241)
	p.LineTo(315, 321)
	p.LineTo(260, 438)
	p.LineTo(260, 621)
	p.LineTo(50, 621)
	p.LineTo(50, 438)
	p.LineTo(0, 321)
	p.LineTo(45, 241)
	p.LineTo(97, 0)
	p.Close()

	p.MoveTo(155, 311)
	p.LineTo(155, 0)
	p.Close()
	p.Extend(vector.CirclePath(vector.Pt{X: 155, Y: 361}, 50))
	return p
}

func PreviewIcon() vector.Path {
	var p vector.Path
	p.MoveTo(304.5, 576.5)
	p.CubicTo(304.5, 576.5, 300.5, 406.5, 302.5, 386.5)
	p.CubicTo(316.5, 264.5, 475.5, 281.5, 487.5, 219.5)
	p.CubicTo(491.5, 200.5, 468.5, 192.5, 444.5, 199.5)
	p.CubicTo(420.5, 206.5, 300.5, 257.5, 301.5, 238.5)
	p.CubicTo(302.5, 214.5, 387.5, 176.5, 412.5, 117.5)
	p.CubicTo(437.5, 58.5, 369.5, 88.5, 359.5, 103.5)
	p.CubicTo(349.5, 118.5, 283.5, 198.5, 262.5, 223.5)
	p.CubicTo(241.5, 248.5, 240.5, 237.5, 248.5, 218.5)
	p.CubicTo(256.5, 199.5, 263.5, 130.5, 298.5, 84.5)
	p.CubicTo(333.5, 38.5, 252.5, 15.5, 227.5, 48.5)
	p.CubicTo(202.5, 81.5, 219.5, 219.5, 214.5, 237.5)
	p.CubicTo(214.5, 237.5, 215.5, 246.5, 199.5, 240.5)
	p.CubicTo(183.5, 234.5, 171.5, 135.5, 183.5, 95.5)
	p.CubicTo(195.5, 55.5, 162.5, -46.5, 128.5, 24.5)
	p.CubicTo(94.5, 95.5, 142.5, 220.5, 145.5, 248.5)
	p.CubicTo(148.5, 276.5, 129.5, 296.5, 108.5, 260.5)
	p.CubicTo(87.5, 224.5, 16.5, 142.5, 3.5, 155.5)
	p.CubicTo(-9.5, 168.5, 14.5, 263.5, 54.5, 308.5)
	p.CubicTo(94.5, 353.5, 161.5, 323.5, 163.5, 381.5)
	p.LineTo(164.5, 577.5)
	p.LineTo(304.5, 576.5)
	p.Close()
	return p
}

func RectangleIcon() vector.Path {
	var p vector.Path
	p.MoveTo(0, 0)
	p.LineTo(246, 0)
	p.LineTo(246, 246)
	p.LineTo(0, 246)
	p.LineTo(0, 0)
	p.Close()

	p.MoveTo(404, 404)
	p.LineTo(140, 404)
	p.LineTo(140, 140)
	p.LineTo(404, 140)
	p.LineTo(404, 404)
	p.Close()
	return p
}

func KnifeIcon() vector.Path {
	var p vector.Path
	p.MoveTo(174, 647)
	p.LineTo(50, 647)
	p.LineTo(50, 218)
	p.LineTo(174, 218)
	p.LineTo(174, 647)
	p.Close()

	p.MoveTo(50, 183)
	p.LineTo(50, 0)
	p.LineTo(175, 183)
	p.LineTo(50, 183)
	p.Close()

	p.MoveTo(0, 311)
	p.CubicTo(0, 281, 30, 261, 50, 261)
	p.CubicTo(74, 261, 100, 289, 100, 311)
	p.CubicTo(100, 333, 71, 361, 50, 361)
	p.CubicTo(29, 361, 0, 340, 0, 311)
	p.Close()
	return p
}

func EllipseIcon() vector.Path {
	var p vector.Path
	p.MoveTo(73, 0)
	p.CubicTo(33, 0, 0, 49, 0, 109)
	p.CubicTo(0, 170, 33, 219, 73, 219)
	p.CubicTo(113, 219, 146, 170, 146, 109)
	p.CubicTo(146, 49, 113, 0, 73, 0)
	p.Close()

	p.MoveTo(243, 109)
	p.CubicTo(243, 79, 196, 54, 137, 54)
	p.CubicTo(78, 54, 31, 79, 31, 109)
	p.CubicTo(31, 140, 78, 165, 137, 165)
	p.CubicTo(196, 165, 243, 140, 243, 109)
	p.Close()
	return p
}

// MeasureIcon is a plain ruler bar.
func MeasureIcon() vector.Path {
	return vector.RectPath(vector.R(0, 0, 200, 20))
}

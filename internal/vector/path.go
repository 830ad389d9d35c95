/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Path commands and shapes.

type PathOp uint8

const (
	MoveTo PathOp = iota
	LineTo
	QuadTo  // quadratic bezier (cx, cy, x, y)
	CubicTo // cubic bezier (cx1, cy1, cx2, cy2, x, y)
	Close
)

type PathCmd struct {
	Op   PathOp
	Data [6]float64 // enough for cubic; unused slots are zero
}

type Path struct{ Cmds []PathCmd }

func (p *Path) MoveTo(x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: MoveTo, Data: [6]float64{x, y}})
}
func (p *Path) LineTo(x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: LineTo, Data: [6]float64{x, y}})
}
func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: QuadTo, Data: [6]float64{cx, cy, x, y}})
}
func (p *Path) CubicTo(cx1, cy1, cx2, cy2, x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: CubicTo, Data: [6]float64{cx1, cy1, cx2, cy2, x, y}})
}
func (p *Path) Close() { p.Cmds = append(p.Cmds, PathCmd{Op: Close}) }

// Extend appends all commands of o.
func (p *Path) Extend(o Path) { p.Cmds = append(p.Cmds, o.Cmds...) }

// Clone returns a deep copy.
func (p Path) Clone() Path { return Path{Cmds: append([]PathCmd(nil), p.Cmds...)} }

// Closed reports whether every subpath ends with a Close command.
func (p Path) Closed() bool {
	if len(p.Cmds) == 0 {
		return false
	}
	open := false
	for _, c := range p.Cmds {
		switch c.Op {
		case MoveTo:
			if open {
				return false
			}
			open = true
		case Close:
			open = false
		}
	}
	return !open
}

// Transform returns a copy of the path with m applied to every point.
func (p Path) Transform(m Affine2D) Path {
	out := Path{Cmds: make([]PathCmd, len(p.Cmds))}
	for i, c := range p.Cmds {
		n := pointsIn(c.Op)
		for j := 0; j < n; j++ {
			q := m.Apply(Pt{c.Data[2*j], c.Data[2*j+1]})
			c.Data[2*j], c.Data[2*j+1] = q.X, q.Y
		}
		out.Cmds[i] = c
	}
	return out
}

func pointsIn(op PathOp) int {
	switch op {
	case MoveTo, LineTo:
		return 1
	case QuadTo:
		return 2
	case CubicTo:
		return 3
	default:
		return 0
	}
}

// Bounds returns an axis-aligned bounding box of the path using a simple
// approximation by considering control points. This is sufficient for UI layout
// and icon fitting.
func (p Path) Bounds() Rect {
	minX, minY := +1e18, +1e18
	maxX, maxY := -1e18, -1e18
	for _, c := range p.Cmds {
		n := pointsIn(c.Op)
		for j := 0; j < n; j++ {
			x, y := c.Data[2*j], c.Data[2*j+1]
			if x < minX {
				minX = x
			}
			if y < minY {
				minY = y
			}
			if x > maxX {
				maxX = x
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if minX > maxX || minY > maxY {
		return Rect{}
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498307936

// CirclePath approximates a circle with four cubic segments.
func CirclePath(c Pt, r float64) Path {
	k := r * kappa
	var p Path
	p.MoveTo(c.X+r, c.Y)
	p.CubicTo(c.X+r, c.Y+k, c.X+k, c.Y+r, c.X, c.Y+r)
	p.CubicTo(c.X-k, c.Y+r, c.X-r, c.Y+k, c.X-r, c.Y)
	p.CubicTo(c.X-r, c.Y-k, c.X-k, c.Y-r, c.X, c.Y-r)
	p.CubicTo(c.X+k, c.Y-r, c.X+r, c.Y-k, c.X+r, c.Y)
	p.Close()
	return p
}

// RectPath returns the outline of r.
func RectPath(r Rect) Path {
	var p Path
	p.MoveTo(r.X, r.Y)
	p.LineTo(r.X+r.W, r.Y)
	p.LineTo(r.X+r.W, r.Y+r.H)
	p.LineTo(r.X, r.Y+r.H)
	p.Close()
	return p
}

// RoundedRectPath returns the outline of r with uniform corner radius.
func RoundedRectPath(r Rect, radius float64) Path {
	if radius <= 0 {
		return RectPath(r)
	}
	radius = min(radius, r.W/2, r.H/2)
	k := radius * kappa
	x0, y0, x1, y1 := r.X, r.Y, r.X+r.W, r.Y+r.H
	var p Path
	p.MoveTo(x0+radius, y0)
	p.LineTo(x1-radius, y0)
	p.CubicTo(x1-radius+k, y0, x1, y0+radius-k, x1, y0+radius)
	p.LineTo(x1, y1-radius)
	p.CubicTo(x1, y1-radius+k, x1-radius+k, y1, x1-radius, y1)
	p.LineTo(x0+radius, y1)
	p.CubicTo(x0+radius-k, y1, x0, y1-radius+k, x0, y1-radius)
	p.LineTo(x0, y0+radius)
	p.CubicTo(x0, y0+radius-k, x0+radius-k, y0, x0+radius, y0)
	p.Close()
	return p
}

// LinePath returns an open two-point path.
func LinePath(a, b Pt) Path {
	var p Path
	p.MoveTo(a.X, a.Y)
	p.LineTo(b.X, b.Y)
	return p
}

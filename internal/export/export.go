/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export writes paint display lists to SVG, PNG and PDF.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"glyphedit/internal/paint"
	"glyphedit/internal/vector"
)

// Options control every exporter. Zero values pick the defaults.
type Options struct {
	// Margin is added around the display list bounds, in list units.
	Margin float64
	// Scale is output pixels per list unit (PNG and the SVG width/height
	// attributes only).
	Scale float64
	// Background fills the whole output unless fully transparent.
	Background vector.Color
	// Title is stored as document metadata where the format supports it.
	Title string
}

const (
	defaultMargin = 8
	defaultScale  = 1
	// curveSteps is the number of segments per flattened curve.
	curveSteps = 16
)

func (o Options) withDefaults() Options {
	if o.Margin <= 0 {
		o.Margin = defaultMargin
	}
	if o.Scale <= 0 {
		o.Scale = defaultScale
	}
	if o.Title == "" {
		o.Title = "glyphedit"
	}
	return o
}

// ErrUnknownFormat is returned by File for unsupported extensions.
var ErrUnknownFormat = errors.New("unknown export format")

// File writes l to path, picking the format from the extension
// (.svg, .png or .pdf).
func File(path string, l *paint.List, opt Options) error {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".svg", ".png", ".pdf":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", ext[1:], err)
	}
	switch ext {
	case ".svg":
		err = SVG(f, l, opt)
	case ".png":
		err = PNG(f, l, opt)
	case ".pdf":
		err = PDF(f, l, opt)
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close %s: %w", ext[1:], cerr)
	}
	return err
}

// frame returns the page rect in list coordinates.
func frame(l *paint.List, opt Options) vector.Rect {
	b := l.Bounds()
	if b.Empty() {
		b = vector.R(0, 0, 1, 1)
	}
	return b.Inset(-opt.Margin, -opt.Margin)
}

// flatten turns p into polylines, one per subpath. Closed reports whether
// each polyline ends with Close.
func flatten(p vector.Path) (polys [][]vector.Pt, closed []bool) {
	var cur []vector.Pt
	var start, last vector.Pt
	flush := func(c bool) {
		if len(cur) > 1 {
			polys = append(polys, cur)
			closed = append(closed, c)
		}
		cur = nil
	}
	for _, c := range p.Cmds {
		d := c.Data
		switch c.Op {
		case vector.MoveTo:
			flush(false)
			start = vector.Pt{X: d[0], Y: d[1]}
			last = start
			cur = []vector.Pt{start}
		case vector.LineTo:
			last = vector.Pt{X: d[0], Y: d[1]}
			cur = append(cur, last)
		case vector.QuadTo:
			p0, p1, p2 := last, vector.Pt{X: d[0], Y: d[1]}, vector.Pt{X: d[2], Y: d[3]}
			for i := 1; i <= curveSteps; i++ {
				t := float64(i) / curveSteps
				u := 1 - t
				cur = append(cur, vector.Pt{
					X: u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
					Y: u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
				})
			}
			last = p2
		case vector.CubicTo:
			p0 := last
			p1, p2, p3 := vector.Pt{X: d[0], Y: d[1]}, vector.Pt{X: d[2], Y: d[3]}, vector.Pt{X: d[4], Y: d[5]}
			for i := 1; i <= curveSteps; i++ {
				t := float64(i) / curveSteps
				u := 1 - t
				a, b, cc, dd := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
				cur = append(cur, vector.Pt{
					X: a*p0.X + b*p1.X + cc*p2.X + dd*p3.X,
					Y: a*p0.Y + b*p1.Y + cc*p2.Y + dd*p3.Y,
				})
			}
			last = p3
		case vector.Close:
			if len(cur) > 0 {
				cur = append(cur, start)
			}
			flush(true)
			last = start
		}
	}
	flush(false)
	return polys, closed
}

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
	"image/draw"
	"image/png"
	"io"
	"math"

	xvec "golang.org/x/image/vector"

	"glyphedit/internal/paint"
	"glyphedit/internal/vector"
)

// PNG rasterizes l and writes it as PNG.
func PNG(w io.Writer, l *paint.List, opt Options) error {
	if err := png.Encode(w, Render(l, opt)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Render rasterizes l into a new image with anti-aliased fills and strokes.
// Pixel (0, 0) is the top-left corner of the list bounds plus margin.
func Render(l *paint.List, opt Options) *image.RGBA {
	opt = opt.withDefaults()
	fr := frame(l, opt)
	w := int(math.Ceil(fr.W * opt.Scale))
	h := int(math.Ceil(fr.H * opt.Scale))
	r := &raster{
		dst:    image.NewRGBA(image.Rect(0, 0, w, h)),
		origin: fr.Min(),
		scale:  opt.Scale,
	}
	if opt.Background.A > 0 {
		draw.Draw(r.dst, r.dst.Bounds(), image.NewUniform(nrgba(opt.Background)), image.Point{}, draw.Src)
	}
	for _, op := range l.Ops {
		switch op.Kind {
		case paint.OpFill:
			r.paint(r.fillMask(op.Path), op.Color)
		case paint.OpStroke:
			r.paint(r.strokeMask(op.Path, op.Width), op.Color)
		case paint.OpBlurredRect:
			r.paint(r.blurMask(op.Rect, op.Radius), op.Color)
		case paint.OpPushClip:
			m := r.fillMask(op.Path)
			if n := len(r.clips); n > 0 {
				intersect(m, r.clips[n-1])
			}
			r.clips = append(r.clips, m)
		case paint.OpPopClip:
			if n := len(r.clips); n > 0 {
				r.clips = r.clips[:n-1]
			}
		}
	}
	return r.dst
}

type raster struct {
	dst    *image.RGBA
	origin vector.Pt
	scale  float64
	clips  []*image.Alpha
}

func nrgba(c vector.Color) color.NRGBA { return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A} }

func (r *raster) px(p vector.Pt) vector.Pt {
	return vector.Pt{X: (p.X - r.origin.X) * r.scale, Y: (p.Y - r.origin.Y) * r.scale}
}

func (r *raster) paint(mask *image.Alpha, c vector.Color) {
	if n := len(r.clips); n > 0 {
		intersect(mask, r.clips[n-1])
	}
	draw.DrawMask(r.dst, r.dst.Bounds(), image.NewUniform(nrgba(c)), image.Point{}, mask, image.Point{}, draw.Over)
}

// intersect multiplies m by clip in place; both cover the same bounds.
func intersect(m, clip *image.Alpha) {
	for i := range m.Pix {
		m.Pix[i] = uint8(uint16(m.Pix[i]) * uint16(clip.Pix[i]) / 255)
	}
}

func (r *raster) rasterize(polys [][]vector.Pt) *image.Alpha {
	b := r.dst.Bounds()
	z := xvec.NewRasterizer(b.Dx(), b.Dy())
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		z.MoveTo(float32(poly[0].X), float32(poly[0].Y))
		for _, p := range poly[1:] {
			z.LineTo(float32(p.X), float32(p.Y))
		}
		z.ClosePath()
	}
	mask := image.NewAlpha(b)
	z.Draw(mask, b, image.Opaque, image.Point{})
	return mask
}

func (r *raster) fillMask(p vector.Path) *image.Alpha {
	polys, _ := flatten(p)
	for _, poly := range polys {
		for i := range poly {
			poly[i] = r.px(poly[i])
		}
	}
	return r.rasterize(polys)
}

// strokeMask covers every segment with a quad and every vertex with an
// octagon. All pieces share one winding so the non-zero rule unions them.
func (r *raster) strokeMask(p vector.Path, width float64) *image.Alpha {
	hw := math.Max(width*r.scale, 1) / 2
	lines, _ := flatten(p)
	var pieces [][]vector.Pt
	for _, line := range lines {
		for i := range line {
			line[i] = r.px(line[i])
		}
		for i, a := range line {
			pieces = append(pieces, oriented(octagon(a, hw)))
			if i == 0 {
				continue
			}
			prev := line[i-1]
			dx, dy := a.X-prev.X, a.Y-prev.Y
			n := math.Hypot(dx, dy)
			if n == 0 {
				continue
			}
			nx, ny := -dy/n*hw, dx/n*hw
			pieces = append(pieces, oriented([]vector.Pt{
				{X: prev.X + nx, Y: prev.Y + ny},
				{X: a.X + nx, Y: a.Y + ny},
				{X: a.X - nx, Y: a.Y - ny},
				{X: prev.X - nx, Y: prev.Y - ny},
			}))
		}
	}
	return r.rasterize(pieces)
}

func octagon(c vector.Pt, radius float64) []vector.Pt {
	out := make([]vector.Pt, 8)
	for i := range out {
		a := float64(i) * math.Pi / 4
		out[i] = vector.Pt{X: c.X + radius*math.Cos(a), Y: c.Y + radius*math.Sin(a)}
	}
	return out
}

// oriented returns poly with non-negative signed area.
func oriented(poly []vector.Pt) []vector.Pt {
	area := 0.0
	for i, p := range poly {
		q := poly[(i+1)%len(poly)]
		area += p.X*q.Y - q.X*p.Y
	}
	if area >= 0 {
		return poly
	}
	for i, j := 0, len(poly)-1; i < j; i, j = i+1, j-1 {
		poly[i], poly[j] = poly[j], poly[i]
	}
	return poly
}

// blurMask approximates a gaussian-blurred rectangle with a smoothstep
// falloff over radius outside the rect edges.
func (r *raster) blurMask(rect vector.Rect, radius float64) *image.Alpha {
	b := r.dst.Bounds()
	mask := image.NewAlpha(b)
	lo := r.px(rect.Min())
	hi := r.px(rect.Max())
	br := math.Max(radius*r.scale, 0)
	y0 := clamp(int(math.Floor(lo.Y-br)), b.Min.Y, b.Max.Y)
	y1 := clamp(int(math.Ceil(hi.Y+br)), b.Min.Y, b.Max.Y)
	x0 := clamp(int(math.Floor(lo.X-br)), b.Min.X, b.Max.X)
	x1 := clamp(int(math.Ceil(hi.X+br)), b.Min.X, b.Max.X)
	for y := y0; y < y1; y++ {
		cy := float64(y) + 0.5
		dy := math.Max(math.Max(lo.Y-cy, cy-hi.Y), 0)
		for x := x0; x < x1; x++ {
			cx := float64(x) + 0.5
			dx := math.Max(math.Max(lo.X-cx, cx-hi.X), 0)
			d := math.Hypot(dx, dy)
			var a float64
			switch {
			case d == 0:
				a = 1
			case br > 0 && d < br:
				t := 1 - d/br
				a = t * t * (3 - 2*t)
			}
			mask.Pix[mask.PixOffset(x, y)] = uint8(a*255 + 0.5)
		}
	}
	return mask
}

func clamp(v, lo, hi int) int { return max(lo, min(hi, v)) }

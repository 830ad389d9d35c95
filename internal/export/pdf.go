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
	"io"

	"github.com/jung-kurt/gofpdf"

	"glyphedit/internal/paint"
	"glyphedit/internal/vector"
)

// blurSteps is the number of translucent rings used to fake a blurred
// rectangle; PDF has no blur filter.
const blurSteps = 6

// PDF writes l as a single-page PDF. One list unit is one point.
func PDF(w io.Writer, l *paint.List, opt Options) error {
	opt = opt.withDefaults()
	fr := frame(l, opt)
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: fr.W, Ht: fr.H},
	})
	pdf.SetTitle(opt.Title, true)
	pdf.SetCreator("glyphedit", false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.AddPage()

	at := func(p vector.Pt) (float64, float64) { return p.X - fr.X, p.Y - fr.Y }

	if opt.Background.A > 0 {
		setFill(pdf, opt.Background)
		pdf.Rect(0, 0, fr.W, fr.H, "F")
		pdf.SetAlpha(1, "Normal")
	}

	clips := 0
	for _, op := range l.Ops {
		switch op.Kind {
		case paint.OpFill:
			setFill(pdf, op.Color)
			tracePath(pdf, op.Path, at)
			pdf.DrawPath("f")
		case paint.OpStroke:
			pdf.SetDrawColor(int(op.Color.R), int(op.Color.G), int(op.Color.B))
			pdf.SetAlpha(float64(op.Color.A)/255, "Normal")
			pdf.SetLineWidth(op.Width)
			pdf.SetLineCapStyle("round")
			pdf.SetLineJoinStyle("round")
			tracePath(pdf, op.Path, at)
			pdf.DrawPath("D")
		case paint.OpBlurredRect:
			blurRect(pdf, op, at)
		case paint.OpPushClip:
			polys, _ := flatten(op.Path)
			var pts []gofpdf.PointType
			for _, poly := range polys {
				for _, p := range poly {
					x, y := at(p)
					pts = append(pts, gofpdf.PointType{X: x, Y: y})
				}
			}
			pdf.ClipPolygon(pts, false)
			clips++
		case paint.OpPopClip:
			if clips > 0 {
				pdf.ClipEnd()
				clips--
			}
		}
		pdf.SetAlpha(1, "Normal")
	}
	for ; clips > 0; clips-- {
		pdf.ClipEnd()
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func setFill(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	pdf.SetAlpha(float64(c.A)/255, "Normal")
}

func tracePath(pdf *gofpdf.Fpdf, p vector.Path, at func(vector.Pt) (float64, float64)) {
	pt := func(x, y float64) (float64, float64) { return at(vector.Pt{X: x, Y: y}) }
	for _, c := range p.Cmds {
		d := c.Data
		switch c.Op {
		case vector.MoveTo:
			pdf.MoveTo(pt(d[0], d[1]))
		case vector.LineTo:
			pdf.LineTo(pt(d[0], d[1]))
		case vector.QuadTo:
			cx, cy := pt(d[0], d[1])
			x, y := pt(d[2], d[3])
			pdf.CurveTo(cx, cy, x, y)
		case vector.CubicTo:
			c1x, c1y := pt(d[0], d[1])
			c2x, c2y := pt(d[2], d[3])
			x, y := pt(d[4], d[5])
			pdf.CurveBezierCubicTo(c1x, c1y, c2x, c2y, x, y)
		case vector.Close:
			pdf.ClosePath()
		}
	}
}

// blurRect stacks rings that grow by radius/blurSteps, each adding a slice
// of the colour's alpha, so the edge fades out over radius.
func blurRect(pdf *gofpdf.Fpdf, op paint.Op, at func(vector.Pt) (float64, float64)) {
	pdf.SetFillColor(int(op.Color.R), int(op.Color.G), int(op.Color.B))
	pdf.SetAlpha(float64(op.Color.A)/255/blurSteps, "Normal")
	for i := blurSteps; i >= 1; i-- {
		grow := op.Radius * float64(i-1) / blurSteps
		r := op.Rect.Inset(-grow, -grow)
		x, y := at(r.Min())
		pdf.RoundedRect(x, y, r.W, r.H, grow, "1234", "F")
	}
}

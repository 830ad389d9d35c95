/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"glyphedit/internal/paint"
	"glyphedit/internal/vector"
)

// SVG writes l as a standalone SVG document. Geometry stays in list units;
// the viewBox maps them to width/height pixels at opt.Scale.
func SVG(w io.Writer, l *paint.List, opt Options) error {
	opt = opt.withDefaults()
	fr := frame(l, opt)
	bw := bufio.NewWriter(w)
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(bw, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%dpx\" height=\"%dpx\" viewBox=\"%s %s %s %s\">\n",
		int(math.Ceil(fr.W*opt.Scale)), int(math.Ceil(fr.H*opt.Scale)), num(fr.X), num(fr.Y), num(fr.W), num(fr.H))
	wf("  <title>%s</title>\n", escText(opt.Title))
	if opt.Background.A > 0 {
		wf("  <rect x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\" fill=\"%s\"%s/>\n",
			num(fr.X), num(fr.Y), num(fr.W), num(fr.H), svgColor(opt.Background), svgOpacity("fill", opt.Background))
	}

	blurs := map[float64]string{}
	clipN := 0
	depth := 1
	indent := func() string { return strings.Repeat("  ", depth) }
	for _, op := range l.Ops {
		switch op.Kind {
		case paint.OpFill:
			wf("%s<path d=\"%s\" fill=\"%s\"%s/>\n", indent(), pathData(op.Path), svgColor(op.Color), svgOpacity("fill", op.Color))
		case paint.OpStroke:
			wf("%s<path d=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"%s\"%s/>\n",
				indent(), pathData(op.Path), svgColor(op.Color), num(op.Width), svgOpacity("stroke", op.Color))
		case paint.OpBlurredRect:
			id, ok := blurs[op.Radius]
			if !ok {
				id = fmt.Sprintf("blur%d", len(blurs))
				blurs[op.Radius] = id
				wf("%s<filter id=\"%s\" x=\"-50%%\" y=\"-50%%\" width=\"200%%\" height=\"200%%\"><feGaussianBlur stdDeviation=\"%s\"/></filter>\n",
					indent(), id, num(op.Radius/2))
			}
			r := op.Rect
			wf("%s<rect x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\" fill=\"%s\"%s filter=\"url(#%s)\"/>\n",
				indent(), num(r.X), num(r.Y), num(r.W), num(r.H), svgColor(op.Color), svgOpacity("fill", op.Color), id)
		case paint.OpPushClip:
			id := fmt.Sprintf("clip%d", clipN)
			clipN++
			wf("%s<clipPath id=\"%s\"><path d=\"%s\"/></clipPath>\n", indent(), id, pathData(op.Path))
			wf("%s<g clip-path=\"url(#%s)\">\n", indent(), id)
			depth++
		case paint.OpPopClip:
			if depth > 1 {
				depth--
				wf("%s</g>\n", indent())
			}
		}
	}
	for depth > 1 {
		depth--
		wf("%s</g>\n", indent())
	}
	wf("</svg>\n")
	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func pathData(p vector.Path) string {
	var b strings.Builder
	for i, c := range p.Cmds {
		if i > 0 {
			b.WriteByte(' ')
		}
		d := c.Data
		switch c.Op {
		case vector.MoveTo:
			fmt.Fprintf(&b, "M%s %s", num(d[0]), num(d[1]))
		case vector.LineTo:
			fmt.Fprintf(&b, "L%s %s", num(d[0]), num(d[1]))
		case vector.QuadTo:
			fmt.Fprintf(&b, "Q%s %s %s %s", num(d[0]), num(d[1]), num(d[2]), num(d[3]))
		case vector.CubicTo:
			fmt.Fprintf(&b, "C%s %s %s %s %s %s", num(d[0]), num(d[1]), num(d[2]), num(d[3]), num(d[4]), num(d[5]))
		case vector.Close:
			b.WriteByte('Z')
		}
	}
	return b.String()
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func svgColor(c vector.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func svgOpacity(attr string, c vector.Color) string {
	if c.A == 255 {
		return ""
	}
	return fmt.Sprintf(" %s-opacity=\"%s\"", attr, num(float64(c.A)/255))
}

func escText(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\"", "&quot;").Replace(s)
}

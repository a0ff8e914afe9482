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

	"cropregion/internal/crop"
	"cropregion/internal/vector"
)

// PDFOptions controls PDF output. One canvas unit maps to one point.
type PDFOptions struct {
	Title string
	// Uncompressed leaves content streams readable, which helps debugging.
	Uncompressed bool
}

// WritePDF writes f as a single-page PDF sized to the canvas extent.
func WritePDF(w io.Writer, f crop.Frame, st Style, opt PDFOptions) error {
	ext := f.Mask.Extent
	wd, ht := max(float64(ext.W), 1), max(float64(ext.H), 1)
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	pdf.SetCompression(!opt.Uncompressed)
	if opt.Title != "" {
		pdf.SetTitle(opt.Title, true)
	}
	pdf.SetCreator("cropregion", false)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: wd, Ht: ht})

	setFillColor(pdf, st.Background)
	pdf.Rect(0, 0, wd, ht, "F")

	// "F*" fills with the even-odd rule
	setFillColor(pdf, st.Overlay)
	pdf.SetAlpha(float64(min(max(st.OverlayOpacity, 0), 1)), "Normal")
	for _, ring := range f.Mask.Path.SubPaths() {
		tracePolygon(pdf, ring)
	}
	pdf.DrawPath("F*")
	pdf.SetAlpha(1, "Normal")

	if f.Outline.Len() == 4 {
		pts := f.Outline.Points()
		if st.Outline.Enabled {
			strokePolygon(pdf, pts, st.Outline)
		}
		if st.Dashed.Enabled {
			strokePolygon(pdf, pts, st.Dashed)
		}
	}
	if f.HandlesVisible {
		setFillColor(pdf, st.HandleFill)
		setDrawColor(pdf, st.HandleStroke.Color)
		pdf.SetLineWidth(float64(st.HandleStroke.Width))
		pdf.SetDashPattern(nil, 0)
		for _, h := range f.Handles {
			b := h.Bounds()
			pdf.Rect(float64(b.X), float64(b.Y), float64(b.W), float64(b.H), "FD")
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func tracePolygon(pdf *gofpdf.Fpdf, ring []vector.Pt) {
	if len(ring) < 2 {
		return
	}
	pdf.MoveTo(float64(ring[0].X), float64(ring[0].Y))
	for _, p := range ring[1:] {
		pdf.LineTo(float64(p.X), float64(p.Y))
	}
	pdf.ClosePath()
}

func strokePolygon(pdf *gofpdf.Fpdf, ring []vector.Pt, s vector.Stroke) {
	setDrawColor(pdf, s.Color)
	pdf.SetLineWidth(float64(s.Width))
	dash := make([]float64, len(s.Dash))
	for i, d := range s.Dash {
		dash[i] = float64(d)
	}
	pdf.SetDashPattern(dash, 0)
	tracePolygon(pdf, ring)
	pdf.DrawPath("D")
	pdf.SetDashPattern(nil, 0)
}

func setDrawColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

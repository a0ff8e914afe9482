/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"cropregion/internal/crop"
	"cropregion/internal/vector"
)

// WriteSVG writes f as an SVG document in canvas units. The mask is a single
// path with fill-rule="evenodd", so the region shows as a hole.
func WriteSVG(w io.Writer, f crop.Frame, st Style) error {
	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	ext := f.Mask.Extent
	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%g\" height=\"%g\" viewBox=\"0 0 %g %g\">\n", ext.W, ext.H, ext.W, ext.H)
	wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n", ext.W, ext.H, st.Background.Hex())
	wf("  <path d=\"%s\" fill=\"%s\" fill-opacity=\"%g\" fill-rule=\"%s\"/>\n",
		pathData(f.Mask.Path.SubPaths()), st.Overlay.Hex(), st.OverlayOpacity, f.Mask.Rule)

	if f.Outline.Len() == 4 {
		pts := polyPoints(f.Outline.Points())
		if st.Outline.Enabled {
			wf("  <polygon points=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"%g\"/>\n", pts, st.Outline.Color.Hex(), st.Outline.Width)
		}
		if st.Dashed.Enabled {
			wf("  <polygon points=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"%g\" stroke-dasharray=\"%s\"/>\n",
				pts, st.Dashed.Color.Hex(), st.Dashed.Width, dashArray(st.Dashed.Dash))
		}
	}
	if f.HandlesVisible {
		for _, h := range f.Handles {
			b := h.Bounds()
			wf("  <rect class=\"handle %s\" x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%g\"/>\n",
				h.Role, b.X, b.Y, b.W, b.H, st.HandleFill.Hex(), st.HandleStroke.Color.Hex(), st.HandleStroke.Width)
		}
	}
	wf("</svg>\n")
	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func pathData(rings [][]vector.Pt) string {
	var sb strings.Builder
	for _, ring := range rings {
		for i, p := range ring {
			if i == 0 {
				fmt.Fprintf(&sb, "M%g %g", p.X, p.Y)
			} else {
				fmt.Fprintf(&sb, " L%g %g", p.X, p.Y)
			}
		}
		sb.WriteString(" Z ")
	}
	return strings.TrimSpace(sb.String())
}

func polyPoints(pts []vector.Pt) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%g,%g", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func dashArray(d []float32) string {
	parts := make([]string, len(d))
	for i, v := range d {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return strings.Join(parts, " ")
}

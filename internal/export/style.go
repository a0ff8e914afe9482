/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders an editor frame to files: raster previews (PNG, BMP,
// TIFF), SVG and PDF. The output shows the shadow mask, the region outline and
// the corner handles at canvas scale. It does not extract image pixels.
package export

import (
	"fmt"

	"cropregion/internal/config"
	"cropregion/internal/vector"
)

// Style controls colors and stroke widths of an exported frame.
type Style struct {
	Background     vector.Color
	Overlay        vector.Color
	OverlayOpacity float32
	// Outline is the solid stroke; Dashed is drawn on top of it.
	Outline      vector.Stroke
	Dashed       vector.Stroke
	HandleFill   vector.Color
	HandleStroke vector.Stroke
}

// DefaultStyle mirrors the configuration defaults.
func DefaultStyle() Style {
	return Style{
		Background:     vector.White,
		Overlay:        vector.Orange,
		OverlayOpacity: 0.5,
		Outline:        vector.Stroke{Color: vector.Black, Width: 1.5, Enabled: true},
		Dashed:         vector.Stroke{Color: vector.White, Width: 1.5, Dash: []float32{4, 4}, Enabled: true},
		HandleFill:     vector.White,
		HandleStroke:   vector.Stroke{Color: vector.Black, Width: 1, Enabled: true},
	}
}

// StyleFromConfig derives a style from the user configuration.
func StyleFromConfig(cfg config.AppConfig) (Style, error) {
	st := DefaultStyle()
	var err error
	if st.Overlay, err = vector.ParseHexColor(cfg.Overlay.Color); err != nil {
		return st, fmt.Errorf("overlay color: %w", err)
	}
	st.OverlayOpacity = cfg.Overlay.Opacity
	if st.Outline.Color, err = vector.ParseHexColor(cfg.Outline.Color); err != nil {
		return st, fmt.Errorf("outline color: %w", err)
	}
	if st.Dashed.Color, err = vector.ParseHexColor(cfg.Outline.DashedColor); err != nil {
		return st, fmt.Errorf("dashed outline color: %w", err)
	}
	st.Outline.Width = cfg.Outline.Width
	st.Dashed.Width = cfg.Outline.Width
	st.Dashed.Dash = append([]float32(nil), cfg.Outline.Dash...)
	st.Dashed.Enabled = len(st.Dashed.Dash) > 0
	return st, nil
}

// maskRings returns the mask sub-paths with every ring after the first wound
// opposite to it, so a non-zero rasterizer leaves the region as a hole.
func maskRings(m vector.Path) [][]vector.Pt {
	rings := m.SubPaths()
	if len(rings) == 0 {
		return nil
	}
	outer := vector.SignedArea(rings[0])
	for i := 1; i < len(rings); i++ {
		if a := vector.SignedArea(rings[i]); (a > 0) == (outer > 0) && a != 0 {
			rings[i] = reversed(rings[i])
		}
	}
	return rings
}

func reversed(pts []vector.Pt) []vector.Pt {
	out := make([]vector.Pt, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// dashes splits the closed ring into the "on" pieces of pattern. The pattern
// continues across corners. An empty or all-zero pattern yields every edge.
func dashes(ring []vector.Pt, pattern []float32) [][2]vector.Pt {
	var out [][2]vector.Pt
	var total float32
	for _, d := range pattern {
		total += max(d, 0)
	}
	n := len(ring)
	if n < 2 {
		return nil
	}
	if total <= 0 {
		for i := range ring {
			out = append(out, [2]vector.Pt{ring[i], ring[(i+1)%n]})
		}
		return out
	}
	idx, left, on := 0, max(pattern[0], 0), true
	for i := range ring {
		a, b := ring[i], ring[(i+1)%n]
		l := a.Dist(b)
		for t := float32(0); t < l; {
			if left <= 0 {
				idx = (idx + 1) % len(pattern)
				left, on = max(pattern[idx], 0), !on
				continue
			}
			step := min(left, l-t)
			if on {
				out = append(out, [2]vector.Pt{lerp(a, b, t/l), lerp(a, b, (t+step)/l)})
			}
			t += step
			left -= step
		}
	}
	return out
}

func lerp(a, b vector.Pt, t float32) vector.Pt {
	return vector.Pt{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

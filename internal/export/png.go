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

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	xvector "golang.org/x/image/vector"

	"cropregion/internal/crop"
	"cropregion/internal/vector"
)

// Rasterize draws f into a new image. scale maps canvas units to pixels; values
// <= 0 mean 1.
func Rasterize(f crop.Frame, st Style, scale float32) *image.RGBA {
	if scale <= 0 {
		scale = 1
	}
	w := max(int(math.Ceil(float64(f.Mask.Extent.W*scale))), 1)
	h := max(int(math.Ceil(float64(f.Mask.Extent.H*scale))), 1)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(toNRGBA(st.Background, 1)), image.Point{}, draw.Src)

	r := &raster{img: img, z: xvector.NewRasterizer(w, h), xf: vector.Scale(scale, scale), scale: scale}
	r.fill(maskRings(f.Mask.Path), toNRGBA(st.Overlay, st.OverlayOpacity))

	if f.Outline.Len() == 4 {
		ring := f.Outline.Points()
		if st.Outline.Enabled {
			r.strokeSegments(dashes(ring, nil), st.Outline)
		}
		if st.Dashed.Enabled {
			r.strokeSegments(dashes(ring, st.Dashed.Dash), st.Dashed)
		}
	}
	if f.HandlesVisible {
		for _, hd := range f.Handles {
			sq := hd.Bounds().Corners()
			r.fill([][]vector.Pt{sq}, toNRGBA(st.HandleFill, 1))
			if st.HandleStroke.Enabled {
				r.strokeSegments(dashes(sq, nil), st.HandleStroke)
			}
		}
	}
	return img
}

// WritePNG encodes the rasterized frame as PNG.
func WritePNG(w io.Writer, f crop.Frame, st Style, scale float32) error {
	if err := png.Encode(w, Rasterize(f, st, scale)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WriteBMP encodes the rasterized frame as BMP.
func WriteBMP(w io.Writer, f crop.Frame, st Style, scale float32) error {
	if err := bmp.Encode(w, Rasterize(f, st, scale)); err != nil {
		return fmt.Errorf("encode bmp: %w", err)
	}
	return nil
}

// WriteTIFF encodes the rasterized frame as deflate-compressed TIFF.
func WriteTIFF(w io.Writer, f crop.Frame, st Style, scale float32) error {
	opt := &tiff.Options{Compression: tiff.Deflate}
	if err := tiff.Encode(w, Rasterize(f, st, scale), opt); err != nil {
		return fmt.Errorf("encode tiff: %w", err)
	}
	return nil
}

type raster struct {
	img   *image.RGBA
	z     *xvector.Rasterizer
	xf    vector.Affine2D
	scale float32
}

// fill paints the rings in one pass. Overlapping rings of opposite winding
// cancel out.
func (r *raster) fill(rings [][]vector.Pt, c color.Color) {
	b := r.img.Bounds()
	r.z.Reset(b.Dx(), b.Dy())
	pending := false
	for _, ring := range rings {
		if len(ring) < 3 {
			continue
		}
		p0 := r.xf.Apply(ring[0])
		r.z.MoveTo(p0.X, p0.Y)
		for _, p := range ring[1:] {
			p = r.xf.Apply(p)
			r.z.LineTo(p.X, p.Y)
		}
		r.z.ClosePath()
		pending = true
	}
	if pending {
		r.z.Draw(r.img, b, image.NewUniform(c), image.Point{})
	}
}

// strokeSegments draws each segment as a quad of the stroke width.
func (r *raster) strokeSegments(segs [][2]vector.Pt, s vector.Stroke) {
	c := toNRGBA(s.Color, 1)
	width := max(s.Width, 1/r.scale)
	for _, sg := range segs {
		if q := segmentQuad(sg[0], sg[1], width); q != nil {
			r.fill([][]vector.Pt{q}, c)
		}
	}
}

func segmentQuad(a, b vector.Pt, width float32) []vector.Pt {
	l := a.Dist(b)
	if l == 0 {
		return nil
	}
	d := b.Sub(a)
	n := vector.Pt{X: -d.Y / l * width / 2, Y: d.X / l * width / 2}
	return []vector.Pt{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}
}

func toNRGBA(c vector.Color, opacity float32) color.NRGBA {
	o := min(max(opacity, 0), 1)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(float64(c.A) * float64(o)))}
}

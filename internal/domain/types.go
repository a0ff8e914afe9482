/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"errors"
	"fmt"
	"time"

	"cropregion/internal/crop"
	"cropregion/internal/vector"
)

// This file defines the persisted shape of a finalized crop. It is what gets
// written to the crop store and printed by the history command.

// Point is a canvas position in device-independent units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Size is the canvas extent at the time the crop was finalized.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CropRecord is one finalized crop.
type CropRecord struct {
	ID     int64   `json:"id,omitempty"`
	Canvas Size    `json:"canvas"`
	Points []Point `json:"points"`
	Bounds Rect    `json:"bounds"`
	// Source says where the crop came from, e.g. "ui" or "replay:demo.yaml".
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewCropRecord captures r at the given canvas extent.
func NewCropRecord(r crop.Region, extent vector.Size, source string, at time.Time) CropRecord {
	pts := r.Points()
	rec := CropRecord{
		Canvas:    Size{Width: float64(extent.W), Height: float64(extent.H)},
		Points:    make([]Point, len(pts)),
		Source:    source,
		CreatedAt: at.UTC(),
	}
	for i, p := range pts {
		rec.Points[i] = Point{X: float64(p.X), Y: float64(p.Y)}
	}
	if len(pts) > 0 {
		b := r.Bounds()
		rec.Bounds = Rect{X: float64(b.X), Y: float64(b.Y), Width: float64(b.W), Height: float64(b.H)}
	}
	return rec
}

// Validate checks that the record describes a complete quadrilateral.
func (c CropRecord) Validate() error {
	if len(c.Points) != 4 {
		return fmt.Errorf("crop record: want 4 points, got %d", len(c.Points))
	}
	if c.Canvas.Width < 0 || c.Canvas.Height < 0 {
		return errors.New("crop record: negative canvas size")
	}
	return nil
}

// Region converts the record back into an editor region.
func (c CropRecord) Region() (crop.Region, error) {
	pts := make([]vector.Pt, len(c.Points))
	for i, p := range c.Points {
		pts[i] = vector.Pt{X: float32(p.X), Y: float32(p.Y)}
	}
	return crop.NewRegion(pts)
}

// Extent returns the canvas size as an editor extent.
func (c CropRecord) Extent() vector.Size {
	return vector.Size{W: float32(c.Canvas.Width), H: float32(c.Canvas.Height)}
}

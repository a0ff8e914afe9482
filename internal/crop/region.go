/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crop is the geometric editing engine behind the crop region editor:
// the draw/drag/resize state machine, corner handles, hit-testing and the
// shadow mask that covers everything outside the region.
//
// The package is host-agnostic. A host feeds pointer events into a Controller
// and renders the Frame it exposes; all coordinates are device-independent
// canvas units.
package crop

import (
	"errors"
	"fmt"
	"strings"

	"cropregion/internal/vector"
)

// ErrInvalidRegion is returned when a point list cannot form a region.
var ErrInvalidRegion = errors.New("crop: region must have 0 or 4 points")

// Hit is the result of a region hit test.
type Hit int

const (
	Outside Hit = iota
	Inside
)

func (h Hit) String() string {
	if h == Inside {
		return "inside"
	}
	return "outside"
}

// Region is an immutable snapshot of the crop quadrilateral: either empty or
// exactly four points in drag order (anchor, same-row corner, opposite corner,
// same-column corner). The order is not guaranteed to be clockwise.
type Region struct {
	pts []vector.Pt
}

// NewRegion validates pts and returns a region holding a copy of them.
func NewRegion(pts []vector.Pt) (Region, error) {
	if n := len(pts); n != 0 && n != 4 {
		return Region{}, fmt.Errorf("%w: got %d", ErrInvalidRegion, n)
	}
	return snapshot(pts), nil
}

// RectRegion returns the region spanned by two opposite corners, in the same
// order a pointer drag from a to b produces.
func RectRegion(a, b vector.Pt) Region {
	return Region{pts: rectCorners(a, b)}
}

func snapshot(pts []vector.Pt) Region {
	if len(pts) == 0 {
		return Region{}
	}
	return Region{pts: append([]vector.Pt(nil), pts...)}
}

func rectCorners(anchor, cur vector.Pt) []vector.Pt {
	return []vector.Pt{
		anchor,
		{X: cur.X, Y: anchor.Y},
		cur,
		{X: anchor.X, Y: cur.Y},
	}
}

func (r Region) Len() int    { return len(r.pts) }
func (r Region) Empty() bool { return len(r.pts) == 0 }

// Points returns a copy of the region's points.
func (r Region) Points() []vector.Pt { return append([]vector.Pt(nil), r.pts...) }

// At returns the i-th point. It panics when i is out of range, like a slice index.
func (r Region) At(i int) vector.Pt { return r.pts[i] }

// Bounds returns the axis-aligned bounding rectangle of the region.
func (r Region) Bounds() vector.Rect { return vector.BoundsOf(r.pts) }

// HitTest reports whether p lies inside the region polygon. Regions with fewer
// than three points never contain anything.
func (r Region) HitTest(p vector.Pt) Hit {
	if vector.PointInPolygon(p, r.pts) {
		return Inside
	}
	return Outside
}

// Equal reports whether both regions hold the same points in the same order.
func (r Region) Equal(o Region) bool {
	if len(r.pts) != len(o.pts) {
		return false
	}
	for i := range r.pts {
		if r.pts[i] != o.pts[i] {
			return false
		}
	}
	return true
}

func (r Region) String() string {
	if r.Empty() {
		return "[]"
	}
	parts := make([]string, len(r.pts))
	for i, p := range r.pts {
		parts[i] = fmt.Sprintf("(%g,%g)", p.X, p.Y)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

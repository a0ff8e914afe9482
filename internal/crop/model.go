/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crop

import (
	"fmt"
	"log/slog"

	"cropregion/internal/vector"
)

// State is the interaction state of the editor.
type State int

const (
	Idle State = iota
	Drawing
	Dragging
	Resizing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Model owns the region points and the in-progress gesture. Every mutator
// reports whether the points changed so the caller can publish a snapshot.
type Model struct {
	pts   []vector.Pt
	state State

	// draw
	anchor vector.Pt

	// drag: points are recomputed from the gesture baseline, never accumulated
	last      vector.Pt
	dragStart vector.Pt
	dragBase  []vector.Pt

	// resize
	role         HandleRole
	vertex       int
	resizeOrigin vector.Pt
	resizeStart  vector.Pt

	strict bool
	log    *slog.Logger
}

// NewModel returns an empty model. A nil logger discards invariant reports.
func NewModel(strict bool, l *slog.Logger) *Model {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	return &Model{strict: strict, log: l, vertex: -1}
}

func (m *Model) State() State { return m.state }

// ActiveRole returns the handle driving the current resize.
func (m *Model) ActiveRole() (HandleRole, bool) {
	return m.role, m.state == Resizing
}

// Region returns an immutable snapshot of the current points.
func (m *Model) Region() Region { return snapshot(m.pts) }

// HitTest classifies p against the current region.
func (m *Model) HitTest(p vector.Pt) Hit {
	if vector.PointInPolygon(p, m.pts) {
		return Inside
	}
	return Outside
}

// Clear empties the point set and reports whether anything was removed.
func (m *Model) Clear() bool {
	had := len(m.pts) > 0
	m.pts = m.pts[:0]
	return had
}

// Replace installs r as the current points, e.g. when restoring a stored crop.
func (m *Model) Replace(r Region) bool {
	if m.Region().Equal(r) {
		return false
	}
	m.pts = append(m.pts[:0], r.pts...)
	m.settle("replace")
	return true
}

// BeginDraw records the anchor of a new rectangle.
func (m *Model) BeginDraw(origin vector.Pt) {
	m.anchor = origin
	m.state = Drawing
}

// UpdateDraw overwrites the region with the rectangle spanned by the anchor and cur.
func (m *Model) UpdateDraw(cur vector.Pt) bool {
	if m.state != Drawing {
		return false
	}
	next := rectCorners(m.anchor, cur)
	changed := !samePoints(m.pts, next)
	m.pts = append(m.pts[:0], next...)
	m.settle("draw")
	return changed
}

// BeginDrag starts translating the region from start.
func (m *Model) BeginDrag(start vector.Pt) {
	m.last = start
	m.dragStart = start
	m.dragBase = append(m.dragBase[:0], m.pts...)
	m.state = Dragging
}

// UpdateDrag moves every point by the pointer travel since the drag began.
func (m *Model) UpdateDrag(cur vector.Pt) bool {
	if m.state != Dragging || cur == m.last {
		return false
	}
	d := cur.Sub(m.dragStart)
	for i := range m.pts {
		m.pts[i] = m.dragBase[i].Add(d)
	}
	m.last = cur
	m.settle("drag")
	return true
}

// BeginResize binds the gesture to the vertex nearest the handle's probe
// point. Ties go to the lowest index. With near-degenerate regions the nearest
// vertex may not be the one the handle sits on; that selection is kept as is.
func (m *Model) BeginResize(h Handle, start vector.Pt) {
	m.role = h.Role
	m.resizeOrigin = h.Position
	m.resizeStart = start
	m.vertex = nearestVertex(m.pts, h.Probe())
	m.state = Resizing
}

// UpdateResize moves the bound vertex to follow the pointer.
func (m *Model) UpdateResize(cur vector.Pt) bool {
	if m.state != Resizing || m.vertex < 0 || m.vertex >= len(m.pts) {
		return false
	}
	next := m.resizeOrigin.Add(cur.Sub(m.resizeStart))
	if m.pts[m.vertex] == next {
		return false
	}
	m.pts[m.vertex] = next
	m.settle("resize")
	return true
}

// EndInteraction finishes whatever gesture is in progress.
func (m *Model) EndInteraction() {
	m.state = Idle
	m.vertex = -1
	m.dragBase = m.dragBase[:0]
}

func (m *Model) settle(op string) {
	m.pts = checkInvariant(m.pts, m.strict, m.log, op)
}

func nearestVertex(pts []vector.Pt, p vector.Pt) int {
	best, bestD := -1, float32(0)
	for i, q := range pts {
		if d := q.Dist(p); best < 0 || d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

func samePoints(a, b []vector.Pt) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

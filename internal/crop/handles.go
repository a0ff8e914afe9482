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
	"strings"

	"cropregion/internal/vector"
)

// HandleRole names one of the four corner handles.
type HandleRole int

const (
	TopLeft HandleRole = iota
	TopRight
	BottomLeft
	BottomRight
)

// Roles lists every handle role in hit-test priority order.
var Roles = [4]HandleRole{TopLeft, TopRight, BottomLeft, BottomRight}

func (r HandleRole) String() string {
	switch r {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomLeft:
		return "bottom-left"
	case BottomRight:
		return "bottom-right"
	}
	return fmt.Sprintf("HandleRole(%d)", int(r))
}

// Binding selects how handle roles map onto region vertices.
type Binding int

const (
	// BindIndex binds role i to vertex i regardless of where the vertex sits.
	BindIndex Binding = iota
	// BindGeometric recomputes roles from vertex positions on every sync.
	BindGeometric
)

func (b Binding) String() string {
	if b == BindGeometric {
		return "geometric"
	}
	return "index"
}

// ParseBinding maps a config value onto a Binding.
func ParseBinding(s string) (Binding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "index":
		return BindIndex, nil
	case "geometric":
		return BindGeometric, nil
	}
	return BindIndex, fmt.Errorf("crop: unknown handle binding %q", s)
}

// Handle is a snapshot of one corner handle.
type Handle struct {
	Role     HandleRole
	Position vector.Pt
	Size     float32
	Visible  bool
	// Vertex is the region index the handle is bound to.
	Vertex int
}

// Bounds is the square hit area centred on the handle position.
func (h Handle) Bounds() vector.Rect {
	return vector.RectAround(h.Position, h.Size)
}

// Probe returns the role-specific corner of the handle bounds. It is the
// pre-drag point used to pick which vertex a resize moves.
func (h Handle) Probe() vector.Pt {
	b := h.Bounds()
	switch h.Role {
	case TopRight:
		return vector.Pt{X: b.Max().X, Y: b.Min().Y}
	case BottomLeft:
		return vector.Pt{X: b.Min().X, Y: b.Max().Y}
	case BottomRight:
		return b.Max()
	}
	return b.Min()
}

// HandleSet keeps the four corner handles in sync with the region.
type HandleSet struct {
	handles [4]Handle
	binding Binding
	visible bool
}

func NewHandleSet(size float32, binding Binding) *HandleSet {
	s := &HandleSet{binding: binding}
	for i, r := range Roles {
		s.handles[i] = Handle{Role: r, Size: size, Vertex: i}
	}
	return s
}

// Sync moves the handles onto the region's vertices. Regions that are not
// exactly four points leave positions untouched.
func (s *HandleSet) Sync(r Region) {
	if r.Len() != 4 {
		return
	}
	vertexOf := [4]int{0, 1, 2, 3}
	if s.binding == BindGeometric {
		vertexOf = geometricRoles(r.pts)
	}
	for i := range s.handles {
		v := vertexOf[i]
		s.handles[i].Position = r.pts[v]
		s.handles[i].Vertex = v
	}
}

// SetVisible shows or hides all four handles together. Handles are only
// shown when the region has at least three points.
func (s *HandleSet) SetVisible(v bool, r Region) {
	s.visible = v && r.Len() >= 3
	for i := range s.handles {
		s.handles[i].Visible = s.visible
	}
}

func (s *HandleSet) Visible() bool { return s.visible }

// HitTest returns the role of the first visible handle whose bounds contain p.
func (s *HandleSet) HitTest(p vector.Pt) (HandleRole, bool) {
	if !s.visible {
		return 0, false
	}
	for _, h := range s.handles {
		if h.Bounds().Contains(p) {
			return h.Role, true
		}
	}
	return 0, false
}

// Handle returns a copy of the handle with the given role.
func (s *HandleSet) Handle(role HandleRole) Handle { return s.handles[role] }

// Handles returns copies of all handles, indexed by role.
func (s *HandleSet) Handles() [4]Handle { return s.handles }

// Probe returns the pre-drag probe point of the handle with the given role.
func (s *HandleSet) Probe(role HandleRole) vector.Pt { return s.handles[role].Probe() }

// geometricRoles returns, for each role, the index of the vertex that plays it.
// TopLeft has the smallest x+y and BottomRight the largest; of the remaining
// two, TopRight has the smaller y (larger x on ties).
func geometricRoles(pts []vector.Pt) [4]int {
	tl, br := 0, -1
	for i := 1; i < 4; i++ {
		if pts[i].X+pts[i].Y < pts[tl].X+pts[tl].Y {
			tl = i
		}
	}
	for i := 0; i < 4; i++ {
		if i == tl {
			continue
		}
		if br < 0 || pts[i].X+pts[i].Y > pts[br].X+pts[br].Y {
			br = i
		}
	}
	rest := make([]int, 0, 2)
	for i := 0; i < 4; i++ {
		if i != tl && i != br {
			rest = append(rest, i)
		}
	}
	tr, bl := rest[0], rest[1]
	a, b := pts[tr], pts[bl]
	if b.Y < a.Y || (b.Y == a.Y && b.X > a.X) {
		tr, bl = bl, tr
	}
	var out [4]int
	out[TopLeft], out[TopRight], out[BottomLeft], out[BottomRight] = tl, tr, bl, br
	return out
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crop

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cropregion/internal/vector"
)

func TestHandleSyncIndexBinding(t *testing.T) {
	s := NewHandleSet(10, BindIndex)
	r := RectRegion(pt(110, 60), pt(10, 10))
	s.Sync(r)
	for i, role := range Roles {
		h := s.Handle(role)
		require.Equal(t, r.At(i), h.Position)
		require.Equal(t, i, h.Vertex)
	}
}

func TestHandleSyncIgnoresNonQuadRegions(t *testing.T) {
	s := NewHandleSet(10, BindIndex)
	s.Sync(RectRegion(pt(0, 0), pt(10, 10)))
	s.Sync(Region{})
	require.Equal(t, pt(10, 10), s.Handle(BottomLeft).Position)
}

func TestHandleVisibilityGate(t *testing.T) {
	s := NewHandleSet(10, BindIndex)
	r := RectRegion(pt(0, 0), pt(50, 50))
	s.Sync(r)

	s.SetVisible(true, Region{})
	require.False(t, s.Visible())
	_, ok := s.HitTest(pt(0, 0))
	require.False(t, ok, "hidden handles are not hit-testable")

	s.SetVisible(true, r)
	require.True(t, s.Visible())
	for _, h := range s.Handles() {
		require.True(t, h.Visible)
	}

	s.SetVisible(false, r)
	require.False(t, s.Visible())
}

func TestHandleHitTest(t *testing.T) {
	s := NewHandleSet(10, BindIndex)
	r := RectRegion(pt(0, 0), pt(50, 50))
	s.Sync(r)
	s.SetVisible(true, r)

	role, ok := s.HitTest(pt(54, 4))
	require.True(t, ok)
	require.Equal(t, TopRight, role)

	role, ok = s.HitTest(pt(55, 55))
	require.True(t, ok, "bounds are inclusive")
	require.Equal(t, BottomLeft, role)

	_, ok = s.HitTest(pt(25, 25))
	require.False(t, ok)
}

func TestHandleHitTestOverlapPrefersFirstRole(t *testing.T) {
	s := NewHandleSet(10, BindIndex)
	r := RectRegion(pt(0, 0), pt(4, 4))
	s.Sync(r)
	s.SetVisible(true, r)
	role, ok := s.HitTest(pt(2, 2))
	require.True(t, ok)
	require.Equal(t, TopLeft, role)
}

func TestHandleProbe(t *testing.T) {
	cases := []struct {
		role HandleRole
		want vector.Pt
	}{
		{TopLeft, pt(15, 15)},
		{TopRight, pt(25, 15)},
		{BottomLeft, pt(15, 25)},
		{BottomRight, pt(25, 25)},
	}
	for _, tc := range cases {
		h := Handle{Role: tc.role, Position: pt(20, 20), Size: 10}
		require.Equal(t, tc.want, h.Probe(), tc.role.String())
		require.Equal(t, vector.R(15, 15, 10, 10), h.Bounds())
	}
}

func TestGeometricRoles(t *testing.T) {
	cases := []struct {
		name string
		pts  []vector.Pt
		want [4]int
	}{
		{"drawn down-right", []vector.Pt{pt(0, 0), pt(10, 0), pt(10, 5), pt(0, 5)}, [4]int{0, 1, 3, 2}},
		{"drawn up-left", []vector.Pt{pt(10, 5), pt(0, 5), pt(0, 0), pt(10, 0)}, [4]int{2, 3, 1, 0}},
		{"drawn down-left", []vector.Pt{pt(10, 0), pt(0, 0), pt(0, 5), pt(10, 5)}, [4]int{1, 0, 2, 3}},
		{"collapsed", []vector.Pt{pt(3, 3), pt(3, 3), pt(3, 3), pt(3, 3)}, [4]int{0, 2, 3, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := geometricRoles(tc.pts)
			require.Equal(t, tc.want, got)
			seen := map[int]bool{}
			for _, v := range got {
				seen[v] = true
			}
			require.Len(t, seen, 4)
		})
	}
}

func TestParseBinding(t *testing.T) {
	b, err := ParseBinding("Geometric")
	require.NoError(t, err)
	require.Equal(t, BindGeometric, b)

	b, err = ParseBinding("")
	require.NoError(t, err)
	require.Equal(t, BindIndex, b)

	_, err = ParseBinding("diagonal")
	require.Error(t, err)
}

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

func TestMaskEmptyRegionCoversCanvas(t *testing.T) {
	m := ComputeMask(vector.Size{W: 100, H: 80}, Region{})
	require.Equal(t, vector.EvenOdd, m.Rule)
	require.Len(t, m.Path.SubPaths(), 1)
	require.True(t, m.Covers(pt(1, 1)))
	require.True(t, m.Covers(pt(99, 79)))
	require.False(t, m.Covers(pt(101, 10)))
}

func TestMaskRegionIsHole(t *testing.T) {
	r := RectRegion(pt(10, 10), pt(110, 60))
	m := ComputeMask(vector.Size{W: 200, H: 100}, r)
	sub := m.Path.SubPaths()
	require.Len(t, sub, 2)
	require.Equal(t, r.Points(), sub[1])

	require.False(t, m.Covers(pt(60, 40)))
	require.True(t, m.Covers(pt(5, 5)))
	require.True(t, m.Covers(pt(150, 90)))
}

func TestMaskHoleIndependentOfWinding(t *testing.T) {
	ext := vector.Size{W: 200, H: 100}
	cw := ComputeMask(ext, RectRegion(pt(10, 10), pt(110, 60)))
	ccw := ComputeMask(ext, RectRegion(pt(110, 10), pt(10, 60)))
	for _, p := range []vector.Pt{pt(60, 40), pt(5, 5), pt(190, 90)} {
		require.Equal(t, cw.Covers(p), ccw.Covers(p), "point %v", p)
	}
}

func TestCompositorTracksExtentAndRegion(t *testing.T) {
	c := NewCompositor(vector.Size{W: 50, H: 50})
	require.True(t, c.Mask().Covers(pt(25, 25)))

	r := RectRegion(pt(10, 10), pt(40, 40))
	c.Update(r)
	require.False(t, c.Mask().Covers(pt(25, 25)))

	c.Resize(vector.Size{W: 100, H: 100})
	require.Equal(t, vector.Size{W: 100, H: 100}, c.Extent())
	require.False(t, c.Mask().Covers(pt(25, 25)), "region survives a resize")
	require.True(t, c.Mask().Covers(pt(80, 80)))
}

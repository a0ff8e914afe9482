/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crop

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"cropregion/internal/vector"
)

func TestNewRegionValidatesCount(t *testing.T) {
	r, err := NewRegion(nil)
	require.NoError(t, err)
	require.True(t, r.Empty())

	src := []vector.Pt{pt(0, 0), pt(1, 0), pt(1, 1), pt(0, 1)}
	r, err = NewRegion(src)
	require.NoError(t, err)
	src[0] = pt(9, 9)
	require.Equal(t, pt(0, 0), r.At(0), "region keeps its own copy")

	_, err = NewRegion(src[:3])
	require.True(t, errors.Is(err, ErrInvalidRegion))
}

func TestRegionString(t *testing.T) {
	require.Equal(t, "[]", Region{}.String())
	require.Equal(t, "[(0,0) (2.5,0) (2.5,1) (0,1)]", RectRegion(pt(0, 0), pt(2.5, 1)).String())
}

func TestRegionEqual(t *testing.T) {
	a := RectRegion(pt(0, 0), pt(1, 1))
	require.True(t, a.Equal(RectRegion(pt(0, 0), pt(1, 1))))
	require.False(t, a.Equal(RectRegion(pt(1, 1), pt(0, 0))))
	require.False(t, a.Equal(Region{}))
}

func TestEnumStrings(t *testing.T) {
	require.Equal(t, "resizing", Resizing.String())
	require.Equal(t, "bottom-right", BottomRight.String())
	require.Equal(t, "handle:top-left", CaptureOwner{Kind: CaptureHandle, Role: TopLeft}.String())
	require.Equal(t, "inside", Inside.String())
	require.Equal(t, "geometric", BindGeometric.String())
}

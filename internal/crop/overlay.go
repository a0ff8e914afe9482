/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crop

import "cropregion/internal/vector"

// Mask is the shadow shape covering everything outside the region: the canvas
// rectangle plus the region polygon, filled with the even-odd rule so the
// region becomes a hole.
type Mask struct {
	Extent vector.Size
	Path   vector.Path
	Rule   vector.FillRule
}

// Covers reports whether p is shaded by the mask.
func (m Mask) Covers(p vector.Pt) bool { return m.Path.Contains(p, m.Rule) }

// ComputeMask builds the mask for a canvas extent and region. An empty region
// yields the full canvas rectangle.
func ComputeMask(extent vector.Size, r Region) Mask {
	var p vector.Path
	p.AddRect(vector.R(0, 0, extent.W, extent.H))
	if !r.Empty() {
		p.AddPolygon(r.pts)
	}
	return Mask{Extent: extent, Path: p, Rule: vector.EvenOdd}
}

// Compositor owns the canvas extent and recomputes the mask whenever the
// region or the extent changes.
type Compositor struct {
	extent vector.Size
	region Region
	mask   Mask
}

func NewCompositor(extent vector.Size) *Compositor {
	c := &Compositor{extent: extent}
	c.mask = ComputeMask(extent, Region{})
	return c
}

// Compute stores extent and region and returns the freshly computed mask.
func (c *Compositor) Compute(extent vector.Size, r Region) Mask {
	c.extent, c.region = extent, r
	c.mask = ComputeMask(extent, r)
	return c.mask
}

// Update recomputes the mask for a new region at the current extent.
func (c *Compositor) Update(r Region) Mask { return c.Compute(c.extent, r) }

// Resize recomputes the mask for a new extent with the current region.
func (c *Compositor) Resize(extent vector.Size) Mask { return c.Compute(extent, c.region) }

func (c *Compositor) Extent() vector.Size { return c.extent }
func (c *Compositor) Mask() Mask          { return c.mask }

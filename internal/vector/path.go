/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Path commands and shapes. Only straight segments are needed for crop geometry.

type PathOp uint8

const (
	MoveTo PathOp = iota
	LineTo
	Close
)

type PathCmd struct {
	Op   PathOp
	Data [2]float32
}

type Path struct{ Cmds []PathCmd }

func (p *Path) MoveTo(x, y float32) {
	p.Cmds = append(p.Cmds, PathCmd{Op: MoveTo, Data: [2]float32{x, y}})
}
func (p *Path) LineTo(x, y float32) {
	p.Cmds = append(p.Cmds, PathCmd{Op: LineTo, Data: [2]float32{x, y}})
}
func (p *Path) Close() { p.Cmds = append(p.Cmds, PathCmd{Op: Close}) }

// AddPolygon appends pts as a closed sub-path. Fewer than two points add nothing.
func (p *Path) AddPolygon(pts []Pt) {
	if len(pts) < 2 {
		return
	}
	p.MoveTo(pts[0].X, pts[0].Y)
	for _, q := range pts[1:] {
		p.LineTo(q.X, q.Y)
	}
	p.Close()
}

// AddRect appends r as a closed sub-path.
func (p *Path) AddRect(r Rect) { p.AddPolygon(r.Corners()) }

// SubPaths splits the path into its polylines. Each MoveTo starts a new one.
func (p *Path) SubPaths() [][]Pt {
	var out [][]Pt
	var cur []Pt
	for _, c := range p.Cmds {
		switch c.Op {
		case MoveTo:
			if len(cur) > 0 {
				out = append(out, cur)
			}
			cur = []Pt{{c.Data[0], c.Data[1]}}
		case LineTo:
			cur = append(cur, Pt{c.Data[0], c.Data[1]})
		case Close:
			// closing is implicit for fills
		}
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// Bounds returns the axis-aligned bounding box of all path points.
func (p *Path) Bounds() Rect {
	var pts []Pt
	for _, sp := range p.SubPaths() {
		pts = append(pts, sp...)
	}
	return BoundsOf(pts)
}

// Contains reports whether pt is covered by the path under the given fill rule.
// Sub-paths are treated as closed.
func (p *Path) Contains(pt Pt, rule FillRule) bool {
	subs := p.SubPaths()
	if rule == EvenOdd {
		n := 0
		for _, sp := range subs {
			if PointInPolygon(pt, sp) {
				n++
			}
		}
		return n%2 == 1
	}
	wn := 0
	for _, sp := range subs {
		wn += winding(pt, sp)
	}
	return wn != 0
}

// winding returns the winding number of poly around p.
func winding(p Pt, poly []Pt) int {
	wn := 0
	for i := range poly {
		a, b := poly[i], poly[(i+1)%len(poly)]
		isLeft := (b.X-a.X)*(p.Y-a.Y) - (p.X-a.X)*(b.Y-a.Y)
		if a.Y <= p.Y {
			if b.Y > p.Y && isLeft > 0 {
				wn++
			}
		} else if b.Y <= p.Y && isLeft < 0 {
			wn--
		}
	}
	return wn
}

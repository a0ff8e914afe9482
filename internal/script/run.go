/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"fmt"

	"cropregion/internal/vector"
)

// Driver receives replayed input. *crop.Controller implements it.
type Driver interface {
	PointerDown(pos vector.Pt, clicks int)
	PointerMove(pos vector.Pt)
	PointerUp()
	Resize(extent vector.Size)
}

// Run feeds the script's events into d in order. A non-zero canvas is applied
// first as a resize.
func Run(d Driver, s Script) error {
	if s.Canvas.Width > 0 || s.Canvas.Height > 0 {
		d.Resize(vector.Size{W: s.Canvas.Width, H: s.Canvas.Height})
	}
	for i, ev := range s.Events {
		switch ev.Type {
		case EventDown:
			clicks := ev.Clicks
			if clicks <= 0 {
				clicks = 1
			}
			d.PointerDown(vector.Pt{X: ev.X, Y: ev.Y}, clicks)
		case EventMove:
			d.PointerMove(vector.Pt{X: ev.X, Y: ev.Y})
		case EventUp:
			d.PointerUp()
		case EventResize:
			d.Resize(vector.Size{W: ev.Width, H: ev.Height})
		default:
			return fmt.Errorf("event %d: %w: unknown type %q", i, ErrInvalid, ev.Type)
		}
	}
	return nil
}

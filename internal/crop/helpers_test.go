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

	"cropregion/internal/vector"
)

func pt(x, y float32) vector.Pt { return vector.Pt{X: x, Y: y} }

type recordingCapturer struct {
	calls []string
}

func (r *recordingCapturer) Capture(o CaptureOwner) {
	r.calls = append(r.calls, fmt.Sprintf("capture %s", o))
}

func (r *recordingCapturer) Release(o CaptureOwner) {
	r.calls = append(r.calls, fmt.Sprintf("release %s", o))
}

// drawn returns a controller holding the rectangle (10,10)-(110,60).
func drawn(opts Options) *Controller {
	if opts.Extent == (vector.Size{}) {
		opts.Extent = vector.Size{W: 200, H: 100}
	}
	c := NewController(opts)
	c.PointerDown(pt(10, 10), 1)
	c.PointerMove(pt(110, 60))
	c.PointerUp()
	return c
}

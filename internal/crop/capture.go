/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crop

// CaptureKind identifies who holds pointer capture.
type CaptureKind int

const (
	CaptureNone CaptureKind = iota
	CaptureController
	CaptureHandle
)

// CaptureOwner is the single holder of pointer capture. Role is meaningful
// only when Kind is CaptureHandle.
type CaptureOwner struct {
	Kind CaptureKind
	Role HandleRole
}

func (o CaptureOwner) String() string {
	switch o.Kind {
	case CaptureController:
		return "controller"
	case CaptureHandle:
		return "handle:" + o.Role.String()
	}
	return "none"
}

// Capturer is the host's pointer capture primitive.
type Capturer interface {
	Capture(owner CaptureOwner)
	Release(owner CaptureOwner)
}

type nopCapturer struct{}

func (nopCapturer) Capture(CaptureOwner) {}
func (nopCapturer) Release(CaptureOwner) {}

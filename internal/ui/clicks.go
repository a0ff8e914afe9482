/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"time"

	"cropregion/internal/vector"
)

// Default multi-click thresholds, close to common desktop settings.
const (
	DefaultClickInterval         = 500 * time.Millisecond
	DefaultClickSlop     float32 = 4
)

// ClickCounter derives a click count from successive presses for hosts that
// only report single presses. A press continues the sequence when it follows
// the previous one within Interval and lands within Slop of it.
type ClickCounter struct {
	Interval time.Duration
	Slop     float32

	last  time.Time
	pos   vector.Pt
	count int
}

func NewClickCounter() *ClickCounter {
	return &ClickCounter{Interval: DefaultClickInterval, Slop: DefaultClickSlop}
}

// Press registers a press and returns its click count, starting at 1.
func (c *ClickCounter) Press(at time.Time, pos vector.Pt) int {
	dt := at.Sub(c.last)
	if c.count > 0 && dt >= 0 && dt <= c.Interval && pos.Dist(c.pos) <= c.Slop {
		c.count++
	} else {
		c.count = 1
	}
	c.last, c.pos = at, pos
	return c.count
}

// Reset forgets the current sequence.
func (c *ClickCounter) Reset() { c.count = 0 }

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
	"log/slog"

	"cropregion/internal/vector"
)

// checkInvariant checks the 0-or-4 point invariant. A violation is a programming
// error: it panics in strict mode (or cropdebug builds) and is otherwise logged
// and clamped to the nearest valid state.
func checkInvariant(pts []vector.Pt, strict bool, l *slog.Logger, op string) []vector.Pt {
	n := len(pts)
	if n == 0 || n == 4 {
		return pts
	}
	if strict || debugBuild {
		panic(fmt.Sprintf("crop: invariant violated after %s: region has %d points", op, n))
	}
	l.Error("region invariant violated; clamping", slog.String("op", op), slog.Int("points", n))
	if n < 4 {
		return pts[:0]
	}
	return pts[:4]
}

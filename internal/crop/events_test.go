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
)

func TestRegistryOrderAndUnsubscribeDuringEmit(t *testing.T) {
	var r registry[int]
	var got []string
	var unB func()
	r.add(func(v int) { got = append(got, "a"); unB() })
	unB = r.add(func(int) { got = append(got, "b") })
	r.add(func(int) { got = append(got, "c") })

	r.emit(1)
	require.Equal(t, []string{"a", "b", "c"}, got, "removal applies to the next emit")

	got = nil
	r.emit(2)
	require.Equal(t, []string{"a", "c"}, got)
	require.Equal(t, 2, r.len())
}

func TestRegistryNilListener(t *testing.T) {
	var r registry[int]
	un := r.add(nil)
	un()
	require.Zero(t, r.len())
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crop

// registry holds listeners in registration order.
type registry[T any] struct {
	next    int
	entries []entry[T]
}

type entry[T any] struct {
	id int
	fn func(T)
}

// add registers fn and returns a func that removes it again. Calling the
// returned func more than once is harmless.
func (r *registry[T]) add(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	r.next++
	id := r.next
	r.entries = append(r.entries, entry[T]{id: id, fn: fn})
	return func() {
		for i, e := range r.entries {
			if e.id == id {
				r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
				return
			}
		}
	}
}

// emit calls every listener registered at the time of the call.
func (r *registry[T]) emit(v T) {
	snap := append([]entry[T](nil), r.entries...)
	for _, e := range snap {
		e.fn(v)
	}
}

func (r *registry[T]) len() int { return len(r.entries) }

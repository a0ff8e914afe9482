/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package version exposes the build version. Override at link time with
// -ldflags "-X cropregion/internal/version.Version=v1.2.3".
package version

import (
	"fmt"
	"runtime"
)

// Version is the semantic version of the build.
var Version = "0.1.0-dev"

// String returns the version with the toolchain it was built with.
func String() string {
	return fmt.Sprintf("cropregion %s (%s)", Version, runtime.Version())
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"log/slog"

	"cropregion/internal/config"
	"cropregion/internal/storage"
)

// Options configures the desktop host.
type Options struct {
	Config config.AppConfig
	// Store records activated crops; nil disables recording.
	Store *storage.Store
	// Background is an optional image file drawn under the overlay.
	Background string
	Logger     *slog.Logger
}

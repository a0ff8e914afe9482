/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic into a crash report: it logs the stack, writes a
// report file including the last known crop region, optionally uploads it,
// and exits non-zero.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "cropregion/internal/log"
	"cropregion/internal/telemetry"
	"cropregion/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// Options tells Recover where to write and what to include.
type Options struct {
	// Dir receives the report. Empty means the OS temp dir.
	Dir string
	// Snapshot describes the editor state at the time of the panic, typically
	// the current region. It may be nil.
	Snapshot func() string
	// Uploader receives the report when set; see telemetry.Client.
	Uploader interface{ UploadCrash([]byte) error }
}

// Recover captures a panic, logs it with the stack, writes a report file and
// exits with code 2.
//
// Usage: defer crash.Recover(opts)
func Recover(opts Options) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	snap := safeSnapshot(opts.Snapshot)
	path, report, err := writeReport(opts.Dir, r, snap, stack)
	if err != nil {
		l.Error("write crash report failed", slog.Any("err", err))
	}
	if opts.Uploader != nil {
		if err := opts.Uploader.UploadCrash(report); err != nil {
			l.Warn("crash upload failed", slog.Any("err", err))
		}
	}

	if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", path); err != nil {
		l.Error("failed to write crash message to stderr", slog.Any("err", err))
	}
	if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
		l.Error("failed to write version info to stderr", slog.Any("err", err))
	}
	exitFn(2)
}

// DefaultOptions writes reports to the temp dir and uploads through the
// environment-configured telemetry client.
func DefaultOptions(snapshot func() string) Options {
	return Options{Snapshot: snapshot, Uploader: telemetry.Default()}
}

// safeSnapshot guards against the snapshot func panicking on broken state.
func safeSnapshot(fn func() string) (s string) {
	if fn == nil {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("<snapshot failed: %v>", r)
		}
	}()
	return fn()
}

func writeReport(dir string, panicVal any, snapshot string, stack []byte) (string, []byte, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "cropregion crash report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if snapshot != "" {
		_, _ = fmt.Fprintf(&buf, "Region: %s\n", snapshot)
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	path := filepath.Join(dir, fmt.Sprintf("cropregion-crash-%s.log", time.Now().Format("20060102-150405")))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return path, buf.Bytes(), fmt.Errorf("create crash dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, buf.Bytes(), fmt.Errorf("write crash report: %w", err)
	}
	return path, buf.Bytes(), nil
}

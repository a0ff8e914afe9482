/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeUploader struct {
	got []byte
	err error
}

func (f *fakeUploader) UploadCrash(b []byte) error {
	f.got = append([]byte(nil), b...)
	return f.err
}

func silenceStderr(t *testing.T) {
	t.Helper()
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	t.Cleanup(func() {
		_ = w.Close()
		os.Stderr = old
		_, _ = io.Copy(io.Discard, r)
	})
}

func TestRecover_WritesReportAndExits(t *testing.T) {
	silenceStderr(t)
	called := 0
	oldExit := exitFn
	exitFn = func(code int) { called = code }
	defer func() { exitFn = oldExit }()

	dir := t.TempDir()
	up := &fakeUploader{err: errors.New("offline")}
	func() {
		defer Recover(Options{Dir: dir, Snapshot: func() string { return "[(1,2) (3,2) (3,4) (1,4)]" }, Uploader: up})
		panic("boom")
	}()

	if called != 2 {
		t.Fatalf("expected exit code 2, got %d", called)
	}
	files, _ := filepath.Glob(filepath.Join(dir, "cropregion-crash-*.log"))
	if len(files) != 1 {
		t.Fatalf("expected one crash report, got %v", files)
	}
	b, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	for _, want := range []string{"Panic: boom", "Region: [(1,2) (3,2) (3,4) (1,4)]", "cropregion crash report"} {
		if !bytes.Contains(b, []byte(want)) {
			t.Fatalf("report missing %q:\n%s", want, b)
		}
	}
	if !bytes.Equal(up.got, b) {
		t.Fatalf("uploaded report differs from file")
	}
}

func TestRecover_NoPanicIsNoop(t *testing.T) {
	called := false
	oldExit := exitFn
	exitFn = func(int) { called = true }
	defer func() { exitFn = oldExit }()

	func() {
		defer Recover(Options{Dir: t.TempDir()})
	}()
	if called {
		t.Fatalf("exit called without panic")
	}
}

func TestWriteReportDefaultsToTemp(t *testing.T) {
	path, report, err := writeReport("", "kaboom", "", []byte("stack"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	defer os.Remove(path)
	if !strings.HasPrefix(path, os.TempDir()) {
		t.Fatalf("expected report in temp dir, got %s", path)
	}
	if strings.Contains(string(report), "Region:") {
		t.Fatalf("empty snapshot should be omitted")
	}
}

func TestSafeSnapshotSurvivesPanic(t *testing.T) {
	s := safeSnapshot(func() string { panic("broken") })
	if !strings.Contains(s, "snapshot failed") {
		t.Fatalf("snapshot = %q", s)
	}
	if safeSnapshot(nil) != "" {
		t.Fatalf("nil snapshot should be empty")
	}
}

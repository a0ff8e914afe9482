/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const demoScript = `name demo
canvas 200 100
down 10 10
move 110 60
up
down 60 40      # drag start, no movement
up
down 60 40 2    # double click inside
up
`

// isolate points config and store at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CRG_CONFIG", filepath.Join(dir, "config.yaml"))
	t.Setenv("CRG_STORE", filepath.Join(dir, "crops.sqlite"))
	t.Setenv("CRG_LOG_LEVEL", "error")
	return dir
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestVersion(t *testing.T) {
	isolate(t)
	code, out, _ := runCLI(t, "version")
	require.Equal(t, 0, code)
	require.NotEmpty(t, strings.TrimSpace(out))
}

func TestUnknownCommandPrintsUsage(t *testing.T) {
	isolate(t)
	code, _, errOut := runCLI(t, "frobnicate")
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "Usage:")
}

func TestReplayRecordsActivationAndExports(t *testing.T) {
	dir := isolate(t)
	scriptPath := filepath.Join(dir, "demo.crop")
	require.NoError(t, os.WriteFile(scriptPath, []byte(demoScript), 0o644))
	svgPath := filepath.Join(dir, "out", "demo.svg")

	code, out, errOut := runCLI(t, "replay", scriptPath, svgPath)
	require.Equal(t, 0, code, errOut)
	require.Contains(t, out, "region [(10,10) (110,10) (110,60) (10,60)]")
	require.Contains(t, out, "bounds 100x50 at (10, 10)")
	require.Contains(t, out, "activations 1")

	svg, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	require.Contains(t, string(svg), "evenodd")

	code, out, errOut = runCLI(t, "history", "5")
	require.Equal(t, 0, code, errOut)
	require.Contains(t, out, "replay:demo")
	require.Contains(t, out, "100x50 at (10, 10)")
}

func TestReplayRejectsBadScript(t *testing.T) {
	dir := isolate(t)
	scriptPath := filepath.Join(dir, "bad.crop")
	require.NoError(t, os.WriteFile(scriptPath, []byte("down ten 10\n"), 0o644))

	code, _, errOut := runCLI(t, "replay", scriptPath)
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "bad.crop")
}

func TestReplayUnknownExportFormat(t *testing.T) {
	dir := isolate(t)
	scriptPath := filepath.Join(dir, "demo.crop")
	require.NoError(t, os.WriteFile(scriptPath, []byte(demoScript), 0o644))

	code, _, errOut := runCLI(t, "replay", scriptPath, filepath.Join(dir, "out.gif"))
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "unsupported format")
}

func TestHistoryEmptyStore(t *testing.T) {
	isolate(t)
	code, out, _ := runCLI(t, "history")
	require.Equal(t, 0, code)
	require.Contains(t, out, "no crops recorded")
}

func TestHistoryRejectsBadCount(t *testing.T) {
	isolate(t)
	code, _, _ := runCLI(t, "history", "-3")
	require.Equal(t, 2, code)
}

func TestConfigInitAndShow(t *testing.T) {
	dir := isolate(t)
	code, _, errOut := runCLI(t, "config", "init")
	require.Equal(t, 0, code, errOut)
	require.FileExists(t, filepath.Join(dir, "config.yaml"))

	code, out, _ := runCLI(t, "config")
	require.Equal(t, 0, code)
	require.Contains(t, out, "editor.handle_binding  index")
	require.Contains(t, out, "(from CRG_STORE)")
}

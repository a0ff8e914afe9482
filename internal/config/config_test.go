/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	t.Setenv(EnvConfigPath, path)
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	d := Defaults()
	if cfg.Editor.HandleSize != d.Editor.HandleSize || cfg.Editor.HandleBinding != "index" || cfg.Overlay.Color != "#ffa500" {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := isolate(t)
	cfg := Defaults()
	cfg.Editor.HandleSize = 14
	cfg.Editor.HandleBinding = "geometric"
	cfg.Storage.Path = "/tmp/crops.sqlite"
	if err := Save("", cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	got, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Editor.HandleSize != 14 || got.Editor.HandleBinding != "geometric" || got.Storage.Path != "/tmp/crops.sqlite" {
		t.Fatalf("round trip mismatch: %#v", got.Editor)
	}
}

func TestLoadMalformedFileReturnsErrorAndDefaults(t *testing.T) {
	path := isolate(t)
	if err := os.WriteFile(path, []byte("editor: [not a map"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if cfg.Editor.HandleSize != 10 {
		t.Fatalf("defaults should still be returned, got %#v", cfg.Editor)
	}
}

func TestValidateClamps(t *testing.T) {
	cfg := Defaults()
	cfg.Editor.HandleSize = -3
	cfg.Editor.HandleBinding = "diagonal"
	cfg.Overlay.Opacity = 2
	cfg.Outline.Width = 0
	cfg.Validate()
	if cfg.Editor.HandleSize != 10 || cfg.Editor.HandleBinding != "index" || cfg.Overlay.Opacity != 0.5 || cfg.Outline.Width != 1.5 {
		t.Fatalf("validate did not clamp: %#v", cfg)
	}
}

func TestMergeIncludesEditorAndLogging(t *testing.T) {
	dst := Defaults()
	src := AppConfig{
		Editor:  EditorConfig{HandleSize: 12, HandleBinding: " Geometric ", Strict: true},
		Outline: OutlineConfig{Dash: []float32{2, 6}},
		Logging: LoggingConfig{Level: "DEBUG", Format: "json", Source: true, File: "C:/tmp/crg.log"},
	}
	mergeInto(&dst, &src)
	if dst.Editor.HandleSize != 12 || dst.Editor.HandleBinding != "geometric" || !dst.Editor.Strict {
		t.Fatalf("editor fields not merged: %#v", dst.Editor)
	}
	if len(dst.Outline.Dash) != 2 || dst.Outline.Dash[1] != 6 || dst.Outline.Color != "#000000" {
		t.Fatalf("outline fields not merged: %#v", dst.Outline)
	}
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "C:/tmp/crg.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(EnvHandleSize, "16")
	t.Setenv(EnvStrict, "yes")
	t.Setenv(EnvStorePath, "X:/crops.sqlite")
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogSource, "1")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Editor.HandleSize != 16 || !cfg.Editor.Strict || cfg.Storage.Path != "X:/crops.sqlite" {
		t.Fatalf("editor/storage env overrides not applied: %#v", cfg)
	}
	if cfg.Logging.Level != "error" || !cfg.Logging.Source {
		t.Fatalf("logging env overrides not applied: %#v", cfg.Logging)
	}
	if env, ok := EnvOverrideFor("editor.handle_size"); !ok || env != EnvHandleSize {
		t.Fatalf("EnvOverrideFor mismatch: %q %v", env, ok)
	}
	if _, ok := EnvOverrideFor("overlay.color"); ok {
		t.Fatalf("overlay.color has no env override")
	}
}

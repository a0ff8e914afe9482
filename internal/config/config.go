/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Editor        EditorConfig  `yaml:"editor"`
	Overlay       OverlayConfig `yaml:"overlay"`
	Outline       OutlineConfig `yaml:"outline"`
	Storage       StorageConfig `yaml:"storage"`
	Logging       LoggingConfig `yaml:"logging"`
}

type EditorConfig struct {
	HandleSize float32 `yaml:"handle_size"`
	// HandleBinding is "index" (handle i mirrors vertex i) or "geometric"
	// (roles recomputed from the vertex layout on every sync).
	HandleBinding string `yaml:"handle_binding"`
	// Strict turns region invariant violations into panics instead of clamping.
	Strict bool `yaml:"strict"`
}

type OverlayConfig struct {
	Color   string  `yaml:"color"`
	Opacity float32 `yaml:"opacity"`
}

type OutlineConfig struct {
	Color       string    `yaml:"color"`
	Width       float32   `yaml:"width"`
	DashedColor string    `yaml:"dashed_color"`
	Dash        []float32 `yaml:"dash"`
}

type StorageConfig struct {
	// Path of the SQLite file that records finalized crops. Empty disables recording.
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Editor:        EditorConfig{HandleSize: 10, HandleBinding: "index"},
		Overlay:       OverlayConfig{Color: "#ffa500", Opacity: 0.5},
		Outline:       OutlineConfig{Color: "#000000", Width: 1.5, DashedColor: "#ffffff", Dash: []float32{4, 4}},
		Storage:       StorageConfig{},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath    = "CRG_CONFIG"
	EnvHandleSize    = "CRG_HANDLE_SIZE"
	EnvHandleBinding = "CRG_HANDLE_BINDING"
	EnvStrict        = "CRG_STRICT"
	EnvStorePath     = "CRG_STORE"
	EnvLogLevel      = "CRG_LOG_LEVEL"
	EnvLogFormat     = "CRG_LOG_FORMAT"
	EnvLogSource     = "CRG_LOG_SOURCE"
	EnvLogFile       = "CRG_LOG_FILE"
)

// ConfigPath returns the per-user config file path. CRG_CONFIG wins when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "CropRegion")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "CropRegion")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "cropregion")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "cropregion")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the config file at path (ConfigPath when empty), applies defaults and
// merges environment overrides. A missing file is not an error; a malformed one is,
// and defaults plus env overrides are still returned alongside it.
func Load(path string) (AppConfig, error) {
	cfg := Defaults()
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			applyEnvOverrides(&cfg)
			return cfg, err
		}
		path = p
	}
	var loadErr error
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			loadErr = fmt.Errorf("parse %s: %w", path, err)
		} else {
			mergeInto(&cfg, &fileCfg)
		}
	case !errors.Is(err, os.ErrNotExist):
		loadErr = fmt.Errorf("read %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	cfg.Validate()
	return cfg, loadErr
}

// Save writes cfg as YAML to path (ConfigPath when empty).
func Save(path string, cfg AppConfig) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate clamps values to usable ranges.
func (c *AppConfig) Validate() {
	d := Defaults()
	if c.Editor.HandleSize <= 0 {
		c.Editor.HandleSize = d.Editor.HandleSize
	}
	switch c.Editor.HandleBinding {
	case "index", "geometric":
	default:
		c.Editor.HandleBinding = d.Editor.HandleBinding
	}
	if c.Overlay.Opacity < 0 || c.Overlay.Opacity > 1 {
		c.Overlay.Opacity = d.Overlay.Opacity
	}
	if c.Outline.Width <= 0 {
		c.Outline.Width = d.Outline.Width
	}
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.Editor.HandleSize != 0 {
		dst.Editor.HandleSize = src.Editor.HandleSize
	}
	if v := strings.ToLower(strings.TrimSpace(src.Editor.HandleBinding)); v != "" {
		dst.Editor.HandleBinding = v
	}
	dst.Editor.Strict = src.Editor.Strict
	if strings.TrimSpace(src.Overlay.Color) != "" {
		dst.Overlay.Color = strings.TrimSpace(src.Overlay.Color)
	}
	if src.Overlay.Opacity != 0 {
		dst.Overlay.Opacity = src.Overlay.Opacity
	}
	if strings.TrimSpace(src.Outline.Color) != "" {
		dst.Outline.Color = strings.TrimSpace(src.Outline.Color)
	}
	if src.Outline.Width != 0 {
		dst.Outline.Width = src.Outline.Width
	}
	if strings.TrimSpace(src.Outline.DashedColor) != "" {
		dst.Outline.DashedColor = strings.TrimSpace(src.Outline.DashedColor)
	}
	if len(src.Outline.Dash) > 0 {
		dst.Outline.Dash = append([]float32(nil), src.Outline.Dash...)
	}
	if strings.TrimSpace(src.Storage.Path) != "" {
		dst.Storage.Path = strings.TrimSpace(src.Storage.Path)
	}
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func parseBool(v string) bool {
	lv := strings.ToLower(strings.TrimSpace(v))
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvHandleSize)); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.Editor.HandleSize = float32(f)
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvHandleBinding)); v != "" {
		cfg.Editor.HandleBinding = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvStrict)); v != "" {
		cfg.Editor.Strict = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvStorePath)); v != "" {
		cfg.Storage.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

var envByKey = map[string]string{
	"editor.handle_size":    EnvHandleSize,
	"editor.handle_binding": EnvHandleBinding,
	"editor.strict":         EnvStrict,
	"storage.path":          EnvStorePath,
	"logging.level":         EnvLogLevel,
	"logging.format":        EnvLogFormat,
	"logging.source":        EnvLogSource,
	"logging.file":          EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env, ok := envByKey[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}

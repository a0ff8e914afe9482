/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cropregion/internal/config"
	"cropregion/internal/crash"
	"cropregion/internal/crop"
	"cropregion/internal/domain"
	"cropregion/internal/export"
	applog "cropregion/internal/log"
	"cropregion/internal/script"
	"cropregion/internal/storage"
	"cropregion/internal/telemetry"
	"cropregion/internal/ui"
	"cropregion/internal/version"
)

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "cropregion: quadrilateral crop region editor")
	_, _ = fmt.Fprintf(w, "Version: %s\n\n", version.String())
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  cropregion version|-v|--version           Show version")
	_, _ = fmt.Fprintln(w, "  cropregion replay <script> [out]           Replay pointer events; out may be .png .bmp .tif .svg .pdf")
	_, _ = fmt.Fprintln(w, "  cropregion history [n]                     List the n most recent stored crops (default 10)")
	_, _ = fmt.Fprintln(w, "  cropregion config [init]                   Show the effective config, or write the defaults")
	_, _ = fmt.Fprintln(w, "  cropregion ui [image]                      Launch desktop UI (build with -tags fyne)")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// cli carries what every command needs.
type cli struct {
	cfg     config.AppConfig
	cfgPath string
	out     io.Writer
	log     *slog.Logger
	tel     *telemetry.Client
	now     func() time.Time
	// current is the controller of the running command, for crash reports.
	current *crop.Controller
}

func run(args []string, stdout, stderr io.Writer) int {
	cfgPath, _ := config.ConfigPath()
	cfg, cfgErr := config.Load(cfgPath)

	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
		Console:   stderr,
	})

	c := &cli{cfg: cfg, cfgPath: cfgPath, out: stdout, log: applog.WithComponent("cli"), tel: telemetry.Default(), now: time.Now}
	defer crash.Recover(crash.DefaultOptions(c.snapshot))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		c.tel.Flush(ctx)
	}()

	if cfgErr != nil {
		c.log.Warn("config not fully loaded; using defaults", slog.Any("err", cfgErr))
	}
	c.log.Debug("start", slog.Int("args", len(args)))
	if len(args) == 0 {
		usage(stdout)
		return 2
	}

	var err error
	switch args[0] {
	case "version", "--version", "-v":
		_, _ = fmt.Fprintln(stdout, version.String())
		return 0
	case "replay":
		if len(args) < 2 {
			_, _ = fmt.Fprintln(stderr, "replay requires <script>")
			usage(stderr)
			return 2
		}
		out := ""
		if len(args) >= 3 {
			out = args[2]
		}
		err = c.replay(context.Background(), args[1], out)
	case "history":
		n := 10
		if len(args) >= 2 {
			v, perr := strconv.Atoi(args[1])
			if perr != nil || v <= 0 {
				_, _ = fmt.Fprintf(stderr, "history: invalid count %q\n", args[1])
				return 2
			}
			n = v
		}
		err = c.history(context.Background(), n)
	case "config":
		err = c.showConfig(len(args) >= 2 && args[1] == "init")
	case "ui":
		bg := ""
		if len(args) >= 2 {
			bg = args[1]
		}
		err = c.ui(bg)
	default:
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		usage(stderr)
		return 2
	}
	if err != nil {
		c.log.Error("command failed", slog.String("cmd", args[0]), slog.Any("err", err))
		_, _ = fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func (c *cli) snapshot() string {
	if c.current == nil {
		return ""
	}
	return c.current.Region().String()
}

// openStore opens the configured crop store. A nil store with a nil error
// means recording is disabled.
func (c *cli) openStore() (*storage.Store, error) {
	if c.cfg.Storage.Path == "" {
		return nil, nil
	}
	s, err := storage.Open(c.cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open crop store: %w", err)
	}
	return s, nil
}

func (c *cli) controller() (*crop.Controller, error) {
	binding, err := crop.ParseBinding(c.cfg.Editor.HandleBinding)
	if err != nil {
		return nil, fmt.Errorf("editor config: %w", err)
	}
	ctrl := crop.NewController(crop.Options{
		HandleSize: c.cfg.Editor.HandleSize,
		Binding:    binding,
		Strict:     c.cfg.Editor.Strict,
		Logger:     applog.WithComponent("crop"),
	})
	c.current = ctrl
	return ctrl, nil
}

func (c *cli) replay(ctx context.Context, path, out string) (err error) {
	l := applog.WithOperation(c.log, "replay")
	s, err := script.Load(path)
	if err != nil {
		return err
	}
	ctrl, err := c.controller()
	if err != nil {
		return err
	}
	store, err := c.openStore()
	if err != nil {
		return err
	}
	if store != nil {
		defer func() {
			if cerr := store.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
	}

	var activations int
	var recordErr error
	ctrl.OnActivationRequested(func(r crop.Region) {
		activations++
		c.tel.Track(telemetry.CropActivated(r.Bounds()))
		if store == nil {
			return
		}
		id, err := store.Record(ctx, domain.NewCropRecord(r, ctrl.Extent(), "replay:"+s.Name, c.now()))
		if err != nil {
			recordErr = errors.Join(recordErr, err)
			return
		}
		l.Info("crop recorded", slog.Int64("id", id))
	})

	l.Info("replaying", slog.String("script", s.Name), slog.Int("events", len(s.Events)))
	if err := script.Run(ctrl, s); err != nil {
		return err
	}
	c.tel.Track(telemetry.Replayed(len(s.Events)))
	if recordErr != nil {
		return fmt.Errorf("record crop: %w", recordErr)
	}

	if r, b, ok := ctrl.CroppedRegion(); ok {
		_, _ = fmt.Fprintf(c.out, "region %s\nbounds %gx%g at (%g, %g)\n", r, b.W, b.H, b.X, b.Y)
	} else {
		_, _ = fmt.Fprintln(c.out, "region empty")
	}
	_, _ = fmt.Fprintf(c.out, "activations %d\n", activations)

	if out == "" {
		return nil
	}
	st, err := export.StyleFromConfig(c.cfg)
	if err != nil {
		return fmt.Errorf("style config: %w", err)
	}
	if err := export.WriteFile(out, ctrl.Frame(), st); err != nil {
		return err
	}
	c.tel.Track(telemetry.Exported(strings.ToLower(filepath.Ext(out))))
	_, _ = fmt.Fprintln(c.out, "wrote", out)
	return nil
}

func (c *cli) history(ctx context.Context, n int) error {
	store, err := c.openStore()
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("no crop store configured; set storage.path or %s", config.EnvStorePath)
	}
	defer func() { _ = store.Close() }()

	recs, err := store.List(ctx, n)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		_, _ = fmt.Fprintln(c.out, "no crops recorded")
		return nil
	}
	for _, r := range recs {
		_, _ = fmt.Fprintf(c.out, "#%d  %s  %-16s %gx%g at (%g, %g)\n",
			r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Source,
			r.Bounds.Width, r.Bounds.Height, r.Bounds.X, r.Bounds.Y)
	}
	return nil
}

func (c *cli) showConfig(write bool) error {
	if write {
		if err := config.Save(c.cfgPath, config.Defaults()); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		_, _ = fmt.Fprintln(c.out, "wrote", c.cfgPath)
		return nil
	}
	_, _ = fmt.Fprintln(c.out, "config:", c.cfgPath)
	rows := []struct {
		key string
		val any
	}{
		{"editor.handle_size", c.cfg.Editor.HandleSize},
		{"editor.handle_binding", c.cfg.Editor.HandleBinding},
		{"editor.strict", c.cfg.Editor.Strict},
		{"storage.path", c.cfg.Storage.Path},
		{"logging.level", c.cfg.Logging.Level},
		{"logging.format", c.cfg.Logging.Format},
		{"logging.source", c.cfg.Logging.Source},
		{"logging.file", c.cfg.Logging.File},
	}
	for _, r := range rows {
		line := fmt.Sprintf("%-22s %v", r.key, r.val)
		if env, ok := config.EnvOverrideFor(r.key); ok {
			line += "  (from " + env + ")"
		}
		_, _ = fmt.Fprintln(c.out, line)
	}
	return nil
}

func (c *cli) ui(background string) error {
	store, err := c.openStore()
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}
	return ui.Run(ui.Options{Config: c.cfg, Store: store, Background: background, Logger: applog.WithComponent("ui")})
}

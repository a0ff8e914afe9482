//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"cropregion/internal/crash"
	"cropregion/internal/crop"
	"cropregion/internal/domain"
	"cropregion/internal/export"
	applog "cropregion/internal/log"
	"cropregion/internal/storage"
	"cropregion/internal/telemetry"
	"cropregion/internal/version"
)

// Run opens the crop editor window and blocks until it is closed.
func Run(opts Options) error {
	l := opts.Logger
	if l == nil {
		l = applog.WithComponent("ui")
	}
	l.Info("starting UI", slog.String("version", version.String()))

	binding, err := crop.ParseBinding(opts.Config.Editor.HandleBinding)
	if err != nil {
		return fmt.Errorf("editor config: %w", err)
	}
	st, err := export.StyleFromConfig(opts.Config)
	if err != nil {
		return fmt.Errorf("style config: %w", err)
	}

	cc := NewCropCanvas(crop.Options{
		HandleSize: opts.Config.Editor.HandleSize,
		Binding:    binding,
		Strict:     opts.Config.Editor.Strict,
		Logger:     applog.WithComponent("crop"),
	}, st)
	ctrl := cc.Controller()
	defer crash.Recover(crash.DefaultOptions(func() string { return ctrl.Region().String() }))

	fyneApp := app.NewWithID("io.cropregion")
	w := fyneApp.NewWindow("Crop Region")
	prefs := fyneApp.Preferences()
	winW := max(prefs.IntWithFallback("window.width", 960), 480)
	winH := max(prefs.IntWithFallback("window.height", 720), 360)
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Drag to draw a crop region")
	ctrl.OnRegionChanged(func(r crop.Region) {
		if r.Empty() {
			status.SetText("No region")
			return
		}
		b := r.Bounds()
		status.SetText(fmt.Sprintf("Region %.0fx%.0f at (%.0f, %.0f)", b.W, b.H, b.X, b.Y))
	})
	cc.OnCapture = func(o crop.CaptureOwner) { l.Debug("capture", slog.String("owner", o.String())) }
	ctrl.OnActivationRequested(func(r crop.Region) {
		telemetry.Default().Track(telemetry.CropActivated(r.Bounds()))
		if opts.Store == nil {
			status.SetText("Crop activated")
			return
		}
		rec := domain.NewCropRecord(r, ctrl.Extent(), "ui", time.Now())
		id, err := opts.Store.Record(context.Background(), rec)
		if err != nil {
			l.Error("record crop failed", slog.Any("err", err))
			dialog.ShowError(err, w)
			return
		}
		status.SetText(fmt.Sprintf("Crop #%d saved", id))
	})

	if opts.Background != "" {
		img, err := loadImage(opts.Background)
		if err != nil {
			l.Warn("background image not loaded", slog.String("path", opts.Background), slog.Any("err", err))
		} else {
			cc.SetBackground(img)
		}
	}

	clearBtn := widget.NewButton("Clear", func() { ctrl.SetRegion(crop.Region{}) })
	restoreBtn := widget.NewButton("Restore last", func() {
		if err := restoreLatest(opts.Store, ctrl); err != nil {
			dialog.ShowError(err, w)
		}
	})
	if opts.Store == nil {
		restoreBtn.Disable()
	}
	exportBtn := widget.NewButton("Export…", func() {
		dialog.ShowFileSave(func(wc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if wc == nil {
				return
			}
			defer func() { _ = wc.Close() }()
			ext := wc.URI().Extension()
			if err := export.Write(wc, ext, ctrl.Frame(), st); err != nil {
				l.Error("export failed", slog.String("uri", wc.URI().String()), slog.Any("err", err))
				dialog.ShowError(err, w)
				return
			}
			telemetry.Default().Track(telemetry.Exported(ext))
			status.SetText("Exported " + wc.URI().Name())
		}, w)
	})

	toolbar := container.NewHBox(clearBtn, restoreBtn, exportBtn)
	w.SetContent(container.NewBorder(toolbar, status, nil, nil, cc))
	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		l.Info("UI closed")
	})
	w.ShowAndRun()
	return nil
}

func restoreLatest(s *storage.Store, ctrl *crop.Controller) error {
	if s == nil {
		return errors.New("no crop store configured")
	}
	rec, err := s.Latest(context.Background())
	if err != nil {
		return fmt.Errorf("load latest crop: %w", err)
	}
	r, err := rec.Region()
	if err != nil {
		return err
	}
	ctrl.SetRegion(r)
	return nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

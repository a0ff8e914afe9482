//go:build fyne

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"cropregion/internal/crop"
	"cropregion/internal/export"
	"cropregion/internal/vector"
)

// CropCanvas is a Fyne widget hosting a crop.Controller. Widget coordinates
// are canvas coordinates; the frame is drawn through a raster over an
// optional background image.
type CropCanvas struct {
	widget.BaseWidget

	ctrl   *crop.Controller
	style  export.Style
	clicks *ClickCounter
	holder crop.CaptureOwner
	bg     image.Image
	now    func() time.Time

	// OnCapture, when set, is told about every capture change.
	OnCapture func(crop.CaptureOwner)
}

var (
	_ desktop.Mouseable  = (*CropCanvas)(nil)
	_ desktop.Hoverable  = (*CropCanvas)(nil)
	_ desktop.Cursorable = (*CropCanvas)(nil)
	_ fyne.Draggable     = (*CropCanvas)(nil)
	_ crop.Capturer      = (*CropCanvas)(nil)
)

// NewCropCanvas builds the widget and its controller. opts.Capturer is
// replaced by the widget itself.
func NewCropCanvas(opts crop.Options, st export.Style) *CropCanvas {
	c := &CropCanvas{style: st, clicks: NewClickCounter(), now: time.Now}
	opts.Capturer = c
	c.ctrl = crop.NewController(opts)
	c.ctrl.OnRegionChanged(func(crop.Region) { c.Refresh() })
	c.ExtendBaseWidget(c)
	return c
}

func (c *CropCanvas) Controller() *crop.Controller { return c.ctrl }

// SetBackground replaces the image drawn under the overlay. nil clears it.
func (c *CropCanvas) SetBackground(img image.Image) {
	c.bg = img
	c.Refresh()
}

// Resize keeps the controller's extent in step with the widget size.
func (c *CropCanvas) Resize(size fyne.Size) {
	c.BaseWidget.Resize(size)
	c.ctrl.Resize(vector.Size{W: size.Width, H: size.Height})
	c.Refresh()
}

// Capture and Release record the owner; Fyne keeps delivering drag events to
// the widget that saw the press, so no further grab is needed.
func (c *CropCanvas) Capture(o crop.CaptureOwner) { c.setHolder(o) }
func (c *CropCanvas) Release(crop.CaptureOwner)   { c.setHolder(crop.CaptureOwner{}) }

func (c *CropCanvas) setHolder(o crop.CaptureOwner) {
	c.holder = o
	if c.OnCapture != nil {
		c.OnCapture(o)
	}
}

func (c *CropCanvas) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	p := toPt(e.Position)
	c.ctrl.PointerDown(p, c.clicks.Press(c.now(), p))
	c.Refresh()
}

func (c *CropCanvas) MouseUp(*desktop.MouseEvent) {
	c.ctrl.PointerUp()
	c.Refresh()
}

func (c *CropCanvas) MouseIn(*desktop.MouseEvent) {}

func (c *CropCanvas) MouseMoved(e *desktop.MouseEvent) { c.ctrl.PointerMove(toPt(e.Position)) }

func (c *CropCanvas) MouseOut() {}

func (c *CropCanvas) Dragged(e *fyne.DragEvent) { c.ctrl.PointerMove(toPt(e.Position)) }

func (c *CropCanvas) DragEnd() {
	c.ctrl.PointerUp()
	c.Refresh()
}

func (c *CropCanvas) Cursor() desktop.Cursor {
	if c.holder.Kind == crop.CaptureHandle {
		return desktop.HResizeCursor
	}
	return desktop.CrosshairCursor
}

func (c *CropCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewImageFromImage(nil)
	bg.FillMode = canvas.ImageFillStretch
	r := &cropCanvasRenderer{c: c, bg: bg, raster: canvas.NewRaster(c.render)}
	r.objects = []fyne.CanvasObject{bg, r.raster}
	r.Refresh()
	return r
}

// render draws the current frame at w x h pixels.
func (c *CropCanvas) render(w, h int) image.Image {
	ext := c.ctrl.Extent()
	if ext.W <= 0 || ext.H <= 0 || w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	}
	return export.Rasterize(c.ctrl.Frame(), c.style, float32(w)/ext.W)
}

func toPt(p fyne.Position) vector.Pt { return vector.Pt{X: p.X, Y: p.Y} }

type cropCanvasRenderer struct {
	c       *CropCanvas
	bg      *canvas.Image
	raster  *canvas.Raster
	objects []fyne.CanvasObject
}

func (r *cropCanvasRenderer) Layout(size fyne.Size) {
	for _, o := range r.objects {
		o.Move(fyne.NewPos(0, 0))
		o.Resize(size)
	}
}

func (r *cropCanvasRenderer) MinSize() fyne.Size { return fyne.NewSize(320, 240) }

func (r *cropCanvasRenderer) Refresh() {
	r.bg.Image = r.c.bg
	if r.c.bg == nil {
		r.bg.Hide()
	} else {
		r.bg.Show()
	}
	r.bg.Refresh()
	r.raster.Refresh()
}

func (r *cropCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *cropCanvasRenderer) Destroy() {}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crop

import (
	"log/slog"

	"cropregion/internal/vector"
)

// DefaultHandleSize is the edge length of a handle square in canvas units.
const DefaultHandleSize float32 = 10

// Options configures a Controller. The zero value is usable.
type Options struct {
	Extent     vector.Size
	HandleSize float32
	Binding    Binding
	// Strict makes invariant violations panic instead of being clamped.
	Strict   bool
	Capturer Capturer
	Logger   *slog.Logger
}

// Frame is everything a render sink needs to draw the editor.
type Frame struct {
	State          State
	Outline        Region
	Handles        [4]Handle
	HandlesVisible bool
	Mask           Mask
}

// Controller turns pointer events into region mutations. It is not safe for
// concurrent use; drive it from the host's event loop.
type Controller struct {
	model    *Model
	handles  *HandleSet
	overlay  *Compositor
	capturer Capturer
	holder   CaptureOwner

	changed   registry[Region]
	activated registry[Region]

	log *slog.Logger
}

func NewController(opts Options) *Controller {
	l := opts.Logger
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	size := opts.HandleSize
	if size <= 0 {
		size = DefaultHandleSize
	}
	capt := opts.Capturer
	if capt == nil {
		capt = nopCapturer{}
	}
	return &Controller{
		model:    NewModel(opts.Strict, l),
		handles:  NewHandleSet(size, opts.Binding),
		overlay:  NewCompositor(opts.Extent),
		capturer: capt,
		log:      l,
	}
}

// OnRegionChanged registers fn to receive a snapshot after every geometry
// change. The returned func unsubscribes.
func (c *Controller) OnRegionChanged(fn func(Region)) func() { return c.changed.add(fn) }

// OnActivationRequested registers fn to receive the region when the user
// double-clicks inside it. The returned func unsubscribes.
func (c *Controller) OnActivationRequested(fn func(Region)) func() { return c.activated.add(fn) }

// PointerDown starts a gesture at pos. clicks is the host's click count.
func (c *Controller) PointerDown(pos vector.Pt, clicks int) {
	if st := c.model.State(); st != Idle {
		// A lost PointerUp would otherwise leave capture dangling.
		c.log.Warn("pointer down during gesture; ending it", slog.String("state", st.String()))
		c.PointerUp()
	}

	if role, ok := c.handles.HitTest(pos); ok {
		c.model.BeginResize(c.handles.Handle(role), pos)
		c.acquire(CaptureOwner{Kind: CaptureHandle, Role: role})
		c.transition(Idle, slog.String("role", role.String()))
		return
	}

	if c.model.HitTest(pos) == Outside {
		if c.model.Clear() {
			c.publish()
		}
		c.model.BeginDraw(pos)
		c.acquire(CaptureOwner{Kind: CaptureController})
		c.transition(Idle)
		return
	}

	if clicks >= 2 {
		r := c.model.Region()
		c.log.Info("activation requested", slog.String("region", r.String()))
		c.activated.emit(r)
		return
	}

	c.model.BeginDrag(pos)
	c.acquire(CaptureOwner{Kind: CaptureController})
	c.transition(Idle)
}

// PointerMove advances the current gesture. It does nothing while idle.
func (c *Controller) PointerMove(pos vector.Pt) {
	var changed bool
	switch c.model.State() {
	case Drawing:
		changed = c.model.UpdateDraw(pos)
	case Dragging:
		changed = c.model.UpdateDrag(pos)
	case Resizing:
		changed = c.model.UpdateResize(pos)
	}
	if changed {
		c.publish()
	}
}

// PointerUp ends the gesture and always releases pointer capture.
func (c *Controller) PointerUp() {
	prev := c.model.State()
	c.release()
	c.model.EndInteraction()
	if prev != Idle {
		c.log.Debug("state", slog.String("from", prev.String()), slog.String("to", Idle.String()))
	}
}

// Resize tells the controller the canvas extent changed.
func (c *Controller) Resize(extent vector.Size) {
	c.overlay.Resize(extent)
}

// SetRegion replaces the region, e.g. with a previously stored crop.
func (c *Controller) SetRegion(r Region) {
	if c.model.Replace(r) {
		c.publish()
	}
}

func (c *Controller) State() State                   { return c.model.State() }
func (c *Controller) ActiveRole() (HandleRole, bool) { return c.model.ActiveRole() }
func (c *Controller) Region() Region                 { return c.model.Region() }
func (c *Controller) Extent() vector.Size            { return c.overlay.Extent() }

// CaptureHolder returns who currently holds pointer capture.
func (c *Controller) CaptureHolder() CaptureOwner { return c.holder }

// CroppedRegion returns the region and its bounding rectangle. ok is false when
// no region exists.
func (c *Controller) CroppedRegion() (r Region, bounds vector.Rect, ok bool) {
	r = c.model.Region()
	if r.Len() != 4 {
		return Region{}, vector.Rect{}, false
	}
	return r, r.Bounds(), true
}

// Frame returns a snapshot for rendering.
func (c *Controller) Frame() Frame {
	return Frame{
		State:          c.model.State(),
		Outline:        c.model.Region(),
		Handles:        c.handles.Handles(),
		HandlesVisible: c.handles.Visible(),
		Mask:           c.overlay.Mask(),
	}
}

// publish pushes the current snapshot to handles, overlay and listeners, in
// that order.
func (c *Controller) publish() {
	r := c.model.Region()
	c.handles.Sync(r)
	c.handles.SetVisible(true, r)
	c.overlay.Update(r)
	c.changed.emit(r)
}

func (c *Controller) acquire(o CaptureOwner) {
	if c.holder.Kind != CaptureNone {
		c.release()
	}
	c.holder = o
	c.capturer.Capture(o)
}

func (c *Controller) release() {
	if c.holder.Kind == CaptureNone {
		return
	}
	c.capturer.Release(c.holder)
	c.holder = CaptureOwner{}
}

func (c *Controller) transition(from State, attrs ...any) {
	args := append([]any{
		slog.String("from", from.String()),
		slog.String("to", c.model.State().String()),
		slog.String("capture", c.holder.String()),
	}, attrs...)
	c.log.Debug("state", args...)
}

// Package autoscroll scrolls the time-grid viewport while an active drag
// hovers near its top or bottom edge. It is driven by an external frame
// ticker and stops unconditionally the moment the drag ends.
package autoscroll

import (
	"context"
	"sync"
)

const (
	// EdgeThreshold is the distance from a viewport edge, in pixels,
	// inside which scrolling engages.
	EdgeThreshold = 40.0

	// ScrollRate is the scroll distance applied per frame tick, in pixels.
	ScrollRate = 12.0
)

// Viewport is the scrollable container the controller reads and writes.
type Viewport interface {
	ScrollTop() float64
	SetScrollTop(float64)
	Height() float64
}

// Controller evaluates the pointer position against the viewport edges once
// per frame and applies a constant-rate scroll while it stays in the edge
// zone. The frame loop and the input loop may run on different goroutines.
type Controller struct {
	mu       sync.Mutex
	vp       Viewport
	active   bool
	pointerY float64
}

// New returns a Controller over the given viewport.
func New(vp Viewport) *Controller {
	return &Controller{vp: vp}
}

// Start engages the controller for the lifetime of a drag session.
func (c *Controller) Start() {
	c.mu.Lock()
	c.active = true
	c.mu.Unlock()
}

// Stop disengages immediately. Ticks after Stop do nothing, so a drag ending
// mid-frame cannot leave a lingering scroll.
func (c *Controller) Stop() {
	c.mu.Lock()
	c.active = false
	c.mu.Unlock()
}

// Active reports whether a drag session is holding the controller engaged.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Pointer records the latest viewport-relative pointer position. Each frame
// re-evaluates against this value, so the pointer leaving the edge zone
// stops the scroll without any extra signal.
func (c *Controller) Pointer(y float64) {
	c.mu.Lock()
	c.pointerY = y
	c.mu.Unlock()
}

// Tick applies at most one frame's scroll and returns the delta applied. The
// scroll offset never goes below zero.
func (c *Controller) Tick() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return 0
	}

	var delta float64
	switch {
	case c.pointerY < EdgeThreshold:
		delta = -ScrollRate
	case c.pointerY > c.vp.Height()-EdgeThreshold:
		delta = ScrollRate
	default:
		return 0
	}

	top := c.vp.ScrollTop() + delta
	if top < 0 {
		top = 0
	}
	applied := top - c.vp.ScrollTop()
	if applied != 0 {
		c.vp.SetScrollTop(top)
	}
	return applied
}

// Run drives Tick from a frame channel until the context is cancelled. It is
// the per-frame scheduling loop used while a drag session is live.
func (c *Controller) Run(ctx context.Context, frames <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-frames:
			if !ok {
				return
			}
			c.Tick()
		}
	}
}

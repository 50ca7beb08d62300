// Package zoom owns the pixels-per-hour scale of the time grid and the
// anchor-preserving scroll restore that keeps the instant under the pointer
// fixed while zooming.
package zoom

import "github.com/jhartwell/dayframe/internal/timegrid"

const (
	// MinHourHeight and MaxHourHeight bound the scale.
	MinHourHeight = 24.0
	MaxHourHeight = 480.0

	// StepFactor is the scale multiplier applied per discrete zoom step.
	StepFactor = 1.15
)

// Controller is the single writer of the hour-height scale. Readers take
// HourHeight as an immutable snapshot per recomputation.
type Controller struct {
	hourHeight float64
}

// New returns a Controller at the given initial scale, clamped into bounds.
func New(hourHeight float64) *Controller {
	return &Controller{hourHeight: clamp(hourHeight)}
}

// HourHeight returns the current scale in pixels per hour.
func (c *Controller) HourHeight() float64 { return c.hourHeight }

// Step applies one zoom step: positive steps zoom in, negative out. pointerY
// is the pointer's position within the viewport and scrollTop the viewport's
// current scroll offset. It returns the new scroll offset that keeps the
// time under the pointer stationary, clamped to >= 0.
func (c *Controller) Step(steps int, pointerY, scrollTop float64) (newScrollTop float64) {
	if steps == 0 {
		return scrollTop
	}

	anchor := timegrid.PixelToMinutes(pointerY+scrollTop, c.hourHeight, 0)

	next := c.hourHeight
	for ; steps > 0; steps-- {
		next *= StepFactor
	}
	for ; steps < 0; steps++ {
		next /= StepFactor
	}
	c.hourHeight = clamp(next)

	newScrollTop = timegrid.MinutesToPixel(anchor, c.hourHeight, 0) - pointerY
	if newScrollTop < 0 {
		newScrollTop = 0
	}
	return newScrollTop
}

func clamp(h float64) float64 {
	if h < MinHourHeight {
		return MinHourHeight
	}
	if h > MaxHourHeight {
		return MaxHourHeight
	}
	return h
}

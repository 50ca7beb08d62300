// Package drag is the pointer interaction engine for the calendar grid. A
// Controller owns at most one Session per pointer-down-to-up gesture and
// turns each pointer sample into a full mutation proposal: create-by-drag,
// move, resize either edge, or convert between timed and all-day. Every
// proposal is recomputed from the session's original values plus the
// absolute pointer position, never from the previous proposal, so samples
// are idempotent and cannot drift.
package drag

import (
	"time"

	"github.com/jhartwell/dayframe/internal/timegrid"
)

// Mode identifies the active gesture.
type Mode int

const (
	ModeIdle Mode = iota
	ModeCreate
	ModeMove
	ModeResizeTop
	ModeResizeBottom
	ModeConvertAllDay
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeMove:
		return "move"
	case ModeResizeTop:
		return "resize_top"
	case ModeResizeBottom:
		return "resize_bottom"
	case ModeConvertAllDay:
		return "convert_all_day"
	default:
		return "idle"
	}
}

// ParseMode maps a wire-level mode name to a Mode; unknown names are Idle.
func ParseMode(s string) Mode {
	switch s {
	case "create":
		return ModeCreate
	case "move":
		return ModeMove
	case "resize_top":
		return ModeResizeTop
	case "resize_bottom":
		return ModeResizeBottom
	case "convert_all_day":
		return ModeConvertAllDay
	default:
		return ModeIdle
	}
}

// ConvertDurationMinutes is the default length of an all-day event dropped
// onto the time canvas.
const ConvertDurationMinutes = 60

// Geometry is the grid metric snapshot attached to each sample. The
// controller never caches it across samples; zoom changes mid-drag take
// effect on the next sample.
type Geometry struct {
	HourHeight     float64
	ScrollTop      float64
	DayStartOffset int
}

// Sample is one pointer position. Day is the start instant of the visual day
// column under the pointer; Y is viewport-relative within the time canvas.
type Sample struct {
	Day    time.Time
	Y      float64
	InBand bool
	Geom   Geometry
}

// Target is the event a gesture manipulates. It is zero for create gestures.
type Target struct {
	ID     int64
	Start  time.Time
	End    time.Time
	AllDay bool
}

// Proposal is a complete proposed event state. EventID zero means "create a
// new event with these times".
type Proposal struct {
	EventID int64
	Start   time.Time
	End     time.Time
	AllDay  bool
}

// Session holds one gesture's immutable originals plus pointer-down state.
type Session struct {
	Mode            Mode
	Target          Target
	DownDay         time.Time
	DownMinutes     float64 // raw (unsnapped) canvas minutes at pointer-down
	PointerStartY   float64
	ScrollTopAtDown float64

	grabOffset float64 // move only: pointer minutes minus event start minutes
	emitted    bool
}

// Controller drives drag sessions. It is single-writer state: exactly one
// goroutine (the input loop) may call its methods.
type Controller struct {
	session *Session
}

// Active reports whether a gesture is in progress.
func (c *Controller) Active() bool { return c.session != nil }

// Mode returns the active gesture mode, or ModeIdle.
func (c *Controller) Mode() Mode {
	if c.session == nil {
		return ModeIdle
	}
	return c.session.Mode
}

func rawMinutes(s Sample) float64 {
	return timegrid.PixelToMinutes(s.Y+s.Geom.ScrollTop, s.Geom.HourHeight, 0)
}

func minDuration(granularity int) int {
	if granularity > 5 {
		return granularity
	}
	return 5
}

// Begin opens a session. For ModeCreate the target is ignored; for every
// other mode it carries the event's pre-gesture state, which Escape reverts
// to. A second Begin while active replaces the stale session.
func (c *Controller) Begin(mode Mode, target Target, s Sample) {
	if mode == ModeIdle {
		return
	}
	sess := &Session{
		Mode:            mode,
		Target:          target,
		DownDay:         s.Day,
		DownMinutes:     rawMinutes(s),
		PointerStartY:   s.Y,
		ScrollTopAtDown: s.Geom.ScrollTop,
	}
	if mode == ModeMove {
		origDay := timegrid.DayStart(target.Start, s.Geom.DayStartOffset)
		startMin := float64(target.Start.Sub(origDay) / time.Minute)
		sess.grabOffset = sess.DownMinutes - startMin
	}
	c.session = sess
}

// Move recomputes the live proposal for a pointer-move sample. The bool is
// false when no session is active or the sample produces nothing to emit
// (a create gesture still at its origin).
func (c *Controller) Move(s Sample) (Proposal, bool) {
	if c.session == nil {
		return Proposal{}, false
	}
	p, ok := c.propose(s)
	if ok {
		c.session.emitted = true
	}
	return p, ok
}

// End finalizes the gesture and returns the session to idle. A create
// released with zero net delta is a plain click and emits nothing. A timed
// event released over the all-day band finalizes as an all-day conversion
// spanning its original start day, whatever the intermediate proposals said.
func (c *Controller) End(s Sample) (Proposal, bool) {
	sess := c.session
	if sess == nil {
		return Proposal{}, false
	}
	c.session = nil

	if s.InBand && !sess.Target.AllDay && (sess.Mode == ModeMove || sess.Mode == ModeConvertAllDay) {
		day := timegrid.DayStart(sess.Target.Start, s.Geom.DayStartOffset)
		return Proposal{
			EventID: sess.Target.ID,
			Start:   day,
			End:     day.Add(24 * time.Hour),
			AllDay:  true,
		}, true
	}

	c.session = sess
	p, ok := c.propose(s)
	c.session = nil
	if !ok && sess.emitted && sess.Target.ID != 0 {
		// The store saw optimistic proposals; settle it back to a full state.
		return revert(sess.Target), true
	}
	return p, ok
}

// Cancel aborts the session (Escape). If any proposal was already emitted
// for an existing event, the returned proposal restores its original state;
// otherwise there is nothing to undo. Samples after Cancel are ignored.
func (c *Controller) Cancel() (Proposal, bool) {
	sess := c.session
	if sess == nil {
		return Proposal{}, false
	}
	c.session = nil
	if !sess.emitted || sess.Target.ID == 0 {
		return Proposal{}, false
	}
	return revert(sess.Target), true
}

func revert(t Target) Proposal {
	return Proposal{EventID: t.ID, Start: t.Start, End: t.End, AllDay: t.AllDay}
}

func (c *Controller) propose(s Sample) (Proposal, bool) {
	sess := c.session
	g := timegrid.SnapGranularity(s.Geom.HourHeight)
	cur := clampSnap(rawMinutes(s), g)

	switch sess.Mode {
	case ModeCreate:
		down := clampSnap(sess.DownMinutes, g)
		if cur == down {
			return Proposal{}, false
		}
		start, end := down, cur
		if end < start {
			start, end = end, start
		}
		return Proposal{
			Start: sess.DownDay.Add(minutes(start)),
			End:   sess.DownDay.Add(minutes(end)),
		}, true

	case ModeMove:
		dur := int(sess.Target.End.Sub(sess.Target.Start) / time.Minute)
		if dur < 0 {
			dur = 0
		}
		start := timegrid.Snap(rawMinutes(s)-sess.grabOffset, g)
		if dur > timegrid.MinutesPerDay {
			dur = timegrid.MinutesPerDay
		}
		// Clamp the whole interval into the destination day, pinning the
		// boundary that was crossed and preserving duration.
		if start < 0 {
			start = 0
		}
		if start+dur > timegrid.MinutesPerDay {
			start = timegrid.MinutesPerDay - dur
		}
		return Proposal{
			EventID: sess.Target.ID,
			Start:   s.Day.Add(minutes(start)),
			End:     s.Day.Add(minutes(start + dur)),
		}, true

	case ModeResizeTop, ModeResizeBottom:
		origDay := timegrid.DayStart(sess.Target.Start, s.Geom.DayStartOffset)
		s0, e0 := timegrid.ClipToDay(sess.Target.Start, sess.Target.End, origDay)
		anchor := e0
		if sess.Mode == ModeResizeBottom {
			anchor = s0
		}
		start, end := cur, anchor
		if end < start {
			// Dragging through the opposite edge swaps which edge is start.
			start, end = end, start
		}
		if min := minDuration(g); end-start < min {
			if cur >= anchor {
				end = start + min
				if end > timegrid.MinutesPerDay {
					end = timegrid.MinutesPerDay
					start = end - min
				}
			} else {
				start = end - min
				if start < 0 {
					start = 0
					end = min
				}
			}
		}
		return Proposal{
			EventID: sess.Target.ID,
			Start:   origDay.Add(minutes(start)),
			End:     origDay.Add(minutes(end)),
		}, true

	case ModeConvertAllDay:
		if s.InBand {
			// Still inside the band: the event keeps its all-day shape.
			return revert(sess.Target), true
		}
		start := cur
		if start > timegrid.MinutesPerDay-ConvertDurationMinutes {
			start = timegrid.MinutesPerDay - ConvertDurationMinutes
		}
		return Proposal{
			EventID: sess.Target.ID,
			Start:   s.Day.Add(minutes(start)),
			End:     s.Day.Add(minutes(start + ConvertDurationMinutes)),
		}, true
	}

	return Proposal{}, false
}

func clampSnap(raw float64, granularity int) int {
	m := timegrid.Snap(raw, granularity)
	if m < 0 {
		return 0
	}
	if m > timegrid.MinutesPerDay {
		return timegrid.MinutesPerDay
	}
	return m
}

func minutes(m int) time.Duration {
	return time.Duration(m) * time.Minute
}

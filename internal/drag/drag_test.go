package drag

import (
	"testing"
	"time"
)

var day = time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

func sample(y float64, hourHeight float64) Sample {
	return Sample{Day: day, Y: y, Geom: Geometry{HourHeight: hourHeight}}
}

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func TestCreateByDrag(t *testing.T) {
	// hourHeight 60 gives a 15-minute snap. y=120 is 02:00, y=220 is 03:40
	// raw, snapping to 03:45.
	var c Controller
	c.Begin(ModeCreate, Target{}, sample(120, 60))

	p, ok := c.Move(sample(220, 60))
	if !ok {
		t.Fatal("expected a live proposal")
	}
	if !p.Start.Equal(at(2, 0)) || !p.End.Equal(at(3, 45)) {
		t.Errorf("proposal = %v-%v, want 02:00-03:45", p.Start, p.End)
	}

	final, ok := c.End(sample(220, 60))
	if !ok {
		t.Fatal("expected a final proposal")
	}
	if final.EventID != 0 {
		t.Errorf("create proposal should carry no event id, got %d", final.EventID)
	}
	if !final.Start.Equal(at(2, 0)) || !final.End.Equal(at(3, 45)) {
		t.Errorf("final = %v-%v, want 02:00-03:45", final.Start, final.End)
	}
	if c.Active() {
		t.Error("session should be idle after End")
	}
}

func TestCreateUpwardDragSwapsEndpoints(t *testing.T) {
	var c Controller
	c.Begin(ModeCreate, Target{}, sample(240, 60))

	p, ok := c.Move(sample(120, 60))
	if !ok {
		t.Fatal("expected a proposal")
	}
	if !p.Start.Equal(at(2, 0)) || !p.End.Equal(at(4, 0)) {
		t.Errorf("proposal = %v-%v, want 02:00-04:00", p.Start, p.End)
	}
}

func TestCreateZeroDeltaIsClick(t *testing.T) {
	var c Controller
	c.Begin(ModeCreate, Target{}, sample(120, 60))

	if _, ok := c.Move(sample(121, 60)); ok {
		t.Error("a sub-snap wiggle should not emit a proposal")
	}
	if _, ok := c.End(sample(120, 60)); ok {
		t.Error("zero net delta release should be a no-op")
	}
}

func TestMovePreservesDuration(t *testing.T) {
	target := Target{ID: 7, Start: at(9, 0), End: at(10, 30)}
	var c Controller
	// Grab the event at 09:30 (y=570) and drag down two hours.
	c.Begin(ModeMove, target, sample(570, 60))

	p, ok := c.Move(sample(690, 60))
	if !ok {
		t.Fatal("expected a proposal")
	}
	if !p.Start.Equal(at(11, 0)) || !p.End.Equal(at(12, 30)) {
		t.Errorf("proposal = %v-%v, want 11:00-12:30", p.Start, p.End)
	}
	if p.EventID != 7 {
		t.Errorf("event id = %d, want 7", p.EventID)
	}
}

func TestMoveAcrossDayColumns(t *testing.T) {
	target := Target{ID: 7, Start: at(9, 0), End: at(10, 0)}
	var c Controller
	c.Begin(ModeMove, target, sample(540, 60))

	other := day.AddDate(0, 0, 2)
	s := sample(540, 60)
	s.Day = other
	p, ok := c.Move(s)
	if !ok {
		t.Fatal("expected a proposal")
	}
	if !p.Start.Equal(other.Add(9 * time.Hour)) {
		t.Errorf("start = %v, want 09:00 two days later", p.Start)
	}
}

func TestMoveClampsPinningBoundary(t *testing.T) {
	target := Target{ID: 7, Start: at(22, 0), End: at(23, 30)}
	var c Controller
	c.Begin(ModeMove, target, sample(1320, 60)) // grab at its start

	// Drag well past the bottom of the day.
	p, ok := c.Move(sample(1500, 60))
	if !ok {
		t.Fatal("expected a proposal")
	}
	if !p.End.Equal(day.Add(24 * time.Hour)) {
		t.Errorf("end = %v, want pinned at day end", p.End)
	}
	if !p.Start.Equal(at(22, 30)) {
		t.Errorf("start = %v, want 22:30 (end minus original duration)", p.Start)
	}
}

func TestMoveClampsAtTop(t *testing.T) {
	target := Target{ID: 7, Start: at(1, 0), End: at(2, 0)}
	var c Controller
	c.Begin(ModeMove, target, sample(60, 60))

	p, ok := c.Move(sample(-100, 60))
	if !ok {
		t.Fatal("expected a proposal")
	}
	if !p.Start.Equal(at(0, 0)) || !p.End.Equal(at(1, 0)) {
		t.Errorf("proposal = %v-%v, want 00:00-01:00", p.Start, p.End)
	}
}

func TestResizeBottom(t *testing.T) {
	target := Target{ID: 3, Start: at(9, 0), End: at(10, 0)}
	var c Controller
	c.Begin(ModeResizeBottom, target, sample(600, 60))

	p, ok := c.Move(sample(675, 60))
	if !ok {
		t.Fatal("expected a proposal")
	}
	if !p.Start.Equal(at(9, 0)) || !p.End.Equal(at(11, 15)) {
		t.Errorf("proposal = %v-%v, want 09:00-11:15", p.Start, p.End)
	}
}

func TestResizeTopThroughBottomSwapsEdges(t *testing.T) {
	// Scenario: dragging the top edge downward past the bottom edge makes
	// the old bottom the new start.
	target := Target{ID: 3, Start: at(9, 0), End: at(10, 0)}
	var c Controller
	c.Begin(ModeResizeTop, target, sample(540, 60))

	p, ok := c.Move(sample(660, 60)) // 11:00, below the 10:00 anchor
	if !ok {
		t.Fatal("expected a proposal")
	}
	if !p.Start.Equal(at(10, 0)) || !p.End.Equal(at(11, 0)) {
		t.Errorf("proposal = %v-%v, want 10:00-11:00", p.Start, p.End)
	}
}

func TestResizeEnforcesMinimumDuration(t *testing.T) {
	target := Target{ID: 3, Start: at(9, 0), End: at(10, 0)}
	var c Controller
	c.Begin(ModeResizeTop, target, sample(540, 60))

	// Drag the top edge to exactly the anchor. Snap is 15 at this zoom, so
	// the minimum duration is 15 minutes, pushed off the non-anchor side.
	p, ok := c.Move(sample(600, 60))
	if !ok {
		t.Fatal("expected a proposal")
	}
	if got := p.End.Sub(p.Start); got != 15*time.Minute {
		t.Errorf("duration = %v, want 15m", got)
	}
	if !p.Start.Equal(at(10, 0)) {
		t.Errorf("start = %v, want anchored at 10:00", p.Start)
	}
}

func TestResizeMinimumDurationFineZoom(t *testing.T) {
	// At 400 px/hr the snap is 1 minute, so the floor of 5 minutes wins.
	target := Target{ID: 3, Start: at(9, 0), End: at(9, 30)}
	var c Controller
	c.Begin(ModeResizeBottom, target, sample(9.5*400, 400))

	p, ok := c.Move(sample(9*400, 400)) // drag bottom up to the start
	if !ok {
		t.Fatal("expected a proposal")
	}
	if got := p.End.Sub(p.Start); got != 5*time.Minute {
		t.Errorf("duration = %v, want 5m", got)
	}
}

func TestConvertAllDayToTimed(t *testing.T) {
	target := Target{ID: 5, Start: day, End: day.Add(24 * time.Hour), AllDay: true}
	var c Controller
	down := sample(0, 60)
	down.InBand = true
	c.Begin(ModeConvertAllDay, target, down)

	// Still in the band: shape unchanged.
	p, ok := c.Move(down)
	if !ok || !p.AllDay {
		t.Fatalf("in-band proposal should keep the all-day shape, got %+v ok=%v", p, ok)
	}

	// Dropped at 14:00 on the canvas: timed with the default hour length.
	p, ok = c.End(sample(840, 60))
	if !ok {
		t.Fatal("expected a final proposal")
	}
	if p.AllDay {
		t.Error("drop below the band should convert to timed")
	}
	if !p.Start.Equal(at(14, 0)) || !p.End.Equal(at(15, 0)) {
		t.Errorf("proposal = %v-%v, want 14:00-15:00", p.Start, p.End)
	}
}

func TestConvertReleaseInsideBandKeepsAllDay(t *testing.T) {
	target := Target{ID: 5, Start: day, End: day.Add(24 * time.Hour), AllDay: true}
	var c Controller
	down := sample(0, 60)
	down.InBand = true
	c.Begin(ModeConvertAllDay, target, down)
	c.Move(sample(840, 60)) // briefly below the band

	up := sample(0, 60)
	up.InBand = true
	p, ok := c.End(up)
	if !ok {
		t.Fatal("expected a settling proposal after optimistic emissions")
	}
	if !p.AllDay || !p.Start.Equal(target.Start) || !p.End.Equal(target.End) {
		t.Errorf("release inside band should restore %+v, got %+v", target, p)
	}
}

func TestTimedReleasedOverBandConverts(t *testing.T) {
	// Scenario: a timed event dragged into the all-day band converts on
	// release to an all-day event on its original start day, even after
	// crossing into another day column.
	target := Target{ID: 9, Start: at(9, 0), End: at(10, 0)}
	var c Controller
	c.Begin(ModeMove, target, sample(540, 60))

	up := sample(0, 60)
	up.Day = day.AddDate(0, 0, 3) // horizontal travel is irrelevant
	up.InBand = true
	p, ok := c.End(up)
	if !ok {
		t.Fatal("expected a proposal")
	}
	if !p.AllDay {
		t.Error("release over the band should convert to all-day")
	}
	if !p.Start.Equal(day) || !p.End.Equal(day.Add(24*time.Hour)) {
		t.Errorf("proposal = %v-%v, want the original start day", p.Start, p.End)
	}
}

func TestCancelRevertsAndIgnoresLaterSamples(t *testing.T) {
	target := Target{ID: 4, Start: at(9, 0), End: at(10, 0)}
	var c Controller
	c.Begin(ModeMove, target, sample(540, 60))
	c.Move(sample(700, 60))

	p, ok := c.Cancel()
	if !ok {
		t.Fatal("cancel after emissions should produce a revert proposal")
	}
	if !p.Start.Equal(target.Start) || !p.End.Equal(target.End) || p.AllDay != target.AllDay {
		t.Errorf("revert = %+v, want original %+v", p, target)
	}

	// A stray queued move after Escape must be ignored.
	if _, ok := c.Move(sample(800, 60)); ok {
		t.Error("samples after Cancel should be ignored")
	}
	if _, ok := c.End(sample(800, 60)); ok {
		t.Error("End after Cancel should be ignored")
	}
}

func TestCancelBeforeAnyEmissionIsSilent(t *testing.T) {
	target := Target{ID: 4, Start: at(9, 0), End: at(10, 0)}
	var c Controller
	c.Begin(ModeMove, target, sample(540, 60))

	if _, ok := c.Cancel(); ok {
		t.Error("nothing was emitted, nothing to revert")
	}
}

func TestMoveWithoutSession(t *testing.T) {
	var c Controller
	if _, ok := c.Move(sample(100, 60)); ok {
		t.Error("Move with no session should be ignored")
	}
	if _, ok := c.End(sample(100, 60)); ok {
		t.Error("End with no session should be ignored")
	}
}

func TestProposalsAreAbsoluteNotAccumulated(t *testing.T) {
	// Feeding the same sample many times must give the same proposal:
	// each recomputation starts from the originals.
	target := Target{ID: 2, Start: at(9, 0), End: at(10, 0)}
	var c Controller
	c.Begin(ModeMove, target, sample(540, 60))

	first, ok := c.Move(sample(660, 60))
	if !ok {
		t.Fatal("expected a proposal")
	}
	for i := 0; i < 5; i++ {
		p, ok := c.Move(sample(660, 60))
		if !ok || !p.Start.Equal(first.Start) || !p.End.Equal(first.End) {
			t.Fatalf("sample %d drifted: %+v vs %+v", i, p, first)
		}
	}
}

func TestScrollAdjustedSamples(t *testing.T) {
	// The same time under the pointer with a different scroll offset must
	// give the same proposal.
	var c Controller
	down := Sample{Day: day, Y: 120, Geom: Geometry{HourHeight: 60, ScrollTop: 0}}
	c.Begin(ModeCreate, Target{}, down)

	scrolled := Sample{Day: day, Y: 100, Geom: Geometry{HourHeight: 60, ScrollTop: 120}}
	p, ok := c.Move(scrolled)
	if !ok {
		t.Fatal("expected a proposal")
	}
	if !p.Start.Equal(at(2, 0)) || !p.End.Equal(at(3, 45)) {
		t.Errorf("proposal = %v-%v, want 02:00-03:45", p.Start, p.End)
	}
}

package layout

import (
	"sort"
	"time"

	"github.com/jhartwell/dayframe/internal/timegrid"
)

// MaxVisibleBandRows is how many all-day rows fit before a column reports
// overflow for its "+N more" affordance.
const MaxVisibleBandRows = 3

// BandEvent is an all-day event candidate for the band, possibly spanning
// several consecutive days.
type BandEvent struct {
	ID    int64
	Start time.Time
	End   time.Time
	Color string
}

// RankFunc maps a color to its priority rank for band ordering; lower ranks
// place first. It must be total (every color gets some rank).
type RankFunc func(color string) int

// BandPlacement positions one all-day event: a row plus an inclusive column
// range into the visible days. Events extending past the visible range are
// clipped to it, not dropped.
type BandPlacement struct {
	ID       int64
	Row      int
	StartCol int
	EndCol   int
}

// BandLayout is the computed all-day band: placements plus, per column, how
// many intersecting events exceed MaxVisibleBandRows. Collapse/expand display
// state never feeds back into this computation.
type BandLayout struct {
	Placements    []BandPlacement
	OverflowByCol map[int]int
}

// AssignRows packs all-day events into band rows over the visible day range.
// Events are ordered by color-priority rank, then by longer span first (less
// fragmentation), then by start instant; each takes the lowest row whose
// column range is entirely free.
func AssignRows(events []BandEvent, days []time.Time, dayStartOffset int, rank RankFunc) BandLayout {
	result := BandLayout{OverflowByCol: make(map[int]int)}
	if len(events) == 0 || len(days) == 0 {
		return result
	}

	first := days[0]
	last := len(days) - 1

	type span struct {
		ev       BandEvent
		startCol int
		endCol   int
	}
	spans := make([]span, 0, len(events))
	for _, ev := range events {
		end := ev.End
		if end.Before(ev.Start) {
			end = ev.Start
		}
		startCol := timegrid.DayIndex(ev.Start, first, dayStartOffset)
		// The end instant is exclusive; an event ending exactly on a day
		// boundary does not occupy that day.
		endCol := timegrid.DayIndex(end.Add(-time.Minute), first, dayStartOffset)
		if endCol < startCol {
			endCol = startCol
		}
		if endCol < 0 || startCol > last {
			continue
		}
		if startCol < 0 {
			startCol = 0
		}
		if endCol > last {
			endCol = last
		}
		spans = append(spans, span{ev: ev, startCol: startCol, endCol: endCol})
	}

	sort.Slice(spans, func(i, j int) bool {
		a, b := spans[i], spans[j]
		if ra, rb := rank(a.ev.Color), rank(b.ev.Color); ra != rb {
			return ra < rb
		}
		da := a.ev.End.Sub(a.ev.Start)
		db := b.ev.End.Sub(b.ev.Start)
		if da != db {
			return da > db
		}
		if !a.ev.Start.Equal(b.ev.Start) {
			return a.ev.Start.Before(b.ev.Start)
		}
		return a.ev.ID < b.ev.ID
	})

	var occupied [][]bool // occupied[row][col]
	free := func(row []bool, sp span) bool {
		for c := sp.startCol; c <= sp.endCol; c++ {
			if row[c] {
				return false
			}
		}
		return true
	}

	for _, sp := range spans {
		row := -1
		for r := range occupied {
			if free(occupied[r], sp) {
				row = r
				break
			}
		}
		if row == -1 {
			row = len(occupied)
			occupied = append(occupied, make([]bool, len(days)))
		}
		for c := sp.startCol; c <= sp.endCol; c++ {
			occupied[row][c] = true
		}
		result.Placements = append(result.Placements, BandPlacement{
			ID:       sp.ev.ID,
			Row:      row,
			StartCol: sp.startCol,
			EndCol:   sp.endCol,
		})
	}

	for col := range days {
		count := 0
		for _, p := range result.Placements {
			if p.StartCol <= col && col <= p.EndCol {
				count++
			}
		}
		if count > MaxVisibleBandRows {
			result.OverflowByCol[col] = count - MaxVisibleBandRows
		}
	}

	return result
}

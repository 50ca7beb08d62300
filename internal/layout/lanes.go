// Package layout computes the visual placement of calendar events: horizontal
// lanes for a day's timed events and rows for multi-day all-day banners. All
// functions are pure and cheap enough to recompute on every render.
package layout

import "sort"

// TimedBox is one timed event's interval within a single visual day, in
// minutes from the day start. The interval is half-open: touching endpoints
// do not conflict.
type TimedBox struct {
	ID    int64
	Start int
	End   int
}

// LanePlacement assigns an event a lane within its overlap cluster. Every
// event in the same cluster shares LaneCount, so all render at equal width;
// an event with no neighbors gets LaneCount 1 and renders full width.
type LanePlacement struct {
	ID        int64
	Lane      int
	LaneCount int
}

// AssignLanes packs one day's timed events into non-overlapping lanes using
// greedy interval coloring: events sorted by start (ties by end, then ID)
// each take the lowest lane whose previous occupant has already ended. The
// lane total per cluster equals the cluster's maximum concurrent overlap.
func AssignLanes(boxes []TimedBox) []LanePlacement {
	if len(boxes) == 0 {
		return nil
	}

	sorted := make([]TimedBox, len(boxes))
	copy(sorted, boxes)
	for i := range sorted {
		// Inverted intervals behave as zero duration rather than erroring.
		if sorted[i].End < sorted[i].Start {
			sorted[i].End = sorted[i].Start
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End < b.End
		}
		return a.ID < b.ID
	})

	placements := make([]LanePlacement, 0, len(sorted))

	for i := 0; i < len(sorted); {
		// A cluster runs until a gap: the next event starts at or after
		// everything placed so far has ended.
		clusterEnd := sorted[i].End
		j := i + 1
		for j < len(sorted) && sorted[j].Start < clusterEnd {
			if sorted[j].End > clusterEnd {
				clusterEnd = sorted[j].End
			}
			j++
		}

		var laneEnds []int
		cluster := make([]LanePlacement, 0, j-i)
		for _, box := range sorted[i:j] {
			lane := -1
			for l, end := range laneEnds {
				if end <= box.Start {
					lane = l
					break
				}
			}
			if lane == -1 {
				lane = len(laneEnds)
				laneEnds = append(laneEnds, 0)
			}
			laneEnds[lane] = box.End
			cluster = append(cluster, LanePlacement{ID: box.ID, Lane: lane})
		}
		for k := range cluster {
			cluster[k].LaneCount = len(laneEnds)
		}
		placements = append(placements, cluster...)
		i = j
	}

	return placements
}

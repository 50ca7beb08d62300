package timegrid

import "time"

// A visual day is a 24-hour window that starts dayStartOffset minutes after
// local midnight, letting a household treat e.g. 6 AM as the day boundary.
// An event belongs to the visual day whose window contains its start instant.

// DayStart returns the instant at which the visual day containing t begins.
func DayStart(t time.Time, dayStartOffset int) time.Time {
	off := time.Duration(dayStartOffset) * time.Minute
	shifted := t.Add(-off)
	midnight := time.Date(shifted.Year(), shifted.Month(), shifted.Day(), 0, 0, 0, 0, shifted.Location())
	return midnight.Add(off)
}

// SameVisualDay reports whether a and b fall in the same visual day window.
func SameVisualDay(a, b time.Time, dayStartOffset int) bool {
	return DayStart(a, dayStartOffset).Equal(DayStart(b, dayStartOffset))
}

// MinutesInto returns how many minutes into its visual day the instant t is,
// in [0, 1440).
func MinutesInto(t time.Time, dayStartOffset int) int {
	return int(t.Sub(DayStart(t, dayStartOffset)) / time.Minute)
}

// DayIndex returns the number of whole visual days between the day containing
// first and the day containing t. Negative when t precedes first's day.
func DayIndex(t, first time.Time, dayStartOffset int) int {
	d := DayStart(t, dayStartOffset).Sub(DayStart(first, dayStartOffset))
	if d < 0 {
		return -int((-d + 12*time.Hour) / (24 * time.Hour))
	}
	return int((d + 12*time.Hour) / (24 * time.Hour))
}

// ClipToDay clamps the interval [start, end) to the visual day beginning at
// dayStart, returning the overlap in minutes from the day start. A degenerate
// or non-overlapping interval comes back as a zero-length pair.
func ClipToDay(start, end, dayStart time.Time) (startMin, endMin int) {
	dayEnd := dayStart.Add(24 * time.Hour)
	if end.Before(start) {
		end = start
	}
	if start.Before(dayStart) {
		start = dayStart
	}
	if end.After(dayEnd) {
		end = dayEnd
	}
	if end.Before(start) {
		return 0, 0
	}
	return int(start.Sub(dayStart) / time.Minute), int(end.Sub(dayStart) / time.Minute)
}

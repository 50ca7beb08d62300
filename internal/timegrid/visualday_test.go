package timegrid

import (
	"testing"
	"time"
)

func TestDayStartMidnight(t *testing.T) {
	at := time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)
	want := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	if got := DayStart(at, 0); !got.Equal(want) {
		t.Errorf("DayStart = %v, want %v", got, want)
	}
}

func TestDayStartWithOffset(t *testing.T) {
	// 6 AM day boundary: 5 AM belongs to the previous visual day.
	offset := 360
	tests := []struct {
		at   time.Time
		want time.Time
	}{
		{time.Date(2026, 8, 28, 5, 0, 0, 0, time.UTC), time.Date(2026, 8, 27, 6, 0, 0, 0, time.UTC)},
		{time.Date(2026, 8, 28, 6, 0, 0, 0, time.UTC), time.Date(2026, 8, 28, 6, 0, 0, 0, time.UTC)},
		{time.Date(2026, 8, 28, 23, 59, 0, 0, time.UTC), time.Date(2026, 8, 28, 6, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		if got := DayStart(tt.at, offset); !got.Equal(tt.want) {
			t.Errorf("DayStart(%v, %d) = %v, want %v", tt.at, offset, got, tt.want)
		}
	}
}

func TestSameVisualDay(t *testing.T) {
	offset := 360
	a := time.Date(2026, 8, 28, 2, 0, 0, 0, time.UTC)  // before 6 AM: previous day
	b := time.Date(2026, 8, 27, 22, 0, 0, 0, time.UTC) // same visual day as a
	c := time.Date(2026, 8, 28, 7, 0, 0, 0, time.UTC)

	if !SameVisualDay(a, b, offset) {
		t.Error("2 AM and previous 10 PM should share a 6 AM-anchored visual day")
	}
	if SameVisualDay(a, c, offset) {
		t.Error("2 AM and 7 AM should be different 6 AM-anchored visual days")
	}
}

func TestMinutesInto(t *testing.T) {
	at := time.Date(2026, 8, 28, 8, 15, 0, 0, time.UTC)
	if got := MinutesInto(at, 0); got != 495 {
		t.Errorf("MinutesInto(8:15, 0) = %d, want 495", got)
	}
	if got := MinutesInto(at, 360); got != 135 {
		t.Errorf("MinutesInto(8:15, 360) = %d, want 135", got)
	}
}

func TestDayIndex(t *testing.T) {
	first := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		at   time.Time
		want int
	}{
		{time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC), 0},
		{time.Date(2026, 8, 26, 23, 0, 0, 0, time.UTC), 2},
		{time.Date(2026, 8, 30, 1, 0, 0, 0, time.UTC), 6},
		{time.Date(2026, 8, 22, 12, 0, 0, 0, time.UTC), -2},
	}

	for _, tt := range tests {
		if got := DayIndex(tt.at, first, 0); got != tt.want {
			t.Errorf("DayIndex(%v) = %d, want %d", tt.at, got, tt.want)
		}
	}
}

func TestClipToDay(t *testing.T) {
	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		start, end time.Time
		wantStart  int
		wantEnd    int
	}{
		{
			"fully inside",
			day.Add(9 * time.Hour), day.Add(10 * time.Hour),
			540, 600,
		},
		{
			"spills past midnight",
			day.Add(23 * time.Hour), day.Add(26 * time.Hour),
			1380, 1440,
		},
		{
			"starts before the day",
			day.Add(-2 * time.Hour), day.Add(1 * time.Hour),
			0, 60,
		},
		{
			"inverted interval clamps to zero duration",
			day.Add(10 * time.Hour), day.Add(9 * time.Hour),
			600, 600,
		},
	}

	for _, tt := range tests {
		s, e := ClipToDay(tt.start, tt.end, day)
		if s != tt.wantStart || e != tt.wantEnd {
			t.Errorf("%s: ClipToDay = (%d, %d), want (%d, %d)", tt.name, s, e, tt.wantStart, tt.wantEnd)
		}
	}
}

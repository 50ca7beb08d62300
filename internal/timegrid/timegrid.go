// Package timegrid holds the pure coordinate math of the calendar time grid:
// pixel-to-minute conversion under a variable hour height, and zoom-dependent
// time snapping. Everything here is total over its input domain; callers clamp
// results into the visual day where needed.
package timegrid

import "math"

// MinutesPerDay is the length of one visual day window.
const MinutesPerDay = 1440

// Snap granularity thresholds, in pixels per hour. More zoom means finer snap.
const (
	minuteSnapHeight  = 400
	fiveSnapHeight    = 256
	tenSnapHeight     = 128
	fifteenSnapHeight = 64
)

// PixelToMinutes converts a vertical offset on the time canvas into a minute
// of the visual day. pixelOffset is measured from the top of the canvas and
// must already account for scroll. The result lies in
// [dayStartOffset, dayStartOffset+1440) when pixelOffset is within the
// canvas; out-of-range inputs extrapolate linearly.
func PixelToMinutes(pixelOffset, hourHeightPx, dayStartOffset float64) float64 {
	return dayStartOffset + pixelOffset*60/hourHeightPx
}

// MinutesToPixel is the inverse of PixelToMinutes.
func MinutesToPixel(minutes, hourHeightPx, dayStartOffset float64) float64 {
	return (minutes - dayStartOffset) * hourHeightPx / 60
}

// SnapGranularity returns the snapping step in minutes for a given hour
// height. It is monotonically non-increasing in hourHeightPx.
func SnapGranularity(hourHeightPx float64) int {
	switch {
	case hourHeightPx >= minuteSnapHeight:
		return 1
	case hourHeightPx >= fiveSnapHeight:
		return 5
	case hourHeightPx >= tenSnapHeight:
		return 10
	case hourHeightPx >= fifteenSnapHeight:
		return 15
	default:
		return 30
	}
}

// Snap rounds minutes to the nearest multiple of granularity. Halves round
// away from zero; this is the single rounding rule for the whole grid.
func Snap(minutes float64, granularity int) int {
	if granularity <= 0 {
		granularity = 1
	}
	g := float64(granularity)
	return int(math.Round(minutes/g)) * granularity
}

// ClampMinutes restricts a minute-of-day to the visual window
// [dayStartOffset, dayStartOffset+1440].
func ClampMinutes(minutes, dayStartOffset float64) float64 {
	if minutes < dayStartOffset {
		return dayStartOffset
	}
	if max := dayStartOffset + MinutesPerDay; minutes > max {
		return max
	}
	return minutes
}

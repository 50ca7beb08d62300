package handler

import (
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/jhartwell/dayframe/internal/layout"
	"github.com/jhartwell/dayframe/internal/model"
	"github.com/jhartwell/dayframe/internal/store"
	"github.com/jhartwell/dayframe/internal/timegrid"
)

var hexColorRegexp = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

const defaultColor = "#4A90D9"

// colorPriority orders the built-in palette for all-day band stacking:
// warmer colors (reminders, deadlines) float to the top rows.
var colorPriority = map[string]int{
	"#D94A4A": 0, // red
	"#E8A33D": 1, // amber
	"#4A90D9": 2, // blue
	"#4AD97E": 3, // green
	"#9B59B6": 4, // purple
}

func colorRank(color string) int {
	if rank, ok := colorPriority[color]; ok {
		return rank
	}
	return len(colorPriority)
}

// LayoutHandler computes visual placement for the calendar views. It is
// read-only glue: every request reloads events and recomputes from scratch.
type LayoutHandler struct {
	eventStore    *store.EventStore
	settingsStore *store.SettingsStore
	logger        *slog.Logger
	now           func() time.Time
}

func NewLayoutHandler(es *store.EventStore, ss *store.SettingsStore, logger *slog.Logger) *LayoutHandler {
	return &LayoutHandler{eventStore: es, settingsStore: ss, logger: logger, now: time.Now}
}

type lanePlacementResponse struct {
	EventID   int64     `json:"event_id"`
	Lane      int       `json:"lane"`
	LaneCount int       `json:"lane_count"`
	TopPx     float64   `json:"top_px"`
	HeightPx  float64   `json:"height_px"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Day lays out one visual day's timed events into lanes and pixel rects.
func (h *LayoutHandler) Day(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDateParam(w, r)
	if !ok {
		return
	}
	hourHeight := parseHourHeight(r)

	offset, err := h.settingsStore.DayStartOffset()
	if err != nil {
		h.logger.Error("day start offset", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load settings"})
		return
	}

	dayStart := date.Add(time.Duration(offset) * time.Minute)
	dayEnd := dayStart.Add(24 * time.Hour)

	events, err := h.eventStore.ListByDateRange(dayStart, dayEnd)
	if err != nil {
		h.logger.Error("list events for layout", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list events"})
		return
	}

	boxes := make([]layout.TimedBox, 0, len(events))
	byID := make(map[int64]model.Event)
	for _, e := range events {
		if e.AllDay {
			continue
		}
		// Only events that belong to this visual day occupy its lanes.
		if !timegrid.SameVisualDay(e.StartTime, dayStart, offset) {
			continue
		}
		s, end := timegrid.ClipToDay(e.StartTime, e.EndTime, dayStart)
		boxes = append(boxes, layout.TimedBox{ID: e.ID, Start: s, End: end})
		byID[e.ID] = e
	}

	placements := layout.AssignLanes(boxes)
	resp := make([]lanePlacementResponse, 0, len(placements))
	for _, p := range placements {
		e := byID[p.ID]
		s, end := timegrid.ClipToDay(e.StartTime, e.EndTime, dayStart)
		top := timegrid.MinutesToPixel(float64(s), hourHeight, 0)
		bottom := timegrid.MinutesToPixel(float64(end), hourHeight, 0)
		resp = append(resp, lanePlacementResponse{
			EventID:   p.ID,
			Lane:      p.Lane,
			LaneCount: p.LaneCount,
			TopPx:     top,
			HeightPx:  bottom - top,
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"day":         dayStart,
		"hour_height": hourHeight,
		"snap":        timegrid.SnapGranularity(hourHeight),
		"placements":  resp,
	})
}

type bandPlacementResponse struct {
	EventID  int64 `json:"event_id"`
	Row      int   `json:"row"`
	StartCol int   `json:"start_col"`
	EndCol   int   `json:"end_col"`
}

// Band lays out all-day events into rows across a visible day range.
func (h *LayoutHandler) Band(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseRangeParams(w, r)
	if !ok {
		return
	}

	offset, err := h.settingsStore.DayStartOffset()
	if err != nil {
		h.logger.Error("day start offset", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load settings"})
		return
	}

	first := timegrid.DayStart(start, offset)
	var days []time.Time
	for d := first; d.Before(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	if len(days) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "empty date range"})
		return
	}

	events, err := h.eventStore.ListByDateRange(first, days[len(days)-1].AddDate(0, 0, 1))
	if err != nil {
		h.logger.Error("list events for band", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list events"})
		return
	}

	var bandEvents []layout.BandEvent
	for _, e := range events {
		if !e.AllDay {
			continue
		}
		bandEvents = append(bandEvents, layout.BandEvent{
			ID:    e.ID,
			Start: e.StartTime,
			End:   e.EndTime,
			Color: e.Color,
		})
	}

	band := layout.AssignRows(bandEvents, days, offset, colorRank)
	resp := make([]bandPlacementResponse, 0, len(band.Placements))
	for _, p := range band.Placements {
		resp = append(resp, bandPlacementResponse{
			EventID:  p.ID,
			Row:      p.Row,
			StartCol: p.StartCol,
			EndCol:   p.EndCol,
		})
	}

	overflow := make(map[string]int, len(band.OverflowByCol))
	for col, n := range band.OverflowByCol {
		overflow[strconv.Itoa(col)] = n
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"days":            days,
		"visible_rows":    layout.MaxVisibleBandRows,
		"placements":      resp,
		"overflow_by_col": overflow,
	})
}

// Now reports the live time-indicator position for the current visual day.
func (h *LayoutHandler) Now(w http.ResponseWriter, r *http.Request) {
	hourHeight := parseHourHeight(r)

	offset, err := h.settingsStore.DayStartOffset()
	if err != nil {
		h.logger.Error("day start offset", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load settings"})
		return
	}

	now := h.now()
	minutes := timegrid.MinutesInto(now, offset)
	writeJSON(w, http.StatusOK, map[string]any{
		"now":          now,
		"day":          timegrid.DayStart(now, offset),
		"minutes":      minutes,
		"pixel_offset": timegrid.MinutesToPixel(float64(minutes), hourHeight, 0),
	})
}

func parseDateParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date query parameter is required"})
		return time.Time{}, false
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD format"})
		return time.Time{}, false
	}
	return date, true
}

func parseHourHeight(r *http.Request) float64 {
	h, err := strconv.ParseFloat(r.URL.Query().Get("hour_height"), 64)
	if err != nil || h <= 0 {
		return 60
	}
	return h
}

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jhartwell/dayframe/internal/ics"
	"github.com/jhartwell/dayframe/internal/model"
	"github.com/jhartwell/dayframe/internal/store"
	"github.com/jhartwell/dayframe/internal/websocket"
)

type EventHandler struct {
	eventStore *store.EventStore
	hub        *websocket.Hub
	logger     *slog.Logger
	now        func() time.Time
}

func NewEventHandler(es *store.EventStore, hub *websocket.Hub, logger *slog.Logger) *EventHandler {
	return &EventHandler{eventStore: es, hub: hub, logger: logger, now: time.Now}
}

func (h *EventHandler) broadcast(action string, id int64) {
	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("event", action, id, nil))
	}
}

type eventRequest struct {
	Title     string `json:"title"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	AllDay    bool   `json:"all_day"`
	Color     string `json:"color"`
}

func (h *EventHandler) parseAndValidate(w http.ResponseWriter, r *http.Request) (*eventRequest, time.Time, time.Time, bool) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return nil, time.Time{}, time.Time{}, false
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return nil, time.Time{}, time.Time{}, false
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start_time must be RFC3339 format"})
		return nil, time.Time{}, time.Time{}, false
	}

	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "end_time must be RFC3339 format"})
		return nil, time.Time{}, time.Time{}, false
	}

	if startTime.After(endTime) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start_time must not be after end_time"})
		return nil, time.Time{}, time.Time{}, false
	}

	if req.Color != "" && !hexColorRegexp.MatchString(req.Color) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "color must be a #RRGGBB value"})
		return nil, time.Time{}, time.Time{}, false
	}
	if req.Color == "" {
		req.Color = defaultColor
	}

	return &req, startTime, endTime, true
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, startTime, endTime, ok := h.parseAndValidate(w, r)
	if !ok {
		return
	}

	event, err := h.eventStore.Create(req.Title, startTime, endTime, req.AllDay, req.Color)
	if err != nil {
		h.logger.Error("create event", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create event"})
		return
	}

	h.broadcast("created", event.ID)
	writeJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseRangeParams(w, r)
	if !ok {
		return
	}

	events, err := h.eventStore.ListByDateRange(start, end)
	if err != nil {
		h.logger.Error("list events", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list events"})
		return
	}
	if events == nil {
		events = []model.Event{}
	}

	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	event, ok := h.lookup(w, r)
	if !ok {
		return
	}

	req, startTime, endTime, ok := h.parseAndValidate(w, r)
	if !ok {
		return
	}

	updated, err := h.eventStore.Update(event.ID, req.Title, startTime, endTime, req.AllDay, req.Color)
	if err != nil {
		h.logger.Error("update event", "id", event.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update event"})
		return
	}

	h.broadcast("updated", updated.ID)
	writeJSON(w, http.StatusOK, updated)
}

func (h *EventHandler) Complete(w http.ResponseWriter, r *http.Request) {
	event, ok := h.lookup(w, r)
	if !ok {
		return
	}

	updated, err := h.eventStore.SetCompleted(event.ID, !event.Completed)
	if err != nil {
		h.logger.Error("toggle event completed", "id", event.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update event"})
		return
	}

	h.broadcast("updated", updated.ID)
	writeJSON(w, http.StatusOK, updated)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	event, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := h.eventStore.Delete(event.ID); err != nil {
		h.logger.Error("delete event", "id", event.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete event"})
		return
	}

	h.broadcast("deleted", event.ID)
	w.WriteHeader(http.StatusNoContent)
}

// ExportICS streams a date range as an iCalendar document.
func (h *EventHandler) ExportICS(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseRangeParams(w, r)
	if !ok {
		return
	}

	events, err := h.eventStore.ListByDateRange(start, end)
	if err != nil {
		h.logger.Error("list events for export", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to export events"})
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="dayframe.ics"`)
	w.Write([]byte(ics.Export(events, h.now())))
}

func (h *EventHandler) lookup(w http.ResponseWriter, r *http.Request) (*model.Event, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return nil, false
	}

	event, err := h.eventStore.GetByID(id)
	if err != nil {
		h.logger.Error("get event", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get event"})
		return nil, false
	}
	if event == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "event not found"})
		return nil, false
	}
	return event, true
}

func parseRangeParams(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")
	if startStr == "" || endStr == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start and end query parameters are required"})
		return time.Time{}, time.Time{}, false
	}

	start, err := parseFlexibleTime(startStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start must be RFC3339 or YYYY-MM-DD format"})
		return time.Time{}, time.Time{}, false
	}
	end, err := parseFlexibleTime(endStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "end must be RFC3339 or YYYY-MM-DD format"})
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func parseFlexibleTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

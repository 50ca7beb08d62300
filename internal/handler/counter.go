package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jhartwell/dayframe/internal/model"
	"github.com/jhartwell/dayframe/internal/store"
	"github.com/jhartwell/dayframe/internal/websocket"
)

type CounterHandler struct {
	counterStore *store.CounterStore
	hub          *websocket.Hub
	logger       *slog.Logger
}

func NewCounterHandler(cs *store.CounterStore, hub *websocket.Hub, logger *slog.Logger) *CounterHandler {
	return &CounterHandler{counterStore: cs, hub: hub, logger: logger}
}

func (h *CounterHandler) broadcast(action string, id int64) {
	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("counter", action, id, nil))
	}
}

type counterRequest struct {
	Label  string `json:"label"`
	Target int64  `json:"target"`
	Color  string `json:"color"`
}

func parseCounterRequest(w http.ResponseWriter, r *http.Request) (*counterRequest, bool) {
	var req counterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return nil, false
	}
	req.Label = strings.TrimSpace(req.Label)
	if req.Label == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "label is required"})
		return nil, false
	}
	if req.Target < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target must not be negative"})
		return nil, false
	}
	if req.Color == "" {
		req.Color = defaultColor
	} else if !hexColorRegexp.MatchString(req.Color) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "color must be a #RRGGBB value"})
		return nil, false
	}
	return &req, true
}

func (h *CounterHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := parseCounterRequest(w, r)
	if !ok {
		return
	}

	counter, err := h.counterStore.Create(req.Label, req.Target, req.Color)
	if err != nil {
		h.logger.Error("create counter", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create counter"})
		return
	}

	h.broadcast("created", counter.ID)
	writeJSON(w, http.StatusCreated, counter)
}

func (h *CounterHandler) List(w http.ResponseWriter, r *http.Request) {
	counters, err := h.counterStore.List()
	if err != nil {
		h.logger.Error("list counters", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list counters"})
		return
	}
	if counters == nil {
		counters = []model.Counter{}
	}
	writeJSON(w, http.StatusOK, counters)
}

func (h *CounterHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.counterStore.GetByID(id)
	if err != nil {
		h.logger.Error("get counter", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get counter"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "counter not found"})
		return
	}

	req, ok := parseCounterRequest(w, r)
	if !ok {
		return
	}

	counter, err := h.counterStore.Update(id, req.Label, req.Target, req.Color)
	if err != nil {
		h.logger.Error("update counter", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update counter"})
		return
	}

	h.broadcast("updated", counter.ID)
	writeJSON(w, http.StatusOK, counter)
}

// Increment bumps a counter by the request delta, defaulting to +1.
func (h *CounterHandler) Increment(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.counterStore.GetByID(id)
	if err != nil {
		h.logger.Error("get counter", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get counter"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "counter not found"})
		return
	}

	var req struct {
		Delta *int64 `json:"delta"`
	}
	// An empty body means the default +1 bump.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	delta := int64(1)
	if req.Delta != nil {
		delta = *req.Delta
	}

	counter, err := h.counterStore.Increment(id, delta)
	if err != nil {
		h.logger.Error("increment counter", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to increment counter"})
		return
	}

	h.broadcast("updated", counter.ID)
	writeJSON(w, http.StatusOK, counter)
}

func (h *CounterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.counterStore.Delete(id); err != nil {
		h.logger.Error("delete counter", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete counter"})
		return
	}

	h.broadcast("deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

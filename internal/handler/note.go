package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jhartwell/dayframe/internal/model"
	"github.com/jhartwell/dayframe/internal/store"
	"github.com/jhartwell/dayframe/internal/websocket"
)

type NoteHandler struct {
	noteStore *store.NoteStore
	hub       *websocket.Hub
	logger    *slog.Logger
}

func NewNoteHandler(ns *store.NoteStore, hub *websocket.Hub, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{noteStore: ns, hub: hub, logger: logger}
}

func (h *NoteHandler) broadcast(action string, id int64) {
	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("note", action, id, nil))
	}
}

type noteRequest struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Pinned bool   `json:"pinned"`
}

func parseNoteRequest(w http.ResponseWriter, r *http.Request) (*noteRequest, bool) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return nil, false
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return nil, false
	}
	return &req, true
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := parseNoteRequest(w, r)
	if !ok {
		return
	}

	note, err := h.noteStore.Create(req.Title, req.Body, req.Pinned)
	if err != nil {
		h.logger.Error("create note", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create note"})
		return
	}

	h.broadcast("created", note.ID)
	writeJSON(w, http.StatusCreated, note)
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.noteStore.List()
	if err != nil {
		h.logger.Error("list notes", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list notes"})
		return
	}
	if notes == nil {
		notes = []model.Note{}
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.noteStore.GetByID(id)
	if err != nil {
		h.logger.Error("get note", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get note"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "note not found"})
		return
	}

	req, ok := parseNoteRequest(w, r)
	if !ok {
		return
	}

	note, err := h.noteStore.Update(id, req.Title, req.Body, req.Pinned)
	if err != nil {
		h.logger.Error("update note", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update note"})
		return
	}

	h.broadcast("updated", note.ID)
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.noteStore.Delete(id); err != nil {
		h.logger.Error("delete note", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete note"})
		return
	}

	h.broadcast("deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

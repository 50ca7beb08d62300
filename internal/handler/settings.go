package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhartwell/dayframe/internal/store"
	"github.com/jhartwell/dayframe/internal/websocket"
	"github.com/jhartwell/dayframe/internal/zoom"
)

// pinHeader carries the kiosk PIN on settings mutations once a PIN is set.
const pinHeader = "X-Dayframe-PIN"

type SettingsHandler struct {
	settingsStore *store.SettingsStore
	hub           *websocket.Hub
	logger        *slog.Logger
}

func NewSettingsHandler(ss *store.SettingsStore, hub *websocket.Hub, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settingsStore: ss, hub: hub, logger: logger}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsStore.GetAll()
	if err != nil {
		h.logger.Error("get settings", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load settings"})
		return
	}

	pinSet := settings[store.KeyPINHash] != ""
	delete(settings, store.KeyPINHash)
	writeJSON(w, http.StatusOK, map[string]any{
		"settings": settings,
		"pin_set":  pinSet,
	})
}

type settingsRequest struct {
	DayStartOffset *int     `json:"day_start_offset"`
	HourHeight     *float64 `json:"hour_height"`
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !h.verifyPINHeader(w, r) {
		return
	}

	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if req.DayStartOffset != nil {
		if err := h.settingsStore.SetDayStartOffset(*req.DayStartOffset); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "day_start_offset must be 0-1439"})
			return
		}
	}

	if req.HourHeight != nil {
		hh := *req.HourHeight
		if hh < zoom.MinHourHeight || hh > zoom.MaxHourHeight {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "hour_height out of range"})
			return
		}
		if err := h.settingsStore.Set(store.KeyHourHeight, strconv.FormatFloat(hh, 'f', -1, 64)); err != nil {
			h.logger.Error("set hour height", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save settings"})
			return
		}
	}

	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("settings", "updated", 0, nil))
	}
	h.Get(w, r)
}

func (h *SettingsHandler) SetPIN(w http.ResponseWriter, r *http.Request) {
	if !h.verifyPINHeader(w, r) {
		return
	}

	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if len(req.PIN) < 4 || len(req.PIN) > 8 || !isDigits(req.PIN) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pin must be 4-8 digits"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash pin", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to set pin"})
		return
	}
	if err := h.settingsStore.Set(store.KeyPINHash, string(hash)); err != nil {
		h.logger.Error("store pin", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to set pin"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "pin set"})
}

func (h *SettingsHandler) VerifyPIN(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if !h.checkPIN(req.PIN) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "incorrect pin"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

// verifyPINHeader enforces the kiosk PIN on mutating settings routes. With
// no PIN configured everything is open, matching a household wall display.
func (h *SettingsHandler) verifyPINHeader(w http.ResponseWriter, r *http.Request) bool {
	hash, err := h.settingsStore.Get(store.KeyPINHash)
	if err != nil {
		h.logger.Error("get pin hash", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load settings"})
		return false
	}
	if hash == "" {
		return true
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(r.Header.Get(pinHeader))) != nil {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "pin required"})
		return false
	}
	return true
}

func (h *SettingsHandler) checkPIN(pin string) bool {
	hash, err := h.settingsStore.Get(store.KeyPINHash)
	if err != nil || hash == "" {
		return err == nil && hash == ""
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

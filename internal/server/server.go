package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/jhartwell/dayframe/internal/handler"
	"github.com/jhartwell/dayframe/internal/middleware"
	"github.com/jhartwell/dayframe/internal/store"
	ws "github.com/jhartwell/dayframe/internal/websocket"
)

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	eventH        *handler.EventHandler
	layoutH       *handler.LayoutHandler
	noteH         *handler.NoteHandler
	counterH      *handler.CounterHandler
	settingsH     *handler.SettingsHandler
	eventStore    *store.EventStore
	settingsStore *store.SettingsStore
	rateLimiter   *middleware.RateLimiter
	logger        *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	eventStore := store.NewEventStore(db)
	noteStore := store.NewNoteStore(db)
	counterStore := store.NewCounterStore(db)
	settingsStore := store.NewSettingsStore(db)

	return &Server{
		db:            db,
		hub:           hub,
		eventH:        handler.NewEventHandler(eventStore, hub, logger.With("component", "event")),
		layoutH:       handler.NewLayoutHandler(eventStore, settingsStore, logger.With("component", "layout")),
		noteH:         handler.NewNoteHandler(noteStore, hub, logger.With("component", "note")),
		counterH:      handler.NewCounterHandler(counterStore, hub, logger.With("component", "counter")),
		settingsH:     handler.NewSettingsHandler(settingsStore, hub, logger.With("component", "settings")),
		eventStore:    eventStore,
		settingsStore: settingsStore,
		rateLimiter:   middleware.NewRateLimiter(),
		logger:        logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Hub returns the sync hub, mainly for shutdown accounting.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Event API routes
	mux.HandleFunc("POST /api/events", s.eventH.Create)
	mux.HandleFunc("GET /api/events", s.eventH.List)
	mux.HandleFunc("GET /api/events/{id}", s.eventH.Get)
	mux.HandleFunc("PUT /api/events/{id}", s.eventH.Update)
	mux.HandleFunc("DELETE /api/events/{id}", s.eventH.Delete)
	mux.HandleFunc("POST /api/events/{id}/complete", s.eventH.Complete)
	mux.HandleFunc("GET /api/events.ics", s.eventH.ExportICS)

	// Layout API routes: resolved placements for the grid renderer
	mux.HandleFunc("GET /api/layout/day", s.layoutH.Day)
	mux.HandleFunc("GET /api/layout/band", s.layoutH.Band)
	mux.HandleFunc("GET /api/layout/now", s.layoutH.Now)

	// Note API routes
	mux.HandleFunc("POST /api/notes", s.noteH.Create)
	mux.HandleFunc("GET /api/notes", s.noteH.List)
	mux.HandleFunc("PUT /api/notes/{id}", s.noteH.Update)
	mux.HandleFunc("DELETE /api/notes/{id}", s.noteH.Delete)

	// Counter API routes
	mux.HandleFunc("POST /api/counters", s.counterH.Create)
	mux.HandleFunc("GET /api/counters", s.counterH.List)
	mux.HandleFunc("PUT /api/counters/{id}", s.counterH.Update)
	mux.HandleFunc("DELETE /api/counters/{id}", s.counterH.Delete)
	mux.HandleFunc("POST /api/counters/{id}/increment", s.counterH.Increment)

	// Settings API routes; PIN verification is brute-force limited
	mux.HandleFunc("GET /api/settings", s.settingsH.Get)
	mux.HandleFunc("PUT /api/settings", s.settingsH.Update)
	mux.HandleFunc("POST /api/settings/pin", s.settingsH.SetPIN)
	mux.HandleFunc("POST /api/settings/pin/verify", s.rateLimitedHandler(s.settingsH.VerifyPIN))

	// WebSocket: entity sync plus the drag gesture channel
	mux.HandleFunc("GET /ws", ws.HandleSync(s.hub, s.logger.With("component", "websocket")))
	mux.HandleFunc("GET /ws/drag", ws.HandleDrag(s.hub, s.eventStore, s.settingsStore, s.logger.With("component", "drag")))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

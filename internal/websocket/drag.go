package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	ws "github.com/coder/websocket"

	"github.com/jhartwell/dayframe/internal/autoscroll"
	"github.com/jhartwell/dayframe/internal/drag"
	"github.com/jhartwell/dayframe/internal/store"
)

// frameInterval paces the server-side auto-scroll loop at roughly 60fps.
const frameInterval = 16 * time.Millisecond

// dragFrame is a client-to-server pointer sample. Type is one of "down",
// "move", "up", "cancel". Geometry fields ride along on every sample so a
// zoom or scroll mid-gesture takes effect on the next frame.
type dragFrame struct {
	Type           string    `json:"type"`
	Mode           string    `json:"mode,omitempty"`
	EventID        int64     `json:"event_id,omitempty"`
	Day            time.Time `json:"day"`
	Y              float64   `json:"y"`
	InBand         bool      `json:"in_band"`
	HourHeight     float64   `json:"hour_height"`
	ScrollTop      float64   `json:"scroll_top"`
	ViewportHeight float64   `json:"viewport_height"`
}

// dragReply is a server-to-client frame: a live proposal, a scroll nudge
// from the auto-scroller, a committed mutation, or an error.
type dragReply struct {
	Type      string     `json:"type"`
	EventID   int64      `json:"event_id,omitempty"`
	Start     *time.Time `json:"start,omitempty"`
	End       *time.Time `json:"end,omitempty"`
	AllDay    bool       `json:"all_day,omitempty"`
	ScrollTop float64    `json:"scroll_top,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// sessionViewport mirrors the client's scroll container so the auto-scroll
// controller can read and adjust it between pointer samples. The read loop
// and the frame loop touch it from different goroutines.
type sessionViewport struct {
	mu     sync.Mutex
	top    float64
	height float64
}

func (v *sessionViewport) ScrollTop() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.top
}

func (v *sessionViewport) SetScrollTop(top float64) {
	v.mu.Lock()
	v.top = top
	v.mu.Unlock()
}

func (v *sessionViewport) Height() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.height
}

func (v *sessionViewport) update(top, height float64) {
	v.mu.Lock()
	v.top = top
	if height > 0 {
		v.height = height
	}
	v.mu.Unlock()
}

// dragSession owns one connection's gesture state: the drag controller, the
// auto-scroller, and the outbound frame channel drained by a write pump.
type dragSession struct {
	conn     *ws.Conn
	hub      *Hub
	events   *store.EventStore
	settings *store.SettingsStore
	logger   *slog.Logger

	ctrl     drag.Controller
	viewport sessionViewport
	scroller *autoscroll.Controller
	send     chan dragReply

	scrollCancel context.CancelFunc
}

// HandleDrag returns an HTTP handler for the drag socket. Each connection
// runs its own session; pointer samples come in as JSON frames and mutation
// proposals go back out on the same connection, with committed changes
// broadcast to every sync client through the hub.
func HandleDrag(hub *Hub, events *store.EventStore, settings *store.SettingsStore, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // household LAN, any origin
		})
		if err != nil {
			logger.Error("drag socket accept", "error", err)
			return
		}

		sess := &dragSession{
			conn:     conn,
			hub:      hub,
			events:   events,
			settings: settings,
			logger:   logger,
			send:     make(chan dragReply, sendBufferSize),
		}
		sess.scroller = autoscroll.New(&sess.viewport)
		sess.run(r.Context())
	}
}

func (s *dragSession) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.conn.Close(ws.StatusNormalClosure, "")
	defer s.stopScroll()

	go s.writePump(ctx)

	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			return
		}
		var frame dragFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			s.reply(dragReply{Type: "error", Error: "invalid frame"})
			continue
		}
		s.handle(ctx, frame)
	}
}

func (s *dragSession) writePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case reply := <-s.send:
			data, err := json.Marshal(reply)
			if err != nil {
				s.logger.Error("marshal drag reply", "error", err)
				continue
			}
			if err := s.conn.Write(ctx, ws.MessageText, data); err != nil {
				return
			}
		}
	}
}

func (s *dragSession) reply(r dragReply) {
	select {
	case s.send <- r:
	default:
		// The client is not draining; drop rather than stall the gesture.
	}
}

func (s *dragSession) handle(ctx context.Context, frame dragFrame) {
	s.viewport.update(frame.ScrollTop, frame.ViewportHeight)

	switch frame.Type {
	case "down":
		s.down(ctx, frame)
	case "move":
		s.scroller.Pointer(frame.Y)
		if p, ok := s.ctrl.Move(s.sample(frame)); ok {
			s.proposal(p)
		}
	case "up":
		s.stopScroll()
		if p, ok := s.ctrl.End(s.sample(frame)); ok {
			s.commit(p)
		}
	case "cancel":
		s.stopScroll()
		if p, ok := s.ctrl.Cancel(); ok {
			s.commit(p)
		}
	default:
		s.reply(dragReply{Type: "error", Error: "unknown frame type"})
	}
}

func (s *dragSession) down(ctx context.Context, frame dragFrame) {
	mode := drag.ParseMode(frame.Mode)
	if mode == drag.ModeIdle {
		s.reply(dragReply{Type: "error", Error: "unknown drag mode"})
		return
	}

	var target drag.Target
	if mode != drag.ModeCreate {
		event, err := s.events.GetByID(frame.EventID)
		if err != nil {
			s.logger.Error("drag target lookup", "id", frame.EventID, "error", err)
			s.reply(dragReply{Type: "error", Error: "event lookup failed"})
			return
		}
		if event == nil {
			s.reply(dragReply{Type: "error", Error: "event not found"})
			return
		}
		target = drag.Target{
			ID:     event.ID,
			Start:  event.StartTime,
			End:    event.EndTime,
			AllDay: event.AllDay,
		}
	}

	s.ctrl.Begin(mode, target, s.sample(frame))
	s.startScroll(ctx, frame.Y)
}

func (s *dragSession) sample(frame dragFrame) drag.Sample {
	offset, err := s.settings.DayStartOffset()
	if err != nil {
		s.logger.Error("day start offset", "error", err)
		offset = 0
	}
	return drag.Sample{
		Day:    frame.Day,
		Y:      frame.Y,
		InBand: frame.InBand,
		Geom: drag.Geometry{
			HourHeight:     frame.HourHeight,
			ScrollTop:      frame.ScrollTop,
			DayStartOffset: offset,
		},
	}
}

// startScroll engages the auto-scroller and spawns the frame loop that
// applies edge scrolling while the gesture is live. Each applied delta is
// pushed to the client so its scroll container tracks the server's view.
func (s *dragSession) startScroll(ctx context.Context, pointerY float64) {
	s.stopScroll()
	s.scroller.Pointer(pointerY)
	s.scroller.Start()

	ctx, cancel := context.WithCancel(ctx)
	s.scrollCancel = cancel

	go func() {
		ticker := time.NewTicker(frameInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if delta := s.scroller.Tick(); delta != 0 {
					s.reply(dragReply{Type: "scroll", ScrollTop: s.viewport.ScrollTop()})
				}
			}
		}
	}()
}

func (s *dragSession) stopScroll() {
	s.scroller.Stop()
	if s.scrollCancel != nil {
		s.scrollCancel()
		s.scrollCancel = nil
	}
}

func (s *dragSession) proposal(p drag.Proposal) {
	start, end := p.Start, p.End
	s.reply(dragReply{
		Type:    "proposal",
		EventID: p.EventID,
		Start:   &start,
		End:     &end,
		AllDay:  p.AllDay,
	})
}

// commit persists a finalized proposal and fans the change out to every
// connected sync client.
func (s *dragSession) commit(p drag.Proposal) {
	var (
		id     int64
		action string
	)
	if p.EventID == 0 {
		event, err := s.events.Create("New event", p.Start, p.End, p.AllDay, "#4A90D9")
		if err != nil {
			s.logger.Error("create dragged event", "error", err)
			s.reply(dragReply{Type: "error", Error: "create failed"})
			return
		}
		id, action = event.ID, "created"
	} else {
		if _, err := s.events.UpdateTimes(p.EventID, p.Start, p.End, p.AllDay); err != nil {
			s.logger.Error("update dragged event", "id", p.EventID, "error", err)
			s.reply(dragReply{Type: "error", Error: "update failed"})
			return
		}
		id, action = p.EventID, "updated"
	}

	start, end := p.Start, p.End
	s.reply(dragReply{Type: "committed", EventID: id, Start: &start, End: &end, AllDay: p.AllDay})
	s.hub.Broadcast(NewMessage("event", action, id, nil))
}

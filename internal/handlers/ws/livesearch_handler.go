// Package ws hosts live-search sessions: one websocket connection carries one
// search controller, so debounce, staleness, and viewport state live on the
// server and every client event is a small JSON frame.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"atlas-service/internal/geo"
	"atlas-service/internal/search"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// clientMessage is any frame sent by the browser. Type selects the event;
// the remaining fields are read per type.
type clientMessage struct {
	Type       string             `json:"type"`
	Text       string             `json:"text,omitempty"`
	Suggestion *search.Suggestion `json:"suggestion,omitempty"`
	Latitude   *float64           `json:"latitude,omitempty"`
	Longitude  *float64           `json:"longitude,omitempty"`
	Zoom       *float64           `json:"zoom,omitempty"`
}

type serverMessage struct {
	Type        string              `json:"type"`
	Suggestions []search.Suggestion `json:"suggestions,omitempty"`
	Viewport    *geo.Viewport       `json:"viewport,omitempty"`
	Error       string              `json:"error,omitempty"`
}

type LiveSearchHandler struct {
	suggester search.Suggester
	resolver  search.Resolver
	logger    *zap.Logger
}

func NewLiveSearchHandler(suggester search.Suggester, resolver search.Resolver, logger *zap.Logger) *LiveSearchHandler {
	return &LiveSearchHandler{
		suggester: suggester,
		resolver:  resolver,
		logger:    logger,
	}
}

// HandleConnection upgrades the request and runs the session until the peer
// disconnects.
func (h *LiveSearchHandler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		return
	}

	sess := newSession(conn, h.suggester, h.resolver, h.logger)
	h.logger.Info("live-search session opened", zap.String("ip", c.ClientIP()))

	go sess.writePump()
	sess.readPump()
}

// session binds one connection to one controller. The controller's callbacks
// only enqueue frames; the write pump owns the connection's write side.
type session struct {
	conn       *websocket.Conn
	controller *search.Controller
	send       chan serverMessage
	logger     *zap.Logger
}

func newSession(conn *websocket.Conn, suggester search.Suggester, resolver search.Resolver, logger *zap.Logger) *session {
	s := &session{
		conn:   conn,
		send:   make(chan serverMessage, sendBuffer),
		logger: logger,
	}
	s.controller = search.NewController(suggester, resolver, search.Callbacks{
		OnSuggestions: func(suggestions []search.Suggestion) {
			if suggestions == nil {
				suggestions = []search.Suggestion{}
			}
			s.enqueue(serverMessage{Type: "suggestions", Suggestions: suggestions})
		},
		OnViewport: func(v geo.Viewport) {
			s.enqueue(serverMessage{Type: "viewport", Viewport: &v})
		},
		OnResize: func() {
			s.enqueue(serverMessage{Type: "resize"})
		},
		OnError: func(err error) {
			s.enqueue(serverMessage{Type: "error", Error: err.Error()})
		},
	})
	return s
}

// enqueue drops frames when the peer cannot keep up; the session state is
// fully rebuilt by later frames, so dropping is safe.
func (s *session) enqueue(msg serverMessage) {
	select {
	case s.send <- msg:
	default:
		s.logger.Warn("live-search send buffer full, dropping frame",
			zap.String("type", msg.Type),
		)
	}
}

func (s *session) readPump() {
	defer func() {
		s.controller.Close()
		close(s.send)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("live-search read error", zap.Error(err))
			}
			return
		}
		s.handleMessage(data)
	}
}

func (s *session) handleMessage(data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.enqueue(serverMessage{Type: "error", Error: "invalid message"})
		return
	}

	switch msg.Type {
	case "input":
		s.controller.SetSearchInput(msg.Text)

	case "select":
		if msg.Suggestion == nil {
			s.enqueue(serverMessage{Type: "error", Error: "select requires a suggestion"})
			return
		}
		s.controller.SelectSuggestion(*msg.Suggestion)

	case "commit":
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s.controller.CommitSearch(ctx)

	case "viewport":
		s.controller.UpdateViewport(search.ViewportPatch{
			Latitude:  msg.Latitude,
			Longitude: msg.Longitude,
			Zoom:      msg.Zoom,
		})

	case "map_loaded":
		s.controller.MarkMapLoaded()

	default:
		s.enqueue(serverMessage{Type: "error", Error: "unknown message type"})
	}
}

func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package livefeed

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/riskibarqy/cricket-league/internal/platform/logging"
	"github.com/riskibarqy/cricket-league/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

const (
	FrameSnapshot     = "SCORE_SNAPSHOT"
	FrameScoreUpdated = "SCORE_UPDATED"
)

var ErrHubClosed = errors.New("live feed hub is closed")

// Frame is the envelope every viewer receives.
type Frame struct {
	Type    string `json:"type"`
	MatchID string `json:"match_id"`
	Payload any    `json:"payload"`
}

// Hub keeps one room of websocket viewers per match and fans score updates
// out to them.
type Hub struct {
	logger   *logging.Logger
	upgrader websocket.Upgrader

	mu     sync.RWMutex
	rooms  map[string]map[*Client]struct{}
	closed bool
}

func NewHub(allowedOrigins []string, logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}

	h := &Hub{
		logger: logger.Named("livefeed"),
		rooms:  make(map[string]map[*Client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	wildcard := false
	for _, origin := range allowed {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			wildcard = true
			continue
		}
		set[strings.TrimRight(origin, "/")] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" || wildcard {
			return true
		}
		_, ok := set[strings.TrimRight(origin, "/")]
		return ok
	}
}

// Client is one websocket viewer of a match.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	matchID string
	once    sync.Once
}

// ServeMatch upgrades the request and subscribes the connection to matchID.
// A non-nil snapshot is delivered before any live update.
func (h *Hub) ServeMatch(w http.ResponseWriter, r *http.Request, matchID string, snapshot any) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		matchID: matchID,
	}

	if snapshot != nil {
		data, err := encodeFrame(Frame{Type: FrameSnapshot, MatchID: matchID, Payload: snapshot})
		if err != nil {
			_ = conn.Close()
			return err
		}
		client.send <- data
	}

	if err := h.register(client); err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return err
	}

	go client.writePump()
	go client.readPump()
	return nil
}

// Publish implements usecase.ScorePublisher. Viewers whose buffer is full
// miss the frame rather than stall the scorer.
func (h *Hub) Publish(ctx context.Context, update usecase.ScoreUpdate) {
	data, err := encodeFrame(Frame{Type: FrameScoreUpdated, MatchID: update.MatchID, Payload: update})
	if err != nil {
		h.logger.WarnContext(ctx, "encode score update failed", "match_id", update.MatchID, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	room := h.rooms[update.MatchID]
	skipped := 0
	for client := range room {
		select {
		case client.send <- data:
		default:
			skipped++
		}
	}
	if skipped > 0 {
		h.logger.WarnContext(ctx, "live viewers skipped score update",
			"match_id", update.MatchID,
			"skipped", skipped,
			"viewers", len(room),
		)
	}
}

// Viewers reports how many connections are subscribed to matchID.
func (h *Hub) Viewers(matchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[matchID])
}

// Close disconnects every viewer and rejects new subscriptions.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for matchID, room := range h.rooms {
		for client := range room {
			client.closeSend()
		}
		delete(h.rooms, matchID)
	}
}

func (h *Hub) register(client *Client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHubClosed
	}
	room, ok := h.rooms[client.matchID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[client.matchID] = room
	}
	room[client] = struct{}{}
	h.logger.Debug("live viewer joined", "match_id", client.matchID, "viewers", len(room))
	return nil
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[client.matchID]
	if !ok {
		return
	}
	if _, ok := room[client]; !ok {
		return
	}
	delete(room, client)
	client.closeSend()
	if len(room) == 0 {
		delete(h.rooms, client.matchID)
	}
	h.logger.Debug("live viewer left", "match_id", client.matchID, "viewers", len(room))
}

func encodeFrame(frame Frame) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(frame); err != nil {
		return nil, err
	}
	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}

// closeSend must be called with the hub lock held.
func (c *Client) closeSend() {
	c.once.Do(func() { close(c.send) })
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		// Viewers are read-only; inbound frames only keep the deadline alive.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("live viewer read failed", "match_id", c.matchID, "error", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

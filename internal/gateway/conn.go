package gateway

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/townsquare-go/internal/model"
	"github.com/mcoot/townsquare-go/internal/services/town"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size in bytes
	maxMessageSize = 64 * 1024

	// Buffer size for outgoing events
	sendBufferSize = 256
)

// Conn wraps one player's websocket. Writes go through a buffered send
// channel drained by the write pump; a full buffer drops events rather
// than blocking the town.
type Conn struct {
	ws       *websocket.Conn
	playerID model.PlayerID
	send     chan []byte
	closed   chan struct{}
	once     sync.Once
	logger   *slog.Logger
}

// NewConn wraps an upgraded websocket
func NewConn(ws *websocket.Conn, logger *slog.Logger) *Conn {
	return &Conn{
		ws:     ws,
		send:   make(chan []byte, sendBufferSize),
		closed: make(chan struct{}),
		logger: logger,
	}
}

// Ensure Conn can serve as a player's connection
var _ town.Connection = (*Conn)(nil)

// Send queues an event for delivery. Never blocks; events are dropped
// when the buffer is full or the connection is closed.
func (c *Conn) Send(event model.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		c.logger.Error("marshaling event", slog.String("event", string(event.Name)), slog.Any("error", err))
		return
	}

	select {
	case c.send <- data:
	case <-c.closed:
	default:
		c.logger.Warn("event dropped - send buffer full",
			slog.String("player_id", string(c.playerID)),
			slog.String("event", string(event.Name)))
	}
}

// Close tears the connection down. Safe to call more than once.
func (c *Conn) Close() {
	c.once.Do(func() {
		close(c.closed)
		if c.ws != nil {
			_ = c.ws.Close()
		}
	})
}

// writePump drains the send buffer to the websocket and keeps the
// connection alive with pings. Runs in its own goroutine per connection.
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.closed:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// inboundEvent is the wire envelope of a client-to-server message
type inboundEvent struct {
	Event   model.EventName `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// readPump reads inbound events and dispatches them into the town until
// the socket closes. Blocks the caller; the caller handles disconnect
// when it returns.
func (c *Conn) readPump(t *town.Town) {
	defer c.Close()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("unexpected socket close",
					slog.String("player_id", string(c.playerID)),
					slog.Any("error", err))
			}
			return
		}
		c.dispatch(t, data)
	}
}

// dispatch routes one inbound message to the town's event handlers.
// Malformed messages are logged and dropped; a bad client cannot take
// the session down.
func (c *Conn) dispatch(t *town.Town, data []byte) {
	var msg inboundEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		c.logger.Debug("malformed inbound message", slog.String("player_id", string(c.playerID)))
		return
	}

	switch msg.Event {
	case model.EventPlayerMovement:
		var location model.PlayerLocation
		if err := json.Unmarshal(msg.Payload, &location); err != nil {
			return
		}
		t.HandleMovement(c.playerID, location)

	case model.EventInteractableUpdate:
		update, err := model.UnmarshalInteractable(msg.Payload)
		if err != nil {
			return
		}
		t.HandleInteractableUpdate(c.playerID, update)

	case model.EventChatMessage:
		var message model.ChatMessage
		if err := json.Unmarshal(msg.Payload, &message); err != nil {
			return
		}
		message.Author = c.playerID
		t.HandleChatMessage(message)

	default:
		c.logger.Debug("unknown inbound event",
			slog.String("player_id", string(c.playerID)),
			slog.String("event", string(msg.Event)))
	}
}

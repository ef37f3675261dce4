package gateway

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/mcoot/townsquare-go/internal/model"
	"github.com/mcoot/townsquare-go/internal/services/town"
)

// outbound is a marshaled event headed for every connection in a town,
// optionally excluding one player
type outbound struct {
	data   []byte
	except model.PlayerID
}

// Hub fans events out to the websocket connections of a single town
type Hub struct {
	townID  model.TownID
	clients map[*Conn]bool
	mu      sync.RWMutex
	logger  *slog.Logger

	register   chan *Conn
	unregister chan *Conn
	broadcast  chan outbound
	done       chan struct{}
}

// NewHub creates a new Hub for a town
func NewHub(townID model.TownID, logger *slog.Logger) *Hub {
	return &Hub{
		townID:     townID,
		clients:    make(map[*Conn]bool),
		logger:     logger.With(slog.String("town_id", string(townID))),
		register:   make(chan *Conn),
		unregister: make(chan *Conn),
		broadcast:  make(chan outbound, 256),
		done:       make(chan struct{}),
	}
}

// Ensure Hub can serve as a town's broadcast channel
var _ town.Broadcaster = (*Hub)(nil)

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Debug("hub started")
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("connection registered",
				slog.String("player_id", string(conn.playerID)),
				slog.Int("total_connections", count))

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				count := len(h.clients)
				h.mu.Unlock()
				h.logger.Debug("connection unregistered",
					slog.String("player_id", string(conn.playerID)),
					slog.Int("total_connections", count))
			} else {
				h.mu.Unlock()
			}

		case msg := <-h.broadcast:
			h.mu.RLock()
			dropped := 0
			for conn := range h.clients {
				if msg.except != "" && conn.playerID == msg.except {
					continue
				}
				select {
				case conn.send <- msg.data:
				default:
					dropped++
					h.logger.Warn("event dropped - connection buffer full",
						slog.String("player_id", string(conn.playerID)))
				}
			}
			h.mu.RUnlock()
			if dropped > 0 {
				h.logger.Warn("broadcast partial delivery", slog.Int("dropped", dropped))
			}

		case <-h.done:
			h.mu.Lock()
			for conn := range h.clients {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()
			h.logger.Debug("hub stopped")
			return
		}
	}
}

// Register adds a connection to the hub. A no-op once the hub has shut
// down, so joins racing a town deletion cannot hang
func (h *Hub) Register(conn *Conn) {
	select {
	case h.register <- conn:
	case <-h.done:
	}
}

// Unregister removes a connection from the hub
func (h *Hub) Unregister(conn *Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Broadcast sends an event to every connection in the town
func (h *Hub) Broadcast(event model.Event) {
	h.enqueue(event, "")
}

// BroadcastExcept sends an event to every connection except one player's
func (h *Hub) BroadcastExcept(except model.PlayerID, event model.Event) {
	h.enqueue(event, except)
}

func (h *Hub) enqueue(event model.Event, except model.PlayerID) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("marshaling event", slog.String("event", string(event.Name)), slog.Any("error", err))
		return
	}

	select {
	case h.broadcast <- outbound{data: data, except: except}:
	case <-h.done:
	default:
		h.logger.Warn("broadcast dropped - hub buffer full", slog.String("event", string(event.Name)))
	}
}

// Close shuts down the hub and closes its connections
func (h *Hub) Close() {
	close(h.done)
}

// ConnectionCount returns the number of registered connections
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HubManager owns one hub per town
type HubManager struct {
	hubs   map[model.TownID]*Hub
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.TownID]*Hub),
		logger: logger.With(slog.String("component", "gateway")),
	}
}

// GetOrCreateHub returns the hub for a town, creating one if needed
func (m *HubManager) GetOrCreateHub(townID model.TownID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[townID]; ok {
		return hub
	}

	hub := NewHub(townID, m.logger)
	m.hubs[townID] = hub
	go hub.Run()
	return hub
}

// RemoveHub removes and closes a hub
func (m *HubManager) RemoveHub(townID model.TownID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[townID]; ok {
		hub.Close()
		delete(m.hubs, townID)
		m.logger.Debug("hub removed", slog.String("town_id", string(townID)))
	}
}

// BroadcasterFor satisfies the registry's broadcaster provider
func (m *HubManager) BroadcasterFor(townID model.TownID) town.Broadcaster {
	return m.GetOrCreateHub(townID)
}

// Release satisfies the registry's broadcaster provider
func (m *HubManager) Release(townID model.TownID) {
	m.RemoveHub(townID)
}

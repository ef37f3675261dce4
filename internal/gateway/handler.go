package gateway

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mcoot/townsquare-go/internal/model"
	"github.com/mcoot/townsquare-go/internal/services/registry"
)

// Ensure the hub manager satisfies the registry's broadcaster provider
var _ registry.BroadcasterProvider = (*HubManager)(nil)

// Handler accepts websocket joins and runs each player's session until
// their socket closes
type Handler struct {
	registry *registry.Controller
	hubs     *HubManager
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates the gateway's join handler
func NewHandler(reg *registry.Controller, hubs *HubManager, logger *slog.Logger) *Handler {
	return &Handler{
		registry: reg,
		hubs:     hubs,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The REST surface is already open to any origin; the
			// socket follows suit
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "gateway")),
	}
}

// HandleJoin upgrades the request to a websocket, registers the player
// with their town, unicasts the initial snapshot, then pumps inbound
// events until disconnect
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	townID := model.TownID(r.URL.Query().Get("townID"))
	userName := r.URL.Query().Get("userName")
	if townID == "" || userName == "" {
		http.Error(w, "townID and userName are required", http.StatusBadRequest)
		return
	}

	t, err := h.registry.GetTown(townID)
	if err != nil {
		http.Error(w, "town not found", http.StatusBadRequest)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", slog.Any("error", err))
		return
	}

	conn := NewConn(ws, h.logger)

	player, snapshot, err := t.AddPlayer(r.Context(), userName, conn)
	if err != nil {
		h.logger.Info("join rejected",
			slog.String("town_id", string(townID)),
			slog.String("user_name", userName),
			slog.Any("error", err))
		_ = ws.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()))
		_ = ws.Close()
		return
	}
	conn.playerID = player.ID

	hub := h.hubs.GetOrCreateHub(townID)
	hub.Register(conn)
	go conn.writePump()

	conn.Send(model.Event{Name: model.EventInitialize, Payload: snapshot})

	// Blocks until the socket closes
	conn.readPump(t)

	t.HandleDisconnect(player.ID)
	hub.Unregister(conn)
}

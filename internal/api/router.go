package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/townsquare-go/internal/api/handler"
	apimiddleware "github.com/mcoot/townsquare-go/internal/api/middleware"
	"github.com/mcoot/townsquare-go/internal/gateway"
	"github.com/mcoot/townsquare-go/internal/middleware"
	"github.com/mcoot/townsquare-go/internal/services/registry"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	Registry       *registry.Controller
	GatewayHandler *gateway.Handler
}

// NewRouter creates a new router with all REST routes and the websocket
// join endpoint configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	townHandler := handler.NewTownHandler(cfg.Registry)
	areaHandler := handler.NewAreaHandler()
	pollHandler := handler.NewPollHandler()

	sessionMiddleware := apimiddleware.Session(cfg.Registry)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Town lifecycle. Create and list need no session; update and
	// delete authenticate with the town's update password instead.
	api.HandleFunc("/towns", townHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/towns", townHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/towns/{townID}", townHandler.Update).Methods(http.MethodPatch)
	api.HandleFunc("/towns/{townID}", townHandler.Delete).Methods(http.MethodDelete)

	// Everything below requires a live town plus a session token that
	// resolves to a live player in it
	towns := api.PathPrefix("/towns/{townID}").Subrouter()
	towns.Use(sessionMiddleware)

	towns.HandleFunc("/conversationArea", areaHandler.CreateConversationArea).Methods(http.MethodPost)
	towns.HandleFunc("/viewingArea", areaHandler.CreateViewingArea).Methods(http.MethodPost)
	towns.HandleFunc("/posterSessionArea", areaHandler.CreatePosterSessionArea).Methods(http.MethodPost)
	towns.HandleFunc("/posterSessionArea/{areaID}/imageContents", areaHandler.GetPosterImage).Methods(http.MethodGet)
	towns.HandleFunc("/posterSessionArea/{areaID}/stars", areaHandler.StarPoster).Methods(http.MethodPost)

	towns.HandleFunc("/polls", pollHandler.Create).Methods(http.MethodPost)
	towns.HandleFunc("/polls", pollHandler.List).Methods(http.MethodGet)
	towns.HandleFunc("/polls/{pollID}", pollHandler.Results).Methods(http.MethodGet)
	towns.HandleFunc("/polls/{pollID}/vote", pollHandler.Vote).Methods(http.MethodPost)
	towns.HandleFunc("/polls/{pollID}", pollHandler.Delete).Methods(http.MethodDelete)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Websocket join endpoint; the gateway authenticates with query
	// parameters rather than headers
	r.HandleFunc("/ws/town", cfg.GatewayHandler.HandleJoin)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

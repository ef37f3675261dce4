package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/townsquare-go/internal/api/apierr"
	"github.com/mcoot/townsquare-go/internal/model"
	"github.com/mcoot/townsquare-go/internal/services/registry"
	"github.com/mcoot/townsquare-go/internal/services/town"
)

// SessionTokenHeader carries the opaque per-player session token issued
// at join time
const SessionTokenHeader = "X-Session-Token"

type contextKey string

const (
	townContextKey   contextKey = "town"
	playerContextKey contextKey = "player"
)

// Session resolves the route's townID and the caller's session token to
// a live town and player. Both failures surface as the same
// invalid-parameters response.
func Session(reg *registry.Controller) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			townID := model.TownID(mux.Vars(r)["townID"])

			t, err := reg.GetTown(townID)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			player, err := t.GetPlayerBySessionToken(r.Header.Get(SessionTokenHeader))
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, townContextKey, t)
			ctx = context.WithValue(ctx, playerContextKey, player)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MustGetTown returns the town resolved by Session. Panics if the
// middleware did not run.
func MustGetTown(ctx context.Context) *town.Town {
	t, ok := ctx.Value(townContextKey).(*town.Town)
	if !ok {
		panic("town not present in request context")
	}
	return t
}

// MustGetPlayer returns the player resolved by Session. Panics if the
// middleware did not run.
func MustGetPlayer(ctx context.Context) *town.Player {
	p, ok := ctx.Value(playerContextKey).(*town.Player)
	if !ok {
		panic("player not present in request context")
	}
	return p
}

package town

import (
	"github.com/mcoot/townsquare-go/internal/model"
)

// Player is the server-side state for a connected participant. It pairs
// the wire-visible model.Player with the credentials and connection the
// town holds on its behalf.
type Player struct {
	ID       model.PlayerID
	UserName string
	Location model.PlayerLocation

	// SessionToken authenticates this player's REST and socket traffic
	// for the lifetime of the session
	SessionToken string

	// VideoToken is the credential for the external video service,
	// fetched once at join time
	VideoToken string

	conn Connection
}

// NewPlayer creates a player at the spawn location facing forward
func NewPlayer(id model.PlayerID, userName string, sessionToken string) *Player {
	return &Player{
		ID:       id,
		UserName: userName,
		Location: model.PlayerLocation{
			X:        0,
			Y:        0,
			Rotation: model.RotationBack,
			Moving:   false,
		},
		SessionToken: sessionToken,
	}
}

// ToModel returns the wire representation of the player
func (p *Player) ToModel() model.Player {
	return model.Player{
		ID:       p.ID,
		UserName: p.UserName,
		Location: p.Location,
	}
}

// Attach binds the player's socket connection
func (p *Player) Attach(conn Connection) {
	p.conn = conn
}

// Send delivers an event to this player only. Safe to call before a
// connection is attached; the event is dropped.
func (p *Player) Send(event model.Event) {
	if p.conn != nil {
		p.conn.Send(event)
	}
}

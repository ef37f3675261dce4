package model

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Rotation is the direction a player's avatar is facing
type Rotation string

const (
	RotationFront Rotation = "front"
	RotationBack  Rotation = "back"
	RotationLeft  Rotation = "left"
	RotationRight Rotation = "right"
)

// PlayerLocation is a player's position on the town map.
// Interactable is set when the position falls inside a named area.
type PlayerLocation struct {
	X            float64        `json:"x"`
	Y            float64        `json:"y"`
	Rotation     Rotation       `json:"rotation"`
	Moving       bool           `json:"moving"`
	Interactable InteractableID `json:"interactableID,omitempty"`
}

// Player is the public projection of a connected player, as broadcast to
// other clients. Session and video tokens are never part of this shape.
type Player struct {
	ID       PlayerID       `json:"id"`
	UserName string         `json:"userName"`
	Location PlayerLocation `json:"location"`
}

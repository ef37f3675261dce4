package model

// EventName identifies an event on the town socket
type EventName string

// Server-to-client events
const (
	EventInitialize          EventName = "initialize"
	EventPlayerMoved         EventName = "playerMoved"
	EventPlayerDisconnect    EventName = "playerDisconnect"
	EventInteractableUpdate  EventName = "interactableUpdate"
	EventTownSettingsUpdated EventName = "townSettingsUpdated"
	EventTownClosing         EventName = "townClosing"
	EventChatMessage         EventName = "chatMessage"
)

// Client-to-server events. A chatMessage is accepted in both directions;
// disconnects arrive as socket closure rather than a payload.
const (
	EventPlayerMovement EventName = "playerMovement"
)

// Event is one named message on the town socket
type Event struct {
	Name    EventName `json:"event"`
	Payload any       `json:"payload,omitempty"`
}

// InitializePayload is the full-state snapshot unicast to a player when
// they join a town
type InitializePayload struct {
	UserID             PlayerID            `json:"userID"`
	SessionToken       string              `json:"sessionToken"`
	ProviderVideoToken string              `json:"providerVideoToken"`
	CurrentPlayers     []Player            `json:"currentPlayers"`
	FriendlyName       string              `json:"friendlyName"`
	IsPubliclyListed   bool                `json:"isPubliclyListed"`
	Interactables      []InteractableModel `json:"interactables"`
}

// TownSettingsPayload is broadcast when a town's settings change
type TownSettingsPayload struct {
	FriendlyName     string `json:"friendlyName"`
	IsPubliclyListed bool   `json:"isPubliclyListed"`
}

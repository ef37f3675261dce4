package model

import "time"

// TownID uniquely identifies a town session
type TownID string

// TownSummary is the public listing projection of a town
type TownSummary struct {
	TownID           TownID `json:"townID"`
	FriendlyName     string `json:"friendlyName"`
	CurrentOccupancy int    `json:"currentOccupancy"`
	MaximumOccupancy int    `json:"maximumOccupancy"`
}

// TownSettingsUpdate carries a partial settings change; nil fields are
// left untouched
type TownSettingsUpdate struct {
	FriendlyName     *string `json:"friendlyName,omitempty"`
	IsPubliclyListed *bool   `json:"isPubliclyListed,omitempty"`
}

// ChatMessage is a chat line scoped to an interactable area. It is
// forwarded only to players whose current area matches Interactable.
type ChatMessage struct {
	Author       PlayerID       `json:"author"`
	SID          string         `json:"sid"`
	Body         string         `json:"body"`
	DateCreated  time.Time      `json:"dateCreated"`
	Interactable InteractableID `json:"interactableId,omitempty"`
}

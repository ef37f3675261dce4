package request

import "github.com/mcoot/townsquare-go/internal/model"

// CreateTownRequest is the request body for creating a town
type CreateTownRequest struct {
	FriendlyName     string `json:"friendlyName"`
	IsPubliclyListed bool   `json:"isPubliclyListed"`
}

// UpdateTownRequest is the request body for updating town settings;
// omitted fields are left unchanged
type UpdateTownRequest struct {
	FriendlyName     *string `json:"friendlyName,omitempty"`
	IsPubliclyListed *bool   `json:"isPubliclyListed,omitempty"`
}

// CreateConversationAreaRequest activates a conversation area
type CreateConversationAreaRequest struct {
	ID    string `json:"id"`
	Topic string `json:"topic"`
}

// CreateViewingAreaRequest starts a viewing session
type CreateViewingAreaRequest struct {
	ID    string `json:"id"`
	Video string `json:"video"`
}

// CreatePosterSessionAreaRequest starts a poster session
type CreatePosterSessionAreaRequest struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	ImageContents string `json:"imageContents"`
}

// CreatePollRequest is the request body for creating a poll
type CreatePollRequest struct {
	Question string             `json:"question"`
	Options  []string           `json:"options"`
	Settings model.PollSettings `json:"settings"`
}

// VoteRequest is the request body for voting in a poll
type VoteRequest struct {
	UserVotes []int `json:"userVotes"`
}

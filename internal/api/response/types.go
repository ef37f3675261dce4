package response

import "github.com/mcoot/townsquare-go/internal/model"

// CreateTownResponse returns the new town's ID and its one-time update
// password. The password is never retrievable again.
type CreateTownResponse struct {
	TownID             model.TownID `json:"townID"`
	TownUpdatePassword string       `json:"townUpdatePassword"`
}

// ListTownsResponse lists publicly visible towns
type ListTownsResponse struct {
	Towns []model.TownSummary `json:"towns"`
}

// CreatePollResponse returns the new poll's ID
type CreatePollResponse struct {
	PollID model.PollID `json:"pollId"`
}

// PollResultsResponse is a poll's wire model plus the requesting
// player's own votes
type PollResultsResponse struct {
	model.PollModel
	UserVotes []int `json:"userVotes"`
}

// StarsResponse returns a poster's star count after an increment
type StarsResponse struct {
	Stars int `json:"stars"`
}

// ImageContentsResponse returns a poster's image payload
type ImageContentsResponse struct {
	ImageContents string `json:"imageContents"`
}

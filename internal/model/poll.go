package model

import (
	"encoding/json"
	"time"
)

// PollID uniquely identifies a poll within a town
type PollID string

// Voter identifies a poll participant as recorded against an option
type Voter struct {
	ID   PlayerID `json:"id"`
	Name string   `json:"name"`
}

// PollSettings control how a poll accepts and discloses votes
type PollSettings struct {
	Anonymize   bool `json:"anonymize"`
	MultiSelect bool `json:"multiSelect"`
}

// PollResponses is the disclosure side of a poll model. Exactly one of
// Counts or Voters is populated: Counts when the poll is anonymized,
// Voters otherwise. On the wire it is either an array of numbers or an
// array of voter-identity arrays.
type PollResponses struct {
	Counts []int
	Voters [][]Voter
}

// MarshalJSON emits the populated arm of the union
func (r PollResponses) MarshalJSON() ([]byte, error) {
	if r.Counts != nil {
		return json.Marshal(r.Counts)
	}
	if r.Voters != nil {
		return json.Marshal(r.Voters)
	}
	return []byte("[]"), nil
}

// UnmarshalJSON picks the arm by inspecting the element type
func (r *PollResponses) UnmarshalJSON(data []byte) error {
	var counts []int
	if err := json.Unmarshal(data, &counts); err == nil {
		r.Counts = counts
		r.Voters = nil
		return nil
	}
	var voters [][]Voter
	if err := json.Unmarshal(data, &voters); err != nil {
		return err
	}
	r.Voters = voters
	r.Counts = nil
	return nil
}

// PollModel is the wire projection of a poll, with vote content disclosed
// according to the poll's settings
type PollModel struct {
	PollID    PollID        `json:"pollId"`
	Creator   Voter         `json:"creator"`
	Question  string        `json:"question"`
	Options   []string      `json:"options"`
	Responses PollResponses `json:"responses"`
	Settings  PollSettings  `json:"settings"`
}

// PollInfo is the listing projection of a poll. It never discloses vote
// content, only whether the viewer has voted and the voter total.
type PollInfo struct {
	PollID      PollID   `json:"pollId"`
	CreatorID   PlayerID `json:"creatorId"`
	CreatorName string   `json:"creatorName"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Voted       bool     `json:"voted"`
	TotalVoters int      `json:"totalVoters"`
}

// Poll is a single vote/aggregation entity. Votes is parallel to Options
// and append-only; a voter id appears in any option list at most once, and
// across lists only when the poll allows multi-select.
type Poll struct {
	ID        PollID
	Creator   Voter
	Question  string
	Options   []string
	Settings  PollSettings
	Votes     [][]Voter
	CreatedAt time.Time
}

// NewPoll creates an open poll with one empty voter list per option.
// Validation of the question and options happens at the town level.
func NewPoll(id PollID, creator Voter, question string, options []string, settings PollSettings, createdAt time.Time) *Poll {
	votes := make([][]Voter, len(options))
	for i := range votes {
		votes[i] = []Voter{}
	}
	return &Poll{
		ID:        id,
		Creator:   creator,
		Question:  question,
		Options:   options,
		Settings:  settings,
		Votes:     votes,
		CreatedAt: createdAt,
	}
}

// Vote records the voter against each named option. The check order is
// deliberate: out-of-bounds indexes are rejected before the already-voted
// check, so a second, also-invalid vote surfaces as an out-of-bounds error.
// On any error no vote is recorded.
func (p *Poll) Vote(voter Voter, optionIndexes []int) error {
	for _, idx := range optionIndexes {
		if idx < 0 || idx >= len(p.Options) {
			return ErrOptionOutOfBounds
		}
	}

	// Collapse duplicate indexes so a repeated index in one call counts once
	indexes := dedupeIndexes(optionIndexes)
	if len(indexes) == 0 {
		return ErrEmptyVote
	}
	if len(indexes) > 1 && !p.Settings.MultiSelect {
		return ErrMultiSelectDisabled
	}
	if p.UserVoted(voter.ID) {
		return ErrAlreadyVoted
	}

	for _, idx := range indexes {
		p.Votes[idx] = append(p.Votes[idx], voter)
	}
	return nil
}

// UserVoted reports whether the player appears in any option's voter list
func (p *Poll) UserVoted(id PlayerID) bool {
	for _, voters := range p.Votes {
		for _, v := range voters {
			if v.ID == id {
				return true
			}
		}
	}
	return false
}

// Voters returns the distinct voters across all options in first-appearance
// order, walking options in order and each option's votes in arrival order
func (p *Poll) Voters() []Voter {
	seen := make(map[PlayerID]bool)
	var voters []Voter
	for _, optionVoters := range p.Votes {
		for _, v := range optionVoters {
			if !seen[v.ID] {
				seen[v.ID] = true
				voters = append(voters, v)
			}
		}
	}
	return voters
}

// UserVotes returns the option indexes the player voted for, ascending by
// option order. Empty for a player who never voted.
func (p *Poll) UserVotes(id PlayerID) []int {
	var indexes []int
	for i, voters := range p.Votes {
		for _, v := range voters {
			if v.ID == id {
				indexes = append(indexes, i)
				break
			}
		}
	}
	return indexes
}

// ToModel projects the poll for transport. When the poll is anonymized the
// responses carry per-option counts only, never voter identity.
func (p *Poll) ToModel() PollModel {
	var responses PollResponses
	if p.Settings.Anonymize {
		counts := make([]int, len(p.Votes))
		for i, voters := range p.Votes {
			counts[i] = len(voters)
		}
		responses.Counts = counts
	} else {
		voters := make([][]Voter, len(p.Votes))
		for i := range p.Votes {
			voters[i] = append([]Voter{}, p.Votes[i]...)
		}
		responses.Voters = voters
	}

	return PollModel{
		PollID:    p.ID,
		Creator:   p.Creator,
		Question:  p.Question,
		Options:   p.Options,
		Responses: responses,
		Settings:  p.Settings,
	}
}

// Summary projects the poll for listing from a given viewer's perspective
func (p *Poll) Summary(viewerID PlayerID) PollInfo {
	return PollInfo{
		PollID:      p.ID,
		CreatorID:   p.Creator.ID,
		CreatorName: p.Creator.Name,
		Question:    p.Question,
		Options:     p.Options,
		Voted:       p.UserVoted(viewerID),
		TotalVoters: len(p.Voters()),
	}
}

func dedupeIndexes(indexes []int) []int {
	seen := make(map[int]bool, len(indexes))
	var out []int
	for _, idx := range indexes {
		if !seen[idx] {
			seen[idx] = true
			out = append(out, idx)
		}
	}
	return out
}

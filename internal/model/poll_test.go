package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/townsquare-go/internal/model"
)

var (
	pollCreator = model.Voter{ID: "p-creator", Name: "Creator"}
	voterAlice  = model.Voter{ID: "p-alice", Name: "Alice"}
	voterBob    = model.Voter{ID: "p-bob", Name: "Bob"}
)

func newTestPoll(settings model.PollSettings) *model.Poll {
	return model.NewPoll(
		"poll-1",
		pollCreator,
		"Best lunch spot?",
		[]string{"Cafe", "Park", "Desk"},
		settings,
		time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	)
}

func TestNewPoll_OneVoterListPerOption(t *testing.T) {
	poll := newTestPoll(model.PollSettings{})

	require.Len(t, poll.Votes, 3)
	for _, voters := range poll.Votes {
		assert.Empty(t, voters)
	}
}

func TestPoll_Vote(t *testing.T) {
	poll := newTestPoll(model.PollSettings{})

	require.NoError(t, poll.Vote(voterAlice, []int{1}))

	assert.True(t, poll.UserVoted(voterAlice.ID))
	assert.Equal(t, []int{1}, poll.UserVotes(voterAlice.ID))
	assert.Equal(t, []model.Voter{voterAlice}, poll.Votes[1])
}

func TestPoll_Vote_NoRevote(t *testing.T) {
	poll := newTestPoll(model.PollSettings{})

	require.NoError(t, poll.Vote(voterAlice, []int{0}))
	err := poll.Vote(voterAlice, []int{2})
	assert.ErrorIs(t, err, model.ErrAlreadyVoted)

	// The failed second vote left nothing behind
	assert.Empty(t, poll.Votes[2])
}

func TestPoll_Vote_OutOfBounds(t *testing.T) {
	poll := newTestPoll(model.PollSettings{MultiSelect: true})

	err := poll.Vote(voterAlice, []int{3})
	assert.ErrorIs(t, err, model.ErrOptionOutOfBounds)

	err = poll.Vote(voterAlice, []int{-1})
	assert.ErrorIs(t, err, model.ErrOptionOutOfBounds)

	// A vote mixing valid and invalid indexes records nothing
	err = poll.Vote(voterAlice, []int{0, 7})
	assert.ErrorIs(t, err, model.ErrOptionOutOfBounds)
	assert.Empty(t, poll.Votes[0])
	assert.False(t, poll.UserVoted(voterAlice.ID))
}

func TestPoll_Vote_OutOfBoundsBeatsAlreadyVoted(t *testing.T) {
	poll := newTestPoll(model.PollSettings{})

	require.NoError(t, poll.Vote(voterAlice, []int{0}))

	// A second vote that is also out of bounds reports the bounds error
	err := poll.Vote(voterAlice, []int{5})
	assert.ErrorIs(t, err, model.ErrOptionOutOfBounds)
}

func TestPoll_Vote_MultiSelectDisabled(t *testing.T) {
	poll := newTestPoll(model.PollSettings{})

	err := poll.Vote(voterAlice, []int{0, 1})
	assert.ErrorIs(t, err, model.ErrMultiSelectDisabled)
	assert.False(t, poll.UserVoted(voterAlice.ID))
}

func TestPoll_Vote_MultiSelect(t *testing.T) {
	poll := newTestPoll(model.PollSettings{MultiSelect: true})

	require.NoError(t, poll.Vote(voterAlice, []int{2, 0}))

	// UserVotes is ascending by option order regardless of ballot order
	assert.Equal(t, []int{0, 2}, poll.UserVotes(voterAlice.ID))
}

func TestPoll_Vote_DuplicateIndexesCollapse(t *testing.T) {
	poll := newTestPoll(model.PollSettings{})

	// Repeating the same index is still a single-option ballot
	require.NoError(t, poll.Vote(voterAlice, []int{1, 1, 1}))
	assert.Len(t, poll.Votes[1], 1)
}

func TestPoll_Vote_Empty(t *testing.T) {
	poll := newTestPoll(model.PollSettings{})

	err := poll.Vote(voterAlice, []int{})
	assert.ErrorIs(t, err, model.ErrEmptyVote)
}

func TestPoll_Voters_FirstAppearanceOrder(t *testing.T) {
	poll := newTestPoll(model.PollSettings{MultiSelect: true})

	require.NoError(t, poll.Vote(voterBob, []int{1, 2}))
	require.NoError(t, poll.Vote(voterAlice, []int{0, 1}))

	// Walking options in order, alice's option-0 vote appears first
	assert.Equal(t, []model.Voter{voterAlice, voterBob}, poll.Voters())
}

func TestPoll_ToModel_Anonymized(t *testing.T) {
	poll := newTestPoll(model.PollSettings{Anonymize: true})

	require.NoError(t, poll.Vote(voterAlice, []int{1}))
	require.NoError(t, poll.Vote(voterBob, []int{1}))

	m := poll.ToModel()
	assert.Equal(t, []int{0, 2, 0}, m.Responses.Counts)
	assert.Nil(t, m.Responses.Voters)
}

func TestPoll_ToModel_NamedVoters(t *testing.T) {
	poll := newTestPoll(model.PollSettings{})

	require.NoError(t, poll.Vote(voterAlice, []int{0}))

	m := poll.ToModel()
	assert.Nil(t, m.Responses.Counts)
	require.Len(t, m.Responses.Voters, 3)
	assert.Equal(t, []model.Voter{voterAlice}, m.Responses.Voters[0])
	assert.Empty(t, m.Responses.Voters[1])
}

func TestPoll_Summary(t *testing.T) {
	poll := newTestPoll(model.PollSettings{})

	require.NoError(t, poll.Vote(voterAlice, []int{2}))

	forAlice := poll.Summary(voterAlice.ID)
	assert.Equal(t, model.PollID("poll-1"), forAlice.PollID)
	assert.Equal(t, pollCreator.ID, forAlice.CreatorID)
	assert.True(t, forAlice.Voted)
	assert.Equal(t, 1, forAlice.TotalVoters)

	forBob := poll.Summary(voterBob.ID)
	assert.False(t, forBob.Voted)
	assert.Equal(t, 1, forBob.TotalVoters)
}

func TestPollResponses_JSON(t *testing.T) {
	counts := model.PollResponses{Counts: []int{1, 0, 2}}
	data, err := json.Marshal(counts)
	require.NoError(t, err)
	assert.JSONEq(t, `[1,0,2]`, string(data))

	voters := model.PollResponses{Voters: [][]model.Voter{{voterAlice}, {}}}
	data, err = json.Marshal(voters)
	require.NoError(t, err)
	assert.JSONEq(t, `[[{"id":"p-alice","name":"Alice"}],[]]`, string(data))

	var decoded model.PollResponses
	require.NoError(t, json.Unmarshal([]byte(`[3,1]`), &decoded))
	assert.Equal(t, []int{3, 1}, decoded.Counts)
	assert.Nil(t, decoded.Voters)

	require.NoError(t, json.Unmarshal([]byte(`[[{"id":"p-bob","name":"Bob"}]]`), &decoded))
	assert.Nil(t, decoded.Counts)
	require.Len(t, decoded.Voters, 1)
	assert.Equal(t, voterBob, decoded.Voters[0][0])
}

package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/townsquare-go/internal/model"
	"github.com/mcoot/townsquare-go/internal/worldmap"
)

type nopConn struct{}

func (nopConn) Send(model.Event) {}
func (nopConn) Close()           {}

// Exercises the wired application end to end at the service level: town
// lifecycle, joins, occupancy, and the poll flow.
func TestWiredApplicationFlow(t *testing.T) {
	app := NewTestApp()
	ctx := context.Background()

	townID, password, err := app.Registry.CreateTown(ctx, "Integration Town", true)
	require.NoError(t, err)
	require.NotEmpty(t, password)

	tn, err := app.Registry.GetTown(townID)
	require.NoError(t, err)

	alice, snapshot, err := tn.AddPlayer(ctx, "alice", nopConn{})
	require.NoError(t, err)
	assert.NotEmpty(t, snapshot.ProviderVideoToken)
	assert.Len(t, app.MockVideo.Calls, 1)

	bob, _, err := tn.AddPlayer(ctx, "bob", nopConn{})
	require.NoError(t, err)
	assert.Equal(t, 2, tn.Occupancy())

	// The embedded map's areas are live from the start
	require.NotEmpty(t, snapshot.Interactables)
	first := snapshot.Interactables[0]
	box := findBox(t, first.AreaID())
	tn.HandleMovement(alice.ID, model.PlayerLocation{X: box.X + 1, Y: box.Y + 1})

	found, err := tn.GetPlayerBySessionToken(alice.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, first.AreaID(), found.Location.Interactable)

	pollID, err := tn.CreatePoll(alice.ID, "lunch?", []string{"pizza", "ramen"}, model.PollSettings{Anonymize: true})
	require.NoError(t, err)
	require.NoError(t, tn.VoteInPoll(pollID, model.Voter{ID: bob.ID, Name: "bob"}, []int{1}))

	results, userVotes, err := tn.GetPollResults(bob.ID, pollID)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, results.Responses.Counts)
	assert.Equal(t, []int{1}, userVotes)

	require.NoError(t, app.Registry.DeleteTown(ctx, townID, password))
	_, err = app.Registry.GetTown(townID)
	assert.ErrorIs(t, err, model.ErrTownNotFound)
}

// findBox looks an area up in the embedded default map, which is what
// the test app wires
func findBox(t *testing.T, id model.InteractableID) model.BoundingBox {
	t.Helper()
	for _, def := range worldmap.Default() {
		if def.ID == id {
			return def.Box
		}
	}
	t.Fatalf("area %s not in map", id)
	return model.BoundingBox{}
}

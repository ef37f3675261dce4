package gateway

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/townsquare-go/internal/model"
	"github.com/mcoot/townsquare-go/internal/testutil"
)

// fakeConn builds a registrable connection without a real websocket
func fakeConn(playerID model.PlayerID) *Conn {
	return &Conn{
		playerID: playerID,
		send:     make(chan []byte, sendBufferSize),
		closed:   make(chan struct{}),
		logger:   testutil.NopLogger(),
	}
}

func receive(t *testing.T, conn *Conn) model.Event {
	t.Helper()
	select {
	case data := <-conn.send:
		var event model.Event
		require.NoError(t, json.Unmarshal(data, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return model.Event{}
	}
}

func expectNothing(t *testing.T, conn *Conn) {
	t.Helper()
	select {
	case data := <-conn.send:
		t.Fatalf("unexpected event: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubBroadcastReachesAllConnections(t *testing.T) {
	hub := NewHub("town-1", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	alice := fakeConn("alice")
	bob := fakeConn("bob")
	hub.Register(alice)
	hub.Register(bob)

	hub.Broadcast(model.Event{Name: model.EventTownClosing})

	assert.Equal(t, model.EventTownClosing, receive(t, alice).Name)
	assert.Equal(t, model.EventTownClosing, receive(t, bob).Name)
}

func TestHubBroadcastExceptSkipsSender(t *testing.T) {
	hub := NewHub("town-1", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	alice := fakeConn("alice")
	bob := fakeConn("bob")
	hub.Register(alice)
	hub.Register(bob)

	hub.BroadcastExcept("alice", model.Event{
		Name:    model.EventPlayerMoved,
		Payload: model.Player{ID: "alice"},
	})

	assert.Equal(t, model.EventPlayerMoved, receive(t, bob).Name)
	expectNothing(t, alice)
}

func TestHubUnregisteredConnectionGetsNothing(t *testing.T) {
	hub := NewHub("town-1", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	alice := fakeConn("alice")
	bob := fakeConn("bob")
	hub.Register(alice)
	hub.Register(bob)
	hub.Unregister(bob)

	hub.Broadcast(model.Event{Name: model.EventTownClosing})

	assert.Equal(t, model.EventTownClosing, receive(t, alice).Name)
	expectNothing(t, bob)
}

func TestHubFullBufferDropsNotBlocks(t *testing.T) {
	hub := NewHub("town-1", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	stuck := fakeConn("stuck")
	hub.Register(stuck)

	// Nobody drains stuck's buffer; broadcasts past its capacity must
	// still return promptly
	done := make(chan struct{})
	go func() {
		for i := 0; i < sendBufferSize+10; i++ {
			hub.Broadcast(model.Event{Name: model.EventTownClosing})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("broadcast blocked on a full connection buffer")
	}
}

func TestHubRegisterAfterCloseReturns(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	hub := manager.GetOrCreateHub("town-1")
	manager.RemoveHub("town-1")

	// The hub's loop has exited; registration racing a town deletion
	// must not hang
	done := make(chan struct{})
	go func() {
		hub.Register(fakeConn("late"))
		hub.Unregister(fakeConn("late"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("register blocked on a closed hub")
	}
}

func TestHubManagerReusesHubPerTown(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	first := manager.GetOrCreateHub("town-1")
	second := manager.GetOrCreateHub("town-1")
	other := manager.GetOrCreateHub("town-2")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)

	manager.RemoveHub("town-1")
	manager.RemoveHub("town-2")
}

func TestHubManagerRemoveClosesConnections(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	hub := manager.GetOrCreateHub("town-1")

	alice := fakeConn("alice")
	hub.Register(alice)

	manager.RemoveHub("town-1")

	select {
	case <-alice.closed:
	case <-time.After(time.Second):
		t.Fatal("connection not closed on hub removal")
	}
}

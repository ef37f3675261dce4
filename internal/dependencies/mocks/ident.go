package mocks

import (
	"fmt"

	"github.com/mcoot/townsquare-go/internal/dependencies/ident"
	"github.com/mcoot/townsquare-go/internal/model"
)

// MockIdent is a deterministic implementation of ident.Source for testing.
// Each kind of identifier is drawn from its own queue; when a queue runs
// dry a sequential fallback value is produced so tests that don't care
// about exact ids keep working.
type MockIdent struct {
	TownIDs       []model.TownID
	PlayerIDs     []model.PlayerID
	PollIDs       []model.PollID
	SessionTokens []string
	Passwords     []string

	townIdx    int
	playerIdx  int
	pollIdx    int
	sessionIdx int
	passIdx    int
	fallback   int
}

// Ensure MockIdent implements Source
var _ ident.Source = (*MockIdent)(nil)

// NewMockIdent creates a new MockIdent
func NewMockIdent() *MockIdent {
	return &MockIdent{}
}

func (m *MockIdent) NewTownID() model.TownID {
	if m.townIdx < len(m.TownIDs) {
		id := m.TownIDs[m.townIdx]
		m.townIdx++
		return id
	}
	return model.TownID(m.next("town"))
}

func (m *MockIdent) NewPlayerID() model.PlayerID {
	if m.playerIdx < len(m.PlayerIDs) {
		id := m.PlayerIDs[m.playerIdx]
		m.playerIdx++
		return id
	}
	return model.PlayerID(m.next("player"))
}

func (m *MockIdent) NewPollID() model.PollID {
	if m.pollIdx < len(m.PollIDs) {
		id := m.PollIDs[m.pollIdx]
		m.pollIdx++
		return id
	}
	return model.PollID(m.next("poll"))
}

func (m *MockIdent) SessionToken() string {
	if m.sessionIdx < len(m.SessionTokens) {
		tok := m.SessionTokens[m.sessionIdx]
		m.sessionIdx++
		return tok
	}
	return m.next("session")
}

func (m *MockIdent) Password(length int) string {
	if m.passIdx < len(m.Passwords) {
		pw := m.Passwords[m.passIdx]
		m.passIdx++
		return pw
	}
	return m.next("password")
}

// QueueTownIDs adds town ids to the queue
func (m *MockIdent) QueueTownIDs(ids ...model.TownID) {
	m.TownIDs = append(m.TownIDs, ids...)
}

// QueuePlayerIDs adds player ids to the queue
func (m *MockIdent) QueuePlayerIDs(ids ...model.PlayerID) {
	m.PlayerIDs = append(m.PlayerIDs, ids...)
}

// QueuePollIDs adds poll ids to the queue
func (m *MockIdent) QueuePollIDs(ids ...model.PollID) {
	m.PollIDs = append(m.PollIDs, ids...)
}

// QueueSessionTokens adds session tokens to the queue
func (m *MockIdent) QueueSessionTokens(tokens ...string) {
	m.SessionTokens = append(m.SessionTokens, tokens...)
}

// QueuePasswords adds passwords to the queue
func (m *MockIdent) QueuePasswords(passwords ...string) {
	m.Passwords = append(m.Passwords, passwords...)
}

func (m *MockIdent) next(kind string) string {
	m.fallback++
	return fmt.Sprintf("%s-%d", kind, m.fallback)
}

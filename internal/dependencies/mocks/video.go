package mocks

import (
	"context"
	"fmt"

	"github.com/mcoot/townsquare-go/internal/model"
	"github.com/mcoot/townsquare-go/internal/services/video"
)

// MockTokenProvider is a mock video token provider for testing. It records
// every request and can be primed to fail.
type MockTokenProvider struct {
	// Err, when set, is returned from every call
	Err error

	// Calls records (townID, playerID) pairs in order
	Calls []TokenCall
}

// TokenCall is one recorded token request
type TokenCall struct {
	TownID   model.TownID
	PlayerID model.PlayerID
}

// Ensure MockTokenProvider implements TokenProvider
var _ video.TokenProvider = (*MockTokenProvider)(nil)

// NewMockTokenProvider creates a new MockTokenProvider
func NewMockTokenProvider() *MockTokenProvider {
	return &MockTokenProvider{}
}

// GetTokenForTown returns a deterministic token derived from the ids, or
// the primed error
func (m *MockTokenProvider) GetTokenForTown(_ context.Context, townID model.TownID, playerID model.PlayerID) (string, error) {
	m.Calls = append(m.Calls, TokenCall{TownID: townID, PlayerID: playerID})
	if m.Err != nil {
		return "", m.Err
	}
	return fmt.Sprintf("video-token:%s:%s", townID, playerID), nil
}

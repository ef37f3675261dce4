package factory

import (
	"time"

	"github.com/mcoot/townsquare-go/internal/dependencies/mocks"
	"github.com/mcoot/townsquare-go/internal/storage/memory"
	"github.com/mcoot/townsquare-go/internal/testutil"
	"github.com/mcoot/townsquare-go/internal/worldmap"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIdent *mocks.MockIdent
	MockVideo *mocks.MockTokenProvider
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	posters := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockIdent := mocks.NewMockIdent()
	mockVideo := mocks.NewMockTokenProvider()

	app := newWithDependencies(worldmap.Default(), posters, mockVideo, mockIdent, mockClock, testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIdent: mockIdent,
		MockVideo: mockVideo,
	}
}

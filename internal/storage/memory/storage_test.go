package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/townsquare-go/internal/model"
)

func TestSaveAndGetImage(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.SaveImage(ctx, "town-1", "Gallery", "contents"))

	got, err := s.GetImage(ctx, "town-1", "Gallery")
	require.NoError(t, err)
	assert.Equal(t, "contents", got)
}

func TestGetImageNotFound(t *testing.T) {
	s := New()

	_, err := s.GetImage(context.Background(), "town-1", "Gallery")
	assert.ErrorIs(t, err, model.ErrEmptyPosterImage)
}

func TestDeleteTownScopesToTown(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.SaveImage(ctx, "town-1", "Gallery", "a"))
	require.NoError(t, s.SaveImage(ctx, "town-1", "Atrium", "b"))
	require.NoError(t, s.SaveImage(ctx, "town-2", "Gallery", "c"))

	require.NoError(t, s.DeleteTown(ctx, "town-1"))

	_, err := s.GetImage(ctx, "town-1", "Gallery")
	assert.ErrorIs(t, err, model.ErrEmptyPosterImage)
	_, err = s.GetImage(ctx, "town-1", "Atrium")
	assert.ErrorIs(t, err, model.ErrEmptyPosterImage)

	got, err := s.GetImage(ctx, "town-2", "Gallery")
	require.NoError(t, err)
	assert.Equal(t, "c", got)
}

package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/townsquare-go/internal/model"
)

func TestBoundingBox_Contains(t *testing.T) {
	box := model.BoundingBox{X: 10, Y: 20, Width: 100, Height: 50}

	assert.True(t, box.Contains(50, 40), "interior point")
	assert.True(t, box.Contains(10, 20), "top-left corner")
	assert.True(t, box.Contains(110, 70), "bottom-right corner")
	assert.True(t, box.Contains(10, 45), "left edge")
	assert.True(t, box.Contains(60, 70), "bottom edge")

	assert.False(t, box.Contains(9.9, 40), "left of box")
	assert.False(t, box.Contains(110.1, 40), "right of box")
	assert.False(t, box.Contains(50, 19.9), "above box")
	assert.False(t, box.Contains(50, 70.1), "below box")
}

func TestBoundingBox_Overlaps(t *testing.T) {
	box := model.BoundingBox{X: 0, Y: 0, Width: 100, Height: 100}

	assert.True(t, box.Overlaps(model.BoundingBox{X: 50, Y: 50, Width: 100, Height: 100}))
	assert.True(t, box.Overlaps(model.BoundingBox{X: 25, Y: 25, Width: 50, Height: 50}), "fully enclosed")
	assert.True(t, box.Overlaps(box), "identical boxes")

	// Sharing only an edge or corner is not an overlap
	assert.False(t, box.Overlaps(model.BoundingBox{X: 100, Y: 0, Width: 100, Height: 100}), "shared edge")
	assert.False(t, box.Overlaps(model.BoundingBox{X: 100, Y: 100, Width: 50, Height: 50}), "shared corner")

	assert.False(t, box.Overlaps(model.BoundingBox{X: 200, Y: 200, Width: 10, Height: 10}), "disjoint")
}

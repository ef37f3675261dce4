package model

// BoundingBox is an axis-aligned rectangle in town map coordinates
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether the point lies inside the box.
// Points on an edge count as inside, so a player standing exactly on a
// boundary is still placed in the area.
func (b BoundingBox) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.Width &&
		y >= b.Y && y <= b.Y+b.Height
}

// Overlaps reports whether two boxes share a region of positive area.
// Boxes that merely touch along an edge or corner do not overlap.
func (b BoundingBox) Overlaps(other BoundingBox) bool {
	return b.X < other.X+other.Width && other.X < b.X+b.Width &&
		b.Y < other.Y+other.Height && other.Y < b.Y+b.Height
}

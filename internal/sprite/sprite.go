// Package sprite provides the sprite records drawn by the
// compositor, and the Store that owns them for the lifetime
// of a game.
package sprite

const (
	// Size is the nominal width and height of a sprite tile.
	Size = 8
	// Extent is the number of pixels a sprite covers along each
	// axis. Both ends of the bounding box are inclusive, so a
	// sprite anchored at x covers x through x+Size.
	Extent = Size + 1
)

// Sprite is an 8x8 tile anchored at its top-left corner.
// Coordinates are unsigned and wrap on overflow; they are
// never clamped to the bounds of the canvas.
type Sprite struct {
	X uint8
	Y uint8
}

// CoversRow reports whether the row y falls within the
// vertical extent of the sprite.
func (s Sprite) CoversRow(y int) bool {
	return int(s.Y) <= y && y <= int(s.Y)+Size
}

// CoversColumn reports whether the column x falls within the
// horizontal extent of the sprite.
func (s Sprite) CoversColumn(x int) bool {
	return int(s.X) <= x && x <= int(s.X)+Size
}

// Covers reports whether the pixel (x, y) is inside the
// sprite's bounding box.
func (s Sprite) Covers(x, y int) bool {
	return s.CoversRow(y) && s.CoversColumn(x)
}

// Moved returns the sprite offset by dx, dy. Each axis wraps
// around at 256.
func (s Sprite) Moved(dx, dy int) Sprite {
	return Sprite{
		X: uint8(int(s.X) + dx),
		Y: uint8(int(s.Y) + dy),
	}
}

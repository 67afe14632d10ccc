// Package compositor rebuilds a software-rendered RGBA frame from
// a list of sprites, one scanline at a time.
//
// At the start of each scanline the sprites are filtered down to
// those whose vertical extent includes the line (the active sprite
// list). Every pixel on the line is then tested for horizontal
// containment against the active list only. A pixel inside any
// sprite's bounding box is painted the highlight colour, every other
// pixel takes the background.
package compositor

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/thelolagemann/alien8/internal/sprite"
)

// ErrInvalidDimensions is returned by New when the canvas would have
// no pixels.
var ErrInvalidDimensions = errors.New("compositor: invalid dimensions")

var (
	// DefaultBackground is the colour used for pixels that aren't
	// covered by a sprite.
	DefaultBackground = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	// DefaultHighlight is the colour used to paint sprites.
	DefaultHighlight = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Compositor renders sprites into a fixed size RGBA buffer. The
// buffer is owned by the Compositor and is fully overwritten by
// every call to Render.
type Compositor struct {
	width, height int

	background color.RGBA
	highlight  color.RGBA
	backdrop   *image.RGBA

	pix    []byte
	active []sprite.Sprite
}

// Opt configures a Compositor.
type Opt func(c *Compositor)

// WithBackground sets the colour of pixels not covered by a sprite.
func WithBackground(c color.RGBA) Opt {
	return func(comp *Compositor) {
		comp.background = c
	}
}

// WithHighlight sets the colour sprites are painted with.
func WithHighlight(c color.RGBA) Opt {
	return func(comp *Compositor) {
		comp.highlight = c
	}
}

// WithBackdrop uses img in place of the flat background colour.
// The backdrop is tiled from its top-left corner when it is
// smaller than the canvas. A nil or empty image is ignored.
func WithBackdrop(img *image.RGBA) Opt {
	return func(comp *Compositor) {
		if img == nil || img.Rect.Empty() {
			return
		}
		comp.backdrop = img
	}
}

// New returns a Compositor for a width x height canvas.
func New(width, height int, opts ...Opt) (*Compositor, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	c := &Compositor{
		width:      width,
		height:     height,
		background: DefaultBackground,
		highlight:  DefaultHighlight,
		pix:        make([]byte, width*height*4),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Width returns the width of the canvas in pixels.
func (c *Compositor) Width() int { return c.width }

// Height returns the height of the canvas in pixels.
func (c *Compositor) Height() int { return c.height }

// Stride returns the number of bytes in a single row.
func (c *Compositor) Stride() int { return c.width * 4 }

// Render composites sprites into the owned buffer and returns it.
// The same backing array is returned on every call.
func (c *Compositor) Render(sprites []sprite.Sprite) []byte {
	c.RenderInto(c.pix, sprites)
	return c.pix
}

// RenderInto composites sprites into dst, which must be exactly
// Width*Height*4 bytes long.
func (c *Compositor) RenderInto(dst []byte, sprites []sprite.Sprite) {
	if len(dst) != len(c.pix) {
		panic(fmt.Sprintf("compositor: buffer is %d bytes, want %d", len(dst), len(c.pix)))
	}

	for i := 0; i < c.width*c.height; i++ {
		x, y := i%c.width, i/c.width

		// start of a new scanline
		if x == 0 {
			c.active = c.ActiveSprites(c.active, y, sprites)
		}

		colour := c.backgroundAt(x, y)
		for _, s := range c.active {
			if s.CoversColumn(x) {
				colour = c.highlight
				break
			}
		}

		dst[i*4] = colour.R
		dst[i*4+1] = colour.G
		dst[i*4+2] = colour.B
		dst[i*4+3] = colour.A
	}
}

// ActiveSprites appends to dst[:0] the sprites whose vertical extent
// includes row, preserving their order.
func (c *Compositor) ActiveSprites(dst []sprite.Sprite, row int, sprites []sprite.Sprite) []sprite.Sprite {
	dst = dst[:0]
	for _, s := range sprites {
		if s.CoversRow(row) {
			dst = append(dst, s)
		}
	}

	return dst
}

// Image returns the buffer as an image. The image shares its pixels
// with the Compositor, so it reflects the most recent Render.
func (c *Compositor) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    c.pix,
		Stride: c.Stride(),
		Rect:   image.Rect(0, 0, c.width, c.height),
	}
}

func (c *Compositor) backgroundAt(x, y int) color.RGBA {
	if c.backdrop == nil {
		return c.background
	}

	b := c.backdrop.Rect
	return c.backdrop.RGBAAt(b.Min.X+x%b.Dx(), b.Min.Y+y%b.Dy())
}

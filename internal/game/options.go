package game

import (
	"github.com/thelolagemann/alien8/internal/compositor"
	"github.com/thelolagemann/alien8/internal/sprite"
	"github.com/thelolagemann/alien8/pkg/log"
	"github.com/thelolagemann/alien8/pkg/stats"
)

// Opt is a function that modifies a Game instance.
type Opt func(g *Game)

// WithSprites sets the initial sprite layout. The layout is
// restored when the game is reset.
func WithSprites(sprites ...sprite.Sprite) Opt {
	return func(g *Game) {
		g.initial = append([]sprite.Sprite(nil), sprites...)
	}
}

// WithPlayer sets the index of the sprite moved by input.
func WithPlayer(index int) Opt {
	return func(g *Game) {
		g.player = index
	}
}

// WithSize sets the dimensions of the canvas.
func WithSize(width, height int) Opt {
	return func(g *Game) {
		g.width, g.height = width, height
	}
}

// WithCompositorOpts passes options through to the compositor.
func WithCompositorOpts(opts ...compositor.Opt) Opt {
	return func(g *Game) {
		g.compositorOpts = append(g.compositorOpts, opts...)
	}
}

// FrameRate sets the number of frames produced per second at a
// speed of 1.
func FrameRate(hz float64) Opt {
	return func(g *Game) {
		g.frameRate = hz
	}
}

// Speed sets the speed multiplier of the game loop.
func Speed(speed float64) Opt {
	return func(g *Game) {
		g.speed = speed
	}
}

// WithTitle sets the title reported to the display driver.
func WithTitle(title string) Opt {
	return func(g *Game) {
		g.title = title
	}
}

// WithScreenshots sets where, and in which format, screenshots
// are written.
func WithScreenshots(dir, format string) Opt {
	return func(g *Game) {
		g.screenshotDir, g.screenshotFormat = dir, format
	}
}

// WithLogger sets the logger used by the game loop.
func WithLogger(log log.Logger) Opt {
	return func(g *Game) {
		g.Logger = log
	}
}

// WithFrameTimes records the time taken to produce each frame.
func WithFrameTimes(r *stats.Recorder) Opt {
	return func(g *Game) {
		g.frameTimes = r
	}
}

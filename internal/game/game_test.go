package game

import (
	"bytes"
	"image/color"
	"math"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thelolagemann/alien8/internal/compositor"
	"github.com/thelolagemann/alien8/internal/input"
	"github.com/thelolagemann/alien8/internal/sprite"
	"github.com/thelolagemann/alien8/pkg/control"
	"github.com/thelolagemann/alien8/pkg/display/event"
	"github.com/thelolagemann/alien8/pkg/log"
	"github.com/thelolagemann/alien8/pkg/stats"
)

func player(t *testing.T, g *Game) sprite.Sprite {
	t.Helper()
	s, err := g.Sprites().At(g.player)
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		g, err := New()
		require.NoError(t, err)
		w, h := g.Size()
		assert.Equal(t, DefaultWidth, w)
		assert.Equal(t, DefaultHeight, h)
		assert.Equal(t, "Alien 8", g.Title())
		assert.Equal(t, 1.0, g.Speed())
		assert.Equal(t, control.Stopped, g.Status())
		assert.Equal(t, []sprite.Sprite{{}}, g.Sprites().Sprites())
	})
	t.Run("invalid player", func(t *testing.T) {
		_, err := New(WithSprites(sprite.Sprite{}), WithPlayer(1))
		assert.ErrorIs(t, err, ErrInvalidPlayer)
	})
	t.Run("invalid size", func(t *testing.T) {
		_, err := New(WithSize(0, 10))
		assert.ErrorIs(t, err, compositor.ErrInvalidDimensions)
	})
	t.Run("speed clamped", func(t *testing.T) {
		g, err := New(Speed(100))
		require.NoError(t, err)
		assert.Equal(t, float64(maxSpeed), g.Speed())
	})
}

func TestUpdate(t *testing.T) {
	t.Run("down moves one pixel", func(t *testing.T) {
		g, err := New(WithSprites(sprite.Sprite{X: 10, Y: 10}))
		require.NoError(t, err)
		g.Update(input.SnapshotOf(input.Down))
		assert.Equal(t, sprite.Sprite{X: 10, Y: 11}, player(t, g))
	})
	t.Run("wraps", func(t *testing.T) {
		g, err := New(WithSprites(sprite.Sprite{X: 0, Y: 255}))
		require.NoError(t, err)
		g.Update(input.SnapshotOf(input.Down, input.Left))
		assert.Equal(t, sprite.Sprite{X: 255, Y: 0}, player(t, g))
	})
	t.Run("only the player moves", func(t *testing.T) {
		g, err := New(WithSprites(sprite.Sprite{X: 1, Y: 1}, sprite.Sprite{X: 50, Y: 50}), WithPlayer(1))
		require.NoError(t, err)
		g.Update(input.SnapshotOf(input.Right))
		assert.Equal(t, []sprite.Sprite{{X: 1, Y: 1}, {X: 51, Y: 50}}, g.Sprites().Sprites())
	})
	t.Run("player removed", func(t *testing.T) {
		g, err := New()
		require.NoError(t, err)
		require.NoError(t, g.Sprites().Remove(0))
		assert.NotPanics(t, func() { g.Update(input.SnapshotOf(input.Up)) })
	})
}

func TestFrame(t *testing.T) {
	g, err := New(WithSize(16, 16), WithSprites(sprite.Sprite{X: 4, Y: 4}))
	require.NoError(t, err)

	g.Press(input.Down)
	frame := g.Frame()
	require.Len(t, frame, 16*16*4)
	assert.Equal(t, sprite.Sprite{X: 4, Y: 5}, player(t, g))

	img := g.Image()
	assert.Equal(t, color.RGBA{R: 0, G: 0, B: 255, A: 255}, img.RGBAAt(4, 4))
	assert.Equal(t, compositor.DefaultHighlight, img.RGBAAt(4, 5))
	assert.Equal(t, compositor.DefaultHighlight, img.RGBAAt(12, 13))

	g.Release(input.Down)
	g.Frame()
	assert.Equal(t, sprite.Sprite{X: 4, Y: 5}, player(t, g))
}

func TestImage(t *testing.T) {
	g, err := New(WithSize(16, 16), WithSprites(sprite.Sprite{X: 4, Y: 4}))
	require.NoError(t, err)
	g.Press(input.Down)

	// composited without a tick
	img := g.Image()
	assert.Equal(t, compositor.DefaultBackground, img.RGBAAt(3, 3))
	assert.Equal(t, compositor.DefaultHighlight, img.RGBAAt(4, 4))
	assert.Equal(t, sprite.Sprite{X: 4, Y: 4}, player(t, g))

	g.Frame()
	img = g.Image()
	assert.Equal(t, compositor.DefaultBackground, img.RGBAAt(4, 4))
	assert.Equal(t, compositor.DefaultHighlight, img.RGBAAt(4, 5))
}

func TestSendCommand(t *testing.T) {
	g, err := New(WithSprites(sprite.Sprite{X: 3, Y: 3}))
	require.NoError(t, err)

	t.Run("reset", func(t *testing.T) {
		g.Press(input.Right)
		g.Frame()
		require.Equal(t, sprite.Sprite{X: 4, Y: 3}, player(t, g))

		resp := g.SendCommand(control.CommandPacket{Command: control.CommandReset})
		require.NoError(t, resp.Error)
		assert.Equal(t, sprite.Sprite{X: 3, Y: 3}, player(t, g))

		// held input is released as well
		g.Frame()
		assert.Equal(t, sprite.Sprite{X: 3, Y: 3}, player(t, g))
	})
	t.Run("pause", func(t *testing.T) {
		g.SendCommand(control.CommandPacket{Command: control.CommandResume})
		assert.True(t, g.Status().IsRunning())
		g.SendCommand(control.CommandPacket{Command: control.CommandTogglePause})
		assert.True(t, g.Status().IsPaused())
		g.SendCommand(control.CommandPacket{Command: control.CommandTogglePause})
		assert.True(t, g.Status().IsRunning())
		g.SendCommand(control.CommandPacket{Command: control.CommandPause})
		assert.True(t, g.Status().IsPaused())
	})
	t.Run("speed", func(t *testing.T) {
		resp := g.SendCommand(control.SetSpeed(2))
		require.NoError(t, resp.Error)
		assert.Equal(t, 2.0, g.Speed())
		assert.Equal(t, time.Second/120, g.frameInterval())

		resp = g.SendCommand(control.SetSpeed(-1))
		assert.Error(t, resp.Error)
		assert.Equal(t, 2.0, g.Speed())

		resp = g.SendCommand(control.CommandPacket{Command: control.CommandSetSpeed})
		assert.Error(t, resp.Error)

		for _, speed := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 0} {
			resp = g.SendCommand(control.SetSpeed(speed))
			assert.Error(t, resp.Error, "speed %v", speed)
		}
		assert.Equal(t, 2.0, g.Speed())
		assert.Equal(t, time.Second/120, g.frameInterval())
	})
	t.Run("unknown", func(t *testing.T) {
		resp := g.SendCommand(control.CommandPacket{Command: control.Command(99)})
		assert.ErrorIs(t, resp.Error, control.ErrUnknownCommand)
	})
	t.Run("close", func(t *testing.T) {
		g.SendCommand(control.CommandPacket{Command: control.CommandClose})
		assert.True(t, g.Status().IsStopped())
	})
}

func TestScreenshot(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	g, err := New(WithSize(8, 8), WithScreenshots(dir, "png"), WithLogger(log.NewWithWriter(&buf)))
	require.NoError(t, err)

	resp := g.SendCommand(control.CommandPacket{Command: control.CommandScreenshot})
	require.NoError(t, resp.Error)
	require.NotEmpty(t, resp.Data)
	assert.Contains(t, buf.String(), "saved screenshot to "+string(resp.Data))

	info, err := os.Stat(string(resp.Data))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestStart(t *testing.T) {
	recorder := stats.NewRecorder(16)
	g, err := New(
		WithSize(16, 16),
		WithSprites(sprite.Sprite{X: 0, Y: 0}),
		FrameRate(200),
		WithFrameTimes(recorder),
		WithScreenshots(t.TempDir(), "bmp"),
	)
	require.NoError(t, err)

	fb := make(chan []byte, 1)
	events := make(chan event.Event, 8)
	pressed, released := make(chan input.Intent, 4), make(chan input.Intent, 4)

	done := make(chan struct{})
	go func() {
		g.Start(fb, events, pressed, released)
		close(done)
	}()

	select {
	case frame := <-fb:
		assert.Len(t, frame, 16*16*4)
	case <-time.After(2 * time.Second):
		t.Fatal("no frame received")
	}
	assert.True(t, g.Status().IsRunning())

	shot := g.SendCommand(control.CommandPacket{Command: control.CommandScreenshot})
	require.NoError(t, shot.Error)

	// the loop keeps running after an invalid speed
	resp := g.SendCommand(control.SetSpeed(math.NaN()))
	assert.Error(t, resp.Error)
	assert.Equal(t, 1.0, g.Speed())

	// once the player has moved down, the top left pixel is background
	pressed <- input.Down
	bg := compositor.DefaultBackground
	deadline := time.After(2 * time.Second)
	for moved := false; !moved; {
		select {
		case frame := <-fb:
			moved = frame[0] == bg.R && frame[1] == bg.G && frame[2] == bg.B && frame[3] == bg.A
		case <-deadline:
			t.Fatal("player did not move")
		}
	}
	released <- input.Down

	assert.Eventually(t, func() bool {
		resp := g.SendCommand(control.CommandPacket{Command: control.CommandPause})
		return resp.Error == nil && g.Status().IsPaused()
	}, time.Second, 10*time.Millisecond)

	g.SendCommand(control.CommandPacket{Command: control.CommandClose})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("game loop did not stop")
	}

	// the driver is told to quit
	var quit bool
	var saved string
	for len(events) > 0 {
		switch e := <-events; e.Type {
		case event.Quit:
			quit = true
		case event.Screenshot:
			saved = e.Data.(string)
		}
	}
	assert.True(t, quit)
	assert.Equal(t, string(shot.Data), saved)
	assert.True(t, g.Status().IsStopped())
	assert.NotZero(t, recorder.Total())
	assert.Greater(t, player(t, g).Y, uint8(0))

	// commands are applied directly once the loop has exited
	resp = g.SendCommand(control.CommandPacket{Command: control.CommandReset})
	assert.NoError(t, resp.Error)
	assert.Equal(t, []sprite.Sprite{{}}, g.Sprites().Sprites())
}

func TestRun(t *testing.T) {
	g, err := New(WithSize(8, 8), WithSprites(sprite.Sprite{X: 2, Y: 2}), FrameRate(200))
	require.NoError(t, err)

	fb := make(chan []byte, 1)
	g.Run(fb, nil, nil, nil)

	// running as soon as Run returns, before any frame
	assert.True(t, g.Status().IsRunning())
	assert.Panics(t, func() { g.Start(fb, nil, nil, nil) })

	resp := g.SendCommand(control.CommandPacket{Command: control.CommandReset})
	require.NoError(t, resp.Error)

	g.SendCommand(control.CommandPacket{Command: control.CommandClose})
	select {
	case <-g.done:
	case <-time.After(2 * time.Second):
		t.Fatal("game loop did not stop")
	}
	assert.True(t, g.Status().IsStopped())
}

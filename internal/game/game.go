// Package game holds the simulation state of a single run: the
// sprites, the input state and the compositor that draws them.
// Each tick samples the input, moves the player sprite and
// composites a new frame, in that order.
package game

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sync"
	"time"

	"github.com/thelolagemann/alien8/internal/compositor"
	"github.com/thelolagemann/alien8/internal/input"
	"github.com/thelolagemann/alien8/internal/sprite"
	"github.com/thelolagemann/alien8/pkg/control"
	"github.com/thelolagemann/alien8/pkg/display/event"
	"github.com/thelolagemann/alien8/pkg/log"
	"github.com/thelolagemann/alien8/pkg/stats"
	"github.com/thelolagemann/alien8/pkg/utils"
)

const (
	// DefaultWidth is the default width of the canvas.
	DefaultWidth = 320
	// DefaultHeight is the default height of the canvas.
	DefaultHeight = 180
	// DefaultFrameRate is the default number of frames per second.
	DefaultFrameRate = 60

	minSpeed = 0.1
	maxSpeed = 16
)

// ErrInvalidPlayer is returned by New when the player index does
// not refer to one of the sprites.
var ErrInvalidPlayer = errors.New("game: invalid player")

// Game is the simulation state. All of its state is owned by the
// goroutine running Start; other goroutines interact with it
// through SendCommand and the input channels.
type Game struct {
	sprites    *sprite.Store
	initial    []sprite.Sprite
	player     int
	input      *input.State
	compositor *compositor.Compositor
	rendered   bool

	width, height  int
	compositorOpts []compositor.Opt
	frameRate      float64
	title          string

	screenshotDir    string
	screenshotFormat string

	log.Logger
	frameTimes *stats.Recorder

	commands chan commandRequest
	done     chan struct{}
	started  bool

	mu     sync.Mutex
	status control.Status
	speed  float64
}

type commandRequest struct {
	packet control.CommandPacket
	resp   chan control.ResponsePacket
}

// New returns a new Game.
func New(opts ...Opt) (*Game, error) {
	g := &Game{
		initial:          []sprite.Sprite{{}},
		width:            DefaultWidth,
		height:           DefaultHeight,
		frameRate:        DefaultFrameRate,
		speed:            1,
		title:            "Alien 8",
		screenshotDir:    "screenshots",
		screenshotFormat: "png",
		Logger:           log.NewNullLogger(),
		input:            input.New(),
		status:           control.Stopped,
		commands:         make(chan commandRequest),
		done:             make(chan struct{}),
	}

	for _, opt := range opts {
		opt(g)
	}

	if len(g.initial) > 0 && (g.player < 0 || g.player >= len(g.initial)) {
		return nil, fmt.Errorf("%w: %d (%d sprites)", ErrInvalidPlayer, g.player, len(g.initial))
	}
	if g.frameRate <= 0 {
		g.frameRate = DefaultFrameRate
	}
	g.speed = utils.Clamp(minSpeed, g.speed, maxSpeed)

	var err error
	if g.compositor, err = compositor.New(g.width, g.height, g.compositorOpts...); err != nil {
		return nil, err
	}
	g.sprites = sprite.NewStore(g.initial...)

	return g, nil
}

// Update advances the simulation by one tick, moving the player
// sprite one pixel for each held direction. Coordinates wrap at
// the edges of the 0-255 range.
func (g *Game) Update(s input.Snapshot) {
	dx, dy := s.Delta()
	if dx == 0 && dy == 0 {
		return
	}

	if err := g.sprites.Move(g.player, dx, dy); err != nil {
		// the player sprite has been removed
		g.Debugf("unable to move player: %s", err)
	}
}

// Frame runs a single tick: the input state is sampled, the
// simulation updated, and a new frame composited. The returned
// buffer is reused by the next call.
func (g *Game) Frame() []byte {
	g.Update(g.input.Snapshot())
	g.rendered = true
	return g.compositor.Render(g.sprites.Sprites())
}

// Press marks an intent as held.
func (g *Game) Press(i input.Intent) {
	g.input.Press(i)
}

// Release marks an intent as released.
func (g *Game) Release(i input.Intent) {
	g.input.Release(i)
}

// Start runs the game loop, producing a frame every 1/(fps*speed)
// seconds until CommandClose is received. Each frame is copied
// before being sent on fb, so that the driver may hold on to it.
// Start must only be called once, and blocks until the loop exits.
func (g *Game) Start(fb chan<- []byte, events chan<- event.Event, pressed, released <-chan input.Intent) {
	g.begin()
	g.loop(fb, events, pressed, released)
}

// Run is like Start, but runs the loop on a new goroutine. The game
// is marked as running before Run returns, so any SendCommand made
// afterwards is handled by the loop.
func (g *Game) Run(fb chan<- []byte, events chan<- event.Event, pressed, released <-chan input.Intent) {
	g.begin()
	go g.loop(fb, events, pressed, released)
}

func (g *Game) begin() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.started {
		panic("game: Start called twice")
	}
	g.started = true
	g.status = control.Running
}

func (g *Game) loop(fb chan<- []byte, events chan<- event.Event, pressed, released <-chan input.Intent) {
	defer close(g.done)

	g.Infof("starting %s at %dx%d, %.0f fps", g.title, g.width, g.height, g.frameRate*g.Speed())

	ticker := time.NewTicker(g.frameInterval())
	defer ticker.Stop()
	secondTicker := time.NewTicker(time.Second)
	defer secondTicker.Stop()

	frames := 0
	for {
		select {
		case req := <-g.commands:
			before := g.Speed()
			resp := g.apply(req.packet)
			req.resp <- resp
			if resp.Command == control.CommandScreenshot && resp.Error == nil {
				sendEvent(events, event.Event{Type: event.Screenshot, Data: string(resp.Data)})
			}

			if g.Status().IsStopped() {
				g.Infof("stopping %s", g.title)
				if events != nil {
					select {
					case events <- event.Event{Type: event.Quit}:
					case <-time.After(time.Second):
					}
				}
				return
			}
			if g.Speed() != before {
				ticker.Reset(g.frameInterval())
			}
		case i := <-pressed:
			g.input.Press(i)
		case i := <-released:
			g.input.Release(i)
		case <-ticker.C:
			if g.Status().IsPaused() {
				continue
			}

			// apply every edge that arrived before this tick
			drainEdges(g.input, pressed, released)

			start := time.Now()
			frame := g.Frame()
			if g.frameTimes != nil {
				g.frameTimes.Add(time.Since(start))
			}
			frames++

			out := make([]byte, len(frame))
			copy(out, frame)
			select {
			case fb <- out:
			default:
				g.Debugf("display is behind, dropping frame")
			}
		case <-secondTicker.C:
			sendEvent(events, event.Event{Type: event.Title, Data: fmt.Sprintf("%s | FPS: %d", g.title, frames)})
			if g.frameTimes != nil {
				sendEvent(events, event.Event{Type: event.FrameTime, Data: g.frameTimes.Times()})
			}
			frames = 0
		}
	}
}

func drainEdges(s *input.State, pressed, released <-chan input.Intent) {
	for {
		select {
		case i := <-pressed:
			s.Press(i)
		case i := <-released:
			s.Release(i)
		default:
			return
		}
	}
}

func sendEvent(events chan<- event.Event, e event.Event) {
	select {
	case events <- e:
	default:
	}
}

// SendCommand sends a command packet to the game. When the game
// loop is running the command is applied on the loop's goroutine
// between ticks, otherwise it is applied immediately. Drivers should
// use Run rather than go Start, so that the loop is marked as running
// before their first command.
func (g *Game) SendCommand(command control.CommandPacket) control.ResponsePacket {
	g.mu.Lock()
	started := g.started
	g.mu.Unlock()

	if started {
		req := commandRequest{packet: command, resp: make(chan control.ResponsePacket, 1)}
		select {
		case g.commands <- req:
			return <-req.resp
		case <-g.done:
			// the loop has exited
		}
	}

	return g.apply(command)
}

func (g *Game) apply(command control.CommandPacket) control.ResponsePacket {
	resp := control.ResponsePacket{Command: command.Command}

	switch command.Command {
	case control.CommandPause:
		g.setStatus(control.Paused)
	case control.CommandResume:
		g.setStatus(control.Running)
	case control.CommandTogglePause:
		if g.Status().IsPaused() {
			g.setStatus(control.Running)
		} else if g.Status().IsRunning() {
			g.setStatus(control.Paused)
		}
	case control.CommandClose:
		g.setStatus(control.Stopped)
	case control.CommandReset:
		g.sprites.Reset(g.initial...)
		g.input.Clear()
	case control.CommandSetSpeed:
		speed, ok := command.Speed()
		if !ok || math.IsNaN(speed) || math.IsInf(speed, 0) || speed <= 0 {
			resp.Error = fmt.Errorf("invalid speed packet")
			break
		}
		g.mu.Lock()
		g.speed = utils.Clamp(minSpeed, speed, maxSpeed)
		g.mu.Unlock()
	case control.CommandScreenshot:
		path, err := utils.WriteScreenshot(g.screenshotDir, g.Image(), g.screenshotFormat)
		if err != nil {
			resp.Error = err
			break
		}
		g.Infof("saved screenshot to %s", path)
		resp.Data = []byte(path)
	default:
		resp.Error = fmt.Errorf("%w: %d", control.ErrUnknownCommand, command.Command)
	}

	return resp
}

func (g *Game) setStatus(s control.Status) {
	g.mu.Lock()
	g.status = s
	g.mu.Unlock()
}

// Status returns the status of the game loop.
func (g *Game) Status() control.Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// Speed returns the speed multiplier of the game loop.
func (g *Game) Speed() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.speed
}

// Size returns the dimensions of each frame.
func (g *Game) Size() (width, height int) {
	return g.width, g.height
}

// Title returns the title of the game.
func (g *Game) Title() string {
	return g.title
}

// Sprites returns the sprite store. It must only be used from the
// goroutine running the game loop, or before the loop is started.
func (g *Game) Sprites() *sprite.Store {
	return g.sprites
}

// Image returns the most recent frame. If no frame has been produced
// yet, the sprites are composited as they stand without advancing
// the simulation. Like Sprites, it is only safe to use from the game
// loop's goroutine.
func (g *Game) Image() *image.RGBA {
	if !g.rendered {
		g.compositor.Render(g.sprites.Sprites())
		g.rendered = true
	}
	return g.compositor.Image()
}

func (g *Game) frameInterval() time.Duration {
	return time.Duration(float64(time.Second) / (g.frameRate * g.Speed()))
}

package display

import (
	"errors"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thelolagemann/alien8/internal/input"
	"github.com/thelolagemann/alien8/pkg/control"
	"github.com/thelolagemann/alien8/pkg/display/event"
)

type fakeDriver struct {
	scale float64
	addr  string
	vsync bool
	n     int
}

func (f *fakeDriver) Initialize(Game) {}
func (f *fakeDriver) Start(<-chan []byte, <-chan event.Event, chan<- input.Intent, chan<- input.Intent) error {
	return nil
}
func (f *fakeDriver) Stop() error { return nil }

func withDrivers(t *testing.T) (*fakeDriver, *fakeDriver) {
	t.Helper()
	saved := InstalledDrivers
	InstalledDrivers = nil
	t.Cleanup(func() { InstalledDrivers = saved })

	a, b := &fakeDriver{}, &fakeDriver{}
	Install("a", a, []DriverOption{
		{Name: "scale", Default: 4.0, Value: &a.scale, Type: "float"},
		{Name: "vsync", Default: true, Value: &a.vsync, Type: "bool"},
	})
	Install("b", b, []DriverOption{
		{Name: "scale", Default: 4.0, Value: &b.scale, Type: "float"},
		{Name: "addr", Default: ":8090", Value: &b.addr, Type: "string"},
		{Name: "n", Default: 16, Value: &b.n, Type: "int"},
	})
	return a, b
}

func TestGetDriver(t *testing.T) {
	a, b := withDrivers(t)

	assert.Same(t, a, GetDriver("auto"))
	assert.Same(t, b, GetDriver("b"))
	assert.Nil(t, GetDriver("missing"))

	InstalledDrivers = nil
	assert.Nil(t, GetDriver("auto"))
}

func TestRegisterFlags(t *testing.T) {
	a, b := withDrivers(t)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterFlags(fs)

	// defaults are applied on registration
	assert.Equal(t, 4.0, a.scale)
	assert.True(t, a.vsync)
	assert.Equal(t, ":8090", b.addr)

	for _, name := range []string{"scale", "a-vsync", "b-addr", "b-n"} {
		assert.NotNil(t, fs.Lookup(name), name)
	}
	assert.Nil(t, fs.Lookup("a-scale"))

	require.NoError(t, fs.Parse([]string{"-scale", "2", "-a-vsync=false", "-b-addr", ":9000", "-b-n", "3"}))
	assert.Equal(t, 2.0, a.scale)
	assert.Equal(t, 2.0, b.scale)
	assert.False(t, a.vsync)
	assert.Equal(t, ":9000", b.addr)
	assert.Equal(t, 3, b.n)

	assert.Error(t, fs.Parse([]string{"-b-n", "lots"}))
}

type fakeGame struct {
	commands []control.Command
	err      error
}

func (f *fakeGame) SendCommand(c control.CommandPacket) control.ResponsePacket {
	f.commands = append(f.commands, c.Command)
	resp := control.ResponsePacket{Command: c.Command, Error: f.err}
	if c.Command == control.CommandScreenshot && f.err == nil {
		resp.Data = []byte("shot.png")
	}
	return resp
}
func (f *fakeGame) Speed() float64            { return 1 }
func (f *fakeGame) Status() control.Status    { return control.Running }
func (f *fakeGame) Size() (width, height int) { return 320, 180 }
func (f *fakeGame) Title() string             { return "test" }

func TestKeyHandler(t *testing.T) {
	game := &fakeGame{}
	pressed, released := make(chan input.Intent, 1), make(chan input.Intent, 1)
	k := NewKeyHandler(game, pressed, released)

	t.Run("movement", func(t *testing.T) {
		tests := map[Key]input.Intent{
			KeyLeft: input.Left, KeyA: input.Left,
			KeyRight: input.Right, KeyD: input.Right,
			KeyUp: input.Up, KeyW: input.Up,
			KeyDown: input.Down, KeyS: input.Down,
		}
		for key, want := range tests {
			assert.Equal(t, ActionNone, k.Press(key))
			assert.Equal(t, want, <-pressed)
			k.Release(key)
			assert.Equal(t, want, <-released)
		}
	})
	t.Run("never blocks", func(t *testing.T) {
		k.Press(KeyDown)
		k.Press(KeyDown) // channel full, dropped
		assert.Len(t, pressed, 1)
		<-pressed
	})
	t.Run("actions", func(t *testing.T) {
		game.commands = nil
		assert.Equal(t, ActionTogglePause, k.Press(KeyP))
		assert.Equal(t, ActionReset, k.Press(KeyR))
		assert.Equal(t, ActionClose, k.Press(KeyEscape))
		assert.Equal(t, ActionNone, k.Press(KeyUnknown))
		assert.Equal(t, []control.Command{control.CommandTogglePause, control.CommandReset, control.CommandClose}, game.commands)
	})
	t.Run("screenshot", func(t *testing.T) {
		var path string
		var err error
		k.OnScreenshot = func(p string, e error) { path, err = p, e }

		assert.Equal(t, ActionScreenshot, k.Press(KeyF12))
		assert.Equal(t, "shot.png", path)
		assert.NoError(t, err)

		game.err = errors.New("disk full")
		k.Press(KeyF12)
		assert.EqualError(t, err, "disk full")
	})
}

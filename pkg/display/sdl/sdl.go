//go:build !test

// Package sdl provides a display driver built on SDL2. Frames are
// streamed into an ABGR8888 texture, which matches the byte order
// of the RGBA frames produced by the compositor.
package sdl

import (
	"fmt"
	"runtime"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/thelolagemann/alien8/internal/input"
	"github.com/thelolagemann/alien8/pkg/display"
	"github.com/thelolagemann/alien8/pkg/display/event"
	"github.com/veandco/go-sdl2/sdl"
)

func init() {
	// SDL must be serviced from the main thread
	runtime.LockOSThread()

	driver := &sdlDriver{}
	display.Install("sdl", driver, []display.DriverOption{
		{
			Name:        "scale",
			Default:     4.0,
			Value:       &driver.scale,
			Type:        "float",
			Description: "Scale the window by this factor",
		},
		{
			Name:        "vsync",
			Default:     true,
			Value:       &driver.vsync,
			Type:        "bool",
			Description: "Synchronise presentation with the display refresh rate",
		},
	})
}

var keys = map[sdl.Keycode]display.Key{
	sdl.K_LEFT:   display.KeyLeft,
	sdl.K_RIGHT:  display.KeyRight,
	sdl.K_UP:     display.KeyUp,
	sdl.K_DOWN:   display.KeyDown,
	sdl.K_w:      display.KeyW,
	sdl.K_a:      display.KeyA,
	sdl.K_s:      display.KeyS,
	sdl.K_d:      display.KeyD,
	sdl.K_ESCAPE: display.KeyEscape,
	sdl.K_p:      display.KeyP,
	sdl.K_PAUSE:  display.KeyP,
	sdl.K_r:      display.KeyR,
	sdl.K_F12:    display.KeyF12,
}

type sdlDriver struct {
	scale float64
	vsync bool

	game display.Game

	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
}

func (s *sdlDriver) Initialize(game display.Game) {
	s.game = game
}

// Start starts the display driver.
func (s *sdlDriver) Start(frames <-chan []byte, evts <-chan event.Event, pressed, released chan<- input.Intent) error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("sdl: %w", err)
	}

	width, height := s.game.Size()

	var err error
	s.window, err = sdl.CreateWindow(s.game.Title(),
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(float64(width)*s.scale), int32(float64(height)*s.scale),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return fmt.Errorf("sdl: %w", err)
	}

	flags := uint32(sdl.RENDERER_ACCELERATED)
	if s.vsync {
		flags |= sdl.RENDERER_PRESENTVSYNC
	}
	s.renderer, err = sdl.CreateRenderer(s.window, -1, flags)
	if err != nil {
		return fmt.Errorf("sdl: %w", err)
	}

	// letterbox the canvas when the window is resized
	if err := s.renderer.SetLogicalSize(int32(width), int32(height)); err != nil {
		return fmt.Errorf("sdl: %w", err)
	}

	s.texture, err = s.renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888), int(sdl.TEXTUREACCESS_STREAMING), int32(width), int32(height))
	if err != nil {
		return fmt.Errorf("sdl: %w", err)
	}

	keyHandler := display.NewKeyHandler(s.game, pressed, released)

	pollTicker := time.NewTicker(time.Millisecond * 100) // to handle when paused
	defer pollTicker.Stop()
	for {
		select {
		case f := <-frames:
			if s.poll(keyHandler) {
				return nil
			}
			if err := s.present(f, width*4); err != nil {
				return err
			}
		case e := <-evts:
			switch e.Type {
			case event.Title:
				s.window.SetTitle(e.Data.(string))
			case event.Screenshot:
				s.window.SetTitle(fmt.Sprintf("%s | saved %s", s.game.Title(), e.Data.(string)))
			case event.Quit:
				return nil
			}
		case <-pollTicker.C:
			if s.poll(keyHandler) {
				return nil
			}
		}
	}
}

// poll services the SDL event queue, and reports whether the
// window has been closed.
func (s *sdlDriver) poll(keyHandler *display.KeyHandler) bool {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch ev := ev.(type) {
		case *sdl.QuitEvent:
			s.game.SendCommand(display.Close)
			return true
		case *sdl.KeyboardEvent:
			if ev.Repeat != 0 {
				continue
			}
			k, ok := keys[ev.Keysym.Sym]
			if !ok {
				continue
			}

			switch ev.Type {
			case sdl.KEYDOWN:
				if keyHandler.Press(k) == display.ActionClose {
					return true
				}
			case sdl.KEYUP:
				keyHandler.Release(k)
			}
		}
	}

	return false
}

func (s *sdlDriver) present(frame []byte, stride int) error {
	pixels, pitch, err := s.texture.Lock(nil)
	if err != nil {
		return err
	}
	for row := 0; row*stride < len(frame); row++ {
		copy(pixels[row*pitch:row*pitch+stride], frame[row*stride:(row+1)*stride])
	}
	s.texture.Unlock()

	if err := s.renderer.Clear(); err != nil {
		return err
	}
	if err := s.renderer.Copy(s.texture, nil, nil); err != nil {
		return err
	}
	s.renderer.Present()

	return nil
}

// Stop stops the display driver.
func (s *sdlDriver) Stop() error {
	var result *multierror.Error
	if s.texture != nil {
		result = multierror.Append(result, s.texture.Destroy())
	}
	if s.renderer != nil {
		result = multierror.Append(result, s.renderer.Destroy())
	}
	if s.window != nil {
		result = multierror.Append(result, s.window.Destroy())
	}
	sdl.Quit()

	return result.ErrorOrNil()
}

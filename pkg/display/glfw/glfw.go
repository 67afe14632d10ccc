//go:build !test

package glfw

import (
	"fmt"
	"runtime"
	"time"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/thelolagemann/alien8/internal/input"
	"github.com/thelolagemann/alien8/pkg/display"
	"github.com/thelolagemann/alien8/pkg/display/event"
)

func init() {
	// GLFW: this is needed to arrange for main to run on main thread
	runtime.LockOSThread()

	// register display driver
	driver := &glfwDriver{}
	display.Install("glfw", driver, []display.DriverOption{
		{
			Name:        "fullscreen",
			Default:     false,
			Value:       &driver.fullscreen,
			Type:        "bool",
			Description: "Run in fullscreen mode",
		},
		{
			Name:        "scale",
			Default:     4.0,
			Value:       &driver.scale,
			Type:        "float",
			Description: "Scale the window by this factor",
		},
		{
			Name:        "maintain-aspect-ratio",
			Default:     true,
			Value:       &driver.maintainAspectRatio,
			Type:        "bool",
			Description: "Force the window to maintain the aspect ratio of the canvas",
		},
	})
}

var keys = map[glfw.Key]display.Key{
	glfw.KeyLeft:   display.KeyLeft,
	glfw.KeyRight:  display.KeyRight,
	glfw.KeyUp:     display.KeyUp,
	glfw.KeyDown:   display.KeyDown,
	glfw.KeyW:      display.KeyW,
	glfw.KeyA:      display.KeyA,
	glfw.KeyS:      display.KeyS,
	glfw.KeyD:      display.KeyD,
	glfw.KeyEscape: display.KeyEscape,
	glfw.KeyP:      display.KeyP,
	glfw.KeyPause:  display.KeyP,
	glfw.KeyR:      display.KeyR,
	glfw.KeyF12:    display.KeyF12,
}

// glfwDriver implements a barebones display driver using GLFW
// and the OpenGL API. Frames are uploaded to a texture attached
// to a read framebuffer, then blitted to the window.
type glfwDriver struct {
	fullscreen          bool
	scale               float64
	maintainAspectRatio bool

	game display.Game

	windowSettings struct {
		width      int
		height     int
		xPos, yPos int
	}
}

func (g *glfwDriver) Initialize(game display.Game) {
	g.game = game
}

// Start starts the display driver.
func (g *glfwDriver) Start(frames <-chan []byte, evts <-chan event.Event, pressed, released chan<- input.Intent) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	width, height := g.game.Size()
	aspectRatio := float32(width) / float32(height)

	// create window
	window, err := glfw.CreateWindow(int(float64(width)*g.scale), int(float64(height)*g.scale), g.game.Title(), nil, nil)
	if err != nil {
		return fmt.Errorf("glfw: %w", err)
	}

	if g.maintainAspectRatio {
		window.SetAspectRatio(width, height)
	}
	mon := glfw.GetPrimaryMonitor()
	// fullscreen
	if g.fullscreen {
		bestMode := getBestMode(mon)
		window.SetMonitor(mon, 0, 0, bestMode.Width, bestMode.Height, bestMode.RefreshRate)
	}

	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	// initialize OpenGL once the context is current
	if err := gl.Init(); err != nil {
		return fmt.Errorf("opengl: %w", err)
	}

	// initialize window settings
	g.windowSettings.width, g.windowSettings.height = window.GetSize()
	g.windowSettings.xPos, g.windowSettings.yPos = window.GetPos()

	var texture uint32
	{
		gl.GenTextures(1, &texture)

		gl.BindTexture(gl.TEXTURE_2D, texture)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	}

	// setup event handling
	keyHandler := display.NewKeyHandler(g.game, pressed, released)
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		k, ok := keys[key]
		switch {
		case action == glfw.Press && key == glfw.KeyF11:
			// toggle fullscreen
			if g.fullscreen {
				window.SetMonitor(nil, g.windowSettings.xPos, g.windowSettings.yPos, g.windowSettings.width, g.windowSettings.height, 60)
			} else {
				// store the current window settings
				g.windowSettings.width, g.windowSettings.height = window.GetSize()
				g.windowSettings.xPos, g.windowSettings.yPos = window.GetPos()

				bestMode := getBestMode(mon)
				window.SetMonitor(mon, 0, 0, bestMode.Width, bestMode.Height, bestMode.RefreshRate)
			}

			g.fullscreen = !g.fullscreen
		case !ok:
		case action == glfw.Press:
			keyHandler.Press(k)
		case action == glfw.Release:
			keyHandler.Release(k)
		}
	})

	var fb uint32
	{
		gl.GenFramebuffers(1, &fb)
		gl.BindFramebuffer(gl.FRAMEBUFFER, fb)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, texture, 0)

		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fb)
		gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	}

	// handle resizing
	fbWidth, fbHeight := window.GetFramebufferSize()
	var targetWidth, targetHeight, offsetX, offsetY int32
	resize := func(w, h int) {
		if float32(w)/float32(h) > aspectRatio {
			targetWidth = int32(float32(h) * aspectRatio)
			targetHeight = int32(h)
		} else {
			targetWidth = int32(w)
			targetHeight = int32(float32(w) / aspectRatio)
		}

		offsetX = (int32(w) - targetWidth) / 2
		offsetY = (int32(h) - targetHeight) / 2
		gl.Viewport(0, 0, int32(w), int32(h))
	}
	resize(fbWidth, fbHeight)
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		resize(w, h)
	})

	pollTicker := time.NewTicker(time.Millisecond * 100) // to handle when paused
	defer pollTicker.Stop()
	// draw loop
	for {
		select {
		case f := <-frames:
			glfw.PollEvents()
			if window.ShouldClose() {
				g.game.SendCommand(display.Close)
				return nil
			}
			gl.ClearColor(0, 0, 0, 1)
			gl.Clear(gl.COLOR_BUFFER_BIT)

			gl.BindTexture(gl.TEXTURE_2D, texture)
			gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(f))

			// row 0 of the frame is the top of the screen, so the blit flips vertically
			gl.BlitFramebuffer(0, 0, int32(width), int32(height), offsetX, offsetY+targetHeight, offsetX+targetWidth, offsetY, gl.COLOR_BUFFER_BIT, gl.NEAREST)

			window.SwapBuffers()
		case e := <-evts:
			switch e.Type {
			case event.Title:
				window.SetTitle(e.Data.(string))
			case event.Screenshot:
				window.SetTitle(fmt.Sprintf("%s | saved %s", g.game.Title(), e.Data.(string)))
			case event.Quit:
				return nil
			}
		case <-pollTicker.C:
			glfw.PollEvents()
			if window.ShouldClose() {
				g.game.SendCommand(display.Close)
				return nil
			}
		}
	}
}

// Stop stops the display driver.
func (g *glfwDriver) Stop() error {
	glfw.Terminate()

	return nil
}

// getBestMode returns the best video mode for the current monitor
// by choosing the highest resolution that is the closest match to
// the native aspect ratio of the monitor. This should provide a
// reasonable default for most monitors.
func getBestMode(mon *glfw.Monitor) *glfw.VidMode {
	sizeX, sizeY := mon.GetPhysicalSize()
	monAspectRatio := float32(sizeX) / float32(sizeY)
	closestMatch := float32(0)

	best := mon.GetVideoMode()
	for _, vm := range mon.GetVideoModes() {
		// skip modes that aren't 60FPS
		if vm.RefreshRate != 60 {
			continue
		}

		// skip modes that have a worse aspect ratio match
		vmAspectRatio := float32(vm.Width) / float32(vm.Height)
		if monAspectRatio-vmAspectRatio > closestMatch {
			continue
		}

		closestMatch = vmAspectRatio - monAspectRatio
		best = vm
	}

	return best
}

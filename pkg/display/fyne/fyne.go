//go:build !test

// Package fyne provides a display driver built on the fyne
// toolkit. Frames are copied into an image backing a
// canvas.Raster, which fyne scales to the window.
package fyne

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/thelolagemann/alien8/internal/input"
	"github.com/thelolagemann/alien8/pkg/display"
	"github.com/thelolagemann/alien8/pkg/display/event"
	"github.com/thelolagemann/alien8/pkg/utils"
)

func init() {
	driver := &fyneDriver{}
	display.Install("fyne", driver, []display.DriverOption{
		{
			Name:        "scale",
			Default:     4.0,
			Value:       &driver.scale,
			Type:        "float",
			Description: "Scale the window by this factor",
		},
	})
}

var keys = map[fyne.KeyName]display.Key{
	fyne.KeyLeft:   display.KeyLeft,
	fyne.KeyRight:  display.KeyRight,
	fyne.KeyUp:     display.KeyUp,
	fyne.KeyDown:   display.KeyDown,
	fyne.KeyW:      display.KeyW,
	fyne.KeyA:      display.KeyA,
	fyne.KeyS:      display.KeyS,
	fyne.KeyD:      display.KeyD,
	fyne.KeyEscape: display.KeyEscape,
	fyne.KeyP:      display.KeyP,
	fyne.KeyR:      display.KeyR,
	fyne.KeyF12:    display.KeyF12,
}

type fyneDriver struct {
	scale float64

	game   display.Game
	app    fyne.App
	window fyne.Window
	img    *image.RGBA
	raster *canvas.Raster
}

func (f *fyneDriver) Initialize(game display.Game) {
	f.game = game
}

// Start starts the display driver. It blocks until the window is
// closed.
func (f *fyneDriver) Start(frames <-chan []byte, evts <-chan event.Event, pressed, released chan<- input.Intent) error {
	width, height := f.game.Size()

	f.app = app.NewWithID("com.github.thelolagemann.alien8")
	f.app.Settings().SetTheme(&defaultTheme{})

	f.window = f.app.NewWindow(f.game.Title())
	f.window.SetPadded(false)
	f.window.Resize(fyne.NewSize(float32(float64(width)*f.scale), float32(float64(height)*f.scale)))

	// create the image to draw to
	f.img = image.NewRGBA(image.Rect(0, 0, width, height))

	// create the canvas
	f.raster = canvas.NewRasterFromImage(f.img)
	f.raster.ScaleMode = canvas.ImageScalePixels
	f.raster.SetMinSize(fyne.NewSize(float32(width), float32(height)))
	f.window.SetContent(f.raster)

	// handle input
	keyHandler := display.NewKeyHandler(f.game, pressed, released)
	keyHandler.OnScreenshot = func(path string, err error) {
		if err != nil {
			f.window.SetTitle(statusTitle(f.game.Title(), "screenshot", err))
			return
		}
		// offer a copy on the clipboard as well as the file on disk
		if err := utils.CopyImage(f.img); err != nil {
			f.window.SetTitle(statusTitle(f.game.Title(), "copy to clipboard", err))
		}
	}
	if desk, ok := f.window.Canvas().(desktop.Canvas); ok {
		desk.SetOnKeyDown(func(e *fyne.KeyEvent) {
			if e.Name == fyne.KeyF11 {
				// save a copy of the current frame wherever the user chooses
				snapshot := image.NewRGBA(f.img.Rect)
				copy(snapshot.Pix, f.img.Pix)
				if err := utils.SaveImage(snapshot); err != nil {
					f.window.SetTitle(statusTitle(f.game.Title(), "save", err))
				}
				return
			}
			if k, ok := keys[e.Name]; ok {
				if keyHandler.Press(k) == display.ActionClose {
					f.window.Close()
				}
			}
		})
		desk.SetOnKeyUp(func(e *fyne.KeyEvent) {
			if k, ok := keys[e.Name]; ok {
				keyHandler.Release(k)
			}
		})
	}
	f.window.SetOnClosed(func() {
		f.game.SendCommand(display.Close)
	})

	go func() {
		for {
			select {
			case frame := <-frames:
				copy(f.img.Pix, frame)
				f.raster.Refresh()
			case e := <-evts:
				switch e.Type {
				case event.Title:
					f.window.SetTitle(e.Data.(string))
				case event.Screenshot:
					f.window.SetTitle(statusTitle(f.game.Title(), "saved "+e.Data.(string), nil))
				case event.Quit:
					f.app.Quit()
					return
				}
			}
		}
	}()

	f.window.ShowAndRun()
	return nil
}

// Stop stops the display driver.
func (f *fyneDriver) Stop() error {
	if f.app != nil {
		f.app.Quit()
	}
	return nil
}
